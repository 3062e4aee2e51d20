package classifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercat/internal/dataset"
	"github.com/cleared-dev/ledgercat/internal/model"
	"github.com/cleared-dev/ledgercat/internal/vendor"
)

// Features are the model inputs derived from one row.
type Features struct {
	Vendor string
	Bucket model.AmountBucket
	Month  int // 1-12; undated rows use 1
}

// Extract derives features from raw row values. The vendor is normalized
// again so callers may pass unnormalized descriptions.
func Extract(vendorName string, date time.Time, debit, credit decimal.Decimal) Features {
	month := 1
	if !date.IsZero() {
		month = int(date.Month())
	}
	return Features{
		Vendor: vendor.Normalize(vendorName),
		Bucket: model.BucketFor(debit, credit),
		Month:  month,
	}
}

// FromExample extracts features from a dataset row.
func FromExample(ex dataset.Example) Features {
	return Extract(ex.Vendor, ex.Date, ex.Debit, ex.Credit)
}

// Terms renders the features as a bag of words: the vendor's tokens plus
// one pseudo-term per categorical feature.
func (f Features) Terms() []string {
	words := strings.Fields(f.Vendor)
	terms := make([]string, 0, len(words)+3)
	terms = append(terms, words...)
	terms = append(terms,
		"vendor: "+f.Vendor,
		"bucket: "+string(f.Bucket),
		fmt.Sprintf("month: %d", f.Month),
	)
	return terms
}
