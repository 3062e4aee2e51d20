package model

import "github.com/shopspring/decimal"

// AmountBucket is an ordinal size class for a transaction amount.
type AmountBucket string

const (
	BucketLow    AmountBucket = "low"
	BucketMedium AmountBucket = "medium"
	BucketHigh   AmountBucket = "high"
)

var (
	bucketMediumFloor = decimal.NewFromInt(50)
	bucketHighFloor   = decimal.NewFromInt(500)
)

// BucketFor classifies abs(debit - credit). Floors are inclusive: 50 is
// medium and 500 is high. Training and prediction must both go through here.
func BucketFor(debit, credit decimal.Decimal) AmountBucket {
	return BucketOf(debit.Sub(credit).Abs())
}

// BucketOf classifies a non-negative amount.
func BucketOf(amount decimal.Decimal) AmountBucket {
	switch {
	case amount.LessThan(bucketMediumFloor):
		return BucketLow
	case amount.LessThan(bucketHighFloor):
		return BucketMedium
	default:
		return BucketHigh
	}
}
