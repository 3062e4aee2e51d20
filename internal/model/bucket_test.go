package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBucketOf_Boundaries(t *testing.T) {
	tests := []struct {
		amount string
		want   AmountBucket
	}{
		{"0", BucketLow},
		{"49.99", BucketLow},
		{"50.00", BucketMedium},
		{"499.99", BucketMedium},
		{"500.00", BucketHigh},
		{"12000", BucketHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketOf(dec(tt.amount)), "BucketOf(%s)", tt.amount)
	}
}

func TestBucketFor_UsesAbsoluteDifference(t *testing.T) {
	assert.Equal(t, BucketMedium, BucketFor(dec("0"), dec("75.00")))
	assert.Equal(t, BucketMedium, BucketFor(dec("75.00"), dec("0")))
	assert.Equal(t, BucketLow, BucketFor(dec("100"), dec("60")))
	assert.Equal(t, BucketLow, BucketFor(decimal.Zero, decimal.Zero))
}
