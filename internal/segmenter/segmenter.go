// Package segmenter assigns customers to marketing segments by balance.
package segmenter

import (
	"fjacquet/sdw-news/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// StarterCeiling is the highest balance still classified as starter.
	StarterCeiling = decimal.NewFromInt(5000)
	// GrowingCeiling is the highest balance still classified as growing.
	GrowingCeiling = decimal.NewFromInt(10000)
)

// Classify maps a balance to its segment. Zero and negative balances are
// starter.
func Classify(balance decimal.Decimal) models.Segment {
	switch {
	case balance.LessThanOrEqual(StarterCeiling):
		return models.SegmentStarter
	case balance.LessThanOrEqual(GrowingCeiling):
		return models.SegmentGrowing
	default:
		return models.SegmentInvestor
	}
}

// ClassifyCustomer classifies a customer by account balance.
func ClassifyCustomer(c models.Customer) models.Segment {
	return Classify(c.Account.Balance)
}

// ClassifyAll returns one segment per customer, index-aligned.
func ClassifyAll(customers []models.Customer) []models.Segment {
	segments := make([]models.Segment, len(customers))
	for i, c := range customers {
		segments[i] = ClassifyCustomer(c)
	}
	return segments
}
