package review

import "github.com/shopspring/decimal"

// Aggregate computes the derived rating fields for a product from the full
// set of its current review ratings: the arithmetic mean rounded to one
// decimal place, and the count. An empty set yields 0 and 0 (a reviewless
// product, e.g. after its last review was deleted).
func Aggregate(ratings []int) (decimal.Decimal, int) {
	if len(ratings) == 0 {
		return decimal.Zero, 0
	}

	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromInt(int64(r)))
	}

	mean := sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(1)
	return mean, len(ratings)
}
