package bloombroom

import "math"

const (
	// ln2 is the natural logarithm of 2.
	ln2 = 0.6931471805599453
	// ln2Squared is ln(2)^2.
	ln2Squared = 0.4804530139182014
)

// OptimalParams calculates the bucket count m and hash position count k that
// minimize memory for the expected number of items at the desired false
// positive rate:
//
//	m = ceil(-n * ln(p) / ln(2)^2)
//	k = round((m/n) * ln(2))
//
// Degenerate inputs are defaulted: zero items is treated as one, and rates
// outside (0, 1) fall back to 0.01% and 99% respectively.
func OptimalParams(expectedItems uint64, fpRate float64) (m uint64, k uint32) {
	if expectedItems == 0 {
		expectedItems = 1
	}
	if fpRate <= 0 {
		fpRate = 0.0001 // default to 0.01%
	}
	if fpRate >= 1 {
		fpRate = 0.99
	}

	n := float64(expectedItems)
	mf := math.Ceil(-n * math.Log(fpRate) / ln2Squared)
	m = uint64(mf)

	k = uint32(math.Round(mf / n * ln2))
	k = max(k, 1)

	return m, k
}

// EstimateFalsePositiveRate estimates the false positive rate of a filter
// with m buckets and k hash positions after itemsAdded insertions.
// Formula: (1 - e^(-kn/m))^k
func EstimateFalsePositiveRate(m uint64, k uint32, itemsAdded uint64) float64 {
	if m == 0 || itemsAdded == 0 {
		return 0
	}

	mf := float64(m)
	n := float64(itemsAdded)
	kf := float64(k)

	return math.Pow(1-math.Exp(-kf*n/mf), kf)
}
