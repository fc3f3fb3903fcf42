package outbreak

import "math/rand"

// randomVec builds a slice of length n: round(n*pctA) copies of valA,
// followed by round(n*pctB) copies of valB, with the remainder filled by
// valDefault, then shuffled in place. Counts use round (not truncation) so
// that e.g. n=5, pctA=0.6 yields 3 copies of valA.
func randomVec[T any](n int, valA T, pctA float64, valB T, pctB float64, valDefault T, rng *rand.Rand) []T {
	numA := roundHalfAwayFromZero(float64(n) * pctA)
	numB := roundHalfAwayFromZero(float64(n) * pctB)

	result := make([]T, n)
	for i := 0; i < n; i++ {
		switch {
		case i < numA:
			result[i] = valA
		case i < numA+numB:
			result[i] = valB
		default:
			result[i] = valDefault
		}
	}

	rng.Shuffle(n, func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}

// randomBoolVec returns a shuffled slice of length n containing exactly
// floor(n*pctTrue) true values. Unlike randomVec's round-based counting,
// this uses truncation: the two forms diverge at exact .5 boundaries.
func randomBoolVec(n int, pctTrue float64, rng *rand.Rand) []bool {
	numTrue := int(float64(n) * pctTrue)

	result := make([]bool, n)
	for i := 0; i < numTrue; i++ {
		result[i] = true
	}

	rng.Shuffle(n, func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}

func roundHalfAwayFromZero(f float64) int {
	if f < 0 {
		return -roundHalfAwayFromZero(-f)
	}
	return int(f + 0.5)
}
