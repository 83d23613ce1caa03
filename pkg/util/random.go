package util

import "math/rand/v2"

// GenerateRandomIndices generates n random basis state indices in the range
// 0..2^m, using a generator seeded from the given value so that test inputs
// are reproducible.
func GenerateRandomIndices(n uint, m uint, seed uint64) []uint64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	items := make([]uint64, n)

	for i := uint(0); i < n; i++ {
		items[i] = rng.Uint64N(uint64(1) << m)
	}

	return items
}

// GenerateRandomProbabilities generates a random probability vector of length
// n (i.e. non-negative entries summing to one).
func GenerateRandomProbabilities(n uint, seed uint64) []float64 {
	var (
		rng   = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		items = make([]float64, n)
		total float64
	)
	//
	for i := range items {
		items[i] = rng.Float64()
		total += items[i]
	}
	//
	for i := range items {
		items[i] /= total
	}
	//
	return items
}
