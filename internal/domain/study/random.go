package study

import "math/rand/v2"

// Source is the randomness used for picking targets and shuffling.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a deterministic Source for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a Source seeded from the runtime's generator.
// A Source is not safe for concurrent use; give each session its own.
func NewRandomSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// shuffle permutes items in place with a Fisher-Yates shuffle.
func shuffle[T any](items []T, rng Source) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
