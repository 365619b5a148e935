package study

import (
	"math/rand"

	"github.com/wordpace/wordpace-backend/internal/domain"
)

// SampleWords draws a uniformly random subset of the pool without
// replacement, size min(n, len(pool)). The pool itself is not modified.
//
// The shuffle is Fisher–Yates over a copy, so every permutation of the pool
// is equally likely; the rng is injected to keep tests deterministic.
func SampleWords(pool []domain.Word, n int, rng *rand.Rand) []domain.Word {
	return sampleSubset(pool, n, rng)
}

func sampleSubset[T any](pool []T, n int, rng *rand.Rand) []T {
	if n < 0 {
		n = 0
	}
	if n > len(pool) {
		n = len(pool)
	}

	shuffled := make([]T, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:n]
}
