package app

import (
	"math/rand"

	"guess-the-app/internal/domain"
)

// Shuffle returns a uniformly random permutation of items without touching
// the input. A nil rng draws from the process-wide source.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(rng, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func intn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}

// BuildSession shuffles the question order and, independently, each
// question's options. Options are re-indexed 1..N in their new order.
func BuildSession(rng *rand.Rand, questions []domain.Question) []domain.Question {
	ordered := Shuffle(rng, questions)
	for i, q := range ordered {
		opts := Shuffle(rng, q.Options)
		for idx := range opts {
			opts[idx].ID = idx + 1
		}
		ordered[i].Options = opts
	}
	return ordered
}
