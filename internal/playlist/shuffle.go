package playlist

import "math/rand/v2"

// Permutation returns a Fisher–Yates shuffle of [0, n) drawn from r.
// It does not touch any shared state, so a seeded r gives a fixed result.
func Permutation(n int, r *rand.Rand) []int {
	order := Identity(n)
	for i := n - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Identity returns [0, 1, ..., n-1].
func Identity(n int) []int {
	if n < 0 {
		n = 0
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
