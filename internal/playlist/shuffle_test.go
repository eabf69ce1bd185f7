package playlist

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

func TestPermutation_IsPermutation(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for n := range 50 {
		order := Permutation(n, r)
		if !isPermutation(order, n) {
			t.Fatalf("Permutation(%d) = %v, not a permutation", n, order)
		}
	}
}

func TestPermutation_DeterministicWithSeed(t *testing.T) {
	a := Permutation(20, rand.New(rand.NewPCG(42, 7)))
	b := Permutation(20, rand.New(rand.NewPCG(42, 7)))

	if !slices.Equal(a, b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}
}

func TestPermutation_ActuallyShuffles(t *testing.T) {
	order := Permutation(20, rand.New(rand.NewPCG(3, 4)))
	if slices.Equal(order, Identity(20)) {
		t.Error("Permutation(20) returned identity order")
	}
}

func TestIdentity(t *testing.T) {
	if got := Identity(3); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("Identity(3) = %v", got)
	}
	if got := Identity(0); len(got) != 0 {
		t.Errorf("Identity(0) = %v, want empty", got)
	}
	if got := Identity(-1); len(got) != 0 {
		t.Errorf("Identity(-1) = %v, want empty", got)
	}
}
