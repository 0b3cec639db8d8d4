// Package rng provides the injectable random source used by network
// generation and voting rounds.
//
// A *rand.Rand from math/rand/v2 is not safe for concurrent use. Give every
// community its own stream via New(Derive(seed, n)) instead of sharing one.
package rng

import (
	"fmt"
	"math/rand/v2"
)

// Source is the subset of *rand.Rand the simulation consumes.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
	// Shuffle permutes n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

// New returns a PCG-backed source seeded deterministically from seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, Derive(seed, 0x6d766361)))
}

// NewRandom returns a source seeded from the process-wide generator.
// Use it only where reproducibility is not required.
func NewRandom() *rand.Rand {
	return New(rand.Uint64())
}

// SeedOrRandom returns *seed, or a freshly drawn seed when seed is nil.
func SeedOrRandom(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return rand.Uint64()
}

// Derive mixes a parent seed and a stream id into an independent child seed
// (SplitMix64 finalizer).
func Derive(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Choice returns a uniformly chosen element of items.
// items must be non-empty.
func Choice(src Source, items []int) int {
	return items[src.IntN(len(items))]
}

// Sample draws k distinct elements of items without replacement.
// items is not modified. Order of the result is the draw order.
func Sample(src Source, items []int, k int) ([]int, error) {
	if k < 0 || k > len(items) {
		return nil, fmt.Errorf("sample of %d from population of %d", k, len(items))
	}
	pool := make([]int, len(items))
	copy(pool, items)
	// Partial Fisher-Yates over the first k positions.
	for i := 0; i < k; i++ {
		j := i + src.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k], nil
}

// WeightedIndex returns an index drawn with probability proportional to
// weights[i]. It returns false when the weights are empty or all zero; the
// caller decides the fallback.
func WeightedIndex(src Source, weights []int) (int, bool) {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return 0, false
	}
	r := src.IntN(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return i, true
		}
		r -= w
	}
	// Unreachable: r < total.
	return len(weights) - 1, true
}
