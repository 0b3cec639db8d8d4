// Package ranking scores how much attention each node of a community
// network receives.
package ranking

import (
	"errors"
	"fmt"
	"math"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/network"
)

// ErrInvalidConfig is returned for damping factors outside [0, 1] or
// non-positive iteration limits.
var ErrInvalidConfig = errors.New("invalid pagerank config")

// PageRankConfig holds configuration for PageRank computation.
type PageRankConfig struct {
	// DampingFactor (d) is the probability of following an edge vs. teleporting.
	// Standard value: 0.85.
	DampingFactor float64

	// MaxIterations is the maximum number of power iteration steps. Default: 100.
	MaxIterations int

	// Tolerance is the convergence threshold. Default: 1e-9.
	Tolerance float64
}

// DefaultPageRankConfig returns the default PageRank configuration.
func DefaultPageRankConfig() PageRankConfig {
	return PageRankConfig{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-9,
	}
}

// ComputePageRank calculates a PageRank score per node of net.
// Scores are indexed by node and sum to 1.
//
// An edge u->v means u listens to v, so rank flows from u to v and the
// nodes that many well-listened nodes listen to score highest.
//
// Algorithm: Standard power iteration
//  1. Initialize all nodes with score = 1/N
//  2. For each iteration:
//     PR(v) = (1-d)/N + d * (sum(PR(u)/outDegree(u)) for u->v + dangling/N)
//  3. Converge when max change < Tolerance
//
// Nodes without out-edges spread their rank uniformly.
func ComputePageRank(net *network.Network, config PageRankConfig) ([]float64, error) {
	if !(config.DampingFactor >= 0 && config.DampingFactor <= 1) {
		return nil, fmt.Errorf("%w: damping factor must be in [0, 1], got %v", ErrInvalidConfig, config.DampingFactor)
	}
	if config.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, config.MaxIterations)
	}

	n := net.NumberOfNodes()
	if n == 0 {
		return []float64{}, nil
	}

	d := config.DampingFactor
	nf := float64(n)
	scores := make([]float64, n)
	for v := range scores {
		scores[v] = 1.0 / nf
	}
	next := make([]float64, n)

	for iter := 0; iter < config.MaxIterations; iter++ {
		dangling := 0.0
		for v := range next {
			next[v] = 0
		}
		for u := 0; u < n; u++ {
			deg := net.OutDegree(u)
			if deg == 0 {
				dangling += scores[u]
				continue
			}
			share := scores[u] / float64(deg)
			for _, v := range net.OutNeighbors(u) {
				next[v] += share
			}
		}

		maxDelta := 0.0
		for v := range next {
			next[v] = (1.0-d)/nf + d*(next[v]+dangling/nf)
			if delta := math.Abs(next[v] - scores[v]); delta > maxDelta {
				maxDelta = delta
			}
		}
		scores, next = next, scores

		if maxDelta < config.Tolerance {
			break
		}
	}

	return scores, nil
}

// PartitionShare returns the total score held by the members of p.
func PartitionShare(net *network.Network, scores []float64, p models.Partition) float64 {
	total := 0.0
	for _, node := range net.Members(p) {
		total += scores[node]
	}
	return total
}
