package network

import (
	"fmt"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/rng"
)

// Build constructs a network from cfg, drawing all randomness from src.
// No partially built network is returned on error.
func Build(cfg Config, src rng.Source) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Mode() {
	case ModeFromEdges:
		return fromEdges(cfg)
	case ModeHomophilic:
		initial, err := homophilicWiring(cfg, src)
		if err != nil {
			return nil, err
		}
		return rewire(cfg, initial, src), nil
	default:
		initial, err := uniformWiring(cfg, src)
		if err != nil {
			return nil, err
		}
		return rewire(cfg, initial, src), nil
	}
}

// fromEdges replays an explicit edge list verbatim.
func fromEdges(cfg Config) (*Network, error) {
	net := newNetwork(cfg.NumberOfNodes, cfg.NumberOfElites, cfg.Degree)
	for i, e := range cfg.Edges {
		if e.Source < 0 || e.Source >= cfg.NumberOfNodes || e.Target < 0 || e.Target >= cfg.NumberOfNodes {
			return nil, fmt.Errorf("%w: edge %d (%d->%d) references a node outside [0, %d)",
				ErrConfiguration, i, e.Source, e.Target, cfg.NumberOfNodes)
		}
		if e.Source == e.Target {
			return nil, fmt.Errorf("%w: edge %d is a self-loop on node %d", ErrConfiguration, i, e.Source)
		}
		if net.hasEdge(e.Source, e.Target) {
			return nil, fmt.Errorf("%w: edge %d (%d->%d) is a duplicate", ErrConfiguration, i, e.Source, e.Target)
		}
		net.addEdge(e.Source, e.Target)
	}
	return net, nil
}

// uniformWiring gives every node Degree distinct targets drawn uniformly
// from all other nodes.
func uniformWiring(cfg Config, src rng.Source) ([]Edge, error) {
	edges := make([]Edge, 0, cfg.NumberOfNodes*cfg.Degree)
	others := make([]int, 0, cfg.NumberOfNodes-1)
	for source := 0; source < cfg.NumberOfNodes; source++ {
		others = others[:0]
		for node := 0; node < cfg.NumberOfNodes; node++ {
			if node != source {
				others = append(others, node)
			}
		}
		targets, err := rng.Sample(src, others, cfg.Degree)
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrConfiguration, source, err)
		}
		for _, t := range targets {
			edges = append(edges, Edge{Source: source, Target: t})
		}
	}
	return edges, nil
}

// homophilicWiring draws, for each of a node's Degree edges, whether it is
// same-type (probability h) or cross-type, then samples that many distinct
// targets from each partition.
func homophilicWiring(cfg Config, src rng.Source) ([]Edge, error) {
	h := *cfg.ProbabilityHomophilicAttachment
	elites, mass := partitionMembers(cfg)
	edges := make([]Edge, 0, cfg.NumberOfNodes*cfg.Degree)

	for source := 0; source < cfg.NumberOfNodes; source++ {
		same := 0
		for k := 0; k < cfg.Degree; k++ {
			if src.Float64() < h {
				same++
			}
		}
		cross := cfg.Degree - same

		own, other := mass, elites
		if models.PartitionOf(source, cfg.NumberOfElites) == models.Elite {
			own, other = elites, mass
		}
		ownPool := without(own, source)

		if same > len(ownPool) {
			return nil, fmt.Errorf("%w: node %d needs %d same-type targets but only %d are available (degree %d too high for partition)",
				ErrConfiguration, source, same, len(ownPool), cfg.Degree)
		}
		if cross > len(other) {
			return nil, fmt.Errorf("%w: node %d needs %d cross-type targets but only %d are available (degree %d too high for partition)",
				ErrConfiguration, source, cross, len(other), cfg.Degree)
		}

		sameTargets, err := rng.Sample(src, ownPool, same)
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrConfiguration, source, err)
		}
		crossTargets, err := rng.Sample(src, other, cross)
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrConfiguration, source, err)
		}
		for _, t := range sameTargets {
			edges = append(edges, Edge{Source: source, Target: t})
		}
		for _, t := range crossTargets {
			edges = append(edges, Edge{Source: source, Target: t})
		}
	}
	return edges, nil
}

// rewire processes the initial edges once in random order. Each edge keeps
// its source and the partition of its target; the new target is chosen
// uniformly with probability ProbabilityPreferentialAttachment and otherwise
// in proportion to in-degree in the network being built. When every
// candidate still has in-degree zero the choice falls back to uniform.
// An edge with no candidate left is dropped.
func rewire(cfg Config, initial []Edge, src rng.Source) *Network {
	src.Shuffle(len(initial), func(i, j int) { initial[i], initial[j] = initial[j], initial[i] })

	elites, mass := partitionMembers(cfg)
	net := newNetwork(cfg.NumberOfNodes, cfg.NumberOfElites, cfg.Degree)
	candidates := make([]int, 0, cfg.NumberOfNodes)
	weights := make([]int, 0, cfg.NumberOfNodes)

	for _, e := range initial {
		pool := mass
		if models.PartitionOf(e.Target, cfg.NumberOfElites) == models.Elite {
			pool = elites
		}

		candidates = candidates[:0]
		for _, node := range pool {
			if node != e.Source && !net.hasEdge(e.Source, node) {
				candidates = append(candidates, node)
			}
		}
		if len(candidates) == 0 {
			net.dropped++
			continue
		}

		var target int
		if src.Float64() < cfg.ProbabilityPreferentialAttachment {
			target = rng.Choice(src, candidates)
		} else {
			weights = weights[:0]
			for _, node := range candidates {
				weights = append(weights, net.in[node])
			}
			idx, ok := rng.WeightedIndex(src, weights)
			if !ok {
				idx = src.IntN(len(candidates))
			}
			target = candidates[idx]
		}
		net.addEdge(e.Source, target)
	}
	return net
}

func partitionMembers(cfg Config) (elites, mass []int) {
	elites = make([]int, 0, cfg.NumberOfElites)
	mass = make([]int, 0, cfg.NumberOfNodes-cfg.NumberOfElites)
	for node := 0; node < cfg.NumberOfNodes; node++ {
		if node < cfg.NumberOfElites {
			elites = append(elites, node)
		} else {
			mass = append(mass, node)
		}
	}
	return elites, mass
}

func without(nodes []int, exclude int) []int {
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if n != exclude {
			out = append(out, n)
		}
	}
	return out
}
