// Package network generates the two-type directed networks voting runs on.
//
// Nodes are integers in [0, N). Elites occupy [0, E) and the mass [E, N).
// A generated network starts from an initial wiring (uniform or homophilic)
// in which every node points at exactly Degree distinct other nodes, then
// rewires every edge once with a mix of uniform and in-degree-preferential
// attachment that keeps the type of the node targeted.
package network

import (
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
)

// Edge is a directed edge from Source to Target.
type Edge struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// Network is an immutable directed graph over two labeled partitions.
type Network struct {
	numberOfElites int
	out            [][]int
	in             []int
	edgeCount      int
	dropped        int
}

func newNetwork(numberOfNodes, numberOfElites, degree int) *Network {
	out := make([][]int, numberOfNodes)
	for i := range out {
		out[i] = make([]int, 0, degree)
	}
	return &Network{
		numberOfElites: numberOfElites,
		out:            out,
		in:             make([]int, numberOfNodes),
	}
}

func (n *Network) addEdge(source, target int) {
	n.out[source] = append(n.out[source], target)
	n.in[target]++
	n.edgeCount++
}

func (n *Network) hasEdge(source, target int) bool {
	for _, t := range n.out[source] {
		if t == target {
			return true
		}
	}
	return false
}

// NumberOfNodes returns N.
func (n *Network) NumberOfNodes() int { return len(n.out) }

// NumberOfElites returns E.
func (n *Network) NumberOfElites() int { return n.numberOfElites }

// EdgeCount returns the number of directed edges.
func (n *Network) EdgeCount() int { return n.edgeCount }

// Dropped returns how many edges rewiring discarded because no eligible
// target remained. Always zero for networks built from explicit edges.
func (n *Network) Dropped() int { return n.dropped }

// PartitionOf returns the segment node belongs to.
func (n *Network) PartitionOf(node int) models.Partition {
	return models.PartitionOf(node, n.numberOfElites)
}

// Members returns the node ids of partition p in ascending order.
func (n *Network) Members(p models.Partition) []int {
	lo, hi := 0, n.numberOfElites
	if p == models.Mass {
		lo, hi = n.numberOfElites, len(n.out)
	}
	ids := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		ids = append(ids, i)
	}
	return ids
}

// OutNeighbors returns a copy of the targets of node in insertion order.
func (n *Network) OutNeighbors(node int) []int {
	cp := make([]int, len(n.out[node]))
	copy(cp, n.out[node])
	return cp
}

// OutDegree returns the number of edges leaving node.
func (n *Network) OutDegree(node int) int { return len(n.out[node]) }

// InDegree returns the number of edges entering node.
func (n *Network) InDegree(node int) int { return n.in[node] }

// InDegrees returns a copy of every node's in-degree, indexed by node id.
func (n *Network) InDegrees() []int {
	cp := make([]int, len(n.in))
	copy(cp, n.in)
	return cp
}

// Edges lists all edges ordered by source, then by insertion order.
// Building from this list reproduces the network exactly.
func (n *Network) Edges() []Edge {
	edges := make([]Edge, 0, n.edgeCount)
	for s, targets := range n.out {
		for _, t := range targets {
			edges = append(edges, Edge{Source: s, Target: t})
		}
	}
	return edges
}

// TotalInfluence counts the edges whose target lies in partition p.
func (n *Network) TotalInfluence(p models.Partition) int {
	total := 0
	for node, d := range n.in {
		if n.PartitionOf(node) == p {
			total += d
		}
	}
	return total
}

// InDegreeHistogram maps each observed in-degree to the number of nodes with it.
func (n *Network) InDegreeHistogram() map[int]int {
	hist := make(map[int]int)
	for _, d := range n.in {
		hist[d]++
	}
	return hist
}
