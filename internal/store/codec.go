package store

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/golang/snappy"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/network"
)

// CompressEdges groups an edge list by source node. Target order within a
// source follows the input order.
func CompressEdges(edges []network.Edge) map[int][]int {
	m := make(map[int][]int)
	for _, e := range edges {
		m[e.Source] = append(m[e.Source], e.Target)
	}
	return m
}

// UnpackEdges flattens a source-keyed mapping back into an edge list with
// sources ascending and targets in stored order.
func UnpackEdges(m map[int][]int) []network.Edge {
	sources := make([]int, 0, len(m))
	for source := range m {
		sources = append(sources, source)
	}
	sort.Ints(sources)

	edges := make([]network.Edge, 0)
	for _, source := range sources {
		for _, target := range m[source] {
			edges = append(edges, network.Edge{Source: source, Target: target})
		}
	}
	return edges
}

// EncodeEdgeBlob serializes edges as uvarints (count, then source/target
// pairs) and compresses the result with snappy.
func EncodeEdgeBlob(edges []network.Edge) []byte {
	buf := make([]byte, 0, 1+4*len(edges))
	buf = binary.AppendUvarint(buf, uint64(len(edges)))
	for _, e := range edges {
		buf = binary.AppendUvarint(buf, uint64(e.Source))
		buf = binary.AppendUvarint(buf, uint64(e.Target))
	}
	return snappy.Encode(nil, buf)
}

// maxNodeID bounds decoded node ids so they always fit an int.
const maxNodeID = math.MaxInt32

// DecodeEdgeBlob reverses EncodeEdgeBlob.
func DecodeEdgeBlob(blob []byte) ([]network.Edge, error) {
	raw, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, fmt.Errorf("decompressing edges: %w", err)
	}

	next := func(what string, limit uint64) (int, error) {
		v, n := binary.Uvarint(raw)
		if n <= 0 {
			return 0, fmt.Errorf("%w: truncated edge blob", ErrInvalidRecord)
		}
		if v > limit {
			return 0, fmt.Errorf("%w: %s %d out of range", ErrInvalidRecord, what, v)
		}
		raw = raw[n:]
		return int(v), nil
	}

	v, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, fmt.Errorf("%w: truncated edge blob", ErrInvalidRecord)
	}
	raw = raw[n:]
	// Every edge takes at least two bytes.
	if v > uint64(len(raw)/2) {
		return nil, fmt.Errorf("%w: edge count %d exceeds blob size", ErrInvalidRecord, v)
	}
	count := int(v)
	edges := make([]network.Edge, 0, count)
	for i := 0; i < count; i++ {
		source, err := next("source", maxNodeID)
		if err != nil {
			return nil, err
		}
		target, err := next("target", maxNodeID)
		if err != nil {
			return nil, err
		}
		edges = append(edges, network.Edge{Source: source, Target: target})
	}
	if len(raw) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes in edge blob", ErrInvalidRecord, len(raw))
	}
	return edges, nil
}
