package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/community"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/network"
)

// Record is the persisted layout of a community: its generative parameters
// plus the exact edge set, keyed by source node.
type Record struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	community.Params `yaml:",inline"`
	Edges map[int][]int `json:"edges" yaml:"edges"`
}

// NewID returns a fresh community id.
func NewID() string {
	return uuid.NewString()
}

// RecordFromCommunity captures c under id. An empty id gets a fresh one.
func RecordFromCommunity(id string, c *community.Community) *Record {
	if id == "" {
		id = NewID()
	}
	return &Record{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Params:    c.Params(),
		Edges:     CompressEdges(c.Edges()),
	}
}

// EdgeCount returns the number of stored edges.
func (r *Record) EdgeCount() int {
	n := 0
	for _, targets := range r.Edges {
		n += len(targets)
	}
	return n
}

// EdgeList expands the stored edges, sources ascending.
func (r *Record) EdgeList() []network.Edge {
	return UnpackEdges(r.Edges)
}

// Rebuild reconstructs the community from the stored edge set. Node types and
// competences follow from the stored parameters.
func (r *Record) Rebuild(opts ...community.Option) (*community.Community, error) {
	opts = append(opts, community.WithEdges(r.EdgeList()))
	return community.New(r.Params, opts...)
}

// Summary returns the listing view of r.
func (r *Record) Summary() Summary {
	return Summary{
		ID:                              r.ID,
		CreatedAt:                       r.CreatedAt,
		NumberOfNodes:                   r.NumberOfNodes,
		NumberOfElites:                  r.NumberOfElites,
		Degree:                          r.Degree,
		EdgeCount:                       r.EdgeCount(),
		ProbabilityHomophilicAttachment: r.ProbabilityHomophilicAttachment,
	}
}

func cloneRecord(r *Record) *Record {
	cp := *r
	if r.ProbabilityHomophilicAttachment != nil {
		h := *r.ProbabilityHomophilicAttachment
		cp.ProbabilityHomophilicAttachment = &h
	}
	cp.Edges = make(map[int][]int, len(r.Edges))
	for source, targets := range r.Edges {
		cp.Edges[source] = append([]int(nil), targets...)
	}
	return &cp
}
