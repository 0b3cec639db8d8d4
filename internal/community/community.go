// Package community couples a generated network with per-node competence and
// runs majority-vote rounds over it.
package community

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/constants"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/network"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/rng"
)

// ErrConfiguration is returned when parameters cannot produce a community.
var ErrConfiguration = network.ErrConfiguration

// ErrTooLarge is returned by CheckSize for requests beyond the interactive
// generation limits.
var ErrTooLarge = errors.New("community too large")

// Params are the generative parameters of a community.
type Params struct {
	NumberOfNodes                     int      `json:"number_of_nodes" yaml:"number_of_nodes"`
	NumberOfElites                    int      `json:"number_of_elites" yaml:"number_of_elites"`
	Degree                            int      `json:"degree" yaml:"degree"`
	EliteCompetence                   float64  `json:"elite_competence" yaml:"elite_competence"`
	MassCompetence                    float64  `json:"mass_competence" yaml:"mass_competence"`
	ProbabilityPreferentialAttachment float64  `json:"probability_preferential_attachment" yaml:"probability_preferential_attachment"`
	ProbabilityHomophilicAttachment   *float64 `json:"probability_homophilic_attachment" yaml:"probability_homophilic_attachment"`
}

// DefaultParams returns the reference configuration: 100 nodes, 40 elites,
// degree 6, competences 0.7/0.6, preferential probability 0.6, uniform wiring.
func DefaultParams() Params {
	return Params{
		NumberOfNodes:                     100,
		NumberOfElites:                    40,
		Degree:                            6,
		EliteCompetence:                   0.7,
		MassCompetence:                    0.6,
		ProbabilityPreferentialAttachment: 0.6,
	}
}

// NumberOfMass returns N - E.
func (p Params) NumberOfMass() int { return p.NumberOfNodes - p.NumberOfElites }

// CheckSize rejects parameters whose node count or nominal edge count
// (nodes times degree) exceeds the limits for on-request generation.
func (p Params) CheckSize() error {
	if p.NumberOfNodes > constants.MaxNodes {
		return fmt.Errorf("%w: number_of_nodes %d exceeds limit %d", ErrTooLarge, p.NumberOfNodes, constants.MaxNodes)
	}
	if edges := int64(p.NumberOfNodes) * int64(p.Degree); edges > constants.MaxEdges {
		return fmt.Errorf("%w: number_of_nodes * degree = %d exceeds limit %d", ErrTooLarge, edges, constants.MaxEdges)
	}
	return nil
}

func (p Params) networkConfig(edges []network.Edge) network.Config {
	return network.Config{
		NumberOfNodes:                     p.NumberOfNodes,
		NumberOfElites:                    p.NumberOfElites,
		Degree:                            p.Degree,
		ProbabilityPreferentialAttachment: p.ProbabilityPreferentialAttachment,
		ProbabilityHomophilicAttachment:   p.ProbabilityHomophilicAttachment,
		Edges:                             edges,
	}
}

func (p Params) validateCompetence() error {
	for _, c := range []struct {
		name string
		v    float64
	}{{"elite_competence", p.EliteCompetence}, {"mass_competence", p.MassCompetence}} {
		if !(c.v >= 0 && c.v <= 1) {
			return fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrConfiguration, c.name, c.v)
		}
	}
	return nil
}

type options struct {
	src    rng.Source
	edges  []network.Edge
	logger *slog.Logger
}

// Option customizes community construction.
type Option func(*options)

// WithSource sets the random stream used for construction and every voting
// round. The community becomes its sole user.
func WithSource(src rng.Source) Option {
	return func(o *options) { o.src = src }
}

// WithEdges replays an explicit edge list instead of generating one.
func WithEdges(edges []network.Edge) Option {
	return func(o *options) {
		if edges == nil {
			edges = []network.Edge{}
		}
		o.edges = edges
	}
}

// WithLogger sets the logger for construction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Community is one simulated population. It is not safe for concurrent use.
type Community struct {
	params        Params
	mode          network.Mode
	net           *network.Network
	competence    []float64
	neighborhoods [][]int
	opinions      []models.Label
	votes         []models.Label
	src           rng.Source
}

// New builds a community. Construction either succeeds completely or
// returns an error wrapping ErrConfiguration.
func New(p Params, opts ...Option) (*Community, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		o.src = rng.NewRandom()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := p.validateCompetence(); err != nil {
		return nil, err
	}
	cfg := p.networkConfig(o.edges)
	net, err := network.Build(cfg, o.src)
	if err != nil {
		return nil, fmt.Errorf("building network: %w", err)
	}

	c := &Community{
		params:     p,
		mode:       cfg.Mode(),
		net:        net,
		competence: make([]float64, p.NumberOfNodes),
		opinions:   make([]models.Label, p.NumberOfNodes),
		votes:      make([]models.Label, p.NumberOfNodes),
		src:        o.src,
	}
	c.initializeNodeAttributes()
	c.buildNeighborhoods()

	o.logger.Debug("community built",
		"mode", c.mode.String(),
		"nodes", p.NumberOfNodes,
		"elites", p.NumberOfElites,
		"degree", p.Degree,
		"edges", net.EdgeCount(),
		"dropped_edges", net.Dropped())
	return c, nil
}

func (c *Community) initializeNodeAttributes() {
	for node := range c.competence {
		if c.net.PartitionOf(node) == models.Elite {
			c.competence[node] = c.params.EliteCompetence
		} else {
			c.competence[node] = c.params.MassCompetence
		}
	}
}

// buildNeighborhoods caches each node's out-neighbors plus itself.
func (c *Community) buildNeighborhoods() {
	c.neighborhoods = make([][]int, c.params.NumberOfNodes)
	for node := range c.neighborhoods {
		out := c.net.OutNeighbors(node)
		c.neighborhoods[node] = append(out, node)
	}
}

// Params returns the parameters the community was built from.
func (c *Community) Params() Params { return c.params }

// Mode returns how the network was constructed.
func (c *Community) Mode() network.Mode { return c.mode }

// Network returns the underlying network. Its topology is immutable.
func (c *Community) Network() *network.Network { return c.net }

// Edges lists the directed edges for persistence.
func (c *Community) Edges() []network.Edge { return c.net.Edges() }

// Partition returns the segment of node.
func (c *Community) Partition(node int) models.Partition { return c.net.PartitionOf(node) }

// Competence returns the probability that node's opinion is correct.
func (c *Community) Competence(node int) float64 { return c.competence[node] }

// Neighborhood returns node's out-neighbors followed by node itself.
func (c *Community) Neighborhood(node int) []int {
	cp := make([]int, len(c.neighborhoods[node]))
	copy(cp, c.neighborhoods[node])
	return cp
}

// TotalInfluence counts edges pointing into partition p.
func (c *Community) TotalInfluence(p models.Partition) int { return c.net.TotalInfluence(p) }

// InfluenceProportion is the elite share of all incoming edges, or 0 for
// a network without edges.
func (c *Community) InfluenceProportion() float64 {
	total := c.net.EdgeCount()
	if total == 0 {
		return 0
	}
	return float64(c.TotalInfluence(models.Elite)) / float64(total)
}

// Opinions returns a copy of the opinions from the latest round.
func (c *Community) Opinions() []models.Label {
	cp := make([]models.Label, len(c.opinions))
	copy(cp, c.opinions)
	return cp
}

// Votes returns a copy of the votes from the latest round.
func (c *Community) Votes() []models.Label {
	cp := make([]models.Label, len(c.votes))
	copy(cp, c.votes)
	return cp
}

// InDegrees returns the in-degree of every node.
func (c *Community) InDegrees() []int { return c.net.InDegrees() }

// InDegreeHistogram maps in-degree to the number of nodes with it.
func (c *Community) InDegreeHistogram() map[int]int { return c.net.InDegreeHistogram() }

// DroppedEdges counts edges discarded because rewiring found no candidate.
func (c *Community) DroppedEdges() int { return c.net.Dropped() }
