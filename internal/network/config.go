package network

import (
	"errors"
	"fmt"
)

// ErrConfiguration reports a parameter combination no network can satisfy.
var ErrConfiguration = errors.New("configuration error")

// Mode is the construction path, resolved once from a Config.
type Mode int

const (
	// ModeFromEdges replays an explicit edge list.
	ModeFromEdges Mode = iota
	// ModeUniform wires initial targets uniformly at random.
	ModeUniform
	// ModeHomophilic wires initial targets by same-type probability.
	ModeHomophilic
)

func (m Mode) String() string {
	switch m {
	case ModeFromEdges:
		return "from-edges"
	case ModeUniform:
		return "uniform"
	case ModeHomophilic:
		return "homophilic"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Config holds the structural parameters of a network.
type Config struct {
	NumberOfNodes  int
	NumberOfElites int
	Degree         int

	// ProbabilityPreferentialAttachment is the chance that a rewired edge
	// picks its new target uniformly; otherwise the pick is weighted by
	// current in-degree.
	ProbabilityPreferentialAttachment float64

	// ProbabilityHomophilicAttachment selects homophilic initial wiring
	// when non-nil: each edge is same-type with this probability.
	ProbabilityHomophilicAttachment *float64

	// Edges, when non-nil, bypasses generation entirely.
	Edges []Edge
}

// Mode resolves the construction path.
func (c Config) Mode() Mode {
	switch {
	case c.Edges != nil:
		return ModeFromEdges
	case c.ProbabilityHomophilicAttachment != nil:
		return ModeHomophilic
	default:
		return ModeUniform
	}
}

// Validate checks the invariants every construction path relies on.
func (c Config) Validate() error {
	if c.NumberOfNodes <= 0 {
		return fmt.Errorf("%w: number of nodes must be positive, got %d", ErrConfiguration, c.NumberOfNodes)
	}
	if c.NumberOfElites < 0 {
		return fmt.Errorf("%w: number of elites must be non-negative, got %d", ErrConfiguration, c.NumberOfElites)
	}
	if c.NumberOfElites >= c.NumberOfNodes {
		return fmt.Errorf("%w: number of elites (%d) must be less than number of nodes (%d)",
			ErrConfiguration, c.NumberOfElites, c.NumberOfNodes)
	}
	if c.Degree < 0 {
		return fmt.Errorf("%w: degree must be non-negative, got %d", ErrConfiguration, c.Degree)
	}
	if c.Degree >= c.NumberOfNodes {
		return fmt.Errorf("%w: degree (%d) must be less than number of nodes (%d) to avoid self-loops",
			ErrConfiguration, c.Degree, c.NumberOfNodes)
	}
	if err := checkProbability("probability_preferential_attachment", c.ProbabilityPreferentialAttachment); err != nil {
		return err
	}
	if h := c.ProbabilityHomophilicAttachment; h != nil {
		if err := checkProbability("probability_homophilic_attachment", *h); err != nil {
			return err
		}
	}
	return nil
}

func checkProbability(name string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrConfiguration, name, p)
	}
	return nil
}
