package simulation

import (
	"fmt"
	"strings"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/community"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/config"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/estimate"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/rng"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/sanitize"
)

// Range is an inclusive float interval.
type Range struct {
	Min, Max float64
}

// Draw returns a uniform value in [Min, Max].
func (r Range) Draw(src rng.Source) float64 {
	return r.Min + (r.Max-r.Min)*src.Float64()
}

func (r Range) String() string {
	return fmt.Sprintf("(%v, %v)", r.Min, r.Max)
}

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min, Max int
}

// Draw returns a uniform integer in [Min, Max].
func (r IntRange) Draw(src rng.Source) int {
	return r.Min + src.IntN(r.Max-r.Min+1)
}

func (r IntRange) String() string {
	return fmt.Sprintf("(%d, %d)", r.Min, r.Max)
}

// Scenario is the parameter space of a batch. Fixed parameters apply to every
// community; ranged ones are drawn per community.
type Scenario struct {
	Name                              string
	NumberOfCommunities               int
	NumberOfVotingSimulations         int
	NumberOfNodes                     int
	Degree                            int
	ProbabilityPreferentialAttachment float64

	EliteCompetenceRange Range
	MassCompetenceRange  Range
	NumberOfElitesRange  IntRange
	// HomophilyRange nil means uniform wiring.
	HomophilyRange *Range

	Alpha  float64
	Method estimate.Method

	// Seed nil asks the runner to draw one.
	Seed *uint64
}

// ScenarioFromConfig converts validated configuration into a Scenario.
func ScenarioFromConfig(name string, c config.SimulationConfig) (Scenario, error) {
	method, err := estimate.ParseMethod(c.IntervalMethod)
	if err != nil {
		return Scenario{}, err
	}
	s := Scenario{
		Name:                              sanitize.SanitizeName(name),
		NumberOfCommunities:               c.NumberOfCommunities,
		NumberOfVotingSimulations:         c.NumberOfVotingSimulations,
		NumberOfNodes:                     c.NumberOfNodes,
		Degree:                            c.Degree,
		ProbabilityPreferentialAttachment: c.ProbabilityPreferentialAttachment,
		EliteCompetenceRange:              Range{c.EliteCompetenceRange.Min, c.EliteCompetenceRange.Max},
		MassCompetenceRange:               Range{c.MassCompetenceRange.Min, c.MassCompetenceRange.Max},
		NumberOfElitesRange:               IntRange{c.NumberOfElitesRange.Min, c.NumberOfElitesRange.Max},
		Alpha:                             c.Alpha,
		Method:                            method,
		Seed:                              c.Seed,
	}
	if h := c.ProbabilityHomophilicAttachmentRange; h != nil {
		s.HomophilyRange = &Range{h.Min, h.Max}
	}
	return s, nil
}

// Draw samples the parameters of one community. Draw order is elite
// competence, mass competence, homophily, number of elites.
func (s Scenario) Draw(src rng.Source) community.Params {
	p := community.Params{
		NumberOfNodes:                     s.NumberOfNodes,
		Degree:                            s.Degree,
		ProbabilityPreferentialAttachment: s.ProbabilityPreferentialAttachment,
	}
	p.EliteCompetence = s.EliteCompetenceRange.Draw(src)
	p.MassCompetence = s.MassCompetenceRange.Draw(src)
	if s.HomophilyRange != nil {
		h := s.HomophilyRange.Draw(src)
		p.ProbabilityHomophilicAttachment = &h
	}
	p.NumberOfElites = s.NumberOfElitesRange.Draw(src)
	return p
}

// readmeRows lists the scenario as parameter/value pairs.
func (s Scenario) readmeRows(runID string, seed uint64) [][]string {
	homophily := "None"
	if s.HomophilyRange != nil {
		homophily = s.HomophilyRange.String()
	}
	return [][]string{
		{"parameter", "value"},
		{"run_id", runID},
		{"name", s.Name},
		{"seed", fmt.Sprint(seed)},
		{"number_of_communities", fmt.Sprint(s.NumberOfCommunities)},
		{"number_of_voting_simulations", fmt.Sprint(s.NumberOfVotingSimulations)},
		{"number_of_nodes", fmt.Sprint(s.NumberOfNodes)},
		{"degree", fmt.Sprint(s.Degree)},
		{"probability_preferential_attachment", fmt.Sprint(s.ProbabilityPreferentialAttachment)},
		{"elite_competence_range", s.EliteCompetenceRange.String()},
		{"mass_competence_range", s.MassCompetenceRange.String()},
		{"number_of_elites_range", s.NumberOfElitesRange.String()},
		{"probability_homophilic_attachment_range", homophily},
		{"alpha", fmt.Sprint(s.Alpha)},
		{"interval_method", strings.ToLower(string(s.Method))},
	}
}
