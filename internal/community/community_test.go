package community

import (
	"errors"
	"fmt"
	"testing"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/constants"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/network"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/rng"
)

func ptr(f float64) *float64 { return &f }

func TestNew_DefaultParams(t *testing.T) {
	c, err := New(DefaultParams(), WithSource(rng.New(1)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := c.Network().EdgeCount(); got != 600 {
		t.Errorf("EdgeCount() = %d, want 600", got)
	}
	if c.Mode() != network.ModeUniform {
		t.Errorf("Mode() = %v, want uniform", c.Mode())
	}
	for node := 0; node < 100; node++ {
		want := 0.6
		if node < 40 {
			want = 0.7
		}
		if got := c.Competence(node); got != want {
			t.Fatalf("Competence(%d) = %v, want %v", node, got, want)
		}
		hood := c.Neighborhood(node)
		if len(hood) != 7 || hood[len(hood)-1] != node {
			t.Fatalf("Neighborhood(%d) = %v, want 6 neighbors then self", node, hood)
		}
	}
	if got := c.TotalInfluence(models.Elite) + c.TotalInfluence(models.Mass); got != 600 {
		t.Errorf("influence sum = %d, want 600", got)
	}
}

func TestNew_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"elites equal nodes", func(p *Params) { p.NumberOfElites = p.NumberOfNodes }},
		{"degree too large", func(p *Params) { p.Degree = p.NumberOfNodes }},
		{"elite competence above one", func(p *Params) { p.EliteCompetence = 1.5 }},
		{"mass competence negative", func(p *Params) { p.MassCompetence = -0.1 }},
		{"preferential out of range", func(p *Params) { p.ProbabilityPreferentialAttachment = 2 }},
		{"homophily out of range", func(p *Params) { p.ProbabilityHomophilicAttachment = ptr(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			c, err := New(p, WithSource(rng.New(3)))
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("New() error = %v, want ErrConfiguration", err)
			}
			if c != nil {
				t.Errorf("New() returned a community alongside an error")
			}
		})
	}
}

func TestVote_NoiselessCommunityAlwaysCorrect(t *testing.T) {
	homophily := []*float64{nil, ptr(0), ptr(0.5), ptr(1)}
	preferential := []float64{0, 1}

	seed := uint64(7)
	for _, h := range homophily {
		for _, pa := range preferential {
			name := fmt.Sprintf("uniform/p=%v", pa)
			if h != nil {
				name = fmt.Sprintf("h=%v/p=%v", *h, pa)
			}
			seed++
			t.Run(name, func(t *testing.T) {
				p := DefaultParams()
				p.EliteCompetence = 1
				p.MassCompetence = 1
				p.ProbabilityHomophilicAttachment = h
				p.ProbabilityPreferentialAttachment = pa
				c, err := New(p, WithSource(rng.New(seed)))
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}
				for i := 0; i < 50; i++ {
					v, err := c.Vote()
					if err != nil {
						t.Fatalf("Vote() error = %v", err)
					}
					if v != models.GroundTruth {
						t.Fatalf("Vote() = %v, want %v", v, models.GroundTruth)
					}
				}
				for node, v := range c.Votes() {
					if v != models.GroundTruth {
						t.Fatalf("vote of node %d = %v", node, v)
					}
				}
			})
		}
	}
}

func TestVote_IncompetentCommunityAlwaysWrong(t *testing.T) {
	p := DefaultParams()
	p.EliteCompetence = 0
	p.MassCompetence = 0
	c, err := New(p, WithSource(rng.New(8)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := c.EstimateAccuracy(100, 0.05)
	if err != nil {
		t.Fatalf("EstimateAccuracy() error = %v", err)
	}
	if res.Accuracy != 0 || res.Precision != 0 {
		t.Errorf("accuracy = %v precision = %v, want 0 and 0", res.Accuracy, res.Precision)
	}
}

func TestEstimateAccuracy_NoiselessPrecisionZero(t *testing.T) {
	p := DefaultParams()
	p.EliteCompetence = 1
	p.MassCompetence = 1
	c, err := New(p, WithSource(rng.New(9)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := c.EstimateAccuracy(200, 0.05)
	if err != nil {
		t.Fatalf("EstimateAccuracy() error = %v", err)
	}
	if res.Accuracy != 1 || res.Precision != 0 || res.Trials != 200 {
		t.Errorf("result = %+v, want accuracy 1, precision 0, 200 trials", res)
	}
}

func TestEstimateAccuracy_InRange(t *testing.T) {
	c, err := New(DefaultParams(), WithSource(rng.New(10)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := c.EstimateAccuracy(500, 0.05)
	if err != nil {
		t.Fatalf("EstimateAccuracy() error = %v", err)
	}
	if res.Accuracy < 0 || res.Accuracy > 1 {
		t.Errorf("accuracy = %v outside [0, 1]", res.Accuracy)
	}
	if res.Precision < 0 || res.Precision > 1 {
		t.Errorf("precision = %v outside [0, 1]", res.Precision)
	}
	if _, err := c.EstimateAccuracy(0, 0.05); err == nil {
		t.Error("EstimateAccuracy(0) expected error")
	}
}

func TestNew_RoundTripFromEdges(t *testing.T) {
	p := Params{
		NumberOfNodes:                     100,
		NumberOfElites:                    20,
		Degree:                            6,
		EliteCompetence:                   0.7,
		MassCompetence:                    0.6,
		ProbabilityPreferentialAttachment: 0.6,
	}
	orig, err := New(p, WithSource(rng.New(11)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	replay, err := New(p, WithSource(rng.New(12)), WithEdges(orig.Edges()))
	if err != nil {
		t.Fatalf("New(WithEdges) error = %v", err)
	}
	if replay.Mode() != network.ModeFromEdges {
		t.Errorf("Mode() = %v, want from-edges", replay.Mode())
	}
	a, b := orig.Edges(), replay.Edges()
	if len(a) != len(b) {
		t.Fatalf("edge count %d != %d", len(a), len(b))
	}
	set := make(map[network.Edge]bool, len(a))
	for _, e := range a {
		set[e] = true
	}
	for _, e := range b {
		if !set[e] {
			t.Fatalf("replayed edge %v not in original", e)
		}
	}
	if orig.TotalInfluence(models.Elite) != replay.TotalInfluence(models.Elite) {
		t.Error("elite influence differs after round trip")
	}
}

func TestNew_Deterministic(t *testing.T) {
	h := 0.8
	p := DefaultParams()
	p.ProbabilityHomophilicAttachment = &h
	a, err := New(p, WithSource(rng.New(42)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b, err := New(p, WithSource(rng.New(42)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ea, eb := a.Edges(), b.Edges()
	for i := range ea {
		if ea[i] != eb[i] {
			t.Fatalf("edge %d differs: %v vs %v", i, ea[i], eb[i])
		}
	}
	va, _ := a.Vote()
	vb, _ := b.Vote()
	if va != vb {
		t.Errorf("votes differ with same seed: %v vs %v", va, vb)
	}
}

func TestInfluenceProportion_NoEdges(t *testing.T) {
	p := DefaultParams()
	p.Degree = 0
	c, err := New(p, WithSource(rng.New(1)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := c.InfluenceProportion(); got != 0 {
		t.Errorf("InfluenceProportion() = %v, want 0", got)
	}
	if _, err := c.Vote(); err != nil {
		t.Errorf("Vote() error = %v", err)
	}
}

func TestParams_CheckSize(t *testing.T) {
	tests := []struct {
		name    string
		nodes   int
		degree  int
		wantErr bool
	}{
		{"defaults", 100, 6, false},
		{"at node limit", constants.MaxNodes, constants.MaxEdges / constants.MaxNodes, false},
		{"too many nodes", constants.MaxNodes + 1, 1, true},
		{"too many edges", constants.MaxNodes, constants.MaxNodes - 1, true},
		{"large nodes and degree", 1 << 20, 1 << 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.NumberOfNodes = tt.nodes
			p.Degree = tt.degree
			err := p.CheckSize()
			if tt.wantErr != (err != nil) {
				t.Fatalf("CheckSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrTooLarge) {
				t.Errorf("CheckSize() error = %v, want ErrTooLarge", err)
			}
		})
	}
}
