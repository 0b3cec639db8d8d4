package simulation

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/estimate"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/logging"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/metrics"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/store"
)

func seedOf(v uint64) *uint64 { return &v }

func smallScenario() Scenario {
	return Scenario{
		Name:                              "small",
		NumberOfCommunities:               5,
		NumberOfVotingSimulations:         50,
		NumberOfNodes:                     30,
		Degree:                            4,
		ProbabilityPreferentialAttachment: 0.6,
		EliteCompetenceRange:              Range{0.55, 0.7},
		MassCompetenceRange:               Range{0.55, 0.7},
		NumberOfElitesRange:               IntRange{8, 12},
		HomophilyRange:                    &Range{0.5, 0.75},
		Alpha:                             0.05,
		Method:                            estimate.MethodNormal,
		Seed:                              seedOf(2024),
	}
}

func TestRun_WritesOneRowPerCommunity(t *testing.T) {
	st := store.NewInMemoryStore()
	var buf bytes.Buffer
	w, err := NewCSVResultWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}

	summary, err := NewRunner(st).Run(context.Background(), smallScenario(), w)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Communities != 5 || summary.Seed != 2024 || summary.RunID == "" {
		t.Errorf("summary = %+v", summary)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("results are not valid CSV: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want header + 5", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(Header, ",") {
		t.Errorf("header = %v", rows[0])
	}
	for i, row := range rows[1:] {
		if row[0] != string(rune('0'+i)) {
			t.Errorf("row %d community_number = %s", i, row[0])
		}
		if row[7] == "None" {
			t.Errorf("row %d homophily missing", i)
		}
	}

	list, err := st.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 5 {
		t.Fatalf("stored %d communities, want 5", len(list))
	}
	if list[0].ID != CommunityID(summary.RunID, 0) {
		t.Errorf("first stored id = %s", list[0].ID)
	}
}

func TestRun_ResultsWithinBounds(t *testing.T) {
	s := smallScenario()
	w := &SliceResultWriter{}
	if _, err := NewRunner(store.NewInMemoryStore()).Run(context.Background(), s, w); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, r := range w.Results {
		if r.CollectiveAccuracy < 0 || r.CollectiveAccuracy > 1 {
			t.Errorf("accuracy %v out of range", r.CollectiveAccuracy)
		}
		if r.MinorityCompetence < 0.55 || r.MinorityCompetence > 0.7 {
			t.Errorf("minority competence %v outside configured range", r.MinorityCompetence)
		}
		if r.NumberOfMinority < 8 || r.NumberOfMinority > 12 {
			t.Errorf("number of minority %d outside configured range", r.NumberOfMinority)
		}
		if r.Homophily == nil || *r.Homophily < 0.5 || *r.Homophily > 0.75 {
			t.Errorf("homophily %v outside configured range", r.Homophily)
		}
		if r.InfluenceMinorityProportion < 0 || r.InfluenceMinorityProportion > 1 {
			t.Errorf("influence proportion %v out of range", r.InfluenceMinorityProportion)
		}
	}
}

func TestRun_Reproducible(t *testing.T) {
	run := func() []Result {
		w := &SliceResultWriter{}
		if _, err := NewRunner(store.NewInMemoryStore()).Run(context.Background(), smallScenario(), w); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return w.Results
	}
	a, b := run(), run()
	for i := range a {
		// Ids embed the run id; everything else must match.
		a[i].CommunityID, b[i].CommunityID = "", ""
		if a[i].CollectiveAccuracy != b[i].CollectiveAccuracy ||
			a[i].MinorityCompetence != b[i].MinorityCompetence ||
			a[i].NumberOfMinority != b[i].NumberOfMinority ||
			*a[i].Homophily != *b[i].Homophily {
			t.Errorf("community %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRun_UniformWiring(t *testing.T) {
	s := smallScenario()
	s.HomophilyRange = nil
	w := &SliceResultWriter{}
	if _, err := NewRunner(store.NewInMemoryStore()).Run(context.Background(), s, w); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, r := range w.Results {
		if r.Homophily != nil {
			t.Errorf("expected nil homophily, got %v", *r.Homophily)
		}
		if r.Record()[7] != "None" {
			t.Errorf("homophily column = %q, want None", r.Record()[7])
		}
	}
}

func TestRun_RejectsEmptyScenario(t *testing.T) {
	s := smallScenario()
	s.NumberOfCommunities = 0
	_, err := NewRunner(store.NewInMemoryStore()).Run(context.Background(), s, &SliceResultWriter{})
	if !errors.Is(err, ErrEmptyScenario) {
		t.Errorf("Run() error = %v, want ErrEmptyScenario", err)
	}
}

func TestRun_ConfigurationErrorAborts(t *testing.T) {
	s := smallScenario()
	s.Degree = 10
	s.NumberOfElitesRange = IntRange{2, 2}
	s.HomophilyRange = &Range{1, 1}
	w := &SliceResultWriter{}
	_, err := NewRunner(store.NewInMemoryStore()).Run(context.Background(), s, w)
	if err == nil {
		t.Fatal("expected infeasible homophilic sampling to fail")
	}
	if len(w.Results) != 0 {
		t.Errorf("wrote %d results before failing", len(w.Results))
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(store.NewInMemoryStore()).Run(ctx, smallScenario(), &SliceResultWriter{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func readReadme(t *testing.T, dir string) map[string]string {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, ReadmeFile))
	if err != nil {
		t.Fatalf("README.csv missing: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	values := make(map[string]string)
	for _, row := range rows {
		values[row[0]] = row[1]
	}
	return values
}

func TestRun_WritesReadmeBeforeFailure(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
		ctx    func() context.Context
	}{
		{
			name: "configuration error",
			mutate: func(s *Scenario) {
				s.Degree = 10
				s.NumberOfElitesRange = IntRange{2, 2}
				s.HomophilyRange = &Range{1, 1}
			},
			ctx: context.Background,
		},
		{
			name:   "cancelled",
			mutate: func(*Scenario) {},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			s := smallScenario()
			tt.mutate(&s)

			summary, err := NewRunner(store.NewInMemoryStore(), WithReadme(dir)).Run(tt.ctx(), s, &SliceResultWriter{})
			if err == nil {
				t.Fatal("expected Run to fail")
			}
			values := readReadme(t, dir)
			if values["seed"] != "2024" {
				t.Errorf("seed = %q, want 2024", values["seed"])
			}
			if summary == nil || values["run_id"] != summary.RunID {
				t.Errorf("run_id = %q, want the run's id", values["run_id"])
			}
		})
	}
}

func TestRun_ExplicitSeedZero(t *testing.T) {
	run := func() (*Summary, []Result) {
		s := smallScenario()
		s.Seed = seedOf(0)
		w := &SliceResultWriter{}
		summary, err := NewRunner(store.NewInMemoryStore()).Run(context.Background(), s, w)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return summary, w.Results
	}
	sa, a := run()
	sb, b := run()
	if sa.Seed != 0 || sb.Seed != 0 {
		t.Fatalf("seeds = %d and %d, want 0", sa.Seed, sb.Seed)
	}
	for i := range a {
		if a[i].CollectiveAccuracy != b[i].CollectiveAccuracy || a[i].NumberOfMinority != b[i].NumberOfMinority {
			t.Errorf("community %d differs between seed-0 runs", i)
		}
	}
}

func TestRun_RecordsMetricsAndRunLog(t *testing.T) {
	dir := t.TempDir()
	m := metrics.NewRegistry()
	rl := logging.NewRunLogger(dir, "trace")
	defer rl.Close()

	r := NewRunner(store.NewInMemoryStore(), WithMetrics(m), WithRunLogger(rl))
	if _, err := r.Run(context.Background(), smallScenario(), &SliceResultWriter{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := testutil.ToFloat64(m.CommunitiesTotal.WithLabelValues("homophilic", "ok")); got != 5 {
		t.Errorf("communities metric = %v, want 5", got)
	}
	if got := testutil.ToFloat64(m.TrialsTotal); got != 250 {
		t.Errorf("trials metric = %v, want 250", got)
	}

	f, err := os.Open(filepath.Join(dir, logging.RunLogFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		if !strings.Contains(scanner.Text(), "in_degree_histogram") {
			t.Errorf("trace run log missing histogram: %s", scanner.Text())
		}
	}
	if lines != 5 {
		t.Errorf("run log has %d lines, want 5", lines)
	}
}

func TestRun_LogsProgress(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(store.NewInMemoryStore(), WithLogger(logging.NewLogger("info", &buf)))
	if _, err := r.Run(context.Background(), smallScenario(), &SliceResultWriter{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if got := strings.Count(out, "simulation progress"); got != 5 {
		t.Errorf("progress lines = %d, want 5 for 5 communities", got)
	}
	if !strings.Contains(out, "percent=100") {
		t.Errorf("missing final progress line: %s", out)
	}
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	st := store.NewInMemoryStore()
	r := NewRunner(st)
	first := &SliceResultWriter{}
	if _, err := r.Run(ctx, smallScenario(), first); err != nil {
		t.Fatal(err)
	}

	replayed := &SliceResultWriter{}
	summary, err := r.Replay(ctx, nil, 40, 0.05, estimate.MethodWilson, seedOf(7), replayed)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if summary.Communities != 5 || len(replayed.Results) != 5 {
		t.Fatalf("replayed %d communities, want 5", summary.Communities)
	}
	for i, res := range replayed.Results {
		orig := first.Results[i]
		if res.CommunityID != orig.CommunityID {
			t.Errorf("replay order: got %s, want %s", res.CommunityID, orig.CommunityID)
		}
		if res.InfluenceMinorityProportion != orig.InfluenceMinorityProportion {
			t.Errorf("influence changed on replay: %v vs %v", res.InfluenceMinorityProportion, orig.InfluenceMinorityProportion)
		}
		if res.NumberOfMinority != orig.NumberOfMinority || res.MinorityCompetence != orig.MinorityCompetence {
			t.Errorf("parameters changed on replay")
		}
	}

	_, err = r.Replay(ctx, []string{"missing"}, 10, 0.05, estimate.MethodNormal, seedOf(1), &SliceResultWriter{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Replay(missing) error = %v, want ErrNotFound", err)
	}
}
