package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/community"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/estimate"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/logging"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/metrics"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/rng"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/store"
)

// ErrEmptyScenario is returned for a batch without communities or trials.
var ErrEmptyScenario = errors.New("scenario has no communities or no voting simulations")

// Summary describes a finished batch.
type Summary struct {
	RunID        string        `json:"run_id"`
	Seed         uint64        `json:"seed"`
	Communities  int           `json:"communities"`
	MeanAccuracy float64       `json:"mean_accuracy"`
	DroppedEdges int           `json:"dropped_edges"`
	Duration     time.Duration `json:"duration"`
}

// Runner executes batches against a community store.
type Runner struct {
	store   store.CommunityStore
	logger  *slog.Logger
	runLog  *logging.RunLogger
	metrics *metrics.Registry
	readme  string
	now     func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the operational logger used for progress reports.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logging.OrDiscard(logger) }
}

// WithRunLogger records one JSONL event per community.
func WithRunLogger(rl *logging.RunLogger) Option {
	return func(r *Runner) { r.runLog = rl }
}

// WithMetrics records build and estimate metrics.
func WithMetrics(m *metrics.Registry) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithReadme writes README.csv into dir once the run id and seed are known,
// before the first community is generated.
func WithReadme(dir string) Option {
	return func(r *Runner) { r.readme = dir }
}

// NewRunner creates a runner that saves every generated community to st.
func NewRunner(st store.CommunityStore, opts ...Option) *Runner {
	r := &Runner{
		store:  st,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CommunityID is the store key of community number within run.
func CommunityID(runID string, number int) string {
	return fmt.Sprintf("%s-%06d", runID, number)
}

// Run generates s.NumberOfCommunities communities in order, saves each one
// and writes its accuracy estimate to w. Community i draws its parameters,
// its network and its votes from a stream derived from (seed, i).
func (r *Runner) Run(ctx context.Context, s Scenario, w ResultWriter) (*Summary, error) {
	if s.NumberOfCommunities <= 0 || s.NumberOfVotingSimulations <= 0 {
		return nil, ErrEmptyScenario
	}
	seed := rng.SeedOrRandom(s.Seed)
	runID := uuid.NewString()
	start := r.now()

	if r.readme != "" {
		if err := WriteReadme(r.readme, s, runID, seed); err != nil {
			return nil, err
		}
	}

	r.logger.Info("simulation started",
		"run_id", runID,
		"name", s.Name,
		"seed", seed,
		"communities", s.NumberOfCommunities,
		"voting_simulations", s.NumberOfVotingSimulations)

	summary := &Summary{RunID: runID, Seed: seed}
	progress := newProgress(r.logger, "simulation progress", s.NumberOfCommunities)
	var accuracySum float64

	for i := 0; i < s.NumberOfCommunities; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		src := rng.New(rng.Derive(seed, uint64(i)))
		params := s.Draw(src)

		c, err := r.build(params, src)
		if err != nil {
			return summary, fmt.Errorf("community %d: %w", i, err)
		}

		id := CommunityID(runID, i)
		if err := r.store.Save(ctx, store.RecordFromCommunity(id, c)); err != nil {
			return summary, fmt.Errorf("saving community %d: %w", i, err)
		}

		res, err := r.evaluate(c, i, id, s.NumberOfVotingSimulations, s.Alpha, s.Method)
		if err != nil {
			return summary, fmt.Errorf("community %d: %w", i, err)
		}
		if err := w.Write(res); err != nil {
			return summary, err
		}

		summary.Communities++
		summary.DroppedEdges += c.DroppedEdges()
		accuracySum += res.CollectiveAccuracy
		r.logCommunity(runID, res, c)
		progress.report(i)
	}

	if err := w.Flush(); err != nil {
		return summary, fmt.Errorf("flushing results: %w", err)
	}
	summary.MeanAccuracy = accuracySum / float64(summary.Communities)
	summary.Duration = r.now().Sub(start)
	r.logger.Info("simulation finished",
		"run_id", runID,
		"communities", summary.Communities,
		"mean_accuracy", summary.MeanAccuracy,
		"dropped_edges", summary.DroppedEdges,
		"duration", summary.Duration)
	return summary, nil
}

// Replay re-estimates accuracy for stored communities, in the given order.
// With no ids it replays every stored community in id order. Voting uses a
// stream derived from (seed, position).
func (r *Runner) Replay(ctx context.Context, ids []string, numTrials int, alpha float64, method estimate.Method, seedOpt *uint64, w ResultWriter) (*Summary, error) {
	if numTrials <= 0 {
		return nil, ErrEmptyScenario
	}
	if len(ids) == 0 {
		list, err := r.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing communities: %w", err)
		}
		for _, sum := range list {
			ids = append(ids, sum.ID)
		}
	}
	seed := rng.SeedOrRandom(seedOpt)

	runID := uuid.NewString()
	start := r.now()
	summary := &Summary{RunID: runID, Seed: seed}
	progress := newProgress(r.logger, "replay progress", len(ids))
	var accuracySum float64

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		rec, err := r.store.Load(ctx, id)
		if err != nil {
			return summary, err
		}
		src := rng.New(rng.Derive(seed, uint64(i)))
		c, err := rec.Rebuild(community.WithSource(src), community.WithLogger(r.logger))
		if err != nil {
			return summary, fmt.Errorf("rebuilding %s: %w", id, err)
		}

		res, err := r.evaluate(c, i, id, numTrials, alpha, method)
		if err != nil {
			return summary, fmt.Errorf("community %s: %w", id, err)
		}
		if err := w.Write(res); err != nil {
			return summary, err
		}
		summary.Communities++
		accuracySum += res.CollectiveAccuracy
		r.logCommunity(runID, res, c)
		progress.report(i)
	}

	if err := w.Flush(); err != nil {
		return summary, fmt.Errorf("flushing results: %w", err)
	}
	if summary.Communities > 0 {
		summary.MeanAccuracy = accuracySum / float64(summary.Communities)
	}
	summary.Duration = r.now().Sub(start)
	r.logger.Info("replay finished", "run_id", runID, "communities", summary.Communities, "mean_accuracy", summary.MeanAccuracy)
	return summary, nil
}

func (r *Runner) build(params community.Params, src rng.Source) (*community.Community, error) {
	start := time.Now()
	c, err := community.New(params, community.WithSource(src), community.WithLogger(r.logger))
	mode := "uniform"
	if params.ProbabilityHomophilicAttachment != nil {
		mode = "homophilic"
	}
	dropped := 0
	if c != nil {
		dropped = c.DroppedEdges()
	}
	r.metrics.RecordBuild(mode, err, dropped, time.Since(start))
	return c, err
}

func (r *Runner) evaluate(c *community.Community, number int, id string, numTrials int, alpha float64, method estimate.Method) (Result, error) {
	start := time.Now()
	est, err := c.EstimateAccuracyWithMethod(numTrials, alpha, method)
	if err != nil {
		return Result{}, err
	}
	r.metrics.RecordEstimate(est.Trials, est.Accuracy, est.Precision, time.Since(start))

	p := c.Params()
	return Result{
		CommunityNumber:             number,
		CommunityID:                 id,
		CollectiveAccuracy:          est.Accuracy,
		CollectiveAccuracyPrecision: est.Precision,
		MinorityCompetence:          p.EliteCompetence,
		MajorityCompetence:          p.MassCompetence,
		NumberOfMinority:            p.NumberOfElites,
		InfluenceMinorityProportion: c.InfluenceProportion(),
		Homophily:                   p.ProbabilityHomophilicAttachment,
	}, nil
}

func (r *Runner) logCommunity(runID string, res Result, c *community.Community) {
	if r.runLog == nil {
		return
	}
	event := map[string]any{
		"event":                         "community",
		"run_id":                        runID,
		"community_number":              res.CommunityNumber,
		"community_id":                  res.CommunityID,
		"mode":                          c.Mode().String(),
		"collective_accuracy":           res.CollectiveAccuracy,
		"collective_accuracy_precision": res.CollectiveAccuracyPrecision,
		"elite_influence":               c.TotalInfluence(models.Elite),
		"mass_influence":                c.TotalInfluence(models.Mass),
		"dropped_edges":                 c.DroppedEdges(),
	}
	if r.runLog.Trace() {
		event["in_degree_histogram"] = c.InDegreeHistogram()
	}
	r.runLog.Log(event)
}
