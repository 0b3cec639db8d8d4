package mcp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/community"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/constants"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/estimate"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/ranking"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/ratelimit"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/rng"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/store"
)

// registerTools registers all mvca tools with the MCP server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "mvca_generate",
		Description: "Generate an elite/mass community network and store it",
	}, s.handleGenerate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "mvca_vote",
		Description: "Estimate the collective accuracy of a stored community's majority vote",
	}, s.handleVote)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "mvca_inspect",
		Description: "Show the influence structure and in-degree distribution of a stored community",
	}, s.handleInspect)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "mvca_list",
		Description: "List stored communities",
	}, s.handleList)
}

func (s *Server) logTool(name string, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "tool", name, "duration", time.Since(start))
	if err != nil {
		s.logger.Warn("tool call failed", append(attrs, "error", err)...)
		return
	}
	s.logger.Debug("tool call", attrs...)
}

func summaryOf(sum store.Summary) CommunitySummary {
	return CommunitySummary{
		ID:                              sum.ID,
		CreatedAt:                       sum.CreatedAt.UTC().Format(time.RFC3339),
		NumberOfNodes:                   sum.NumberOfNodes,
		NumberOfElites:                  sum.NumberOfElites,
		Degree:                          sum.Degree,
		EdgeCount:                       sum.EdgeCount,
		ProbabilityHomophilicAttachment: sum.ProbabilityHomophilicAttachment,
	}
}

// params applies defaults to unset generate arguments.
func (in GenerateInput) params() (community.Params, error) {
	p := community.DefaultParams()
	if in.NumberOfNodes != nil {
		p.NumberOfNodes = *in.NumberOfNodes
	}
	if in.NumberOfElites != nil {
		p.NumberOfElites = *in.NumberOfElites
	}
	if in.Degree != nil {
		p.Degree = *in.Degree
	}
	if in.EliteCompetence != nil {
		p.EliteCompetence = *in.EliteCompetence
	}
	if in.MassCompetence != nil {
		p.MassCompetence = *in.MassCompetence
	}
	if in.ProbabilityPreferentialAttachment != nil {
		p.ProbabilityPreferentialAttachment = *in.ProbabilityPreferentialAttachment
	}
	p.ProbabilityHomophilicAttachment = in.ProbabilityHomophilicAttachment
	if err := p.CheckSize(); err != nil {
		return p, err
	}
	return p, nil
}

func sourceFor(seed *uint64) rng.Source {
	return rng.New(rng.SeedOrRandom(seed))
}

// handleGenerate implements the mvca_generate tool.
func (s *Server) handleGenerate(ctx context.Context, req *sdk.CallToolRequest, args GenerateInput) (_ *sdk.CallToolResult, _ GenerateOutput, retErr error) {
	start := time.Now()
	defer func() { s.logTool("mvca_generate", start, retErr, "id", args.ID) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "mvca_generate"); err != nil {
		return nil, GenerateOutput{}, err
	}

	id := args.ID
	if id == "" {
		id = store.NewID()
	}
	if err := store.ValidateID(id); err != nil {
		return nil, GenerateOutput{}, err
	}
	p, err := args.params()
	if err != nil {
		return nil, GenerateOutput{}, err
	}

	c, err := community.New(p, community.WithSource(sourceFor(args.Seed)), community.WithLogger(s.logger))
	if err != nil {
		return nil, GenerateOutput{}, err
	}
	rec := store.RecordFromCommunity(id, c)
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, GenerateOutput{}, fmt.Errorf("failed to save community: %w", err)
	}

	return nil, GenerateOutput{
		Community:    summaryOf(rec.Summary()),
		Mode:         c.Mode().String(),
		DroppedEdges: c.DroppedEdges(),
		Message:      fmt.Sprintf("Stored community %s with %d nodes and %d edges", id, p.NumberOfNodes, rec.EdgeCount()),
	}, nil
}

// handleVote implements the mvca_vote tool.
func (s *Server) handleVote(ctx context.Context, req *sdk.CallToolRequest, args VoteInput) (_ *sdk.CallToolResult, _ VoteOutput, retErr error) {
	start := time.Now()
	defer func() { s.logTool("mvca_vote", start, retErr, "id", args.ID, "num_trials", args.NumTrials) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "mvca_vote"); err != nil {
		return nil, VoteOutput{}, err
	}

	numTrials := args.NumTrials
	if numTrials == 0 {
		numTrials = constants.DefaultNumTrials
	}
	if numTrials > constants.MaxNumTrials {
		return nil, VoteOutput{}, fmt.Errorf("num_trials %d exceeds limit %d", numTrials, constants.MaxNumTrials)
	}
	alpha := args.Alpha
	if alpha == 0 {
		alpha = estimate.DefaultAlpha
	}
	method, err := estimate.ParseMethod(args.Method)
	if err != nil {
		return nil, VoteOutput{}, err
	}

	rec, err := s.store.Load(ctx, args.ID)
	if err != nil {
		return nil, VoteOutput{}, err
	}
	c, err := rec.Rebuild(community.WithSource(sourceFor(args.Seed)), community.WithLogger(s.logger))
	if err != nil {
		return nil, VoteOutput{}, fmt.Errorf("failed to rebuild community %s: %w", args.ID, err)
	}
	res, err := c.EstimateAccuracyWithMethod(numTrials, alpha, method)
	if err != nil {
		return nil, VoteOutput{}, err
	}

	return nil, VoteOutput{
		ID:        args.ID,
		Accuracy:  res.Accuracy,
		Precision: res.Precision,
		Lower:     res.Lower,
		Upper:     res.Upper,
		Trials:    res.Trials,
		Alpha:     res.Alpha,
		Method:    string(res.Method),
	}, nil
}

// handleInspect implements the mvca_inspect tool.
func (s *Server) handleInspect(ctx context.Context, req *sdk.CallToolRequest, args InspectInput) (_ *sdk.CallToolResult, _ InspectOutput, retErr error) {
	start := time.Now()
	defer func() { s.logTool("mvca_inspect", start, retErr, "id", args.ID) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "mvca_inspect"); err != nil {
		return nil, InspectOutput{}, err
	}

	rec, err := s.store.Load(ctx, args.ID)
	if err != nil {
		return nil, InspectOutput{}, err
	}
	c, err := rec.Rebuild(community.WithLogger(s.logger))
	if err != nil {
		return nil, InspectOutput{}, fmt.Errorf("failed to rebuild community %s: %w", args.ID, err)
	}

	scores, err := ranking.ComputePageRank(c.Network(), ranking.DefaultPageRankConfig())
	if err != nil {
		return nil, InspectOutput{}, err
	}

	hist := make(map[string]int)
	for degree, count := range c.InDegreeHistogram() {
		hist[strconv.Itoa(degree)] = count
	}
	return nil, InspectOutput{
		Community:           summaryOf(rec.Summary()),
		EliteCompetence:     rec.EliteCompetence,
		MassCompetence:      rec.MassCompetence,
		EliteInfluence:      c.TotalInfluence(models.Elite),
		MassInfluence:       c.TotalInfluence(models.Mass),
		InfluenceProportion: c.InfluenceProportion(),
		ElitePageRankShare:  ranking.PartitionShare(c.Network(), scores, models.Elite),
		InDegreeHistogram:   hist,
	}, nil
}

// handleList implements the mvca_list tool.
func (s *Server) handleList(ctx context.Context, req *sdk.CallToolRequest, args ListInput) (_ *sdk.CallToolResult, _ ListOutput, retErr error) {
	start := time.Now()
	defer func() { s.logTool("mvca_list", start, retErr) }()

	if err := ratelimit.CheckLimit(s.toolLimiters, "mvca_list"); err != nil {
		return nil, ListOutput{}, err
	}

	if args.Limit < 0 {
		return nil, ListOutput{}, fmt.Errorf("limit must be non-negative, got %d", args.Limit)
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, ListOutput{}, fmt.Errorf("failed to list communities: %w", err)
	}

	total := len(list)
	if args.Limit > 0 && args.Limit < total {
		list = list[:args.Limit]
	}
	out := make([]CommunitySummary, 0, len(list))
	for _, sum := range list {
		out = append(out, summaryOf(sum))
	}
	return nil, ListOutput{Communities: out, Count: len(out), Total: total}, nil
}
