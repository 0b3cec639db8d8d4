package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/community"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/models"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/ranking"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/store"
)

// inspection is the JSON view printed by inspect.
type inspection struct {
	Community           store.Summary `json:"community"`
	EliteCompetence     float64       `json:"elite_competence"`
	MassCompetence      float64       `json:"mass_competence"`
	EliteInfluence      int           `json:"elite_influence"`
	MassInfluence       int           `json:"mass_influence"`
	InfluenceProportion float64       `json:"influence_proportion"`
	ElitePageRankShare  float64       `json:"elite_pagerank_share"`
	InDegreeHistogram   map[int]int   `json:"in_degree_histogram"`
}

func inspectCommunity(rec *store.Record, c *community.Community) (*inspection, error) {
	scores, err := ranking.ComputePageRank(c.Network(), ranking.DefaultPageRankConfig())
	if err != nil {
		return nil, err
	}
	return &inspection{
		Community:           rec.Summary(),
		EliteCompetence:     rec.EliteCompetence,
		MassCompetence:      rec.MassCompetence,
		EliteInfluence:      c.TotalInfluence(models.Elite),
		MassInfluence:       c.TotalInfluence(models.Mass),
		InfluenceProportion: c.InfluenceProportion(),
		ElitePageRankShare:  ranking.PartitionShare(c.Network(), scores, models.Elite),
		InDegreeHistogram:   c.InDegreeHistogram(),
	}, nil
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <id>",
		Short: "Show the influence structure of a stored community",
		Long: `Show how incoming edges, and therefore influence, are split between the
elite and mass partitions of a stored community, together with its
in-degree distribution.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			st, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Load(context.Background(), args[0])
			if err != nil {
				return err
			}
			c, err := rec.Rebuild(community.WithLogger(env.logger))
			if err != nil {
				return fmt.Errorf("failed to rebuild community %s: %w", args[0], err)
			}
			info, err := inspectCommunity(rec, c)
			if err != nil {
				return err
			}

			if env.jsonOut {
				return printJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Community %s (created %s)\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  Nodes:      %d (%d elites, %d mass), degree %d\n",
				rec.NumberOfNodes, rec.NumberOfElites, rec.NumberOfMass(), rec.Degree)
			fmt.Fprintf(out, "  Competence: elite %.3f, mass %.3f\n", rec.EliteCompetence, rec.MassCompetence)
			if h := rec.ProbabilityHomophilicAttachment; h != nil {
				fmt.Fprintf(out, "  Homophily:  %.3f\n", *h)
			} else {
				fmt.Fprintln(out, "  Homophily:  none (uniform wiring)")
			}
			fmt.Fprintf(out, "  Influence:  elite %d, mass %d (elite proportion %.3f)\n",
				info.EliteInfluence, info.MassInfluence, info.InfluenceProportion)
			fmt.Fprintf(out, "  PageRank:   elite share %.3f\n", info.ElitePageRankShare)
			fmt.Fprintln(out, "  In-degree histogram:")
			degrees := make([]int, 0, len(info.InDegreeHistogram))
			for d := range info.InDegreeHistogram {
				degrees = append(degrees, d)
			}
			sort.Ints(degrees)
			for _, d := range degrees {
				fmt.Fprintf(out, "    %3d: %d\n", d, info.InDegreeHistogram[d])
			}
			return nil
		},
	}
}
