package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/community"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/constants"
	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/estimate"
)

func newVoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote <id>",
		Short: "Estimate the collective accuracy of a stored community",
		Long: `Run independent majority votes on a stored community and report the
share that reached the correct outcome with a confidence interval.

Examples:
  mvca vote baseline
  mvca vote baseline --trials 10000 --method wilson --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			id := args[0]
			trials, _ := cmd.Flags().GetInt("trials")
			alpha, _ := cmd.Flags().GetFloat64("alpha")
			methodName, _ := cmd.Flags().GetString("method")

			if trials > constants.MaxNumTrials {
				return fmt.Errorf("--trials %d exceeds limit %d", trials, constants.MaxNumTrials)
			}
			method, err := estimate.ParseMethod(methodName)
			if err != nil {
				return err
			}

			st, err := env.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Load(context.Background(), id)
			if err != nil {
				return err
			}
			c, err := rec.Rebuild(community.WithSource(sourceFor(seedFlag(cmd))), community.WithLogger(env.logger))
			if err != nil {
				return fmt.Errorf("failed to rebuild community %s: %w", id, err)
			}

			res, err := c.EstimateAccuracyWithMethod(trials, alpha, method)
			if err != nil {
				return err
			}

			if env.jsonOut {
				return printJSON(cmd, map[string]interface{}{
					"id":     id,
					"result": res,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Community %s\n", id)
			fmt.Fprintf(out, "  Accuracy:  %.4f (%d/%d)\n", res.Accuracy, res.Successes, res.Trials)
			fmt.Fprintf(out, "  Interval:  [%.4f, %.4f] (%s, alpha %g)\n", res.Lower, res.Upper, res.Method, res.Alpha)
			fmt.Fprintf(out, "  Precision: %.4f\n", res.Precision)
			return nil
		},
	}

	cmd.Flags().Int("trials", constants.DefaultNumTrials, "Number of independent votes")
	cmd.Flags().Float64("alpha", estimate.DefaultAlpha, "Significance level of the confidence interval")
	cmd.Flags().String("method", string(estimate.MethodNormal), "Interval method: normal, clopper-pearson or wilson")
	cmd.Flags().Uint64("seed", 0, "Random seed (drawn when unset)")

	return cmd
}
