package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HeinDuijf/MajorityVotingCollectiveAccuracy/internal/store"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored communities",
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

			list, err := st.List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list communities: %w", err)
			}

			if env.jsonOut {
				if list == nil {
					list = []store.Summary{}
				}
				return printJSON(cmd, map[string]interface{}{
					"communities": list,
					"count":       len(list),
				})
			}

			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No communities stored. Run 'mvca generate' or 'mvca simulate'.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNODES\tELITES\tDEGREE\tEDGES\tHOMOPHILY\tCREATED")
			for _, s := range list {
				homophily := "-"
				if s.ProbabilityHomophilicAttachment != nil {
					homophily = fmt.Sprintf("%.3f", *s.ProbabilityHomophilicAttachment)
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\t%s\n", s.ID, s.NumberOfNodes, s.NumberOfElites,
					s.Degree, s.EdgeCount, homophily, s.CreatedAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d communities\n", len(list))
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete stored communities",
		Args:  cobra.MinimumNArgs(1),
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

			ctx := context.Background()
			for _, id := range args {
				if err := st.Delete(ctx, id); err != nil {
					return fmt.Errorf("failed to delete %s: %w", id, err)
				}
			}

			if env.jsonOut {
				return printJSON(cmd, map[string]interface{}{
					"status":  "deleted",
					"deleted": args,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d communities\n", len(args))
			return nil
		},
	}
}
