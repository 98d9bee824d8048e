package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dechenique1/fgr/internal/cli"
	"github.com/dechenique1/fgr/internal/domain/activity"
)

func newActivityCmd(state *cliState) *cobra.Command {
	var opts activity.ListActivityOptions
	var kind string

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent ledger changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if state.app.Activity == nil {
				fmt.Fprintln(out, cli.RenderWarning("the activity log is only kept by the sqlite backend"))
				return nil
			}
			if kind != "" {
				t := activity.ActivityType(kind)
				opts.ActivityType = &t
			}
			entries, err := state.app.Activity.GetRecentActivity(cmd.Context(), state.tenant(), opts)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "\n  No activity.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					e.ProjectName,
					string(e.ActivityType),
					e.Summary,
				})
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, cli.RenderTable(cli.Table{
				Headers: []string{"When", "Project", "Type", "Summary"},
				Rows:    rows,
			}))
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.ProjectName, "project", "p", "", "restrict to one project")
	cmd.Flags().StringVar(&kind, "type", "", "restrict to one activity type")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", activity.DefaultListLimit, "maximum number of entries")
	return cmd
}

func newKeyCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage API keys for the HTTP server",
	}

	var description string
	addCmd := &cobra.Command{
		Use:   "add TENANT",
		Short: "Create an API key for a tenant and print it once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if state.app.Keys == nil {
				return fmt.Errorf("api keys require the sqlite backend")
			}
			token := "fgr_" + uuid.NewString()
			if err := state.app.Keys.AddAPIKey(cmd.Context(), args[0], token, description); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	addCmd.Flags().StringVar(&description, "description", "", "note stored with the key")

	cmd.AddCommand(addCmd)
	return cmd
}
