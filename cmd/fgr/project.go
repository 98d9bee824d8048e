package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dechenique1/fgr/internal/cli"
	"github.com/dechenique1/fgr/internal/domain/project"
	"github.com/dechenique1/fgr/internal/domain/record"
)

func newProjectCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create and inspect projects",
	}
	cmd.AddCommand(
		newProjectCreateCmd(state),
		newProjectListCmd(state),
		newProjectShowCmd(state),
		newProjectDeleteCmd(state),
	)
	return cmd
}

func newProjectCreateCmd(state *cliState) *cobra.Command {
	var area float64
	var types []string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project with its total area and waste types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := state.app.Projects.Create(cmd.Context(), state.tenant(), project.CreateRequest{
				Name:       args[0],
				TotalArea:  area,
				WasteTypes: types,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s, waste types: %s)\n",
				proj.Name, cli.FormatArea(proj.TotalArea), strings.Join(proj.WasteTypes, ", "))
			return nil
		},
	}
	cmd.Flags().Float64Var(&area, "area", 0, "total built area in m²")
	cmd.Flags().StringSliceVar(&types, "types", nil, "waste types, comma separated")
	_ = cmd.MarkFlagRequired("area")
	_ = cmd.MarkFlagRequired("types")
	return cmd
}

func newProjectListCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := state.app.Projects.List(cmd.Context(), state.tenant())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "\n  No projects yet.")
				return nil
			}

			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{
					s.Name,
					cli.FormatArea(s.TotalArea),
					fmt.Sprint(s.RecordCount),
					cli.FormatPercent(s.LastProgress),
					cli.FormatFGR(s.CumulativeFGR),
				})
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, cli.RenderTable(cli.Table{
				Headers: []string{"Project", "Area", "Records", "Progress", "Cumulative FGR"},
				Rows:    rows,
			}))
			return nil
		},
	}
}

func newProjectShowCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a project's recalculated record series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := state.app.Projects.Get(cmd.Context(), state.tenant(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.RenderTitle(fmt.Sprintf("%s  %s", proj.Name, cli.FormatArea(proj.TotalArea))))
			fmt.Fprintln(out)

			records := proj.Records()
			if len(records) == 0 {
				fmt.Fprintln(out, "  No records yet.")
				return nil
			}
			fmt.Fprint(out, renderRecords(records))
			return nil
		},
	}
}

func newProjectDeleteCmd(state *cliState) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a project and all of its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := state.confirm(fmt.Sprintf("Delete project %s and all of its records?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			if err := state.app.Projects.Delete(cmd.Context(), state.tenant(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s.\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func renderRecords(records []record.ProgressRecord) string {
	rows := make([][]string, 0, len(records))
	fgrs := make([]float64, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			record.FormatDate(rec.Date),
			cli.FormatPercent(rec.CumulativeProgressPct),
			cli.FormatPercent(rec.IncrementPct),
			cli.FormatArea(rec.PeriodArea),
			cli.FormatVolume(rec.PeriodWasteVolume),
			cli.FormatFGR(rec.PeriodFGR),
			cli.FormatFGR(rec.CumulativeFGR),
		})
		fgrs = append(fgrs, rec.PeriodFGR)
	}
	return cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "Progress", "Increment", "Period area", "Waste", "Period FGR", "Cumulative FGR"},
		Rows:    rows,
	}) + "\n  Period FGR  " + cli.RenderSparkline(fgrs) + "\n"
}
