package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dechenique1/fgr/internal/cli"
	"github.com/dechenique1/fgr/internal/domain/project"
	"github.com/dechenique1/fgr/internal/domain/record"
)

func newRecordCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Add, edit and delete progress records",
	}
	cmd.AddCommand(
		newRecordAddCmd(state),
		newRecordEditCmd(state),
		newRecordDeleteCmd(state),
		newRecordClearCmd(state),
	)
	return cmd
}

func newRecordAddCmd(state *cliState) *cobra.Command {
	var date string
	var progress float64
	var waste map[string]string

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Record cumulative progress and the waste generated since the last record",
		Example: `  fgr record add Tower --date 2024-03-08 --progress 50 --waste concrete=15 --waste wood=5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := record.ParseDate(date)
			if err != nil {
				return err
			}
			breakdown, err := parseWaste(waste)
			if err != nil {
				return err
			}
			res, err := state.app.Projects.AppendRecord(cmd.Context(), state.tenant(), project.AppendRequest{
				Project:               args[0],
				Date:                  d,
				CumulativeProgressPct: progress,
				WasteBreakdown:        breakdown,
			})
			if err != nil {
				return err
			}
			printLedgerResult(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "observation date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&progress, "progress", 0, "cumulative progress in percent")
	cmd.Flags().StringToStringVar(&waste, "waste", nil, "waste volume in m³ per type, e.g. concrete=12.5")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("progress")
	_ = cmd.MarkFlagRequired("waste")
	return cmd
}

func newRecordEditCmd(state *cliState) *cobra.Command {
	var date string
	var progress float64
	var waste map[string]string

	cmd := &cobra.Command{
		Use:   "edit PROJECT RECORD_ID",
		Short: "Change a record; every derived value is recomputed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := project.EditRequest{Project: args[0], RecordID: args[1]}
			flags := cmd.Flags()
			if flags.Changed("date") {
				d, err := record.ParseDate(date)
				if err != nil {
					return err
				}
				req.Date = &d
			}
			if flags.Changed("progress") {
				req.CumulativeProgressPct = &progress
			}
			if flags.Changed("waste") {
				breakdown, err := parseWaste(waste)
				if err != nil {
					return err
				}
				req.WasteBreakdown = breakdown
			}
			if req.Date == nil && req.CumulativeProgressPct == nil && req.WasteBreakdown == nil {
				return fmt.Errorf("nothing to change: set --date, --progress or --waste")
			}

			res, err := state.app.Projects.EditRecord(cmd.Context(), state.tenant(), req)
			if err != nil {
				return err
			}
			printLedgerResult(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "new observation date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&progress, "progress", 0, "new cumulative progress in percent")
	cmd.Flags().StringToStringVar(&waste, "waste", nil, "replacement waste breakdown, e.g. concrete=12.5")
	return cmd
}

func newRecordDeleteCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete PROJECT RECORD_ID",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := state.app.Projects.DeleteRecord(cmd.Context(), state.tenant(), args[0], args[1])
			if err != nil {
				return err
			}
			printLedgerResult(cmd, res)
			return nil
		},
	}
}

func newRecordClearCmd(state *cliState) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear PROJECT",
		Short: "Delete every record of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := state.confirm(fmt.Sprintf("Delete every record of %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			res, err := state.app.Projects.ClearRecords(cmd.Context(), state.tenant(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared all records of %s.\n", res.Project.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// parseWaste converts type=volume flag pairs into a breakdown. Volumes are
// validated by the ledger.
func parseWaste(pairs map[string]string) (record.WasteBreakdown, error) {
	breakdown := make(record.WasteBreakdown, len(pairs))
	for name, raw := range pairs {
		volume, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%s", record.ErrInvalidVolume, name, raw)
		}
		breakdown[strings.TrimSpace(name)] = volume
	}
	return breakdown, nil
}

func printLedgerResult(cmd *cobra.Command, res *project.LedgerResult) {
	out := cmd.OutOrStdout()
	if res.Record != nil {
		fmt.Fprintf(out, "Record %s on %s: period FGR %s\n",
			res.Record.ID, record.FormatDate(res.Record.Date), cli.FormatFGR(res.Record.PeriodFGR))
	}
	fmt.Fprintln(out)
	if len(res.Records) == 0 {
		fmt.Fprintln(out, "  No records.")
		return
	}
	fmt.Fprint(out, renderRecords(res.Records))
}
