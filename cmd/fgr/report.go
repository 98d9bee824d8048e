package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dechenique1/fgr/internal/cli"
	"github.com/dechenique1/fgr/internal/domain/metrics"
	"github.com/dechenique1/fgr/internal/domain/record"
	"github.com/dechenique1/fgr/internal/export"
)

type rangeFlags struct {
	from string
	to   string
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.from, "from", "", "first date to include, YYYY-MM-DD")
	cmd.Flags().StringVar(&r.to, "to", "", "last date to include, YYYY-MM-DD")
}

func (r *rangeFlags) filter() (metrics.Filter, error) {
	var f metrics.Filter
	var err error
	if f.From, err = optionalDate(r.from); err != nil {
		return f, err
	}
	f.To, err = optionalDate(r.to)
	return f, err
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := record.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *cliState) view(cmd *cobra.Command, name string, r *rangeFlags) (metrics.View, error) {
	filter, err := r.filter()
	if err != nil {
		return metrics.View{}, err
	}
	proj, err := s.app.Projects.Get(cmd.Context(), s.tenant(), name)
	if err != nil {
		return metrics.View{}, err
	}
	return metrics.Build(proj, filter)
}

func newMetricsCmd(state *cliState) *cobra.Command {
	var r rangeFlags

	cmd := &cobra.Command{
		Use:   "metrics PROJECT",
		Short: "Summarize a project's waste generation rates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := state.view(cmd, args[0], &r)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.RenderTitle("FGR  "+view.Project))
			fmt.Fprintln(out)

			if view.Summary.RecordCount == 0 {
				fmt.Fprintln(out, "  No records in range.")
				return nil
			}

			sum := view.Summary
			fmt.Fprint(out, cli.RenderPairs([][2]string{
				{"Records", fmt.Sprint(sum.RecordCount)},
				{"Progress", cli.FormatPercent(sum.LastProgress)},
				{"Last increment", cli.FormatPercent(sum.LastIncrement)},
				{"Built area", cli.FormatArea(sum.CumulativeArea)},
				{"Waste", cli.FormatVolume(sum.TotalWasteVolume)},
				{"Mean period FGR", cli.FormatFGR(sum.MeanPeriodFGR)},
				{"Cumulative FGR", cli.FormatFGR(sum.FinalCumulativeFGR)},
			}))
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(view.ByType))
			for _, share := range view.ByType {
				rows = append(rows, []string{
					share.WasteType,
					cli.FormatVolume(share.Volume),
					cli.FormatPercent(share.SharePct),
				})
			}
			fmt.Fprint(out, cli.RenderTable(cli.Table{
				Title:   "By waste type",
				Headers: []string{"Type", "Volume", "Share"},
				Rows:    rows,
			}))
			return nil
		},
	}
	r.register(cmd)
	return cmd
}

func newExportCmd(state *cliState) *cobra.Command {
	var r rangeFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Export a project's record series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			view, err := state.view(cmd, args[0], &r)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}
			if err := export.WriteCSV(w, view.WasteTypes, view.Series); err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d records to %s\n", len(view.Series), outPath)
			}
			return nil
		},
	}
	r.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	return cmd
}
