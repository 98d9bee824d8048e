// Package export writes ledger series in tabular formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dechenique1/fgr/internal/domain/record"
)

var baseHeader = []string{
	"date",
	"cumulative_progress_pct",
	"increment_pct",
	"period_area",
	"cumulative_area",
	"period_waste_volume",
	"cumulative_waste_volume",
	"period_fgr",
	"cumulative_fgr",
}

// WriteCSV writes a header and one row per record. Each waste type gets its
// own column; types absent from a record are written as 0.
func WriteCSV(w io.Writer, wasteTypes []string, records []record.ProgressRecord) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, baseHeader...), wasteTypes...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			record.FormatDate(rec.Date),
			formatFloat(rec.CumulativeProgressPct),
			formatFloat(rec.IncrementPct),
			formatFloat(rec.PeriodArea),
			formatFloat(rec.CumulativeArea),
			formatFloat(rec.PeriodWasteVolume),
			formatFloat(rec.CumulativeWasteVolume),
			formatFloat(rec.PeriodFGR),
			formatFloat(rec.CumulativeFGR),
		}
		for _, name := range wasteTypes {
			row = append(row, formatFloat(rec.WasteBreakdown[name]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
