package export_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/dechenique1/fgr/internal/domain/record"
	"github.com/dechenique1/fgr/internal/export"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	ledger := record.NewLedger(1000)
	_, err := ledger.Append(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)
	_, err = ledger.Append(time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), 50, record.WasteBreakdown{"concrete": 15, "wood": 5})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, []string{"concrete", "wood"}, ledger.Records()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{
		"date", "cumulative_progress_pct", "increment_pct", "period_area", "cumulative_area",
		"period_waste_volume", "cumulative_waste_volume", "period_fgr", "cumulative_fgr",
		"concrete", "wood",
	}, rows[0])
	require.Equal(t, []string{"2024-03-01", "20", "20", "200", "200", "10", "10", "0.05", "0.05", "10", "0"}, rows[1])
	require.Equal(t, "2024-03-08", rows[2][0])
	require.Equal(t, "0.06", rows[2][8])
	require.Equal(t, "5", rows[2][10])
}

func TestWriteCSV_EmptySeries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, []string{"metal"}, nil))
	require.Equal(t, "date,cumulative_progress_pct,increment_pct,period_area,cumulative_area,period_waste_volume,cumulative_waste_volume,period_fgr,cumulative_fgr,metal\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriteCSV_WriterError(t *testing.T) {
	require.Error(t, export.WriteCSV(failingWriter{}, []string{"metal"}, nil))
}
