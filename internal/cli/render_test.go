package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Records",
		Headers: []string{"Date", "Progress"},
		Rows: [][]string{
			{"2024-03-01", "20.00%"},
			{"2024-03-08", "100.00%"},
		},
	})

	require.Contains(t, out, "Records")
	require.Contains(t, out, "2024-03-01")
	require.Contains(t, out, "100.00%")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, top, header, separator, two rows, bottom
	require.Len(t, lines, 7)
	require.Contains(t, lines[4], "  20.00%")
}

func TestRenderTable_Empty(t *testing.T) {
	require.Empty(t, RenderTable(Table{}))
}

func TestRenderSparkline(t *testing.T) {
	require.Empty(t, RenderSparkline(nil))
	require.Equal(t, "▁█", RenderSparkline([]float64{0, 2}))
	require.Equal(t, "▁▁", RenderSparkline([]float64{0, 0}))
}

func TestRenderPairs(t *testing.T) {
	out := RenderPairs([][2]string{{"Records", "2"}, {"Final FGR", "0.0600 m³/m²"}})
	require.Contains(t, out, "Final FGR")
	require.Contains(t, out, "0.0600 m³/m²")
}
