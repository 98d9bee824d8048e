package record_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/dechenique1/fgr/internal/domain/record"
	"github.com/stretchr/testify/require"
)

func TestWasteTypes_Normalize(t *testing.T) {
	types := record.NewWasteTypes(" concrete", "wood", "", "concrete", "metal ")
	require.Equal(t, record.WasteTypes{"concrete", "wood", "metal"}, types)
	require.True(t, types.Contains("wood"))
	require.False(t, types.Contains("glass"))
}

func TestWasteBreakdown_Set(t *testing.T) {
	types := record.NewWasteTypes("concrete", "wood")
	breakdown := record.WasteBreakdown{}

	require.NoError(t, breakdown.Set(types, "concrete", 2.5))
	require.ErrorIs(t, breakdown.Set(types, "glass", 1), record.ErrUnknownWasteType)
	require.ErrorIs(t, breakdown.Set(types, "wood", 0), record.ErrInvalidVolume)
	require.ErrorIs(t, breakdown.Set(types, "wood", -3), record.ErrInvalidVolume)
	require.ErrorIs(t, breakdown.Set(types, "wood", math.NaN()), record.ErrInvalidVolume)
	require.Len(t, breakdown, 1)

	require.NoError(t, breakdown.Set(types, "concrete", 4))
	require.InDelta(t, 4, breakdown.Total(), tolerance)
}

func TestWasteBreakdown_TotalAndRemove(t *testing.T) {
	require.Equal(t, 0.0, record.WasteBreakdown{}.Total())
	require.Equal(t, 0.0, record.WasteBreakdown(nil).Total())

	breakdown := record.WasteBreakdown{"concrete": 15, "wood": 5}
	require.InDelta(t, 20, breakdown.Total(), tolerance)
	require.Equal(t, []string{"concrete", "wood"}, breakdown.Types())

	breakdown.Remove("wood")
	breakdown.Remove("missing")
	require.InDelta(t, 15, breakdown.Total(), tolerance)
}

func TestWasteBreakdown_Validate(t *testing.T) {
	types := record.NewWasteTypes("concrete", "wood")

	require.NoError(t, record.WasteBreakdown{"wood": 1}.Validate(types))
	require.ErrorIs(t, record.WasteBreakdown{}.Validate(types), record.ErrEmptyWasteBreakdown)
	require.ErrorIs(t, record.WasteBreakdown{"glass": 1}.Validate(types), record.ErrUnknownWasteType)
	require.ErrorIs(t, record.WasteBreakdown{"wood": -1}.Validate(types), record.ErrInvalidVolume)
}

func TestWasteBreakdown_Clone(t *testing.T) {
	original := record.WasteBreakdown{"concrete": 1}
	clone := original.Clone()
	clone["concrete"] = 2
	require.InDelta(t, 1, original["concrete"], tolerance)
	require.Nil(t, record.WasteBreakdown(nil).Clone())
}

func TestProgressRecord_JSONDate(t *testing.T) {
	rec := record.ProgressRecord{
		ID:                    "r1",
		Date:                  day(4),
		CumulativeProgressPct: 20,
		WasteBreakdown:        record.WasteBreakdown{"concrete": 10},
		PeriodFGR:             0.05,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.Contains(t, string(data), `"date":"2024-03-04"`)

	var decoded record.ProgressRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, rec, decoded)
}

func TestParseDate(t *testing.T) {
	got, err := record.ParseDate("2024-03-04T10:30:00")
	require.NoError(t, err)
	require.Equal(t, day(4), got)

	_, err = record.ParseDate("04/03/2024")
	require.ErrorIs(t, err, record.ErrInvalidDate)
}
