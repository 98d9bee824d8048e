package record_test

import (
	"testing"
	"time"

	"github.com/dechenique1/fgr/internal/domain/record"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func day(n int) time.Time {
	return time.Date(2024, time.March, n, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func TestLedger_AppendScenario(t *testing.T) {
	ledger := record.NewLedger(1000)

	first, err := ledger.Append(day(1), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.InDelta(t, 20, first.IncrementPct, tolerance)
	require.InDelta(t, 200, first.PeriodArea, tolerance)
	require.InDelta(t, 0.05, first.PeriodFGR, tolerance)
	require.InDelta(t, 0.05, first.CumulativeFGR, tolerance)

	second, err := ledger.Append(day(8), 50, record.WasteBreakdown{"concrete": 15, "wood": 5})
	require.NoError(t, err)
	require.InDelta(t, 30, second.IncrementPct, tolerance)
	require.InDelta(t, 300, second.PeriodArea, tolerance)
	require.InDelta(t, 20, second.PeriodWasteVolume, tolerance)
	require.InDelta(t, 0.0667, second.PeriodFGR, 1e-4)
	require.InDelta(t, 500, second.CumulativeArea, tolerance)
	require.InDelta(t, 30, second.CumulativeWasteVolume, tolerance)
	require.InDelta(t, 0.06, second.CumulativeFGR, tolerance)

	require.Equal(t, 2, ledger.Len())
	require.InDelta(t, 50, ledger.LastProgress(), tolerance)
}

func TestLedger_AppendRejectsEqualProgress(t *testing.T) {
	ledger := record.NewLedger(1000)
	_, err := ledger.Append(day(1), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)

	_, err = ledger.Append(day(2), 20, record.WasteBreakdown{"concrete": 3})
	require.ErrorIs(t, err, record.ErrNonMonotonicProgress)
	require.True(t, record.IsValidation(err))
	require.Equal(t, 1, ledger.Len())
}

func TestLedger_AppendValidation(t *testing.T) {
	tests := []struct {
		name      string
		pct       float64
		breakdown record.WasteBreakdown
		date      time.Time
		wantErr   error
	}{
		{name: "above 100", pct: 100.0001, breakdown: record.WasteBreakdown{"concrete": 1}, date: day(2), wantErr: record.ErrProgressOutOfRange},
		{name: "below last", pct: 5, breakdown: record.WasteBreakdown{"concrete": 1}, date: day(2), wantErr: record.ErrNonMonotonicProgress},
		{name: "empty waste", pct: 30, breakdown: record.WasteBreakdown{}, date: day(2), wantErr: record.ErrEmptyWasteBreakdown},
		{name: "nil waste", pct: 30, breakdown: nil, date: day(2), wantErr: record.ErrEmptyWasteBreakdown},
		{name: "zero volume", pct: 30, breakdown: record.WasteBreakdown{"concrete": 0}, date: day(2), wantErr: record.ErrInvalidVolume},
		{name: "missing date", pct: 30, breakdown: record.WasteBreakdown{"concrete": 1}, wantErr: record.ErrInvalidDate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ledger := record.NewLedger(1000)
			_, err := ledger.Append(day(1), 10, record.WasteBreakdown{"concrete": 1})
			require.NoError(t, err)
			before := ledger.Records()

			_, err = ledger.Append(tc.date, tc.pct, tc.breakdown)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, before, ledger.Records())
		})
	}
}

func TestLedger_AppendExactly100(t *testing.T) {
	ledger := record.NewLedger(500)
	rec, err := ledger.Append(day(1), 100, record.WasteBreakdown{"concrete": 50})
	require.NoError(t, err)
	require.InDelta(t, 500, rec.CumulativeArea, tolerance)
	require.InDelta(t, 0.1, rec.CumulativeFGR, tolerance)
}

func TestLedger_OrdersByDate(t *testing.T) {
	ledger := record.NewLedger(1000)
	_, err := ledger.Append(day(10), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)
	// Higher progress, earlier date: accepted, then sorted ahead.
	_, err = ledger.Append(day(5), 40, record.WasteBreakdown{"concrete": 4})
	require.NoError(t, err)

	records := ledger.Records()
	require.Equal(t, day(5), records[0].Date)
	require.InDelta(t, 40, records[0].IncrementPct, tolerance)
	require.InDelta(t, -20, records[1].IncrementPct, tolerance)
	require.InDelta(t, 0, records[1].PeriodFGR, tolerance)
	require.ErrorIs(t, ledger.CheckOrder(), record.ErrNonMonotonicProgress)
}

func TestLedger_SameDateKeepsInsertionOrder(t *testing.T) {
	ledger := record.NewLedger(1000)
	a, err := ledger.Append(day(3), 10, record.WasteBreakdown{"concrete": 1})
	require.NoError(t, err)
	b, err := ledger.Append(day(3), 20, record.WasteBreakdown{"concrete": 2})
	require.NoError(t, err)

	records := ledger.Records()
	require.Equal(t, a.ID, records[0].ID)
	require.Equal(t, b.ID, records[1].ID)
	require.NoError(t, ledger.CheckOrder())
}

func TestLedger_ValidSequencesStayOrdered(t *testing.T) {
	ledger := record.NewLedger(2500)
	steps := []struct {
		date time.Time
		pct  float64
	}{
		{day(1), 5}, {day(3), 12.5}, {day(3), 13}, {day(9), 40}, {day(20), 99.9}, {day(21), 100},
	}
	for _, step := range steps {
		_, err := ledger.Append(step.date, step.pct, record.WasteBreakdown{"wood": step.pct / 10})
		require.NoError(t, err)
	}

	records := ledger.Records()
	for i := 1; i < len(records); i++ {
		require.False(t, records[i].Date.Before(records[i-1].Date))
		require.Greater(t, records[i].CumulativeProgressPct, records[i-1].CumulativeProgressPct)
	}
	require.NoError(t, ledger.CheckOrder())
}

func TestLedger_PeriodAreasSumToProgressShare(t *testing.T) {
	ledger := record.NewLedger(1234.5)
	for i, pct := range []float64{3, 17.25, 42, 61.5} {
		_, err := ledger.Append(day(i+1), pct, record.WasteBreakdown{"concrete": 1})
		require.NoError(t, err)
	}

	sum := 0.0
	for _, rec := range ledger.Records() {
		sum += rec.PeriodArea
	}
	require.InDelta(t, 1234.5*ledger.LastProgress()/100, sum, 1e-6)
}

func TestLedger_DeleteFirstResetsIncrement(t *testing.T) {
	ledger := record.NewLedger(1000)
	first, err := ledger.Append(day(1), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)
	_, err = ledger.Append(day(2), 50, record.WasteBreakdown{"concrete": 15, "wood": 5})
	require.NoError(t, err)

	require.NoError(t, ledger.Delete(first.ID))

	records := ledger.Records()
	require.Len(t, records, 1)
	require.InDelta(t, 50, records[0].IncrementPct, tolerance)
	require.InDelta(t, 500, records[0].PeriodArea, tolerance)
	require.InDelta(t, 0.04, records[0].CumulativeFGR, tolerance)
}

func TestLedger_DeleteUnknown(t *testing.T) {
	ledger := record.NewLedger(1000)
	require.ErrorIs(t, ledger.Delete("missing"), record.ErrRecordNotFound)
}

func TestLedger_EditRecomputesWholeSeries(t *testing.T) {
	ledger := record.NewLedger(1000)
	first, err := ledger.Append(day(1), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)
	second, err := ledger.Append(day(2), 50, record.WasteBreakdown{"concrete": 20})
	require.NoError(t, err)

	_, err = ledger.Edit(first.ID, record.EditRequest{CumulativeProgressPct: ptr(25.0)})
	require.NoError(t, err)

	updated, err := ledger.Get(second.ID)
	require.NoError(t, err)
	require.InDelta(t, 25, updated.IncrementPct, tolerance)
	require.InDelta(t, 250, updated.PeriodArea, tolerance)
	require.InDelta(t, 0.08, updated.PeriodFGR, tolerance)
	require.InDelta(t, 0.06, updated.CumulativeFGR, tolerance)
}

func TestLedger_EditIsPermissiveAboutOrder(t *testing.T) {
	ledger := record.NewLedger(1000)
	first, err := ledger.Append(day(1), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)
	_, err = ledger.Append(day(2), 50, record.WasteBreakdown{"concrete": 20})
	require.NoError(t, err)

	_, err = ledger.Edit(first.ID, record.EditRequest{CumulativeProgressPct: ptr(60.0)})
	require.NoError(t, err)
	require.ErrorIs(t, ledger.CheckOrder(), record.ErrNonMonotonicProgress)
}

func TestLedger_EditStrictRollsBack(t *testing.T) {
	ledger := record.NewLedger(1000)
	first, err := ledger.Append(day(1), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)
	_, err = ledger.Append(day(2), 50, record.WasteBreakdown{"concrete": 20})
	require.NoError(t, err)
	before := ledger.Records()

	_, err = ledger.EditStrict(first.ID, record.EditRequest{CumulativeProgressPct: ptr(60.0)})
	require.ErrorIs(t, err, record.ErrNonMonotonicProgress)
	require.Equal(t, before, ledger.Records())

	rec, err := ledger.EditStrict(first.ID, record.EditRequest{CumulativeProgressPct: ptr(30.0)})
	require.NoError(t, err)
	require.InDelta(t, 30, rec.CumulativeProgressPct, tolerance)
}

func TestLedger_EditMovesRecordByDate(t *testing.T) {
	ledger := record.NewLedger(1000)
	a, err := ledger.Append(day(1), 10, record.WasteBreakdown{"concrete": 1})
	require.NoError(t, err)
	b, err := ledger.Append(day(5), 20, record.WasteBreakdown{"concrete": 1})
	require.NoError(t, err)
	c, err := ledger.Append(day(9), 30, record.WasteBreakdown{"concrete": 1})
	require.NoError(t, err)

	// a moves onto b's date and sorts after it.
	_, err = ledger.Edit(a.ID, record.EditRequest{Date: ptr(day(5).Add(15 * time.Hour))})
	require.NoError(t, err)

	records := ledger.Records()
	require.Equal(t, []string{b.ID, a.ID, c.ID}, []string{records[0].ID, records[1].ID, records[2].ID})
	require.Equal(t, day(5), records[1].Date)
}

func TestLedger_EditValidation(t *testing.T) {
	ledger := record.NewLedger(1000)
	rec, err := ledger.Append(day(1), 10, record.WasteBreakdown{"concrete": 1})
	require.NoError(t, err)

	_, err = ledger.Edit("missing", record.EditRequest{})
	require.ErrorIs(t, err, record.ErrRecordNotFound)
	_, err = ledger.Edit(rec.ID, record.EditRequest{CumulativeProgressPct: ptr(101.0)})
	require.ErrorIs(t, err, record.ErrProgressOutOfRange)
	_, err = ledger.Edit(rec.ID, record.EditRequest{CumulativeProgressPct: ptr(-1.0)})
	require.ErrorIs(t, err, record.ErrProgressOutOfRange)
	_, err = ledger.Edit(rec.ID, record.EditRequest{WasteBreakdown: record.WasteBreakdown{}})
	require.ErrorIs(t, err, record.ErrEmptyWasteBreakdown)
	_, err = ledger.Edit(rec.ID, record.EditRequest{Date: ptr(time.Time{})})
	require.ErrorIs(t, err, record.ErrInvalidDate)
}

func TestLedger_ZeroIncrementYieldsZeroFGR(t *testing.T) {
	ledger := record.NewLedger(1000)
	first, err := ledger.Append(day(1), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)
	second, err := ledger.Append(day(2), 40, record.WasteBreakdown{"concrete": 5})
	require.NoError(t, err)

	_, err = ledger.Edit(second.ID, record.EditRequest{CumulativeProgressPct: ptr(first.CumulativeProgressPct)})
	require.NoError(t, err)

	rec, err := ledger.Get(second.ID)
	require.NoError(t, err)
	require.InDelta(t, 0, rec.IncrementPct, tolerance)
	require.InDelta(t, 0, rec.PeriodArea, tolerance)
	require.Equal(t, 0.0, rec.PeriodFGR)
}

func TestLedger_ZeroProgressRecordOnRestore(t *testing.T) {
	ledger := record.NewLedger(1000)
	ledger.Restore([]record.ProgressRecord{
		{Date: day(1), CumulativeProgressPct: 0, WasteBreakdown: record.WasteBreakdown{"wood": 2}},
	})

	records := ledger.Records()
	require.Len(t, records, 1)
	require.NotEmpty(t, records[0].ID)
	require.Equal(t, 0.0, records[0].PeriodFGR)
	require.Equal(t, 0.0, records[0].CumulativeFGR)
}

func TestLedger_Clear(t *testing.T) {
	ledger := record.NewLedger(1000)
	_, err := ledger.Append(day(1), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)

	ledger.Clear()
	require.Equal(t, 0, ledger.Len())
	require.Equal(t, 0.0, ledger.LastProgress())

	_, err = ledger.Append(day(2), 5, record.WasteBreakdown{"concrete": 1})
	require.NoError(t, err)
}

func TestLedger_RecordsAreCopies(t *testing.T) {
	ledger := record.NewLedger(1000)
	_, err := ledger.Append(day(1), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)

	records := ledger.Records()
	records[0].WasteBreakdown["concrete"] = 999
	records[0].CumulativeProgressPct = 99

	fresh := ledger.Records()
	require.InDelta(t, 10, fresh[0].WasteBreakdown["concrete"], tolerance)
	require.InDelta(t, 20, fresh[0].CumulativeProgressPct, tolerance)
}

func TestRecompute_Idempotent(t *testing.T) {
	ledger := record.NewLedger(800)
	for i, pct := range []float64{10, 35, 35.5, 80} {
		_, err := ledger.Append(day(i+1), pct, record.WasteBreakdown{"concrete": float64(i + 1), "metal": 0.25})
		require.NoError(t, err)
	}

	records := ledger.Records()
	again := ledger.Records()
	record.Recompute(again, 800)
	require.Equal(t, records, again)
}
