package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// ProgressRecord is one dated observation of cumulative progress and the
// waste generated since the previous observation. The derived fields are
// owned by the ledger and overwritten on every recomputation.
type ProgressRecord struct {
	ID                    string
	Date                  time.Time
	CumulativeProgressPct float64
	WasteBreakdown        WasteBreakdown

	IncrementPct          float64
	PeriodArea            float64
	PeriodWasteVolume     float64
	PeriodFGR             float64
	CumulativeArea        float64
	CumulativeWasteVolume float64
	CumulativeFGR         float64
}

// Clone returns a deep copy of the record.
func (r ProgressRecord) Clone() ProgressRecord {
	r.WasteBreakdown = r.WasteBreakdown.Clone()
	return r
}

type progressRecordJSON struct {
	ID                    string         `json:"id"`
	Date                  string         `json:"date"`
	CumulativeProgressPct float64        `json:"cumulative_progress_pct"`
	WasteBreakdown        WasteBreakdown `json:"waste_breakdown"`
	IncrementPct          float64        `json:"increment_pct"`
	PeriodArea            float64        `json:"period_area"`
	PeriodWasteVolume     float64        `json:"period_waste_volume"`
	PeriodFGR             float64        `json:"period_fgr"`
	CumulativeArea        float64        `json:"cumulative_area"`
	CumulativeWasteVolume float64        `json:"cumulative_waste_volume"`
	CumulativeFGR         float64        `json:"cumulative_fgr"`
}

// MarshalJSON renders the record with a calendar date string.
func (r ProgressRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(progressRecordJSON{
		ID:                    r.ID,
		Date:                  FormatDate(r.Date),
		CumulativeProgressPct: r.CumulativeProgressPct,
		WasteBreakdown:        r.WasteBreakdown,
		IncrementPct:          r.IncrementPct,
		PeriodArea:            r.PeriodArea,
		PeriodWasteVolume:     r.PeriodWasteVolume,
		PeriodFGR:             r.PeriodFGR,
		CumulativeArea:        r.CumulativeArea,
		CumulativeWasteVolume: r.CumulativeWasteVolume,
		CumulativeFGR:         r.CumulativeFGR,
	})
}

// UnmarshalJSON accepts the format produced by MarshalJSON.
func (r *ProgressRecord) UnmarshalJSON(data []byte) error {
	var raw progressRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	*r = ProgressRecord{
		ID:                    raw.ID,
		Date:                  date,
		CumulativeProgressPct: raw.CumulativeProgressPct,
		WasteBreakdown:        raw.WasteBreakdown,
		IncrementPct:          raw.IncrementPct,
		PeriodArea:            raw.PeriodArea,
		PeriodWasteVolume:     raw.PeriodWasteVolume,
		PeriodFGR:             raw.PeriodFGR,
		CumulativeArea:        raw.CumulativeArea,
		CumulativeWasteVolume: raw.CumulativeWasteVolume,
		CumulativeFGR:         raw.CumulativeFGR,
	}
	return nil
}

// EditRequest lists the fields to replace on an existing record.
// Nil fields are left untouched.
type EditRequest struct {
	Date                  *time.Time
	CumulativeProgressPct *float64
	WasteBreakdown        WasteBreakdown
}

// NormalizeDate drops the time of day, keeping the calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date. Longer timestamps are truncated to
// their date prefix.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
