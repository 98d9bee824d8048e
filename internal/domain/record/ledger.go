package record

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Ledger is the date-ordered progress history of one project. Every
// mutation re-sorts the records and runs Recompute over the whole sequence.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	totalArea float64
	records   []ProgressRecord
}

// NewLedger creates an empty ledger for a project of the given area (m²).
func NewLedger(totalArea float64) *Ledger {
	return &Ledger{totalArea: totalArea}
}

// TotalArea returns the project area the ledger computes against.
func (l *Ledger) TotalArea() float64 {
	return l.totalArea
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Records returns a deep copy of the ordered records.
func (l *Ledger) Records() []ProgressRecord {
	out := make([]ProgressRecord, len(l.records))
	for i, rec := range l.records {
		out[i] = rec.Clone()
	}
	return out
}

// Get returns a copy of the record with the given id.
func (l *Ledger) Get(id string) (ProgressRecord, error) {
	i := l.indexOf(id)
	if i < 0 {
		return ProgressRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return l.records[i].Clone(), nil
}

// LastProgress returns the highest cumulative progress recorded, or 0 for an
// empty ledger. The next Append must exceed it.
func (l *Ledger) LastProgress() float64 {
	last := 0.0
	for _, rec := range l.records {
		if rec.CumulativeProgressPct > last {
			last = rec.CumulativeProgressPct
		}
	}
	return last
}

// Append inserts a new observation. On error the ledger is unchanged.
func (l *Ledger) Append(date time.Time, cumulativePct float64, breakdown WasteBreakdown) (ProgressRecord, error) {
	last := l.LastProgress()
	if !(cumulativePct > last) {
		if math.IsNaN(cumulativePct) {
			return ProgressRecord{}, fmt.Errorf("%w: got %v", ErrProgressOutOfRange, cumulativePct)
		}
		return ProgressRecord{}, fmt.Errorf("%w: got %v, last %v", ErrNonMonotonicProgress, cumulativePct, last)
	}
	if cumulativePct > 100 {
		return ProgressRecord{}, fmt.Errorf("%w: got %v", ErrProgressOutOfRange, cumulativePct)
	}
	if err := breakdown.validateVolumes(); err != nil {
		return ProgressRecord{}, err
	}
	if date.IsZero() {
		return ProgressRecord{}, ErrInvalidDate
	}

	rec := ProgressRecord{
		ID:                    uuid.NewString(),
		Date:                  NormalizeDate(date),
		CumulativeProgressPct: cumulativePct,
		WasteBreakdown:        breakdown.Clone(),
	}
	l.records = append(l.records, rec)
	l.reorder()
	return l.Get(rec.ID)
}

// Edit replaces the requested fields of an existing record. Field values are
// validated, but the ordering of progress across records is not: callers
// editing several records may pass through inconsistent states. Use
// EditStrict or CheckOrder to enforce it.
func (l *Ledger) Edit(id string, req EditRequest) (ProgressRecord, error) {
	i := l.indexOf(id)
	if i < 0 {
		return ProgressRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	updated := l.records[i].Clone()
	if req.Date != nil {
		if req.Date.IsZero() {
			return ProgressRecord{}, ErrInvalidDate
		}
		updated.Date = NormalizeDate(*req.Date)
	}
	if req.CumulativeProgressPct != nil {
		pct := *req.CumulativeProgressPct
		if !(pct >= 0 && pct <= 100) {
			return ProgressRecord{}, fmt.Errorf("%w: got %v", ErrProgressOutOfRange, pct)
		}
		updated.CumulativeProgressPct = pct
	}
	if req.WasteBreakdown != nil {
		if err := req.WasteBreakdown.validateVolumes(); err != nil {
			return ProgressRecord{}, err
		}
		updated.WasteBreakdown = req.WasteBreakdown.Clone()
	}

	if updated.Date.Equal(l.records[i].Date) {
		l.records[i] = updated
	} else {
		// A moved record sorts after the records already on its new date.
		l.records = append(slices.Delete(l.records, i, i+1), updated)
	}
	l.reorder()
	return l.Get(id)
}

// EditStrict behaves like Edit but rejects the change with
// ErrNonMonotonicProgress when the resulting ledger is out of order.
func (l *Ledger) EditStrict(id string, req EditRequest) (ProgressRecord, error) {
	trial := l.Clone()
	if _, err := trial.Edit(id, req); err != nil {
		return ProgressRecord{}, err
	}
	if err := trial.CheckOrder(); err != nil {
		return ProgressRecord{}, err
	}
	l.records = trial.records
	return l.Get(id)
}

// Delete removes a record.
func (l *Ledger) Delete(id string) error {
	i := l.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	l.records = slices.Delete(l.records, i, i+1)
	l.reorder()
	return nil
}

// Clear removes every record.
func (l *Ledger) Clear() {
	l.records = nil
}

// Restore replaces the ledger contents with previously stored records,
// assigning ids where missing. Stored derived values are discarded and
// recomputed. No ordering checks are made.
func (l *Ledger) Restore(records []ProgressRecord) {
	l.records = make([]ProgressRecord, 0, len(records))
	for _, rec := range records {
		rec = rec.Clone()
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		rec.Date = NormalizeDate(rec.Date)
		l.records = append(l.records, rec)
	}
	l.reorder()
}

// CheckOrder verifies that cumulative progress strictly increases along the
// date order.
func (l *Ledger) CheckOrder() error {
	for i := 1; i < len(l.records); i++ {
		prev, cur := l.records[i-1], l.records[i]
		if !(cur.CumulativeProgressPct > prev.CumulativeProgressPct) {
			return fmt.Errorf("%w: %v on %s follows %v on %s",
				ErrNonMonotonicProgress,
				cur.CumulativeProgressPct, FormatDate(cur.Date),
				prev.CumulativeProgressPct, FormatDate(prev.Date))
		}
	}
	return nil
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{totalArea: l.totalArea, records: l.Records()}
}

func (l *Ledger) reorder() {
	slices.SortStableFunc(l.records, func(a, b ProgressRecord) int {
		return a.Date.Compare(b.Date)
	})
	Recompute(l.records, l.totalArea)
}

func (l *Ledger) indexOf(id string) int {
	return slices.IndexFunc(l.records, func(rec ProgressRecord) bool {
		return rec.ID == id
	})
}
