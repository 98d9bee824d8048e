// Package metrics derives read-only views over a project's ledger.
package metrics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dechenique1/fgr/internal/domain/project"
	"github.com/dechenique1/fgr/internal/domain/record"
)

// ErrInvalidRange is returned when From is after To.
var ErrInvalidRange = errors.New("invalid date range")

// Filter restricts the view to records dated within [From, To]. Nil bounds
// are open.
type Filter struct {
	From *time.Time
	To   *time.Time
}

// Summary aggregates the selected records.
type Summary struct {
	RecordCount        int     `json:"record_count"`
	LastProgress       float64 `json:"last_progress"`
	LastIncrement      float64 `json:"last_increment"`
	CumulativeArea     float64 `json:"cumulative_area"`
	LastPeriodArea     float64 `json:"last_period_area"`
	TotalWasteVolume   float64 `json:"total_waste_volume"`
	MeanPeriodFGR      float64 `json:"mean_period_fgr"`
	FinalCumulativeFGR float64 `json:"final_cumulative_fgr"`
}

// TypeShare is the volume of one waste type across the selection.
type TypeShare struct {
	WasteType string  `json:"waste_type"`
	Volume    float64 `json:"volume"`
	SharePct  float64 `json:"share_pct"`
}

// View is the metrics output for one project.
type View struct {
	Project    string                  `json:"project"`
	TotalArea  float64                 `json:"total_area"`
	WasteTypes []string                `json:"waste_types"`
	Series     []record.ProgressRecord `json:"series"`
	Summary    Summary                 `json:"summary"`
	ByType     []TypeShare             `json:"by_type"`
}

// Build computes the view. Derived values always come from the full ledger;
// the filter only selects which records are reported and aggregated.
func Build(p *project.Project, filter Filter) (View, error) {
	from, to, err := filter.bounds()
	if err != nil {
		return View{}, err
	}

	var series []record.ProgressRecord
	for _, rec := range p.Records() {
		if from != nil && rec.Date.Before(*from) {
			continue
		}
		if to != nil && rec.Date.After(*to) {
			continue
		}
		series = append(series, rec)
	}
	if series == nil {
		series = []record.ProgressRecord{}
	}

	return View{
		Project:    p.Name,
		TotalArea:  p.TotalArea,
		WasteTypes: append([]string{}, p.WasteTypes...),
		Series:     series,
		Summary:    summarize(series),
		ByType:     byType(series, p.WasteTypes),
	}, nil
}

func (f Filter) bounds() (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if f.From != nil {
		d := record.NormalizeDate(*f.From)
		from = &d
	}
	if f.To != nil {
		d := record.NormalizeDate(*f.To)
		to = &d
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, record.FormatDate(*from), record.FormatDate(*to))
	}
	return from, to, nil
}

func summarize(series []record.ProgressRecord) Summary {
	s := Summary{RecordCount: len(series)}
	if len(series) == 0 {
		return s
	}

	var fgrSum float64
	for _, rec := range series {
		s.TotalWasteVolume += rec.PeriodWasteVolume
		fgrSum += rec.PeriodFGR
		// Highest reported progress, as on the project itself.
		s.LastProgress = max(s.LastProgress, rec.CumulativeProgressPct)
	}
	last := series[len(series)-1]
	s.LastIncrement = last.IncrementPct
	s.CumulativeArea = last.CumulativeArea
	s.LastPeriodArea = last.PeriodArea
	s.MeanPeriodFGR = fgrSum / float64(len(series))
	s.FinalCumulativeFGR = last.CumulativeFGR
	return s
}

func byType(series []record.ProgressRecord, types record.WasteTypes) []TypeShare {
	totals := make(map[string]float64)
	var grand float64
	for _, rec := range series {
		for _, name := range rec.WasteBreakdown.Types() {
			v := rec.WasteBreakdown[name]
			totals[name] += v
			grand += v
		}
	}

	shares := make([]TypeShare, 0, len(types))
	for _, name := range types {
		share := TypeShare{WasteType: name, Volume: totals[name]}
		if grand > 0 {
			share.SharePct = totals[name] / grand * 100
		}
		shares = append(shares, share)
	}
	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].Volume != shares[j].Volume {
			return shares[i].Volume > shares[j].Volume
		}
		return shares[i].WasteType < shares[j].WasteType
	})
	return shares
}
