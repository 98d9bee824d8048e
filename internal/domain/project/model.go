package project

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dechenique1/fgr/internal/domain/record"
)

// Project is a construction project: a fixed built area, the waste types
// it tracks and the ledger of its progress observations.
type Project struct {
	Name       string
	TotalArea  float64
	WasteTypes record.WasteTypes
	Ledger     *record.Ledger
}

// Summary is a lightweight representation for listing.
type Summary struct {
	Name          string   `json:"name"`
	TotalArea     float64  `json:"total_area"`
	WasteTypes    []string `json:"waste_types"`
	RecordCount   int      `json:"record_count"`
	LastProgress  float64  `json:"last_progress"`
	CumulativeFGR float64  `json:"cumulative_fgr"`
}

// New validates the inputs and returns a project with an empty ledger.
func New(name string, totalArea float64, wasteTypes []string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidProjectName
	}
	if !(totalArea > 0) || math.IsInf(totalArea, 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidArea, totalArea)
	}
	types := record.NewWasteTypes(wasteTypes...)
	if len(types) == 0 {
		return nil, ErrNoWasteTypesConfigured
	}
	return &Project{
		Name:       name,
		TotalArea:  totalArea,
		WasteTypes: types,
		Ledger:     record.NewLedger(totalArea),
	}, nil
}

// LastProgress returns the highest recorded cumulative progress, 0 when the
// ledger is empty. The next appended record must exceed it.
func (p *Project) LastProgress() float64 {
	return p.Ledger.LastProgress()
}

// Records returns a copy of the recalculated series.
func (p *Project) Records() []record.ProgressRecord {
	return p.Ledger.Records()
}

// Append adds an observation after checking its waste types.
func (p *Project) Append(date time.Time, cumulativePct float64, breakdown record.WasteBreakdown) (record.ProgressRecord, error) {
	if err := p.checkTypes(breakdown); err != nil {
		return record.ProgressRecord{}, err
	}
	return p.Ledger.Append(date, cumulativePct, breakdown)
}

// Edit replaces fields of an existing record. With strict set, an edit that
// breaks the progress ordering is rejected and the ledger left unchanged.
func (p *Project) Edit(id string, req record.EditRequest, strict bool) (record.ProgressRecord, error) {
	if req.WasteBreakdown != nil {
		if err := p.checkTypes(req.WasteBreakdown); err != nil {
			return record.ProgressRecord{}, err
		}
	}
	if strict {
		return p.Ledger.EditStrict(id, req)
	}
	return p.Ledger.Edit(id, req)
}

// Delete removes a record.
func (p *Project) Delete(id string) error {
	return p.Ledger.Delete(id)
}

// Clear removes all records.
func (p *Project) Clear() {
	p.Ledger.Clear()
}

// Summary returns the listing view of the project.
func (p *Project) Summary() Summary {
	s := Summary{
		Name:         p.Name,
		TotalArea:    p.TotalArea,
		WasteTypes:   append([]string(nil), p.WasteTypes...),
		RecordCount:  p.Ledger.Len(),
		LastProgress: p.LastProgress(),
	}
	if records := p.Ledger.Records(); len(records) > 0 {
		s.CumulativeFGR = records[len(records)-1].CumulativeFGR
	}
	return s
}

func (p *Project) checkTypes(breakdown record.WasteBreakdown) error {
	for _, name := range breakdown.Types() {
		if !p.WasteTypes.Contains(name) {
			return fmt.Errorf("%w: %q", record.ErrUnknownWasteType, name)
		}
	}
	return nil
}
