package project

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dechenique1/fgr/internal/domain/record"
)

// UnclassifiedWasteType holds period volumes stored without a per-type
// breakdown.
const UnclassifiedWasteType = "unclassified"

// Records stored without an id get one derived from their position and
// content, so repeated loads of an unsaved document agree on it.
var legacyRecordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("fgr:legacy-record"))

// Document is the persisted form of all projects of one user, keyed by
// project name.
type Document map[string]ProjectDTO

// ProjectDTO is one project entry of a Document.
type ProjectDTO struct {
	TotalArea  float64     `json:"total_area"`
	WasteTypes []string    `json:"waste_types"`
	Records    []RecordDTO `json:"records"`
}

// RecordDTO is one stored observation. Cumulative values are not stored;
// they are always recomputed on load.
type RecordDTO struct {
	ID                    string             `json:"id,omitempty"`
	Date                  string             `json:"date"`
	CumulativeProgressPct float64            `json:"cumulative_progress_pct"`
	IncrementPct          float64            `json:"increment_pct"`
	PeriodArea            float64            `json:"period_area"`
	PeriodWasteVolume     float64            `json:"period_waste_volume"`
	WasteBreakdown        map[string]float64 `json:"waste_breakdown"`
	PeriodFGR             float64            `json:"period_fgr"`
}

// Documents written by the earlier Spanish-language tool use these keys.
type legacyProjectDTO struct {
	TotalArea  *float64     `json:"total_area"`
	WasteTypes []string     `json:"waste_types"`
	Records    *[]RecordDTO `json:"records"`

	AreaTotal     *float64     `json:"area_total"`
	TiposResiduos []string     `json:"tipos_residuos"`
	Registros     *[]RecordDTO `json:"registros"`
}

// UnmarshalJSON accepts both current and legacy keys.
func (p *ProjectDTO) UnmarshalJSON(data []byte) error {
	var raw legacyProjectDTO
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = ProjectDTO{WasteTypes: raw.WasteTypes}
	switch {
	case raw.TotalArea != nil:
		p.TotalArea = *raw.TotalArea
	case raw.AreaTotal != nil:
		p.TotalArea = *raw.AreaTotal
	}
	if len(p.WasteTypes) == 0 {
		p.WasteTypes = raw.TiposResiduos
	}
	switch {
	case raw.Records != nil:
		p.Records = *raw.Records
	case raw.Registros != nil:
		p.Records = *raw.Registros
	}
	return nil
}

type legacyRecordDTO struct {
	ID                    string             `json:"id"`
	Date                  string             `json:"date"`
	CumulativeProgressPct *float64           `json:"cumulative_progress_pct"`
	IncrementPct          float64            `json:"increment_pct"`
	PeriodArea            float64            `json:"period_area"`
	PeriodWasteVolume     float64            `json:"period_waste_volume"`
	WasteBreakdown        map[string]float64 `json:"waste_breakdown"`
	PeriodFGR             float64            `json:"period_fgr"`

	Fecha            string             `json:"fecha"`
	PorcentajeAvance *float64           `json:"porcentaje_avance"`
	TiposResiduos    map[string]float64 `json:"tipos_residuos"`
	ResiduosPeriodo  float64            `json:"residuos_periodo"`
}

// UnmarshalJSON accepts both current and legacy keys.
func (r *RecordDTO) UnmarshalJSON(data []byte) error {
	var raw legacyRecordDTO
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = RecordDTO{
		ID:                raw.ID,
		Date:              raw.Date,
		IncrementPct:      raw.IncrementPct,
		PeriodArea:        raw.PeriodArea,
		PeriodWasteVolume: raw.PeriodWasteVolume,
		WasteBreakdown:    raw.WasteBreakdown,
		PeriodFGR:         raw.PeriodFGR,
	}
	if r.Date == "" {
		r.Date = raw.Fecha
	}
	switch {
	case raw.CumulativeProgressPct != nil:
		r.CumulativeProgressPct = *raw.CumulativeProgressPct
	case raw.PorcentajeAvance != nil:
		r.CumulativeProgressPct = *raw.PorcentajeAvance
	}
	if len(r.WasteBreakdown) == 0 {
		r.WasteBreakdown = raw.TiposResiduos
	}
	if r.PeriodWasteVolume == 0 {
		r.PeriodWasteVolume = raw.ResiduosPeriodo
	}
	return nil
}

// EncodeDocument serializes projects in the persisted document shape.
func EncodeDocument(projects map[string]*Project) ([]byte, error) {
	doc := make(Document, len(projects))
	for name, proj := range projects {
		records := proj.Records()
		dto := ProjectDTO{
			TotalArea:  proj.TotalArea,
			WasteTypes: append([]string{}, proj.WasteTypes...),
			Records:    make([]RecordDTO, 0, len(records)),
		}
		for _, rec := range records {
			dto.Records = append(dto.Records, RecordDTO{
				ID:                    rec.ID,
				Date:                  record.FormatDate(rec.Date),
				CumulativeProgressPct: rec.CumulativeProgressPct,
				IncrementPct:          rec.IncrementPct,
				PeriodArea:            rec.PeriodArea,
				PeriodWasteVolume:     rec.PeriodWasteVolume,
				WasteBreakdown:        rec.WasteBreakdown.Clone(),
				PeriodFGR:             rec.PeriodFGR,
			})
		}
		doc[name] = dto
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}

// DecodeDocument parses a persisted document and rebuilds every ledger with
// freshly recomputed derived values. Entries that cannot be represented are
// skipped, and period volumes stored without a breakdown are kept under
// UnclassifiedWasteType; both are described in the returned list. An error
// is returned only when the document itself is not valid JSON.
func DecodeDocument(data []byte) (map[string]*Project, []string, error) {
	projects := make(map[string]*Project)
	if len(data) == 0 {
		return projects, nil, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decoding document: %w", err)
	}

	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	var skipped []string
	for _, name := range names {
		dto := doc[name]
		proj, err := New(name, dto.TotalArea, dto.WasteTypes)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("project %q: %v", name, err))
			continue
		}
		if _, exists := projects[proj.Name]; exists {
			skipped = append(skipped, fmt.Sprintf("project %q: %v", name, ErrDuplicateProjectName))
			continue
		}

		records := make([]record.ProgressRecord, 0, len(dto.Records))
		for i, rd := range dto.Records {
			date, err := record.ParseDate(rd.Date)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("project %q record %d: %v", name, i, err))
				continue
			}
			breakdown := make(record.WasteBreakdown, len(rd.WasteBreakdown))
			for wasteType, volume := range rd.WasteBreakdown {
				if err := breakdown.Set(proj.WasteTypes, wasteType, volume); err != nil {
					skipped = append(skipped, fmt.Sprintf("project %q record %d: %v", name, i, err))
				}
			}
			if len(rd.WasteBreakdown) == 0 && rd.PeriodWasteVolume > 0 {
				if !proj.WasteTypes.Contains(UnclassifiedWasteType) {
					proj.WasteTypes = append(proj.WasteTypes, UnclassifiedWasteType)
				}
				if err := breakdown.Set(proj.WasteTypes, UnclassifiedWasteType, rd.PeriodWasteVolume); err != nil {
					skipped = append(skipped, fmt.Sprintf("project %q record %d: %v", name, i, err))
				} else {
					skipped = append(skipped, fmt.Sprintf("project %q record %d: %g m³ without breakdown kept as %q",
						name, i, rd.PeriodWasteVolume, UnclassifiedWasteType))
				}
			}
			id := rd.ID
			if id == "" {
				id = legacyRecordID(name, i, rd)
			}
			records = append(records, record.ProgressRecord{
				ID:                    id,
				Date:                  date,
				CumulativeProgressPct: rd.CumulativeProgressPct,
				WasteBreakdown:        breakdown,
			})
		}
		proj.Ledger.Restore(records)
		projects[proj.Name] = proj
	}
	sort.Strings(skipped)
	return projects, skipped, nil
}

func legacyRecordID(projectName string, index int, rd RecordDTO) string {
	key := fmt.Sprintf("%s|%d|%s|%g", projectName, index, rd.Date, rd.CumulativeProgressPct)
	return uuid.NewSHA1(legacyRecordNamespace, []byte(key)).String()
}
