package project_test

import (
	"encoding/json"
	"testing"

	"github.com/dechenique1/fgr/internal/domain/project"
	"github.com/dechenique1/fgr/internal/domain/record"
	"github.com/stretchr/testify/require"
)

func TestDocument_RoundTrip(t *testing.T) {
	proj, err := project.New("Tower", 1000, []string{"concrete", "wood"})
	require.NoError(t, err)
	_, err = proj.Append(day(1), 20, record.WasteBreakdown{"concrete": 10})
	require.NoError(t, err)
	_, err = proj.Append(day(8), 50, record.WasteBreakdown{"concrete": 15, "wood": 5})
	require.NoError(t, err)

	data, err := project.EncodeDocument(map[string]*project.Project{proj.Name: proj})
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw["Tower"], "total_area")
	require.Contains(t, raw["Tower"], "waste_types")

	decoded, skipped, err := project.DecodeDocument(data)
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Equal(t, proj.Records(), decoded["Tower"].Records())
	require.Equal(t, proj.WasteTypes, decoded["Tower"].WasteTypes)
}

func TestDocument_LegacyKeys(t *testing.T) {
	legacy := `{
		"Edificio": {
			"area_total": 1000,
			"tipos_residuos": ["concrete", "wood"],
			"registros": [
				{"fecha": "2024-03-08", "porcentaje_avance": 50, "tipos_residuos": {"concrete": 15, "wood": 5}},
				{"fecha": "2024-03-01T00:00:00", "porcentaje_avance": 20, "tipos_residuos": {"concrete": 10}}
			]
		}
	}`

	projects, skipped, err := project.DecodeDocument([]byte(legacy))
	require.NoError(t, err)
	require.Empty(t, skipped)

	proj := projects["Edificio"]
	require.NotNil(t, proj)
	require.InDelta(t, 1000, proj.TotalArea, tolerance)

	records := proj.Records()
	require.Len(t, records, 2)
	require.Equal(t, day(1), records[0].Date)
	require.NotEmpty(t, records[0].ID)
	require.InDelta(t, 30, records[1].IncrementPct, tolerance)
	require.InDelta(t, 0.06, records[1].CumulativeFGR, tolerance)
}

func TestDocument_StoredDerivedValuesIgnored(t *testing.T) {
	doc := `{"Tower": {"total_area": 1000, "waste_types": ["concrete"], "records": [
		{"id": "a", "date": "2024-03-01", "cumulative_progress_pct": 20, "increment_pct": 99, "period_fgr": 7, "waste_breakdown": {"concrete": 10}}
	]}}`

	projects, _, err := project.DecodeDocument([]byte(doc))
	require.NoError(t, err)
	rec := projects["Tower"].Records()[0]
	require.Equal(t, "a", rec.ID)
	require.InDelta(t, 20, rec.IncrementPct, tolerance)
	require.InDelta(t, 0.05, rec.PeriodFGR, tolerance)
}

func TestDocument_SkipsInvalidEntries(t *testing.T) {
	doc := `{
		"NoArea": {"total_area": 0, "waste_types": ["concrete"], "records": []},
		"Tower": {"total_area": 1000, "waste_types": ["concrete"], "records": [
			{"date": "someday", "cumulative_progress_pct": 10, "waste_breakdown": {"concrete": 1}},
			{"date": "2024-03-01", "cumulative_progress_pct": 20, "waste_breakdown": {"concrete": 10, "glass": 3, "wood": -1}}
		]}
	}`

	projects, skipped, err := project.DecodeDocument([]byte(doc))
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Len(t, skipped, 4)

	records := projects["Tower"].Records()
	require.Len(t, records, 1)
	require.Equal(t, record.WasteBreakdown{"concrete": 10}, records[0].WasteBreakdown)
}

func TestDocument_EmptyAndCorrupt(t *testing.T) {
	projects, skipped, err := project.DecodeDocument(nil)
	require.NoError(t, err)
	require.Empty(t, projects)
	require.Empty(t, skipped)

	_, _, err = project.DecodeDocument([]byte(`[1, 2`))
	require.Error(t, err)
}

func TestDocument_PeriodVolumeWithoutBreakdown(t *testing.T) {
	legacy := `{"Edificio": {"area_total": 1000, "tipos_residuos": ["concrete"], "registros": [
		{"fecha": "2024-03-01", "porcentaje_avance": 20, "residuos_periodo": 12, "tipos_residuos": {}}
	]}}`

	projects, skipped, err := project.DecodeDocument([]byte(legacy))
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	require.Contains(t, skipped[0], project.UnclassifiedWasteType)

	proj := projects["Edificio"]
	require.Equal(t, record.WasteTypes{"concrete", project.UnclassifiedWasteType}, proj.WasteTypes)

	rec := proj.Records()[0]
	require.Equal(t, record.WasteBreakdown{project.UnclassifiedWasteType: 12}, rec.WasteBreakdown)
	require.InDelta(t, 12, rec.PeriodWasteVolume, tolerance)
	require.InDelta(t, 0.06, rec.PeriodFGR, tolerance)

	// The volume survives a save.
	data, err := project.EncodeDocument(projects)
	require.NoError(t, err)
	reloaded, skipped, err := project.DecodeDocument(data)
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.InDelta(t, 0.06, reloaded["Edificio"].Records()[0].PeriodFGR, tolerance)
}

func TestDocument_MissingIDsAreStable(t *testing.T) {
	legacy := []byte(`{"Edificio": {"area_total": 1000, "tipos_residuos": ["concrete"], "registros": [
		{"fecha": "2024-03-01", "porcentaje_avance": 20, "tipos_residuos": {"concrete": 10}},
		{"fecha": "2024-03-08", "porcentaje_avance": 50, "tipos_residuos": {"concrete": 15}}
	]}}`)

	first, _, err := project.DecodeDocument(legacy)
	require.NoError(t, err)
	second, _, err := project.DecodeDocument(legacy)
	require.NoError(t, err)

	a, b := first["Edificio"].Records(), second["Edificio"].Records()
	require.NotEmpty(t, a[0].ID)
	require.NotEqual(t, a[0].ID, a[1].ID)
	require.Equal(t, a[0].ID, b[0].ID)
	require.Equal(t, a[1].ID, b[1].ID)
}
