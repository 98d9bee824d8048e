package mcp

import (
	"time"

	"github.com/dechenique1/fgr/internal/domain/activity"
	"github.com/dechenique1/fgr/internal/domain/project"
	"github.com/dechenique1/fgr/internal/domain/record"
)

type ListProjectsParams struct{}

type CreateProjectParams struct {
	Name       string   `json:"name" jsonschema:"unique project name"`
	TotalArea  float64  `json:"total_area" jsonschema:"total built area in m², greater than zero"`
	WasteTypes []string `json:"waste_types" jsonschema:"waste types tracked by the project, fixed after creation"`
}

type GetProjectParams struct {
	Name string `json:"name" jsonschema:"project name"`
}

type DeleteProjectParams struct {
	Name string `json:"name" jsonschema:"project name"`
}

type DeleteProjectResponse struct {
	Deleted string `json:"deleted"`
}

type AppendRecordParams struct {
	Project               string             `json:"project" jsonschema:"project name"`
	Date                  string             `json:"date" jsonschema:"observation date, YYYY-MM-DD"`
	CumulativeProgressPct float64            `json:"cumulative_progress_pct" jsonschema:"cumulative progress in percent, above the last recorded value and at most 100"`
	WasteBreakdown        map[string]float64 `json:"waste_breakdown" jsonschema:"waste volume in m³ per waste type for this period"`
}

type EditRecordParams struct {
	Project               string             `json:"project" jsonschema:"project name"`
	RecordID              string             `json:"record_id" jsonschema:"id of the record to edit"`
	Date                  *string            `json:"date,omitempty" jsonschema:"new date, YYYY-MM-DD"`
	CumulativeProgressPct *float64           `json:"cumulative_progress_pct,omitempty" jsonschema:"new cumulative progress in percent"`
	WasteBreakdown        map[string]float64 `json:"waste_breakdown,omitempty" jsonschema:"replacement waste breakdown"`
}

type DeleteRecordParams struct {
	Project  string `json:"project" jsonschema:"project name"`
	RecordID string `json:"record_id" jsonschema:"id of the record to delete"`
}

type ClearRecordsParams struct {
	Project string `json:"project" jsonschema:"project name"`
}

type GetMetricsParams struct {
	Project string `json:"project" jsonschema:"project name"`
	From    string `json:"from,omitempty" jsonschema:"first date to include, YYYY-MM-DD"`
	To      string `json:"to,omitempty" jsonschema:"last date to include, YYYY-MM-DD"`
}

type ExportCSVParams struct {
	Project string `json:"project" jsonschema:"project name"`
	From    string `json:"from,omitempty" jsonschema:"first date to include, YYYY-MM-DD"`
	To      string `json:"to,omitempty" jsonschema:"last date to include, YYYY-MM-DD"`
}

type GetRecentActivityParams struct {
	Project  string `json:"project,omitempty" jsonschema:"restrict to one project"`
	RecordID string `json:"record_id,omitempty" jsonschema:"restrict to one record"`
	Type     string `json:"type,omitempty" jsonschema:"activity type: project_created, project_deleted, record_appended, record_edited, record_deleted or records_cleared"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
	Offset   int    `json:"offset,omitempty" jsonschema:"offset for pagination"`
}

type ListProjectsResponse struct {
	Projects []project.Summary `json:"projects"`
}

type ProjectResponse struct {
	Name         string                  `json:"name"`
	TotalArea    float64                 `json:"total_area"`
	WasteTypes   []string                `json:"waste_types"`
	LastProgress float64                 `json:"last_progress"`
	Records      []record.ProgressRecord `json:"records"`
}

type ExportCSVResponse struct {
	Project string `json:"project"`
	Rows    int    `json:"rows"`
	CSV     string `json:"csv"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Project   string                `json:"project"`
	Type      activity.ActivityType `json:"type"`
	RecordID  *string               `json:"record_id,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
}

func newProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		Name:         p.Name,
		TotalArea:    p.TotalArea,
		WasteTypes:   append([]string{}, p.WasteTypes...),
		LastProgress: p.LastProgress(),
		Records:      p.Records(),
	}
}
