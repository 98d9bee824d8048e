package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `fgr tracks the Waste Generation Factor (FGR, m³ of waste per m² built) of construction projects.

Core concepts:
- Project: a name, a fixed total built area in m² and the waste types it tracks.
- Record: a dated observation of cumulative progress (%) plus the waste volume per type generated since the previous record.
- Every derived value (increment, period area, period FGR, cumulative FGR) is recomputed from the whole series after each change.

Workflow:
1) list_projects, or create_project with total_area and waste_types.
2) append_record with a cumulative_progress_pct above the last recorded value (at most 100).
3) edit_record / delete_record / clear_records to correct history; results carry the full recalculated series.
   delete_project removes a project and its records.
4) get_metrics for summaries, export_csv for the table, get_recent_activity for the change log.

Docs:
- fgr://docs/concepts (formulas + invariants)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "fgr://docs/concepts",
		Name:        "docs_concepts",
		Title:       "FGR concepts",
		Description: "How the ledger derives increments, areas and FGR values, and which inputs it rejects.",
		Content: `# FGR concepts

## Formulas

For each record, in date order, with the progress before the first record taken as 0:

- increment_pct = cumulative_progress_pct - previous cumulative_progress_pct
- period_area = total_area × increment_pct / 100
- period_waste_volume = sum of the record's waste_breakdown
- period_fgr = period_waste_volume / period_area (0 when period_area is 0)
- cumulative_area = running sum of period_area
- cumulative_waste_volume = running sum of period_waste_volume
- cumulative_fgr = cumulative_waste_volume / cumulative_area (0 when cumulative_area is 0)

## Invariants

- Records are ordered by date; records on the same date keep insertion order.
- A new record's cumulative progress must be strictly greater than the last one and at most 100.
- A waste breakdown needs at least one entry, volumes must be positive and types must belong to the project.
- Total area and waste types are fixed when the project is created.

## Editing history

Edits and deletes recompute the whole series. An edit may leave progress out of order;
the server can be configured to reject such edits instead.

## Error codes

NON_MONOTONIC_PROGRESS, PROGRESS_OUT_OF_RANGE, EMPTY_WASTE_BREAKDOWN, INVALID_VOLUME,
UNKNOWN_WASTE_TYPE, INVALID_DATE, RECORD_NOT_FOUND, PROJECT_NOT_FOUND,
DUPLICATE_PROJECT_NAME, INVALID_AREA, NO_WASTE_TYPES, INVALID_INPUT, INVALID_RANGE.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
