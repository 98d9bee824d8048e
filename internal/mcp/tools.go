package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dechenique1/fgr/internal/domain/activity"
	"github.com/dechenique1/fgr/internal/domain/metrics"
	"github.com/dechenique1/fgr/internal/domain/project"
	"github.com/dechenique1/fgr/internal/domain/record"
	"github.com/dechenique1/fgr/internal/export"
)

// registerTools adds every FGR tool to the server.
func registerTools(server *sdkmcp.Server, svc Services) {
	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a construction project with its total built area (m²) and the waste types it tracks",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		proj, err := svc.Projects.Create(ctx, getTenantID(ctx), project.CreateRequest{
			Name:       in.Name,
			TotalArea:  in.TotalArea,
			WasteTypes: in.WasteTypes,
		})
		if err != nil {
			return toolError(err)
		}
		return jsonResult(newProjectResponse(proj))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the current user's projects with record count, last progress and cumulative FGR",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
		list, err := svc.Projects.List(ctx, getTenantID(ctx))
		if err != nil {
			return toolError(err)
		}
		return jsonResult(ListProjectsResponse{Projects: list})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its full recalculated record series",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
		proj, err := svc.Projects.Get(ctx, getTenantID(ctx), in.Name)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(newProjectResponse(proj))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project together with all of its records",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteProjectParams) (*sdkmcp.CallToolResult, any, error) {
		if err := svc.Projects.Delete(ctx, getTenantID(ctx), in.Name); err != nil {
			return toolError(err)
		}
		return jsonResult(DeleteProjectResponse{Deleted: strings.TrimSpace(in.Name)})
	})

	// Ledger
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "append_record",
		Description: "Record cumulative progress and the waste generated since the previous record; returns the recalculated series",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AppendRecordParams) (*sdkmcp.CallToolResult, any, error) {
		date, err := record.ParseDate(in.Date)
		if err != nil {
			return toolError(err)
		}
		res, err := svc.Projects.AppendRecord(ctx, getTenantID(ctx), project.AppendRequest{
			Project:               in.Project,
			Date:                  date,
			CumulativeProgressPct: in.CumulativeProgressPct,
			WasteBreakdown:        record.WasteBreakdown(in.WasteBreakdown),
		})
		if err != nil {
			return toolError(err)
		}
		return jsonResult(res)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "edit_record",
		Description: "Change the date, progress or waste breakdown of a record; every derived value is recomputed",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in EditRecordParams) (*sdkmcp.CallToolResult, any, error) {
		req := project.EditRequest{
			Project:               in.Project,
			RecordID:              in.RecordID,
			CumulativeProgressPct: in.CumulativeProgressPct,
			WasteBreakdown:        record.WasteBreakdown(in.WasteBreakdown),
		}
		if in.Date != nil {
			date, err := record.ParseDate(*in.Date)
			if err != nil {
				return toolError(err)
			}
			req.Date = &date
		}
		res, err := svc.Projects.EditRecord(ctx, getTenantID(ctx), req)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(res)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_record",
		Description: "Delete a record; the following record's increment is recomputed against its new predecessor",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteRecordParams) (*sdkmcp.CallToolResult, any, error) {
		res, err := svc.Projects.DeleteRecord(ctx, getTenantID(ctx), in.Project, in.RecordID)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(res)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_records",
		Description: "Delete every record of a project, keeping the project itself",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ClearRecordsParams) (*sdkmcp.CallToolResult, any, error) {
		res, err := svc.Projects.ClearRecords(ctx, getTenantID(ctx), in.Project)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(res)
	})

	// Reporting
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_metrics",
		Description: "Summarize a project's FGR: last progress, cumulative area, mean period FGR, final cumulative FGR and totals per waste type, optionally within a date range",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetMetricsParams) (*sdkmcp.CallToolResult, any, error) {
		view, err := buildView(ctx, svc.Projects, in.Project, in.From, in.To)
		if err != nil {
			return toolError(err)
		}
		return jsonResult(view)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_csv",
		Description: "Export a project's record series as CSV, one column per waste type",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ExportCSVParams) (*sdkmcp.CallToolResult, any, error) {
		view, err := buildView(ctx, svc.Projects, in.Project, in.From, in.To)
		if err != nil {
			return toolError(err)
		}
		var b strings.Builder
		if err := export.WriteCSV(&b, view.WasteTypes, view.Series); err != nil {
			return toolError(err)
		}
		return jsonResult(ExportCSVResponse{Project: view.Project, Rows: len(view.Series), CSV: b.String()})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent ledger changes, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, any, error) {
		if svc.Activity == nil {
			return jsonResult([]ActivityEntryResponse{})
		}
		opts := activity.ListActivityOptions{
			ProjectName: in.Project,
			Limit:       in.Limit,
			Offset:      in.Offset,
		}
		if in.RecordID != "" {
			opts.RecordID = &in.RecordID
		}
		if in.Type != "" {
			t := activity.ActivityType(in.Type)
			opts.ActivityType = &t
		}
		entries, err := svc.Activity.GetRecentActivity(ctx, getTenantID(ctx), opts)
		if err != nil {
			return toolError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Project:   entry.ProjectName,
				Type:      entry.ActivityType,
				RecordID:  entry.RecordID,
				Summary:   entry.Summary,
				Details:   entry.Details,
			})
		}
		return jsonResult(resp)
	})
}

func buildView(ctx context.Context, projects ProjectService, name, from, to string) (metrics.View, error) {
	var filter metrics.Filter
	var err error
	if filter.From, err = optionalDate(from); err != nil {
		return metrics.View{}, err
	}
	if filter.To, err = optionalDate(to); err != nil {
		return metrics.View{}, err
	}
	proj, err := projects.Get(ctx, getTenantID(ctx), name)
	if err != nil {
		return metrics.View{}, err
	}
	return metrics.Build(proj, filter)
}

func optionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := record.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// toolError reports domain errors as tool results so clients can recover.
// Anything unmapped is returned as a plain error.
func toolError(err error) (*sdkmcp.CallToolResult, any, error) {
	apiErr := MapError(err)
	if apiErr == nil {
		return nil, nil, err
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
