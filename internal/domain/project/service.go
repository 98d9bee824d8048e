package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dechenique1/fgr/internal/domain/activity"
	"github.com/dechenique1/fgr/internal/domain/record"
	"github.com/dechenique1/fgr/internal/repository"
)

// Service handles project and ledger operations for a tenant. Each call
// loads the tenant's document, applies one change and saves it back.
type Service struct {
	docs        DocumentRepository
	activities  ActivityRepository
	logger      *slog.Logger
	strictEdits bool
}

// Option configures a Service.
type Option func(*Service)

// WithStrictEdits rejects edits that leave the ledger out of progress order.
func WithStrictEdits(strict bool) Option {
	return func(s *Service) {
		s.strictEdits = strict
	}
}

// NewService creates a new project service. activities may be nil.
func NewService(docs DocumentRepository, activities ActivityRepository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{docs: docs, activities: activities, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name       string
	TotalArea  float64
	WasteTypes []string
}

// AppendRequest describes a new observation.
type AppendRequest struct {
	Project               string
	Date                  time.Time
	CumulativeProgressPct float64
	WasteBreakdown        record.WasteBreakdown
}

// EditRequest describes changes to an existing observation.
type EditRequest struct {
	Project               string
	RecordID              string
	Date                  *time.Time
	CumulativeProgressPct *float64
	WasteBreakdown        record.WasteBreakdown
}

// LedgerResult is returned by every ledger mutation: the touched record, if
// any, and the full recalculated series.
type LedgerResult struct {
	Project Summary                 `json:"project"`
	Record  *record.ProgressRecord  `json:"record,omitempty"`
	Records []record.ProgressRecord `json:"records"`
}

// Create creates a new project.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Project, error) {
	proj, err := New(req.Name, req.TotalArea, req.WasteTypes)
	if err != nil {
		return nil, err
	}

	projects, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if _, exists := projects[proj.Name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateProjectName, proj.Name)
	}
	projects[proj.Name] = proj

	if err := s.save(ctx, tenantID, projects); err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, proj.Name, nil, activity.TypeProjectCreated,
		fmt.Sprintf("created project %s", proj.Name),
		map[string]any{"total_area": proj.TotalArea, "waste_types": proj.WasteTypes})
	return proj, nil
}

// Get fetches a project by name.
func (s *Service) Get(ctx context.Context, tenantID, name string) (*Project, error) {
	projects, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return lookup(projects, name)
}

// List returns project summaries sorted by name.
func (s *Service) List(ctx context.Context, tenantID string) ([]Summary, error) {
	projects, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(projects))
	for _, proj := range projects {
		summaries = append(summaries, proj.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}

// Delete removes a project and its whole ledger.
func (s *Service) Delete(ctx context.Context, tenantID, name string) error {
	projects, err := s.load(ctx, tenantID)
	if err != nil {
		return err
	}
	proj, err := lookup(projects, name)
	if err != nil {
		return err
	}
	delete(projects, proj.Name)

	if err := s.save(ctx, tenantID, projects); err != nil {
		return err
	}
	s.logActivity(ctx, tenantID, proj.Name, nil, activity.TypeProjectDeleted,
		fmt.Sprintf("deleted project %s", proj.Name),
		map[string]any{"record_count": proj.Ledger.Len()})
	return nil
}

// AppendRecord adds an observation to a project's ledger.
func (s *Service) AppendRecord(ctx context.Context, tenantID string, req AppendRequest) (*LedgerResult, error) {
	var rec record.ProgressRecord
	proj, err := s.mutate(ctx, tenantID, req.Project, func(p *Project) error {
		var err error
		rec, err = p.Append(req.Date, req.CumulativeProgressPct, req.WasteBreakdown)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, proj.Name, &rec.ID, activity.TypeRecordAppended,
		fmt.Sprintf("recorded %.2f%% on %s", rec.CumulativeProgressPct, record.FormatDate(rec.Date)),
		map[string]any{"waste_breakdown": rec.WasteBreakdown, "period_fgr": rec.PeriodFGR})
	return result(proj, &rec), nil
}

// EditRecord replaces fields of an observation and recomputes the ledger.
func (s *Service) EditRecord(ctx context.Context, tenantID string, req EditRequest) (*LedgerResult, error) {
	if strings.TrimSpace(req.RecordID) == "" {
		return nil, ErrInvalidInput
	}
	var rec record.ProgressRecord
	proj, err := s.mutate(ctx, tenantID, req.Project, func(p *Project) error {
		var err error
		rec, err = p.Edit(req.RecordID, record.EditRequest{
			Date:                  req.Date,
			CumulativeProgressPct: req.CumulativeProgressPct,
			WasteBreakdown:        req.WasteBreakdown,
		}, s.strictEdits)
		return err
	})
	if err != nil {
		return nil, err
	}
	if orderErr := proj.Ledger.CheckOrder(); orderErr != nil {
		s.logger.Warn("ledger out of progress order after edit",
			"tenant_id", tenantID, "project", proj.Name, "record_id", rec.ID, "error", orderErr)
	}
	s.logActivity(ctx, tenantID, proj.Name, &rec.ID, activity.TypeRecordEdited,
		fmt.Sprintf("edited record on %s", record.FormatDate(rec.Date)),
		map[string]any{"cumulative_progress_pct": rec.CumulativeProgressPct, "waste_breakdown": rec.WasteBreakdown})
	return result(proj, &rec), nil
}

// DeleteRecord removes an observation and recomputes the ledger.
func (s *Service) DeleteRecord(ctx context.Context, tenantID, projectName, recordID string) (*LedgerResult, error) {
	if strings.TrimSpace(recordID) == "" {
		return nil, ErrInvalidInput
	}
	proj, err := s.mutate(ctx, tenantID, projectName, func(p *Project) error {
		return p.Delete(recordID)
	})
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, proj.Name, &recordID, activity.TypeRecordDeleted,
		fmt.Sprintf("deleted record %s", recordID), nil)
	return result(proj, nil), nil
}

// ClearRecords removes every observation of a project.
func (s *Service) ClearRecords(ctx context.Context, tenantID, projectName string) (*LedgerResult, error) {
	var removed int
	proj, err := s.mutate(ctx, tenantID, projectName, func(p *Project) error {
		removed = p.Ledger.Len()
		p.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, proj.Name, nil, activity.TypeRecordsCleared,
		fmt.Sprintf("cleared %d records", removed), nil)
	return result(proj, nil), nil
}

func (s *Service) mutate(ctx context.Context, tenantID, name string, apply func(*Project) error) (*Project, error) {
	projects, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	proj, err := lookup(projects, name)
	if err != nil {
		return nil, err
	}
	if err := apply(proj); err != nil {
		return nil, err
	}
	if err := s.save(ctx, tenantID, projects); err != nil {
		return nil, err
	}
	return proj, nil
}

// load returns the tenant's projects. A missing or unreadable document is
// replaced by an empty set so the tenant can keep working.
func (s *Service) load(ctx context.Context, tenantID string) (map[string]*Project, error) {
	data, err := s.docs.Load(ctx, tenantID)
	if errors.Is(err, repository.ErrNotFound) {
		return make(map[string]*Project), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}

	projects, skipped, err := DecodeDocument(data)
	if err != nil {
		s.logger.Warn("discarding unreadable project document", "tenant_id", tenantID, "error", err)
		return make(map[string]*Project), nil
	}
	for _, issue := range skipped {
		s.logger.Warn("document entry not loaded as stored", "tenant_id", tenantID, "issue", issue)
	}
	return projects, nil
}

func (s *Service) save(ctx context.Context, tenantID string, projects map[string]*Project) error {
	data, err := EncodeDocument(projects)
	if err != nil {
		return err
	}
	if err := s.docs.Save(ctx, tenantID, data); err != nil {
		return fmt.Errorf("saving projects: %w", err)
	}
	return nil
}

func (s *Service) logActivity(ctx context.Context, tenantID, projectName string, recordID *string, kind activity.ActivityType, summary string, details map[string]any) {
	if s.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ProjectName:  projectName,
		RecordID:     recordID,
		ActivityType: kind,
		Summary:      summary,
	}
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			entry.Details = string(data)
		}
	}
	if err := s.activities.Log(ctx, tenantID, entry); err != nil {
		s.logger.Warn("failed to log activity", "tenant_id", tenantID, "type", kind, "error", err)
	}
}

func lookup(projects map[string]*Project, name string) (*Project, error) {
	proj, ok := projects[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProjectNotFound, name)
	}
	return proj, nil
}

func result(proj *Project, rec *record.ProgressRecord) *LedgerResult {
	return &LedgerResult{
		Project: proj.Summary(),
		Record:  rec,
		Records: proj.Records(),
	}
}
