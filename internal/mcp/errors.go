package mcp

import (
	"errors"
	"fmt"

	"github.com/dechenique1/fgr/internal/domain/activity"
	"github.com/dechenique1/fgr/internal/domain/metrics"
	"github.com/dechenique1/fgr/internal/domain/project"
	"github.com/dechenique1/fgr/internal/domain/record"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	apiErr := mapKnown(err)
	if apiErr != nil {
		apiErr.Message = err.Error()
	}
	return apiErr
}

func mapKnown(err error) *APIError {
	switch {
	case errors.Is(err, record.ErrNonMonotonicProgress):
		return &APIError{Code: "NON_MONOTONIC_PROGRESS", RecoveryHint: "Cumulative progress must exceed the last recorded value"}
	case errors.Is(err, record.ErrProgressOutOfRange):
		return &APIError{Code: "PROGRESS_OUT_OF_RANGE", RecoveryHint: "Use a percentage between 0 and 100"}
	case errors.Is(err, record.ErrEmptyWasteBreakdown):
		return &APIError{Code: "EMPTY_WASTE_BREAKDOWN", RecoveryHint: "Provide at least one waste type with a positive volume"}
	case errors.Is(err, record.ErrInvalidVolume):
		return &APIError{Code: "INVALID_VOLUME", RecoveryHint: "Waste volumes must be greater than zero"}
	case errors.Is(err, record.ErrUnknownWasteType):
		return &APIError{Code: "UNKNOWN_WASTE_TYPE", RecoveryHint: "Use one of the project's waste types (see get_project)"}
	case errors.Is(err, record.ErrInvalidDate):
		return &APIError{Code: "INVALID_DATE", RecoveryHint: "Dates use the YYYY-MM-DD format"}
	case errors.Is(err, record.ErrRecordNotFound):
		return &APIError{Code: "RECORD_NOT_FOUND", RecoveryHint: "List records with get_project"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", RecoveryHint: "List projects with list_projects"}
	case errors.Is(err, project.ErrDuplicateProjectName):
		return &APIError{Code: "DUPLICATE_PROJECT_NAME", RecoveryHint: "Choose another project name"}
	case errors.Is(err, project.ErrInvalidArea):
		return &APIError{Code: "INVALID_AREA", RecoveryHint: "Total area must be a positive number of m²"}
	case errors.Is(err, project.ErrNoWasteTypesConfigured):
		return &APIError{Code: "NO_WASTE_TYPES", RecoveryHint: "Configure at least one waste type"}
	case errors.Is(err, project.ErrInvalidProjectName), errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", RecoveryHint: "Check required arguments"}
	case errors.Is(err, metrics.ErrInvalidRange):
		return &APIError{Code: "INVALID_RANGE", RecoveryHint: "from must not be after to"}
	case errors.Is(err, activity.ErrUnknownActivityType):
		return &APIError{Code: "INVALID_INPUT", RecoveryHint: "Use a known activity type"}
	default:
		return nil
	}
}
