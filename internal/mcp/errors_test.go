package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dechenique1/fgr/internal/domain/project"
	"github.com/dechenique1/fgr/internal/domain/record"
)

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("disk full")))

	wrapped := fmt.Errorf("appending: %w", record.ErrNonMonotonicProgress)
	apiErr := MapError(wrapped)
	require.NotNil(t, apiErr)
	require.Equal(t, "NON_MONOTONIC_PROGRESS", apiErr.Code)
	require.Equal(t, wrapped.Error(), apiErr.Message)

	require.Equal(t, "PROJECT_NOT_FOUND", MapError(project.ErrProjectNotFound).Code)
	require.Equal(t, "INVALID_INPUT", MapError(project.ErrInvalidProjectName).Code)
	require.Equal(t, "RECORD_NOT_FOUND: record not found", (&APIError{Code: "RECORD_NOT_FOUND", Message: "record not found"}).Error())
}
