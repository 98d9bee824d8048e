package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrInvalidProjectName indicates a blank project name.
	ErrInvalidProjectName = errors.New("project name is required")
	// ErrInvalidArea indicates a non-positive total area.
	ErrInvalidArea = errors.New("total area must be greater than zero")
	// ErrNoWasteTypesConfigured indicates a project created without waste types.
	ErrNoWasteTypesConfigured = errors.New("at least one waste type is required")
	// ErrDuplicateProjectName indicates the name is already used by this user.
	ErrDuplicateProjectName = errors.New("a project with that name already exists")
)

// IsValidation reports whether err is a recoverable project validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidProjectName) ||
		errors.Is(err, ErrInvalidArea) ||
		errors.Is(err, ErrNoWasteTypesConfigured) ||
		errors.Is(err, ErrDuplicateProjectName)
}
