package record

import "errors"

var (
	// ErrRecordNotFound indicates the record doesn't exist in the ledger.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNonMonotonicProgress indicates progress does not exceed the last recorded value.
	ErrNonMonotonicProgress = errors.New("progress must exceed the last recorded progress")
	// ErrProgressOutOfRange indicates progress outside [0, 100].
	ErrProgressOutOfRange = errors.New("progress must be between 0 and 100")
	// ErrEmptyWasteBreakdown indicates no waste entries were supplied.
	ErrEmptyWasteBreakdown = errors.New("at least one waste entry is required")
	// ErrInvalidVolume indicates a non-positive waste volume.
	ErrInvalidVolume = errors.New("waste volume must be greater than zero")
	// ErrUnknownWasteType indicates a waste type not configured on the project.
	ErrUnknownWasteType = errors.New("unknown waste type")
	// ErrInvalidDate indicates a missing record date.
	ErrInvalidDate = errors.New("record date is required")
)

var validationErrors = []error{
	ErrNonMonotonicProgress,
	ErrProgressOutOfRange,
	ErrEmptyWasteBreakdown,
	ErrInvalidVolume,
	ErrUnknownWasteType,
	ErrInvalidDate,
}

// IsValidation reports whether err is a recoverable ledger validation error.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
