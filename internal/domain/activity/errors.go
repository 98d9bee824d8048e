package activity

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnknownActivityType = errors.New("unknown activity type")
)
