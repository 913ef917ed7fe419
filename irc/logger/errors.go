package logger

import "errors"

var (
	ErrFilenameMissing = errors.New("Logging configuration specifies 'file' method but 'filename' is empty")
	ErrHasNoTypes      = errors.New("Logger has no types to log")
	ErrExcludeEmpty    = errors.New("Encountered logging type '-' with no type to exclude")
)
