package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Apply() so that
// callers can use errors.Is() for programmatic error handling.
var (
	// ErrNoInput is returned when no fitted model document is specified.
	ErrNoInput = errors.New("no input specified: provide at least one fitted model file")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidRobust is returned for an unknown robust variance estimator.
	ErrInvalidRobust = errors.New("invalid robust estimator: must be one of none, white, hac, ogmm")

	// ErrInvalidFormat is returned for an unknown report format in the
	// config file.
	ErrInvalidFormat = errors.New("invalid report format: must be one of text, markdown, json")

	// ErrNoDatabaseDir is returned when history is enabled without a
	// database directory.
	ErrNoDatabaseDir = errors.New("history enabled but no database directory configured")

	// ErrInvalidLogRotation is returned when a log rotation limit is negative.
	ErrInvalidLogRotation = errors.New("invalid log rotation: limits must be non-negative")
)
