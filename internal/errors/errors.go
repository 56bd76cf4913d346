// =============================================================================
// Sales Tax Receipts - Sentinel Errors
// =============================================================================
//
// The values below classify failures across packages. They are attached with
// errors.Mark (github.com/cockroachdb/errors) and tested with errors.Is, so a
// wrapped error keeps its class however many layers of context are added.
//
// =============================================================================

// Package errors holds the sentinel errors shared by the receipt packages.
// Callers wrap and mark with github.com/cockroachdb/errors and test with
// errors.Is against the values below.
package errors

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrNumberFormat marks a basket line that matched the line grammar but
	// carried a numeric literal that could not be converted.
	ErrNumberFormat = errors.New("number format error")

	// ErrInvalidConfig marks configuration that failed to load or validate.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedFormat marks an unknown receipt output format.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrValidationFailed marks a lint run that produced error findings.
	ErrValidationFailed = errors.New("validation failed")
)
