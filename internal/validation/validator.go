// =============================================================================
// Sales Tax Receipts - Validation Module
// =============================================================================
//
// This module lints a basket text line by line. It uses the same line parser
// as the basket parser but never stops at the first problem, so every issue
// in a file is reported in one run.
//
// RULES:
//   number_format     (error)   : the line has the basket line shape but a
//                                 number cannot be converted. The parser
//                                 would reject the whole basket.
//   unrecognized_line (warning) : a non-blank line that is not a basket line.
//                                 The parser silently skips it.
//   zero_quantity     (warning) : a basket line with quantity 0.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/parser"
)

// Severity values.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names.
const (
	RuleNumberFormat     = "number_format"
	RuleUnrecognizedLine = "unrecognized_line"
	RuleZeroQuantity     = "zero_quantity"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single finding.
type ValidationError struct {
	// Severity is "error" or "warning".
	Severity string

	// Rule is the violated rule.
	Rule string

	// Message is a human-readable description.
	Message string

	// LineNumber is the 1-based line number in the input.
	LineNumber int

	// Line is the offending line.
	Line string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Line %d: %s (line: '%s')",
		strings.ToUpper(e.Severity),
		e.LineNumber,
		e.Message,
		e.Line,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no error findings.
	IsValid bool

	// Errors contains all findings, warnings included, in line order.
	Errors []*ValidationError

	// ErrorCount is the number of error findings.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// LinesValidated is the number of lines read.
	LinesValidated int

	// EntriesParsed is the number of lines that parsed into entries.
	EntriesParsed int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator lints basket texts.
type Validator struct {
	lines   *parser.LineParser
	options ValidationOptions
}

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// StopOnFirstError stops validation after the first error finding.
	// Default: false
	StopOnFirstError bool

	// TreatWarningsAsErrors reports unrecognized lines and zero quantities
	// as errors.
	// Default: false
	TreatWarningsAsErrors bool
}

// DefaultValidationOptions returns the default validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{}
}

// NewValidator creates a new Validator instance.
func NewValidator(lines *parser.LineParser) *Validator {
	return NewValidatorWithOptions(lines, DefaultValidationOptions())
}

// NewValidatorWithOptions creates a new Validator with custom options.
func NewValidatorWithOptions(lines *parser.LineParser, options ValidationOptions) *Validator {
	return &Validator{
		lines:   lines,
		options: options,
	}
}

// Validate checks every line of the text.
func (v *Validator) Validate(text string) *ValidationResult {
	lines := parser.SplitLines(text)
	result := &ValidationResult{
		IsValid:        true,
		Errors:         make([]*ValidationError, 0),
		LinesValidated: len(lines),
	}

	for i, line := range lines {
		finding := v.validateLine(i+1, line, result)
		if finding == nil {
			continue
		}

		if v.options.TreatWarningsAsErrors {
			finding.Severity = SeverityError
		}
		result.Errors = append(result.Errors, finding)

		if finding.Severity == SeverityError {
			result.ErrorCount++
			result.IsValid = false
			if v.options.StopOnFirstError {
				return result
			}
		} else {
			result.WarningCount++
		}
	}

	return result
}

// validateLine returns the finding for one line, or nil if the line is fine.
func (v *Validator) validateLine(number int, line string, result *ValidationResult) *ValidationError {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	entry, matched, err := v.lines.ParseLine(line)
	if err != nil {
		message := err.Error()
		var nfe *parser.NumberFormatError
		if errors.As(err, &nfe) {
			message = fmt.Sprintf("invalid %s %q", nfe.Field, nfe.Value)
		}
		return &ValidationError{
			Severity:   SeverityError,
			Rule:       RuleNumberFormat,
			Message:    message,
			LineNumber: number,
			Line:       line,
		}
	}

	if !matched {
		return &ValidationError{
			Severity:   SeverityWarning,
			Rule:       RuleUnrecognizedLine,
			Message:    "not a basket line, it will be skipped",
			LineNumber: number,
			Line:       line,
		}
	}

	result.EntriesParsed++

	if entry.Quantity == 0 {
		return &ValidationError{
			Severity:   SeverityWarning,
			Rule:       RuleZeroQuantity,
			Message:    "quantity is zero",
			LineNumber: number,
			Line:       line,
		}
	}

	return nil
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats findings for display or logging.
func FormatErrors(findings []*ValidationError) string {
	if len(findings) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(findings)))

	for i, finding := range findings {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, finding.Error()))
	}

	return builder.String()
}
