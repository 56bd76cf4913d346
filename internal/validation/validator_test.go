package validation

import (
	"strings"
	"testing"

	"github.com/ginjaninja78/sales-tax-receipts/internal/parser"
	"github.com/ginjaninja78/sales-tax-receipts/internal/taxtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Input 2:
> 1 imported box of chocolates: 10.50
> 99999999999999999999 imported bottle of perfume: 54.65
> 0 book at 12.49

> Sales Taxes: 7.65`

func newValidator(options ValidationOptions) *Validator {
	return NewValidatorWithOptions(parser.NewLineParser(taxtable.Default()), options)
}

func TestValidator_ReportsEveryFinding(t *testing.T) {
	result := newValidator(DefaultValidationOptions()).Validate(sample)

	assert.False(t, result.IsValid)
	assert.Equal(t, 6, result.LinesValidated)
	assert.Equal(t, 2, result.EntriesParsed)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 3, result.WarningCount)

	require.Len(t, result.Errors, 4)

	rules := make([]string, 0, len(result.Errors))
	lineNumbers := make([]int, 0, len(result.Errors))
	for _, finding := range result.Errors {
		rules = append(rules, finding.Rule)
		lineNumbers = append(lineNumbers, finding.LineNumber)
	}
	assert.Equal(t, []string{RuleUnrecognizedLine, RuleNumberFormat, RuleZeroQuantity, RuleUnrecognizedLine}, rules)
	assert.Equal(t, []int{1, 3, 4, 6}, lineNumbers)
	assert.Equal(t, SeverityError, result.Errors[1].Severity)
	assert.Contains(t, result.Errors[1].Message, "quantity")
}

func TestValidator_CleanInput(t *testing.T) {
	result := NewValidator(parser.NewLineParser(taxtable.Default())).Validate("1 book at 12.49\n1 music CD at 14.99\n")

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.EntriesParsed)
	assert.Equal(t, "No validation errors.", FormatErrors(result.Errors))
}

func TestValidator_StopOnFirstError(t *testing.T) {
	result := newValidator(ValidationOptions{StopOnFirstError: true}).Validate(sample)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, RuleNumberFormat, result.Errors[1].Rule)
}

func TestValidator_TreatWarningsAsErrors(t *testing.T) {
	result := newValidator(ValidationOptions{TreatWarningsAsErrors: true}).Validate("Header\n1 book at 12.49")

	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 0, result.WarningCount)
}

func TestFormatErrors(t *testing.T) {
	out := FormatErrors([]*ValidationError{{
		Severity:   SeverityWarning,
		Rule:       RuleUnrecognizedLine,
		Message:    "not a basket line, it will be skipped",
		LineNumber: 1,
		Line:       "Input 2:",
	}})

	assert.True(t, strings.HasPrefix(out, "Validation completed with 1 finding(s):"))
	assert.Contains(t, out, "1. [WARNING] Line 1: not a basket line, it will be skipped (line: 'Input 2:')")
}
