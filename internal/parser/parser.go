// =============================================================================
// Sales Tax Receipts - Basket Parser Module
// =============================================================================
//
// This module turns the textual description of a shopping basket into a
// Basket. Each line is expected in one of two shapes:
//
//   [> ]<quantity> <description> at <unit net price>
//   [> ]<quantity> <description>: <unit gross price>
//
// The first form gives the shelf price, the second the price paid (the
// receipt notation). Lines of any other shape are skipped without error; the
// summary lines of a printed receipt ("Sales Taxes: ...", "Total: ...") fall
// into this group, so a receipt can be parsed back into its basket.
//
// PRICING:
//   Tax is always rounded UP to the next multiple of 0.05 using exact decimal
//   arithmetic:
//     net given   : tax = roundUp(net * rate),             gross = net + tax
//     gross given : tax = roundUp(gross - gross/(1+rate)), net   = gross - tax
//
// ERRORS:
//   A line that has the right shape but a numeric literal that cannot be
//   converted yields a *NumberFormatError, which aborts the whole parse.
//
// =============================================================================

package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/sales-tax-receipts/internal/basket"
	ierr "github.com/ginjaninja78/sales-tax-receipts/internal/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/taxtable"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// linePattern is the expected shape of a basket or receipt line. The
// description holds at least one word.
// Groups: 1 quantity, 2 description, 3 "at" or ":", 4 price.
var linePattern = regexp.MustCompile(`^(?:>\s)?(\d+)\s((?:\s*\w+)+\s*)\s?(at|:)\s(\d+\.\d+)$`)

const (
	// netMarker separates description and net price.
	netMarker = "at"

	// importWord flags an imported item when contained in any description word.
	importWord = "import"

	// divisionPrecision is the number of decimal places kept when deriving
	// the raw net price from a gross price.
	divisionPrecision = 28
)

// taxSteps is the number of 0.05 steps in one currency unit.
var taxSteps = decimal.NewFromInt(20)

// =============================================================================
// ERRORS
// =============================================================================

// NumberFormatError reports a numeric literal that could not be converted on
// a line that otherwise matched the expected shape.
type NumberFormatError struct {
	// Line is the 1-based line number within the parsed text.
	// It is 0 when the error comes from ParseLine directly.
	Line int

	// Text is the offending line.
	Text string

	// Field is "quantity" or "price".
	Field string

	// Value is the literal that failed to convert.
	Value string

	// Err is the conversion error.
	Err error
}

// Error implements the error interface.
func (e *NumberFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the conversion error.
func (e *NumberFormatError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the ErrNumberFormat sentinel.
func (e *NumberFormatError) Is(target error) bool {
	return target == ierr.ErrNumberFormat
}

// =============================================================================
// LINE PARSER
// =============================================================================

// RateLookup resolves the tax rate of an item.
type RateLookup interface {
	Rate(description string, imported bool) decimal.Decimal
}

// LineParser parses single basket lines.
type LineParser struct {
	taxes RateLookup
}

// NewLineParser creates a line parser resolving rates through taxes.
func NewLineParser(taxes RateLookup) *LineParser {
	return &LineParser{taxes: taxes}
}

// ParseLine parses one line.
//
// RETURNS:
//   - The entry and true if the line matched the expected shape.
//   - A zero entry and false if it did not (not an error).
//   - A *NumberFormatError if it matched but a number could not be converted.
func (p *LineParser) ParseLine(line string) (basket.Entry, bool, error) {
	match := linePattern.FindStringSubmatch(line)
	if match == nil {
		return basket.Entry{}, false, nil
	}

	quantity, err := strconv.Atoi(match[1])
	if err != nil {
		return basket.Entry{}, true, &NumberFormatError{Text: line, Field: "quantity", Value: match[1], Err: err}
	}

	price, err := decimal.NewFromString(match[4])
	if err != nil {
		return basket.Entry{}, true, &NumberFormatError{Text: line, Field: "price", Value: match[4], Err: err}
	}

	description, imported := canonicalDescription(match[2])
	rate := p.taxes.Rate(description, imported)

	var netPrice, grossPrice decimal.Decimal
	if match[3] == netMarker {
		netPrice = price
		grossPrice = netPrice.Add(roundUpToStep(netPrice.Mul(rate)))
	} else {
		grossPrice = price
		rawNet := grossPrice.DivRound(decimal.NewFromInt(1).Add(rate), divisionPrecision)
		netPrice = grossPrice.Sub(roundUpToStep(grossPrice.Sub(rawNet)))
	}

	return basket.NewEntry(quantity, imported, description, netPrice, grossPrice), true, nil
}

// canonicalDescription strips every word containing "import" from the raw
// description and reports whether any was removed.
func canonicalDescription(raw string) (string, bool) {
	description := strings.TrimSpace(raw)
	words := lo.Filter(strings.Split(description, " "), func(word string, _ int) bool {
		return !strings.Contains(word, importWord)
	})
	canonical := strings.Join(words, " ")
	return canonical, canonical != description
}

// roundUpToStep rounds a non-negative amount up to the next multiple of 0.05.
func roundUpToStep(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(taxSteps).Ceil().Div(taxSteps)
}

// =============================================================================
// BASKET PARSER
// =============================================================================

// SkippedLine is an input line that did not match the expected shape.
type SkippedLine struct {
	// Number is the 1-based line number.
	Number int

	// Text is the line content.
	Text string
}

// Result is the detailed outcome of parsing a basket text.
type Result struct {
	// Basket holds the entries of all matching lines in input order.
	Basket *basket.Basket

	// Skipped lists the non-blank lines that did not match.
	Skipped []SkippedLine

	// LinesRead is the number of lines in the input.
	LinesRead int
}

// Parser parses whole basket texts.
type Parser struct {
	lines *LineParser
}

// New creates a parser resolving rates through taxes.
func New(taxes RateLookup) *Parser {
	return &Parser{lines: NewLineParser(taxes)}
}

// Lines returns the underlying line parser.
func (p *Parser) Lines() *LineParser {
	return p.lines
}

// Parse parses a basket text. Non-matching lines are dropped; a
// *NumberFormatError on any line aborts the parse and no basket is returned.
func (p *Parser) Parse(text string) (*basket.Basket, error) {
	result, err := p.ParseDetailed(text)
	if err != nil {
		return nil, err
	}
	return result.Basket, nil
}

// ParseDetailed is Parse that also reports which lines were skipped.
func (p *Parser) ParseDetailed(text string) (*Result, error) {
	lines := SplitLines(text)
	entries := make([]basket.Entry, 0, len(lines))
	var skipped []SkippedLine

	for i, line := range lines {
		entry, matched, err := p.lines.ParseLine(line)
		if err != nil {
			if nfe, ok := err.(*NumberFormatError); ok {
				nfe.Line = i + 1
			}
			return nil, err
		}
		if !matched {
			if strings.TrimSpace(line) != "" {
				skipped = append(skipped, SkippedLine{Number: i + 1, Text: line})
			}
			continue
		}
		entries = append(entries, entry)
	}

	return &Result{
		Basket:    basket.New(entries),
		Skipped:   skipped,
		LinesRead: len(lines),
	}, nil
}

// SplitLines splits text on line feeds and trims a trailing carriage return
// from every line.
func SplitLines(text string) []string {
	return lo.Map(strings.Split(text, "\n"), func(line string, _ int) string {
		return strings.TrimSuffix(line, "\r")
	})
}

// defaultParser uses the process-wide tax table.
var defaultParser = New(taxtable.Default())

// Parse parses a basket text using the default tax table.
func Parse(text string) (*basket.Basket, error) {
	return defaultParser.Parse(text)
}
