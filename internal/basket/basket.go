// =============================================================================
// Sales Tax Receipts - Basket Types
// =============================================================================
//
// This package contains the value types produced by the parser and consumed by
// the receipt writers:
//   - Entry  : one parsed basket line (a quantity of identical items)
//   - Basket : the ordered entries of one shopping basket
//
// Both are immutable once constructed. Totals are derived on demand.
//
// =============================================================================

package basket

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTRY
// =============================================================================

// Entry represents a single basket line with resolved prices.
type Entry struct {
	// Quantity is the number of identical items on the line.
	Quantity int

	// Imported is true if any word of the original description contained
	// "import".
	Imported bool

	// Description is the canonical description with import words removed.
	Description string

	// NetPrice is the shelf price before tax.
	NetPrice decimal.Decimal

	// GrossPrice is the price paid. GrossPrice - NetPrice is the tax owed.
	GrossPrice decimal.Decimal
}

// NewEntry creates an entry.
func NewEntry(quantity int, imported bool, description string, netPrice, grossPrice decimal.Decimal) Entry {
	return Entry{
		Quantity:    quantity,
		Imported:    imported,
		Description: description,
		NetPrice:    netPrice,
		GrossPrice:  grossPrice,
	}
}

// Taxes returns the tax owed for the line.
func (e Entry) Taxes() decimal.Decimal {
	return e.GrossPrice.Sub(e.NetPrice)
}

// Equal reports whether two entries are the same. Prices are compared by
// numeric value, so "10.0" equals "10.00".
func (e Entry) Equal(other Entry) bool {
	return e.Quantity == other.Quantity &&
		e.Imported == other.Imported &&
		e.Description == other.Description &&
		e.NetPrice.Equal(other.NetPrice) &&
		e.GrossPrice.Equal(other.GrossPrice)
}

// String renders the entry as a receipt line in gross price notation.
//
// FORMAT:
//   <quantity> [imported ]<description>: <gross price>
func (e Entry) String() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d ", e.Quantity))
	if e.Imported {
		builder.WriteString("imported ")
	}
	builder.WriteString(e.Description)
	builder.WriteString(": ")
	builder.WriteString(e.GrossPrice.StringFixed(2))
	return builder.String()
}

// =============================================================================
// BASKET
// =============================================================================

// Basket is the ordered collection of entries parsed from one input.
type Basket struct {
	entries []Entry
}

// New creates a basket from the entries in input order. The slice is copied.
func New(entries []Entry) *Basket {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return &Basket{entries: copied}
}

// Entries returns a copy of the basket entries.
func (b *Basket) Entries() []Entry {
	copied := make([]Entry, len(b.entries))
	copy(copied, b.entries)
	return copied
}

// Len returns the number of entries.
func (b *Basket) Len() int {
	return len(b.entries)
}

// TotalTaxes returns the sum of the taxes of all entries.
func (b *Basket) TotalTaxes() decimal.Decimal {
	return lo.Reduce(b.entries, func(sum decimal.Decimal, e Entry, _ int) decimal.Decimal {
		return sum.Add(e.Taxes())
	}, decimal.Zero)
}

// Total returns the sum of the gross prices of all entries.
func (b *Basket) Total() decimal.Decimal {
	return lo.Reduce(b.entries, func(sum decimal.Decimal, e Entry, _ int) decimal.Decimal {
		return sum.Add(e.GrossPrice)
	}, decimal.Zero)
}

// Receipt builds the receipt text: one line per entry, then the sales taxes
// and total lines. The last line has no trailing line break.
//
// EXAMPLE:
//   1 book: 12.49
//   1 music CD: 16.49
//   Sales Taxes: 1.50
//   Total: 28.98
func (b *Basket) Receipt() string {
	var builder strings.Builder
	for _, entry := range b.entries {
		builder.WriteString(entry.String())
		builder.WriteString("\n")
	}
	builder.WriteString("Sales Taxes: ")
	builder.WriteString(b.TotalTaxes().StringFixed(2))
	builder.WriteString("\n")
	builder.WriteString("Total: ")
	builder.WriteString(b.Total().StringFixed(2))
	return builder.String()
}

// Equal reports whether both baskets hold equal entries in the same order.
func (b *Basket) Equal(other *Basket) bool {
	if b == nil || other == nil {
		return b == other
	}
	if len(b.entries) != len(other.entries) {
		return false
	}
	for i := range b.entries {
		if !b.entries[i].Equal(other.entries[i]) {
			return false
		}
	}
	return true
}
