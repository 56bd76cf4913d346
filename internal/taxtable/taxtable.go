// =============================================================================
// Sales Tax Receipts - Tax Table
// =============================================================================
//
// This package maps basket item descriptions to tax categories and categories
// to tax rates.
//
// RATES:
//   BOOK, FOOD, MEDICAL : 0%  (exempt goods)
//   OTHER               : 10% (basic sales tax)
//   Imported items      : +5% on top of the category rate
//
// LOOKUP:
//   Descriptions are matched exactly and case-sensitively against the known
//   products. Anything unknown is taxed as OTHER.
//
// The table is built once and never mutated, so a single *Table can be shared
// freely between goroutines.
//
// =============================================================================

package taxtable

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORIES
// =============================================================================

// Category is the tax category of a basket item.
type Category int

const (
	// Other is the default category, taxed at the basic rate.
	Other Category = iota
	Book
	Food
	Medical
)

// String returns the upper-case category name.
func (c Category) String() string {
	switch c {
	case Book:
		return "BOOK"
	case Food:
		return "FOOD"
	case Medical:
		return "MEDICAL"
	default:
		return "OTHER"
	}
}

// =============================================================================
// TABLE
// =============================================================================

// Table is an immutable description -> category -> rate lookup.
type Table struct {
	// categories maps an exact item description to its category.
	categories map[string]Category

	// baseRates maps a category to its basic tax rate as a fraction.
	baseRates map[Category]decimal.Decimal

	// importSurcharge is added to the base rate of imported items.
	importSurcharge decimal.Decimal
}

// defaultTable is built at package initialization and only ever read.
var defaultTable = New()

// New builds the fixed tax table.
func New() *Table {
	return &Table{
		categories: map[string]Category{
			"book":                     Book,
			"music CD":                 Other,
			"chocolate bar":            Food,
			"box of chocolates":        Food,
			"bottle of perfume":        Other,
			"packet of headache pills": Medical,
		},
		baseRates: map[Category]decimal.Decimal{
			Book:    decimal.Zero,
			Food:    decimal.Zero,
			Medical: decimal.Zero,
			Other:   decimal.RequireFromString("0.10"),
		},
		importSurcharge: decimal.RequireFromString("0.05"),
	}
}

// Default returns the process-wide table.
func Default() *Table {
	return defaultTable
}

// Category returns the category of the description, or Other when the
// description is not a known product.
func (t *Table) Category(description string) Category {
	if category, ok := t.categories[description]; ok {
		return category
	}
	return Other
}

// BaseRate returns the basic tax rate of a category.
func (t *Table) BaseRate(category Category) decimal.Decimal {
	return t.baseRates[category]
}

// ImportSurcharge returns the rate added to imported items.
func (t *Table) ImportSurcharge() decimal.Decimal {
	return t.importSurcharge
}

// Rate determines the tax rate of a basket item from its canonical
// description and import flag. It never fails; unknown descriptions fall back
// to the OTHER category.
//
// EXAMPLE:
//   Rate("music CD", true) -> 0.15
//   Rate("book", false)    -> 0
func (t *Table) Rate(description string, imported bool) decimal.Decimal {
	rate := t.BaseRate(t.Category(description))
	if imported {
		rate = rate.Add(t.importSurcharge)
	}
	return rate
}
