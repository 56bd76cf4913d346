package taxtable

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTable_Rate(t *testing.T) {
	tests := []struct {
		name        string
		description string
		imported    bool
		expected    string
	}{
		{name: "book is exempt", description: "book", expected: "0.00"},
		{name: "food is exempt", description: "chocolate bar", expected: "0.00"},
		{name: "medical is exempt", description: "packet of headache pills", expected: "0.00"},
		{name: "imported exempt item pays surcharge only", description: "book", imported: true, expected: "0.05"},
		{name: "other goods pay basic tax", description: "music CD", expected: "0.10"},
		{name: "imported other goods pay both", description: "music CD", imported: true, expected: "0.15"},
		{name: "unknown item defaults to other", description: "widget", expected: "0.10"},
		{name: "lookup is case sensitive", description: "Book", expected: "0.10"},
	}

	table := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := table.Rate(tt.description, tt.imported)
			assert.True(t, rate.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, rate)
		})
	}
}

func TestTable_Category(t *testing.T) {
	table := Default()

	assert.Equal(t, Book, table.Category("book"))
	assert.Equal(t, Food, table.Category("box of chocolates"))
	assert.Equal(t, Medical, table.Category("packet of headache pills"))
	assert.Equal(t, Other, table.Category("bottle of perfume"))
	assert.Equal(t, Other, table.Category(""))
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "BOOK", Book.String())
	assert.Equal(t, "FOOD", Food.String())
	assert.Equal(t, "MEDICAL", Medical.String())
	assert.Equal(t, "OTHER", Other.String())
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.True(t, Default().ImportSurcharge().Equal(decimal.RequireFromString("0.05")))
}
