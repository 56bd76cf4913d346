package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/ginjaninja78/sales-tax-receipts/internal/basket"
	ierr "github.com/ginjaninja78/sales-tax-receipts/internal/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/taxtable"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func lines(l ...string) string {
	return strings.Join(l, "\n")
}

func TestParse_NetPrices(t *testing.T) {
	got, err := Parse(lines(
		"> 1 book at 10.0",
		"> 1 music CD at 5.0",
		"> 1 imported box of chocolates at 20.00",
		"> 1 box of imported chocolates at 20.00",
	))
	require.NoError(t, err)

	choc := basket.NewEntry(1, true, "box of chocolates", d("20.0"), d("21.0"))
	expected := basket.New([]basket.Entry{
		basket.NewEntry(1, false, "book", d("10.00"), d("10.0")),
		basket.NewEntry(1, false, "music CD", d("5.00"), d("5.5")),
		choc,
		choc,
	})
	assert.True(t, expected.Equal(got), "got receipt:\n%s", got.Receipt())
}

func TestParse_GrossPrices(t *testing.T) {
	got, err := Parse(lines(
		"> 1 book: 10.0",
		"> 1 music CD: 5.50",
		"> 1 imported box of chocolates: 21.00",
		"> 1 box of imported chocolates: 21.00",
	))
	require.NoError(t, err)

	choc := basket.NewEntry(1, true, "box of chocolates", d("20.0"), d("21.0"))
	expected := basket.New([]basket.Entry{
		basket.NewEntry(1, false, "book", d("10.00"), d("10.0")),
		basket.NewEntry(1, false, "music CD", d("5.00"), d("5.5")),
		choc,
		choc,
	})
	assert.True(t, expected.Equal(got), "got receipt:\n%s", got.Receipt())
}

func TestParse_Examples(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:  "basic sales taxes",
			input: []string{"1 book at 12.49", "1 music CD at 14.99", "1 chocolate bar at 0.85"},
			expected: []string{
				"1 book: 12.49",
				"1 music CD: 16.49",
				"1 chocolate bar: 0.85",
				"Sales Taxes: 1.50",
				"Total: 29.83",
			},
		},
		{
			name:  "imported goods",
			input: []string{"1 imported box of chocolates at 10.00", "1 imported bottle of perfume at 47.50"},
			expected: []string{
				"1 imported box of chocolates: 10.50",
				"1 imported bottle of perfume: 54.65",
				"Sales Taxes: 7.65",
				"Total: 65.15",
			},
		},
		{
			name: "mixed basket",
			input: []string{
				"1 imported bottle of perfume at 27.99",
				"1 bottle of perfume at 18.99",
				"1 packet of headache pills at 9.75",
				"1 box of imported chocolates at 11.25",
			},
			expected: []string{
				"1 imported bottle of perfume: 32.19",
				"1 bottle of perfume: 20.89",
				"1 packet of headache pills: 9.75",
				"1 imported box of chocolates: 11.85",
				"Sales Taxes: 6.70",
				"Total: 74.68",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(lines(tt.input...))
			require.NoError(t, err)
			assert.Equal(t, lines(tt.expected...), got.Receipt())

			// The printed receipt parses back into an equal basket.
			fromReceipt, err := Parse(lines(tt.expected...))
			require.NoError(t, err)
			assert.True(t, got.Equal(fromReceipt))
			assert.Equal(t, got.Receipt(), fromReceipt.Receipt())
		})
	}
}

func TestParse_ReceiptIsIdempotent(t *testing.T) {
	first, err := Parse(lines("> 1 imported box of chocolates: 10.50", "> 1 imported bottle of perfume: 54.65"))
	require.NoError(t, err)

	second, err := Parse(first.Receipt())
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestParse_ReceiptRoundsPricesBeyondCents(t *testing.T) {
	first, err := Parse("1 book: 12.495")
	require.NoError(t, err)
	assert.Equal(t, "1 book: 12.50\nSales Taxes: 0.00\nTotal: 12.50", first.Receipt())

	second, err := Parse(first.Receipt())
	require.NoError(t, err)

	assert.False(t, first.Equal(second))
	assert.Equal(t, first.Receipt(), second.Receipt())
}

func TestLineParser_ImportDetection(t *testing.T) {
	p := NewLineParser(taxtable.Default())

	for _, line := range []string{
		"1 imported box of chocolates at 10.00",
		"1 box of imported chocolates at 10.00",
	} {
		entry, matched, err := p.ParseLine(line)
		require.NoError(t, err)
		require.True(t, matched)
		assert.True(t, entry.Imported, line)
		assert.Equal(t, "box of chocolates", entry.Description, line)
	}
}

func TestLineParser_UnknownItemDefaultsToOther(t *testing.T) {
	entry, matched, err := NewLineParser(taxtable.Default()).ParseLine("1 widget at 10.00")
	require.NoError(t, err)
	require.True(t, matched)

	assert.True(t, entry.Taxes().Equal(d("0.50")))
	assert.True(t, entry.GrossPrice.Equal(d("10.50")))
}

func TestLineParser_NetAndGrossAgree(t *testing.T) {
	p := NewLineParser(taxtable.Default())

	tests := []struct {
		net   string
		gross string
	}{
		{net: "1 music CD at 14.99", gross: "1 music CD: 16.49"},
		{net: "1 imported bottle of perfume at 27.99", gross: "1 imported bottle of perfume: 32.19"},
		{net: "1 bottle of perfume at 18.99", gross: "1 bottle of perfume: 20.89"},
		{net: "1 box of imported chocolates at 11.25", gross: "1 imported box of chocolates: 11.85"},
		{net: "3 packet of headache pills at 9.75", gross: "> 3 packet of headache pills: 9.75"},
	}

	for _, tt := range tests {
		t.Run(tt.net, func(t *testing.T) {
			fromNet, matched, err := p.ParseLine(tt.net)
			require.NoError(t, err)
			require.True(t, matched)

			fromGross, matched, err := p.ParseLine(tt.gross)
			require.NoError(t, err)
			require.True(t, matched)

			assert.True(t, fromNet.Equal(fromGross), "%+v != %+v", fromNet, fromGross)
		})
	}
}

func TestLineParser_TaxRoundsUp(t *testing.T) {
	p := NewLineParser(taxtable.Default())
	step := d("0.05")

	for _, price := range []string{"0.01", "0.49", "1.00", "12.34", "14.99", "27.99", "47.50", "99.99"} {
		for _, desc := range []string{"music CD", "imported music CD", "imported book", "book"} {
			entry, matched, err := p.ParseLine("1 " + desc + " at " + price)
			require.NoError(t, err)
			require.True(t, matched)

			raw := entry.NetPrice.Mul(taxtable.Default().Rate(entry.Description, entry.Imported))
			taxes := entry.Taxes()

			assert.True(t, taxes.GreaterThanOrEqual(raw), "%s %s: %s < %s", desc, price, taxes, raw)
			assert.True(t, taxes.Sub(raw).LessThan(step), "%s %s: %s - %s >= 0.05", desc, price, taxes, raw)
			assert.True(t, taxes.Mod(step).IsZero(), "%s %s: %s not a multiple of 0.05", desc, price, taxes)
		}
	}
}

func TestLineParser_GrossTaxRoundsUp(t *testing.T) {
	p := NewLineParser(taxtable.Default())
	step := d("0.05")
	one := decimal.NewFromInt(1)

	for _, price := range []string{"0.01", "0.49", "1.00", "10.50", "16.49", "32.19", "54.65", "99.99"} {
		for _, desc := range []string{"music CD", "imported music CD", "imported book", "book"} {
			entry, matched, err := p.ParseLine("1 " + desc + ": " + price)
			require.NoError(t, err)
			require.True(t, matched)

			rate := taxtable.Default().Rate(entry.Description, entry.Imported)
			raw := entry.GrossPrice.Sub(entry.GrossPrice.DivRound(one.Add(rate), 28))
			taxes := entry.Taxes()

			assert.True(t, entry.GrossPrice.Equal(d(price)), "%s %s: gross changed to %s", desc, price, entry.GrossPrice)
			assert.True(t, taxes.GreaterThanOrEqual(raw), "%s %s: %s < %s", desc, price, taxes, raw)
			assert.True(t, taxes.Sub(raw).LessThan(step), "%s %s: %s - %s >= 0.05", desc, price, taxes, raw)
			assert.True(t, taxes.Mod(step).IsZero(), "%s %s: %s not a multiple of 0.05", desc, price, taxes)
		}
	}
}

func TestLineParser_NonMatchingLines(t *testing.T) {
	p := NewLineParser(taxtable.Default())

	for _, line := range []string{
		"",
		"> Sales Taxes: 7.65",
		"Total: 65.15",
		"1 book at 12",
		"1 book at .49",
		"book at 12.49",
		"one book at 12.49",
		">1 book at 12.49",
		"1 book for 12.49",
		"1 book at 12.49 each",
		"1 at 5.00",
		"> 2: 5.00",
		"1  at 5.00",
	} {
		_, matched, err := p.ParseLine(line)
		assert.NoError(t, err, line)
		assert.False(t, matched, line)
	}
}

func TestParseDetailed_ReportsSkippedLines(t *testing.T) {
	result, err := New(taxtable.Default()).ParseDetailed(lines(
		"Input 1:",
		"> 1 book at 12.49",
		"",
		"> Total: 12.49\r",
	))
	require.NoError(t, err)

	assert.Equal(t, 4, result.LinesRead)
	assert.Equal(t, 1, result.Basket.Len())
	assert.Equal(t, []SkippedLine{
		{Number: 1, Text: "Input 1:"},
		{Number: 4, Text: "> Total: 12.49"},
	}, result.Skipped)
}

func TestParse_AcceptsCRLF(t *testing.T) {
	got, err := Parse("1 book at 12.49\r\n1 music CD at 14.99\r\n")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestParse_NumberFormatErrorAbortsParse(t *testing.T) {
	got, err := Parse(lines(
		"1 book at 12.49",
		"99999999999999999999 music CD at 14.99",
		"1 chocolate bar at 0.85",
	))
	require.Error(t, err)
	assert.Nil(t, got)

	var nfe *NumberFormatError
	require.True(t, errors.As(err, &nfe))
	assert.Equal(t, 2, nfe.Line)
	assert.Equal(t, "quantity", nfe.Field)
	assert.Equal(t, "99999999999999999999", nfe.Value)
	assert.True(t, errors.Is(err, ierr.ErrNumberFormat))
	assert.Contains(t, err.Error(), "line 2")
}

type fixedRate struct {
	rate decimal.Decimal
	seen []string
}

func (f *fixedRate) Rate(description string, imported bool) decimal.Decimal {
	f.seen = append(f.seen, description)
	return f.rate
}

func TestParser_UsesInjectedRates(t *testing.T) {
	rates := &fixedRate{rate: d("0.20")}

	got, err := New(rates).Parse("2 imported book at 10.00")
	require.NoError(t, err)

	entries := got.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Quantity)
	assert.True(t, entries[0].GrossPrice.Equal(d("12.00")))
	assert.Equal(t, []string{"book"}, rates.seen)
}
