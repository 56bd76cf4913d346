package receiptwriter

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/basket"
	ierr "github.com/ginjaninja78/sales-tax-receipts/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func sampleBasket() *basket.Basket {
	d := decimal.RequireFromString
	return basket.New([]basket.Entry{
		basket.NewEntry(1, true, "box of chocolates", d("10.00"), d("10.50")),
		basket.NewEntry(1, true, "bottle of perfume", d("47.50"), d("54.65")),
	})
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "XML", " yaml ", "xlsx"} {
		_, err := ParseFormat(name)
		assert.NoError(t, err, name)
	}

	_, err := ParseFormat("pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrUnsupportedFormat))
}

func TestFormat_Extension(t *testing.T) {
	assert.Equal(t, ".txt", FormatText.Extension())
	assert.Equal(t, ".xml", FormatXML.Extension())
	assert.Equal(t, ".yaml", FormatYAML.Extension())
	assert.Equal(t, ".xlsx", FormatXLSX.Extension())
}

func TestGenerate_Text(t *testing.T) {
	out, err := Generate(sampleBasket(), FormatText)
	require.NoError(t, err)

	expected := "1 imported box of chocolates: 10.50\n" +
		"1 imported bottle of perfume: 54.65\n" +
		"Sales Taxes: 7.65\n" +
		"Total: 65.15\n"
	assert.Equal(t, expected, string(out))
}

func TestGenerate_XML(t *testing.T) {
	out, err := Generate(sampleBasket(), FormatXML)
	require.NoError(t, err)

	expected := `<?xml version="1.0" encoding="UTF-8"?>
<receipt>
  <entry n="1">
    <quantity>1</quantity>
    <imported>true</imported>
    <description>box of chocolates</description>
    <netPrice>10.00</netPrice>
    <salesTaxes>0.50</salesTaxes>
    <grossPrice>10.50</grossPrice>
  </entry>
  <entry n="2">
    <quantity>1</quantity>
    <imported>true</imported>
    <description>bottle of perfume</description>
    <netPrice>47.50</netPrice>
    <salesTaxes>7.15</salesTaxes>
    <grossPrice>54.65</grossPrice>
  </entry>
  <salesTaxes>7.65</salesTaxes>
  <total>65.15</total>
</receipt>
`
	assert.Equal(t, expected, string(out))
}

func TestGenerate_XMLOptions(t *testing.T) {
	options := DefaultGenerateOptions()
	options.IncludeXMLDeclaration = false
	options.EntryIndexAttribute = ""
	options.Indent = "\t"

	out, err := GenerateWithOptions(basket.New(nil), FormatXML, options)
	require.NoError(t, err)
	assert.Equal(t, "<receipt>\n\t<salesTaxes>0.00</salesTaxes>\n\t<total>0.00</total>\n</receipt>\n", string(out))
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "fish &amp; chips &lt;large&gt;", escapeXML("fish & chips <large>"))
}

func TestGenerate_YAML(t *testing.T) {
	out, err := Generate(sampleBasket(), FormatYAML)
	require.NoError(t, err)

	var doc yamlReceipt
	require.NoError(t, yaml.Unmarshal(out, &doc))

	require.Len(t, doc.Entries, 2)
	assert.Equal(t, "box of chocolates", doc.Entries[0].Description)
	assert.True(t, doc.Entries[0].Imported)
	assert.Equal(t, "0.50", doc.Entries[0].SalesTaxes)
	assert.Equal(t, "54.65", doc.Entries[1].GrossPrice)
	assert.Equal(t, "7.65", doc.SalesTaxes)
	assert.Equal(t, "65.15", doc.Total)
}

func TestGenerate_XLSX(t *testing.T) {
	out, err := Generate(sampleBasket(), FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Receipt", f.GetSheetName(0))

	header, err := f.GetCellValue("Receipt", "C1")
	require.NoError(t, err)
	assert.Equal(t, "Description", header)

	description, err := f.GetCellValue("Receipt", "C3")
	require.NoError(t, err)
	assert.Equal(t, "bottle of perfume", description)

	label, err := f.GetCellValue("Receipt", "E6")
	require.NoError(t, err)
	assert.Equal(t, "Total", label)

	total, err := f.GetCellValue("Receipt", "F6")
	require.NoError(t, err)
	assert.Equal(t, "65.15", total)
}

func TestGenerate_UnknownFormat(t *testing.T) {
	_, err := Generate(sampleBasket(), Format("pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrUnsupportedFormat))
}
