// =============================================================================
// Sales Tax Receipts - Receipt Writer Module
// =============================================================================
//
// This module renders a parsed basket as a receipt document. Four formats are
// supported:
//
//   text : the plain receipt, one line per entry plus totals
//   xml  : an indented XML document (see below)
//   yaml : a YAML document with the same fields as the XML one
//   xlsx : an Excel workbook with one row per entry and a totals block
//
// XML STRUCTURE:
//
//   <receipt>
//     <entry n="1">
//       <quantity>1</quantity>
//       <imported>false</imported>
//       <description>music CD</description>
//       <netPrice>14.99</netPrice>
//       <salesTaxes>1.50</salesTaxes>
//       <grossPrice>16.49</grossPrice>
//     </entry>
//     <salesTaxes>1.50</salesTaxes>
//     <total>16.49</total>
//   </receipt>
//
// All monetary values are written with exactly two decimal places.
//
// =============================================================================

package receiptwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ginjaninja78/sales-tax-receipts/internal/basket"
	ierr "github.com/ginjaninja78/sales-tax-receipts/internal/errors"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// FORMATS
// =============================================================================

// Format is a receipt document format.
type Format string

const (
	FormatText Format = "text"
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatXML, FormatYAML, FormatXLSX}

// ParseFormat converts a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	if !lo.Contains(Formats, format) {
		return "", errors.Mark(errors.Newf("unknown format %q", name), ierr.ErrUnsupportedFormat)
	}
	return format, nil
}

// Extension returns the file extension of the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatXML:
		return ".xml"
	case FormatYAML:
		return ".yaml"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".txt"
	}
}

// =============================================================================
// GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for document generation.
type GenerateOptions struct {
	// Indent is the string used for XML and YAML indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// SheetName is the worksheet name of the XLSX workbook.
	// Default: "Receipt"
	SheetName string

	// EntryIndexAttribute is the attribute holding the 1-based entry index.
	// Default: "n"
	EntryIndexAttribute string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		SheetName:             "Receipt",
		EntryIndexAttribute:   "n",
	}
}

// =============================================================================
// GENERATION FUNCTIONS
// =============================================================================

// Generate renders the basket in the given format with default options.
func Generate(b *basket.Basket, format Format) ([]byte, error) {
	return GenerateWithOptions(b, format, DefaultGenerateOptions())
}

// GenerateWithOptions renders the basket in the given format.
func GenerateWithOptions(b *basket.Basket, format Format, options GenerateOptions) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(b.Receipt() + "\n"), nil
	case FormatXML:
		return generateXML(b, options), nil
	case FormatYAML:
		return generateYAML(b, options)
	case FormatXLSX:
		return generateXLSX(b, options)
	default:
		return nil, errors.Mark(errors.Newf("unknown format %q", string(format)), ierr.ErrUnsupportedFormat)
	}
}

// =============================================================================
// XML
// =============================================================================

// XMLElement is a node of the XML receipt.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// generateXML builds the XML receipt.
func generateXML(b *basket.Basket, options GenerateOptions) []byte {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	}

	root := XMLElement{XMLName: xml.Name{Local: "receipt"}}
	for i, entry := range b.Entries() {
		root.Children = append(root.Children, buildEntryElement(entry, i+1, options))
	}
	root.Children = append(root.Children,
		createSimpleElement("salesTaxes", b.TotalTaxes().StringFixed(2)),
		createSimpleElement("total", b.Total().StringFixed(2)),
	)

	writeElement(&buffer, root, options.Indent, 0)
	return buffer.Bytes()
}

// buildEntryElement creates the element of one basket entry.
func buildEntryElement(entry basket.Entry, index int, options GenerateOptions) XMLElement {
	element := XMLElement{XMLName: xml.Name{Local: "entry"}}
	if options.EntryIndexAttribute != "" {
		element.Attributes = append(element.Attributes, xml.Attr{
			Name:  xml.Name{Local: options.EntryIndexAttribute},
			Value: strconv.Itoa(index),
		})
	}

	element.Children = []XMLElement{
		createSimpleElement("quantity", strconv.Itoa(entry.Quantity)),
		createSimpleElement("imported", strconv.FormatBool(entry.Imported)),
		createSimpleElement("description", entry.Description),
		createSimpleElement("netPrice", entry.NetPrice.StringFixed(2)),
		createSimpleElement("salesTaxes", entry.Taxes().StringFixed(2)),
		createSimpleElement("grossPrice", entry.GrossPrice.StringFixed(2)),
	}
	return element
}

// createSimpleElement creates an element holding only a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	buffer.WriteString(strings.Repeat(indent, level))

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)
	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		buffer.WriteString(strings.Repeat(indent, level))
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer
	if err := xml.EscapeText(&buffer, []byte(s)); err != nil {
		return s
	}
	return buffer.String()
}

// =============================================================================
// YAML
// =============================================================================

// yamlReceipt is the YAML document layout.
type yamlReceipt struct {
	Entries    []yamlEntry `yaml:"entries"`
	SalesTaxes string      `yaml:"sales_taxes"`
	Total      string      `yaml:"total"`
}

type yamlEntry struct {
	Quantity    int    `yaml:"quantity"`
	Imported    bool   `yaml:"imported"`
	Description string `yaml:"description"`
	NetPrice    string `yaml:"net_price"`
	SalesTaxes  string `yaml:"sales_taxes"`
	GrossPrice  string `yaml:"gross_price"`
}

func generateYAML(b *basket.Basket, options GenerateOptions) ([]byte, error) {
	doc := yamlReceipt{
		Entries: lo.Map(b.Entries(), func(e basket.Entry, _ int) yamlEntry {
			return yamlEntry{
				Quantity:    e.Quantity,
				Imported:    e.Imported,
				Description: e.Description,
				NetPrice:    e.NetPrice.StringFixed(2),
				SalesTaxes:  e.Taxes().StringFixed(2),
				GrossPrice:  e.GrossPrice.StringFixed(2),
			}
		}),
		SalesTaxes: b.TotalTaxes().StringFixed(2),
		Total:      b.Total().StringFixed(2),
	}

	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(len(options.Indent))
	if err := encoder.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to encode YAML receipt")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode YAML receipt")
	}
	return buffer.Bytes(), nil
}

// =============================================================================
// XLSX
// =============================================================================

// xlsxHeaders are the column titles of the entry rows.
var xlsxHeaders = []interface{}{"Quantity", "Imported", "Description", "Net Price", "Sales Taxes", "Gross Price"}

// generateXLSX builds a workbook with a header row, one row per entry, a
// blank row and the two totals rows. Price cells are numeric with format 0.00.
func generateXLSX(b *basket.Basket, options GenerateOptions) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := options.SheetName
	if sheet == "" {
		sheet = DefaultGenerateOptions().SheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, errors.Wrap(err, "failed to name worksheet")
	}

	if err := f.SetSheetRow(sheet, "A1", &xlsxHeaders); err != nil {
		return nil, errors.Wrap(err, "failed to write header row")
	}

	entries := b.Entries()
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errors.Wrap(err, "failed to address entry row")
		}
		row := []interface{}{
			e.Quantity,
			e.Imported,
			e.Description,
			e.NetPrice.InexactFloat64(),
			e.Taxes().InexactFloat64(),
			e.GrossPrice.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, errors.Wrapf(err, "failed to write entry row %d", i+1)
		}
	}

	totalsRow := len(entries) + 3
	totals := [][]interface{}{
		{"Sales Taxes", b.TotalTaxes().InexactFloat64()},
		{"Total", b.Total().InexactFloat64()},
	}
	for i, values := range totals {
		cell, err := excelize.CoordinatesToCellName(5, totalsRow+i)
		if err != nil {
			return nil, errors.Wrap(err, "failed to address totals row")
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, errors.Wrap(err, "failed to write totals row")
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create price style")
	}
	if len(entries) > 0 {
		if err := f.SetCellStyle(sheet, "D2", fmt.Sprintf("F%d", len(entries)+1), style); err != nil {
			return nil, errors.Wrap(err, "failed to style price cells")
		}
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("F%d", totalsRow), fmt.Sprintf("F%d", totalsRow+1), style); err != nil {
		return nil, errors.Wrap(err, "failed to style totals")
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to write workbook")
	}
	return buffer.Bytes(), nil
}
