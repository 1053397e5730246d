package records

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXSheet is the worksheet name used by WriteXLSX.
const XLSXSheet = "Export"

// Header returns the field labels in schema order.
func Header(schema *Schema) []string {
	header := make([]string, 0, schema.Len())
	for _, f := range schema.fields {
		header = append(header, f.Label)
	}
	return header
}

// Values renders one record as a row of canonical text values in schema order.
func Values(schema *Schema, rec Record) ([]string, error) {
	row := make([]string, 0, schema.Len())
	for _, f := range schema.fields {
		s, err := Text(rec[f.Name])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		row = append(row, s)
	}
	return row, nil
}

// WriteCSV writes a header of field labels followed by one row per record,
// in the given order. Values containing delimiters, quotes or newlines are
// quoted so the output parses back to the same rows.
func WriteCSV(w io.Writer, schema *Schema, recs []Record) error {
	if schema == nil {
		return fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(Header(schema)); err != nil {
		return err
	}
	for i, rec := range recs {
		row, err := Values(schema, rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook.
// Number fields are stored as numeric cells.
func WriteXLSX(w io.Writer, schema *Schema, recs []Record) error {
	if schema == nil {
		return fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	book := excelize.NewFile()
	defer func() { _ = book.Close() }()

	if err := book.SetSheetName(book.GetSheetName(0), XLSXSheet); err != nil {
		return err
	}
	header := Header(schema)
	cells := make([]interface{}, len(header))
	for i, label := range header {
		cells[i] = label
	}
	if err := book.SetSheetRow(XLSXSheet, "A1", &cells); err != nil {
		return err
	}
	for i, rec := range recs {
		row := make([]interface{}, 0, schema.Len())
		for _, f := range schema.fields {
			v := rec[f.Name]
			if f.Kind == KindNumber {
				if n, ok := Number(v); ok {
					row = append(row, n)
					continue
				}
			}
			s, err := Text(v)
			if err != nil {
				return fmt.Errorf("record %d: field %q: %w", i, f.Name, err)
			}
			row = append(row, s)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(XLSXSheet, cell, &row); err != nil {
			return err
		}
	}
	return book.Write(w)
}

// RenderHTMLTable renders a printable HTML document for PDF conversion.
// Values are formatted by p when it is non-nil.
func RenderHTMLTable(title string, schema *Schema, p *Projection, recs []Record) (string, error) {
	if schema == nil {
		return "", fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;}th,td{border:1px solid #ddd;padding:6px;text-align:left;}th{background:#f5f5f5;}")
	b.WriteString("</style></head><body>")
	fmt.Fprintf(&b, "<h1>%s</h1><table><thead><tr>", html.EscapeString(title))
	for _, label := range Header(schema) {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(label))
	}
	b.WriteString("</tr></thead><tbody>")
	for i, rec := range recs {
		b.WriteString("<tr>")
		for _, f := range schema.fields {
			var value string
			if p != nil {
				value = p.Format(f, rec[f.Name])
			} else {
				s, err := Text(rec[f.Name])
				if err != nil {
					return "", fmt.Errorf("record %d: field %q: %w", i, f.Name, err)
				}
				value = s
			}
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(value))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String(), nil
}
