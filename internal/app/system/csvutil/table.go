// internal/app/system/csvutil/table.go
package csvutil

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/waffle/pantry/export"
	"github.com/xuri/excelize/v2"
)

// Table is a header row plus data rows, written as CSV or XLSX.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable returns an empty table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// Add appends a row. Cells are neutralized with SafeField. Rows past
// MaxRows are dropped and Add reports false.
func (t *Table) Add(cells ...string) bool {
	if len(t.Rows) >= MaxRows {
		return false
	}
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = SafeField(c)
	}
	t.Rows = append(t.Rows, row)
	return true
}

// SafeField prefixes values a spreadsheet would evaluate as a formula.
func SafeField(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
}

// WriteCSV writes t as a CSV attachment named filename.
func (t *Table) WriteCSV(w http.ResponseWriter, filename string) error {
	c := export.NewCSV().Headers(t.Headers...).Rows(t.Rows)
	attachment(w, "text/csv; charset=utf-8", filename)
	// UTF-8 BOM for Excel
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	return c.Write(w)
}

// XLSXContentType is the media type of an Excel workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX writes t as a single-sheet workbook attachment named filename.
// The header row is bold and frozen.
func (t *Table) WriteXLSX(w http.ResponseWriter, filename, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := t.fill(f, sheet); err != nil {
		return err
	}
	attachment(w, XLSXContentType, filename)
	return f.Write(w)
}

func (t *Table) fill(f *excelize.File, sheet string) error {
	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if len(t.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
	}
	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
