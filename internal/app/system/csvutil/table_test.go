package csvutil

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestSafeField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Ada", "Ada"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1 555", "'+1 555"},
		{"-3", "'-3"},
		{"@cmd", "'@cmd"},
	}
	for _, tt := range tests {
		if got := SafeField(tt.in); got != tt.want {
			t.Errorf("SafeField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTable_WriteCSV(t *testing.T) {
	tb := NewTable("name", "email")
	tb.Add("Ada", "ada@example.com")
	tb.Add("=HYPERLINK()", "x@example.com")

	rec := httptest.NewRecorder()
	if err := tb.WriteCSV(rec, "applications.csv"); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type: %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "applications.csv") {
		t.Errorf("content disposition: %q", cd)
	}
	body := strings.TrimPrefix(rec.Body.String(), "\ufeff")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines: %q", lines)
	}
	if !strings.HasPrefix(lines[2], "'=HYPERLINK()") {
		t.Errorf("formula not neutralized: %q", lines[2])
	}
}

func TestTable_WriteXLSX(t *testing.T) {
	tb := NewTable("name", "status")
	tb.Add("Ada", "Submitted")
	tb.Add("Grace", "Hired")

	rec := httptest.NewRecorder()
	if err := tb.WriteXLSX(rec, "applications.xlsx", "Applications"); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != XLSXContentType {
		t.Errorf("content type: %q", ct)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Applications")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "name" || rows[2][1] != "Hired" {
		t.Errorf("rows: %v", rows)
	}
}

func TestTable_AddCapsRows(t *testing.T) {
	tb := NewTable("n")
	for i := 0; i < MaxRows; i++ {
		tb.Add("x")
	}
	if tb.Add("overflow") {
		t.Error("Add past MaxRows returned true")
	}
	if len(tb.Rows) != MaxRows {
		t.Errorf("rows: got %d, want %d", len(tb.Rows), MaxRows)
	}
}
