package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestRegistrySupported(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		filename string
		expected bool
	}{
		{"report.pdf", true},
		{"NOTES.TXT", true},
		{"readme.md", true},
		{"data.csv", true},
		{"sheet.xlsx", true},
		{"legacy.XLS", true},
		{"letter.docx", true},
		{"old.rtf", true},
		{"image.png", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := r.Supported(tt.filename); got != tt.expected {
			t.Errorf("Supported(%s) = %v; want %v", tt.filename, got, tt.expected)
		}
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	r := NewRegistry()
	path := writeTempFile(t, "pic.png", []byte{0x89, 0x50})

	_, err := r.Extract(path, "pic.png")
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Errorf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestExtractPlainTextUTF8(t *testing.T) {
	r := NewRegistry()
	path := writeTempFile(t, "doc.txt", []byte("hello world"))

	text, err := r.Extract(path, "doc.txt")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("got %q", text)
	}
}

func TestExtractPlainTextLatin1(t *testing.T) {
	r := NewRegistry()
	// "café" in latin-1, not valid utf-8
	path := writeTempFile(t, "doc.txt", []byte{'c', 'a', 'f', 0xE9})

	text, err := r.Extract(path, "doc.txt")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if text != "café" {
		t.Errorf("got %q", text)
	}
}

func TestExtractEmptyContent(t *testing.T) {
	r := NewRegistry()
	path := writeTempFile(t, "blank.txt", []byte("   \n\t  "))

	_, err := r.Extract(path, "blank.txt")
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestExtractCSVSummary(t *testing.T) {
	r := NewRegistry()
	csvData := "name,age,city\nalice,30,berlin\nbob,25,paris\ncara,35,berlin\n"
	path := writeTempFile(t, "people.csv", []byte(csvData))

	text, err := r.Extract(path, "people.csv")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for _, want := range []string{
		"Columns: name, age, city",
		"Total Rows: 3",
		"- age: numeric",
		"- city: text (2 unique values)",
		"- age: min=25.00 max=35.00 mean=30.00 count=3",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}

	// same input must serialize identically
	again, err := r.Extract(path, "people.csv")
	if err != nil {
		t.Fatalf("second Extract failed: %v", err)
	}
	if text != again {
		t.Error("csv serialization is not deterministic")
	}
}

func TestExtractExcelSummary(t *testing.T) {
	r := NewRegistry()
	path := filepath.Join(t.TempDir(), "report.xlsx")

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"name", "amount"},
		{"alice", 30},
		{"bob", 25},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("building workbook: %v", err)
		}
	}
	if _, err := wb.NewSheet("Totals"); err != nil {
		t.Fatalf("adding sheet: %v", err)
	}
	if err := wb.SetSheetRow("Totals", "A1", &[]any{"total"}); err != nil {
		t.Fatalf("building workbook: %v", err)
	}
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}

	text, err := r.Extract(path, "report.xlsx")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for _, want := range []string{
		"Sheets: " + sheet + ", Totals",
		"--- Sheet: " + sheet + " ---",
		"Columns: name, amount",
		"Rows: 2",
		"alice | 30",
		"--- Sheet: Totals ---",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestExtractExcelCorruptWorkbook(t *testing.T) {
	r := NewRegistry()
	path := writeTempFile(t, "broken.xlsx", []byte("not a zip archive"))

	if _, err := r.Extract(path, "broken.xlsx"); err == nil {
		t.Error("expected an error for an unreadable workbook")
	}
}

func TestExtractCSVSampleBound(t *testing.T) {
	r := NewRegistry()
	var sb strings.Builder
	sb.WriteString("id\n")
	for i := 0; i < 50; i++ {
		sb.WriteString("1\n")
	}
	path := writeTempFile(t, "big.csv", []byte(sb.String()))

	text, err := r.Extract(path, "big.csv")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !strings.Contains(text, "Total Rows: 50") {
		t.Errorf("expected total row count in summary:\n%s", text)
	}
	// sample section is bounded, so the serialized text must stay well
	// under one line per row
	if got := strings.Count(text, "\n"); got > 40 {
		t.Errorf("summary too long for a bounded sample: %d lines", got)
	}
}
