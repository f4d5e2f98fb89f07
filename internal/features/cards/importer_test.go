package cards

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"serotonyl.ru/ghostcards/internal/common"
)

func TestParseImport_CSV(t *testing.T) {
	data := "\ufeffFront,Back\n" +
		"hola,hello\n" +
		"\n" +
		",,\n" +
		"adiós,\n" +
		"\"gracias, amigo\",\"thanks, friend\"\n" +
		"perro,dog,extra\n"

	parsed, err := ParseImport("words.CSV", strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if len(parsed.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %+v", parsed.Rows)
	}
	if parsed.Rows[1].Front != "gracias, amigo" || parsed.Rows[1].Back != "thanks, friend" {
		t.Fatalf("unexpected quoted row: %+v", parsed.Rows[1])
	}
	if parsed.Skipped != 1 {
		t.Fatalf("expected 1 skipped blank row, got %d", parsed.Skipped)
	}
	if len(parsed.Errors) != 1 || !strings.HasPrefix(parsed.Errors[0], "Row 5:") {
		t.Fatalf("unexpected errors: %v", parsed.Errors)
	}
}

func TestParseImport_NoHeader(t *testing.T) {
	parsed, err := ParseImport("a.csv", strings.NewReader("uno,one\ndos,two\n"))
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if len(parsed.Rows) != 2 || parsed.Rows[0].Line != 1 {
		t.Fatalf("first row must not be treated as header: %+v", parsed.Rows)
	}
}

func TestParseImport_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]string{{"front", "back"}, {"chat", "cat"}, {"", ""}, {"chien", "dog"}}
	for i, row := range rows {
		for j, v := range row {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	parsed, err := ParseImport("deck.xlsx", &buf)
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if len(parsed.Rows) != 2 || parsed.Rows[1].Front != "chien" || parsed.Rows[1].Back != "dog" {
		t.Fatalf("unexpected rows: %+v", parsed.Rows)
	}
}

func TestParseImport_Errors(t *testing.T) {
	if _, err := ParseImport("notes.txt", strings.NewReader("a,b")); !errors.Is(err, common.ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if _, err := ParseImport("empty.csv", strings.NewReader("front,back\n\n")); !errors.Is(err, common.ErrEmptyImport) {
		t.Fatalf("expected ErrEmptyImport, got %v", err)
	}
	if _, err := ParseImport("broken.xlsx", strings.NewReader("not a zip")); !errors.Is(err, common.ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile for broken xlsx, got %v", err)
	}
}
