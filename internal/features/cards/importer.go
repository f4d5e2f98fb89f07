package cards

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"serotonyl.ru/ghostcards/internal/common"
)

// ImportRow: строка файла, из которой получится карточка.
type ImportRow struct {
	Line  int
	Front string
	Back  string
}

// ParsedImport: результат разбора файла до записи в базу.
type ParsedImport struct {
	Rows    []ImportRow
	Skipped int
	Errors  []string
}

// ParseImport читает карточки из .xlsx или .csv:
// колонка A лицевая сторона, B обратная. Строка заголовка (front/back) пропускается,
// пустые строки считаются пропущенными, неполные попадают в Errors.
func ParseImport(filename string, r io.Reader) (*ParsedImport, error) {
	var (
		records []record
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		records, err = readExcel(r)
	case ".csv":
		records, err = readCSV(r)
	default:
		return nil, common.ErrUnsupportedFile
	}
	if err != nil {
		return nil, err
	}

	parsed := &ParsedImport{Errors: make([]string, 0)}
	headerChecked := false
	for _, rec := range records {
		line := rec.line
		front, back := cell(rec.cells, 0), cell(rec.cells, 1)

		if front == "" && back == "" {
			parsed.Skipped++
			continue
		}
		if !headerChecked {
			headerChecked = true
			if isHeader(front, back) {
				continue
			}
		}

		switch {
		case front == "":
			parsed.Errors = append(parsed.Errors, fmt.Sprintf("Row %d: front is empty", line))
		case back == "":
			parsed.Errors = append(parsed.Errors, fmt.Sprintf("Row %d: back is empty", line))
		case len(front) > 2000 || len(back) > 2000:
			parsed.Errors = append(parsed.Errors, fmt.Sprintf("Row %d: card text is too long", line))
		default:
			parsed.Rows = append(parsed.Rows, ImportRow{Line: line, Front: front, Back: back})
		}
	}

	if len(parsed.Rows) == 0 && len(parsed.Errors) == 0 {
		return nil, common.ErrEmptyImport
	}
	return parsed, nil
}

// record: строка файла и её номер (1-based) для сообщений об ошибках.
type record struct {
	line  int
	cells []string
}

func readExcel(r io.Reader) ([]record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: не удалось открыть Excel-файл: %v", common.ErrUnsupportedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.ErrEmptyImport
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения листа %q: %w", sheets[0], err)
	}
	records := make([]record, 0, len(rows))
	for i, row := range rows {
		records = append(records, record{line: i + 1, cells: row})
	}
	return records, nil
}

func readCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ошибка чтения CSV: %v", common.ErrUnsupportedFile, err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
	return records, nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(cells[i], "\ufeff"))
}

func isHeader(front, back string) bool {
	return strings.EqualFold(front, "front") || strings.EqualFold(back, "back")
}
