//go:build ignore

// sample_deck.go создаёт xlsx-файл с карточками для проверки импорта.
// Запуск: go run scripts/sample_deck.go deck.xlsx
//
// Загрузить: curl -H "X-User-ID: me" -F file=@deck.xlsx localhost:8080/decks/<id>/import
package main

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Использование: go run scripts/sample_deck.go <файл.xlsx>")
		os.Exit(1)
	}

	rows := [][]interface{}{
		{"front", "back"},
		{"boo", "a sound ghosts make"},
		{"wisp", "a faint trace of smoke"},
		{"haunt", "to visit a place often"},
		{"spectre", "a ghost"},
		{"", "skipped: empty front"},
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			fmt.Printf("Ошибка адреса ячейки: %v\n", err)
			os.Exit(1)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			fmt.Printf("Ошибка записи строки %d: %v\n", i+1, err)
			os.Exit(1)
		}
	}

	if err := f.SaveAs(os.Args[1]); err != nil {
		fmt.Printf("Ошибка сохранения: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Записано %d строк в %s\n", len(rows), os.Args[1])
}
