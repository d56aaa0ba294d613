package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// DiscountSheet is a header row plus one valid discount row.
func DiscountSheet() [][]interface{} {
	return [][]interface{}{
		{"Название", "Тип", "Вид оплаты", "Скидка МПП", "Скидка РОП"},
		{"Alpha", "Studio", "Cash", 0.12, 0.06},
	}
}

// WorkbookBytes encodes rows into Sheet1 of a new workbook.
func WorkbookBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := newWorkbook(t, rows)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to encode workbook: %v", err)
	}
	return buf.Bytes()
}

// WriteWorkbook saves rows into a workbook under a temp dir and returns its path.
func WriteWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := newWorkbook(t, rows)
	defer f.Close()

	path := filepath.Join(t.TempDir(), "discounts.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
	return path
}

func newWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("Bad cell coordinates: %v", err)
			}
			if err := f.SetCellValue("Sheet1", axis, v); err != nil {
				t.Fatalf("Failed to set %s: %v", axis, err)
			}
		}
	}
	return f
}
