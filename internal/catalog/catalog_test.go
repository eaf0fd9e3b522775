package catalog

import (
	"path/filepath"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/xuri/excelize/v2"
)

func writeCatalogWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		assert.Nil(t, err)
		assert.Nil(t, wb.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	assert.Nil(t, wb.SaveAs(path))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalogWorkbook(t, [][]interface{}{
		{"Indian Bat", "Foreign Pace", "Notes"},
		{"Player A", "Quick One", "ignored column"},
		{"Player B", "Quick Two", ""},
		{"Player C", "", ""},
		{"  Player A  ", "nan", ""}, // duplicate and placeholder rows are dropped
	})

	src, err := Load(path)
	assert.Nil(t, err)

	check.Equal(t, []string{"Indian Bat", "Foreign Pace"}, src.Categories())
	check.Equal(t, []string{"Player A", "Player B", "Player C"}, src.Players("Indian Bat"))
	check.Equal(t, 2, src.Count("Foreign Pace"))
	check.Equal(t, "Foreign Pace", src.CategoryOf("Quick One"))
	check.Equal(t, "Unknown", src.CategoryOf("Notes"))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xlsx"))
	check.Error(t, err)

	// A workbook with no recognized category headers is rejected.
	path := writeCatalogWorkbook(t, [][]interface{}{
		{"First Name", "Last Name"},
		{"A", "B"},
	})
	_, err = Load(path)
	check.Error(t, err)
}
