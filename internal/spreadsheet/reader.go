package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"uploader/internal/logger"
	"uploader/internal/models"
)

// requiredColumns must all be present in the header row; the remaining
// columns of Header are optional.
var requiredColumns = []string{"name", "price"}

// ReadProducts loads every data row of the workbook into raw ProductRows.
// No field validation happens here; rows come back exactly as typed so the
// validator can report per-cell errors with line numbers.
func ReadProducts(path string, log *logger.Logger) ([]models.ProductRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var products []models.ProductRow
	for i, cells := range rows[1:] {
		if blankRow(cells) {
			continue
		}
		line := i + 2 // 1-based, header on line 1
		products = append(products, models.ProductRow{
			Line:          line,
			Name:          cellAt(cells, columns, "name"),
			Price:         cellAt(cells, columns, "price"),
			Categories:    cellAt(cells, columns, "categories"),
			Description:   cellAt(cells, columns, "description"),
			StockQuantity: cellAt(cells, columns, "stock_quantity"),
			SKU:           cellAt(cells, columns, "sku"),
			ImagesPath:    cellAt(cells, columns, "images_path"),
		})
	}

	log.Info("Read %d product rows from %s", len(products), path)
	return products, nil
}

// mapColumns normalizes header names and returns column name -> index.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			columns[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func cellAt(cells []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
