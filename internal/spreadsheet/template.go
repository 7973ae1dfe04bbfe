package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"uploader/internal/logger"
)

const SheetName = "Products"

// Header is the fixed column set of the import format, in file order.
var Header = []string{
	"name",
	"price",
	"categories",
	"description",
	"stock_quantity",
	"sku",
	"images_path",
}

// WriteTemplate writes an empty import template to path. An existing file
// at path is overwritten deterministically; a destination that cannot be
// written surfaces the I/O error unchanged.
func WriteTemplate(path string, log *logger.Logger) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, col := range Header {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	samples := [][]interface{}{
		{"Wireless Headphones", "99.99", "Electronics", "Premium wireless headphones with noise cancellation", 10, "WH-2024-BLK", "/images/headphones/front.jpg;/images/headphones/side.jpg"},
		{"Ceramic Mug", "9.99", "Kitchen; Gifts", "Hand-glazed 350ml ceramic mug", 25, "MUG-001", "/images/mugs"},
	}
	for i, sample := range samples {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(SheetName, cell, &sample); err != nil {
			return fmt.Errorf("failed to write sample row: %w", err)
		}
	}

	if err := writeInstructions(f); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	log.Info("Template created: %s", path)
	return nil
}

func writeInstructions(f *excelize.File) error {
	const sheet = "Instructions"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create instructions sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Column", "Required", "Description"},
		{"name", "Yes", "Product name"},
		{"price", "Yes", "Non-negative decimal, no currency symbols"},
		{"categories", "No", "Category names separated by ; or , (store default used when empty)"},
		{"description", "No", "Product description (HTML supported)"},
		{"stock_quantity", "No", "Non-negative integer, defaults to 0"},
		{"sku", "No", "Stock keeping unit"},
		{"images_path", "No", "Image file or directory paths separated by ; or ,"},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write instructions: %w", err)
		}
	}
	return nil
}
