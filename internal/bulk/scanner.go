package bulk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"uploader/internal/logger"
	"uploader/internal/models"
	"uploader/internal/validation"
)

// Scanner reads a parent directory of product folders into raw rows.
//
// Expected layout, one folder per product:
//
//	parent/
//	  SomeProduct/
//	    title.txt
//	    description.txt
//	    price.txt
//	    sku.txt        (optional)
//	    images/        (optional; images may also sit in the folder itself)
//
// Rows come back in folder-name order and go through the same validation
// as spreadsheet rows.
type Scanner struct {
	logger *logger.Logger
}

func NewScanner(log *logger.Logger) *Scanner {
	return &Scanner{logger: log}
}

// Scan walks every subdirectory of dir. Folders missing a required file
// are skipped with a warning; only an unreadable parent directory fails
// the scan.
func (s *Scanner) Scan(dir string) ([]models.ProductRow, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var rows []models.ProductRow
	skipped := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		row, err := s.readProductFolder(filepath.Join(dir, entry.Name()))
		if err != nil {
			skipped++
			s.logger.Warn("Skipping folder %s: %v", entry.Name(), err)
			continue
		}
		row.Line = len(rows) + 1
		rows = append(rows, row)
	}

	s.logger.Info("Scanned %d product folder(s), skipped %d", len(rows), skipped)
	return rows, nil
}

func (s *Scanner) readProductFolder(folder string) (models.ProductRow, error) {
	for _, name := range []string{"title.txt", "description.txt", "price.txt"} {
		if _, err := os.Stat(filepath.Join(folder, name)); err != nil {
			return models.ProductRow{}, fmt.Errorf("missing required file %s", name)
		}
	}

	row := models.ProductRow{
		Name:        readTextFile(filepath.Join(folder, "title.txt")),
		Description: readTextFile(filepath.Join(folder, "description.txt")),
		Price:       cleanPrice(readTextFile(filepath.Join(folder, "price.txt"))),
		SKU:         readTextFile(filepath.Join(folder, "sku.txt")),
	}
	if row.Name == "" {
		return models.ProductRow{}, fmt.Errorf("title.txt is empty")
	}
	if row.Price == "" {
		return models.ProductRow{}, fmt.Errorf("price.txt is empty")
	}

	// Prefer a dedicated images/ subfolder; fall back to images sitting
	// next to the text files. A product without images is still valid.
	if imagesDir := filepath.Join(folder, "images"); hasImages(imagesDir) {
		row.ImagesPath = imagesDir
	} else if hasImages(folder) {
		row.ImagesPath = folder
	}
	return row, nil
}

func readTextFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// cleanPrice strips a leading currency symbol so "$9.99" in price.txt
// parses like "9.99" in a spreadsheet cell.
func cleanPrice(price string) string {
	return strings.TrimSpace(strings.TrimLeft(price, "$€£"))
}

func hasImages(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && validation.IsImageFile(entry.Name()) {
			return true
		}
	}
	return false
}
