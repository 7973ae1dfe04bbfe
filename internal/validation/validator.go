package validation

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"uploader/internal/logger"
	"uploader/internal/models"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
}

// FieldError names the offending column and what was wrong with it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result is the outcome of validating a single row: either a typed record
// or the collected field errors.
type Result struct {
	Line   int
	Record *models.ProductRecord
	Errors []FieldError
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

type Validator struct {
	logger *logger.Logger
}

func New(log *logger.Logger) *Validator {
	return &Validator{logger: log}
}

// ValidateRows checks every row independently and in order. One bad row
// never stops the rest; all field errors for a row are collected.
func (v *Validator) ValidateRows(rows []models.ProductRow) []Result {
	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, v.validateRow(row))
	}
	return results
}

func (v *Validator) validateRow(row models.ProductRow) Result {
	result := Result{Line: row.Line}
	record := models.ProductRecord{SourceLine: row.Line}

	record.Name = strings.TrimSpace(row.Name)
	if record.Name == "" {
		result.Errors = append(result.Errors, FieldError{"name", "required"})
	}

	price := strings.TrimSpace(row.Price)
	if price == "" {
		result.Errors = append(result.Errors, FieldError{"price", "required"})
	} else if parsed, err := strconv.ParseFloat(price, 64); err != nil {
		result.Errors = append(result.Errors, FieldError{"price", fmt.Sprintf("not a number: %q", price)})
	} else if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		result.Errors = append(result.Errors, FieldError{"price", fmt.Sprintf("not a finite number: %q", price)})
	} else if parsed < 0 {
		result.Errors = append(result.Errors, FieldError{"price", "must be non-negative"})
	} else {
		record.Price = parsed
	}

	if stock := strings.TrimSpace(row.StockQuantity); stock != "" {
		parsed, err := strconv.Atoi(stock)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, FieldError{"stock_quantity", fmt.Sprintf("not an integer: %q", stock)})
		case parsed < 0:
			result.Errors = append(result.Errors, FieldError{"stock_quantity", "must be non-negative"})
		default:
			record.StockQuantity = parsed
		}
	}

	record.Categories = splitList(row.Categories)
	record.Description = strings.TrimSpace(row.Description)
	record.SKU = strings.TrimSpace(row.SKU)

	images, imageErrors := v.resolveImages(row.ImagesPath)
	record.Images = images
	result.Errors = append(result.Errors, imageErrors...)

	if len(result.Errors) == 0 {
		result.Record = &record
	} else {
		v.logger.Debug("Row %d invalid: %v", row.Line, result.Errors)
	}
	return result
}

// resolveImages expands an images_path cell into concrete image files.
// Each entry may be a single image file or a directory holding images.
func (v *Validator) resolveImages(cell string) ([]string, []FieldError) {
	var images []string
	var errs []FieldError

	for _, path := range splitList(cell) {
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, FieldError{"images_path", fmt.Sprintf("file not found: %s", path)})
			continue
		}

		if info.IsDir() {
			found, err := imagesInDirectory(path)
			if err != nil {
				errs = append(errs, FieldError{"images_path", fmt.Sprintf("cannot read directory: %s", path)})
				continue
			}
			if len(found) == 0 {
				errs = append(errs, FieldError{"images_path", fmt.Sprintf("no image files in directory: %s", path)})
				continue
			}
			images = append(images, found...)
			continue
		}

		if !IsImageFile(path) {
			errs = append(errs, FieldError{"images_path", fmt.Sprintf("not an image file: %s", path)})
			continue
		}
		images = append(images, path)
	}

	return images, errs
}

func imagesInDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if IsImageFile(path) {
			images = append(images, path)
		}
	}
	sort.Strings(images)
	return images, nil
}

// IsImageFile reports whether path has a supported image extension.
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// splitList splits a cell on ; or , and drops empty entries.
func splitList(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ';' || r == ','
	})

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
