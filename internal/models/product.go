package models

// ProductRow holds the raw cell values of one spreadsheet line. Everything
// stays a string until validation turns it into a ProductRecord.
type ProductRow struct {
	Line          int // 1-based spreadsheet line, header included
	Name          string
	Price         string
	Categories    string
	Description   string
	StockQuantity string
	SKU           string
	ImagesPath    string
}

// ProductRecord is the validated, typed form of a row. Records are never
// mutated after validation; upload state lives on the QueueItem instead.
type ProductRecord struct {
	Name          string
	Price         float64
	Categories    []string
	Description   string
	StockQuantity int
	SKU           string
	Images        []string
	SourceLine    int
}
