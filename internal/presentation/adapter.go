package presentation

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"uploader/internal/models"
)

// DisplayRow is one queue item flattened for rendering. Rows are keyed by
// item ID, not position: under concurrent upload completion order differs
// from list order and consumers must not rely on index.
type DisplayRow struct {
	ItemID   string `json:"item_id"`
	Position int    `json:"position"`
	Line     int    `json:"line"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Price    string `json:"price"`
	Status   string `json:"status"`
	RemoteID int64  `json:"remote_id,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// FromSnapshot converts a queue snapshot into display rows, insertion
// order preserved.
func FromSnapshot(items []models.QueueItem) []DisplayRow {
	rows := make([]DisplayRow, len(items))
	for i, item := range items {
		rows[i] = DisplayRow{
			ItemID:   item.ID,
			Position: item.Position,
			Line:     item.Record.SourceLine,
			Name:     item.Record.Name,
			SKU:      item.Record.SKU,
			Price:    strconv.FormatFloat(item.Record.Price, 'f', 2, 64),
			Status:   string(item.Status),
			RemoteID: item.RemoteID,
			Detail:   detail(item),
		}
	}
	return rows
}

func detail(item models.QueueItem) string {
	switch {
	case item.FailureReason != "":
		return item.FailureReason
	case len(item.Warnings) > 0:
		return strings.Join(item.Warnings, "; ")
	default:
		return ""
	}
}

// RenderTable writes the rows as an aligned text table.
func RenderTable(w io.Writer, rows []DisplayRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSKU\tPRICE\tSTATUS\tREMOTE ID\tDETAIL")
	for _, row := range rows {
		remote := ""
		if row.RemoteID > 0 {
			remote = strconv.FormatInt(row.RemoteID, 10)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Position, row.Name, row.SKU, row.Price, row.Status, remote, truncate(row.Detail, 60))
	}
	tw.Flush()
}

// truncate shortens s to max runes. Counting runes keeps multi-byte
// characters in failure reasons intact.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
