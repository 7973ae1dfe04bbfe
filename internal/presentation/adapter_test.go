package presentation

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uploader/internal/models"
)

func snapshot() []models.QueueItem {
	return []models.QueueItem{
		{
			ID:       "item-1",
			Position: 1,
			Record:   models.ProductRecord{Name: "Mug", SKU: "MUG-1", Price: 9.99, SourceLine: 2},
			Status:   models.StatusSucceeded,
			RemoteID: 42,
		},
		{
			ID:            "item-2",
			Position:      2,
			Record:        models.ProductRecord{Name: "Lamp", Price: 25, SourceLine: 3},
			Status:        models.StatusFailed,
			FailureReason: "invalid sku",
		},
		{
			ID:       "item-3",
			Position: 3,
			Record:   models.ProductRecord{Name: "Chair", Price: 120, SourceLine: 4},
			Status:   models.StatusSucceeded,
			RemoteID: 43,
			Warnings: []string{"image upload failed: media endpoint down"},
		},
	}
}

func TestFromSnapshot(t *testing.T) {
	rows := FromSnapshot(snapshot())
	require.Len(t, rows, 3)

	assert.Equal(t, "item-1", rows[0].ItemID)
	assert.Equal(t, "9.99", rows[0].Price)
	assert.Equal(t, "SUCCEEDED", rows[0].Status)
	assert.Equal(t, int64(42), rows[0].RemoteID)
	assert.Empty(t, rows[0].Detail)

	// Failed and uploaded rows are clearly distinguished by status + detail.
	assert.Equal(t, "FAILED", rows[1].Status)
	assert.Equal(t, "invalid sku", rows[1].Detail)

	assert.Equal(t, "SUCCEEDED", rows[2].Status)
	assert.Contains(t, rows[2].Detail, "image upload failed")
}

func TestTruncate_KeepsMultiByteRunesIntact(t *testing.T) {
	long := strings.Repeat("ü", 40)
	got := truncate(long, 20)

	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.Equal(t, strings.Repeat("ü", 17)+"...", got)

	// Short strings pass through untouched even when multi-byte.
	assert.Equal(t, "prix invalide: 9,99€", truncate("prix invalide: 9,99€", 60))
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, FromSnapshot(snapshot()))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Mug")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "invalid sku")
}
