package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uploader/internal/models"
)

func testDB(t *testing.T) *Database {
	t.Helper()
	db, err := New("sqlite://" + filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndListUploads(t *testing.T) {
	db := testDB(t)

	items := []models.QueueItem{
		{
			Record:   models.ProductRecord{Name: "Mug", SKU: "MUG-1", Price: 9.99},
			Status:   models.StatusSucceeded,
			RemoteID: 42,
		},
		{
			Record:        models.ProductRecord{Name: "Lamp", Price: 25},
			Status:        models.StatusFailed,
			FailureReason: "invalid sku",
		},
	}
	for _, item := range items {
		require.NoError(t, db.RecordUpload("batch-1", item))
	}

	records, err := db.RecentUploads(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byName := make(map[string]models.UploadRecord)
	for _, rec := range records {
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, "batch-1", rec.BatchID)
		byName[rec.Name] = rec
	}
	assert.Equal(t, int64(42), byName["Mug"].RemoteID)
	assert.Equal(t, string(models.StatusSucceeded), byName["Mug"].Status)
	assert.Equal(t, "invalid sku", byName["Lamp"].Reason)
}

func TestRecentUploads_Limit(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.RecordUpload("batch-1", models.QueueItem{
			Record: models.ProductRecord{Name: "P"},
			Status: models.StatusSucceeded,
		}))
	}

	records, err := db.RecentUploads(3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
