package queue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uploader/internal/logger"
	"uploader/internal/models"
)

func records(n int) []models.ProductRecord {
	out := make([]models.ProductRecord, n)
	for i := range out {
		out[i] = models.ProductRecord{Name: fmt.Sprintf("Product %d", i+1), Price: float64(i + 1), SourceLine: i + 2}
	}
	return out
}

func TestEnqueue_PreservesOrderAllPending(t *testing.T) {
	q := New(logger.NewNop())
	q.Enqueue(records(5))

	snapshot := q.Snapshot()
	require.Len(t, snapshot, 5)
	for i, item := range snapshot {
		assert.Equal(t, i+1, item.Position)
		assert.Equal(t, fmt.Sprintf("Product %d", i+1), item.Record.Name)
		assert.Equal(t, models.StatusPending, item.Status)
	}
}

func TestNextPending_ClaimsInOrder(t *testing.T) {
	q := New(logger.NewNop())
	q.Enqueue(records(2))

	first, ok := q.NextPending()
	require.True(t, ok)
	assert.Equal(t, "Product 1", first.Record.Name)
	assert.Equal(t, models.StatusInProgress, first.Status)

	second, ok := q.NextPending()
	require.True(t, ok)
	assert.Equal(t, "Product 2", second.Record.Name)

	_, ok = q.NextPending()
	assert.False(t, ok)
}

func TestNextPending_MutualExclusion(t *testing.T) {
	q := New(logger.NewNop())
	q.Enqueue(records(1))

	const workers = 16
	var wg sync.WaitGroup
	claimed := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if item, ok := q.NextPending(); ok {
				claimed <- item.ID
			}
		}()
	}
	wg.Wait()
	close(claimed)

	var ids []string
	for id := range claimed {
		ids = append(ids, id)
	}
	assert.Len(t, ids, 1, "a single pending item must be claimed exactly once")
}

func TestMarkTransitions_TerminalIsSticky(t *testing.T) {
	q := New(logger.NewNop())
	q.Enqueue(records(1))

	item, ok := q.NextPending()
	require.True(t, ok)

	q.MarkSucceeded(item.ID, 42)
	got := q.Snapshot()[0]
	assert.Equal(t, models.StatusSucceeded, got.Status)
	assert.Equal(t, int64(42), got.RemoteID)

	// Terminal state must not be corrupted by late calls.
	q.MarkFailed(item.ID, "too late")
	q.MarkSucceeded(item.ID, 99)
	got = q.Snapshot()[0]
	assert.Equal(t, models.StatusSucceeded, got.Status)
	assert.Equal(t, int64(42), got.RemoteID)
	assert.Empty(t, got.FailureReason)
}

func TestMarkFailed_RecordsReason(t *testing.T) {
	q := New(logger.NewNop())
	q.Enqueue(records(1))

	item, _ := q.NextPending()
	q.MarkFailed(item.ID, "connection refused")

	got := q.Snapshot()[0]
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Equal(t, "connection refused", got.FailureReason)
}

func TestAddWarning(t *testing.T) {
	q := New(logger.NewNop())
	q.Enqueue(records(1))

	item, _ := q.NextPending()
	q.AddWarning(item.ID, "image upload failed")
	q.MarkSucceeded(item.ID, 7)

	got := q.Snapshot()[0]
	assert.Equal(t, models.StatusSucceeded, got.Status)
	assert.Equal(t, []string{"image upload failed"}, got.Warnings)
}

func TestSnapshot_IsACopy(t *testing.T) {
	q := New(logger.NewNop())
	q.Enqueue(records(1))

	snapshot := q.Snapshot()
	snapshot[0].Status = models.StatusFailed
	snapshot[0].Warnings = append(snapshot[0].Warnings, "mutated")

	got := q.Snapshot()[0]
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Empty(t, got.Warnings)
}

func TestStats(t *testing.T) {
	q := New(logger.NewNop())
	q.Enqueue(records(4))

	a, _ := q.NextPending()
	b, _ := q.NextPending()
	c, _ := q.NextPending()
	q.MarkSucceeded(a.ID, 1)
	q.MarkFailed(b.ID, "boom")
	_ = c // stays InProgress

	stats := q.Stats()
	assert.Equal(t, Stats{Total: 4, Pending: 1, InProgress: 1, Succeeded: 1, Failed: 1}, stats)
}
