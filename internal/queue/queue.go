package queue

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"uploader/internal/logger"
	"uploader/internal/models"
)

// Queue is the ordered set of items awaiting upload. It is the only shared
// mutable structure of the pipeline; every status transition goes through
// its methods under a single mutex so 1..N workers stay consistent.
type Queue struct {
	mu     sync.Mutex
	items  []*models.QueueItem
	byID   map[string]*models.QueueItem
	logger *logger.Logger
}

type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
}

func New(log *logger.Logger) *Queue {
	return &Queue{
		byID:   make(map[string]*models.QueueItem),
		logger: log,
	}
}

// Enqueue appends one Pending item per record, preserving record order.
func (q *Queue) Enqueue(records []models.ProductRecord) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, record := range records {
		item := &models.QueueItem{
			ID:        uuid.New().String(),
			Position:  len(q.items) + 1,
			Record:    record,
			Status:    models.StatusPending,
			UpdatedAt: time.Now(),
		}
		q.items = append(q.items, item)
		q.byID[item.ID] = item
	}
}

// NextPending claims the earliest Pending item, marking it InProgress
// atomically. The claim is exclusive: no two callers ever receive the same
// item. Returns false when nothing is pending.
func (q *Queue) NextPending() (models.QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, item := range q.items {
		if item.Status == models.StatusPending {
			item.Status = models.StatusInProgress
			item.UpdatedAt = time.Now()
			return copyItem(item), true
		}
	}
	return models.QueueItem{}, false
}

// MarkSucceeded moves an InProgress item to Succeeded and records the
// remote product ID. Calling it on an already-terminal item is a no-op.
func (q *Queue) MarkSucceeded(id string, remoteID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.byID[id]
	if !ok {
		q.logger.Warn("MarkSucceeded: unknown item %s", id)
		return
	}
	if item.Status.Terminal() {
		q.logger.Warn("MarkSucceeded: item %s already %s", id, item.Status)
		return
	}
	item.Status = models.StatusSucceeded
	item.RemoteID = remoteID
	item.UpdatedAt = time.Now()
}

// MarkFailed moves an InProgress item to Failed with a reason. Calling it
// on an already-terminal item is a no-op.
func (q *Queue) MarkFailed(id string, reason string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.byID[id]
	if !ok {
		q.logger.Warn("MarkFailed: unknown item %s", id)
		return
	}
	if item.Status.Terminal() {
		q.logger.Warn("MarkFailed: item %s already %s", id, item.Status)
		return
	}
	item.Status = models.StatusFailed
	item.FailureReason = reason
	item.UpdatedAt = time.Now()
}

// AddWarning attaches a non-fatal note to an item, e.g. a partial image
// upload on an otherwise successful product creation.
func (q *Queue) AddWarning(id string, warning string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.byID[id]
	if !ok {
		q.logger.Warn("AddWarning: unknown item %s", id)
		return
	}
	item.Warnings = append(item.Warnings, warning)
	item.UpdatedAt = time.Now()
}

// Get returns a copy of a single item by ID.
func (q *Queue) Get(id string) (models.QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.byID[id]
	if !ok {
		return models.QueueItem{}, false
	}
	return copyItem(item), true
}

// Snapshot returns copies of every item in insertion order. Safe to call
// from the presentation side at any time; the critical section only copies.
func (q *Queue) Snapshot() []models.QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]models.QueueItem, len(q.items))
	for i, item := range q.items {
		out[i] = copyItem(item)
	}
	return out
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := Stats{Total: len(q.items)}
	for _, item := range q.items {
		switch item.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusSucceeded:
			s.Succeeded++
		case models.StatusFailed:
			s.Failed++
		}
	}
	return s
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func copyItem(item *models.QueueItem) models.QueueItem {
	out := *item
	if len(item.Warnings) > 0 {
		out.Warnings = append([]string(nil), item.Warnings...)
	}
	return out
}
