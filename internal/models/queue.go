package models

import "time"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// QueueItem wraps one ProductRecord with its upload state. Items are owned
// by the queue; workers only ever see copies and mutate through the queue.
type QueueItem struct {
	ID            string
	Position      int // insertion order, equals spreadsheet order
	Record        ProductRecord
	Status        Status
	RemoteID      int64 // product ID assigned by the store on success
	FailureReason string
	Warnings      []string
	UpdatedAt     time.Time
}
