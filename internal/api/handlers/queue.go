package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"uploader/internal/logger"
	"uploader/internal/presentation"
	"uploader/internal/queue"
)

type QueueHandler struct {
	queue  *queue.Queue
	logger *logger.Logger
}

func NewQueueHandler(q *queue.Queue, log *logger.Logger) *QueueHandler {
	return &QueueHandler{
		queue:  q,
		logger: log,
	}
}

// List returns the queue snapshot as display rows.
func (h *QueueHandler) List(c *gin.Context) {
	rows := presentation.FromSnapshot(h.queue.Snapshot())
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// Stats returns the aggregate queue counters.
func (h *QueueHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.queue.Stats()})
}
