package worker

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"uploader/internal/config"
	"uploader/internal/connectors/woocommerce"
	"uploader/internal/database"
	"uploader/internal/logger"
	"uploader/internal/models"
	"uploader/internal/queue"
	"uploader/internal/services/ai"
)

// authFailureThreshold is how many consecutive credential rejections flip
// the batch into systemic-auth mode and stop further claims.
const authFailureThreshold = 3

// ProductCreator creates a product on the store.
type ProductCreator interface {
	CreateProduct(ctx context.Context, payload *woocommerce.ProductPayload) (*woocommerce.Product, error)
}

// ImageUploader associates local image files with a created product.
type ImageUploader interface {
	UploadImages(ctx context.Context, productID int64, paths []string) error
}

// CategoryResolver maps category names to remote IDs, with a default
// fallback. It never fails an item.
type CategoryResolver interface {
	Resolve(ctx context.Context, names []string) []int
}

// Worker drains the queue with 1..N goroutines. Item failures never stop
// sibling items; only cancellation or systemic auth failure ends the run
// early, leaving unclaimed items Pending so the queue stays resumable.
type Worker struct {
	config     *config.Config
	logger     *logger.Logger
	queue      *queue.Queue
	products   ProductCreator
	images     ImageUploader
	categories CategoryResolver

	// optional collaborators, may be nil
	assistant *ai.Assistant
	history   *database.Database
	batchID   string

	consecutiveAuth atomic.Int32
	authStop        atomic.Bool
}

// Summary is what a finished (or stopped) run looks like in aggregate.
type Summary struct {
	Total               int
	Succeeded           int
	Failed              int
	Pending             int
	Warnings            int
	SystemicAuthFailure bool
	Duration            time.Duration
}

func New(cfg *config.Config, log *logger.Logger, q *queue.Queue, products ProductCreator, images ImageUploader, categories CategoryResolver) *Worker {
	return &Worker{
		config:     cfg,
		logger:     log,
		queue:      q,
		products:   products,
		images:     images,
		categories: categories,
	}
}

// WithAssistant enables AI description enrichment for records that have an
// empty description.
func (w *Worker) WithAssistant(assistant *ai.Assistant) *Worker {
	w.assistant = assistant
	return w
}

// WithHistory records every finished item to the upload history.
func (w *Worker) WithHistory(db *database.Database, batchID string) *Worker {
	w.history = db
	w.batchID = batchID
	return w
}

// Run processes the queue until it drains, the context is cancelled, or
// systemic auth failure is detected. Items already InProgress finish;
// everything still Pending is left untouched.
func (w *Worker) Run(ctx context.Context, concurrency int) Summary {
	if concurrency < 1 {
		concurrency = 1
	}

	start := time.Now()
	w.logger.Info("Starting upload with %d worker(s), %d item(s) queued", concurrency, w.queue.Len())

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.drain(ctx)
		}()
	}
	wg.Wait()

	stats := w.queue.Stats()
	summary := Summary{
		Total:               stats.Total,
		Succeeded:           stats.Succeeded,
		Failed:              stats.Failed,
		Pending:             stats.Pending,
		SystemicAuthFailure: w.authStop.Load(),
		Duration:            time.Since(start),
	}
	for _, item := range w.queue.Snapshot() {
		summary.Warnings += len(item.Warnings)
	}

	w.logger.Info("Upload finished: %d succeeded, %d failed, %d pending in %s",
		summary.Succeeded, summary.Failed, summary.Pending, summary.Duration.Round(time.Millisecond))
	return summary
}

func (w *Worker) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil || w.authStop.Load() {
			return
		}

		item, ok := w.queue.NextPending()
		if !ok {
			return
		}
		w.process(ctx, item)
	}
}

func (w *Worker) process(ctx context.Context, item models.QueueItem) {
	record := item.Record
	w.logger.Info("Uploading %q (row %d)", record.Name, record.SourceLine)

	description := record.Description
	if description == "" && w.assistant != nil && w.assistant.Available() {
		generated, err := w.assistant.GenerateDescription(ctx, record.Name)
		if err != nil {
			w.logger.Warn("AI description for %q failed: %v", record.Name, err)
		} else {
			description = generated
		}
	}

	payload := &woocommerce.ProductPayload{
		Name:          record.Name,
		Type:          "simple",
		RegularPrice:  strconv.FormatFloat(record.Price, 'f', 2, 64),
		Description:   description,
		SKU:           record.SKU,
		ManageStock:   record.StockQuantity > 0,
		StockQuantity: record.StockQuantity,
	}
	for _, id := range w.categories.Resolve(ctx, record.Categories) {
		payload.Categories = append(payload.Categories, woocommerce.CategoryRef{ID: id})
	}

	reqCtx, cancel := context.WithTimeout(ctx, w.config.RequestTimeout)
	product, err := w.products.CreateProduct(reqCtx, payload)
	cancel()

	if err != nil {
		w.trackAuthFailure(err)
		w.queue.MarkFailed(item.ID, err.Error())
		w.recordHistory(item.ID)
		w.logger.Error("Failed to create %q: %v", record.Name, err)
		return
	}
	w.consecutiveAuth.Store(0)

	if len(record.Images) > 0 && w.images != nil {
		if err := w.images.UploadImages(ctx, product.ID, record.Images); err != nil {
			// Partial success: the product exists, the images do not.
			w.queue.AddWarning(item.ID, "image upload failed: "+err.Error())
			w.logger.Warn("Image upload for %q failed: %v", record.Name, err)
		}
	}

	w.queue.MarkSucceeded(item.ID, product.ID)
	w.recordHistory(item.ID)
	w.logger.Info("Created %q as product %d", record.Name, product.ID)
}

func (w *Worker) trackAuthFailure(err error) {
	var apiErr *woocommerce.APIError
	if !errors.As(err, &apiErr) || !apiErr.IsAuth() {
		w.consecutiveAuth.Store(0)
		return
	}
	if w.consecutiveAuth.Add(1) >= authFailureThreshold && !w.authStop.Swap(true) {
		w.logger.Error("Repeated authentication failures, stopping batch early")
	}
}

func (w *Worker) recordHistory(itemID string) {
	if w.history == nil {
		return
	}
	item, ok := w.queue.Get(itemID)
	if !ok {
		return
	}
	if err := w.history.RecordUpload(w.batchID, item); err != nil {
		w.logger.Warn("Failed to record upload history: %v", err)
	}
}
