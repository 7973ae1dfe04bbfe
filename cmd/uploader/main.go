package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"uploader/internal/api"
	"uploader/internal/bulk"
	"uploader/internal/categories"
	"uploader/internal/config"
	"uploader/internal/connectors/woocommerce"
	"uploader/internal/connectors/wordpress"
	"uploader/internal/database"
	"uploader/internal/logger"
	"uploader/internal/models"
	"uploader/internal/presentation"
	"uploader/internal/queue"
	"uploader/internal/services/ai"
	"uploader/internal/spreadsheet"
	"uploader/internal/validation"
	"uploader/internal/worker"
)

const usage = `Usage: uploader <command> [options]

Commands:
  template    write an empty spreadsheet template
  validate    validate a spreadsheet (-f) or a product folder tree (-dir)
  upload      validate, queue and upload products to the store
  categories  list the store's category tree
  history     show recent upload history (requires DATABASE_URL)
  suggest     generate AI product title suggestions
`

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logg := logger.New(cfg.LogLevel)
	defer logg.Sync()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "template":
		runTemplate(cfg, logg, os.Args[2:])
	case "validate":
		runValidate(cfg, logg, os.Args[2:])
	case "upload":
		runUpload(cfg, logg, os.Args[2:])
	case "categories":
		runCategories(cfg, logg)
	case "history":
		runHistory(cfg, logg, os.Args[2:])
	case "suggest":
		runSuggest(cfg, logg, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runTemplate(cfg *config.Config, logg *logger.Logger, args []string) {
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	output := fs.String("o", "product_template.xlsx", "destination path")
	fs.Parse(args)

	if err := spreadsheet.WriteTemplate(*output, logg); err != nil {
		logg.Fatal("Failed to write template: %v", err)
	}
	fmt.Println("Template written to", *output)
}

func runValidate(cfg *config.Config, logg *logger.Logger, args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	file := fs.String("f", "", "spreadsheet to validate")
	dir := fs.String("dir", "", "parent directory of product folders to validate")
	fs.Parse(args)

	records, invalid := loadAndValidate(loadRows(*file, *dir, "validate", logg), logg)
	withImages := 0
	for _, r := range records {
		if len(r.Images) > 0 {
			withImages++
		}
	}
	fmt.Printf("%d valid (%d with images), %d invalid row(s)\n", len(records), withImages, invalid)
	if invalid > 0 {
		os.Exit(1)
	}
}

func runUpload(cfg *config.Config, logg *logger.Logger, args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	file := fs.String("f", "", "spreadsheet to upload")
	dir := fs.String("dir", "", "parent directory of product folders to upload")
	concurrency := fs.Int("c", cfg.Concurrency, "number of upload workers")
	serve := fs.Bool("serve", false, "expose the queue status over HTTP while uploading")
	batchID := fs.String("batch", "", "batch ID for the upload history (random when empty)")
	fs.Parse(args)

	if err := cfg.ValidateStore(); err != nil {
		logg.Fatal("Configuration error: %v", err)
	}

	wcClient := woocommerce.NewClient(cfg, logg)
	if err := wcClient.TestConnection(context.Background()); err != nil {
		logg.Fatal("Store connection check failed: %v", err)
	}

	records, invalid := loadAndValidate(loadRows(*file, *dir, "upload", logg), logg)
	if len(records) == 0 {
		logg.Fatal("No valid rows to upload (%d invalid)", invalid)
	}
	if invalid > 0 {
		logg.Warn("Skipping %d invalid row(s)", invalid)
	}

	q := queue.New(logg)
	q.Enqueue(records)

	resolver := categories.NewResolver(wcClient, cfg.DefaultCategoryID, logg)

	var images worker.ImageUploader
	if hasImages(records) {
		if err := cfg.ValidateMedia(); err != nil {
			logg.Fatal("Configuration error: %v", err)
		}
		wpClient := wordpress.NewClient(cfg, logg)
		images = worker.NewProductImageUploader(wpClient, wcClient, logg)
	}

	w := worker.New(cfg, logg, q, wcClient, images, resolver)
	if assistant := ai.New(cfg, logg); assistant.Available() {
		w.WithAssistant(assistant)
	}
	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			logg.Fatal("Failed to open history database: %v", err)
		}
		defer db.Close()
		id := *batchID
		if id == "" {
			id = uuid.New().String()
		}
		w.WithHistory(db, id)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop claiming new items on interrupt; in-flight items finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logg.Info("Cancellation requested, finishing in-flight items...")
		cancel()
	}()

	var statusServer *api.Server
	if *serve {
		statusServer = api.New(cfg, logg, q)
		go func() {
			if err := statusServer.Start(); err != nil && err != http.ErrServerClosed {
				logg.Error("Status server error: %v", err)
			}
		}()
		defer statusServer.Stop(context.Background())
	}

	summary := w.Run(ctx, *concurrency)

	presentation.RenderTable(os.Stdout, presentation.FromSnapshot(q.Snapshot()))
	fmt.Printf("\n%d succeeded, %d failed, %d pending, %d warning(s) in %s\n",
		summary.Succeeded, summary.Failed, summary.Pending, summary.Warnings, summary.Duration.Round(time.Millisecond))
	if summary.SystemicAuthFailure {
		fmt.Println("Stopped early: the store rejected our credentials repeatedly. Check WC_CONSUMER_KEY/WC_CONSUMER_SECRET.")
	}
	if summary.Failed > 0 || summary.SystemicAuthFailure {
		os.Exit(1)
	}
}

func runCategories(cfg *config.Config, logg *logger.Logger) {
	if err := cfg.ValidateStore(); err != nil {
		logg.Fatal("Configuration error: %v", err)
	}

	wcClient := woocommerce.NewClient(cfg, logg)
	resolver := categories.NewResolver(wcClient, cfg.DefaultCategoryID, logg)

	lines, err := resolver.Tree(context.Background())
	if err != nil {
		logg.Fatal("Failed to fetch categories: %v", err)
	}
	for _, line := range lines {
		fmt.Println(line)
	}
}

func runHistory(cfg *config.Config, logg *logger.Logger, args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 20, "number of rows to show")
	fs.Parse(args)

	if cfg.DatabaseURL == "" {
		logg.Fatal("history: DATABASE_URL is not configured")
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logg.Fatal("Failed to open history database: %v", err)
	}
	defer db.Close()

	records, err := db.RecentUploads(*limit)
	if err != nil {
		logg.Fatal("Failed to read history: %v", err)
	}
	for _, rec := range records {
		fmt.Printf("%s  %-10s  %-30s  remote=%d  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Status, rec.Name, rec.RemoteID, rec.Reason)
	}
}

func runSuggest(cfg *config.Config, logg *logger.Logger, args []string) {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	prompt := fs.String("p", "", "what the product is")
	count := fs.Int("n", 3, "number of titles")
	fs.Parse(args)
	if *prompt == "" {
		logg.Fatal("suggest: -p <prompt> is required")
	}

	assistant := ai.New(cfg, logg)
	if !assistant.Available() {
		logg.Fatal("suggest: OPENAI_API_KEY is not configured")
	}

	titles, err := assistant.GenerateTitles(context.Background(), *prompt, *count)
	if err != nil {
		logg.Fatal("Title generation failed: %v", err)
	}
	for i, title := range titles {
		fmt.Printf("%d. %s\n", i+1, title)
	}
}

// loadRows reads raw product rows from either a spreadsheet or a parent
// directory of product folders. Exactly one of the two must be given.
func loadRows(file, dir, command string, logg *logger.Logger) []models.ProductRow {
	switch {
	case file != "" && dir != "":
		logg.Fatal("%s: -f and -dir are mutually exclusive", command)
	case file != "":
		rows, err := spreadsheet.ReadProducts(file, logg)
		if err != nil {
			logg.Fatal("Failed to read spreadsheet: %v", err)
		}
		return rows
	case dir != "":
		rows, err := bulk.NewScanner(logg).Scan(dir)
		if err != nil {
			logg.Fatal("Failed to scan directory: %v", err)
		}
		return rows
	default:
		logg.Fatal("%s: either -f <file.xlsx> or -dir <folder> is required", command)
	}
	return nil
}

// loadAndValidate validates every row and prints the errors of invalid
// rows. Returns the valid records in input order.
func loadAndValidate(rows []models.ProductRow, logg *logger.Logger) ([]models.ProductRecord, int) {
	var records []models.ProductRecord
	var invalid int
	for _, result := range validation.New(logg).ValidateRows(rows) {
		if result.Valid() {
			records = append(records, *result.Record)
			continue
		}
		invalid++
		var fields []string
		for _, fieldErr := range result.Errors {
			fields = append(fields, fieldErr.Error())
		}
		fmt.Printf("row %d: %s\n", result.Line, strings.Join(fields, "; "))
	}
	return records, invalid
}

func hasImages(records []models.ProductRecord) bool {
	for _, r := range records {
		if len(r.Images) > 0 {
			return true
		}
	}
	return false
}
