package categories

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"uploader/internal/connectors/woocommerce"
	"uploader/internal/logger"
)

// Lister is the slice of the store client the resolver needs.
type Lister interface {
	GetCategories(ctx context.Context) ([]woocommerce.Category, error)
}

// Resolver maps free-text category names from the spreadsheet to remote
// category IDs, falling back to a configured default. The store's category
// list is fetched once and cached for the run.
type Resolver struct {
	client    Lister
	defaultID int
	logger    *logger.Logger

	mu         sync.Mutex
	byName     map[string]int
	categories []woocommerce.Category
	loaded     bool
}

func NewResolver(client Lister, defaultID int, log *logger.Logger) *Resolver {
	return &Resolver{
		client:    client,
		defaultID: defaultID,
		logger:    log,
	}
}

// Resolve returns the category IDs for the given names, case-insensitively.
// Unknown names and fetch failures fall back to the default ID; empty input
// yields just the default. Resolution never fails an upload.
func (r *Resolver) Resolve(ctx context.Context, names []string) []int {
	if err := r.load(ctx); err != nil {
		r.logger.Warn("Category fetch failed, using default category: %v", err)
		return r.defaultIDs()
	}

	var ids []int
	seen := make(map[int]bool)
	for _, name := range names {
		id, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			r.logger.Warn("Unknown category %q, using default", name)
			id = r.defaultID
		}
		if id > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return r.defaultIDs()
	}
	return ids
}

// Tree renders the store's categories as indented display lines, children
// under their parents, each with its ID.
func (r *Resolver) Tree(ctx context.Context) ([]string, error) {
	if err := r.load(ctx); err != nil {
		return nil, err
	}

	var lines []string
	var walk func(parent, depth int)
	walk = func(parent, depth int) {
		for _, cat := range r.categories {
			if cat.Parent == parent {
				indent := strings.Repeat("  ", depth)
				lines = append(lines, fmt.Sprintf("%s%s (ID: %d)", indent, cat.Name, cat.ID))
				walk(cat.ID, depth+1)
			}
		}
	}
	walk(0, 0)
	return lines, nil
}

func (r *Resolver) load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return nil
	}

	categories, err := r.client.GetCategories(ctx)
	if err != nil {
		return err
	}

	r.byName = make(map[string]int, len(categories))
	for _, cat := range categories {
		r.byName[strings.ToLower(cat.Name)] = cat.ID
	}
	r.categories = categories
	r.loaded = true
	r.logger.Info("Loaded %d store categories", len(categories))
	return nil
}

func (r *Resolver) defaultIDs() []int {
	if r.defaultID > 0 {
		return []int{r.defaultID}
	}
	return nil
}
