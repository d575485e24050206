// Package menu manages the dish catalog and keyword search over it.
// Search uses BM25 over name, category and description so partial
// queries like "lamb noodles" still rank Lagman first.
package menu

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/iwilltry42/bm25-go/bm25"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
	"github.com/fayzdev/fayz-go/internal/metrics"
	"github.com/fayzdev/fayz-go/internal/storage"
)

// Result is a ranked search hit.
type Result struct {
	Item  *storage.MenuItem `json:"item"`
	Score float64           `json:"score"`
	Rank  int               `json:"rank"`
}

// Service serves the catalog and its search index. The index is
// rebuilt after every catalog change; rebuilds are deduplicated with
// singleflight so concurrent writers trigger one rebuild.
type Service struct {
	repo       storage.MenuRepository
	metrics    *metrics.Metrics
	maxResults int

	sf singleflight.Group

	mu    sync.RWMutex
	okapi *bm25.BM25Okapi
	docs  []*storage.MenuItem // docID -> item
}

// NewService creates a menu service. maxResults caps search output.
func NewService(repo storage.MenuRepository, m *metrics.Metrics, maxResults int) *Service {
	return &Service{
		repo:       repo,
		metrics:    m,
		maxResults: maxResults,
	}
}

// Seed loads the default catalog when the database is empty, then
// builds the search index.
func (s *Service) Seed(ctx context.Context) error {
	count, err := s.repo.CountMenuItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to check menu catalog: %w", err)
	}
	if count == 0 {
		if err := s.repo.SaveMenuItemsBatch(ctx, defaultCatalog); err != nil {
			return fmt.Errorf("failed to seed menu catalog: %w", err)
		}
		slog.InfoContext(ctx, "seeded default menu catalog", "items", len(defaultCatalog))
	}

	return s.Rebuild(ctx)
}

// List returns the full catalog in display order.
func (s *Service) List(ctx context.Context) ([]*storage.MenuItem, error) {
	return s.repo.ListMenuItems(ctx)
}

// Get returns a single item by exact name.
func (s *Service) Get(ctx context.Context, name string) (*storage.MenuItem, error) {
	return s.repo.GetMenuItemByName(ctx, name)
}

// Upsert saves an item and rebuilds the index.
func (s *Service) Upsert(ctx context.Context, item *storage.MenuItem) error {
	if item.Name == "" {
		return &domerrors.ValidationError{Field: "name", Message: "item name is required"}
	}
	if item.Price < 0 {
		return &domerrors.ValidationError{Field: "price", Message: "price must not be negative"}
	}

	if err := s.repo.SaveMenuItem(ctx, item); err != nil {
		return err
	}
	return s.Rebuild(ctx)
}

// Rebuild reconstructs the BM25 index from the catalog. Concurrent
// calls share one rebuild.
func (s *Service) Rebuild(ctx context.Context) error {
	_, err, shared := s.sf.Do("rebuild", func() (interface{}, error) {
		items, err := s.repo.ListMenuItems(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load menu for indexing: %w", err)
		}

		corpus := make([]string, 0, len(items))
		docs := make([]*storage.MenuItem, 0, len(items))
		for _, item := range items {
			corpus = append(corpus, item.Name+" "+item.Category+" "+item.Description)
			docs = append(docs, item)
		}

		var okapi *bm25.BM25Okapi
		if len(corpus) > 0 {
			okapi, err = bm25.NewBM25Okapi(corpus, tokenize, 1.5, 0.75, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to build menu index: %w", err)
			}
		}

		s.mu.Lock()
		s.okapi = okapi
		s.docs = docs
		s.mu.Unlock()

		slog.DebugContext(ctx, "rebuilt menu search index", "documents", len(docs))
		return nil, nil
	})
	if shared {
		s.metrics.RecordSingleflightDedup("menu")
	}
	return err
}

// Search ranks available dishes against the query. A blank query or
// one with no usable tokens returns no results rather than an error.
func (s *Service) Search(ctx context.Context, query string) ([]Result, error) {
	tokens := tokenize(norm.NFC.String(query))
	if len(tokens) == 0 {
		s.metrics.RecordMenuSearch("empty_query")
		return nil, nil
	}

	s.mu.RLock()
	okapi := s.okapi
	docs := s.docs
	s.mu.RUnlock()

	if okapi == nil {
		s.metrics.RecordMenuSearch("empty_index")
		return nil, nil
	}

	scores, err := okapi.GetScores(tokens)
	if err != nil {
		s.metrics.RecordMenuSearch("error")
		slog.ErrorContext(ctx, "menu search scoring failed",
			"query", query,
			"error", err)
		return nil, fmt.Errorf("failed to score menu search: %w", err)
	}

	type scoredDoc struct {
		docID int
		score float64
	}
	var scored []scoredDoc
	for docID, score := range scores {
		if score > 0 && docs[docID].Available {
			scored = append(scored, scoredDoc{docID: docID, score: score})
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > s.maxResults {
		scored = scored[:s.maxResults]
	}

	results := make([]Result, 0, len(scored))
	for rank, sd := range scored {
		results = append(results, Result{
			Item:  docs[sd.docID],
			Score: sd.score,
			Rank:  rank + 1,
		})
	}

	s.metrics.RecordMenuSearch("success")
	return results, nil
}

// tokenize lowercases the text and splits it into alphanumeric runs.
// Diacritics survive; punctuation and whitespace separate tokens.
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
