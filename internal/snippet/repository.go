// Package snippet implements the local snippet store: a whole-collection,
// newest-first sequence of snippets persisted under one storage key.
package snippet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/storage"
)

// ErrNotFound is returned when no snippet has the requested id.
var ErrNotFound = errors.New("snippet not found")

// Repository loads and saves the whole snippet sequence. There is no partial update.
type Repository interface {
	LoadAll(ctx context.Context) ([]models.Snippet, error)
	SaveAll(ctx context.Context, snippets []models.Snippet) error
}

// KVRepository stores the sequence as a JSON array under storage.KeySnippets.
type KVRepository struct {
	kv storage.KV
}

// NewKVRepository returns a repository backed by kv.
func NewKVRepository(kv storage.KV) *KVRepository {
	return &KVRepository{kv: kv}
}

// LoadAll returns every stored snippet, newest first. An absent key yields an empty slice.
func (r *KVRepository) LoadAll(ctx context.Context) ([]models.Snippet, error) {
	raw, ok, err := r.kv.Get(ctx, storage.KeySnippets)
	if err != nil {
		return nil, fmt.Errorf("failed to read snippets: %w", err)
	}
	if !ok || len(raw) == 0 {
		return []models.Snippet{}, nil
	}
	var out []models.Snippet
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode snippets: %w", err)
	}
	if out == nil {
		out = []models.Snippet{}
	}
	return out, nil
}

// SaveAll replaces the stored sequence.
func (r *KVRepository) SaveAll(ctx context.Context, snippets []models.Snippet) error {
	if snippets == nil {
		snippets = []models.Snippet{}
	}
	data, err := json.Marshal(snippets)
	if err != nil {
		return fmt.Errorf("failed to encode snippets: %w", err)
	}
	if err := r.kv.Set(ctx, storage.KeySnippets, data); err != nil {
		return fmt.Errorf("failed to write snippets: %w", err)
	}
	return nil
}

// MemoryRepository keeps the sequence in memory.
type MemoryRepository struct {
	mu       sync.Mutex
	snippets []models.Snippet
}

func NewMemoryRepository(initial ...models.Snippet) *MemoryRepository {
	return &MemoryRepository{snippets: append([]models.Snippet(nil), initial...)}
}

func (m *MemoryRepository) LoadAll(_ context.Context) ([]models.Snippet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Snippet{}, m.snippets...), nil
}

func (m *MemoryRepository) SaveAll(_ context.Context, snippets []models.Snippet) error {
	m.mu.Lock()
	m.snippets = append([]models.Snippet(nil), snippets...)
	m.mu.Unlock()
	return nil
}

// NewSnippet builds a record captured at now. The id is now in milliseconds.
func NewSnippet(title, content string, source models.Source, url string, now time.Time) models.Snippet {
	if strings.TrimSpace(title) == "" {
		title = models.DefaultSnippetTitle
	}
	return models.Snippet{
		ID:        now.UnixMilli(),
		Title:     title,
		Content:   content,
		Source:    source,
		URL:       url,
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// Add prepends s to the stored sequence.
//
// Add is a read-modify-write of the whole sequence with no mutual exclusion:
// two concurrent Adds can race and the later SaveAll wins.
func Add(ctx context.Context, repo Repository, s models.Snippet) error {
	all, err := repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	all = append([]models.Snippet{s}, all...)
	return repo.SaveAll(ctx, all)
}

// Delete removes the snippet with the given id and reports whether one was removed.
// Relative order of the remaining snippets is unchanged.
func Delete(ctx context.Context, repo Repository, id int64) (bool, error) {
	all, err := repo.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]models.Snippet, 0, len(all))
	removed := false
	for _, s := range all {
		if !removed && s.ID == id {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return false, nil
	}
	return true, repo.SaveAll(ctx, kept)
}

// Get returns the first snippet with the given id.
func Get(ctx context.Context, repo Repository, id int64) (*models.Snippet, error) {
	all, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Filter returns the snippets whose title or content contains term, case-insensitively.
// An empty term returns snippets unchanged.
func Filter(snippets []models.Snippet, term string) []models.Snippet {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return snippets
	}
	out := make([]models.Snippet, 0, len(snippets))
	for _, s := range snippets {
		if strings.Contains(strings.ToLower(s.Title), term) || strings.Contains(strings.ToLower(s.Content), term) {
			out = append(out, s)
		}
	}
	return out
}
