// Package search finds saved snippets by substring or, optionally, by fuzzy
// full-text match over an in-memory bleve index.
package search

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/snippet"
)

// Engine searches the snippets held by a repository.
type Engine struct {
	repo snippet.Repository

	mu        sync.Mutex
	index     *Index
	signature string
}

func NewEngine(repo snippet.Repository) *Engine {
	return &Engine{repo: repo}
}

// Search validates query and returns matching snippets. Substring results keep
// storage order (newest first); fuzzy results are ordered by score.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	start := time.Now()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	all, err := e.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snippets: %w", err)
	}

	var results []*models.SearchResult
	if query.Fuzzy {
		results, err = e.fuzzy(all, query.Query, query.Limit)
		if err != nil {
			return nil, err
		}
	} else {
		for _, s := range snippet.Filter(all, query.Query) {
			if len(results) == query.Limit {
				break
			}
			s := s
			results = append(results, &models.SearchResult{Snippet: &s, Score: 1})
		}
	}
	for i, r := range results {
		r.Rank = i + 1
	}
	var suggestion string
	if len(results) == 0 {
		results = []*models.SearchResult{}
		suggestion = Suggest(all, query.Query)
	}

	return &models.SearchResponse{
		Results:    results,
		Total:      len(results),
		QueryTime:  time.Since(start).Milliseconds(),
		Query:      query.Query,
		Fuzzy:      query.Fuzzy,
		Suggestion: suggestion,
	}, nil
}

func (e *Engine) fuzzy(all []models.Snippet, query string, limit int) ([]*models.SearchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.index == nil {
		idx, err := NewIndex()
		if err != nil {
			return nil, err
		}
		e.index = idx
	}
	if sig := signature(all); sig != e.signature {
		if err := e.index.Rebuild(all); err != nil {
			return nil, err
		}
		e.signature = sig
	}

	hits, err := e.index.Search(query, limit)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Snippet, len(all))
	for i := range all {
		if _, dup := byID[all[i].ID]; !dup {
			byID[all[i].ID] = &all[i]
		}
	}
	out := make([]*models.SearchResult, 0, len(hits))
	for _, h := range hits {
		if s, ok := byID[h.ID]; ok {
			out = append(out, &models.SearchResult{Snippet: s, Score: h.Score})
		}
	}
	return out, nil
}

// Close releases the index.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index == nil {
		return nil
	}
	err := e.index.Close()
	e.index = nil
	e.signature = ""
	return err
}

// signature changes whenever the stored list changes in a way that matters to the index.
func signature(all []models.Snippet) string {
	h := fnv.New64a()
	for _, s := range all {
		fmt.Fprintf(h, "%d\x00%s\x00%s\x00", s.ID, s.Title, s.Content)
	}
	return fmt.Sprintf("%d:%x", len(all), h.Sum64())
}
