package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/hyperjump/snippetsaver/internal/models"
)

const (
	defaultFuzziness = 1
	titleBoost       = 2.0
)

type indexedSnippet struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Index is an in-memory bleve index over snippets.
type Index struct {
	index bleve.Index
}

// NewIndex creates an empty memory-only index.
func NewIndex() (*Index, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	text := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase and tokenize, no stemming.
	text.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", text)
	docMapping.AddFieldMappingsAt("content", text)
	docMapping.AddFieldMappingsAt("source", bleve.NewKeywordFieldMapping())
	im.DefaultMapping = docMapping

	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &Index{index: idx}, nil
}

// Rebuild replaces the index contents with snippets.
func (i *Index) Rebuild(snippets []models.Snippet) error {
	count, err := i.index.DocCount()
	if err != nil {
		return err
	}
	if count > 0 {
		old, err := i.ids()
		if err != nil {
			return err
		}
		del := i.index.NewBatch()
		for _, id := range old {
			del.Delete(id)
		}
		if err := i.index.Batch(del); err != nil {
			return fmt.Errorf("failed to clear index: %w", err)
		}
	}

	batch := i.index.NewBatch()
	for _, s := range snippets {
		// Colliding ids index once; lookups return the first stored match.
		if err := batch.Index(docID(s.ID), indexedSnippet{Title: s.Title, Content: s.Content, Source: string(s.Source)}); err != nil {
			return err
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index snippets: %w", err)
	}
	return nil
}

func (i *Index) ids() ([]string, error) {
	count, err := i.index.DocCount()
	if err != nil {
		return nil, err
	}
	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = int(count)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		out = append(out, hit.ID)
	}
	return out, nil
}

// Hit is a scored snippet id.
type Hit struct {
	ID    int64
	Score float64
}

// Search runs a fuzzy query over title and content. Title matches weigh double.
func (i *Index) Search(query string, limit int) ([]Hit, error) {
	titleQ := buildFuzzyQuery(query, "title")
	titleQ.SetBoost(titleBoost)
	q := bleve.NewDisjunctionQuery(titleQ, buildFuzzyQuery(query, "content"))

	req := bleve.NewSearchRequest(q)
	req.Size = limit
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{ID: id, Score: h.Score})
	}
	return hits, nil
}

func (i *Index) Close() error {
	return i.index.Close()
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

type boostable interface {
	blevequery.Query
	SetBoost(b float64)
}

// buildFuzzyQuery ORs one fuzzy term query per word.
func buildFuzzyQuery(query, field string) boostable {
	terms := tokenizeQuery(query)
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(defaultFuzziness)
		fq.SetField(field)
		queries = append(queries, fq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}
