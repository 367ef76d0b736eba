package cli

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hyperjump/snippetsaver/internal/config"
	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/notion"
	"github.com/hyperjump/snippetsaver/internal/relay"
	"github.com/hyperjump/snippetsaver/internal/search"
	"github.com/hyperjump/snippetsaver/internal/server"
	"github.com/hyperjump/snippetsaver/internal/snippet"
	"github.com/hyperjump/snippetsaver/internal/storage"
	"go.uber.org/zap"
)

type stubNotion struct{}

func (stubNotion) Send(context.Context, notion.Payload) error { return nil }

func (stubNotion) TestConnection(_ context.Context, cfg models.NotionConfig) error {
	if !cfg.Complete() {
		return notion.ErrMissingCredentials
	}
	return nil
}

func newTestClient(t *testing.T) (*Client, snippet.Repository) {
	t.Helper()
	kv := storage.NewMemoryKV()
	repo := snippet.NewKVRepository(kv)
	d := relay.NewDispatcher()
	(&relay.Background{Snippets: repo, Notion: stubNotion{}, Now: time.Now}).Register(d)
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.DatabasePath = ""
	srv := server.NewServer(d, repo, snippet.NewCredentials(kv), stubNotion{}, search.NewEngine(repo), cfg, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, 5*time.Second), repo
}

func TestClient_Snippets(t *testing.T) {
	c, repo := newTestClient(t)
	ctx := context.Background()
	_ = snippet.Add(ctx, repo, models.Snippet{ID: 1, Title: "Go channels", Content: "select"})
	_ = snippet.Add(ctx, repo, models.Snippet{ID: 2, Title: "SQLite", Content: "WAL mode"})

	list, err := c.ListSnippets(ctx, "", false)
	if err != nil || list.Total != 2 {
		t.Fatalf("list: %+v %v", list, err)
	}
	list, err = c.ListSnippets(ctx, "wal", false)
	if err != nil || list.Total != 1 || list.Snippets[0].ID != 2 {
		t.Fatalf("filter: %+v %v", list, err)
	}

	resp, err := c.Search(ctx, &models.SearchQuery{Query: "chanels", Fuzzy: true, Limit: 5})
	if err != nil || resp.Total != 1 || resp.Results[0].Snippet.ID != 1 {
		t.Fatalf("search: %+v %v", resp, err)
	}

	s, err := c.GetSnippet(ctx, 2)
	if err != nil || s.Title != "SQLite" {
		t.Fatalf("get: %+v %v", s, err)
	}
	if err := c.DeleteSnippet(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.GetSnippet(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted: want ErrNotFound, got %v", err)
	}
	if err := c.DeleteSnippet(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete again: want ErrNotFound, got %v", err)
	}
}

func TestClient_NotionConfigAndStatus(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	if err := c.TestNotionConfig(ctx); err == nil {
		t.Error("test without credentials should fail")
	}
	if err := c.SetNotionConfig(ctx, models.NotionConfig{IntegrationToken: "secret"}); err == nil {
		t.Error("incomplete credentials should be rejected")
	}
	if err := c.SetNotionConfig(ctx, models.NotionConfig{IntegrationToken: "secret_abcd1234", TargetPageID: "p1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	view, err := c.NotionConfig(ctx)
	if err != nil || !view.Configured || view.IntegrationToken != "***********1234" || view.TargetPageID != "p1" {
		t.Fatalf("view: %+v %v", view, err)
	}
	if err := c.TestNotionConfig(ctx); err != nil {
		t.Errorf("test: %v", err)
	}

	st, err := c.Status(ctx)
	if err != nil || !st.NotionConfigured || st.Snippets != 0 {
		t.Errorf("status: %+v %v", st, err)
	}
}

func TestClient_ContextMenu(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	msg, err := c.ContextMenu(ctx, "picked text", "https://example.com/a")
	if err != nil {
		t.Fatalf("context menu: %v", err)
	}
	if msg.Action != relay.ActionSaveToNotion || msg.Text != "picked text" || msg.URL != "https://example.com/a" {
		t.Errorf("message: %+v", msg)
	}
	if _, err := c.ContextMenu(ctx, "   ", ""); err == nil {
		t.Error("empty selection should be rejected")
	}
}

func TestClient_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second)
	if _, err := c.Status(context.Background()); err == nil {
		t.Error("expected error for unreachable daemon")
	}
}
