package snippet

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/storage"
)

func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	kv, err := storage.NewSQLiteKV(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return map[string]Repository{
		"sqlite": NewKVRepository(kv),
		"memkv":  NewKVRepository(storage.NewMemoryKV()),
		"memory": NewMemoryRepository(),
	}
}

func TestLoadAll_EmptyWhenAbsent(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			got, err := repo.LoadAll(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", got)
			}
		})
	}
}

func TestAdd_NewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var saved []models.Snippet
			for i := 0; i < 5; i++ {
				s := NewSnippet("t", "c", models.SourceGemini, "https://gemini.google.com", base.Add(time.Duration(i)*time.Millisecond))
				if err := Add(ctx, repo, s); err != nil {
					t.Fatal(err)
				}
				saved = append(saved, s)
			}
			got, err := repo.LoadAll(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(saved) {
				t.Fatalf("got %d snippets, want %d", len(got), len(saved))
			}
			for i := range saved {
				want := saved[len(saved)-1-i]
				if got[i] != want {
					t.Errorf("position %d: got %+v, want %+v", i, got[i], want)
				}
			}
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(
		models.Snippet{ID: 3, Title: "c"},
		models.Snippet{ID: 2, Title: "b"},
		models.Snippet{ID: 1, Title: "a"},
	)

	removed, err := Delete(ctx, repo, 2)
	if err != nil || !removed {
		t.Fatalf("Delete(2) = %v, %v", removed, err)
	}
	got, _ := repo.LoadAll(ctx)
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 1 {
		t.Errorf("after delete: %+v", got)
	}

	removed, err = Delete(ctx, repo, 42)
	if err != nil || removed {
		t.Errorf("Delete(absent) = %v, %v", removed, err)
	}
	got, _ = repo.LoadAll(ctx)
	if len(got) != 2 {
		t.Errorf("absent delete changed sequence: %+v", got)
	}
}

func TestDelete_CollidingIDsRemovesOne(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(
		models.Snippet{ID: 7, Title: "second"},
		models.Snippet{ID: 7, Title: "first"},
	)
	if _, err := Delete(ctx, repo, 7); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.LoadAll(ctx)
	if len(got) != 1 || got[0].Title != "first" {
		t.Errorf("expected only the first match removed, got %+v", got)
	}
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(models.Snippet{ID: 9, Content: "hello"})
	s, err := Get(ctx, repo, 9)
	if err != nil || s.Content != "hello" {
		t.Errorf("Get(9) = %+v, %v", s, err)
	}
	if _, err := Get(ctx, repo, 10); err == nil {
		t.Error("expected ErrNotFound")
	}
}

func TestNewSnippet(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	s := NewSnippet("  ", "body", models.SourceChatGPT, "https://chatgpt.com/c/1", now)
	if s.ID != now.UnixMilli() {
		t.Errorf("id = %d", s.ID)
	}
	if s.Title != models.DefaultSnippetTitle {
		t.Errorf("title = %q", s.Title)
	}
	if s.Timestamp != "2025-01-02T03:04:05.678Z" {
		t.Errorf("timestamp = %q", s.Timestamp)
	}
}

func TestFilter(t *testing.T) {
	all := []models.Snippet{
		{ID: 1, Title: "Go channels", Content: "select statement"},
		{ID: 2, Title: "Recipes", Content: "Use a GOROUTINE pool"},
		{ID: 3, Title: "Misc", Content: "nothing here"},
	}
	if got := Filter(all, ""); len(got) != 3 {
		t.Errorf("empty term: got %d", len(got))
	}
	got := Filter(all, "go")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("term go: got %+v", got)
	}
	if got := Filter(all, "zzz"); len(got) != 0 {
		t.Errorf("no match: got %+v", got)
	}
}
