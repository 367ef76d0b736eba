// Package integration provides end-to-end tests (requires real storage and a filesystem).
package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/snippetsaver/internal/capture"
	"github.com/hyperjump/snippetsaver/internal/htmldoc"
	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/relay"
	"github.com/hyperjump/snippetsaver/internal/snippet"
	"github.com/hyperjump/snippetsaver/internal/storage"
	"github.com/hyperjump/snippetsaver/internal/watcher"
)

type fixedTitle string

func (f fixedTitle) Prompt(context.Context, string, string) (string, bool) { return string(f), true }

type nopNotifier struct{}

func (nopNotifier) Notify(capture.Notification) {}

func geminiPage(answers ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, a := range answers {
		b.WriteString(`<div class="model-response-text"><p>` + a + `</p></div>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestIntegration_WatchedFileCapture(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "snippets.db")
	pagePath := filepath.Join(dir, "chat.html")
	if err := os.WriteFile(pagePath, []byte(geminiPage("first answer")), 0644); err != nil {
		t.Fatal(err)
	}

	kv, err := storage.NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	repo := snippet.NewKVRepository(kv)
	d := relay.NewDispatcher()
	(&relay.Background{Snippets: repo}).Register(d)
	local := relay.NewLocal(d, relay.WithTimeout(5*time.Second))

	p := &capture.Pipeline{
		Relay:       local,
		Credentials: snippet.NewCredentials(kv),
		Prompter:    fixedTitle("From the watched page"),
		Notifier:    nopNotifier{},
	}

	f, err := os.Open(pagePath)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := htmldoc.Parse(f, "https://gemini.google.com/app/xyz")
	f.Close()
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := capture.NewSession(ctx, doc, p, capture.SessionConfig{Mode: capture.ModeLocal})
	session.Start()
	defer session.Stop()
	if doc.Affordances() != 1 {
		t.Fatalf("initial affordances = %d, want 1", doc.Affordances())
	}

	w := watcher.New(func(path string) {
		f, err := os.Open(path)
		if err != nil {
			return
		}
		defer f.Close()
		_ = doc.Reload(f)
	}, nil, watcher.WithDebounce(50*time.Millisecond))
	if err := w.Add(pagePath); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(pagePath, []byte(geminiPage("first answer", "second answer")), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return doc.Affordances() == 2 })

	if err := doc.Click(1); err != nil {
		t.Fatal(err)
	}

	_ = local.Close()
	local.Wait()
	if err := kv.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen to check the save was persisted.
	kv2, err := storage.NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer kv2.Close()
	all, err := snippet.NewKVRepository(kv2).LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("stored %d snippets, want 1", len(all))
	}
	got := all[0]
	if got.Title != "From the watched page" || got.Content != "second answer" || got.Source != models.SourceGemini {
		t.Errorf("unexpected snippet: %+v", got)
	}
}

func TestIntegration_DisconnectedRelay(t *testing.T) {
	kv := storage.NewMemoryKV()
	repo := snippet.NewKVRepository(kv)
	d := relay.NewDispatcher()
	(&relay.Background{Snippets: repo}).Register(d)
	local := relay.NewLocal(d)
	_ = local.Close()
	local.Wait()

	p := &capture.Pipeline{Relay: local, Credentials: snippet.NewCredentials(kv), Prompter: fixedTitle("t"), Notifier: nopNotifier{}}
	out := p.SaveLocal(context.Background(), "text", models.SourceChatGPT, "https://chatgpt.com/c/1")
	if out.Kind != capture.OutcomeTransportError || out.Notification == nil || out.Notification.Message != "❌ Connection error" {
		t.Errorf("outcome = %+v", out)
	}
	all, _ := repo.LoadAll(context.Background())
	if len(all) != 0 {
		t.Errorf("nothing may be stored after disconnect, got %d", len(all))
	}
}
