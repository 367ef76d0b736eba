package capture_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperjump/snippetsaver/internal/capture"
	"github.com/hyperjump/snippetsaver/internal/htmldoc"
	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/notion"
	"github.com/hyperjump/snippetsaver/internal/relay"
	"github.com/hyperjump/snippetsaver/internal/snippet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prompter struct {
	mu       sync.Mutex
	answer   string
	ok       bool
	defaults []string
}

func (p *prompter) Prompt(_ context.Context, _ string, def string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.defaults = append(p.defaults, def)
	return p.answer, p.ok
}

func (p *prompter) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.defaults)
}

type notifier struct {
	mu   sync.Mutex
	seen []capture.Notification
}

func (n *notifier) Notify(x capture.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, x)
}

func (n *notifier) all() []capture.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]capture.Notification(nil), n.seen...)
}

type fakeNotion struct {
	calls atomic.Int32
	last  notion.Payload
	err   error
}

func (f *fakeNotion) Send(_ context.Context, p notion.Payload) error {
	f.calls.Add(1)
	f.last = p
	return f.err
}

type staticCreds models.NotionConfig

func (c staticCreds) Load(context.Context) (models.NotionConfig, error) {
	return models.NotionConfig(c), nil
}

type harness struct {
	repo     *snippet.MemoryRepository
	notion   *fakeNotion
	relay    *relay.Local
	prompter *prompter
	notifier *notifier
	pipeline *capture.Pipeline
}

func newHarness(t *testing.T, creds models.NotionConfig) *harness {
	t.Helper()
	h := &harness{
		repo:     snippet.NewMemoryRepository(),
		notion:   &fakeNotion{},
		prompter: &prompter{answer: "My title", ok: true},
		notifier: &notifier{},
	}
	d := relay.NewDispatcher()
	(&relay.Background{
		Snippets: h.repo,
		Notion:   h.notion,
		Now:      func() time.Time { return time.Date(2025, 6, 1, 14, 5, 9, 0, time.UTC) },
	}).Register(d)
	h.relay = relay.NewLocal(d, relay.WithTimeout(2*time.Second))
	t.Cleanup(func() { _ = h.relay.Close() })

	h.pipeline = &capture.Pipeline{
		Relay:       h.relay,
		Credentials: staticCreds(creds),
		Prompter:    h.prompter,
		Notifier:    h.notifier,
	}
	return h
}

var fullCreds = models.NotionConfig{IntegrationToken: "secret_abc", TargetPageID: "0123456789abcdef"}

func assistantPage(n int, extra string) string {
	var sb strings.Builder
	sb.WriteString("<html><body><main>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<div data-message-author-role="assistant"><p>answer %d</p></div>`, i)
	}
	sb.WriteString(extra)
	sb.WriteString("</main></body></html>")
	return sb.String()
}

func parse(t *testing.T, page, url string) *htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.ParseString(page, url)
	require.NoError(t, err)
	return doc
}

func TestScanner_FirstMatchingSelectorWins(t *testing.T) {
	doc := parse(t, assistantPage(3, `<div class="group agent">other</div>`), "https://chat.openai.com/c/1")
	s := capture.NewScanner(doc, capture.Selectors(models.SourceChatGPT), func(capture.Element) {})

	assert.Equal(t, 3, s.Scan())
	assert.Equal(t, 3, doc.Affordances())
	assert.False(t, doc.QueryAll(".group.agent")[0].HasAffordance())

	assert.Equal(t, 0, s.Scan(), "rescan must not duplicate affordances")
	assert.Equal(t, 3, doc.Affordances())
}

func TestScanner_StopsAtFirstSelectorEvenWhenAllMarked(t *testing.T) {
	doc := parse(t, assistantPage(1, `<div class="group agent">other</div>`), "https://chat.openai.com/c/1")
	s := capture.NewScanner(doc, capture.Selectors(models.SourceChatGPT), func(capture.Element) {})

	require.Equal(t, 1, s.Scan())
	assert.Equal(t, 0, s.Scan())
	assert.False(t, doc.QueryAll(".group.agent")[0].HasAffordance())
}

func TestScanner_FallsBackToLaterSelectors(t *testing.T) {
	page := `<html><body><div class="response-container">a</div><div class="response-container">b</div></body></html>`
	doc := parse(t, page, "https://gemini.google.com/app/1")
	s := capture.NewScanner(doc, capture.Selectors(capture.DetectPlatform(doc.Host())), func(capture.Element) {})

	assert.Equal(t, 2, s.Scan())
}

func TestObserver_RescansOnMutation(t *testing.T) {
	doc := parse(t, assistantPage(2, ""), "https://chatgpt.com/c/1")
	s := capture.NewScanner(doc, capture.Selectors(models.SourceChatGPT), func(capture.Element) {})
	o := capture.NewObserver(doc, s)
	o.Start()
	o.Start()
	defer o.Stop()

	assert.Equal(t, 2, doc.Affordances())
	assert.Equal(t, 1, o.Scans())

	require.NoError(t, doc.AppendHTML(`<div data-message-author-role="assistant">late</div>`))
	assert.Equal(t, 3, doc.Affordances())
	assert.Equal(t, 2, o.Scans())

	o.Stop()
	require.NoError(t, doc.AppendHTML(`<div data-message-author-role="assistant">after stop</div>`))
	assert.Equal(t, 3, doc.Affordances())
}

func TestObserver_DebounceCoalescesBursts(t *testing.T) {
	doc := parse(t, assistantPage(1, ""), "https://chatgpt.com/c/1")
	s := capture.NewScanner(doc, capture.Selectors(models.SourceChatGPT), func(capture.Element) {})
	o := capture.NewObserver(doc, s, capture.WithDebounce(100*time.Millisecond))
	o.Start()
	defer o.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, doc.AppendHTML(`<div data-message-author-role="assistant">burst</div>`))
	}
	require.Eventually(t, func() bool { return doc.Affordances() == 6 && o.Scans() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 2, o.Scans())
}

func TestSession_LocalSave(t *testing.T) {
	h := newHarness(t, models.NotionConfig{})
	doc := parse(t, assistantPage(2, ""), "https://chat.openai.com/c/42")

	var outcomes []capture.Outcome
	sess := capture.NewSession(context.Background(), doc, h.pipeline, capture.SessionConfig{
		Mode:      capture.ModeLocal,
		OnOutcome: func(o capture.Outcome) { outcomes = append(outcomes, o) },
	})
	sess.Start()
	defer sess.Stop()
	assert.Equal(t, models.SourceChatGPT, sess.Platform)

	require.NoError(t, doc.Click(1))

	all, err := h.repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "My title", all[0].Title)
	assert.Equal(t, "answer 1", all[0].Content)
	assert.Equal(t, models.SourceChatGPT, all[0].Source)
	assert.Equal(t, "https://chat.openai.com/c/42", all[0].URL)

	assert.Equal(t, []string{models.DefaultSnippetTitle}, h.prompter.defaults)
	assert.Equal(t, []capture.Notification{{Level: capture.LevelSuccess, Message: "✅ Snippet saved!"}}, h.notifier.all())
	require.Len(t, outcomes, 1)
	assert.Equal(t, capture.OutcomeSaved, outcomes[0].Kind)
	require.NotNil(t, outcomes[0].Snippet)
	assert.Equal(t, all[0].ID, outcomes[0].Snippet.ID)
}

func TestPipeline_CancelIsNoOp(t *testing.T) {
	h := newHarness(t, fullCreds)
	h.prompter.ok = false

	out := h.pipeline.SaveLocal(context.Background(), "text", models.SourceGemini, "https://gemini.google.com")
	assert.Equal(t, capture.OutcomeCancelled, out.Kind)
	assert.Nil(t, out.Notification)

	out = h.pipeline.SaveToNotion(context.Background(), "text", "https://gemini.google.com", models.DefaultSnippetTitle)
	assert.Equal(t, capture.OutcomeCancelled, out.Kind)

	all, _ := h.repo.LoadAll(context.Background())
	assert.Empty(t, all)
	assert.Empty(t, h.notifier.all())
	assert.Zero(t, h.notion.calls.Load())
}

func TestPipeline_NotionMissingCredentials(t *testing.T) {
	h := newHarness(t, models.NotionConfig{IntegrationToken: "secret_abc"})

	out := h.pipeline.SaveToNotion(context.Background(), "text", "https://x", "Untitled")
	assert.Equal(t, capture.OutcomeConfigError, out.Kind)
	assert.Zero(t, h.notion.calls.Load())
	assert.Zero(t, h.prompter.calls())
	assert.Equal(t, []capture.Notification{{Level: capture.LevelWarning, Message: "⚠️ Please configure Notion first"}}, h.notifier.all())
}

func TestPipeline_NotionSuccess(t *testing.T) {
	h := newHarness(t, fullCreds)

	out := h.pipeline.SaveToNotion(context.Background(), "body", "https://chatgpt.com/c/1", models.DefaultSnippetTitle)
	assert.Equal(t, capture.OutcomeSaved, out.Kind)
	assert.Equal(t, int32(1), h.notion.calls.Load())
	assert.Equal(t, "My title", h.notion.last.Title)
	assert.Equal(t, "body", h.notion.last.Content)
	assert.Equal(t, fullCreds, h.notion.last.Credentials)
	assert.Equal(t, "✅ Saved to Notion!", out.Notification.Message)
}

func TestPipeline_NotionRemoteError(t *testing.T) {
	h := newHarness(t, fullCreds)
	h.notion.err = &notion.APIError{Status: 401, Message: "API token is invalid."}

	out := h.pipeline.SaveToNotion(context.Background(), "body", "https://x", "Untitled")
	assert.Equal(t, capture.OutcomeRemoteError, out.Kind)
	assert.Equal(t, capture.Notification{Level: capture.LevelError, Message: "❌ API token is invalid."}, *out.Notification)
}

func TestPipeline_RelayDisconnected(t *testing.T) {
	h := newHarness(t, fullCreds)
	require.NoError(t, h.relay.Close())

	out := h.pipeline.SaveLocal(context.Background(), "body", models.SourceChatGPT, "https://x")
	assert.Equal(t, capture.OutcomeTransportError, out.Kind)
	assert.Equal(t, "❌ Connection error", out.Notification.Message)
}

func TestSelectionCapture(t *testing.T) {
	h := newHarness(t, fullCreds)
	c := capture.NewSelectionCapture(h.pipeline)

	out, err := c.Handle(context.Background(), "hello & bye", "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, capture.OutcomeSaved, out.Kind)
	assert.Equal(t, "hello & bye", h.notion.last.Content)
	assert.Equal(t, "https://example.com/a", h.notion.last.URL)
	assert.Equal(t, []string{"Untitled"}, h.prompter.defaults)

	_, err = c.Handle(context.Background(), "   ", "https://example.com/a")
	assert.ErrorIs(t, err, capture.ErrEmptySelection)
}

func TestSelectionCapture_ForwardsTextVerbatim(t *testing.T) {
	selections := []string{
		"if a<b && c>d {}",
		"std::vector<int> v;",
		`use <div class="x"> for layout`,
		"<script>alert(1)</script> is an XSS payload",
		"&amp; stays escaped",
	}
	for _, sel := range selections {
		t.Run(sel, func(t *testing.T) {
			h := newHarness(t, fullCreds)
			_, err := capture.NewSelectionCapture(h.pipeline).Handle(context.Background(), sel, "https://example.com/a")
			require.NoError(t, err)
			assert.Equal(t, sel, h.notion.last.Content)
		})
	}
}

func TestDetectPlatform(t *testing.T) {
	assert.Equal(t, models.SourceChatGPT, capture.DetectPlatform("chat.openai.com"))
	assert.Equal(t, models.SourceChatGPT, capture.DetectPlatform("chatgpt.com"))
	assert.Equal(t, models.SourceGemini, capture.DetectPlatform("gemini.google.com"))
	assert.Equal(t, models.SourceGemini, capture.DetectPlatform("example.com"))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, capture.ModeNotion, capture.ParseMode(" Notion "))
	assert.Equal(t, capture.ModeLocal, capture.ParseMode("local"))
	assert.Equal(t, capture.ModeLocal, capture.ParseMode(""))
}
