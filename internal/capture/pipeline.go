package capture

import (
	"context"
	"errors"
	"strings"

	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/relay"
	"go.uber.org/zap"
)

// Mode selects where captured responses go.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeNotion Mode = "notion"
)

// ParseMode maps a config string to a Mode; anything unknown is local.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeNotion)) {
		return ModeNotion
	}
	return ModeLocal
}

// Prompter asks the user for a line of input. ok is false when the prompt was dismissed.
type Prompter interface {
	Prompt(ctx context.Context, message, defaultValue string) (value string, ok bool)
}

// Level is a notification severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a transient message shown to the user.
type Notification struct {
	Level   Level
	Message string
}

// Notifier renders notifications.
type Notifier interface {
	Notify(n Notification)
}

// CredentialSource loads the Notion configuration at the start of each sync.
type CredentialSource interface {
	Load(ctx context.Context) (models.NotionConfig, error)
}

// OutcomeKind classifies how a save attempt ended.
type OutcomeKind string

const (
	OutcomeSaved          OutcomeKind = "saved"
	OutcomeCancelled      OutcomeKind = "cancelled"
	OutcomeConfigError    OutcomeKind = "config_error"
	OutcomeTransportError OutcomeKind = "transport_error"
	OutcomeRemoteError    OutcomeKind = "remote_error"
)

// Outcome is the result of one save attempt. Cancelled outcomes carry no notification.
type Outcome struct {
	Kind         OutcomeKind
	Notification *Notification
	Snippet      *models.Snippet
}

const (
	msgSnippetSaved    = "✅ Snippet saved!"
	msgNotionSaved     = "✅ Saved to Notion!"
	msgConfigureNotion = "⚠️ Please configure Notion first"
	msgConnectionError = "❌ Connection error"
	titlePrompt        = "Enter a title for this snippet:"
	selectionTitle     = "Untitled"
)

// Pipeline is the page-side half of a save: prompt, relay, notify.
type Pipeline struct {
	Relay       relay.Sender
	Credentials CredentialSource
	Prompter    Prompter
	Notifier    Notifier
	Logger      *zap.Logger
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// SaveLocal prompts for a title and stores content as a snippet.
func (p *Pipeline) SaveLocal(ctx context.Context, content string, source models.Source, url string) Outcome {
	title, ok := p.Prompter.Prompt(ctx, titlePrompt, models.DefaultSnippetTitle)
	if !ok {
		return Outcome{Kind: OutcomeCancelled}
	}
	res, err := p.Relay.Send(ctx, relay.Request{
		Action: relay.ActionSaveSnippet,
		Title:  title,
		Text:   content,
		URL:    url,
		Source: source,
	})
	out := p.outcome(res, err, msgSnippetSaved)
	out.Snippet = res.Snippet
	return out
}

// SaveToNotion checks credentials, prompts for a title, then asks the background
// to append content to the configured page. Missing credentials short-circuit
// with a warning before any prompt or network call.
func (p *Pipeline) SaveToNotion(ctx context.Context, content, url, defaultTitle string) Outcome {
	cfg, err := p.Credentials.Load(ctx)
	if err != nil {
		p.logger().Warn("load credentials failed", zap.Error(err))
	}
	if err != nil || !cfg.Complete() {
		return p.notify(Outcome{Kind: OutcomeConfigError, Notification: &Notification{Level: LevelWarning, Message: msgConfigureNotion}})
	}

	title, ok := p.Prompter.Prompt(ctx, titlePrompt, defaultTitle)
	if !ok {
		return Outcome{Kind: OutcomeCancelled}
	}

	res, err := p.Relay.Send(ctx, relay.Request{
		Action: relay.ActionSaveToNotionAPI,
		Title:  title,
		Text:   content,
		URL:    url,
		Token:  cfg.IntegrationToken,
		PageID: cfg.TargetPageID,
	})
	return p.outcome(res, err, msgNotionSaved)
}

func (p *Pipeline) outcome(res relay.Result, err error, success string) Outcome {
	if err != nil {
		p.logger().Warn("relay delivery failed", zap.Error(err))
		return p.notify(Outcome{Kind: OutcomeTransportError, Notification: &Notification{Level: LevelError, Message: msgConnectionError}})
	}
	if res.Success {
		return p.notify(Outcome{Kind: OutcomeSaved, Notification: &Notification{Level: LevelSuccess, Message: success}})
	}
	msg := res.Error
	if msg == "" {
		msg = "Unknown error"
	}
	kind := OutcomeRemoteError
	switch res.Kind {
	case relay.KindConfig:
		kind = OutcomeConfigError
	case relay.KindTransport:
		kind = OutcomeTransportError
	}
	return p.notify(Outcome{Kind: kind, Notification: &Notification{Level: LevelError, Message: "❌ " + msg}})
}

func (p *Pipeline) notify(out Outcome) Outcome {
	if out.Notification != nil && p.Notifier != nil {
		p.Notifier.Notify(*out.Notification)
	}
	return out
}

// ResponseSaver handles clicks on response affordances.
type ResponseSaver struct {
	Pipeline *Pipeline
	Mode     Mode
	Platform models.Source
	Doc      Document
}

// Save reads the element's text at click time and sends it down the configured path.
func (s *ResponseSaver) Save(ctx context.Context, el Element) Outcome {
	content := el.Text()
	if s.Mode == ModeNotion {
		return s.Pipeline.SaveToNotion(ctx, content, s.Doc.URL(), models.DefaultSnippetTitle)
	}
	return s.Pipeline.SaveLocal(ctx, content, s.Platform, s.Doc.URL())
}

// ErrEmptySelection is returned for a context-menu invocation without selected text.
var ErrEmptySelection = errors.New("no text selected")

// SelectionCapture turns a selection plus a context-menu action into a Notion save.
type SelectionCapture struct {
	Pipeline *Pipeline
}

func NewSelectionCapture(p *Pipeline) *SelectionCapture {
	return &SelectionCapture{Pipeline: p}
}

// Handle saves selectedText captured on pageURL. The selection is already
// plain text and is forwarded as is.
func (c *SelectionCapture) Handle(ctx context.Context, selectedText, pageURL string) (Outcome, error) {
	if strings.TrimSpace(selectedText) == "" {
		return Outcome{}, ErrEmptySelection
	}
	return c.Pipeline.SaveToNotion(ctx, selectedText, pageURL, selectionTitle), nil
}
