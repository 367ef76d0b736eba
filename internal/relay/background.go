package relay

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/notion"
	"github.com/hyperjump/snippetsaver/internal/snippet"
)

// NotionSender is the part of notion.Client the background uses.
type NotionSender interface {
	Send(ctx context.Context, p notion.Payload) error
}

// Background holds the privileged side's dependencies.
type Background struct {
	Snippets snippet.Repository
	Notion   NotionSender
	Now      func() time.Time
}

// Register installs the background handlers on d.
func (b *Background) Register(d *Dispatcher) {
	if b.Now == nil {
		b.Now = time.Now
	}
	d.Handle(ActionSaveToNotionAPI, b.saveToNotionAPI)
	d.Handle(ActionSaveSnippet, b.saveSnippet)
	d.Handle(ActionDeleteSnippet, b.deleteSnippet)
	d.Handle(ActionListSnippets, b.listSnippets)
}

func (b *Background) saveToNotionAPI(ctx context.Context, req Request) Result {
	err := b.Notion.Send(ctx, notion.Payload{
		Title:   req.Title,
		Content: req.Text,
		URL:     req.URL,
		Credentials: models.NotionConfig{
			IntegrationToken: req.Token,
			TargetPageID:     req.PageID,
		},
	})
	if err == nil {
		return Result{Success: true}
	}
	if errors.Is(err, notion.ErrMissingCredentials) {
		return Failure(KindConfig, "Please configure Notion first")
	}
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) {
		return Failure(KindRemote, apiErr.Message)
	}
	return Failure(KindTransport, err.Error())
}

func (b *Background) saveSnippet(ctx context.Context, req Request) Result {
	s := snippet.NewSnippet(req.Title, req.Text, req.Source, req.URL, b.Now())
	if err := snippet.Add(ctx, b.Snippets, s); err != nil {
		return Failure(KindStorage, err.Error())
	}
	return Result{Success: true, Snippet: &s}
}

func (b *Background) deleteSnippet(ctx context.Context, req Request) Result {
	removed, err := snippet.Delete(ctx, b.Snippets, req.SnippetID)
	if err != nil {
		return Failure(KindStorage, err.Error())
	}
	if !removed {
		return Failure(KindInvalid, snippet.ErrNotFound.Error())
	}
	return Result{Success: true}
}

func (b *Background) listSnippets(ctx context.Context, req Request) Result {
	all, err := b.Snippets.LoadAll(ctx)
	if err != nil {
		return Failure(KindStorage, err.Error())
	}
	return Result{Success: true, Snippets: snippet.Filter(all, strings.TrimSpace(req.Text))}
}
