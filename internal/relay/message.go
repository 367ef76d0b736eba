// Package relay carries save requests from capture front-ends to the background
// process that owns storage and network egress, and carries the result back.
package relay

import (
	"context"
	"errors"

	"github.com/hyperjump/snippetsaver/internal/models"
)

// ErrDisconnected is returned when the background side is gone or did not answer in time.
var ErrDisconnected = errors.New("relay: background process unavailable")

// Action discriminates relay requests.
type Action string

const (
	// ActionSaveToNotion is sent from the context-menu entry to the page side.
	ActionSaveToNotion Action = "saveToNotion"
	// ActionSaveToNotionAPI asks the background to perform the authenticated append.
	ActionSaveToNotionAPI Action = "saveToNotionAPI"
	ActionSaveSnippet     Action = "saveSnippet"
	ActionDeleteSnippet   Action = "deleteSnippet"
	ActionListSnippets    Action = "listSnippets"
)

// ErrorKind classifies a failed Result.
type ErrorKind string

const (
	KindConfig    ErrorKind = "config"
	KindTransport ErrorKind = "transport"
	KindRemote    ErrorKind = "remote"
	KindInvalid   ErrorKind = "invalid"
	KindStorage   ErrorKind = "storage"
)

// Request is a relay message. Only the fields relevant to Action are set.
type Request struct {
	ID        string        `json:"id,omitempty"`
	Action    Action        `json:"action"`
	Title     string        `json:"title,omitempty"`
	Text      string        `json:"text,omitempty"`
	URL       string        `json:"url,omitempty"`
	Token     string        `json:"token,omitempty"`
	PageID    string        `json:"pageId,omitempty"`
	Source    models.Source `json:"source,omitempty"`
	SnippetID int64         `json:"snippetId,omitempty"`
}

// Result is the asynchronous answer to a Request.
type Result struct {
	ID       string           `json:"id,omitempty"`
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Kind     ErrorKind        `json:"kind,omitempty"`
	Snippet  *models.Snippet  `json:"snippet,omitempty"`
	Snippets []models.Snippet `json:"snippets,omitempty"`
}

// Failure builds an unsuccessful Result.
func Failure(kind ErrorKind, msg string) Result {
	return Result{Success: false, Kind: kind, Error: msg}
}

// Sender delivers a request to the background side and waits for its result.
// A non-nil error means the request was not delivered or the answer was lost;
// it wraps ErrDisconnected.
type Sender interface {
	Send(ctx context.Context, req Request) (Result, error)
}
