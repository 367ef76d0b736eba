// Package models defines core data structures for snippets, search queries, and credentials.
package models

import "strings"

// Source identifies the AI surface a snippet was captured from.
type Source string

const (
	SourceChatGPT Source = "chatgpt"
	SourceGemini  Source = "gemini"
)

// DefaultSnippetTitle is used when a snippet is saved with an empty title.
const DefaultSnippetTitle = "Untitled Snippet"

// Snippet is a captured unit of text plus its capture metadata.
// ID is the creation time in milliseconds since epoch; two saves in the same
// millisecond produce the same ID.
type Snippet struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Source    Source `json:"source,omitempty"`
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
}

// NotionConfig holds the credentials used for remote sync.
type NotionConfig struct {
	IntegrationToken string `json:"integration_token"`
	TargetPageID     string `json:"target_page_id"`
}

// Complete reports whether both credential fields are set.
func (c NotionConfig) Complete() bool {
	return strings.TrimSpace(c.IntegrationToken) != "" && strings.TrimSpace(c.TargetPageID) != ""
}

// MaskedToken returns the token with all but the last four characters hidden.
func (c NotionConfig) MaskedToken() string {
	t := c.IntegrationToken
	if len(t) <= 4 {
		return strings.Repeat("*", len(t))
	}
	return strings.Repeat("*", len(t)-4) + t[len(t)-4:]
}
