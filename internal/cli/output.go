// Package cli provides output formatting, terminal prompting and a daemon client
// for the snippetsaver command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/server"
	"github.com/hyperjump/snippetsaver/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// PreviewLength is how many characters of content a list entry shows.
const PreviewLength = 150

const rule = "─────────────────────────────────────────────────────────"

// ParseOutputFormat maps a flag value to a format; anything but "json" is text.
func ParseOutputFormat(s string) OutputFormat {
	if s == string(OutputJSON) {
		return OutputJSON
	}
	return OutputText
}

// WriteSnippets writes a snippet list newest first, as stored. now anchors the
// relative timestamps.
func WriteSnippets(w io.Writer, snippets []models.Snippet, format OutputFormat, now time.Time) error {
	if format == OutputJSON {
		if snippets == nil {
			snippets = []models.Snippet{}
		}
		return writeJSON(w, snippets)
	}
	if len(snippets) == 0 {
		fmt.Fprintln(w, "No snippets saved yet.")
		return nil
	}
	fmt.Fprintf(w, "%d snippet(s)\n\n", len(snippets))
	for i := range snippets {
		writeEntry(w, &snippets[i], now)
	}
	return nil
}

// WriteSearchResults writes ranked search hits.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat, now time.Time) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	mode := "substring"
	if response.Fuzzy {
		mode = "fuzzy"
	}
	fmt.Fprintf(w, "\nFound %d %s match(es) for %q in %dms\n\n", response.Total, mode, response.Query, response.QueryTime)
	if response.Suggestion != "" {
		fmt.Fprintf(w, "Did you mean %q?\n\n", response.Suggestion)
	}
	for _, r := range response.Results {
		if r.Snippet == nil {
			continue
		}
		if response.Fuzzy {
			fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", r.Rank, r.Score)
		}
		writeEntry(w, r.Snippet, now)
	}
	return nil
}

func writeEntry(w io.Writer, s *models.Snippet, now time.Time) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "[%d] %s\n", s.ID, s.Title)
	meta := FormatTimestamp(s.Timestamp, now)
	if s.Source != "" {
		meta = string(s.Source) + " · " + meta
	}
	fmt.Fprintln(w, meta)
	fmt.Fprintf(w, "\n%s\n\n", utils.Preview(s.Content, PreviewLength))
}

// WriteSnippet writes one snippet in full.
func WriteSnippet(w io.Writer, s *models.Snippet, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, s)
	}
	fmt.Fprintf(w, "ID:      %d\n", s.ID)
	fmt.Fprintf(w, "Title:   %s\n", s.Title)
	if s.Source != "" {
		fmt.Fprintf(w, "Source:  %s\n", s.Source)
	}
	if s.URL != "" {
		fmt.Fprintf(w, "URL:     %s\n", s.URL)
	}
	fmt.Fprintf(w, "Saved:   %s\n", s.Timestamp)
	fmt.Fprintf(w, "\n%s\n", s.Content)
	return nil
}

// WriteStatus writes daemon or storage status.
func WriteStatus(w io.Writer, st *server.Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, st)
	}
	fmt.Fprintf(w, "Snippets:          %d\n", st.Snippets)
	fmt.Fprintf(w, "Notion configured: %t\n", st.NotionConfigured)
	fmt.Fprintf(w, "Capture mode:      %s\n", st.CaptureMode)
	fmt.Fprintf(w, "Database:          %s\n", st.DatabasePath)
	if st.DiskUsageBytes != nil {
		fmt.Fprintf(w, "Disk usage:        %s\n", FormatBytes(*st.DiskUsageBytes))
	}
	return nil
}

// FormatTimestamp renders an RFC 3339 capture timestamp relative to now. Values
// that do not parse are returned unchanged.
func FormatTimestamp(ts string, now time.Time) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return utils.RelativeTime(t, now)
}

// FormatBytes renders n with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
