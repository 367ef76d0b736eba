package e2e

import (
	"fmt"
	"html"
	"strings"
)

// ChatGPTPage renders a conversation the way ChatGPT marks up assistant turns.
func ChatGPTPage(answers []Answer) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><title>ChatGPT</title></head><body><main>`)
	for i, a := range answers {
		fmt.Fprintf(&b, `<div data-message-author-role="user"><p>question %d</p></div>`, i+1)
		fmt.Fprintf(&b, `<div data-message-author-role="assistant"><div class="markdown prose"><p>%s</p></div></div>`,
			html.EscapeString(a.Content))
	}
	b.WriteString(`</main></body></html>`)
	return b.String()
}

// GeminiPage renders a conversation with Gemini's response containers.
func GeminiPage(answers []Answer) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><title>Gemini</title></head><body>`)
	for _, a := range answers {
		fmt.Fprintf(&b, `<model-response><div class="response-container"><div class="model-response-text"><p>%s</p></div></div></model-response>`,
			html.EscapeString(a.Content))
	}
	b.WriteString(`</body></html>`)
	return b.String()
}
