package capture

import (
	"strings"

	"github.com/hyperjump/snippetsaver/internal/models"
)

// selectors lists candidate response selectors per platform in priority order.
var selectors = map[models.Source][]string{
	models.SourceChatGPT: {
		`[data-message-author-role="assistant"]`,
		`.group.agent`,
		`div[class*="agent"]`,
	},
	models.SourceGemini: {
		`.model-response-text`,
		`[data-test-id="model-response"]`,
		`.response-container`,
	},
}

// DetectPlatform picks the AI surface from a host name. Anything that is not
// ChatGPT is treated as Gemini.
func DetectPlatform(host string) models.Source {
	h := strings.ToLower(host)
	if strings.Contains(h, "openai") || strings.Contains(h, "chatgpt") {
		return models.SourceChatGPT
	}
	return models.SourceGemini
}

// Selectors returns a copy of the selector list for platform.
func Selectors(platform models.Source) []string {
	return append([]string(nil), selectors[platform]...)
}
