package e2e

import (
	"strings"
	"testing"

	"github.com/hyperjump/snippetsaver/internal/capture"
	"github.com/hyperjump/snippetsaver/internal/htmldoc"
	"github.com/hyperjump/snippetsaver/internal/models"
)

func TestFixtures_OneMatchPerAnswer(t *testing.T) {
	answers := BuildCorpus(5).Answers
	pages := map[models.Source]string{
		models.SourceChatGPT: ChatGPTPage(answers),
		models.SourceGemini:  GeminiPage(answers),
	}
	for platform, page := range pages {
		t.Run(string(platform), func(t *testing.T) {
			doc, err := htmldoc.ParseString(page, "https://example.test/")
			if err != nil {
				t.Fatal(err)
			}
			sel := capture.Selectors(platform)[0]
			els := doc.QueryAll(sel)
			if len(els) != len(answers) {
				t.Fatalf("%s matched %d elements, want %d", sel, len(els), len(answers))
			}
			for i, el := range els {
				if strings.TrimSpace(el.Text()) != answers[i].Content {
					t.Errorf("element %d text = %q, want %q", i, el.Text(), answers[i].Content)
				}
			}
		})
	}
}
