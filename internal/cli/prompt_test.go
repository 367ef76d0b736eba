package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/hyperjump/snippetsaver/internal/capture"
)

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := &LinePrompter{In: strings.NewReader("My title\n\n"), Out: &out}
	ctx := context.Background()

	v, ok := p.Prompt(ctx, "Enter a title:", "Untitled Snippet")
	if !ok || v != "My title" {
		t.Errorf("first answer: %q %v", v, ok)
	}
	if !strings.Contains(out.String(), "Enter a title: [Untitled Snippet]") {
		t.Errorf("prompt text: %q", out.String())
	}

	v, ok = p.Prompt(ctx, "Enter a title:", "Untitled Snippet")
	if !ok || v != "Untitled Snippet" {
		t.Errorf("empty answer should take default: %q %v", v, ok)
	}

	_, ok = p.Prompt(ctx, "Enter a title:", "Untitled Snippet")
	if ok {
		t.Error("end of input should dismiss the prompt")
	}
}

func TestLinePrompter_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := &LinePrompter{In: r, Out: io.Discard}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := p.Prompt(ctx, "q", "d"); ok {
		t.Error("cancelled context should dismiss the prompt")
	}
}

func TestFixedPrompter(t *testing.T) {
	if v, ok := (FixedPrompter{}).Prompt(context.Background(), "q", "def"); !ok || v != "def" {
		t.Errorf("empty value: %q %v", v, ok)
	}
	if v, _ := (FixedPrompter{Value: "x"}).Prompt(context.Background(), "q", "def"); v != "x" {
		t.Errorf("fixed value: %q", v)
	}
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := &WriterNotifier{W: &buf}
	n.Notify(capture.Notification{Level: capture.LevelSuccess, Message: "✅ Snippet saved!"})
	if buf.String() != "✅ Snippet saved!\n" {
		t.Errorf("got %q", buf.String())
	}
}
