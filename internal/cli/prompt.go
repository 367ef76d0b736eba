package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hyperjump/snippetsaver/internal/capture"
)

// LinePrompter asks on Out and reads one line from In. An empty answer takes the
// default; end of input or a cancelled context dismisses the prompt.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer

	once   sync.Once
	reader *bufio.Reader
}

// Prompt implements capture.Prompter.
func (p *LinePrompter) Prompt(ctx context.Context, message, defaultValue string) (string, bool) {
	p.once.Do(func() { p.reader = bufio.NewReader(p.In) })
	if defaultValue != "" {
		fmt.Fprintf(p.Out, "%s [%s] ", message, defaultValue)
	} else {
		fmt.Fprintf(p.Out, "%s ", message)
	}

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := p.reader.ReadString('\n')
		ch <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", false
	case a := <-ch:
		if a.err != nil && a.line == "" {
			return "", false
		}
		v := strings.TrimRight(a.line, "\r\n")
		if strings.TrimSpace(v) == "" {
			return defaultValue, true
		}
		return v, true
	}
}

// FixedPrompter answers every prompt with Value, or the default when Value is empty.
type FixedPrompter struct {
	Value string
}

func (p FixedPrompter) Prompt(_ context.Context, _, defaultValue string) (string, bool) {
	if p.Value == "" {
		return defaultValue, true
	}
	return p.Value, true
}

// WriterNotifier prints notifications as single lines.
type WriterNotifier struct {
	W io.Writer

	mu sync.Mutex
}

func (n *WriterNotifier) Notify(note capture.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.W, note.Message)
}
