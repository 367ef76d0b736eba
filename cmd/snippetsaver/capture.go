package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/hyperjump/snippetsaver/internal/browser"
	"github.com/hyperjump/snippetsaver/internal/capture"
	"github.com/hyperjump/snippetsaver/internal/config"
	"github.com/hyperjump/snippetsaver/internal/htmldoc"
	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/watcher"
	"go.uber.org/zap"
)

func runCapture() {
	args := argsReorder(os.Args[2:])
	fs, configPath, serverURL := commandFlags("capture", args)
	pageURL := fs.String("url", "", "page URL of a saved HTML file")
	mode := fs.String("mode", "", "local or notion (default from config)")
	platform := fs.String("platform", "", "force chatgpt or gemini")
	title := fs.String("title", "", "title to use instead of prompting")
	click := fs.String("click", "", `comma-separated button indexes to press, or "all"`)
	watch := fs.Bool("watch", false, "re-scan the file whenever it changes")
	out := fs.String("out", "", "write the annotated document to this file")
	live := fs.Bool("browser", false, "open the argument as a URL in Chrome")
	headless := fs.Bool("headless", false, "run Chrome headless (default from config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: snippetsaver capture [flags] <file.html|url>")
		os.Exit(1)
	}
	target := fs.Arg(0)

	cfg := mustConfig(*configPath)
	logger := mustCLILogger(cfg.Debug || *debug)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sessionCfg := capture.SessionConfig{
		Mode:     capture.ParseMode(firstNonEmpty(*mode, cfg.Capture.Mode)),
		Platform: parsePlatform(firstNonEmpty(*platform, cfg.Capture.PlatformOverride)),
		Debounce: cfg.Capture.RescanDebounce,
		Logger:   logger,
		OnOutcome: func(o capture.Outcome) {
			if o.Snippet != nil {
				logger.Debug("snippet stored", zap.Int64("id", o.Snippet.ID))
			}
		},
	}

	headlessMode := cfg.Browser.HeadlessOrDefault()
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			headlessMode = *headless
		}
	})

	err := withPageContext(cfg, *serverURL, newPrompter(*title), logger, func(pc *pageContext) error {
		if *live {
			return captureLive(ctx, cfg, target, headlessMode, pc.Pipeline, sessionCfg, logger)
		}
		return captureFile(ctx, target, *pageURL, *click, *out, *watch, pc.Pipeline, sessionCfg, logger)
	})
	_ = logger.Sync()
	if err != nil {
		fail("Capture failed: %v", err)
	}
}

// captureFile runs response capture over a saved HTML page.
func captureFile(ctx context.Context, path, pageURL, click, out string, watch bool,
	p *capture.Pipeline, sessionCfg capture.SessionConfig, logger *zap.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if pageURL == "" {
		pageURL = (&url.URL{Scheme: "file", Path: abs}).String()
	}
	f, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	doc, err := htmldoc.Parse(f, pageURL)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	session := capture.NewSession(ctx, doc, p, sessionCfg)
	session.Start()
	defer session.Stop()
	fmt.Fprintf(os.Stderr, "%s: %d save button(s) on %s\n", session.Platform, doc.Affordances(), pageURL)

	for _, i := range clickIndexes(click, doc.Affordances()) {
		if err := doc.Click(i); err != nil {
			fmt.Fprintf(os.Stderr, "Skipping button %d: %v\n", i, err)
		}
	}
	if out != "" {
		writeDocument(doc, out)
	}
	if !watch {
		return nil
	}

	w := watcher.New(
		func(changed string) {
			f, err := os.Open(changed)
			if err != nil {
				logger.Warn("reopen failed", zap.String("path", changed), zap.Error(err))
				return
			}
			defer f.Close()
			if err := doc.Reload(f); err != nil {
				logger.Warn("reload failed", zap.String("path", changed), zap.Error(err))
				return
			}
			fmt.Fprintf(os.Stderr, "%s changed: %d save button(s)\n", filepath.Base(changed), doc.Affordances())
			if out != "" {
				writeDocument(doc, out)
			}
		},
		func(removed string) {
			logger.Warn("watched file removed", zap.String("path", removed))
		},
		watcher.WithLogger(logger),
	)
	if err := w.Add(abs); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()
	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", abs)
	<-ctx.Done()
	return nil
}

// captureLive attaches save buttons to a page in Chrome. Clicks in the browser
// prompt for a title in this terminal.
func captureLive(ctx context.Context, cfg *config.Config, target string, headless bool,
	p *capture.Pipeline, sessionCfg capture.SessionConfig, logger *zap.Logger) error {
	b, err := browser.Launch(browser.Config{
		RemoteURL: cfg.Browser.RemoteURL,
		Headless:  headless,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer b.Close()

	page, err := b.Open(ctx, target)
	if err != nil {
		return err
	}
	defer page.Close()

	session := capture.NewSession(ctx, page, p, sessionCfg)
	session.Start()
	defer session.Stop()
	fmt.Fprintf(os.Stderr, "Capturing %s responses on %s (Ctrl+C to stop)\n", session.Platform, target)
	<-ctx.Done()
	return nil
}

func writeDocument(doc *htmldoc.Document, path string) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
		return
	}
	defer f.Close()
	if err := doc.Render(f); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
	}
}

// clickIndexes parses --click. "all" expands to every attached button; invalid
// entries are dropped.
func clickIndexes(list string, attached int) []int {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil
	}
	if list == "all" {
		out := make([]int, attached)
		for i := range out {
			out[i] = i
		}
		return out
	}
	var out []int
	for _, part := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

// parsePlatform maps an override to a known source; unknown values mean detect.
func parsePlatform(s string) models.Source {
	switch models.Source(strings.ToLower(strings.TrimSpace(s))) {
	case models.SourceChatGPT:
		return models.SourceChatGPT
	case models.SourceGemini:
		return models.SourceGemini
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
