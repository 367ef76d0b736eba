// Package main is the snippetsaver CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/snippetsaver/internal/capture"
	"github.com/hyperjump/snippetsaver/internal/cli"
	"github.com/hyperjump/snippetsaver/internal/config"
	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/notion"
	"github.com/hyperjump/snippetsaver/internal/relay"
	"github.com/hyperjump/snippetsaver/internal/search"
	"github.com/hyperjump/snippetsaver/internal/server"
	"github.com/hyperjump/snippetsaver/internal/snippet"
	"github.com/hyperjump/snippetsaver/internal/storage"
	"github.com/hyperjump/snippetsaver/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/snippetsaver/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory wins if present; if neither exists the built-in defaults are
// used and the returned path is empty.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg, err := config.Default()
			if err != nil {
				return nil, "", err
			}
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "save":
		runSave()
	case "capture":
		runCapture()
	case "list":
		runList()
	case "search":
		runSearch()
	case "delete":
		runDelete()
	case "copy":
		runCopy()
	case "config":
		runConfig()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("snippetsaver version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// fail prints msg to stderr and exits non-zero.
func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// commandFlags creates a flag set with the flags shared by every client command.
// The --server default comes from the config named on the command line, so it
// is resolved before parsing.
func commandFlags(name string, args []string) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverDefault := ""
	if cfg, _, err := loadConfig(configPathFromArgs(args, defaultConfigPath)); err == nil {
		serverDefault = cfg.Server.URL()
	}
	serverURL := fs.String("server", serverDefault, `daemon URL; use --server "" to work on storage directly`)
	return fs, configPath, serverURL
}

// configPathFromArgs returns the value of -config/--config from args if present, else defaultPath.
func configPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(a, "-config="); ok {
			return v
		}
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
	}
	return defaultPath
}

// argsReorder moves flags after positional arguments to the front so
// "snippetsaver search my query --fuzzy" parses the same as the flags-first form.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// joinArgs joins positional args with spaces so multi-word input works with or without quoting.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func mustConfig(path string) *config.Config {
	cfg, _, err := loadConfig(path)
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	return cfg
}

func mustCLILogger(debug bool) *zap.Logger {
	logger, err := utils.NewCLILogger(debug)
	if err != nil {
		fail("Failed to create logger: %v", err)
	}
	return logger
}

// Components are the background-side objects shared by the daemon and by
// commands running without one.
type Components struct {
	Storage     *storage.SQLiteKV
	Snippets    *snippet.KVRepository
	Credentials *snippet.Credentials
	Notion      *notion.Client
	Dispatcher  *relay.Dispatcher
	Engine      *search.Engine
}

func (c *Components) Close() {
	if c.Engine != nil {
		_ = c.Engine.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, metrics *relay.Metrics) (*Components, error) {
	kv, err := storage.NewSQLiteKV(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	repo := snippet.NewKVRepository(kv)
	notionClient := notion.NewClient(
		notion.WithBaseURL(cfg.Notion.BaseURL),
		notion.WithAPIVersion(cfg.Notion.APIVersion),
		notion.WithLogger(logger),
	)

	opts := []relay.DispatcherOption{relay.WithLogger(logger)}
	if metrics != nil {
		opts = append(opts, relay.WithMetrics(metrics))
	}
	d := relay.NewDispatcher(opts...)
	(&relay.Background{Snippets: repo, Notion: notionClient, Now: time.Now}).Register(d)

	return &Components{
		Storage:     kv,
		Snippets:    repo,
		Credentials: snippet.NewCredentials(kv),
		Notion:      notionClient,
		Dispatcher:  d,
		Engine:      search.NewEngine(repo),
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (relay dispatch, scans, HTTP requests)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("database_path", cfg.Storage.DatabasePath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, relay.NewMetrics())
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Dispatcher,
		components.Snippets,
		components.Credentials,
		components.Notion,
		components.Engine,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// pageContext is the capture side of the relay: a pipeline plus whatever it
// needs to release afterwards.
type pageContext struct {
	Pipeline *capture.Pipeline
	Client   *cli.Client
	close    []func()
}

func (p *pageContext) Close() {
	for i := len(p.close) - 1; i >= 0; i-- {
		p.close[i]()
	}
}

// withPageContext runs fn with a wired page context and releases it before
// returning, so callers can exit on the error afterwards.
func withPageContext(cfg *config.Config, serverURL string, prompter capture.Prompter, logger *zap.Logger, fn func(pc *pageContext) error) error {
	pc, err := newPageContext(cfg, serverURL, prompter, logger)
	if err != nil {
		return err
	}
	defer pc.Close()
	return fn(pc)
}

// newPageContext wires a capture pipeline. With a daemon URL the relay goes over
// HTTP; otherwise an in-process background owns storage for the duration of
// the command. Credentials are always read from storage at save time.
func newPageContext(cfg *config.Config, serverURL string, prompter capture.Prompter, logger *zap.Logger) (*pageContext, error) {
	pc := &pageContext{}
	var sender relay.Sender
	var creds capture.CredentialSource

	if serverURL != "" {
		kv, err := storage.NewSQLiteKV(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		pc.close = append(pc.close, func() { _ = kv.Close() })
		creds = snippet.NewCredentials(kv)
		sender = relay.NewHTTPClient(serverURL, cfg.Relay.Timeout)
		pc.Client = cli.NewClient(serverURL, cfg.Relay.Timeout)
	} else {
		components, err := initializeComponents(cfg, logger, nil)
		if err != nil {
			return nil, err
		}
		pc.close = append(pc.close, components.Close)
		creds = components.Credentials
		local := relay.NewLocal(components.Dispatcher, relay.WithTimeout(cfg.Relay.Timeout))
		pc.close = append(pc.close, func() {
			_ = local.Close()
			local.Wait()
		})
		sender = local
	}

	pc.Pipeline = &capture.Pipeline{
		Relay:       sender,
		Credentials: creds,
		Prompter:    prompter,
		Notifier:    &cli.WriterNotifier{W: os.Stderr},
		Logger:      logger,
	}
	return pc, nil
}

func newPrompter(title string) capture.Prompter {
	if title != "" {
		return cli.FixedPrompter{Value: title}
	}
	return &cli.LinePrompter{In: os.Stdin, Out: os.Stderr}
}

// exitForOutcome maps failed saves to a non-zero exit status.
func exitForOutcome(out capture.Outcome) {
	if out.Kind != capture.OutcomeSaved && out.Kind != capture.OutcomeCancelled {
		os.Exit(1)
	}
}

func runSave() {
	args := argsReorder(os.Args[2:])
	fs, configPath, serverURL := commandFlags("save", args)
	pageURL := fs.String("url", "", "URL of the page the text was selected on")
	title := fs.String("title", "", "title to use instead of prompting")
	mode := fs.String("mode", string(capture.ModeNotion), "destination: notion or local")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)

	cfg := mustConfig(*configPath)
	logger := mustCLILogger(cfg.Debug || *debug)

	text := joinArgs(fs.Args())
	prompter := newPrompter(*title)
	if text == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			fail("Failed to read stdin: %v", err)
		}
		text = string(b)
		if *title == "" {
			// stdin is consumed; prompts can only take their defaults.
			prompter = cli.FixedPrompter{}
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var out capture.Outcome
	err := withPageContext(cfg, *serverURL, prompter, logger, func(pc *pageContext) error {
		var err error
		out, err = saveSelection(ctx, pc, text, *pageURL, capture.ParseMode(*mode))
		return err
	})
	_ = logger.Sync()
	if err != nil {
		fail("Save failed: %v", err)
	}
	exitForOutcome(out)
}

// saveSelection saves selected text through pc. Local mode stores it as a
// snippet; otherwise it goes through the context-menu entry to Notion. The text
// is forwarded exactly as selected.
func saveSelection(ctx context.Context, pc *pageContext, text, pageURL string, mode capture.Mode) (capture.Outcome, error) {
	if mode == capture.ModeLocal {
		if strings.TrimSpace(text) == "" {
			return capture.Outcome{}, capture.ErrEmptySelection
		}
		return pc.Pipeline.SaveLocal(ctx, text, "", pageURL), nil
	}

	selection, url := text, pageURL
	if pc.Client != nil {
		msg, err := pc.Client.ContextMenu(ctx, text, pageURL)
		if err != nil {
			return capture.Outcome{}, fmt.Errorf("context menu request failed: %w", err)
		}
		selection, url = msg.Text, msg.URL
	}
	return capture.NewSelectionCapture(pc.Pipeline).Handle(ctx, selection, url)
}

func runList() {
	args := os.Args[2:]
	fs, configPath, serverURL := commandFlags("list", args)
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	ctx := context.Background()
	var list []models.Snippet
	if *serverURL != "" {
		resp, err := cli.NewClient(*serverURL, 0).ListSnippets(ctx, "", false)
		if err != nil {
			fail("List failed: %v (is the server running? use --server \"\" for direct storage)", err)
		}
		list = resp.Snippets
	} else {
		err := withStorage(*configPath, func(c *Components, _ *config.Config) error {
			all, err := c.Snippets.LoadAll(ctx)
			list = all
			return err
		})
		if err != nil {
			fail("List failed: %v", err)
		}
	}
	if err := cli.WriteSnippets(os.Stdout, list, cli.ParseOutputFormat(*output), time.Now()); err != nil {
		fail("Failed to write output: %v", err)
	}
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: snippetsaver search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
By default search is a case-insensitive substring match over title and content.
  • Use --fuzzy to tolerate typos (ranked, one edit per term).

Examples:
  snippetsaver search goroutine leak
  snippetsaver search --fuzzy gorutine
  snippetsaver search --output json "sqlite wal"
`)
}

func runSearch() {
	args := argsReorder(os.Args[2:])
	fs, configPath, serverURL := commandFlags("search", args)
	fuzzy := fs.Bool("fuzzy", false, "enable typo-tolerant ranked search")
	limit := fs.Int("limit", 10, "maximum number of results")
	output := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(args)

	q := joinArgs(fs.Args())
	if q == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	query := &models.SearchQuery{Query: q, Limit: *limit, Fuzzy: *fuzzy}

	ctx := context.Background()
	var resp *models.SearchResponse
	if *serverURL != "" {
		var err error
		resp, err = cli.NewClient(*serverURL, 0).Search(ctx, query)
		if err != nil {
			fail("Search failed: %v (is the server running? use --server \"\" for direct storage)", err)
		}
	} else {
		err := withStorage(*configPath, func(c *Components, _ *config.Config) error {
			var err error
			resp, err = c.Engine.Search(ctx, query)
			return err
		})
		if err != nil {
			fail("Search failed: %v", err)
		}
	}
	if err := cli.WriteSearchResults(os.Stdout, resp, cli.ParseOutputFormat(*output), time.Now()); err != nil {
		fail("Failed to write output: %v", err)
	}
}

func parseSnippetID(fs *flag.FlagSet, usage string) int64 {
	if fs.NArg() < 1 {
		fmt.Println(usage)
		os.Exit(1)
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		fail("Invalid snippet id %q", fs.Arg(0))
	}
	return id
}

func runDelete() {
	args := argsReorder(os.Args[2:])
	fs, configPath, serverURL := commandFlags("delete", args)
	_ = fs.Parse(args)
	id := parseSnippetID(fs, "Usage: snippetsaver delete [flags] <snippet-id>")

	ctx := context.Background()
	if *serverURL != "" {
		err := cli.NewClient(*serverURL, 0).DeleteSnippet(ctx, id)
		if errors.Is(err, cli.ErrNotFound) {
			fail("Snippet %d not found", id)
		}
		if err != nil {
			fail("Delete failed: %v", err)
		}
	} else {
		err := withStorage(*configPath, func(c *Components, _ *config.Config) error {
			res := c.Dispatcher.Dispatch(ctx, relay.Request{Action: relay.ActionDeleteSnippet, SnippetID: id})
			if !res.Success {
				return errors.New(res.Error)
			}
			return nil
		})
		if err != nil {
			fail("Delete failed: %v", err)
		}
	}
	fmt.Printf("Deleted snippet %d\n", id)
}

// runCopy prints a snippet's content for piping into a clipboard tool.
func runCopy() {
	args := argsReorder(os.Args[2:])
	fs, configPath, serverURL := commandFlags("copy", args)
	full := fs.Bool("full", false, "print title and metadata as well as content")
	_ = fs.Parse(args)
	id := parseSnippetID(fs, "Usage: snippetsaver copy [flags] <snippet-id>")

	ctx := context.Background()
	var s *models.Snippet
	if *serverURL != "" {
		var err error
		s, err = cli.NewClient(*serverURL, 0).GetSnippet(ctx, id)
		if errors.Is(err, cli.ErrNotFound) {
			fail("Snippet %d not found", id)
		}
		if err != nil {
			fail("Copy failed: %v", err)
		}
	} else {
		err := withStorage(*configPath, func(c *Components, _ *config.Config) error {
			var err error
			s, err = snippet.Get(ctx, c.Snippets, id)
			return err
		})
		if errors.Is(err, snippet.ErrNotFound) {
			fail("Snippet %d not found", id)
		}
		if err != nil {
			fail("Copy failed: %v", err)
		}
	}
	if *full {
		_ = cli.WriteSnippet(os.Stdout, s, cli.OutputText)
		return
	}
	fmt.Print(s.Content)
}

func runConfig() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: snippetsaver config <set|show|test> [flags]")
		fmt.Println("  snippetsaver config set --token <token> --page <page-id>")
		fmt.Println("  snippetsaver config show")
		fmt.Println("  snippetsaver config test")
		os.Exit(1)
	}
	sub := os.Args[2]
	args := os.Args[3:]
	fs, configPath, serverURL := commandFlags("config "+sub, args)
	token := fs.String("token", "", "Notion integration token (set)")
	page := fs.String("page", "", "Notion target page ID or URL (set)")
	_ = fs.Parse(args)

	ctx := context.Background()
	var client *cli.Client
	if *serverURL != "" {
		client = cli.NewClient(*serverURL, 0)
	}

	switch sub {
	case "set":
		cfg := models.NotionConfig{IntegrationToken: strings.TrimSpace(*token), TargetPageID: strings.TrimSpace(*page)}
		if !cfg.Complete() {
			fail("Please fill in both fields (--token and --page)")
		}
		if client != nil {
			if err := client.SetNotionConfig(ctx, cfg); err != nil {
				fail("Save failed: %v", err)
			}
		} else {
			err := withStorage(*configPath, func(c *Components, _ *config.Config) error {
				return c.Credentials.Save(ctx, cfg)
			})
			if err != nil {
				fail("Save failed: %v", err)
			}
		}
		fmt.Println("✅ Settings saved!")
	case "show":
		var view server.NotionConfigView
		if client != nil {
			v, err := client.NotionConfig(ctx)
			if err != nil {
				fail("Show failed: %v", err)
			}
			view = *v
		} else {
			err := withStorage(*configPath, func(c *Components, _ *config.Config) error {
				cfg, err := c.Credentials.Load(ctx)
				if err != nil {
					return err
				}
				view = server.NotionConfigView{IntegrationToken: cfg.MaskedToken(), TargetPageID: cfg.TargetPageID, Configured: cfg.Complete()}
				return nil
			})
			if err != nil {
				fail("Show failed: %v", err)
			}
		}
		fmt.Printf("Integration token: %s\n", view.IntegrationToken)
		fmt.Printf("Target page ID:    %s\n", view.TargetPageID)
		fmt.Printf("Configured:        %t\n", view.Configured)
	case "test":
		var err error
		if client != nil {
			err = client.TestNotionConfig(ctx)
		} else {
			err = withStorage(*configPath, func(c *Components, _ *config.Config) error {
				creds, err := c.Credentials.Load(ctx)
				if err != nil {
					return err
				}
				return c.Notion.TestConnection(ctx, creds)
			})
		}
		if errors.Is(err, notion.ErrMissingCredentials) {
			fail("❌ Please fill in both fields")
		}
		if err != nil {
			fail("❌ %v", err)
		}
		fmt.Println("✅ Connection successful!")
	default:
		fmt.Printf("Unknown config subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runStatus() {
	args := os.Args[2:]
	fs, configPath, serverURL := commandFlags("status", args)
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	ctx := context.Background()
	var st *server.Status
	if *serverURL != "" {
		var err error
		st, err = cli.NewClient(*serverURL, 0).Status(ctx)
		if err != nil {
			fail("Status failed: %v (is the server running? use --server \"\" for direct storage)", err)
		}
	} else {
		err := withStorage(*configPath, func(c *Components, cfg *config.Config) error {
			var err error
			st, err = server.CollectStatus(ctx, c.Snippets, c.Credentials, cfg)
			return err
		})
		if err != nil {
			fail("Status failed: %v", err)
		}
	}
	if err := cli.WriteStatus(os.Stdout, st, cli.ParseOutputFormat(*output)); err != nil {
		fail("Failed to write output: %v", err)
	}
}

// withStorage opens the background components against the configured database,
// runs fn and closes them again. fn's error is returned after cleanup, so
// callers may exit on it without leaving the database open.
func withStorage(configPath string, fn func(c *Components, cfg *config.Config) error) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewCLILogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	components, err := initializeComponents(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer components.Close()
	return fn(components, cfg)
}

func printUsage() {
	fmt.Println(`snippetsaver - Save AI chat responses and selections locally or to Notion

Usage:
  snippetsaver server [flags]                 Start the background daemon
  snippetsaver save [flags] [text]            Save selected text (args or stdin)
  snippetsaver capture [flags] <file|url>     Attach save buttons to chat responses
  snippetsaver list [flags]                   List saved snippets, newest first
  snippetsaver search [flags] <query>         Search saved snippets
  snippetsaver delete [flags] <id>            Delete a snippet
  snippetsaver copy [flags] <id>              Print a snippet's content
  snippetsaver config <set|show|test>         Manage Notion credentials
  snippetsaver status [flags]                 Show snippet count and storage status
  snippetsaver version                        Show version
  snippetsaver help                           Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/snippetsaver/config.yaml, or ./config.yaml)
  --server string    Daemon URL (default from config: http://localhost:8787). Use --server "" to work on storage directly.

Server Flags:
  --debug            Enable debug logging

Save Flags:
  --url string       Page URL the selection came from
  --title string     Title to use instead of prompting
  --mode string      notion (default) or local

Capture Flags:
  --url string       Page URL of a saved HTML file (selects the platform)
  --mode string      local or notion (default from config)
  --platform string  Force chatgpt or gemini
  --title string     Title to use instead of prompting
  --click string     Comma-separated button indexes to press, or "all"
  --watch            Re-scan the file whenever it changes
  --out string       Write the annotated document to this file
  --browser          Open the argument as a URL in Chrome and capture live

List/Search/Status Flags:
  --output string    Output format: text or json (default: text)
  --fuzzy            Typo-tolerant search
  --limit int        Maximum number of search results (default: 10)

Examples:
  snippetsaver server
  echo "useful answer" | snippetsaver save --url https://chat.openai.com/c/1
  snippetsaver capture --url https://chat.openai.com/c/1 --click all chat.html
  snippetsaver capture --browser https://gemini.google.com/app
  snippetsaver search --fuzzy gorutine
  snippetsaver copy 1700000000000 | pbcopy
  snippetsaver config set --token secret_xxx --page https://www.notion.so/My-Page-0123456789abcdef0123456789abcdef`)
}
