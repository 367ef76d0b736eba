// Package browser drives a live Chrome tab over the DevTools protocol with rod
// and exposes it as a capture.Document.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

const navigateTimeout = 30 * time.Second

// Config selects how Chrome is reached.
type Config struct {
	// RemoteURL is the DevTools websocket of a running Chrome. Empty launches one.
	RemoteURL string
	Headless  bool
	Logger    *zap.Logger
}

// Browser is a connected Chrome instance.
type Browser struct {
	rod    *rod.Browser
	lnch   *launcher.Launcher
	logger *zap.Logger
}

// Launch starts or connects to Chrome.
func Launch(cfg Config) (*Browser, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	wsURL := cfg.RemoteURL
	var l *launcher.Launcher
	if wsURL == "" {
		l = launcher.New().Headless(cfg.Headless)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		logger.Info("launched local chrome", zap.String("url", wsURL))
	} else {
		logger.Info("connecting to remote chrome", zap.String("url", wsURL))
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	return &Browser{rod: b, lnch: l, logger: logger}, nil
}

// Open creates a tab, navigates to pageURL and starts tracking DOM changes.
func (b *Browser) Open(ctx context.Context, pageURL string) (*Page, error) {
	page, err := b.rod.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, navigateTimeout)
	defer cancel()
	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		b.logger.Warn("wait load timeout", zap.String("url", pageURL), zap.Error(err))
	}

	p, err := newPage(ctx, page, pageURL, b.logger)
	if err != nil {
		_ = page.Close()
		return nil, err
	}
	return p, nil
}

// Close disconnects and kills a launched Chrome.
func (b *Browser) Close() error {
	err := b.rod.Close()
	if b.lnch != nil {
		b.lnch.Kill()
	}
	return err
}
