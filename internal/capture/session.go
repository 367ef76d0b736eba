package capture

import (
	"context"
	"time"

	"github.com/hyperjump/snippetsaver/internal/models"
	"go.uber.org/zap"
)

// SessionConfig controls a response-capture session.
type SessionConfig struct {
	Mode Mode
	// Platform overrides host detection when non-empty.
	Platform models.Source
	Debounce time.Duration
	Logger   *zap.Logger
	// OnOutcome, if set, receives the result of every affordance click.
	OnOutcome func(Outcome)
}

// Session binds a document to a scanner, an observer and a saver.
type Session struct {
	Platform models.Source
	Scanner  *Scanner
	Observer *Observer
	Saver    *ResponseSaver

	ctx    context.Context
	cancel context.CancelFunc
	cfg    SessionConfig
}

// NewSession prepares response capture on doc. Nothing is attached until Start.
func NewSession(ctx context.Context, doc Document, p *Pipeline, cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	platform := cfg.Platform
	if platform == "" {
		platform = DetectPlatform(doc.Host())
	}

	s := &Session{Platform: platform, cfg: cfg}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.Saver = &ResponseSaver{Pipeline: p, Mode: cfg.Mode, Platform: platform, Doc: doc}
	s.Scanner = NewScanner(doc, Selectors(platform), s.click, WithScannerLogger(cfg.Logger))
	s.Observer = NewObserver(doc, s.Scanner, WithDebounce(cfg.Debounce), WithObserverLogger(cfg.Logger))
	return s
}

func (s *Session) click(el Element) {
	out := s.Saver.Save(s.ctx, el)
	s.cfg.Logger.Debug("save finished", zap.String("outcome", string(out.Kind)))
	if s.cfg.OnOutcome != nil {
		s.cfg.OnOutcome(out)
	}
}

func (s *Session) Start() {
	s.cfg.Logger.Info("capture session started",
		zap.String("platform", string(s.Platform)),
		zap.String("mode", string(s.cfg.Mode)))
	s.Observer.Start()
}

func (s *Session) Stop() {
	s.Observer.Stop()
	s.cancel()
}
