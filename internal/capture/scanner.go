package capture

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scanner attaches save affordances to response elements.
type Scanner struct {
	doc       Document
	selectors []string
	onClick   func(Element)
	logger    *zap.Logger
	mu        sync.Mutex
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

func WithScannerLogger(l *zap.Logger) ScannerOption {
	return func(s *Scanner) { s.logger = l }
}

// NewScanner creates a scanner over doc with the given selectors in priority order.
// onClick receives the element whose affordance was pressed.
func NewScanner(doc Document, selectors []string, onClick func(Element), opts ...ScannerOption) *Scanner {
	s := &Scanner{
		doc:       doc,
		selectors: append([]string(nil), selectors...),
		onClick:   onClick,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan tries each selector in order. The first selector matching anything wins:
// every matched element without an affordance gets one and later selectors are
// not tried, even if all matches were already marked. Returns how many
// affordances were attached.
func (s *Scanner) Scan() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	attached := 0
	for _, sel := range s.selectors {
		matches := s.doc.QueryAll(sel)
		s.logger.Debug("scan selector", zap.String("selector", sel), zap.Int("matches", len(matches)))
		for _, el := range matches {
			if el.HasAffordance() {
				continue
			}
			el := el
			if err := el.AttachAffordance(func() { s.onClick(el) }); err != nil {
				s.logger.Warn("attach affordance failed", zap.String("selector", sel), zap.Error(err))
				continue
			}
			attached++
		}
		if len(matches) > 0 {
			if attached > 0 {
				s.logger.Debug("save buttons added", zap.Int("count", attached))
			}
			break
		}
	}
	return attached
}

// Observer keeps affordances attached as the document changes.
// Every mutation schedules a full rescan. With a zero debounce window rescans
// run once per mutation; a positive window coalesces bursts into one rescan.
type Observer struct {
	scanner  *Scanner
	doc      Document
	debounce time.Duration
	logger   *zap.Logger

	mu          sync.Mutex
	unsubscribe func()
	timer       *time.Timer
	scans       int
}

// ObserverOption configures an Observer.
type ObserverOption func(*Observer)

// WithDebounce coalesces mutation bursts into one rescan per window.
func WithDebounce(d time.Duration) ObserverOption {
	return func(o *Observer) { o.debounce = d }
}

func WithObserverLogger(l *zap.Logger) ObserverOption {
	return func(o *Observer) { o.logger = l }
}

func NewObserver(doc Document, scanner *Scanner, opts ...ObserverOption) *Observer {
	o := &Observer{scanner: scanner, doc: doc, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start performs the initial scan and subscribes to mutations. Calling Start
// twice has no effect.
func (o *Observer) Start() {
	o.mu.Lock()
	if o.unsubscribe != nil {
		o.mu.Unlock()
		return
	}
	o.unsubscribe = o.doc.OnMutation(o.onMutation)
	o.mu.Unlock()

	o.rescan()
	o.logger.Debug("observer started", zap.String("url", o.doc.URL()))
}

// Stop unsubscribes and cancels any pending debounced rescan.
func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

// Scans returns how many rescans have run.
func (o *Observer) Scans() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scans
}

func (o *Observer) onMutation() {
	if o.debounce <= 0 {
		o.rescan()
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.unsubscribe == nil {
		return
	}
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, o.rescan)
}

func (o *Observer) rescan() {
	n := o.scanner.Scan()
	o.mu.Lock()
	o.scans++
	o.mu.Unlock()
	if n > 0 {
		o.logger.Info("save buttons added", zap.Int("count", n), zap.String("url", o.doc.URL()))
	}
}
