package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HandlerFunc handles one action on the background side.
type HandlerFunc func(ctx context.Context, req Request) Result

// Dispatcher routes requests to handlers by Action.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Action]HandlerFunc
	logger   *zap.Logger
	metrics  *Metrics
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

func WithLogger(l *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

func WithMetrics(m *Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[Action]HandlerFunc),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle registers fn for action, replacing any previous handler.
func (d *Dispatcher) Handle(action Action, fn HandlerFunc) {
	d.mu.Lock()
	d.handlers[action] = fn
	d.mu.Unlock()
}

// Dispatch runs the handler for req.Action. Unknown actions yield an invalid-request result.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	start := time.Now()
	d.mu.RLock()
	fn, ok := d.handlers[req.Action]
	d.mu.RUnlock()

	var res Result
	if !ok {
		res = Failure(KindInvalid, fmt.Sprintf("unknown action %q", req.Action))
	} else {
		res = fn(ctx, req)
	}
	res.ID = req.ID

	d.metrics.observe(req.Action, res, time.Since(start).Seconds())
	d.logger.Debug("relay dispatch",
		zap.String("id", req.ID),
		zap.String("action", string(req.Action)),
		zap.Bool("success", res.Success),
		zap.String("kind", string(res.Kind)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res
}
