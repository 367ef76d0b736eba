package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

type envelope struct {
	ctx   context.Context
	req   Request
	reply chan Result
}

// Local is an in-process relay: a background goroutine receives requests over a
// channel and answers each on its own reply channel once the handler finishes.
type Local struct {
	dispatcher *Dispatcher
	requests   chan envelope
	done       chan struct{}
	closeOnce  sync.Once
	timeout    time.Duration
	wg         sync.WaitGroup
}

// LocalOption configures a Local relay.
type LocalOption func(*Local)

// WithTimeout bounds how long Send waits for a result. Zero keeps the default.
func WithTimeout(d time.Duration) LocalOption {
	return func(l *Local) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// NewLocal starts the background loop for d.
func NewLocal(d *Dispatcher, opts ...LocalOption) *Local {
	l := &Local{
		dispatcher: d,
		requests:   make(chan envelope),
		done:       make(chan struct{}),
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.wg.Add(1)
	go l.loop()
	return l
}

func (l *Local) loop() {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			return
		case env := <-l.requests:
			l.wg.Add(1)
			go func() {
				defer l.wg.Done()
				env.reply <- l.dispatcher.Dispatch(env.ctx, env.req)
			}()
		}
	}
}

// Send delivers req and waits for the result, at most the configured timeout.
// After Close, or when the background does not answer in time, Send returns ErrDisconnected.
func (l *Local) Send(ctx context.Context, req Request) (Result, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	env := envelope{ctx: ctx, req: req, reply: make(chan Result, 1)}
	select {
	case <-l.done:
		return Result{}, ErrDisconnected
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: %v", ErrDisconnected, ctx.Err())
	case l.requests <- env:
	}

	select {
	case res := <-env.reply:
		return res, nil
	case <-l.done:
		return Result{}, ErrDisconnected
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: %v", ErrDisconnected, ctx.Err())
	}
}

// Close stops the background loop. In-flight and later sends fail with ErrDisconnected.
func (l *Local) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	return nil
}

// Wait blocks until the loop and all in-flight handlers have returned.
func (l *Local) Wait() {
	l.wg.Wait()
}
