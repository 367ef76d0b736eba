package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"github.com/hyperjump/snippetsaver/internal/capture"
	"go.uber.org/zap"
)

const (
	bindingName     = "__snippetsaverClick"
	affordanceLabel = "💾 Save"
)

const attachJS = `(cls, id, binding) => {
	const btn = document.createElement('button');
	btn.className = cls;
	btn.textContent = '💾 Save';
	btn.addEventListener('click', (e) => {
		e.preventDefault();
		e.stopPropagation();
		window[binding](id);
	});
	this.appendChild(btn);
}`

const hasAffordanceJS = `(cls) => this.querySelector('.' + cls) !== null`

// Page is a live tab. It implements capture.Document.
type Page struct {
	page    *rod.Page
	pageURL string
	host    string
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	listeners map[int]func()
	nextID    int
	clicks    map[string]func()
}

func newPage(ctx context.Context, page *rod.Page, pageURL string, logger *zap.Logger) (*Page, error) {
	p := &Page{
		page:      page,
		pageURL:   pageURL,
		logger:    logger,
		listeners: make(map[int]func()),
		clicks:    make(map[string]func()),
	}
	if u, err := url.Parse(pageURL); err == nil {
		p.host = u.Hostname()
	}
	p.ctx, p.cancel = context.WithCancel(ctx)

	if err := (proto.RuntimeAddBinding{Name: bindingName}).Call(page); err != nil {
		p.cancel()
		return nil, fmt.Errorf("browser: add binding: %w", err)
	}
	if err := (proto.DOMEnable{}).Call(page); err != nil {
		p.cancel()
		return nil, fmt.Errorf("browser: enable DOM: %w", err)
	}
	// Mutation events are only reported for nodes the client has seen.
	depth := -1
	if _, err := (proto.DOMGetDocument{Depth: &depth, Pierce: true}).Call(page); err != nil {
		p.cancel()
		return nil, fmt.Errorf("browser: get document: %w", err)
	}

	wait := page.Context(p.ctx).EachEvent(
		func(e *proto.DOMChildNodeInserted) { p.notify() },
		func(e *proto.DOMDocumentUpdated) {
			depth := -1
			_, _ = proto.DOMGetDocument{Depth: &depth, Pierce: true}.Call(page)
			p.notify()
		},
		func(e *proto.RuntimeBindingCalled) {
			if e.Name == bindingName {
				p.click(e.Payload)
			}
		},
	)
	go wait()
	return p, nil
}

// Host is the host the tab was opened on. The platform is picked once from it.
func (p *Page) Host() string { return p.host }

// URL returns the tab's current location. Chat apps route with
// history.pushState, so the address given to Open goes stale.
func (p *Page) URL() string {
	return currentURL(p.location, p.pageURL, p.logger)
}

func (p *Page) location() (string, error) {
	info, err := p.page.Context(p.ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// currentURL falls back to the opening address when the tab cannot be read.
func currentURL(read func() (string, error), fallback string, logger *zap.Logger) string {
	u, err := read()
	if err != nil {
		logger.Debug("read location failed", zap.Error(err))
		return fallback
	}
	if u == "" {
		return fallback
	}
	return u
}

// QueryAll implements capture.Document.
func (p *Page) QueryAll(selector string) []capture.Element {
	els, err := p.page.Context(p.ctx).Elements(selector)
	if err != nil {
		p.logger.Debug("query failed", zap.String("selector", selector), zap.Error(err))
		return nil
	}
	out := make([]capture.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{page: p, el: el})
	}
	return out
}

// OnMutation implements capture.Document.
func (p *Page) OnMutation(fn func()) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Page) notify() {
	p.mu.Lock()
	fns := make([]func(), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		// CDP events are delivered on one goroutine; rescans must not block it.
		go fn()
	}
}

func (p *Page) click(id string) {
	p.mu.Lock()
	fn := p.clicks[id]
	p.mu.Unlock()
	if fn == nil {
		p.logger.Debug("click for unknown affordance", zap.String("id", id))
		return
	}
	go fn()
}

// Close stops event delivery and closes the tab.
func (p *Page) Close() error {
	p.cancel()
	return p.page.Close()
}

// Element is a live DOM element.
type Element struct {
	page *Page
	el   *rod.Element
}

// Text returns the element's innerText without the save button label.
func (e *Element) Text() string {
	txt, err := e.el.Text()
	if err != nil {
		e.page.logger.Debug("read element text failed", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(txt), affordanceLabel))
}

func (e *Element) HasAffordance() bool {
	res, err := e.el.Eval(hasAffordanceJS, capture.AffordanceClass)
	if err != nil {
		return false
	}
	return res.Value.Bool()
}

func (e *Element) AttachAffordance(onClick func()) error {
	id := uuid.NewString()
	e.page.mu.Lock()
	e.page.clicks[id] = onClick
	e.page.mu.Unlock()

	if _, err := e.el.Eval(attachJS, capture.AffordanceClass, id, bindingName); err != nil {
		e.page.mu.Lock()
		delete(e.page.clicks, id)
		e.page.mu.Unlock()
		return fmt.Errorf("browser: attach button: %w", err)
	}
	return nil
}
