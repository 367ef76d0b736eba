// Package htmldoc provides an observable, in-memory HTML document backed by
// golang.org/x/net/html. It is the page model used when capturing from saved
// conversation exports and in tests.
package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/hyperjump/snippetsaver/internal/capture"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const affordanceLabel = "💾 Save"

type affordance struct {
	button  *html.Node
	owner   *html.Node
	onClick func()
}

// Document is a parsed HTML page. It is safe for concurrent use.
type Document struct {
	mu          sync.Mutex
	root        *html.Node
	pageURL     string
	host        string
	affordances []*affordance

	lmu       sync.Mutex
	listeners map[int]func()
	nextID    int
}

// Parse reads an HTML page. pageURL is the address the page was loaded from.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	d := &Document{root: root, pageURL: pageURL, listeners: make(map[int]func())}
	if u, err := url.Parse(pageURL); err == nil {
		d.host = u.Hostname()
	}
	return d, nil
}

func ParseString(s, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(s), pageURL)
}

func (d *Document) Host() string { return d.host }
func (d *Document) URL() string  { return d.pageURL }

// QueryAll implements capture.Document.
func (d *Document) QueryAll(sel string) []capture.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes := querySelectorAll(d.root, sel)
	out := make([]capture.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &Element{doc: d, node: n})
	}
	return out
}

// OnMutation implements capture.Document.
func (d *Document) OnMutation(fn func()) func() {
	d.lmu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.lmu.Lock()
			delete(d.listeners, id)
			d.lmu.Unlock()
		})
	}
}

func (d *Document) notify() {
	d.lmu.Lock()
	fns := make([]func(), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.lmu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Mutate runs fn against the tree and then notifies mutation listeners.
func (d *Document) Mutate(fn func(root *html.Node)) {
	d.mu.Lock()
	fn(d.root)
	d.mu.Unlock()
	d.notify()
}

// AppendHTML parses fragment and appends it to <body>.
func (d *Document) AppendHTML(fragment string) error {
	d.mu.Lock()
	body := findBody(d.root)
	if body == nil {
		d.mu.Unlock()
		return fmt.Errorf("document has no body")
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		d.mu.Unlock()
		return fmt.Errorf("failed to parse fragment: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	d.mu.Unlock()
	d.notify()
	return nil
}

// Reload replaces the page content. Previously attached affordances are gone,
// as they would be after a browser reload.
func (d *Document) Reload(r io.Reader) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("failed to parse html: %w", err)
	}
	d.mu.Lock()
	d.root = root
	d.affordances = nil
	d.mu.Unlock()
	d.notify()
	return nil
}

// Affordances returns how many save buttons are currently attached.
func (d *Document) Affordances() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.affordances)
}

// Click presses the i-th attached save button, in attachment order.
func (d *Document) Click(i int) error {
	d.mu.Lock()
	if i < 0 || i >= len(d.affordances) {
		d.mu.Unlock()
		return fmt.Errorf("no affordance at index %d", i)
	}
	fn := d.affordances[i].onClick
	d.mu.Unlock()
	fn()
	return nil
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// Element is a node of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Text returns an approximation of the element's innerText. Save buttons,
// scripts and styles are excluded.
func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return innerText(e.node)
}

func (e *Element) HasAffordance() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return hasAffordance(e.node)
}

// AttachAffordance appends a save button to the element. It does not notify
// mutation listeners.
func (e *Element) AttachAffordance(onClick func()) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if hasAffordance(e.node) {
		return fmt.Errorf("element already has a save button")
	}
	btn := &html.Node{
		Type:     html.ElementNode,
		Data:     "button",
		DataAtom: atom.Button,
		Attr:     []html.Attribute{{Key: "class", Val: capture.AffordanceClass}},
	}
	btn.AppendChild(&html.Node{Type: html.TextNode, Data: affordanceLabel})
	e.node.AppendChild(btn)
	e.doc.affordances = append(e.doc.affordances, &affordance{button: btn, owner: e.node, onClick: onClick})
	return nil
}

func hasAffordance(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isAffordance(c) || hasAffordance(c) {
			return true
		}
	}
	return false
}

func isAffordance(n *html.Node) bool {
	return n.Type == html.ElementNode && contains(strings.Fields(getAttr(n, "class")), capture.AffordanceClass)
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
