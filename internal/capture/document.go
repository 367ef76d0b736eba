// Package capture turns page content into save requests: it attaches save
// affordances to AI responses as they appear and routes selections and
// responses to local storage or Notion through the relay.
package capture

// AffordanceClass marks an injected save button. An element that contains one
// is never given a second.
const AffordanceClass = "snippet-save-btn-inline"

// Element is a node in an observed document.
type Element interface {
	// Text returns the element's rendered plain text, not its markup.
	Text() string
	// HasAffordance reports whether the element already contains a save button.
	HasAffordance() bool
	// AttachAffordance adds a save button that calls onClick when pressed.
	AttachAffordance(onClick func()) error
}

// Document is an observable page.
type Document interface {
	Host() string
	URL() string
	// QueryAll returns the elements matching a CSS selector in document order.
	QueryAll(selector string) []Element
	// OnMutation registers fn to run after any change in the document subtree.
	// The returned function unsubscribes.
	OnMutation(fn func()) (cancel func())
}
