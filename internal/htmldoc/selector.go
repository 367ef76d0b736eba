package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// Supported selector grammar:
//   - tag, #id, .class, compound .a.b and tag.class#id
//   - [attr], [attr=val], [attr*=val], [attr^=val], [attr$=val], values optionally quoted
//   - descendant combinator (whitespace)

type attrSelector struct {
	key string
	op  string // "", "=", "*=", "^=", "$="
	val string
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrSelector
}

type selector []compound

func parseSelector(sel string) selector {
	var out selector
	for _, part := range splitDescendants(sel) {
		out = append(out, parseCompound(part))
	}
	return out
}

// splitDescendants splits on whitespace that is outside brackets and quotes.
func splitDescendants(sel string) []string {
	var (
		parts []string
		cur   strings.Builder
		depth int
		quote rune
	)
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	for _, r := range sel {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return parts
}

func parseCompound(s string) compound {
	var c compound
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && s[i] != '.' && s[i] != '#' && s[i] != '[' {
			i++
		}
		return s[start:i]
	}

	c.tag = strings.ToLower(readName())
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			if name := readName(); name != "" {
				c.classes = append(c.classes, name)
			}
		case '#':
			i++
			c.id = readName()
		case '[':
			end := closingBracket(s, i)
			c.attrs = append(c.attrs, parseAttr(s[i+1:end]))
			i = end + 1
		default:
			i++
		}
	}
	return c
}

func closingBracket(s string, open int) int {
	var quote byte
	for j := open + 1; j < len(s); j++ {
		switch {
		case quote != 0:
			if s[j] == quote {
				quote = 0
			}
		case s[j] == '"' || s[j] == '\'':
			quote = s[j]
		case s[j] == ']':
			return j
		}
	}
	return len(s)
}

func parseAttr(body string) attrSelector {
	for _, op := range []string{"*=", "^=", "$=", "="} {
		if idx := strings.Index(body, op); idx >= 0 {
			return attrSelector{
				key: strings.TrimSpace(body[:idx]),
				op:  op,
				val: strings.Trim(strings.TrimSpace(body[idx+len(op):]), `"'`),
			}
		}
	}
	return attrSelector{key: strings.TrimSpace(body)}
}

func (c compound) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && n.Data != c.tag {
		return false
	}
	if c.id != "" && getAttr(n, "id") != c.id {
		return false
	}
	if len(c.classes) > 0 {
		have := strings.Fields(getAttr(n, "class"))
		for _, want := range c.classes {
			if !contains(have, want) {
				return false
			}
		}
	}
	for _, a := range c.attrs {
		val, ok := lookupAttr(n, a.key)
		if !ok {
			return false
		}
		switch a.op {
		case "=":
			if val != a.val {
				return false
			}
		case "*=":
			if a.val == "" || !strings.Contains(val, a.val) {
				return false
			}
		case "^=":
			if a.val == "" || !strings.HasPrefix(val, a.val) {
				return false
			}
		case "$=":
			if a.val == "" || !strings.HasSuffix(val, a.val) {
				return false
			}
		}
	}
	return true
}

// matches tests n against the last compound and walks ancestors for the rest.
func (s selector) matches(n *html.Node) bool {
	if len(s) == 0 || !s[len(s)-1].matches(n) {
		return false
	}
	i := len(s) - 2
	for p := n.Parent; p != nil && i >= 0; p = p.Parent {
		if s[i].matches(p) {
			i--
		}
	}
	return i < 0
}

func querySelectorAll(root *html.Node, sel string) []*html.Node {
	s := parseSelector(sel)
	if len(s) == 0 {
		return nil
	}
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if s.matches(n) {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return results
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
