package dom

import (
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// compiled caches parsed selector groups by source text. An invalid
// selector is cached as nil and matches nothing.
var compiled sync.Map

func compile(sel string) cascadia.SelectorGroup {
	sel = strings.TrimSpace(sel)
	if v, ok := compiled.Load(sel); ok {
		return v.(cascadia.SelectorGroup)
	}
	g, err := cascadia.ParseGroup(sel)
	if err != nil {
		g = nil
	}
	compiled.Store(sel, g)
	return g
}

// querySelectorAll returns the descendants of root (root excluded) matching
// sel, in document order.
func querySelectorAll(root *html.Node, sel string) []*html.Node {
	g := compile(sel)
	if g == nil || root == nil {
		return nil
	}
	return cascadia.QueryAll(root, g)
}

func querySelector(root *html.Node, sel string) *html.Node {
	g := compile(sel)
	if g == nil || root == nil {
		return nil
	}
	return cascadia.Query(root, g)
}

// closest returns the nearest inclusive ancestor of n matching sel.
func closest(n *html.Node, sel string) *html.Node {
	g := compile(sel)
	if g == nil {
		return nil
	}
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && g.Match(n) {
			return n
		}
	}
	return nil
}

func findByID(root *html.Node, id string) *html.Node {
	if root == nil || id == "" {
		return nil
	}
	if root.Type == html.ElementNode && attr(root, "id") == id {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findByID(c, id); n != nil {
			return n
		}
	}
	return nil
}

// FindByID returns the first element in the tree rooted at root whose id
// attribute equals id.
func FindByID(root *html.Node, id string) *html.Node {
	return findByID(root, id)
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
