package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment is a detached list of nodes, typically the content of a
// <template>. Inserting a fragment copies it, so one fragment can be
// mounted any number of times.
type Fragment struct {
	nodes []*html.Node
}

// NewFragment copies nodes into a fragment.
func NewFragment(nodes ...*html.Node) *Fragment {
	f := &Fragment{}
	for _, n := range nodes {
		f.nodes = append(f.nodes, cloneNode(n))
	}
	return f
}

// ParseFragment parses markup as body content.
func ParseFragment(markup string) (*Fragment, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return &Fragment{nodes: nodes}, nil
}

// ContentOf returns the content of a template element, or the children of
// any other element.
func ContentOf(n *html.Node) *Fragment {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	return NewFragment(children...)
}

// Len returns the number of top-level nodes.
func (f *Fragment) Len() int { return len(f.nodes) }

// HTML renders the fragment.
func (f *Fragment) HTML() string {
	var buf bytes.Buffer
	for _, n := range f.nodes {
		_ = html.Render(&buf, n)
	}
	return buf.String()
}

func (f *Fragment) clone() []*html.Node {
	out := make([]*html.Node, 0, len(f.nodes))
	for _, n := range f.nodes {
		out = append(out, cloneNode(n))
	}
	return out
}
