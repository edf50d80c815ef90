// Package dom is a small, goroutine-safe HTML document model on top of
// golang.org/x/net/html. It offers the subset of the browser DOM the SPA
// shell relies on: CSS selectors, class and attribute manipulation,
// fragment insertion and bubbling event dispatch.
//
// All access goes through Document and Element so that the tree is only
// mutated under the document lock. Event listeners run outside the lock and
// may freely call back into the document.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const skeleton = `<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8"><title></title></head><body></body></html>`

// Document is an HTML document with event listeners attached to its nodes.
type Document struct {
	mu        sync.Mutex
	root      *html.Node
	nextID    uint64
	listeners map[*html.Node][]registration
	global    []registration
}

type registration struct {
	id  uint64
	typ string
	fn  Listener
}

// New returns an empty document: html, head with an empty title, body.
func New() *Document {
	d, err := Parse(strings.NewReader(skeleton))
	if err != nil {
		panic(fmt.Sprintf("dom: parse skeleton: %v", err))
	}
	return d
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{
		root:      root,
		listeners: make(map[*html.Node][]registration),
	}, nil
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, n: n}
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// Head returns the head element.
func (d *Document) Head() *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(querySelector(d.root, "head"))
}

// Body returns the body element.
func (d *Document) Body() *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(querySelector(d.root, "body"))
}

// Title returns the text of the document title.
func (d *Document) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := querySelector(d.root, "title")
	if t == nil {
		return ""
	}
	return textContent(t)
}

// SetTitle replaces the document title, creating the title element when
// the head has none.
func (d *Document) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := querySelector(d.root, "title")
	if t == nil {
		head := querySelector(d.root, "head")
		if head == nil {
			return
		}
		t = newElement("title")
		head.AppendChild(t)
	}
	setText(t, title)
}

// GetElementByID returns the element with the given id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(findByID(d.root, id))
}

// QuerySelector returns the first element matching sel, or nil.
func (d *Document) QuerySelector(sel string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(querySelector(d.root, sel))
}

// QuerySelectorAll returns every element matching sel in document order.
func (d *Document) QuerySelectorAll(sel string) []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrapAll(querySelectorAll(d.root, sel))
}

// CreateElement returns a detached element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	return d.wrap(newElement(tag))
}

// HTML renders the whole document.
func (d *Document) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var buf bytes.Buffer
	_ = html.Render(&buf, d.root)
	return buf.String()
}

// AddEventListener registers fn for events of type typ reaching the
// document. The returned func removes the listener.
func (d *Document) AddEventListener(typ string, fn Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.global = append(d.global, registration{id: id, typ: typ, fn: fn})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.global = removeRegistration(d.global, id)
	}
}

func (d *Document) addNodeListener(n *html.Node, typ string, fn Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.listeners[n] = append(d.listeners[n], registration{id: id, typ: typ, fn: fn})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		regs := removeRegistration(d.listeners[n], id)
		if len(regs) == 0 {
			delete(d.listeners, n)
			return
		}
		d.listeners[n] = regs
	}
}

// ListenerCount reports how many listeners are attached, document-level
// ones included.
func (d *Document) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := len(d.global)
	for _, regs := range d.listeners {
		total += len(regs)
	}
	return total
}

func (d *Document) forgetSubtree(n *html.Node) {
	delete(d.listeners, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forgetSubtree(c)
	}
}

func removeRegistration(regs []registration, id uint64) []registration {
	for i, r := range regs {
		if r.id == id {
			return append(regs[:i:i], regs[i+1:]...)
		}
	}
	return regs
}

func newElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func setText(n *html.Node, s string) {
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// cloneNode deep-copies n. The copy is detached.
func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}
