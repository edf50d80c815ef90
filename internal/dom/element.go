package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Element is a handle on an element node of a Document.
type Element struct {
	doc *Document
	n   *html.Node
}

// Same reports whether e and other refer to the same node.
func (e *Element) Same(other *Element) bool {
	return e != nil && other != nil && e.n == other.n
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.n.Data }

// ID returns the id attribute.
func (e *Element) ID() string { return e.Attr("id") }

// Attr returns the value of an attribute, or "" when absent.
func (e *Element) Attr(key string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return attr(e.n, key)
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(key string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	_, ok := lookupAttr(e.n, key)
	return ok
}

// Data returns the data-* attribute named key.
func (e *Element) Data(key string) string {
	return e.Attr("data-" + key)
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(key, val string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.n, key, val)
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(key string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeAttr(e.n, key)
}

// HasClass reports whether class is in the class list.
func (e *Element) HasClass(class string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return hasClass(e.n, class)
}

// AddClass adds classes that are not yet present.
func (e *Element) AddClass(classes ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	list := strings.Fields(attr(e.n, "class"))
	for _, c := range classes {
		if !contains(list, c) {
			list = append(list, c)
		}
	}
	setAttr(e.n, "class", strings.Join(list, " "))
}

// RemoveClass removes classes from the class list.
func (e *Element) RemoveClass(classes ...string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var kept []string
	for _, c := range strings.Fields(attr(e.n, "class")) {
		if !contains(classes, c) {
			kept = append(kept, c)
		}
	}
	setAttr(e.n, "class", strings.Join(kept, " "))
}

// ToggleClass flips class and reports whether it is now present.
func (e *Element) ToggleClass(class string) bool {
	if e.HasClass(class) {
		e.RemoveClass(class)
		return false
	}
	e.AddClass(class)
	return true
}

// Text returns the concatenated text content.
func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return textContent(e.n)
}

// SetText replaces the children with a single text node.
func (e *Element) SetText(s string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.forgetChildren(e.n)
	setText(e.n, s)
}

// InnerHTML renders the children of e.
func (e *Element) InnerHTML() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var buf bytes.Buffer
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// OuterHTML renders e itself.
func (e *Element) OuterHTML() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var buf bytes.Buffer
	_ = html.Render(&buf, e.n)
	return buf.String()
}

// SetInnerHTML parses markup in the context of e and replaces its children.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), contextNode(e.n))
	if err != nil {
		return fmt.Errorf("parse inner html: %w", err)
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.forgetChildren(e.n)
	removeChildren(e.n)
	for _, n := range nodes {
		e.n.AppendChild(n)
	}
	return nil
}

// AppendChild moves child under e as its last child.
func (e *Element) AppendChild(child *Element) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	detach(child.n)
	e.n.AppendChild(child.n)
}

// Prepend moves child under e as its first child.
func (e *Element) Prepend(child *Element) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	detach(child.n)
	if e.n.FirstChild == nil {
		e.n.AppendChild(child.n)
		return
	}
	e.n.InsertBefore(child.n, e.n.FirstChild)
}

// After inserts a copy of f immediately after e. e must be attached.
func (e *Element) After(f *Fragment) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	parent := e.n.Parent
	if parent == nil {
		return
	}
	ref := e.n.NextSibling
	for _, n := range f.clone() {
		if ref == nil {
			parent.AppendChild(n)
		} else {
			parent.InsertBefore(n, ref)
		}
	}
}

// AfterElement moves el immediately after e.
func (e *Element) AfterElement(el *Element) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	parent := e.n.Parent
	if parent == nil || el.n == e.n {
		return
	}
	detach(el.n)
	if e.n.NextSibling == nil {
		parent.AppendChild(el.n)
		return
	}
	parent.InsertBefore(el.n, e.n.NextSibling)
}

// Append inserts a copy of f as the last children of e.
func (e *Element) Append(f *Fragment) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for _, n := range f.clone() {
		e.n.AppendChild(n)
	}
}

// Remove detaches e from the tree and drops the listeners of its subtree.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	detach(e.n)
	e.doc.forgetSubtree(e.n)
}

// Attached reports whether e is still part of the document tree.
func (e *Element) Attached() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for n := e.n; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.n.Parent == nil || e.n.Parent.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(e.n.Parent)
}

// Closest returns the nearest inclusive ancestor matching sel.
func (e *Element) Closest(sel string) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.wrap(closest(e.n, sel))
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	target := nodeOf(other)
	if target == nil {
		return false
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for n := target; n != nil; n = n.Parent {
		if n == e.n {
			return true
		}
	}
	return false
}

// QuerySelector returns the first descendant matching sel.
func (e *Element) QuerySelector(sel string) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.wrap(querySelector(e.n, sel))
}

// QuerySelectorAll returns the descendants matching sel.
func (e *Element) QuerySelectorAll(sel string) []*Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.wrapAll(querySelectorAll(e.n, sel))
}

// Value returns the current value of a form control.
func (e *Element) Value() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	switch e.n.Data {
	case "textarea":
		return textContent(e.n)
	case "select":
		var first string
		for i, opt := range querySelectorAll(e.n, "option") {
			v, ok := lookupAttr(opt, "value")
			if !ok {
				v = textContent(opt)
			}
			if i == 0 {
				first = v
			}
			if _, sel := lookupAttr(opt, "selected"); sel {
				return v
			}
		}
		return first
	default:
		return attr(e.n, "value")
	}
}

// SetValue sets the value of a form control.
func (e *Element) SetValue(v string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	switch e.n.Data {
	case "textarea":
		setText(e.n, v)
	case "select":
		for _, opt := range querySelectorAll(e.n, "option") {
			ov, ok := lookupAttr(opt, "value")
			if !ok {
				ov = textContent(opt)
			}
			if ov == v {
				setAttr(opt, "selected", "")
			} else {
				removeAttr(opt, "selected")
			}
		}
	default:
		setAttr(e.n, "value", v)
	}
}

// Disabled reports whether the disabled attribute is present.
func (e *Element) Disabled() bool { return e.HasAttr("disabled") }

// SetDisabled adds or removes the disabled attribute.
func (e *Element) SetDisabled(disabled bool) {
	if disabled {
		e.SetAttr("disabled", "")
		return
	}
	e.RemoveAttr("disabled")
}

// Reset clears the values of the controls inside a form.
func (e *Element) Reset() {
	for _, c := range e.QuerySelectorAll("input") {
		c.RemoveAttr("value")
	}
	for _, c := range e.QuerySelectorAll("textarea") {
		c.SetText("")
	}
}

// AddEventListener attaches fn to events of type typ that reach e.
func (e *Element) AddEventListener(typ string, fn Listener) func() {
	return e.doc.addNodeListener(e.n, typ, fn)
}

func (d *Document) forgetChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forgetSubtree(c)
	}
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// contextNode returns a detached copy of n usable as html.ParseFragment
// context without holding the document lock.
func contextNode(n *html.Node) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom}
}
