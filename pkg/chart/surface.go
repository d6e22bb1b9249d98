package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ErrSurfaceNotFound is returned when a selector matches nothing in a Document.
var ErrSurfaceNotFound = errors.New("drawing surface not found")

const svgNamespace = "http://www.w3.org/2000/svg"

// Element is a node of an SVG document tree.
type Element struct {
	node *etree.Element
}

func wrap(n *etree.Element) *Element {
	if n == nil {
		return nil
	}
	return &Element{node: n}
}

// NewElement returns a detached element.
func NewElement(name string) *Element {
	return wrap(etree.NewElement(name))
}

// Name returns the tag name.
func (e *Element) Name() string {
	return e.node.Tag
}

// Is reports whether e and other are the same node.
func (e *Element) Is(other *Element) bool {
	return other != nil && e.node == other.node
}

// Append creates a child element at the end of e and returns it.
func (e *Element) Append(name string) *Element {
	return wrap(e.node.CreateElement(name))
}

// AppendChild moves c, detaching it from its current parent, to the end of e.
func (e *Element) AppendChild(c *Element) *Element {
	e.node.AddChild(c.node)
	return c
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if p := e.node.Parent(); p != nil {
		p.RemoveChild(e.node)
	}
}

// Parent returns the parent element or nil.
func (e *Element) Parent() *Element {
	p := e.node.Parent()
	// the root of a Document hangs off an untagged document node
	if p == nil || p.Tag == "" {
		return nil
	}
	return wrap(p)
}

// Children returns the direct children of e.
func (e *Element) Children() []*Element {
	children := e.node.ChildElements()
	out := make([]*Element, len(children))
	for i, c := range children {
		out[i] = wrap(c)
	}
	return out
}

// Clear removes every child of e.
func (e *Element) Clear() {
	for _, c := range e.node.ChildElements() {
		e.node.RemoveChild(c)
	}
}

// SetAttr sets or replaces an attribute and returns e for chaining.
func (e *Element) SetAttr(name, value string) *Element {
	e.node.CreateAttr(name, value)
	return e
}

// SetNum sets a numeric attribute.
func (e *Element) SetNum(name string, v float64) *Element {
	return e.SetAttr(name, formatNum(v))
}

// Attr returns the value of an attribute.
func (e *Element) Attr(name string) (string, bool) {
	a := e.node.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// Num returns a numeric attribute, or NaN if it is missing or not a number.
func (e *Element) Num(name string) float64 {
	v, ok := e.Attr(name)
	if !ok {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// SetText replaces the character data of e.
func (e *Element) SetText(s string) *Element {
	e.node.SetText(s)
	return e
}

// Text returns the character data of e.
func (e *Element) Text() string {
	return e.node.Text()
}

// HasClass reports whether the class attribute of e contains c.
func (e *Element) HasClass(c string) bool {
	return slices.Contains(strings.Fields(e.node.SelectAttrValue("class", "")), c)
}

// SelectAll returns every descendant of e matching selector, in document order.
func (e *Element) SelectAll(selector string) []*Element {
	sel := parseSelector(selector)
	if sel.empty() {
		return nil
	}

	found := make(map[*etree.Element]bool)
	for _, n := range e.node.FindElements(".//" + sel.path()) {
		if sel.matchesClasses(n) {
			found[n] = true
		}
	}
	if len(found) == 0 {
		return nil
	}

	// etree walks descendants breadth first
	out := make([]*Element, 0, len(found))
	var walk func(*etree.Element)
	walk = func(n *etree.Element) {
		for _, c := range n.ChildElements() {
			if found[c] {
				out = append(out, wrap(c))
			}
			walk(c)
		}
	}
	walk(e.node)
	return out
}

// Select returns the first descendant of e matching selector, or nil.
func (e *Element) Select(selector string) *Element {
	if all := e.SelectAll(selector); len(all) > 0 {
		return all[0]
	}
	return nil
}

// childWithClass returns the first direct child of e carrying class c.
func (e *Element) childWithClass(c string) *Element {
	for _, child := range e.node.ChildElements() {
		if slices.Contains(strings.Fields(child.SelectAttrValue("class", "")), c) {
			return wrap(child)
		}
	}
	return nil
}

// WriteTo serializes e and its subtree as XML.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	doc := etree.NewDocument()
	doc.SetRoot(e.node.Copy())
	return doc.WriteTo(w)
}

// String returns the XML serialization of e.
func (e *Element) String() string {
	var sb strings.Builder
	_, _ = e.WriteTo(&sb)
	return sb.String()
}

// Document is a drawing surface: a tree of elements addressable by selector.
type Document struct {
	doc  *etree.Document
	root *Element
}

// NewDocument makes a detached element the root of a new document.
func NewDocument(root *Element) *Document {
	doc := etree.NewDocument()
	doc.SetRoot(root.node)
	return &Document{doc: doc, root: root}
}

// NewSVGDocument returns a document holding a single, empty <svg> element with the given id.
func NewSVGDocument(id string) *Document {
	root := NewElement("svg").SetAttr("xmlns", svgNamespace)
	if id != "" {
		root.SetAttr("id", id)
	}
	return NewDocument(root)
}

// Root returns the root element.
func (d *Document) Root() *Element {
	return d.root
}

// Select returns the first element, the root included, matching selector.
func (d *Document) Select(selector string) (*Element, error) {
	sel := parseSelector(selector)
	if !sel.empty() {
		if sel.matches(d.root.node) {
			return d.root, nil
		}
		if el := d.root.Select(selector); el != nil {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSurfaceNotFound, selector)
}

// Render writes the document as standalone XML.
func (d *Document) Render(w io.Writer) error {
	_, err := d.doc.WriteTo(w)
	return err
}

// selector is a compound simple selector such as "g", "#yearHisto" or "g.x.axis".
type selector struct {
	tag     string
	id      string
	classes []string
}

func parseSelector(s string) selector {
	var sel selector
	s = strings.TrimSpace(s)
	cut := func(s string) (string, string) {
		i := strings.IndexAny(s, "#.")
		if i < 0 {
			return s, ""
		}
		return s[:i], s[i:]
	}
	sel.tag, s = cut(s)
	for s != "" {
		kind := s[0]
		var tok string
		tok, s = cut(s[1:])
		switch kind {
		case '#':
			sel.id = tok
		case '.':
			sel.classes = append(sel.classes, tok)
		}
	}
	return sel
}

func (sel selector) empty() bool {
	return sel.tag == "" && sel.id == "" && len(sel.classes) == 0
}

// path is the etree path step matching the tag and id of sel. Classes are
// whitespace separated lists, which etree paths cannot match.
func (sel selector) path() string {
	step := sel.tag
	if step == "" {
		step = "*"
	}
	if sel.id != "" {
		step += "[@id='" + sel.id + "']"
	}
	return step
}

func (sel selector) matchesClasses(n *etree.Element) bool {
	classes := strings.Fields(n.SelectAttrValue("class", ""))
	for _, c := range sel.classes {
		if !slices.Contains(classes, c) {
			return false
		}
	}
	return true
}

func (sel selector) matches(n *etree.Element) bool {
	if sel.empty() {
		return false
	}
	if sel.tag != "" && sel.tag != n.Tag {
		return false
	}
	if sel.id != "" && n.SelectAttrValue("id", "") != sel.id {
		return false
	}
	return sel.matchesClasses(n)
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
