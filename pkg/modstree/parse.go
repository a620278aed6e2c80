package modstree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrNoRoot is returned when a document has no root element.
var ErrNoRoot = errors.New("xml document has no root element")

// Parse reads an XML document into a tree rooted at a single-key map
// {rootTag: root}. Keys keep their namespace prefixes; see Normalize.
// Parsing is permissive so slightly malformed documents still yield a tree.
func Parse(data []byte) (*Node, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, ErrNoRoot
	}
	return NewMap().Set(root.FullTag(), FromElement(root)), nil
}

// FromElement converts one element. An element with neither attributes nor
// child elements becomes a Scalar, or nil when it has no text. Everything else
// becomes a Map with "@attr" keys, child keys and a "#text" key for its text.
// Repeated child tags are collected into a Group in document order.
func FromElement(el *etree.Element) *Node {
	if el == nil {
		return nil
	}
	text := elementText(el)
	attrs := dataAttrs(el)
	children := el.ChildElements()

	if len(attrs) == 0 && len(children) == 0 {
		if text == "" {
			return nil
		}
		return Scalar(text)
	}

	m := NewMap()
	for _, a := range attrs {
		m.Set(AttrPrefix+a.FullKey(), Scalar(a.Value))
	}
	for _, child := range children {
		m.append(child.FullTag(), FromElement(child))
	}
	if text != "" {
		m.Set(TextKey, Scalar(text))
	}
	return m
}

// elementText joins the element's own character data, ignoring descendants.
func elementText(el *etree.Element) string {
	var sb strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			sb.WriteString(cd.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}

// dataAttrs drops namespace declarations, which carry no record data.
func dataAttrs(el *etree.Element) []etree.Attr {
	out := make([]etree.Attr, 0, len(el.Attr))
	for _, a := range el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		out = append(out, a)
	}
	return out
}
