// Package rstree defines the parsed reStructuredText document tree consumed
// by the translator. Nodes carry a closed kind, string-keyed attributes,
// ordered children, leaf text, and the 1-based source line they originate
// from. Node identity (pointer identity) is stable for the lifetime of a
// translation pass.
package rstree

import (
	"strconv"
	"strings"
)

// Node is a single node in the parsed document tree.
type Node struct {
	// Kind identifies what construct this node represents.
	Kind Kind

	// Attrs holds the node's attributes. Values are strings, ints, or
	// string slices; use the typed accessors below.
	Attrs map[string]any

	// Children are the node's ordered children.
	Children []*Node

	// Text is the literal content of leaf nodes (Text, and the verbatim
	// bodies of literal_block and raw).
	Text string

	// Line is the 1-based source line the node starts on, or 0 when the
	// origin is unknown.
	Line int
}

// NewNode creates a node of the given kind starting at the given source line.
func NewNode(kind Kind, line int) *Node {
	return &Node{Kind: kind, Line: line}
}

// NewText creates a text leaf.
func NewText(text string, line int) *Node {
	return &Node{Kind: KindText, Text: text, Line: line}
}

// Append adds children to the node, ignoring nils.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}

// SetAttr sets a single attribute, allocating the map on first use.
func (n *Node) SetAttr(name string, value any) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[name] = value
}

// Attr returns the string value of an attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	switch v := n.Attrs[name].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attrs[name]
	return ok
}

// AttrInt returns the integer value of an attribute, or def when absent or
// not a number.
func (n *Node) AttrInt(name string, def int) int {
	switch v := n.Attrs[name].(type) {
	case int:
		return v
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// AttrStrings returns the string-list value of an attribute, or nil.
func (n *Node) AttrStrings(name string) []string {
	switch v := n.Attrs[name].(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// PlainText returns the node's text content with all markup discarded.
// Leaf text is returned verbatim; inline containers join their children
// without separation; block containers join theirs with a blank line,
// matching the way reStructuredText processors flatten elements to text.
func (n *Node) PlainText() string {
	if n.Kind == KindText {
		return n.Text
	}
	if len(n.Children) == 0 {
		return n.Text
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, c.PlainText())
	}
	sep := "\n\n"
	if n.isTextContainer() {
		sep = ""
	}
	return strings.Join(parts, sep)
}

// isTextContainer reports whether the node's children are inline elements
// joined without separation when flattened to text.
func (n *Node) isTextContainer() bool {
	switch n.Kind {
	case KindParagraph, KindTitle, KindCaption, KindEmphasis, KindStrong,
		KindLiteral, KindReference, KindLiteralBlock, KindRaw:
		return true
	default:
		return false
	}
}

// Document is a parsed source document: the tree root plus the raw source
// text required for verbatim table reproduction.
type Document struct {
	// Root is the document element.
	Root *Node

	// Source identifies where the document came from (a path or "<stdin>").
	Source string

	// Raw is the original source text, read-only during translation.
	Raw string
}
