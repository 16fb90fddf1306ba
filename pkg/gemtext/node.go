// Package gemtext defines the Gemtext output node model. Each node renders
// itself to a line or block of Gemtext; the serializer joins a finished node
// sequence into the final document.
package gemtext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gemrst/rst2gem/pkg/rstree"
)

// ErrMissingURI is returned when a link is rendered without a resolved URI.
var ErrMissingURI = errors.New("link has no target URI")

// Node is a unit of Gemtext output.
type Node interface {
	// Gemtext renders the node to its textual form.
	Gemtext() (string, error)

	// Origin returns the source tree node that produced this node. It is
	// used only for identity comparison during grouping, never traversed.
	Origin() *rstree.Node
}

// TextSink is implemented by nodes that accumulate inline text during
// translation.
type TextSink interface {
	Node
	AppendText(text string)
}

// Group is implemented by nodes that own an ordered list of children.
type Group interface {
	Node
	Nodes() []Node
}

// CollapseNewlines replaces every line break with a single space. The three
// line-ending conventions (LF, CR LF, lone CR) each count as one break.
func CollapseNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "\r", " ")
}

// CountLines returns the number of lines in text, counting each of the
// three line-ending conventions as a single break.
func CountLines(text string) int {
	n := 1
	n += strings.Count(text, "\r\n")
	text = strings.ReplaceAll(text, "\r\n", "")
	n += strings.Count(text, "\n")
	n += strings.Count(text, "\r")
	return n
}

// origin provides the Origin accessor shared by all node types.
type origin struct {
	src *rstree.Node
}

func (o origin) Origin() *rstree.Node { return o.src }

// Paragraph is a plain text block. Internal line breaks are collapsed to
// single spaces when rendered.
type Paragraph struct {
	origin
	Text string
}

// NewParagraph creates an empty paragraph originating from src.
func NewParagraph(src *rstree.Node) *Paragraph {
	return &Paragraph{origin: origin{src}}
}

func (p *Paragraph) AppendText(text string) { p.Text += text }

func (p *Paragraph) Gemtext() (string, error) {
	return strings.TrimSpace(CollapseNewlines(p.Text)), nil
}

// Title is a heading. The rendered level is clamped to [1,3] no matter how
// deeply the source sections nest.
type Title struct {
	origin
	Text  string
	Level int
}

// NewTitle creates an empty title at the given section level.
func NewTitle(src *rstree.Node, level int) *Title {
	return &Title{origin: origin{src}, Level: level}
}

func (t *Title) AppendText(text string) { t.Text += text }

func (t *Title) Gemtext() (string, error) {
	level := min(max(t.Level, 1), 3)
	return strings.Repeat("#", level) + " " + strings.TrimSpace(CollapseNewlines(t.Text)), nil
}

// Pre is a preformatted block. Its text is reproduced byte-for-byte between
// fences; Alt is the optional label on the opening fence.
type Pre struct {
	origin
	Text string
	Alt  string
}

// NewPre creates an empty preformatted block.
func NewPre(src *rstree.Node) *Pre {
	return &Pre{origin: origin{src}}
}

func (p *Pre) AppendText(text string) { p.Text += text }

func (p *Pre) Gemtext() (string, error) {
	return "```" + p.Alt + "\n" + p.Text + "\n```", nil
}

// Item is a list item. Text accumulates like a paragraph and is collapsed
// when rendered; the "* " sigil is added by the enclosing list.
type Item struct {
	origin
	Text string
}

// NewItem creates an empty list item.
func NewItem(src *rstree.Node) *Item {
	return &Item{origin: origin{src}}
}

func (i *Item) AppendText(text string) { i.Text += text }

func (i *Item) Gemtext() (string, error) {
	return strings.TrimSpace(CollapseNewlines(i.Text)), nil
}

// Link is a Gemtext link line. URI must be resolved before serialization;
// Text defaults to the URI when empty.
type Link struct {
	origin
	URI  string
	Text string

	// Refname is the symbolic reference name awaiting resolution when the
	// source gave no direct target.
	Refname string
}

// NewLink creates a link originating from src.
func NewLink(src *rstree.Node, uri, text string) *Link {
	return &Link{origin: origin{src}, URI: uri, Text: text}
}

// DisplayText returns the link's display text, defaulting to the URI.
func (l *Link) DisplayText() string {
	if l.Text == "" {
		return l.URI
	}
	return l.Text
}

func (l *Link) Gemtext() (string, error) {
	if l.URI == "" {
		if l.Refname != "" {
			return "", fmt.Errorf("%w: unresolved reference %q", ErrMissingURI, l.Refname)
		}
		return "", fmt.Errorf("%w: %q", ErrMissingURI, l.Text)
	}
	text := l.DisplayText()
	if text == l.URI {
		return "=> " + l.URI, nil
	}
	return "=> " + l.URI + " " + text, nil
}

// Links is a group of links rendered one per line.
type Links struct {
	origin
	Children []Node
}

// NewLinks creates a link group from the given links.
func NewLinks(src *rstree.Node, links ...Node) *Links {
	return &Links{origin: origin{src}, Children: links}
}

func (l *Links) Nodes() []Node { return l.Children }

func (l *Links) Gemtext() (string, error) {
	return renderJoin(l.Children, "\n")
}

// Separator is a horizontal rule.
type Separator struct {
	origin
}

// NewSeparator creates a separator originating from src.
func NewSeparator(src *rstree.Node) *Separator {
	return &Separator{origin: origin{src}}
}

func (s *Separator) Gemtext() (string, error) {
	return strings.Repeat("-", 80), nil
}

// Raw is a verbatim passthrough block tagged with its source format. Blocks
// in foreign formats are discarded by the translator; only blocks whose
// format names Gemtext itself survive to rendering.
type Raw struct {
	origin
	Text   string
	Format string
}

// NewRaw creates an empty raw block tagged with format.
func NewRaw(src *rstree.Node, format string) *Raw {
	return &Raw{origin: origin{src}, Format: format}
}

func (r *Raw) AppendText(text string) { r.Text += text }

func (r *Raw) Gemtext() (string, error) {
	return r.Text, nil
}

// renderJoin renders each node and joins the results with sep.
func renderJoin(nodes []Node, sep string) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		text, err := n.Gemtext()
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, sep), nil
}
