package gemtext

import (
	"strings"

	"github.com/gemrst/rst2gem/pkg/rstree"
)

// Quote is a block quote. Each child's rendering is prefixed line-by-line
// with "> ", and children are separated by a quote-only line.
type Quote struct {
	origin
	Children []Node
}

// NewQuote creates a block quote with the given children.
func NewQuote(src *rstree.Node, children ...Node) *Quote {
	return &Quote{origin: origin{src}, Children: children}
}

func (q *Quote) Nodes() []Node { return q.Children }

func (q *Quote) Gemtext() (string, error) {
	parts := make([]string, 0, len(q.Children))
	for _, c := range q.Children {
		text, err := c.Gemtext()
		if err != nil {
			return "", err
		}
		parts = append(parts, "> "+strings.ReplaceAll(text, "\n", "\n> "))
	}
	return strings.Join(parts, "\n> \n"), nil
}

// List is a bullet list. Item children get the "* " sigil; group children
// (nested lists already re-homed by the translator) render as-is.
type List struct {
	origin
	Children []Node
}

// NewList creates a bullet list with the given children.
func NewList(src *rstree.Node, children ...Node) *List {
	return &List{origin: origin{src}, Children: children}
}

func (l *List) Nodes() []Node { return l.Children }

func (l *List) Gemtext() (string, error) {
	parts := make([]string, 0, len(l.Children))
	for _, c := range l.Children {
		text, err := c.Gemtext()
		if err != nil {
			return "", err
		}
		if _, ok := c.(*Item); ok {
			text = "* " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n"), nil
}

// EnumList is an enumerated list. The counter starts at Start and advances
// for every child, item or not; only item children render a number.
type EnumList struct {
	origin
	Children []Node
	Type     EnumType
	Prefix   string
	Suffix   string
	Start    int
}

// NewEnumList creates an enumerated list with the default "." suffix and
// start index 1.
func NewEnumList(src *rstree.Node, typ EnumType) *EnumList {
	return &EnumList{origin: origin{src}, Type: typ, Suffix: ".", Start: 1}
}

func (l *EnumList) Nodes() []Node { return l.Children }

func (l *EnumList) Gemtext() (string, error) {
	parts := make([]string, 0, len(l.Children))
	index := l.Start
	for _, c := range l.Children {
		text, err := c.Gemtext()
		if err != nil {
			return "", err
		}
		if _, ok := c.(*Item); ok {
			text = l.Prefix + l.Type.Format(index) + l.Suffix + " " + text
		}
		index++
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n"), nil
}

// Figure is an image with an optional caption: normally one link and one
// paragraph, merged by the translator's figure rules.
type Figure struct {
	origin
	Children []Node
}

// NewFigure creates a figure with the given children.
func NewFigure(src *rstree.Node, children ...Node) *Figure {
	return &Figure{origin: origin{src}, Children: children}
}

func (f *Figure) Nodes() []Node { return f.Children }

func (f *Figure) Gemtext() (string, error) {
	return renderJoin(f.Children, "\n")
}

// admonitionLabels are the fixed icon labels for typed admonitions.
var admonitionLabels = map[string]string{
	"note":      "ℹ️ Note",
	"hint":      "💡 Hint",
	"tip":       "💡 Tip",
	"important": "⚠️ Important",
	"attention": "⚠️ Attention",
	"warning":   "⚠️ Warning",
	"caution":   "⚠️ Caution",
	"danger":    "🔥 Danger",
}

// AdmonitionLabel returns the fixed icon label for a typed admonition, or ""
// for the generic untyped construct.
func AdmonitionLabel(typ string) string {
	return admonitionLabels[typ]
}

// Admonition is a callout block. Type is the admonition kind ("note",
// "warning", ...) or "" for the generic construct; Title overrides the fixed
// icon label when set.
type Admonition struct {
	origin
	Children []Node
	Type     string
	Title    string
}

// NewAdmonition creates an admonition of the given type.
func NewAdmonition(src *rstree.Node, typ string) *Admonition {
	return &Admonition{origin: origin{src}, Type: typ}
}

func (a *Admonition) Nodes() []Node { return a.Children }

func (a *Admonition) Gemtext() (string, error) {
	title := a.Title
	if title == "" {
		title = AdmonitionLabel(a.Type)
	}
	body, err := renderJoin(a.Children, "\n")
	if err != nil {
		return "", err
	}
	rule := strings.Repeat("-", 80)
	return strings.Join([]string{rule, title, rule, body, rule}, "\n"), nil
}

// SystemMessage carries a parser diagnostic. It is routed to the diagnostics
// list during translation and never serialized into the output sequence.
type SystemMessage struct {
	origin
	Children []Node
	Level    int
	Source   string
	Line     int
	MsgType  string
}

// NewSystemMessage creates a diagnostic node.
func NewSystemMessage(src *rstree.Node, level int, source string, line int, msgType string) *SystemMessage {
	return &SystemMessage{
		origin:  origin{src},
		Level:   level,
		Source:  source,
		Line:    line,
		MsgType: msgType,
	}
}

func (m *SystemMessage) Nodes() []Node { return m.Children }

func (m *SystemMessage) Gemtext() (string, error) {
	return renderJoin(m.Children, "\n")
}
