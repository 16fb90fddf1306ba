// Package translate converts a parsed reStructuredText document tree into
// Gemtext. A stateful visitor receives paired enter/leave events for every
// tree node, collects typed Gemtext nodes on a stack of open-group frames,
// applies per-construct restructuring rules on each leave event, and finally
// serializes the flat node sequence.
package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/gemrst/rst2gem/pkg/config"
	"github.com/gemrst/rst2gem/pkg/gemtext"
	"github.com/gemrst/rst2gem/pkg/rstree"
)

// Structural failures. All three indicate a translation bug or malformed
// input; the conversion aborts with no partial output.
var (
	// ErrNoAcceptingNode means literal text arrived while no node was
	// accepting text.
	ErrNoAcceptingNode = errors.New("text with no accepting node")

	// ErrUnexpectedChild means a reference contained a child kind the
	// translator does not support.
	ErrUnexpectedChild = errors.New("unexpected child")

	// ErrMarkerNotFound means a construct's leave event did not match the
	// innermost open frame.
	ErrMarkerNotFound = errors.New("group marker not found")
)

// Diagnostic is one parser-level message surfaced alongside the output.
type Diagnostic struct {
	Source string
	Line   int
	Level  int
	Type   string
	Body   string
}

// severityNames maps docutils system-message levels to their names.
var severityNames = map[int]string{
	1: "INFO",
	2: "WARNING",
	3: "ERROR",
	4: "SEVERE",
}

// Severity returns the name of the diagnostic's level.
func (d Diagnostic) Severity() string {
	if name, ok := severityNames[d.Level]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL-%d", d.Level)
}

// Result is a completed conversion: the Gemtext output and the ordered
// diagnostics collected along the way. Diagnostics are never embedded in
// the output text.
type Result struct {
	Output      string
	Diagnostics []Diagnostic
}

// Translate converts a parsed document to Gemtext. The conversion is a pure
// function of the document (tree plus raw source text); fatal structural
// errors abort with no partial output, while parser diagnostics are
// collected and returned with the output.
func Translate(doc *rstree.Document, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	v := newVisitor(doc, cfg)
	if err := rstree.Walk(doc.Root, v); err != nil {
		return nil, err
	}
	output, err := gemtext.Render(v.output)
	if err != nil {
		return nil, err
	}
	return &Result{Output: output, Diagnostics: v.diags}, nil
}

// Parser produces a document tree from raw source text. It is implemented
// by parser/rst and kept as an interface so the translation core never
// depends on a concrete parser.
type Parser interface {
	Parse(ctx context.Context, source string, content []byte) (*rstree.Document, error)
}

// Converter binds a parser and a configuration into a one-call conversion.
type Converter struct {
	parser Parser
	cfg    *config.Config
}

// NewConverter creates a converter. A nil cfg uses the defaults.
func NewConverter(parser Parser, cfg *config.Config) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Converter{parser: parser, cfg: cfg}
}

// Convert parses and translates one document.
func (c *Converter) Convert(ctx context.Context, source string, content []byte) (*Result, error) {
	doc, err := c.parser.Parse(ctx, source, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return Translate(doc, c.cfg)
}

// visitor holds the state of one translation pass. Each pass owns its own
// stack and diagnostics list; concurrent conversions of independent
// documents need no coordination.
type visitor struct {
	doc *rstree.Document
	cfg *config.Config

	stack frameStack

	// text is the node currently accepting inline text, nil while a
	// non-text construct is open so stray text fails loudly.
	text gemtext.TextSink

	// sectionLevel is the current section nesting depth, read by titles.
	sectionLevel int

	// skip marks the root of an opaque subtree being suspended, nil when
	// processing normally.
	skip *rstree.Node

	diags  []Diagnostic
	output []gemtext.Node
}

func newVisitor(doc *rstree.Document, cfg *config.Config) *visitor {
	return &visitor{doc: doc, cfg: cfg}
}

// Enter dispatches a node's enter event through the handler table.
func (v *visitor) Enter(n *rstree.Node) error {
	if v.skip != nil {
		return nil
	}
	if h, ok := handlerTable[n.Kind]; ok && h.enter != nil {
		return h.enter(v, n)
	}
	return nil
}

// Leave dispatches a node's leave event, clearing the skip marker when the
// opaque subtree's own leave is observed.
func (v *visitor) Leave(n *rstree.Node) error {
	if v.skip != nil {
		if v.skip == n {
			v.skip = nil
		}
		return nil
	}
	if h, ok := handlerTable[n.Kind]; ok && h.leave != nil {
		return h.leave(v, n)
	}
	return nil
}
