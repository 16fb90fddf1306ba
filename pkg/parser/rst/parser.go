// Package rst provides the reStructuredText parser producing the document
// tree the translator consumes. It covers the construct subset the converter
// understands: sections, paragraphs, lists, literal blocks, block quotes,
// directives, tables, targets and references. Malformed constructs degrade
// to system_message diagnostics, never to parse failures.
package rst

import (
	"context"
	"fmt"
	"strings"

	"github.com/gemrst/rst2gem/pkg/rstree"
)

// Parser parses reStructuredText documents.
type Parser struct{}

// New creates a parser.
func New() *Parser {
	return &Parser{}
}

// Parse converts raw reStructuredText into a document tree. The raw source
// text is retained on the document for verbatim table reproduction. Returns
// an error only on context cancellation; malformed markup is reported
// through system_message nodes in the tree.
func (p *Parser) Parse(ctx context.Context, source string, content []byte) (*rstree.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	raw := string(content)
	state := &parseState{
		source:  source,
		targets: make(map[string]string),
	}

	root := rstree.NewNode(rstree.KindDocument, 1)
	root.SetAttr("source", source)
	state.parseBody(splitLines(raw), root)
	state.resolveReferences(root)

	return &rstree.Document{Root: root, Source: source, Raw: raw}, nil
}

// line is one source line with its original 1-based number. Nested blocks
// are dedented copies that keep their numbers.
type line struct {
	text string
	num  int
}

// parseState carries the per-document parser state.
type parseState struct {
	source string

	// sectionStyles maps adornment styles to section levels, in order of
	// first appearance.
	sectionStyles []string

	// targets maps normalized hyperlink target names to URIs (or to other
	// reference names for indirect targets).
	targets map[string]string

	// anonTargets are anonymous target URIs in document order, consumed by
	// anonymous references in the same order.
	anonTargets []string
}

func splitLines(raw string) []line {
	parts := strings.Split(raw, "\n")
	lines := make([]line, len(parts))
	for i, text := range parts {
		lines[i] = line{text: strings.TrimRight(text, "\r"), num: i + 1}
	}
	return lines
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

// normalizeName lowercases and whitespace-normalizes a reference name.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// systemMessage builds an inline diagnostic node.
func (p *parseState) systemMessage(level int, lineNum int, msgType, text string) *rstree.Node {
	msg := rstree.NewNode(rstree.KindSystemMessage, lineNum)
	msg.SetAttr("level", level)
	msg.SetAttr("type", msgType)
	msg.SetAttr("line", lineNum)
	msg.SetAttr("source", p.source)
	para := rstree.NewNode(rstree.KindParagraph, lineNum)
	para.Append(rstree.NewText(text, lineNum))
	msg.Append(para)
	return msg
}

// resolveReferences fills refuri on named references whose targets were
// declared elsewhere in the document, following indirect target chains.
// References that stay unresolved keep their refname; rendering them is a
// hard failure downstream.
func (p *parseState) resolveReferences(root *rstree.Node) {
	refs := rstree.FindAll(root, func(n *rstree.Node) bool {
		return n.Kind == rstree.KindReference && n.Attr("refuri") == ""
	})
	anon := p.anonTargets
	for _, ref := range refs {
		if ref.AttrInt("anonymous", 0) == 1 {
			if len(anon) > 0 {
				ref.SetAttr("refuri", anon[0])
				anon = anon[1:]
			}
			continue
		}
		name := ref.Attr("refname")
		if name == "" {
			continue
		}
		uri, ok, circular := p.lookupTarget(name)
		if circular {
			root.Append(p.systemMessage(3, ref.Line, "ERROR", fmt.Sprintf(
				"Indirect hyperlink target %q forms a circular reference.", name)))
			continue
		}
		if ok {
			ref.SetAttr("refuri", uri)
		}
	}
}

// lookupTarget resolves a target name, following indirect chains with a
// depth guard. Chains longer than the guard are reported as circular and
// left unresolved.
func (p *parseState) lookupTarget(name string) (uri string, ok, circular bool) {
	const maxChain = 32
	seen := 0
	for {
		uri, found := p.targets[normalizeName(name)]
		if !found {
			return "", false, false
		}
		// An indirect target points at another reference name.
		if strings.HasSuffix(uri, "_") && !strings.HasSuffix(uri, "\\_") {
			if seen++; seen > maxChain {
				return "", false, true
			}
			name = strings.TrimSuffix(uri, "_")
			name = strings.Trim(name, "`")
			continue
		}
		return uri, true, false
	}
}
