package translate

import (
	"regexp"
	"strings"

	"github.com/gemrst/rst2gem/pkg/gemtext"
	"github.com/gemrst/rst2gem/pkg/rstree"
)

var leadingWhitespace = regexp.MustCompile(`^[ \t]*`)

// extractTableText recovers the verbatim source excerpt for a table.
// Gemtext has no tabular construct, so the table is reproduced exactly as
// written: the collected sub-nodes are flattened, every origin-bearing
// source descendant contributes a line span, and the union of the spans
// (padded by one line on each side to cover the table borders) is sliced
// out of the raw source and dedented.
func extractTableText(raw string, collected []gemtext.Node) (body, label string) {
	flat := flatten(collected)

	first, last := 0, 0
	for _, node := range flat {
		if title, ok := node.(*gemtext.Title); ok {
			if label == "" {
				label = collapse(title.Text)
			}
			continue
		}
		src := node.Origin()
		if src == nil {
			continue
		}
		for _, desc := range rstree.FindAll(src, func(d *rstree.Node) bool { return d.Line > 0 }) {
			start := desc.Line
			end := start + gemtext.CountLines(desc.PlainText()) - 1
			if first == 0 || start < first {
				first = start
			}
			if end > last {
				last = end
			}
		}
	}
	if first == 0 {
		return "", label
	}

	lines := strings.Split(raw, "\n")
	lo := max(first-1, 1)
	hi := min(last+1, len(lines))
	sliced := lines[lo-1 : hi]

	indent := len(leadingWhitespace.FindString(sliced[0]))
	dedented := make([]string, len(sliced))
	for i, line := range sliced {
		dedented[i] = line[min(indent, len(line)):]
	}
	return strings.Join(dedented, "\n"), label
}

// flatten expands groups recursively into the flat list of their leaves,
// keeping document order.
func flatten(nodes []gemtext.Node) []gemtext.Node {
	var flat []gemtext.Node
	for _, n := range nodes {
		if group, ok := n.(gemtext.Group); ok {
			flat = append(flat, flatten(group.Nodes())...)
			continue
		}
		flat = append(flat, n)
	}
	return flat
}
