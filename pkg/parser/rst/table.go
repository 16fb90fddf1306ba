package rst

import (
	"regexp"
	"strings"

	"github.com/gemrst/rst2gem/pkg/rstree"
)

var (
	gridBorderRe   = regexp.MustCompile(`^\+[-=+]+\+\s*$`)
	gridRowRe      = regexp.MustCompile(`^[|+]`)
	simpleBorderRe = regexp.MustCompile(`^=+( +=+)+\s*$`)
)

// parseTable consumes a grid or simple table. Cell structure is not
// modeled: the translator reproduces tables verbatim from the raw source,
// so each content row becomes a paragraph carrying its source line number,
// which is exactly what the verbatim extraction needs to find the table's
// line span.
func (p *parseState) parseTable(ls []line, i int) (*rstree.Node, int) {
	if gridBorderRe.MatchString(ls[i].text) {
		return p.parseGridTable(ls, i)
	}
	return p.parseSimpleTable(ls, i)
}

func (p *parseState) parseGridTable(ls []line, i int) (*rstree.Node, int) {
	table := rstree.NewNode(rstree.KindTable, ls[i].num)
	start := i
	for i < len(ls) && gridRowRe.MatchString(ls[i].text) {
		i++
	}
	if i == start+1 || !gridBorderRe.MatchString(ls[i-1].text) {
		// No closing border; docutils reports malformed tables rather than
		// guessing at their extent.
		table.Append(p.systemMessage(3, ls[start].num, "ERROR", "Malformed table."))
	}
	for _, l := range ls[start:i] {
		if gridBorderRe.MatchString(l.text) {
			continue
		}
		table.Append(p.tableRow(l))
	}
	return table, i
}

func (p *parseState) parseSimpleTable(ls []line, i int) (*rstree.Node, int) {
	table := rstree.NewNode(rstree.KindTable, ls[i].num)
	start := i
	i++
	end := -1
	for i < len(ls) && !isBlank(ls[i].text) {
		if simpleBorderRe.MatchString(ls[i].text) &&
			(i+1 >= len(ls) || isBlank(ls[i+1].text)) {
			end = i
			i++
			break
		}
		i++
	}
	if end < 0 {
		table.Append(p.systemMessage(3, ls[start].num, "ERROR", "Malformed table."))
		end = i
	}
	for _, l := range ls[start:end] {
		if simpleBorderRe.MatchString(l.text) {
			continue
		}
		table.Append(p.tableRow(l))
	}
	return table, i
}

// tableRow wraps one content row in a paragraph so it carries an origin
// line and plain text for span computation.
func (p *parseState) tableRow(l line) *rstree.Node {
	row := rstree.NewNode(rstree.KindParagraph, l.num)
	row.Append(rstree.NewText(strings.Trim(l.text, "|+ "), l.num))
	return row
}
