package rst

import (
	"regexp"
	"strings"

	"github.com/gemrst/rst2gem/pkg/rstree"
)

var (
	bulletRe   = regexp.MustCompile(`^([-*+])(?:\s+(.*))?$`)
	enumRe     = regexp.MustCompile(`^(\(?)([0-9]+|[A-Za-z]|[ivxlcdm]{2,}|[IVXLCDM]{2,}|#)([.)])(?:\s+(.*))?$`)
	fieldRe    = regexp.MustCompile(`^:([^:\s][^:]*):(?:\s+.*)?$`)
	explicitRe = regexp.MustCompile(`^\.\.(?:\s|$)`)
)

// isAdornment reports whether the line is a single ASCII punctuation
// character repeated to the end, optionally followed by whitespace.
func isAdornment(text string) bool {
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return false
	}
	c := text[0]
	if !isAdornmentChar(c) {
		return false
	}
	for i := 1; i < len(text); i++ {
		if text[i] != c {
			return false
		}
	}
	return true
}

// isAdornmentChar matches the ASCII punctuation ranges docutils accepts for
// section adornments and transitions.
func isAdornmentChar(c byte) bool {
	switch {
	case c >= '!' && c <= '/':
		return true
	case c >= ':' && c <= '@':
		return true
	case c >= '[' && c <= '`':
		return true
	case c >= '{' && c <= '~':
		return true
	default:
		return false
	}
}

// parseBody parses top-level blocks into parent, maintaining the section
// stack so titles nest their following content.
func (p *parseState) parseBody(ls []line, parent *rstree.Node) {
	type sectionFrame struct {
		node  *rstree.Node
		level int
	}
	stack := []sectionFrame{{node: parent, level: 0}}
	top := func() *rstree.Node { return stack[len(stack)-1].node }

	i := 0
	expectLiteral := false
	for i < len(ls) {
		if isBlank(ls[i].text) {
			i++
			continue
		}

		// Indented block: a literal block when announced by "::", a block
		// quote otherwise.
		if indentOf(ls[i].text) > 0 {
			node, next := p.parseIndented(ls, i, expectLiteral)
			expectLiteral = false
			top().Append(node)
			i = next
			continue
		}

		if expectLiteral {
			top().Append(p.systemMessage(2, ls[i].num, "WARNING",
				"Literal block expected; none found."))
			expectLiteral = false
		}

		// Section title, overline form: adornment, title, adornment.
		if style, node, next, ok := p.tryOverlineTitle(ls, i); ok {
			level := p.sectionLevel(style)
			for len(stack) > 1 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			section := rstree.NewNode(rstree.KindSection, ls[i].num)
			section.Append(node)
			top().Append(section)
			stack = append(stack, sectionFrame{node: section, level: level})
			i = next
			continue
		}

		// Section title, underline form: title, adornment.
		if style, node, next, ok := p.tryUnderlineTitle(ls, i); ok {
			level := p.sectionLevel(style)
			for len(stack) > 1 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			section := rstree.NewNode(rstree.KindSection, ls[i].num)
			section.Append(node)
			top().Append(section)
			stack = append(stack, sectionFrame{node: section, level: level})
			i = next
			continue
		}

		node, next, literalNext := p.parseBlock(ls, i)
		expectLiteral = literalNext
		if node != nil {
			top().Append(node)
		}
		i = next
	}
}

// parseBlocks parses nested (already dedented) content where sections
// cannot occur. Titles adornments inside nested content are kept as text.
func (p *parseState) parseBlocks(ls []line) []*rstree.Node {
	var out []*rstree.Node
	i := 0
	expectLiteral := false
	for i < len(ls) {
		if isBlank(ls[i].text) {
			i++
			continue
		}
		if indentOf(ls[i].text) > 0 {
			node, next := p.parseIndented(ls, i, expectLiteral)
			expectLiteral = false
			out = append(out, node)
			i = next
			continue
		}
		if expectLiteral {
			out = append(out, p.systemMessage(2, ls[i].num, "WARNING",
				"Literal block expected; none found."))
			expectLiteral = false
		}
		node, next, literalNext := p.parseBlock(ls, i)
		expectLiteral = literalNext
		if node != nil {
			out = append(out, node)
		}
		i = next
	}
	return out
}

// parseBlock parses one non-indented, non-title block starting at i.
// It returns the parsed node (nil for consumed-but-empty constructs), the
// next index, and whether a literal block is expected to follow.
func (p *parseState) parseBlock(ls []line, i int) (*rstree.Node, int, bool) {
	text := ls[i].text

	if explicitRe.MatchString(text) {
		node, next := p.parseExplicit(ls, i)
		return node, next, false
	}

	if isAdornment(text) && len(strings.TrimSpace(text)) >= 4 {
		return rstree.NewNode(rstree.KindTransition, ls[i].num), i + 1, false
	}

	if m := bulletRe.FindStringSubmatch(text); m != nil {
		node, next := p.parseBulletList(ls, i)
		return node, next, false
	}

	if m := enumRe.FindStringSubmatch(text); m != nil && m[4] != "" {
		node, next := p.parseEnumList(ls, i)
		return node, next, false
	}

	if fieldRe.MatchString(text) {
		node, next := p.parseFieldList(ls, i)
		return node, next, false
	}

	if gridBorderRe.MatchString(text) || simpleBorderRe.MatchString(text) {
		node, next := p.parseTable(ls, i)
		return node, next, false
	}

	return p.parseParagraph(ls, i)
}

// tryUnderlineTitle matches a one-line title followed by an adornment line.
func (p *parseState) tryUnderlineTitle(ls []line, i int) (style string, title *rstree.Node, next int, ok bool) {
	if i+1 >= len(ls) {
		return "", nil, 0, false
	}
	text := strings.TrimRight(ls[i].text, " ")
	under := strings.TrimRight(ls[i+1].text, " ")
	if isBlank(text) || !isAdornment(under) || isAdornment(text) {
		return "", nil, 0, false
	}
	if len(under) < len(text) && len(under) < 4 {
		return "", nil, 0, false
	}
	title = rstree.NewNode(rstree.KindTitle, ls[i].num)
	title.Append(p.parseInline(strings.TrimSpace(text), ls[i].num)...)
	return under[:1], title, i + 2, true
}

// tryOverlineTitle matches adornment, title, matching adornment.
func (p *parseState) tryOverlineTitle(ls []line, i int) (style string, title *rstree.Node, next int, ok bool) {
	if i+2 >= len(ls) {
		return "", nil, 0, false
	}
	over := strings.TrimRight(ls[i].text, " ")
	text := strings.TrimSpace(ls[i+1].text)
	under := strings.TrimRight(ls[i+2].text, " ")
	if !isAdornment(over) || isBlank(text) || over != under {
		return "", nil, 0, false
	}
	title = rstree.NewNode(rstree.KindTitle, ls[i+1].num)
	title.Append(p.parseInline(text, ls[i+1].num)...)
	// Overlined styles are distinct from underline-only styles.
	return over[:1] + "/over", title, i + 3, true
}

// sectionLevel returns the 1-based level of an adornment style, registering
// new styles in order of first appearance.
func (p *parseState) sectionLevel(style string) int {
	for idx, s := range p.sectionStyles {
		if s == style {
			return idx + 1
		}
	}
	p.sectionStyles = append(p.sectionStyles, style)
	return len(p.sectionStyles)
}

// parseParagraph consumes contiguous non-blank lines. A trailing "::"
// announces a literal block; the marker is trimmed per the usual rules.
func (p *parseState) parseParagraph(ls []line, i int) (*rstree.Node, int, bool) {
	start := i
	for i < len(ls) && !isBlank(ls[i].text) && indentOf(ls[i].text) == 0 {
		i++
	}
	parts := make([]string, 0, i-start)
	for _, l := range ls[start:i] {
		parts = append(parts, strings.TrimRight(l.text, " "))
	}
	text := strings.Join(parts, "\n")

	literalNext := false
	switch {
	case text == "::":
		return nil, i, true
	case strings.HasSuffix(text, " ::"):
		text = strings.TrimSuffix(text, " ::")
		literalNext = true
	case strings.HasSuffix(text, "::"):
		text = strings.TrimSuffix(text, "::") + ":"
		literalNext = true
	}
	if strings.TrimSpace(text) == "" {
		return nil, i, literalNext
	}

	para := rstree.NewNode(rstree.KindParagraph, ls[start].num)
	para.Append(p.parseInline(text, ls[start].num)...)
	return para, i, literalNext
}

// parseIndented consumes an indented block: the announced literal block, or
// a block quote parsed recursively.
func (p *parseState) parseIndented(ls []line, i int, literal bool) (*rstree.Node, int) {
	block, next := consumeIndented(ls, i)
	if literal {
		node := rstree.NewNode(rstree.KindLiteralBlock, block[0].num)
		text := joinVerbatim(block)
		node.Append(rstree.NewText(text, block[0].num))
		return node, next
	}
	quote := rstree.NewNode(rstree.KindBlockQuote, block[0].num)
	quote.Append(p.parseBlocks(block)...)
	return quote, next
}

// consumeIndented gathers lines from i while they are blank or indented,
// trims trailing blanks, and dedents by the common indentation.
func consumeIndented(ls []line, i int) (block []line, next int) {
	start := i
	for i < len(ls) && (isBlank(ls[i].text) || indentOf(ls[i].text) > 0) {
		i++
	}
	block = append(block, ls[start:i]...)
	for len(block) > 0 && isBlank(block[len(block)-1].text) {
		block = block[:len(block)-1]
	}
	return dedent(block), i
}

// dedent strips the minimum indentation of the non-blank lines.
func dedent(block []line) []line {
	indent := -1
	for _, l := range block {
		if isBlank(l.text) {
			continue
		}
		if ind := indentOf(l.text); indent < 0 || ind < indent {
			indent = ind
		}
	}
	if indent <= 0 {
		return block
	}
	out := make([]line, len(block))
	for i, l := range block {
		text := l.text
		if len(text) >= indent {
			text = text[indent:]
		} else {
			text = strings.TrimLeft(text, " ")
		}
		out[i] = line{text: text, num: l.num}
	}
	return out
}

// joinVerbatim joins a dedented block byte-for-byte.
func joinVerbatim(block []line) string {
	parts := make([]string, len(block))
	for i, l := range block {
		parts[i] = l.text
	}
	return strings.Join(parts, "\n")
}

// parseBulletList consumes consecutive bullet items at indent 0.
func (p *parseState) parseBulletList(ls []line, i int) (*rstree.Node, int) {
	list := rstree.NewNode(rstree.KindBulletList, ls[i].num)
	list.SetAttr("bullet", string(ls[i].text[0]))

	for i < len(ls) {
		if isBlank(ls[i].text) {
			i++
			continue
		}
		m := bulletRe.FindStringSubmatch(ls[i].text)
		if m == nil || indentOf(ls[i].text) > 0 {
			break
		}
		item, next := p.parseListItem(ls, i, len(m[1]), m[2])
		list.Append(item)
		i = next
	}
	return list, i
}

// parseEnumList consumes consecutive enumerated items at indent 0. The
// enumeration style, prefix, suffix, and start index come from the first
// item's marker.
func (p *parseState) parseEnumList(ls []line, i int) (*rstree.Node, int) {
	first := enumRe.FindStringSubmatch(ls[i].text)
	enumType, start := classifyEnumerator(first[2])

	list := rstree.NewNode(rstree.KindEnumeratedList, ls[i].num)
	list.SetAttr("enumtype", enumType)
	list.SetAttr("prefix", first[1])
	list.SetAttr("suffix", first[3])
	if start != 1 {
		list.SetAttr("start", start)
	}

	for i < len(ls) {
		if isBlank(ls[i].text) {
			i++
			continue
		}
		m := enumRe.FindStringSubmatch(ls[i].text)
		if m == nil || m[4] == "" || indentOf(ls[i].text) > 0 {
			break
		}
		markerWidth := len(m[1]) + len(m[2]) + len(m[3])
		item, next := p.parseListItem(ls, i, markerWidth, m[4])
		list.Append(item)
		i = next
	}
	return list, i
}

// parseListItem consumes one list item: the first line's content plus the
// following lines indented past the marker.
func (p *parseState) parseListItem(ls []line, i int, markerWidth int, firstContent string) (*rstree.Node, int) {
	contentIndent := markerWidth + 1
	startNum := ls[i].num
	body := []line{{text: firstContent, num: startNum}}
	i++
	for i < len(ls) {
		if isBlank(ls[i].text) {
			body = append(body, ls[i])
			i++
			continue
		}
		if indentOf(ls[i].text) < contentIndent {
			break
		}
		body = append(body, line{text: ls[i].text[contentIndent:], num: ls[i].num})
		i++
	}
	for len(body) > 0 && isBlank(body[len(body)-1].text) {
		body = body[:len(body)-1]
	}

	// A bare marker with no content yields an empty item.
	item := rstree.NewNode(rstree.KindListItem, startNum)
	item.Append(p.parseBlocks(body)...)
	return item, i
}

var (
	romanLowerRe = regexp.MustCompile(`^[ivxlcdm]+$`)
	romanUpperRe = regexp.MustCompile(`^[IVXLCDM]+$`)
)

// classifyEnumerator determines the enumeration style and decoded start
// value of the first item's marker.
func classifyEnumerator(marker string) (enumType string, start int) {
	switch {
	case marker == "#":
		return "arabic", 1
	case marker[0] >= '0' && marker[0] <= '9':
		start = 0
		for _, r := range marker {
			start = start*10 + int(r-'0')
		}
		return "arabic", start
	case romanLowerRe.MatchString(marker) && (len(marker) > 1 || marker == "i"):
		return "lowerroman", decodeRoman(strings.ToUpper(marker))
	case romanUpperRe.MatchString(marker) && (len(marker) > 1 || marker == "I"):
		return "upperroman", decodeRoman(marker)
	case marker[0] >= 'a' && marker[0] <= 'z':
		return "loweralpha", int(marker[0]-'a') + 1
	default:
		return "upperalpha", int(marker[0]-'A') + 1
	}
}

var romanDigits = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

func decodeRoman(s string) int {
	total := 0
	for i := 0; i < len(s); i++ {
		v := romanDigits[s[i]]
		if i+1 < len(s) && v < romanDigits[s[i+1]] {
			total -= v
			continue
		}
		total += v
	}
	if total < 1 {
		return 1
	}
	return total
}

// parseFieldList consumes a run of fields with their continuation lines.
// Field lists are opaque to the translator, so the fields themselves are
// not modeled.
func (p *parseState) parseFieldList(ls []line, i int) (*rstree.Node, int) {
	node := rstree.NewNode(rstree.KindFieldList, ls[i].num)
	for i < len(ls) {
		if isBlank(ls[i].text) {
			// A blank line ends the list unless another field follows
			// immediately.
			if i+1 < len(ls) && fieldRe.MatchString(ls[i+1].text) && indentOf(ls[i+1].text) == 0 {
				i++
				continue
			}
			break
		}
		if indentOf(ls[i].text) == 0 && !fieldRe.MatchString(ls[i].text) {
			break
		}
		i++
	}
	return node, i
}
