package rst

import (
	"regexp"
	"strings"

	"github.com/gemrst/rst2gem/pkg/rstree"
)

// Inline construct patterns, in priority order for ties at the same offset.
var inlinePatterns = []struct {
	kind string
	re   *regexp.Regexp
}{
	{"literal", regexp.MustCompile("``([^`]+)``")},
	{"strong", regexp.MustCompile(`\*\*([^*]+)\*\*`)},
	{"emphasis", regexp.MustCompile(`\*([^*]+)\*`)},
	{"uriref", regexp.MustCompile("`([^`<]*)<([^<>`]+)>\\s*`(__?)")},
	{"phraseref", regexp.MustCompile("`([^`]+)`(__?)")},
	{"simpleref", regexp.MustCompile(`\b([A-Za-z][A-Za-z0-9.+-]*(?:_[A-Za-z0-9.+-]+)*)(__?)\b`)},
}

// Backslash-escaped markup characters are swapped for private-use runes
// before scanning so the patterns cannot match them, and swapped back when
// the text leaves are emitted.
var (
	escapeRe      = regexp.MustCompile(`\\(.)`)
	escapedRunes  = map[byte]rune{'*': '\uE000', '`': '\uE001', '_': '\uE002', '\\': '\uE003', '|': '\uE004', '<': '\uE005', '>': '\uE006'}
	escapeDecoder = strings.NewReplacer(
		"\uE000", "*", "\uE001", "`", "\uE002", "_",
		"\uE003", `\`, "\uE004", "|", "\uE005", "<", "\uE006", ">",
	)
)

func encodeEscapes(text string) string {
	return escapeRe.ReplaceAllStringFunc(text, func(m string) string {
		if r, ok := escapedRunes[m[1]]; ok {
			return string(r)
		}
		return m[1:]
	})
}

// parseInline splits a block's text into text leaves and inline element
// nodes. Emphasis, strong, and inline literals keep their content as a
// child text node; references carry refuri or refname attributes for the
// translator to resolve.
func (p *parseState) parseInline(text string, lineNum int) []*rstree.Node {
	text = encodeEscapes(text)

	var nodes []*rstree.Node
	var plain strings.Builder

	flush := func() {
		if plain.Len() == 0 {
			return
		}
		nodes = append(nodes, rstree.NewText(escapeDecoder.Replace(plain.String()), lineNum))
		plain.Reset()
	}

	for len(text) > 0 {
		kind, loc := earliestInline(text)
		if loc == nil {
			plain.WriteString(text)
			break
		}
		plain.WriteString(text[:loc[0]])

		match := text[loc[0]:loc[1]]
		node := p.inlineNode(kind, match, lineNum)
		if node == nil {
			// Not a real construct after all; keep the text as written.
			plain.WriteString(match)
		} else {
			flush()
			nodes = append(nodes, node)
		}
		text = text[loc[1]:]
	}
	flush()
	return nodes
}

// earliestInline finds the inline pattern matching earliest in text.
// Ties at the same offset go to the higher-priority pattern.
func earliestInline(text string) (kind string, loc []int) {
	best := -1
	for _, pat := range inlinePatterns {
		m := pat.re.FindStringIndex(text)
		if m == nil {
			continue
		}
		if best < 0 || m[0] < best {
			best = m[0]
			kind = pat.kind
			loc = m
		}
	}
	return kind, loc
}

func (p *parseState) inlineNode(kind, match string, lineNum int) *rstree.Node {
	switch kind {
	case "literal":
		m := inlinePatterns[0].re.FindStringSubmatch(match)
		return inlineWrap(rstree.KindLiteral, m[1], lineNum)
	case "strong":
		m := inlinePatterns[1].re.FindStringSubmatch(match)
		return inlineWrap(rstree.KindStrong, m[1], lineNum)
	case "emphasis":
		m := inlinePatterns[2].re.FindStringSubmatch(match)
		return inlineWrap(rstree.KindEmphasis, m[1], lineNum)
	case "uriref":
		m := inlinePatterns[3].re.FindStringSubmatch(match)
		return p.referenceNode(strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), "", m[3] == "__", lineNum)
	case "phraseref":
		m := inlinePatterns[4].re.FindStringSubmatch(match)
		return p.referenceNode(m[1], "", normalizeName(m[1]), m[2] == "__", lineNum)
	case "simpleref":
		m := inlinePatterns[5].re.FindStringSubmatch(match)
		return p.referenceNode(m[1], "", normalizeName(m[1]), m[2] == "__", lineNum)
	default:
		return nil
	}
}

func inlineWrap(kind rstree.Kind, text string, lineNum int) *rstree.Node {
	node := rstree.NewNode(kind, lineNum)
	node.Append(rstree.NewText(escapeDecoder.Replace(text), lineNum))
	return node
}

func (p *parseState) referenceNode(text, uri, refname string, anonymous bool, lineNum int) *rstree.Node {
	ref := rstree.NewNode(rstree.KindReference, lineNum)
	text = escapeDecoder.Replace(text)
	uri = escapeDecoder.Replace(uri)
	refname = escapeDecoder.Replace(refname)
	if text == "" {
		text = uri
	}
	ref.SetAttr("name", normalizeName(text))
	if uri != "" {
		ref.SetAttr("refuri", uri)
	} else if refname != "" && !anonymous {
		ref.SetAttr("refname", refname)
	}
	if anonymous {
		ref.SetAttr("anonymous", 1)
	}
	ref.Append(rstree.NewText(text, lineNum))
	return ref
}
