package rst

import (
	"regexp"
	"strings"

	"github.com/gemrst/rst2gem/pkg/rstree"
)

var (
	directiveRe    = regexp.MustCompile(`^\.\.\s+([\w-]+)::(?:\s+(.*))?$`)
	targetRe       = regexp.MustCompile(`^\.\.\s+_([^:]+):(?:\s+(.*))?$`)
	anonTargetRe   = regexp.MustCompile(`^\.\.\s+__:(?:\s+(.*))?$`)
	substitutionRe = regexp.MustCompile(`^\.\.\s+\|([^|]+)\|\s+([\w-]+)::(?:\s+(.*))?$`)
	optionRe       = regexp.MustCompile(`^:([\w-]+):(?:\s+(.*))?$`)
)

// parseExplicit handles explicit markup blocks: directives, hyperlink
// targets, substitution definitions, and comments.
func (p *parseState) parseExplicit(ls []line, i int) (*rstree.Node, int) {
	first := ls[i]
	body, next := consumeIndented(ls, i+1)

	if m := substitutionRe.FindStringSubmatch(first.text); m != nil {
		node := rstree.NewNode(rstree.KindSubstitutionDefinition, first.num)
		node.SetAttr("names", normalizeName(m[1]))
		return node, next
	}

	if m := anonTargetRe.FindStringSubmatch(first.text); m != nil {
		uri := strings.TrimSpace(m[1]) + strings.TrimSpace(joinVerbatim(body))
		p.anonTargets = append(p.anonTargets, uri)
		node := rstree.NewNode(rstree.KindTarget, first.num)
		node.SetAttr("anonymous", 1)
		return node, next
	}

	if m := targetRe.FindStringSubmatch(first.text); m != nil {
		name := normalizeName(strings.Trim(m[1], "`"))
		uri := strings.TrimSpace(m[2]) + strings.TrimSpace(joinVerbatim(body))
		if name != "" {
			p.targets[name] = uri
		}
		node := rstree.NewNode(rstree.KindTarget, first.num)
		node.SetAttr("names", name)
		if uri != "" && !strings.HasSuffix(uri, "_") {
			node.SetAttr("refuri", uri)
		}
		return node, next
	}

	if m := directiveRe.FindStringSubmatch(first.text); m != nil {
		return p.parseDirective(m[1], strings.TrimSpace(m[2]), body, first.num), next
	}

	comment := rstree.NewNode(rstree.KindComment, first.num)
	text := strings.TrimSpace(strings.TrimPrefix(first.text, ".."))
	if body := joinVerbatim(body); body != "" {
		if text != "" {
			text += "\n"
		}
		text += body
	}
	if text != "" {
		comment.Append(rstree.NewText(text, first.num))
	}
	return comment, next
}

// splitDirectiveBody separates leading :name: value options from the
// directive content.
func splitDirectiveBody(body []line) (options map[string]string, content []line) {
	options = make(map[string]string)
	i := 0
	for i < len(body) {
		if isBlank(body[i].text) {
			i++
			break
		}
		m := optionRe.FindStringSubmatch(body[i].text)
		if m == nil {
			break
		}
		options[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
		i++
	}
	for i < len(body) && isBlank(body[i].text) {
		i++
	}
	return options, dedent(body[i:])
}

// admonitionKinds maps directive names to their node kinds.
var admonitionKinds = map[string]rstree.Kind{
	"note":      rstree.KindNote,
	"hint":      rstree.KindHint,
	"tip":       rstree.KindTip,
	"important": rstree.KindImportant,
	"attention": rstree.KindAttention,
	"warning":   rstree.KindWarning,
	"caution":   rstree.KindCaution,
	"danger":    rstree.KindDanger,
}

func (p *parseState) parseDirective(name, arg string, body []line, lineNum int) *rstree.Node {
	name = strings.ToLower(name)

	if kind, ok := admonitionKinds[name]; ok {
		node := rstree.NewNode(kind, lineNum)
		node.Append(p.directiveContentBlocks(arg, body, lineNum)...)
		return node
	}

	switch name {
	case "admonition":
		node := rstree.NewNode(rstree.KindAdmonition, lineNum)
		if arg != "" {
			title := rstree.NewNode(rstree.KindTitle, lineNum)
			title.Append(p.parseInline(arg, lineNum)...)
			node.Append(title)
		}
		_, content := splitDirectiveBody(body)
		node.Append(p.parseBlocks(content)...)
		return node

	case "image":
		options, _ := splitDirectiveBody(body)
		return p.imageNode(arg, options, lineNum)

	case "figure":
		options, content := splitDirectiveBody(body)
		node := rstree.NewNode(rstree.KindFigure, lineNum)
		node.Append(p.imageNode(arg, options, lineNum))
		blocks := p.parseBlocks(content)
		if len(blocks) > 0 && blocks[0].Kind == rstree.KindParagraph {
			caption := rstree.NewNode(rstree.KindCaption, blocks[0].Line)
			caption.Children = blocks[0].Children
			blocks[0] = caption
		}
		node.Append(blocks...)
		return node

	case "raw":
		_, content := splitDirectiveBody(body)
		node := rstree.NewNode(rstree.KindRaw, lineNum)
		node.SetAttr("format", strings.ToLower(arg))
		if text := joinVerbatim(content); text != "" {
			node.Append(rstree.NewText(text, contentLine(content, lineNum)))
		}
		return node

	case "code", "code-block", "sourcecode":
		_, content := splitDirectiveBody(body)
		node := rstree.NewNode(rstree.KindLiteralBlock, lineNum)
		classes := []string{"code"}
		if arg != "" {
			classes = append(classes, arg)
		}
		node.SetAttr("classes", classes)
		if text := joinVerbatim(content); text != "" {
			node.Append(rstree.NewText(text, contentLine(content, lineNum)))
		}
		return node

	case "table":
		_, content := splitDirectiveBody(body)
		node := rstree.NewNode(rstree.KindTable, lineNum)
		if arg != "" {
			title := rstree.NewNode(rstree.KindTitle, lineNum)
			title.Append(p.parseInline(arg, lineNum)...)
			node.Append(title)
		}
		for _, block := range p.parseBlocks(content) {
			if block.Kind == rstree.KindTable {
				node.Append(block.Children...)
				continue
			}
			node.Append(block)
		}
		return node

	default:
		return p.systemMessage(3, lineNum, "ERROR",
			`Unknown directive type "`+name+`".`)
	}
}

// directiveContentBlocks parses an admonition directive's body, folding a
// same-line argument into the leading content.
func (p *parseState) directiveContentBlocks(arg string, body []line, lineNum int) []*rstree.Node {
	_, content := splitDirectiveBody(body)
	if arg != "" {
		lead := []line{{text: arg, num: lineNum}}
		if len(content) > 0 {
			lead = append(lead, line{text: "", num: lineNum})
		}
		content = append(lead, content...)
	}
	return p.parseBlocks(content)
}

// imageNode builds an image, wrapped in a reference when a :target: option
// makes it a clickable image.
func (p *parseState) imageNode(uri string, options map[string]string, lineNum int) *rstree.Node {
	img := rstree.NewNode(rstree.KindImage, lineNum)
	img.SetAttr("uri", strings.TrimSpace(uri))
	if alt, ok := options["alt"]; ok {
		img.SetAttr("alt", alt)
	}
	target, ok := options["target"]
	if !ok || target == "" {
		return img
	}
	ref := rstree.NewNode(rstree.KindReference, lineNum)
	if strings.HasSuffix(target, "_") {
		ref.SetAttr("refname", normalizeName(strings.Trim(strings.TrimSuffix(target, "_"), "`")))
	} else {
		ref.SetAttr("refuri", target)
	}
	ref.Append(img)
	return ref
}

func contentLine(content []line, fallback int) int {
	if len(content) > 0 {
		return content[0].num
	}
	return fallback
}
