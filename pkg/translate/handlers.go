package translate

import (
	"fmt"
	"strings"

	"github.com/gemrst/rst2gem/pkg/gemtext"
	"github.com/gemrst/rst2gem/pkg/langdetect"
	"github.com/gemrst/rst2gem/pkg/rstree"
)

// handlerFunc processes one enter or leave event.
type handlerFunc func(v *visitor, n *rstree.Node) error

// handlers is an enter/leave pair for one node kind.
type handlers struct {
	enter handlerFunc
	leave handlerFunc
}

// handlerTable maps node kinds to their handlers. Kinds absent from the
// table get the default no-op pair: their subtrees are still walked, but
// they emit nothing and never redirect inline text.
var handlerTable map[rstree.Kind]handlers

func init() {
	handlerTable = map[rstree.Kind]handlers{
		rstree.KindDocument: {enter: (*visitor).enterDocument, leave: (*visitor).leaveDocument},
		rstree.KindSection:  {enter: (*visitor).enterSection, leave: (*visitor).leaveSection},
		rstree.KindTitle:    {enter: (*visitor).enterTitle, leave: (*visitor).leaveTitle},

		rstree.KindParagraph: {enter: (*visitor).enterParagraph, leave: (*visitor).leaveParagraph},
		rstree.KindCaption:   {enter: (*visitor).enterParagraph, leave: (*visitor).leaveParagraph},

		rstree.KindLiteralBlock:   {enter: (*visitor).enterLiteralBlock, leave: (*visitor).leaveLiteralBlock},
		rstree.KindBlockQuote:     {enter: (*visitor).enterGroup, leave: (*visitor).leaveBlockQuote},
		rstree.KindBulletList:     {enter: (*visitor).enterGroup, leave: (*visitor).leaveBulletList},
		rstree.KindEnumeratedList: {enter: (*visitor).enterGroup, leave: (*visitor).leaveEnumeratedList},
		rstree.KindListItem:       {enter: (*visitor).enterGroup, leave: (*visitor).leaveListItem},
		rstree.KindImage:          {enter: (*visitor).enterImage},
		rstree.KindFigure:         {enter: (*visitor).enterGroup, leave: (*visitor).leaveFigure},
		rstree.KindRaw:            {enter: (*visitor).enterRaw, leave: (*visitor).leaveRaw},
		rstree.KindTable:          {enter: (*visitor).enterTable, leave: (*visitor).leaveTable},
		rstree.KindTransition:     {enter: (*visitor).enterTransition},
		rstree.KindReference:      {enter: (*visitor).enterReference},

		rstree.KindText: {enter: (*visitor).enterText},

		rstree.KindSystemMessage: {enter: (*visitor).enterGroup, leave: (*visitor).leaveSystemMessage},

		// Styling wrappers with no Gemtext equivalent: their inline text is
		// absorbed by whatever node is currently accepting text.
		rstree.KindEmphasis: {},
		rstree.KindStrong:   {},
		rstree.KindLiteral:  {},
		rstree.KindTarget:   {},

		// Opaque constructs: the whole subtree is suspended.
		rstree.KindComment:                {enter: (*visitor).enterOpaque},
		rstree.KindFieldList:              {enter: (*visitor).enterOpaque},
		rstree.KindSubstitutionDefinition: {enter: (*visitor).enterOpaque},
	}

	for _, kind := range []rstree.Kind{
		rstree.KindNote, rstree.KindHint, rstree.KindTip, rstree.KindImportant,
		rstree.KindAttention, rstree.KindWarning, rstree.KindCaution,
		rstree.KindDanger, rstree.KindAdmonition,
	} {
		handlerTable[kind] = handlers{enter: (*visitor).enterGroup, leave: (*visitor).leaveAdmonition}
	}
}

// collapse flattens line breaks to spaces and trims surrounding whitespace.
func collapse(text string) string {
	return strings.TrimSpace(gemtext.CollapseNewlines(text))
}

// enterGroup opens a frame with no accepting node, so stray text inside the
// construct fails loudly instead of leaking into an unrelated node.
func (v *visitor) enterGroup(n *rstree.Node) error {
	v.stack.push(n)
	v.text = nil
	return nil
}

// enterOpaque suspends processing for the node's entire subtree.
func (v *visitor) enterOpaque(n *rstree.Node) error {
	v.skip = n
	return nil
}

func (v *visitor) enterDocument(n *rstree.Node) error {
	v.stack.push(n)
	return nil
}

func (v *visitor) leaveDocument(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}
	v.output = nodes
	return nil
}

func (v *visitor) enterSection(_ *rstree.Node) error {
	v.sectionLevel++
	return nil
}

func (v *visitor) leaveSection(_ *rstree.Node) error {
	v.sectionLevel--
	return nil
}

func (v *visitor) enterTitle(n *rstree.Node) error {
	v.stack.push(n)
	title := gemtext.NewTitle(n, v.sectionLevel)
	v.stack.add(title)
	v.text = title
	return nil
}

func (v *visitor) leaveTitle(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}
	v.text = nil
	v.stack.add(nodes...)
	return nil
}

func (v *visitor) enterParagraph(n *rstree.Node) error {
	v.stack.push(n)
	p := gemtext.NewParagraph(n)
	v.stack.add(p)
	v.text = p
	return nil
}

// leaveParagraph applies the paragraph restructuring rules: a paragraph
// that is nothing but a link collapses to that link; embedded links are
// re-homed after the paragraph, merged into a single group when there are
// several; empty paragraphs vanish.
func (v *visitor) leaveParagraph(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}
	v.text = nil

	p := nodes[0].(*gemtext.Paragraph)
	children := nodes[1:]
	text := collapse(p.Text)

	if len(children) == 1 {
		if link, ok := children[0].(*gemtext.Link); ok && link.DisplayText() == text {
			v.stack.add(link)
			return nil
		}
	}

	links, rest := partitionLinks(children)
	if text != "" {
		v.stack.add(p)
	}
	v.stack.add(rest...)
	v.addLinks(n, links)
	return nil
}

func (v *visitor) enterLiteralBlock(n *rstree.Node) error {
	v.stack.push(n)
	pre := gemtext.NewPre(n)
	for _, class := range n.AttrStrings("classes") {
		if class != "code" {
			pre.Alt = class
			break
		}
	}
	v.stack.add(pre)
	v.text = pre
	return nil
}

func (v *visitor) leaveLiteralBlock(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}
	v.text = nil

	pre := nodes[0].(*gemtext.Pre)
	if pre.Alt == "" && v.cfg.DetectLanguage {
		if lang := langdetect.Detect([]byte(pre.Text)); lang != langdetect.Plain {
			pre.Alt = lang
		}
	}
	v.stack.add(nodes...)
	return nil
}

func (v *visitor) enterRaw(n *rstree.Node) error {
	v.stack.push(n)
	raw := gemtext.NewRaw(n, n.Attr("format"))
	v.stack.add(raw)
	v.text = raw
	return nil
}

// leaveRaw keeps the block only when its format names Gemtext itself; raw
// blocks in foreign formats vanish from the output entirely.
func (v *visitor) leaveRaw(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}
	v.text = nil

	raw := nodes[0].(*gemtext.Raw)
	if v.cfg.AcceptsRawFormat(raw.Format) {
		v.stack.add(nodes...)
	}
	return nil
}

func (v *visitor) leaveBlockQuote(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}
	links, rest := partitionLinks(nodes)
	if len(rest) > 0 {
		v.stack.add(gemtext.NewQuote(n, rest...))
	}
	v.addLinks(n, links)
	return nil
}

func (v *visitor) leaveBulletList(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}
	links, rest := partitionLinks(nodes)
	if len(rest) > 0 {
		v.stack.add(gemtext.NewList(n, rest...))
	}
	v.addLinks(n, links)
	return nil
}

func (v *visitor) leaveEnumeratedList(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}
	links, rest := partitionLinks(nodes)
	if len(rest) > 0 {
		list := gemtext.NewEnumList(n, gemtext.EnumTypeFromName(n.Attr("enumtype")))
		list.Prefix = n.Attr("prefix")
		if n.HasAttr("suffix") {
			list.Suffix = n.Attr("suffix")
		}
		list.Start = n.AttrInt("start", 1)
		list.Children = rest
		v.stack.add(list)
	}
	v.addLinks(n, links)
	return nil
}

// leaveListItem folds the item's collected children into item text: nested
// lists split the item, links pass through untouched, and everything else
// contributes its rendered text.
func (v *visitor) leaveListItem(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}
	v.text = nil

	var out []gemtext.Node
	item := gemtext.NewItem(n)
	flush := func() {
		if strings.TrimSpace(item.Text) != "" {
			out = append(out, item)
		}
		item = gemtext.NewItem(n)
	}

	for _, c := range nodes {
		switch c := c.(type) {
		case *gemtext.List, *gemtext.EnumList:
			flush()
			out = append(out, c)
		case *gemtext.Link, *gemtext.Links:
			out = append(out, c)
		default:
			text, err := c.Gemtext()
			if err != nil {
				return err
			}
			if item.Text != "" {
				item.Text += " "
			}
			item.Text += text
		}
	}
	flush()

	v.stack.add(out...)
	return nil
}

func (v *visitor) enterImage(n *rstree.Node) error {
	uri := n.Attr("uri")
	text := n.Attr("alt")
	if text == "" {
		text = uri
	}
	v.stack.add(gemtext.NewLink(n, uri, text))
	return nil
}

// leaveFigure folds the figure's children with the figure merge rules:
// duplicate links sharing a URI collapse to the one with real display text,
// an image/link pair with differing URIs is kept in reversed order,
// duplicate alt-text paragraphs are dropped, and a trailing caption is
// promoted into the link's display text when the link has none of its own.
func (v *visitor) leaveFigure(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}

	var out []gemtext.Node
	for _, c := range nodes {
		if link, ok := c.(*gemtext.Link); ok && len(out) > 0 {
			if last, ok := out[len(out)-1].(*gemtext.Link); ok {
				if last.URI == link.URI {
					if !hasCaptionText(last) && hasCaptionText(link) {
						out[len(out)-1] = link
					}
					continue
				}
				out[len(out)-1] = link
				out = append(out, last)
				continue
			}
		}
		if p, ok := c.(*gemtext.Paragraph); ok && isDuplicateAltText(out, p) {
			continue
		}
		out = append(out, c)
	}

	if len(out) >= 2 {
		first, firstIsLink := out[0].(*gemtext.Link)
		last, lastIsParagraph := out[len(out)-1].(*gemtext.Paragraph)
		if firstIsLink && lastIsParagraph && first.DisplayText() == first.URI {
			first.Text = collapse(last.Text)
			out = out[:len(out)-1]
		}
	}

	v.stack.add(gemtext.NewFigure(n, out...))
	return nil
}

// hasCaptionText reports whether a link carries display text beyond the
// default URI echo.
func hasCaptionText(l *gemtext.Link) bool {
	return l.Text != "" && l.Text != l.URI
}

// isDuplicateAltText reports whether the paragraph repeats text already
// present on an appended figure child.
func isDuplicateAltText(appended []gemtext.Node, p *gemtext.Paragraph) bool {
	text := collapse(p.Text)
	if text == "" {
		return false
	}
	for _, c := range appended {
		switch c := c.(type) {
		case *gemtext.Link:
			if c.DisplayText() == text {
				return true
			}
		case *gemtext.Paragraph:
			if collapse(c.Text) == text {
				return true
			}
		}
	}
	return false
}

// leaveAdmonition closes a typed or generic admonition. Only the generic
// construct promotes a leading title child into the admonition title; the
// typed ones keep their fixed icon labels.
func (v *visitor) leaveAdmonition(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}

	typ := ""
	if n.Kind != rstree.KindAdmonition {
		typ = n.Kind.String()
	}
	adm := gemtext.NewAdmonition(n, typ)
	if label, ok := v.cfg.AdmonitionLabels[typ]; ok && typ != "" {
		adm.Title = label
	}
	if n.Kind == rstree.KindAdmonition && len(nodes) > 0 {
		if title, ok := nodes[0].(*gemtext.Title); ok {
			adm.Title = collapse(title.Text)
			nodes = nodes[1:]
		}
	}
	adm.Children = nodes
	v.stack.add(adm)
	return nil
}

// enterReference resolves a cross-reference immediately. An embedded image
// child is skipped (it emits its own link); a text child contributes display
// text; anything else is unexpected nested markup and fatal.
func (v *visitor) enterReference(n *rstree.Node) error {
	var text strings.Builder
	for _, c := range n.Children {
		switch c.Kind {
		case rstree.KindImage:
			// Represented by the image's own event.
		case rstree.KindText:
			text.WriteString(c.Text)
		default:
			return fmt.Errorf("%w: %s inside reference at line %d",
				ErrUnexpectedChild, c.Kind, n.Line)
		}
	}
	link := gemtext.NewLink(n, n.Attr("refuri"), collapse(text.String()))
	if link.URI == "" {
		link.Refname = n.Attr("refname")
	}
	v.stack.add(link)
	return nil
}

func (v *visitor) enterTransition(n *rstree.Node) error {
	v.stack.add(gemtext.NewSeparator(n))
	return nil
}

func (v *visitor) enterTable(n *rstree.Node) error {
	v.stack.push(n)
	v.stack.add(gemtext.NewPre(n))
	v.text = nil
	return nil
}

// leaveTable fills the table's placeholder block with the verbatim source
// excerpt covering the table.
func (v *visitor) leaveTable(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}
	pre := nodes[0].(*gemtext.Pre)
	body, label := extractTableText(v.doc.Raw, nodes[1:])
	pre.Text = body
	pre.Alt = label
	v.stack.add(pre)
	return nil
}

func (v *visitor) leaveSystemMessage(n *rstree.Node) error {
	nodes, err := v.stack.pop(n)
	if err != nil {
		return err
	}

	source := n.Attr("source")
	if source == "" {
		source = v.doc.Source
	}
	msg := gemtext.NewSystemMessage(n, n.AttrInt("level", 1), source,
		n.AttrInt("line", n.Line), n.Attr("type"))
	msg.Children = nodes

	body, err := msg.Gemtext()
	if err != nil {
		return err
	}
	v.diags = append(v.diags, Diagnostic{
		Source: msg.Source,
		Line:   msg.Line,
		Level:  msg.Level,
		Type:   msg.MsgType,
		Body:   body,
	})
	return nil
}

func (v *visitor) enterText(n *rstree.Node) error {
	if v.text == nil {
		snippet := collapse(n.Text)
		if len(snippet) > 40 {
			snippet = snippet[:40] + "..."
		}
		return fmt.Errorf("%w: %q at line %d", ErrNoAcceptingNode, snippet, n.Line)
	}
	v.text.AppendText(n.Text)
	return nil
}

// partitionLinks splits collected nodes into link-likes and the rest,
// preserving order within each half.
func partitionLinks(nodes []gemtext.Node) (links, rest []gemtext.Node) {
	for _, c := range nodes {
		switch c.(type) {
		case *gemtext.Link, *gemtext.Links:
			links = append(links, c)
		default:
			rest = append(rest, c)
		}
	}
	return links, rest
}

// addLinks appends collected links to the current frame: a single link
// stays bare, several merge into one flat link group.
func (v *visitor) addLinks(n *rstree.Node, links []gemtext.Node) {
	switch len(links) {
	case 0:
	case 1:
		v.stack.add(links[0])
	default:
		var flat []gemtext.Node
		for _, l := range links {
			if group, ok := l.(*gemtext.Links); ok {
				flat = append(flat, group.Children...)
				continue
			}
			flat = append(flat, l)
		}
		v.stack.add(gemtext.NewLinks(n, flat...))
	}
}
