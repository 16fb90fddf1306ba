package rstree

import (
	"fmt"
	"sort"
	"strings"
)

// XML renders the tree as indented XML in the style of the docutils
// pseudo-XML dump. It is a debugging aid for the --print-xml flag, not a
// serialization format.
func XML(root *Node) string {
	var b strings.Builder
	writeXML(&b, root, 0)
	return b.String()
}

func writeXML(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("    ", depth)
	if n.Kind == KindText {
		b.WriteString(indent)
		b.WriteString(escapeXML(n.Text))
		b.WriteString("\n")
		return
	}
	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(n.Kind.String())
	for _, k := range sortedAttrNames(n) {
		fmt.Fprintf(b, " %s=%q", k, attrText(n.Attrs[k]))
	}
	if len(n.Children) == 0 && n.Text == "" {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")
	if n.Text != "" {
		b.WriteString(indent)
		b.WriteString("    ")
		b.WriteString(escapeXML(n.Text))
		b.WriteString("\n")
	}
	for _, c := range n.Children {
		writeXML(b, c, depth+1)
	}
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(n.Kind.String())
	b.WriteString(">\n")
}

func sortedAttrNames(n *Node) []string {
	if len(n.Attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func attrText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, " ")
	default:
		return fmt.Sprint(val)
	}
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
