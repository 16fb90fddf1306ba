package rstree_test

import (
	"strings"
	"testing"

	"github.com/gemrst/rst2gem/pkg/rstree"
)

func TestKind_String(t *testing.T) {
	t.Parallel()

	cases := map[rstree.Kind]string{
		rstree.KindDocument:       "document",
		rstree.KindParagraph:      "paragraph",
		rstree.KindLiteralBlock:   "literal_block",
		rstree.KindEnumeratedList: "enumerated_list",
		rstree.KindSystemMessage:  "system_message",
		rstree.KindText:           "Text",
		rstree.Kind(9999):         "unknown",
	}

	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestKind_IsAdmonition(t *testing.T) {
	t.Parallel()

	admonitions := []rstree.Kind{
		rstree.KindNote, rstree.KindHint, rstree.KindTip, rstree.KindImportant,
		rstree.KindAttention, rstree.KindWarning, rstree.KindCaution,
		rstree.KindDanger, rstree.KindAdmonition,
	}
	for _, k := range admonitions {
		if !k.IsAdmonition() {
			t.Errorf("expected %s to be an admonition", k)
		}
	}
	if rstree.KindParagraph.IsAdmonition() {
		t.Error("expected paragraph to not be an admonition")
	}
}

func TestNode_Attrs(t *testing.T) {
	t.Parallel()

	n := rstree.NewNode(rstree.KindEnumeratedList, 3)
	n.SetAttr("enumtype", "arabic")
	n.SetAttr("start", 4)
	n.SetAttr("classes", []string{"code", "python"})

	if got := n.Attr("enumtype"); got != "arabic" {
		t.Errorf("Attr(enumtype) = %q, want %q", got, "arabic")
	}
	if got := n.Attr("start"); got != "4" {
		t.Errorf("Attr(start) = %q, want %q", got, "4")
	}
	if got := n.AttrInt("start", 1); got != 4 {
		t.Errorf("AttrInt(start) = %d, want 4", got)
	}
	if got := n.AttrInt("missing", 1); got != 1 {
		t.Errorf("AttrInt(missing) = %d, want default 1", got)
	}
	if got := n.AttrStrings("classes"); len(got) != 2 || got[1] != "python" {
		t.Errorf("AttrStrings(classes) = %v", got)
	}
	if n.HasAttr("missing") {
		t.Error("HasAttr(missing) = true")
	}
}

func TestNode_PlainText(t *testing.T) {
	t.Parallel()

	para := rstree.NewNode(rstree.KindParagraph, 1)
	para.Append(
		rstree.NewText("Hello ", 1),
		&rstree.Node{Kind: rstree.KindStrong, Children: []*rstree.Node{rstree.NewText("bold", 1)}},
		rstree.NewText(" world", 1),
	)
	if got := para.PlainText(); got != "Hello bold world" {
		t.Errorf("PlainText() = %q", got)
	}

	quote := rstree.NewNode(rstree.KindBlockQuote, 1)
	p1 := rstree.NewNode(rstree.KindParagraph, 1)
	p1.Append(rstree.NewText("one", 1))
	p2 := rstree.NewNode(rstree.KindParagraph, 3)
	p2.Append(rstree.NewText("two", 3))
	quote.Append(p1, p2)
	if got := quote.PlainText(); got != "one\n\ntwo" {
		t.Errorf("block PlainText() = %q", got)
	}
}

func TestWalk_EnterLeaveOrder(t *testing.T) {
	t.Parallel()

	root := rstree.NewNode(rstree.KindDocument, 1)
	section := rstree.NewNode(rstree.KindSection, 1)
	title := rstree.NewNode(rstree.KindTitle, 1)
	title.Append(rstree.NewText("T", 1))
	section.Append(title)
	root.Append(section)

	var events []string
	v := &recordingVisitor{events: &events}
	if err := rstree.Walk(root, v); err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{
		"enter document", "enter section", "enter title", "enter Text",
		"leave Text", "leave title", "leave section", "leave document",
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(events), len(want), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, events[i], want[i])
		}
	}
}

type recordingVisitor struct {
	events *[]string
}

func (v *recordingVisitor) Enter(n *rstree.Node) error {
	*v.events = append(*v.events, "enter "+n.Kind.String())
	return nil
}

func (v *recordingVisitor) Leave(n *rstree.Node) error {
	*v.events = append(*v.events, "leave "+n.Kind.String())
	return nil
}

func TestXML_Dump(t *testing.T) {
	t.Parallel()

	img := rstree.NewNode(rstree.KindImage, 2)
	img.SetAttr("uri", "pic.png")
	img.SetAttr("alt", "A <cat>")
	doc := rstree.NewNode(rstree.KindDocument, 1)
	doc.Append(img)

	out := rstree.XML(doc)
	if !strings.Contains(out, `<image alt="A <cat>" uri="pic.png"/>`) {
		t.Errorf("XML dump missing image element:\n%s", out)
	}
	if !strings.Contains(out, "<document>") || !strings.Contains(out, "</document>") {
		t.Errorf("XML dump missing document element:\n%s", out)
	}
}
