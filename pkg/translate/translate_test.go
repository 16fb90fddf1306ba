package translate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemrst/rst2gem/pkg/config"
	"github.com/gemrst/rst2gem/pkg/gemtext"
	"github.com/gemrst/rst2gem/pkg/parser/rst"
	"github.com/gemrst/rst2gem/pkg/rstree"
)

var rule = strings.Repeat("-", 80)

func convert(t *testing.T, src string, cfg *config.Config) *Result {
	t.Helper()
	c := NewConverter(rst.New(), cfg)
	res, err := c.Convert(context.Background(), "test.rst", []byte(src))
	require.NoError(t, err)
	return res
}

func TestConvert_ParagraphJoinsLines(t *testing.T) {
	res := convert(t, "Hello\nworld.\n", nil)
	assert.Equal(t, "Hello world.\n", res.Output)
	assert.Empty(t, res.Diagnostics)
}

func TestConvert_EmptyListItem(t *testing.T) {
	// A bare bullet marker contributes nothing but must not break the list.
	res := convert(t, "* item\n*\n", nil)
	assert.Equal(t, "* item\n", res.Output)
}

func TestConvert_SectionHeadings(t *testing.T) {
	src := `Title
=====

Intro.

Sub
---

Body.
`
	res := convert(t, src, nil)
	assert.Equal(t, "# Title\n\nIntro.\n\n## Sub\n\nBody.\n", res.Output)
}

func TestConvert_HeadingLevelClamped(t *testing.T) {
	src := `A
=

B
-

C
~

D
^

Deep.
`
	res := convert(t, src, nil)
	assert.Equal(t, "# A\n\n## B\n\n### C\n\n### D\n\nDeep.\n", res.Output)
}

func TestConvert_BulletList(t *testing.T) {
	res := convert(t, "* A\n* B\n", nil)
	assert.Equal(t, "* A\n* B\n", res.Output)
}

func TestConvert_NestedBulletList(t *testing.T) {
	res := convert(t, "* outer\n\n  * inner\n", nil)
	assert.Equal(t, "* outer\n* inner\n", res.Output)
}

func TestConvert_EnumeratedList(t *testing.T) {
	res := convert(t, "1. first\n2. second\n", nil)
	assert.Equal(t, "1. first\n2. second\n", res.Output)
}

// A nested list splits its parent item; the counter still advances for the
// nested group, so the items keep their source numbering.
func TestConvert_EnumCounterAdvancesPastNestedList(t *testing.T) {
	src := `1. first

   * sub

2. second
`
	res := convert(t, src, nil)
	assert.Equal(t, "1. first\n* sub\n3. second\n", res.Output)
}

func TestConvert_EnumStartAndAffixes(t *testing.T) {
	res := convert(t, "(c) x\n(d) y\n", nil)
	assert.Equal(t, "(c) x\n(d) y\n", res.Output)
}

func TestConvert_Image(t *testing.T) {
	res := convert(t, ".. image:: pic.png\n   :alt: A cat\n", nil)
	assert.Equal(t, "=> pic.png A cat\n", res.Output)
}

func TestConvert_PureLinkParagraphCollapses(t *testing.T) {
	res := convert(t, "`Example <https://example.com>`_\n", nil)
	assert.Equal(t, "=> https://example.com Example\n", res.Output)
}

func TestConvert_LinkTextEqualURI(t *testing.T) {
	res := convert(t, "`<https://example.com>`_\n", nil)
	assert.Equal(t, "=> https://example.com\n", res.Output)
}

func TestConvert_EmbeddedLinkMovesAfterParagraph(t *testing.T) {
	res := convert(t, "See `Example <https://example.com>`_ now.\n", nil)
	assert.Equal(t, "See Example now.\n\n=> https://example.com Example\n", res.Output)
}

func TestConvert_MultipleLinksMerge(t *testing.T) {
	src := "See `A <https://a.example>`_ and `B <https://b.example>`_.\n"
	res := convert(t, src, nil)
	assert.Equal(t, "See A and B.\n\n=> https://a.example A\n=> https://b.example B\n", res.Output)
}

func TestConvert_NamedReferenceResolved(t *testing.T) {
	src := "Read `the docs`_.\n\n.. _the docs: https://docs.example\n"
	res := convert(t, src, nil)
	assert.Equal(t, "Read the docs.\n\n=> https://docs.example the docs\n", res.Output)
}

func TestConvert_LiteralBlock(t *testing.T) {
	res := convert(t, "Example::\n\n    code here\n", nil)
	assert.Equal(t, "Example:\n\n```\ncode here\n```\n", res.Output)
}

func TestConvert_CodeBlockKeepsLanguage(t *testing.T) {
	res := convert(t, ".. code-block:: python\n\n   print(1)\n", nil)
	assert.Equal(t, "```python\nprint(1)\n```\n", res.Output)
}

func TestConvert_BlockQuote(t *testing.T) {
	src := `Intro:

    First.

    Second.
`
	res := convert(t, src, nil)
	assert.Equal(t, "Intro:\n\n> First.\n> \n> Second.\n", res.Output)
}

func TestConvert_NoteAdmonition(t *testing.T) {
	res := convert(t, ".. note:: Stay alert.\n", nil)
	want := rule + "\nℹ️ Note\n" + rule + "\nStay alert.\n" + rule + "\n"
	assert.Equal(t, want, res.Output)
}

func TestConvert_GenericAdmonitionTitle(t *testing.T) {
	res := convert(t, ".. admonition:: Heads up\n\n   Body.\n", nil)
	want := rule + "\nHeads up\n" + rule + "\nBody.\n" + rule + "\n"
	assert.Equal(t, want, res.Output)
}

func TestConvert_AdmonitionLabelOverride(t *testing.T) {
	cfg := config.Default()
	cfg.AdmonitionLabels = map[string]string{"warning": "!! Achtung"}

	res := convert(t, ".. warning:: Mind the gap.\n", cfg)
	want := rule + "\n!! Achtung\n" + rule + "\nMind the gap.\n" + rule + "\n"
	assert.Equal(t, want, res.Output)
}

func TestConvert_RawGemtextPassesThrough(t *testing.T) {
	res := convert(t, ".. raw:: gemtext\n\n   => gemini://x verbatim\n", nil)
	assert.Equal(t, "=> gemini://x verbatim\n", res.Output)
}

func TestConvert_RawForeignFormatDropped(t *testing.T) {
	res := convert(t, "Before.\n\n.. raw:: html\n\n   <hr>\n\nAfter.\n", nil)
	assert.Equal(t, "Before.\n\nAfter.\n", res.Output)
}

func TestConvert_Transition(t *testing.T) {
	res := convert(t, "Before.\n\n----\n\nAfter.\n", nil)
	assert.Equal(t, "Before.\n\n"+rule+"\n\nAfter.\n", res.Output)
}

func TestConvert_Figure(t *testing.T) {
	t.Run("alt and caption", func(t *testing.T) {
		res := convert(t, ".. figure:: pic.png\n   :alt: A cat\n\n   The caption.\n", nil)
		assert.Equal(t, "=> pic.png A cat\nThe caption.\n", res.Output)
	})

	t.Run("caption promoted into link text", func(t *testing.T) {
		res := convert(t, ".. figure:: pic.png\n\n   The caption.\n", nil)
		assert.Equal(t, "=> pic.png The caption.\n", res.Output)
	})

	t.Run("duplicate alt caption dropped", func(t *testing.T) {
		res := convert(t, ".. figure:: pic.png\n   :alt: A cat\n\n   A cat\n", nil)
		assert.Equal(t, "=> pic.png A cat\n", res.Output)
	})

	t.Run("same target collapses to captioned link", func(t *testing.T) {
		res := convert(t, ".. figure:: pic.png\n   :target: pic.png\n   :alt: A cat\n", nil)
		assert.Equal(t, "=> pic.png A cat\n", res.Output)
	})

	t.Run("differing target keeps both links", func(t *testing.T) {
		src := ".. figure:: thumb.png\n   :target: full.png\n   :alt: A cat\n"
		res := convert(t, src, nil)
		assert.Equal(t, "=> thumb.png A cat\n=> full.png\n", res.Output)
	})
}

func TestConvert_GridTableVerbatim(t *testing.T) {
	src := `+---+---+
| a | b |
+---+---+
| c | d |
+---+---+
`
	res := convert(t, src, nil)
	want := "```\n+---+---+\n| a | b |\n+---+---+\n| c | d |\n+---+---+\n```\n"
	assert.Equal(t, want, res.Output)
}

func TestConvert_TableDirectiveLabeled(t *testing.T) {
	src := `.. table:: Caption

   +---+
   | a |
   +---+
`
	res := convert(t, src, nil)
	want := "```Caption\n+---+\n| a |\n+---+\n```\n"
	assert.Equal(t, want, res.Output)
}

func TestConvert_OpaqueConstructsVanish(t *testing.T) {
	src := `.. a comment
   spanning lines

:Author: someone

.. |sub| replace:: replacement

Text after.
`
	res := convert(t, src, nil)
	assert.Equal(t, "Text after.\n", res.Output)
	assert.Empty(t, res.Diagnostics)
}

func TestConvert_SystemMessageBecomesDiagnostic(t *testing.T) {
	res := convert(t, ".. bogus:: whatever\n", nil)

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, "test.rst", d.Source)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 3, d.Level)
	assert.Equal(t, "ERROR", d.Severity())
	assert.Equal(t, `Unknown directive type "bogus".`, d.Body)
	assert.NotContains(t, res.Output, "bogus")
}

func TestConvert_UnresolvedReferenceFails(t *testing.T) {
	c := NewConverter(rst.New(), nil)
	_, err := c.Convert(context.Background(), "test.rst", []byte("See missing_ now.\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, gemtext.ErrMissingURI)
}

func TestTranslate_StrayTextFails(t *testing.T) {
	root := rstree.NewNode(rstree.KindDocument, 1)
	root.Append(rstree.NewText("orphan", 1))
	doc := &rstree.Document{Root: root, Source: "synthetic"}

	_, err := Translate(doc, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAcceptingNode)
}

func TestTranslate_UnexpectedReferenceChildFails(t *testing.T) {
	ref := rstree.NewNode(rstree.KindReference, 2)
	ref.SetAttr("refuri", "https://example.com")
	ref.Append(rstree.NewNode(rstree.KindEmphasis, 2))

	para := rstree.NewNode(rstree.KindParagraph, 2)
	para.Append(ref)
	root := rstree.NewNode(rstree.KindDocument, 1)
	root.Append(para)
	doc := &rstree.Document{Root: root, Source: "synthetic"}

	_, err := Translate(doc, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedChild)
}

func TestConvert_GoldenDocument(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "document.rst"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "document.gmi"))
	require.NoError(t, err)

	c := NewConverter(rst.New(), nil)
	res, err := c.Convert(context.Background(), "document.rst", src)
	require.NoError(t, err)

	assert.Equal(t, string(want), res.Output)
	assert.Empty(t, res.Diagnostics)
}

func TestDiagnostic_Severity(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "INFO"},
		{2, "WARNING"},
		{3, "ERROR"},
		{4, "SEVERE"},
		{7, "LEVEL-7"},
	}
	for _, tt := range tests {
		d := Diagnostic{Level: tt.level}
		assert.Equal(t, tt.want, d.Severity())
	}
}
