package gemtext_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemrst/rst2gem/pkg/gemtext"
)

func TestCollapseNewlines(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"foo\nbar":     "foo bar",
		"foo\r\nbar":   "foo bar",
		"foo\rbar":     "foo bar",
		"a\nb\r\nc\rd": "a b c d",
		"plain":        "plain",
	}
	for input, want := range cases {
		assert.Equal(t, want, gemtext.CollapseNewlines(input))
	}
}

func TestCollapseNewlines_Idempotent(t *testing.T) {
	t.Parallel()

	// Collapsing mixed line endings equals normalizing to LF first, then
	// collapsing.
	input := "one\r\ntwo\rthree\nfour"
	normalized := strings.ReplaceAll(strings.ReplaceAll(input, "\r\n", "\n"), "\r", "\n")

	direct := gemtext.CollapseNewlines(input)
	assert.Equal(t, direct, gemtext.CollapseNewlines(normalized))
	assert.Equal(t, direct, gemtext.CollapseNewlines(direct))
}

func TestCountLines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, gemtext.CountLines("one"))
	assert.Equal(t, 2, gemtext.CountLines("one\ntwo"))
	assert.Equal(t, 3, gemtext.CountLines("one\r\ntwo\rthree"))
	assert.Equal(t, 1, gemtext.CountLines(""))
}

func TestParagraph_Gemtext(t *testing.T) {
	t.Parallel()

	p := gemtext.NewParagraph(nil)
	p.AppendText("Hello\nworld.")
	text, err := p.Gemtext()
	require.NoError(t, err)
	assert.Equal(t, "Hello world.", text)
}

func TestTitle_LevelClamp(t *testing.T) {
	t.Parallel()

	prevMarker := 0
	for level := -1; level <= 6; level++ {
		title := gemtext.NewTitle(nil, level)
		title.AppendText("Heading")
		text, err := title.Gemtext()
		require.NoError(t, err)

		marker := strings.IndexByte(text, ' ')
		require.GreaterOrEqual(t, marker, 1, "level %d: %q", level, text)
		assert.LessOrEqual(t, marker, 3, "level %d: %q", level, text)
		assert.GreaterOrEqual(t, marker, prevMarker, "marker length must not decrease")
		prevMarker = marker
	}
}

func TestPre_Gemtext(t *testing.T) {
	t.Parallel()

	pre := gemtext.NewPre(nil)
	pre.AppendText("def f():\n    return 1")
	pre.Alt = "python"
	text, err := pre.Gemtext()
	require.NoError(t, err)
	assert.Equal(t, "```python\ndef f():\n    return 1\n```", text)
}

func TestLink_Gemtext(t *testing.T) {
	t.Parallel()

	t.Run("text equals URI", func(t *testing.T) {
		t.Parallel()
		link := gemtext.NewLink(nil, "gemini://example.org/", "gemini://example.org/")
		text, err := link.Gemtext()
		require.NoError(t, err)
		assert.Equal(t, "=> gemini://example.org/", text)
	})

	t.Run("empty text defaults to URI", func(t *testing.T) {
		t.Parallel()
		link := gemtext.NewLink(nil, "pic.png", "")
		text, err := link.Gemtext()
		require.NoError(t, err)
		assert.Equal(t, "=> pic.png", text)
	})

	t.Run("differing text", func(t *testing.T) {
		t.Parallel()
		link := gemtext.NewLink(nil, "pic.png", "A cat")
		text, err := link.Gemtext()
		require.NoError(t, err)
		assert.Equal(t, "=> pic.png A cat", text)
	})

	t.Run("missing URI fails", func(t *testing.T) {
		t.Parallel()
		link := gemtext.NewLink(nil, "", "dangling")
		_, err := link.Gemtext()
		assert.True(t, errors.Is(err, gemtext.ErrMissingURI))
	})

	t.Run("unresolved refname fails", func(t *testing.T) {
		t.Parallel()
		link := gemtext.NewLink(nil, "", "dangling")
		link.Refname = "missing-target"
		_, err := link.Gemtext()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing-target")
	})
}

func TestLinks_Gemtext(t *testing.T) {
	t.Parallel()

	group := gemtext.NewLinks(nil,
		gemtext.NewLink(nil, "a.gmi", ""),
		gemtext.NewLink(nil, "b.gmi", "B"),
	)
	text, err := group.Gemtext()
	require.NoError(t, err)
	assert.Equal(t, "=> a.gmi\n=> b.gmi B", text)
}

func TestSeparator_Gemtext(t *testing.T) {
	t.Parallel()

	sep := gemtext.NewSeparator(nil)
	text, err := sep.Gemtext()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("-", 80), text)
}

func TestQuote_Gemtext(t *testing.T) {
	t.Parallel()

	p1 := gemtext.NewParagraph(nil)
	p1.AppendText("first")
	p2 := gemtext.NewParagraph(nil)
	p2.AppendText("second")

	quote := gemtext.NewQuote(nil, p1, p2)
	text, err := quote.Gemtext()
	require.NoError(t, err)
	assert.Equal(t, "> first\n> \n> second", text)
}

func TestList_Gemtext(t *testing.T) {
	t.Parallel()

	a := gemtext.NewItem(nil)
	a.AppendText("A")
	b := gemtext.NewItem(nil)
	b.AppendText("B")

	list := gemtext.NewList(nil, a, b)
	text, err := list.Gemtext()
	require.NoError(t, err)
	assert.Equal(t, "* A\n* B", text)
}

func TestEnumList_Gemtext(t *testing.T) {
	t.Parallel()

	a := gemtext.NewItem(nil)
	a.AppendText("first")
	b := gemtext.NewItem(nil)
	b.AppendText("second")

	list := gemtext.NewEnumList(nil, gemtext.EnumArabic)
	list.Children = []gemtext.Node{a, b}
	text, err := list.Gemtext()
	require.NoError(t, err)
	assert.Equal(t, "1. first\n2. second", text)
}

func TestEnumList_CounterAdvancesPastNestedGroups(t *testing.T) {
	t.Parallel()

	a := gemtext.NewItem(nil)
	a.AppendText("first")
	nestedItem := gemtext.NewItem(nil)
	nestedItem.AppendText("sub")
	nested := gemtext.NewList(nil, nestedItem)
	b := gemtext.NewItem(nil)
	b.AppendText("second")

	list := gemtext.NewEnumList(nil, gemtext.EnumArabic)
	list.Children = []gemtext.Node{a, nested, b}
	text, err := list.Gemtext()
	require.NoError(t, err)
	// The counter advances for every child, so the item after the nested
	// list is numbered 3, not 2.
	assert.Equal(t, "1. first\n* sub\n3. second", text)
}

func TestEnumList_StartAndAffixes(t *testing.T) {
	t.Parallel()

	a := gemtext.NewItem(nil)
	a.AppendText("x")
	b := gemtext.NewItem(nil)
	b.AppendText("y")

	list := gemtext.NewEnumList(nil, gemtext.EnumLowerAlpha)
	list.Prefix = "("
	list.Suffix = ")"
	list.Start = 3
	list.Children = []gemtext.Node{a, b}
	text, err := list.Gemtext()
	require.NoError(t, err)
	assert.Equal(t, "(c) x\n(d) y", text)
}

func TestAdmonition_Gemtext(t *testing.T) {
	t.Parallel()

	rule := strings.Repeat("-", 80)

	t.Run("typed uses icon label", func(t *testing.T) {
		t.Parallel()
		body := gemtext.NewParagraph(nil)
		body.AppendText("Mind the gap.")
		adm := gemtext.NewAdmonition(nil, "warning")
		adm.Children = []gemtext.Node{body}

		text, err := adm.Gemtext()
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{rule, "⚠️ Warning", rule, "Mind the gap.", rule}, "\n"), text)
	})

	t.Run("explicit title overrides", func(t *testing.T) {
		t.Parallel()
		body := gemtext.NewParagraph(nil)
		body.AppendText("body")
		adm := gemtext.NewAdmonition(nil, "")
		adm.Title = "Custom"
		adm.Children = []gemtext.Node{body}

		text, err := adm.Gemtext()
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{rule, "Custom", rule, "body", rule}, "\n"), text)
	})

	t.Run("untyped without title renders empty title line", func(t *testing.T) {
		t.Parallel()
		adm := gemtext.NewAdmonition(nil, "")
		text, err := adm.Gemtext()
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{rule, "", rule, "", rule}, "\n"), text)
	})
}

func TestRender(t *testing.T) {
	t.Parallel()

	p := gemtext.NewParagraph(nil)
	p.AppendText("Hello world.")
	title := gemtext.NewTitle(nil, 1)
	title.AppendText("Title")

	out, err := gemtext.Render([]gemtext.Node{title, p})
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nHello world.\n", out)
}

func TestRender_FailsOnUnresolvedLink(t *testing.T) {
	t.Parallel()

	_, err := gemtext.Render([]gemtext.Node{gemtext.NewLink(nil, "", "x")})
	assert.True(t, errors.Is(err, gemtext.ErrMissingURI))
}
