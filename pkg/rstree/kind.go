package rstree

// Kind classifies the type of a document tree node.
// The names mirror the reStructuredText element vocabulary so that the
// debug XML dump reads like the familiar docutils pseudo-XML.
type Kind uint16

// Node kinds for the reStructuredText constructs the converter understands.
const (
	KindUnknown Kind = iota

	KindDocument
	KindSection
	KindTitle

	// Body elements.
	KindParagraph
	KindLiteralBlock
	KindBlockQuote
	KindBulletList
	KindEnumeratedList
	KindListItem
	KindImage
	KindFigure
	KindCaption
	KindRaw
	KindTable
	KindTransition

	// Admonitions.
	KindNote
	KindHint
	KindTip
	KindImportant
	KindAttention
	KindWarning
	KindCaution
	KindDanger
	KindAdmonition

	// Inline elements.
	KindText
	KindEmphasis
	KindStrong
	KindLiteral
	KindReference
	KindTarget

	// Opaque constructs (never translated).
	KindComment
	KindFieldList
	KindSubstitutionDefinition

	// Parser diagnostics.
	KindSystemMessage
)

// kindNames maps kinds to their reStructuredText element names.
var kindNames = map[Kind]string{
	KindUnknown:                "unknown",
	KindDocument:               "document",
	KindSection:                "section",
	KindTitle:                  "title",
	KindParagraph:              "paragraph",
	KindLiteralBlock:           "literal_block",
	KindBlockQuote:             "block_quote",
	KindBulletList:             "bullet_list",
	KindEnumeratedList:         "enumerated_list",
	KindListItem:               "list_item",
	KindImage:                  "image",
	KindFigure:                 "figure",
	KindCaption:                "caption",
	KindRaw:                    "raw",
	KindTable:                  "table",
	KindTransition:             "transition",
	KindNote:                   "note",
	KindHint:                   "hint",
	KindTip:                    "tip",
	KindImportant:              "important",
	KindAttention:              "attention",
	KindWarning:                "warning",
	KindCaution:                "caution",
	KindDanger:                 "danger",
	KindAdmonition:             "admonition",
	KindText:                   "Text",
	KindEmphasis:               "emphasis",
	KindStrong:                 "strong",
	KindLiteral:                "literal",
	KindReference:              "reference",
	KindTarget:                 "target",
	KindComment:                "comment",
	KindFieldList:              "field_list",
	KindSubstitutionDefinition: "substitution_definition",
	KindSystemMessage:          "system_message",
}

// String returns the reStructuredText element name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsAdmonition returns true for the typed admonition kinds and the
// generic admonition construct.
func (k Kind) IsAdmonition() bool {
	switch k {
	case KindNote, KindHint, KindTip, KindImportant, KindAttention,
		KindWarning, KindCaution, KindDanger, KindAdmonition:
		return true
	default:
		return false
	}
}

// IsInline returns true for inline-level kinds whose text flows into the
// enclosing block.
func (k Kind) IsInline() bool {
	switch k {
	case KindText, KindEmphasis, KindStrong, KindLiteral, KindReference, KindTarget:
		return true
	default:
		return false
	}
}
