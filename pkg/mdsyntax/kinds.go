package mdsyntax

import "github.com/yaklabco/gosyntax/pkg/green"

// Markdown node and token kinds.
const (
	KindDocument green.Kind = green.KindFirstGrammar + iota
	KindParagraph
	KindHeading
	KindBulletList
	KindOrderedList
	KindListItem
	KindBlockquote
	KindCodeBlock
	KindFencedCodeBlock
	KindThematicBreak
	KindHTMLBlock
	KindTextBlock
	KindTable
	KindTableHeader
	KindTableRow
	KindTableCell
	KindBlock

	// Token kinds.
	KindText
	KindCode
	KindHTML
)

//nolint:gochecknoinits // Kind names must be registered before any tree is printed.
func init() {
	for kind, name := range map[green.Kind]string{
		KindDocument:        "Document",
		KindParagraph:       "Paragraph",
		KindHeading:         "Heading",
		KindBulletList:      "BulletList",
		KindOrderedList:     "OrderedList",
		KindListItem:        "ListItem",
		KindBlockquote:      "Blockquote",
		KindCodeBlock:       "CodeBlock",
		KindFencedCodeBlock: "FencedCodeBlock",
		KindThematicBreak:   "ThematicBreak",
		KindHTMLBlock:       "HTMLBlock",
		KindTextBlock:       "TextBlock",
		KindTable:           "Table",
		KindTableHeader:     "TableHeader",
		KindTableRow:        "TableRow",
		KindTableCell:       "TableCell",
		KindBlock:           "Block",
		KindText:            "Text",
		KindCode:            "Code",
		KindHTML:            "HTML",
	} {
		green.RegisterKind(kind, name)
	}
}

// Diagnostic codes reported by the parser.
const (
	CodeTrailingWhitespace = "trailing-whitespace"
	CodeHardTab            = "hard-tab"
	CodeMissingLanguage    = "missing-language"
)

// Annotation kinds attached by the parser.
const (
	AnnotationLanguage     = "language"
	AnnotationHeadingLevel = "heading-level"
)
