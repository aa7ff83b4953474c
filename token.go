package goxml

// ScanToken is implemented by every token the Scanner can produce. All
// fields are Ranges into the Reader's buffer (or scalar values decoded
// in-place, for character references and the empty/standalone flags); a
// ScanToken never owns a copy of the bytes it describes.
type ScanToken interface {
	scanToken()
}

// ValuePieceKind identifies one fragment of an attribute value, which the
// Scanner breaks into literal-text runs interleaved with character and
// entity references so the Reader can apply entity expansion without
// re-scanning.
type ValuePieceKind int

const (
	ValueLiteral ValuePieceKind = iota
	ValueCharRef
	ValueEntityRef
)

// ValuePiece is one fragment of an AttributeToken's value.
type ValuePiece struct {
	Kind ValuePieceKind
	// Range is populated for ValueLiteral (literal text) and
	// ValueEntityRef (the entity name).
	Range Range
	// Codepoint is populated for ValueCharRef.
	Codepoint rune
}

// XMLDeclToken is the XML declaration: <?xml version="1.0" ...?>.
type XMLDeclToken struct {
	Version       Range
	Encoding      Range
	HasEncoding   bool
	Standalone    bool
	HasStandalone bool
}

// ElementStartToken is the name of an opening tag, reported before its
// attributes (each reported as its own AttributeToken) and the
// ElementStartEndToken that closes the tag. For a "<name>" tag whose '>'
// directly follows the name, ElementStartToken is the only token reported;
// no ElementStartEndToken follows it.
type ElementStartToken struct {
	Name Range
}

// AttributeToken is one attribute of the element_start currently being
// scanned.
type AttributeToken struct {
	Name  Range
	Value []ValuePiece
}

// ElementStartEndToken closes an opening tag, either "<x ...>" (Empty
// false) or the self-closing "<x .../>" (Empty true, which the Reader
// pairs with a synthesized ElementEndToken).
type ElementStartEndToken struct {
	Empty bool
}

// ElementEndToken is a "</name>" closing tag.
type ElementEndToken struct {
	Name Range
}

// TextToken is a run of character data in content.
type TextToken struct {
	Range Range
}

// CDATAToken is the content of a <![CDATA[ ... ]]> section.
type CDATAToken struct {
	Range Range
}

// CharRefToken is a numeric character reference, already decoded to its
// scalar value.
type CharRefToken struct {
	Codepoint rune
}

// EntityRefToken is a named entity reference in content, predefined or not.
type EntityRefToken struct {
	Name Range
}

// CommentToken is the body of a <!-- ... --> comment.
type CommentToken struct {
	Range Range
}

// PIToken is a processing instruction, <?target data?>.
type PIToken struct {
	Target Range
	Data   Range
}

// EOFToken marks the end of input.
type EOFToken struct{}

func (XMLDeclToken) scanToken()         {}
func (ElementStartToken) scanToken()    {}
func (AttributeToken) scanToken()       {}
func (ElementStartEndToken) scanToken() {}
func (ElementEndToken) scanToken()      {}
func (TextToken) scanToken()            {}
func (CDATAToken) scanToken()           {}
func (CharRefToken) scanToken()         {}
func (EntityRefToken) scanToken()       {}
func (CommentToken) scanToken()         {}
func (PIToken) scanToken()              {}
func (EOFToken) scanToken()             {}
