// Package goxml implements a streaming, well-formedness-checking pull parser
// for XML 1.0 (Fifth Edition) and XML Namespaces 1.0 (Third Edition).
//
// The package is built from three layers: a codepoint-level Scanner that
// recognizes XML syntax without buffering or allocating, a buffered Reader
// that drives the Scanner over a decoded byte stream and exposes a
// node-at-a-time pull API, and an optional namespace resolution layer that
// attaches resolved (namespace URI, local name) pairs to element and
// attribute names.
//
// DOCTYPE/DTD validation, external entity resolution, XPath, schema
// validation, a DOM/tree builder, and an XML writer are not part of this
// package; it exposes enough from Reader to let a tree builder be layered on
// top.
package goxml

// Position identifies a location in the source document.
//
// Line and Column are both 1-indexed, matching the teacher's convention of
// never exposing 0 as a "nothing parsed yet" line/column to callers.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Range is a half-open byte interval [Start, End) into a Reader's internal
// buffer. A Range is only valid until the next call that advances the
// Reader; callers that need to keep a slice past that point must copy it.
type Range struct {
	Start int
	End   int
}

// Len reports the number of bytes spanned by r.
func (r Range) Len() int {
	return r.End - r.Start
}

// PredefinedEntities holds the five entity names that XML 1.0 always
// defines, regardless of any DTD.
var PredefinedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"apos": "'",
	"quot": `"`,
}

// ResolvedName is a name that has gone through namespace resolution: Prefix
// and Local come directly from the source QName, and NamespaceURI is the
// binding currently in scope for Prefix (or the default namespace, for an
// unprefixed name in an element-name position).
type ResolvedName struct {
	Prefix       string
	NamespaceURI string
	Local        string
}
