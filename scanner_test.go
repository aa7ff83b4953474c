package goxml

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// scanAll drives a fresh Scanner over src one codepoint at a time (as the
// Reader does) and returns every ScanToken produced, plus any error
// encountered either mid-document or from the final EndInput check. Because
// src is valid UTF-8, the byte offsets in the returned tokens' Ranges index
// directly into []byte(src).
func scanAll(t *testing.T, src string) ([]ScanToken, error) {
	t.Helper()
	s := NewScanner()
	var toks []ScanToken
	for _, r := range src {
		tok, err := s.Next(r, utf8.RuneLen(r))
		if err != nil {
			return toks, err
		}
		if tok != nil {
			toks = append(toks, tok)
		}
	}
	if err := s.EndInput(); err != nil {
		return toks, err
	}
	return toks, nil
}

// str renders a ScanToken as a short label for table-driven comparison,
// resolving any Range against src's own bytes.
func str(src string, tok ScanToken) string {
	b := []byte(src)
	text := func(rng Range) string { return string(b[rng.Start:rng.End]) }
	switch t := tok.(type) {
	case ElementStartToken:
		return "start:" + text(t.Name)
	case ElementStartEndToken:
		if t.Empty {
			return "selfclose"
		}
		return "opentag"
	case ElementEndToken:
		return "end:" + text(t.Name)
	case TextToken:
		return "text:" + text(t.Range)
	case CDATAToken:
		return "cdata:" + text(t.Range)
	case CommentToken:
		return "comment:" + text(t.Range)
	case PIToken:
		return "pi:" + text(t.Target) + "=" + text(t.Data)
	case EntityRefToken:
		return "entityref:" + text(t.Name)
	case CharRefToken:
		return "charref:" + string(t.Codepoint)
	case AttributeToken:
		return "attr:" + text(t.Name)
	case XMLDeclToken:
		return "decl:" + text(t.Version)
	}
	return "unknown"
}

func strs(src string, toks []ScanToken) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = str(src, tok)
	}
	return out
}

func Test_Scanner_textAfterNonRootEndTagIsNotReincluded(t *testing.T) {
	// Regression test: closeEndTag must advance literalFrom past the '>'
	// it consumes when returning to stContent for a non-root element, the
	// same as every other transition into stContent. Before the fix, the
	// text following </b> was re-merged with "x" and the literal "</b>"
	// bytes into a single corrupted text node.
	toks, err := scanAll(t, `<a><b>x</b>y</a>`)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"start:a",
		"start:b",
		"text:x",
		"end:b",
		"text:y",
		"end:a",
	}, strs(`<a><b>x</b>y</a>`, toks))
}

func Test_Scanner_simpleElement(t *testing.T) {
	toks, err := scanAll(t, `<root>hello</root>`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"start:root", "text:hello", "end:root"}, strs(`<root>hello</root>`, toks))
}

func Test_Scanner_selfClosingElement(t *testing.T) {
	toks, err := scanAll(t, `<root/>`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"start:root", "selfclose", "end:root"}, strs(`<root/>`, toks))
}

func Test_Scanner_selfClosingElementWithAttribute(t *testing.T) {
	src := `<root a="1"/>`
	toks, err := scanAll(t, src)
	assert.NoError(t, err)
	assert.Equal(t, []string{"start:root", "attr:a", "selfclose"}, strs(src, toks))
}

func Test_Scanner_nestedSelfClosingSiblingsThenText(t *testing.T) {
	// Exercises the same stSelfCloseSlash -> stContent transition the
	// regression test covers for closeEndTag, guarding the depth++/-- at
	// the other entry point into self-closing handling.
	src := `<a><b/>tail</a>`
	toks, err := scanAll(t, src)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"start:a",
		"start:b",
		"selfclose",
		"text:tail",
		"end:a",
	}, strs(src, toks))
}

func Test_Scanner_cdataSection(t *testing.T) {
	src := `<r><![CDATA[<raw>&x]]>tail</r>`
	toks, err := scanAll(t, src)
	assert.NoError(t, err)
	assert.Equal(t, []string{"start:r", "cdata:<raw>&x", "text:tail", "end:r"}, strs(src, toks))
}

func Test_Scanner_comment(t *testing.T) {
	src := `<r><!-- hi -->tail</r>`
	toks, err := scanAll(t, src)
	assert.NoError(t, err)
	assert.Equal(t, []string{"start:r", "comment: hi ", "text:tail", "end:r"}, strs(src, toks))
}

func Test_Scanner_processingInstruction(t *testing.T) {
	src := `<r><?target data?>tail</r>`
	toks, err := scanAll(t, src)
	assert.NoError(t, err)
	assert.Equal(t, []string{"start:r", "pi:target=data", "text:tail", "end:r"}, strs(src, toks))
}

func Test_Scanner_xmlDeclaration(t *testing.T) {
	src := `<?xml version="1.0" encoding="UTF-8"?><root/>`
	toks, err := scanAll(t, src)
	assert.NoError(t, err)
	assert.Equal(t, []string{"decl:1.0", "start:root", "selfclose"}, strs(src, toks))
}

func Test_Scanner_entityAndCharRefInContent(t *testing.T) {
	src := `<r>a&amp;b&#65;c</r>`
	toks, err := scanAll(t, src)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"start:r",
		"text:a",
		"entityref:amp",
		"text:b",
		"charref:A",
		"text:c",
		"end:r",
	}, strs(src, toks))
}

func Test_Scanner_mismatchedEndTagDepthUnderflow(t *testing.T) {
	_, err := scanAll(t, `<a></b></a>`)
	assert.Error(t, err)
}

func Test_Scanner_endTagWithNoOpenElement(t *testing.T) {
	_, err := scanAll(t, `</a>`)
	assert.Error(t, err)
}

func Test_Scanner_onlyOneRootElement(t *testing.T) {
	_, err := scanAll(t, `<a/><b/>`)
	assert.Error(t, err)
}

func Test_Scanner_invalidCharacterInContent(t *testing.T) {
	_, err := scanAll(t, "<a>\x01</a>")
	assert.Error(t, err)
}

func Test_Scanner_resettableTracksLiteralFrom(t *testing.T) {
	// Reproduces the compaction-blocking half of the closeEndTag bug: once
	// a non-root end tag returns to stContent, Resettable must be able to
	// report true again at the very next codepoint boundary (immediately
	// before the following '<'), not be stuck false for the rest of the
	// subtree.
	s := NewScanner()
	for _, r := range `<a><b>x</b>` {
		_, err := s.Next(r, utf8.RuneLen(r))
		assert.NoError(t, err)
	}
	assert.True(t, s.Resettable())
}
