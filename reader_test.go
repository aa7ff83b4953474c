package goxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// readAll drains a Reader into a flat slice of event strings, for
// table-driven assertions without hand-rolling a tree builder in every
// test.
func readAll(t *testing.T, src string, nsAware bool) []string {
	t.Helper()
	r := NewReaderConfig(strings.NewReader(src), ReaderConfig{BufferCapacity: 256, NamespaceAware: nsAware})
	var events []string
	for {
		kind, err := r.Read()
		if err != nil {
			events = append(events, "error:"+r.ErrorCode().String())
			return events
		}
		switch kind {
		case NodeEOF:
			return events
		case NodeXMLDeclaration:
			events = append(events, "decl:"+r.XMLDeclarationVersion())
		case NodeElementStart:
			events = append(events, "start:"+elementLabel(r, nsAware)+attrsLabel(r))
		case NodeElementEnd:
			events = append(events, "end:"+elementLabel(r, nsAware))
		case NodeText:
			events = append(events, "text:"+r.Text())
		case NodeCDATA:
			events = append(events, "cdata:"+r.CDATA())
		case NodeComment:
			events = append(events, "comment:"+r.Comment())
		case NodePI:
			events = append(events, "pi:"+r.PITarget()+"="+r.PIData())
		case NodeCharacterReference:
			events = append(events, "charref:"+string(r.CharacterReferenceChar()))
		case NodeEntityReference:
			events = append(events, "entityref:"+r.EntityReferenceName())
		}
	}
}

func newTestReader(t *testing.T, src string, nsAware bool) *Reader {
	t.Helper()
	return NewReaderConfig(strings.NewReader(src), ReaderConfig{BufferCapacity: 256, NamespaceAware: nsAware})
}

func elementLabel(r *Reader, nsAware bool) string {
	if !nsAware {
		return r.ElementName()
	}
	rn := r.ElementNameNS()
	return rn.NamespaceURI + "|" + rn.Local
}

func attrsLabel(r *Reader) string {
	s := ""
	for i := 0; i < r.AttributeCount(); i++ {
		s += " " + r.AttributeName(i) + "=" + r.AttributeValue(i)
	}
	return s
}

func Test_Reader_simpleDocument(t *testing.T) {
	got := readAll(t, `<root>hello</root>`, false)
	assert.Equal(t, []string{"start:root", "text:hello", "end:root"}, got)
}

func Test_Reader_xmlDeclaration(t *testing.T) {
	got := readAll(t, `<?xml version="1.0" encoding="UTF-8"?><root/>`, false)
	assert.Equal(t, []string{"decl:1.0", "start:root", "end:root"}, got)
}

func Test_Reader_selfClosingWithAttributes(t *testing.T) {
	got := readAll(t, `<root a="1" b="2"/>`, false)
	assert.Equal(t, []string{"start:root a=1 b=2", "end:root"}, got)
}

func Test_Reader_nestedElements(t *testing.T) {
	got := readAll(t, `<a><b><c/></b></a>`, false)
	assert.Equal(t, []string{"start:a", "start:b", "start:c", "end:c", "end:b", "end:a"}, got)
}

func Test_Reader_textAfterNonRootEndTag(t *testing.T) {
	// Regression: text following a non-root end tag must not re-include
	// the sibling's own content or end-tag markup.
	got := readAll(t, `<a><b>x</b>y</a>`, false)
	assert.Equal(t, []string{"start:a", "start:b", "text:x", "end:b", "text:y", "end:a"}, got)
}

func Test_Reader_cdata(t *testing.T) {
	got := readAll(t, `<r><![CDATA[<raw>&not-an-entity]]></r>`, false)
	assert.Equal(t, []string{"start:r", "cdata:<raw>&not-an-entity", "end:r"}, got)
}

func Test_Reader_comment(t *testing.T) {
	got := readAll(t, `<r><!-- hi --></r>`, false)
	assert.Equal(t, []string{"start:r", "comment: hi ", "end:r"}, got)
}

func Test_Reader_processingInstruction(t *testing.T) {
	got := readAll(t, `<r><?target data?></r>`, false)
	assert.Equal(t, []string{"start:r", "pi:target=data", "end:r"}, got)
}

func Test_Reader_entityAndCharRefsInContent(t *testing.T) {
	got := readAll(t, `<r>a&amp;&#65;c</r>`, false)
	assert.Equal(t, []string{"start:r", "text:a", "entityref:amp", "charref:A", "text:c", "end:r"}, got)
}

func Test_Reader_entityRefsInAttributeValue(t *testing.T) {
	got := readAll(t, `<r a="x&amp;y&#65;z"/>`, false)
	assert.Equal(t, []string{"start:r a=x&yAz", "end:r"}, got)
}

func Test_Reader_namespaces(t *testing.T) {
	got := readAll(t, `<a:root xmlns:a="urn:a" a:x="1"><a:child/></a:root>`, true)
	assert.Equal(t, []string{
		"start:urn:a|root a:x=1",
		"start:urn:a|child",
		"end:urn:a|child",
		"end:urn:a|root",
	}, got)
}

func Test_Reader_defaultNamespace(t *testing.T) {
	got := readAll(t, `<root xmlns="urn:d"><child/></root>`, true)
	assert.Equal(t, []string{
		"start:urn:d|root",
		"start:urn:d|child",
		"end:urn:d|child",
		"end:urn:d|root",
	}, got)
}

func Test_Reader_mismatchedEndTag(t *testing.T) {
	got := readAll(t, `<a></b>`, false)
	assert.Equal(t, []string{"start:a", "error:" + ErrMismatchedEndTag.String()}, got)
}

func Test_Reader_duplicateAttribute(t *testing.T) {
	got := readAll(t, `<a x="1" x="2"/>`, false)
	assert.Equal(t, []string{"error:" + ErrDuplicateAttribute.String()}, got)
}

func Test_Reader_undeclaredNamespacePrefix(t *testing.T) {
	got := readAll(t, `<a:root/>`, true)
	assert.Equal(t, []string{"error:" + ErrUndeclaredNsPrefix.String()}, got)
}

func Test_Reader_lineEndingNormalization(t *testing.T) {
	got := readAll(t, "<r>a\r\nb\rc</r>", false)
	assert.Equal(t, []string{"start:r", "text:a\nb\nc", "end:r"}, got)
}

func Test_Reader_attributeValueWhitespaceNormalization(t *testing.T) {
	got := readAll(t, "<r a=\"a\tb\nc\"/>", false)
	assert.Equal(t, []string{"start:r a=a b c", "end:r"}, got)
}

func Test_Reader_errorCodeAndLocationStickAfterFailure(t *testing.T) {
	r := NewReader(strings.NewReader(`<a></b>`))
	_, err := r.Read()
	assert.NoError(t, err)
	_, err = r.Read()
	assert.Error(t, err)
	assert.Equal(t, ErrMismatchedEndTag, r.ErrorCode())

	// Once failed, the Reader stays failed.
	code, loc := r.ErrorCode(), r.ErrorLocation()
	_, err2 := r.Read()
	assert.Error(t, err2)
	assert.Equal(t, code, r.ErrorCode())
	assert.Equal(t, loc, r.ErrorLocation())
}
