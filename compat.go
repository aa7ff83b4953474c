package goxml

import (
	"encoding/xml"
	"fmt"
	"io"
)

// tokenReader adapts a Reader to encoding/xml's xml.TokenReader, grounded on
// the teacher's tokenReader (xml.go). Unlike the teacher's byte-slice
// Scanner, a Reader already synthesizes the element_end implied by
// empty-element syntax on its own, so this adapter needs no "next" token
// lookahead slot.
type tokenReader struct {
	r *Reader
}

// NewXMLTokenReader adapts r to xml.TokenReader, so it can be driven by
// encoding/xml.Decoder or anything else that consumes one. Namespace
// resolution is used when available: Space is the resolved namespace URI,
// falling back to the empty string when r is not namespace-aware.
func NewXMLTokenReader(r *Reader) xml.TokenReader {
	return &tokenReader{r: r}
}

// Token implements xml.TokenReader.
func (tr *tokenReader) Token() (_ xml.Token, err error) {
	defer func() {
		if rErr := recover(); rErr != nil {
			err = fmt.Errorf("goxml: unexpected panic: %v", rErr)
		}
	}()
	kind, rErr := tr.r.Read()
	if rErr != nil {
		return nil, rErr
	}
	switch kind {
	case NodeEOF:
		return nil, io.EOF
	case NodeXMLDeclaration:
		// encoding/xml has no token for the declaration itself; skip to
		// the next one.
		return tr.Token()
	case NodeElementStart:
		return xmlStartElement(tr.r), nil
	case NodeElementEnd:
		return xmlEndElement(tr.r), nil
	case NodeComment:
		return xml.Comment(tr.r.Comment()), nil
	case NodePI:
		return xml.ProcInst{Target: tr.r.PITarget(), Inst: []byte(tr.r.PIData())}, nil
	case NodeText, NodeCDATA:
		return xml.CharData(tr.r.Text()), nil
	case NodeCharacterReference:
		return xml.CharData(string(tr.r.CharacterReferenceChar())), nil
	case NodeEntityReference:
		// encoding/xml has no token for an unresolved entity reference;
		// surface its literal source text instead.
		return xml.CharData("&" + tr.r.EntityReferenceName() + ";"), nil
	default:
		return nil, fmt.Errorf("goxml: unrecognized node kind %v", kind)
	}
}

func xmlStartElement(r *Reader) xml.StartElement {
	name := r.ElementNameNS()
	attrs := make([]xml.Attr, 0, r.AttributeCount())
	for i := 0; i < r.AttributeCount(); i++ {
		an := r.AttributeNameNS(i)
		attrs = append(attrs, xml.Attr{
			Name:  xml.Name{Space: an.NamespaceURI, Local: an.Local},
			Value: r.AttributeValue(i),
		})
	}
	return xml.StartElement{
		Name: xml.Name{Space: name.NamespaceURI, Local: name.Local},
		Attr: attrs,
	}
}

func xmlEndElement(r *Reader) xml.EndElement {
	name := r.ElementNameNS()
	return xml.EndElement{Name: xml.Name{Space: name.NamespaceURI, Local: name.Local}}
}
