package goxml

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewXMLTokenReader(t *testing.T) {
	r := NewReader(strings.NewReader(`<root a="1"><child>text</child></root>`))
	dec := xml.NewTokenDecoder(NewXMLTokenReader(r))

	var got []string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch tt := tok.(type) {
		case xml.StartElement:
			got = append(got, "start:"+tt.Name.Local)
		case xml.EndElement:
			got = append(got, "end:"+tt.Name.Local)
		case xml.CharData:
			if s := strings.TrimSpace(string(tt)); s != "" {
				got = append(got, "text:"+s)
			}
		}
	}
	assert.Equal(t, []string{"start:root", "start:child", "text:text", "end:child", "end:root"}, got)
}
