package goxml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func Test_NodeKind_String(t *testing.T) {
	assert.Equal(t, "ElementStart", NodeElementStart.String())
	assert.Equal(t, "EOF", NodeEOF.String())
	assert.Equal(t, "NodeKind(?)", NodeKind(99).String())
}

func Test_Reader_resolvedAttributeNames(t *testing.T) {
	r := newTestReader(t, `<p:a xmlns:p="urn:p" xmlns="urn:d" p:x="1" y="2"/>`, true)
	_, err := r.Read()
	assert.NoError(t, err)

	var got []ResolvedName
	for i := 0; i < r.AttributeCount(); i++ {
		got = append(got, r.AttributeNameNS(i))
	}
	want := []ResolvedName{
		{Prefix: "p", NamespaceURI: "urn:p", Local: "x"},
		{Local: "y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolved attribute names mismatch (-want +got):\n%s", diff)
	}
}
