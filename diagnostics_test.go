package goxml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func Test_ErrorCode_String(t *testing.T) {
	assert.Equal(t, "MismatchedEndTag", ErrMismatchedEndTag.String())
	assert.Equal(t, "NoError", ErrNone.String())
	assert.Contains(t, ErrorCode(9001).String(), "ErrorCode(9001)")
}

func Test_Error_Error(t *testing.T) {
	err := newError(ErrSyntaxError, Position{Offset: 10, Line: 2, Column: 3}, "unexpected %q", "<")
	assert.EqualError(t, err, `SyntaxError at line 2, column 3: unexpected "<"`)
}

func Test_Reader_errorLocationPinpointsFailure(t *testing.T) {
	r := newTestReader(t, "<a>\n  </b>", false)
	_, err := r.Read() // element_start
	assert.NoError(t, err)
	_, err = r.Read() // text
	assert.NoError(t, err)
	_, err = r.Read() // mismatched end tag
	assert.Error(t, err)

	got := r.ErrorLocation()
	want := Position{Line: 2, Column: 7, Offset: got.Offset}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("error location mismatch (-want +got):\n%s", diff)
	}
}
