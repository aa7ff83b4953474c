package goxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_parseCharRefDigits(t *testing.T) {
	tests := []struct {
		name    string
		digits  string
		hex     bool
		want    rune
		wantErr bool
	}{
		{name: "decimal", digits: "65", want: 'A'},
		{name: "hex", digits: "41", hex: true, want: 'A'},
		{name: "hex lowercase", digits: "6a", hex: true, want: 'j'},
		{name: "surrogate rejected", digits: "d800", hex: true, wantErr: true},
		{name: "out of range rejected", digits: "110000", hex: true, wantErr: true},
		{name: "control char rejected", digits: "1", wantErr: true},
		{name: "not digits", digits: "zz", hex: true, wantErr: true},
		{name: "tab is valid", digits: "9", want: '\t'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCharRefDigits(tt.digits, tt.hex)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
