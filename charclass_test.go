package goxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IsWhitespace(t *testing.T) {
	assert.True(t, IsWhitespace(' '))
	assert.True(t, IsWhitespace('\t'))
	assert.True(t, IsWhitespace('\n'))
	assert.True(t, IsWhitespace('\r'))
	assert.False(t, IsWhitespace('a'))
}

func Test_IsNameStartChar(t *testing.T) {
	assert.True(t, IsNameStartChar('_'))
	assert.True(t, IsNameStartChar(':'))
	assert.True(t, IsNameStartChar('a'))
	assert.True(t, IsNameStartChar('Z'))
	assert.False(t, IsNameStartChar('-'))
	assert.False(t, IsNameStartChar('0'))
}

func Test_IsNameChar(t *testing.T) {
	assert.True(t, IsNameChar('-'))
	assert.True(t, IsNameChar('.'))
	assert.True(t, IsNameChar('0'))
	assert.True(t, IsNameChar('_'))
	assert.False(t, IsNameChar(' '))
}

func Test_IsChar(t *testing.T) {
	assert.True(t, IsChar('\t'))
	assert.True(t, IsChar('a'))
	assert.False(t, IsChar(0x0))
	assert.False(t, IsChar(0x1))
	assert.False(t, IsChar(0xFFFE))
	assert.True(t, IsChar(0x10000))
}

func Test_isNCName(t *testing.T) {
	assert.True(t, isNCName("foo"))
	assert.True(t, isNCName("_foo"))
	assert.False(t, isNCName(""))
	assert.False(t, isNCName("foo:bar"))
	assert.False(t, isNCName("1foo"))
}
