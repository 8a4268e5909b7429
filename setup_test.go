package ssparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Configuration Tests
// =============================================================================

func TestConfig_Valid(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "defaults", opts: nil},
		{name: "quote only", opts: []Option{WithQuote('"')}},
		{name: "escape only", opts: []Option{WithEscape('\\')}},
		{name: "quote and escape", opts: []Option{WithQuote('"'), WithEscape('\\')}},
		{name: "symmetric trim", opts: []Option{WithTrim(' ', '\t')}},
		{name: "sided trims", opts: []Option{WithTrimLeft(' '), WithTrimRight('\t')}},
		{name: "multiline with quote", opts: []Option{WithQuote('"'), WithMultiline()}},
		{name: "multiline with escape", opts: []Option{WithEscape('\\'), WithMultilineLimit(5)}},
		{name: "message mode", opts: []Option{WithErrorMessages()}},
		{name: "structured mode", opts: []Option{WithStructuredErrors()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newConfig(tt.opts)
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Rejected(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{
			name: "quote and escape share a byte",
			opts: []Option{WithQuote('"'), WithEscape('"')},
		},
		{
			name: "quote inside trim set",
			opts: []Option{WithQuote(' '), WithTrim(' ')},
		},
		{
			name: "escape inside trim set",
			opts: []Option{WithEscape('\\'), WithTrimLeft('\\')},
		},
		{
			name: "multiline without quote or escape",
			opts: []Option{WithMultiline()},
		},
		{
			name: "symmetric and sided trim",
			opts: []Option{WithTrim(' '), WithTrimLeft('\t')},
		},
		{
			name: "two error modes",
			opts: []Option{WithErrorMessages(), WithStructuredErrors()},
		},
		{
			name: "zero byte matcher",
			opts: []Option{WithEscape(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newConfig(tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestByteSet(t *testing.T) {
	var a, b byteSet
	a.add('x', 'y')
	b.add('y')

	assert.True(t, a.contains('x'))
	assert.False(t, a.contains('z'))
	assert.True(t, a.intersects(&b))

	var c byteSet
	c.add('z')
	assert.False(t, a.intersects(&c))
	assert.False(t, c.empty())

	var d byteSet
	assert.True(t, d.empty())
}
