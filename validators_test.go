package ssparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Validator Tests
// =============================================================================

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		v       Validator
		accepts []any
		rejects []any
	}{
		{
			name:    "all except",
			v:       AllExcept(2, 4),
			accepts: []any{1, 3, 5},
			rejects: []any{2, 4},
		},
		{
			name:    "none except",
			v:       NoneExcept("a", "b"),
			accepts: []any{"a", "b"},
			rejects: []any{"c", ""},
		},
		{
			name:    "less than",
			v:       LessThan(10),
			accepts: []any{9, -1},
			rejects: []any{10, 11},
		},
		{
			name:    "at most",
			v:       AtMost(10),
			accepts: []any{10, 0},
			rejects: []any{11},
		},
		{
			name:    "greater than",
			v:       GreaterThan(3.5),
			accepts: []any{3.6},
			rejects: []any{3.5, 1.0},
		},
		{
			name:    "at least",
			v:       AtLeast(3.5),
			accepts: []any{3.5, 9.0},
			rejects: []any{3.4},
		},
		{
			name:    "in range",
			v:       InRange(1, 5),
			accepts: []any{1, 3, 5},
			rejects: []any{0, 6},
		},
		{
			name:    "out of range",
			v:       OutOfRange(1, 5),
			accepts: []any{0, 6},
			rejects: []any{1, 3, 5},
		},
		{
			name:    "non empty",
			v:       NonEmpty(),
			accepts: []any{"x", []byte{1}},
			rejects: []any{"", []byte{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.accepts {
				assert.True(t, tt.v.Valid(v), "should accept %v", v)
			}
			for _, v := range tt.rejects {
				assert.False(t, tt.v.Valid(v), "should reject %v", v)
			}
		})
	}
}

// TestValidators_TypeMismatch checks that a value of the wrong dynamic type
// never validates.
func TestValidators_TypeMismatch(t *testing.T) {
	assert.False(t, LessThan(10).Valid("9"))
	assert.False(t, NoneExcept("a").Valid(97))
	assert.False(t, NonEmpty().Valid(12))
}

func TestValidators_Messages(t *testing.T) {
	assert.Equal(t, "value excluded", AllExcept(1).Message())
	assert.Equal(t, "value excluded", NoneExcept(1).Message())
	assert.Equal(t, "empty field", NonEmpty().Message())
	assert.Equal(t, "", LessThan(1).Message())
	assert.Equal(t, "", ValidatorFunc(func(any) bool { return true }).Message())
}
