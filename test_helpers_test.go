package ssparser

import (
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Shared Test Helpers
// =============================================================================

// newTestParser builds a buffer-backed parser and fails the test on
// construction errors.
func newTestParser(t *testing.T, input string, opts ...Option) *Parser {
	t.Helper()
	p, err := NewBufferParser([]byte(input), opts...)
	require.NoError(t, err)
	return p
}

// testConfig builds a validated config for component-level tests.
func testConfig(t *testing.T, opts ...Option) *config {
	t.Helper()
	cfg, err := newConfig(opts)
	require.NoError(t, err)
	return cfg
}

// requireValues compares converted tuples including their dynamic types.
func requireValues(t *testing.T, want, got []any) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("value mismatch:\nwant: %sgot:  %s", spew.Sdump(want), spew.Sdump(got))
	}
}

// requireParseError asserts the parser is invalid with the given sentinel.
// The parser must use the structured error mode.
func requireParseError(t *testing.T, p *Parser, sentinel error) {
	t.Helper()
	require.False(t, p.Valid())
	require.ErrorIs(t, p.Err(), sentinel)
}

// splitFields renders the splitter output as strings for comparison.
func splitFields(buf []byte, ranges []fieldRange) []string {
	fields := make([]string, 0, len(ranges))
	for _, r := range ranges {
		fields = append(fields, string(buf[r.begin:r.end]))
	}
	return fields
}
