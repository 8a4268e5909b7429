package ssparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Composite Retry Tests
// =============================================================================

func TestTryNext_FirstAttemptWins(t *testing.T) {
	p := newTestParser(t, "1,2\n")

	c := p.TryNext(Int(), Int()).OrElse(String(), String())
	require.True(t, p.Valid())

	results := c.Values()
	require.Len(t, results, 2)
	requireValues(t, []any{int(1), int(2)}, results[0].([]any))
	assert.Nil(t, results[1], "skipped attempt records no value")
}

func TestTryNext_FallsBack(t *testing.T) {
	p := newTestParser(t, "x,y\n")

	c := p.TryNext(Int(), Int()).OrElse(String(), String())
	require.True(t, p.Valid())

	results := c.Values()
	require.Len(t, results, 2)
	assert.Nil(t, results[0])
	requireValues(t, []any{"x", "y"}, results[1].([]any))
}

func TestTryNext_AllFail(t *testing.T) {
	p := newTestParser(t, "z\n")

	fired := false
	p.TryNext(Int()).OrElse(Float64()).OnError(func() { fired = true })
	assert.False(t, p.Valid())
	assert.True(t, fired)
}

func TestTryNext_OnErrorNotFiredOnSuccess(t *testing.T) {
	p := newTestParser(t, "7\n")

	p.TryNext(Int()).OnError(func() { t.Fatal("should not fire") })
	require.True(t, p.Valid())
}

func TestTryNext_ThenFiresOnWinningAttempt(t *testing.T) {
	p := newTestParser(t, "x\n5\n")

	// first record: the fallback wins, Then sees its value
	var seen []any
	p.TryNext(Int()).
		OrElse(String()).
		Then(func(value any) { seen = value.([]any) })
	requireValues(t, []any{"x"}, seen)

	// second record: a first attempt that succeeds fires Then directly
	p.TryNext(String()).
		Then(func(value any) { seen = value.([]any) })
	requireValues(t, []any{"5"}, seen)
}

// TestTryNext_Check rejects an otherwise valid attempt and lets the next
// alternative retry the same record.
func TestTryNext_Check(t *testing.T) {
	p := newTestParser(t, "3\n")

	c := p.TryNext(Int()).
		Check(func(value any) bool { return value.([]any)[0].(int) > 5 }).
		OrElse(String())
	require.True(t, p.Valid())

	results := c.Values()
	assert.Nil(t, results[0], "checked-out attempt is discarded")
	requireValues(t, []any{"3"}, results[1].([]any))
}

func TestTryNext_CheckPasses(t *testing.T) {
	p := newTestParser(t, "9\n")

	c := p.TryNext(Int()).
		Check(func(value any) bool { return value.([]any)[0].(int) > 5 })
	require.True(t, p.Valid())
	requireValues(t, []any{int(9)}, c.Values()[0].([]any))
}

// TestTryNext_DoesNotAdvance checks that retries run against the same
// record and the stream continues normally afterwards.
func TestTryNext_DoesNotAdvance(t *testing.T) {
	p := newTestParser(t, "x\n42\n")

	p.TryNext(Int()).OrElse(Float64()).OrElse(String())
	require.True(t, p.Valid())

	values := p.GetNext(Int())
	require.True(t, p.Valid())
	requireValues(t, []any{int(42)}, values)
}

func TestTryNext_OnErrorMsg(t *testing.T) {
	p := newTestParser(t, "z\n", WithErrorMessages())

	var msg string
	p.TryNext(Int()).OnErrorMsg(func(m string) { msg = m })
	assert.Contains(t, msg, "invalid conversion")
	assert.Contains(t, msg, "buffer")
}

// =============================================================================
// Composite Retry Tests - objects
// =============================================================================

type coord struct {
	X string
	Y string
}

func TestTryObject(t *testing.T) {
	p := newTestParser(t, "3,4\n")

	c := TryObject[coord](p, String(), String())
	require.True(t, p.Valid())
	assert.Equal(t, coord{X: "3", Y: "4"}, c.Values()[0])
}

func TestOrObject_FallsBack(t *testing.T) {
	p := newTestParser(t, "a,b\n")

	c := p.TryNext(Int(), Int())
	require.False(t, p.Valid())

	c = OrObject[coord](c, String(), String())
	require.True(t, p.Valid())

	results := c.Values()
	assert.Nil(t, results[0])
	assert.Equal(t, coord{X: "a", Y: "b"}, results[1])
}

func TestOrObject_SkippedAfterSuccess(t *testing.T) {
	p := newTestParser(t, "1,2\n")

	c := p.TryNext(Int(), Int())
	c = OrObject[coord](c, String(), String())
	require.True(t, p.Valid())
	assert.Nil(t, c.Values()[1])
}
