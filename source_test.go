package ssparser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Buffer Source Tests
// =============================================================================

func TestBufferSource_ReadLine(t *testing.T) {
	src := newBufferSource([]byte("one\ntwo\nlast"))

	line, eof := src.readLine(nil)
	require.False(t, eof)
	assert.Equal(t, "one\n", string(line))
	assert.Equal(t, int64(4), src.offset())

	line, eof = src.readLine(line[:0])
	require.False(t, eof)
	assert.Equal(t, "two\n", string(line))

	line, eof = src.readLine(line[:0])
	require.False(t, eof)
	assert.Equal(t, "last", string(line))

	_, eof = src.readLine(nil)
	assert.True(t, eof)
}

func TestBufferSource_Empty(t *testing.T) {
	src := newBufferSource(nil)
	_, eof := src.readLine(nil)
	assert.True(t, eof)
}

// =============================================================================
// File Source Tests
// =============================================================================

func TestFileSource_ReadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	src, err := openFileSource(path)
	require.NoError(t, err)
	defer src.close()

	line, eof := src.readLine(nil)
	require.False(t, eof)
	assert.Equal(t, "a,b\n", string(line))

	line, eof = src.readLine(nil)
	require.False(t, eof)
	assert.Equal(t, "1,2\n", string(line))

	_, eof = src.readLine(nil)
	assert.True(t, eof)
}

// TestFileSource_LongLine exercises lines larger than the internal bufio
// buffer.
func TestFileSource_LongLine(t *testing.T) {
	long := strings.Repeat("x", 64*1024)
	path := filepath.Join(t.TempDir(), "long.csv")
	require.NoError(t, os.WriteFile(path, []byte(long+"\ntail\n"), 0o644))

	src, err := openFileSource(path)
	require.NoError(t, err)
	defer src.close()

	line, eof := src.readLine(nil)
	require.False(t, eof)
	assert.Equal(t, long+"\n", string(line))
}

func TestFileSource_Missing(t *testing.T) {
	_, err := openFileSource(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

// TestFileSource_Gzip checks transparent decompression of .gz inputs.
func TestFileSource_Gzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte("a,b\n1,2\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	path := filepath.Join(t.TempDir(), "data.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	src, err := openFileSource(path)
	require.NoError(t, err)
	defer src.close()

	line, eof := src.readLine(nil)
	require.False(t, eof)
	assert.Equal(t, "a,b\n", string(line))
}

func TestFileSource_GzipCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.csv.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip at all"), 0o644))

	_, err := openFileSource(path)
	assert.Error(t, err)
}

// =============================================================================
// File-backed Parser Tests
// =============================================================================

func TestFileParser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nalice,30\nbob,25\n"), 0o644))

	p, err := NewFileParser(path)
	require.NoError(t, err)
	defer p.Close()

	p.UseFields("age", "name")
	require.True(t, p.Valid())

	values := p.GetNext(Int(), String())
	require.True(t, p.Valid())
	requireValues(t, []any{int(30), "alice"}, values)

	values = p.GetNext(Int(), String())
	require.True(t, p.Valid())
	requireValues(t, []any{int(25), "bob"}, values)
	assert.True(t, p.Eof())
}

func TestFileParser_Gzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte("1,2\n3,4\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	path := filepath.Join(t.TempDir(), "rows.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	p, err := NewFileParser(path)
	require.NoError(t, err)
	defer p.Close()

	values := p.GetNext(Int(), Int())
	require.True(t, p.Valid())
	requireValues(t, []any{int(1), int(2)}, values)
}

func TestFileParser_Unopenable(t *testing.T) {
	p, err := NewFileParser(filepath.Join(t.TempDir(), "absent.csv"), WithStructuredErrors())
	require.Error(t, err)
	require.NotNil(t, p)
	assert.False(t, p.Valid())
	assert.True(t, p.Eof())
	assert.ErrorIs(t, p.Err(), ErrSourceUnavailable)
}
