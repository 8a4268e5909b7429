package ssparser

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// =============================================================================
// Line Sources - physical line acquisition behind one contract
// =============================================================================

// lineSource fills a buffer with the next physical line and reports
// end-of-input. A physical line runs up to and including '\n', or to the end
// of the input for a final unterminated line.
type lineSource interface {
	// readLine appends one physical line to dst and returns the extended
	// slice. eof is true only when no byte could be read.
	readLine(dst []byte) (line []byte, eof bool)

	// offset returns the byte position of the next unread byte.
	offset() int64

	close() error
}

// =============================================================================
// File Source
// =============================================================================

// fileSource reads physical lines from a file opened in binary mode. Files
// ending in ".gz" are decompressed transparently; offsets then refer to the
// decompressed stream.
type fileSource struct {
	file *os.File
	gz   *gzip.Reader
	br   *bufio.Reader
	pos  int64
}

func openFileSource(path string) (*fileSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src := &fileSource{file: file}
	var rd io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, err
		}
		src.gz = gz
		rd = gz
	}
	src.br = bufio.NewReader(rd)
	return src, nil
}

func (s *fileSource) readLine(dst []byte) ([]byte, bool) {
	read := false
	for {
		chunk, err := s.br.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
			dst = append(dst, chunk...)
			s.pos += int64(len(chunk))
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil {
			// io.EOF with data read is a final line without a terminator;
			// read failures end the stream the same way EOF does
			return dst, !read
		}
		return dst, false
	}
}

func (s *fileSource) offset() int64 {
	return s.pos
}

func (s *fileSource) close() error {
	if s.gz != nil {
		_ = s.gz.Close()
	}
	return s.file.Close()
}

// =============================================================================
// Buffer Source
// =============================================================================

// bufferSource reads physical lines from an in-memory byte slice.
type bufferSource struct {
	data []byte
	pos  int
}

func newBufferSource(data []byte) *bufferSource {
	return &bufferSource{data: data}
}

func (s *bufferSource) readLine(dst []byte) ([]byte, bool) {
	if s.pos >= len(s.data) {
		return dst, true
	}
	rest := s.data[s.pos:]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		dst = append(dst, rest...)
		s.pos = len(s.data)
		return dst, false
	}
	dst = append(dst, rest[:i+1]...)
	s.pos += i + 1
	return dst, false
}

func (s *bufferSource) offset() int64 {
	return int64(s.pos)
}

func (s *bufferSource) close() error {
	return nil
}
