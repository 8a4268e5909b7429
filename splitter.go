package ssparser

import (
	"bytes"
	"fmt"
)

// =============================================================================
// Splitter - slices one record buffer into field ranges
// =============================================================================
//
// The splitter runs a small state machine over a single mutable record
// buffer:
//
//   START   --(trim byte)-->  START        advance
//   START   --(quote)------>  QUOTED       field begins after the quote
//   START   --(other)------>  NORMAL       field begins here
//   NORMAL  --(escape)----->  ESCAPE       escape byte elided, shift grows
//   NORMAL  --(delimiter)-->  START        emit range
//   QUOTED  --(quote)------>  AFTER-QUOTE  doubled quote, delimiter, or error
//   QUOTED  --(end)-------->  suspended    unterminated quote, resumable
//
// Field content is decoded in place: when escape elision or quote doubling
// removes bytes, the remaining payload is shifted left within the buffer so
// every emitted range still addresses contiguous decoded bytes. A running
// shift counter keeps the decoded cursor lagging the raw scan cursor.

// fieldRange is a half-open byte interval [begin, end) into the record
// buffer, identifying one decoded field.
type fieldRange struct {
	begin int
	end   int
}

// splitter populates a field-range sequence for one record buffer. It is
// resumable: a record suspended inside a quoted field can be continued
// against an extended buffer without reparsing the fields already emitted.
type splitter struct {
	cfg *config

	buf    []byte
	ranges []fieldRange

	begin   int // start of the field currently being scanned
	curr    int // decoded content cursor, lags end by the pending shift
	end     int // raw scan cursor
	escaped int // bytes elided from the current field so far
	done    bool

	err               error
	unterminatedQuote bool

	// suspension state for multiline resumption
	resuming     bool
	suspendBegin int // content start of the suspended field
	suspendEnd   int // decoded cursor where scanning stopped
}

func newSplitter(cfg *config) splitter {
	return splitter{cfg: cfg}
}

func (s *splitter) valid() bool {
	return s.err == nil
}

// sizeShifted returns the number of bytes elided in place from the field
// that was being scanned when the splitter suspended.
func (s *splitter) sizeShifted() int {
	return s.escaped
}

// split slices buf into field ranges separated by delim. The returned slice
// is owned by the splitter and valid until the next split.
func (s *splitter) split(buf, delim []byte) []fieldRange {
	s.ranges = s.ranges[:0]
	s.buf = buf
	s.begin = 0
	return s.splitImpl(delim)
}

// resplit continues a suspended split against an extended buffer whose
// prefix matches the buffer the splitter suspended on. Fields emitted before
// the suspension are kept; scanning resumes inside the unterminated field.
func (s *splitter) resplit(buf, delim []byte) []fieldRange {
	if !s.cfg.quoteOn || !s.cfg.multiline || len(s.ranges) == 0 || !s.unterminatedQuote {
		s.setErrorInvalidResplit()
		return s.ranges
	}

	quotePos := s.suspendBegin - 1
	if len(buf) < quotePos {
		s.setErrorInvalidResplit()
		return s.ranges
	}

	// the placeholder emitted at suspension is rebuilt by the resumed scan
	s.ranges = s.ranges[:len(s.ranges)-1]

	s.buf = buf
	s.begin = quotePos
	s.end = s.suspendEnd
	s.curr = s.end
	s.resuming = true

	return s.splitImpl(delim)
}

func (s *splitter) splitImpl(delim []byte) []fieldRange {
	s.clearError()
	if len(delim) == 0 {
		s.setErrorEmptyDelimiter()
		return s.ranges
	}

	s.trimLeftIfEnabled(&s.begin)
	for s.done = false; !s.done; {
		s.read(delim)
	}
	return s.ranges
}

// =============================================================================
// Reading
// =============================================================================

// read scans one field starting at begin and leaves begin on the next one.
func (s *splitter) read(delim []byte) {
	s.escaped = 0
	if s.cfg.quoteOn {
		if s.cfg.multiline && s.resuming {
			s.resuming = false
			s.begin++
			s.readQuoted(delim)
			return
		}
		if s.begin < len(s.buf) && s.buf[s.begin] == s.cfg.quote {
			s.begin++
			s.curr, s.end = s.begin, s.begin
			s.readQuoted(delim)
			return
		}
	}
	s.curr, s.end = s.begin, s.begin
	s.readNormal(delim)
}

func (s *splitter) readNormal(delim []byte) {
	for {
		width, isDelim := s.matchDelimiter(s.end, delim)
		if isDelim {
			s.shiftPushAndStartNext(width)
			return
		}
		if width == 0 {
			// end of record
			s.shiftAndPush()
			s.done = true
			return
		}
		s.end += width
	}
}

func (s *splitter) readQuoted(delim []byte) {
	for {
		if s.end >= len(s.buf) {
			// record ended inside the quoted field: suspend
			s.shiftAndSetCurrent()
			s.suspendBegin = s.begin
			s.suspendEnd = s.curr
			s.setErrorUnterminatedQuote()
			s.ranges = append(s.ranges, fieldRange{0, s.begin})
			s.done = true
			return
		}

		c := s.buf[s.end]
		if c != s.cfg.quote {
			if s.cfg.escapeOn && s.cfg.escape.contains(c) {
				if s.end+1 >= len(s.buf) {
					s.setErrorUnterminatedEscape()
					s.done = true
					return
				}
				s.shiftAndJumpEscape()
				s.end++
				continue
			}
			s.end++
			continue
		}

		// closing quote candidate
		width, isDelim := s.matchDelimiter(s.end+1, delim)
		if isDelim {
			s.shiftPushAndStartNext(width + 1)
			return
		}

		if s.end+1 < len(s.buf) && s.buf[s.end+1] == s.cfg.quote {
			// doubled quote, one byte of it is content
			s.shiftAndJumpEscape()
			s.end++
			continue
		}

		if width == 0 {
			// end of record after the closing quote
			s.shiftAndPush()
		} else {
			s.setErrorMismatchedQuote(s.end + 1)
			s.ranges = append(s.ranges, fieldRange{0, s.begin})
		}
		s.done = true
		return
	}
}

// =============================================================================
// Delimiter Matching
// =============================================================================

// matchDelimiter inspects the bytes at pos and reports how far the raw scan
// cursor advances and whether a delimiter was consumed. A delimiter width
// includes the delimiter itself plus any boundary bytes trimmed around it; a
// zero width with isDelim false marks the end of the record.
func (s *splitter) matchDelimiter(pos int, delim []byte) (width int, isDelim bool) {
	end := pos
	s.trimRightIfEnabled(&end)

	if end >= len(s.buf) {
		return 0, false
	}

	if !bytes.HasPrefix(s.buf[end:], delim) {
		s.shiftIfEscaped(end)
		return 1 + end - pos, false
	}

	end += len(delim)
	s.trimLeftIfEnabled(&end)
	return end - pos, true
}

// =============================================================================
// Shifting
// =============================================================================

// shiftIfEscaped elides the escape byte at pos when escaping is enabled; an
// escape as the last byte of the buffer is an unterminated escape.
func (s *splitter) shiftIfEscaped(pos int) {
	if !s.cfg.escapeOn || !s.cfg.escape.contains(s.buf[pos]) {
		return
	}
	if pos+1 >= len(s.buf) {
		s.setErrorUnterminatedEscape()
		s.done = true
		return
	}
	s.shiftAndJumpEscape()
}

// shiftAndSetCurrent applies the pending shift: the undecoded bytes between
// curr and end are moved left over the elided bytes, leaving curr at the end
// of the decoded content.
func (s *splitter) shiftAndSetCurrent() {
	if s.escaped > 0 {
		copy(s.buf[s.curr:], s.buf[s.curr+s.escaped:s.end])
		s.curr = s.end - s.escaped
		return
	}
	s.curr = s.end
}

func (s *splitter) shiftAndJumpEscape() {
	s.shiftAndSetCurrent()
	s.escaped++
	s.end++
}

func (s *splitter) shiftAndPush() {
	s.shiftAndSetCurrent()
	s.ranges = append(s.ranges, fieldRange{s.begin, s.curr})
}

func (s *splitter) shiftPushAndStartNext(n int) {
	s.shiftAndPush()
	s.begin = s.end + n
}

// =============================================================================
// Trimming
// =============================================================================

func (s *splitter) trimLeftIfEnabled(pos *int) {
	if !s.cfg.trimLeftOn {
		return
	}
	for *pos < len(s.buf) && s.cfg.trimLeft.contains(s.buf[*pos]) {
		*pos++
	}
}

func (s *splitter) trimRightIfEnabled(pos *int) {
	if !s.cfg.trimRightOn {
		return
	}
	for *pos < len(s.buf) && s.cfg.trimRight.contains(s.buf[*pos]) {
		*pos++
	}
}

// =============================================================================
// Errors
// =============================================================================

func (s *splitter) clearError() {
	s.err = nil
	s.unterminatedQuote = false
}

func (s *splitter) setErrorEmptyDelimiter() {
	s.err = ErrEmptyDelimiter
}

func (s *splitter) setErrorMismatchedQuote(pos int) {
	s.err = fmt.Errorf("%w at position %d", ErrMismatchedQuote, pos)
}

func (s *splitter) setErrorUnterminatedEscape() {
	s.err = ErrUnterminatedEscape
}

func (s *splitter) setErrorUnterminatedQuote() {
	s.err = ErrUnterminatedQuote
	s.unterminatedQuote = true
}

func (s *splitter) setErrorInvalidResplit() {
	s.err = ErrInvalidResplit
	s.unterminatedQuote = false
}
