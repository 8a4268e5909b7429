package ssparser

// =============================================================================
// Line Reader - assembles one logical record from physical lines
// =============================================================================
//
// The reader owns two record buffers and swaps them on advance: the caller
// holds the current record while the next one is assembled in the second
// buffer. A helper buffer carries continuation lines during multiline
// assembly. Each buffer is paired with its own converter so the split data
// of the current record stays valid across the swap.

type lineReader struct {
	cfg *config
	src lineSource

	buffer   []byte // current record, frozen between advances
	nextLine []byte // record being assembled
	helper   []byte // continuation line scratch

	conv     *converter
	nextConv *converter

	crlf       bool
	lineNumber int
	charsRead  int64
}

func newLineReader(cfg *config, src lineSource) lineReader {
	return lineReader{
		cfg:      cfg,
		src:      src,
		conv:     newConverter(cfg),
		nextConv: newConverter(cfg),
	}
}

func (r *lineReader) escapedMultilineEnabled() bool {
	return r.cfg.multiline && r.cfg.escapeOn
}

func (r *lineReader) quotedMultilineEnabled() bool {
	return r.cfg.multiline && r.cfg.quoteOn
}

// =============================================================================
// Record Acquisition
// =============================================================================

// readNext stages the bytes of the next record in the next-line buffer,
// stripped of its line terminator. It reports false at end of input.
func (r *lineReader) readNext() bool {
	r.nextConv.clearError()
	for {
		r.lineNumber++
		r.charsRead = r.src.offset()

		line, eof := r.src.readLine(r.nextLine[:0])
		r.nextLine = line
		if eof {
			r.nextLine = r.nextLine[:0]
			return false
		}

		r.nextLine = r.removeEOL(r.nextLine)
		if !r.cfg.ignoreEmpty || len(r.nextLine) > 0 {
			return true
		}
	}
}

// parse splits the staged record, extending it with further physical lines
// while escape or quote continuation requires it.
func (r *lineReader) parse() {
	limit := 0

	if r.escapedMultilineEnabled() {
		for trailingEscapeLive(r.nextLine, &r.cfg.escape) {
			if r.multilineLimitReached(&limit) {
				return
			}
			if !r.appendNextLine() {
				r.nextConv.setError(ErrUnterminatedEscape)
				return
			}
		}
	}

	r.nextConv.split(r.nextLine, r.cfg.delimiter)

	if r.quotedMultilineEnabled() {
		for r.nextConv.unterminatedQuote() {
			// drop the bytes the splitter elided in place before extending
			r.nextLine = r.nextLine[:len(r.nextLine)-r.nextConv.sp.sizeShifted()]

			if r.multilineLimitReached(&limit) {
				return
			}
			if !r.appendNextLine() {
				r.nextConv.setError(ErrUnterminatedQuote)
				return
			}

			if r.escapedMultilineEnabled() {
				for trailingEscapeLive(r.nextLine, &r.cfg.escape) {
					if r.multilineLimitReached(&limit) {
						return
					}
					if !r.appendNextLine() {
						r.nextConv.setError(ErrUnterminatedEscape)
						return
					}
				}
			}

			r.nextConv.resplit(r.nextLine, r.cfg.delimiter)
		}
	}
}

// update makes the staged record current by swapping buffers and converters.
func (r *lineReader) update() {
	r.buffer, r.nextLine = r.nextLine, r.buffer
	r.conv, r.nextConv = r.nextConv, r.conv
}

// stagedRecord returns a copy of the staged record bytes, used to retain the
// header row before any conversion touches it.
func (r *lineReader) stagedRecord() []byte {
	out := make([]byte, len(r.nextLine))
	copy(out, r.nextLine)
	return out
}

// =============================================================================
// Multiline Continuation
// =============================================================================

// multilineLimitReached counts one continuation attempt. The check precedes
// the count, so a limit of N permits exactly N continuation lines and the
// N+1th reports the error.
func (r *lineReader) multilineLimitReached(limit *int) bool {
	if r.cfg.multilineLimit <= 0 {
		return false
	}
	reached := *limit >= r.cfg.multilineLimit
	*limit++
	if reached {
		r.nextConv.setError(ErrMultilineLimit)
	}
	return reached
}

// appendNextLine restores the exact terminator stripped from the staged
// record and appends the next physical line to it.
func (r *lineReader) appendNextLine() bool {
	r.undoRemoveEOL()

	r.charsRead = r.src.offset()
	line, eof := r.src.readLine(r.helper[:0])
	r.helper = line
	if eof {
		return false
	}

	r.lineNumber++
	r.helper = r.removeEOL(r.helper)
	r.nextLine = append(r.nextLine, r.helper...)
	return true
}

// trailingEscapeLive reports whether the buffer ends in a live escape: an
// odd run of trailing escape bytes means the last one escapes the stripped
// line terminator.
func trailingEscapeLive(buf []byte, escape *byteSet) bool {
	run := 0
	for i := len(buf) - 1; i >= 0 && escape.contains(buf[i]); i-- {
		run++
	}
	return run%2 == 1
}

// =============================================================================
// End-of-Line Normalization
// =============================================================================

// removeEOL strips one trailing "\n" or "\r\n" and latches which form the
// input used, so continuation can restore it byte for byte.
func (r *lineReader) removeEOL(line []byte) []byte {
	if len(line) == 0 || line[len(line)-1] != '\n' {
		r.crlf = false
		return line
	}
	line = line[:len(line)-1]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		r.crlf = true
		return line[:len(line)-1]
	}
	r.crlf = false
	return line
}

func (r *lineReader) undoRemoveEOL() {
	if r.crlf {
		r.nextLine = append(r.nextLine, '\r', '\n')
		return
	}
	r.nextLine = append(r.nextLine, '\n')
}
