package ssparser

import (
	"fmt"
	"iter"
)

// =============================================================================
// Parser - record retrieval, header selection, iteration
// =============================================================================

// bufferSourceName labels in-memory input in error messages.
const bufferSourceName = "buffer"

// Parser reads typed records from delimited text. It owns one line reader
// and a pair of converters (current record and pre-staged next record), so
// end of input is known one record ahead and iteration terminates cleanly.
//
// A parser is not safe for concurrent use. Values borrowed from the record
// buffer ([Raw] fields) are valid until the next retrieval.
type Parser struct {
	cfg        *config
	sourceName string
	reader     lineReader

	err       *ParseError
	header    []string
	rawHeader []byte
	eof       bool
}

// NewFileParser opens the file at path in binary mode and parses records
// from it. Files ending in ".gz" are decompressed transparently. The
// returned error is non-nil for configuration errors and unopenable files.
// A configuration error returns a nil parser; an unopenable file returns a
// parser whose error state reflects the failure as well.
func NewFileParser(path string, opts ...Option) (*Parser, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	p := &Parser{cfg: cfg, sourceName: path}
	src, err := openFileSource(path)
	if err != nil {
		p.reader = newLineReader(cfg, newBufferSource(nil))
		wrapped := fmt.Errorf("%w: could not be opened: %v", ErrSourceUnavailable, err)
		p.setErr(0, 0, wrapped)
		p.eof = true
		return p, p.err
	}

	p.reader = newLineReader(cfg, src)
	p.start()
	return p, nil
}

// NewBufferParser parses records from an in-memory byte slice. A nil slice
// is a construction error; an empty one is an empty input.
func NewBufferParser(data []byte, opts ...Option) (*Parser, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	p := &Parser{cfg: cfg, sourceName: bufferSourceName}
	if data == nil {
		p.reader = newLineReader(cfg, newBufferSource(nil))
		wrapped := fmt.Errorf("%w: received nil data buffer", ErrSourceUnavailable)
		p.setErr(0, 0, wrapped)
		p.eof = true
		return p, p.err
	}

	p.reader = newLineReader(cfg, newBufferSource(data))
	p.start()
	return p, nil
}

// start stages the first record and retains or discards the header row.
func (p *Parser) start() {
	p.readLine()
	if p.cfg.ignoreHeader {
		p.IgnoreNext()
		return
	}
	p.rawHeader = p.reader.stagedRecord()
}

// Close releases the underlying input source.
func (p *Parser) Close() error {
	return p.reader.src.close()
}

// =============================================================================
// State Accessors
// =============================================================================

// Valid reports whether the last operation completed without error.
func (p *Parser) Valid() bool {
	return p.err == nil
}

// ErrorMsg returns the decorated message for the current error. It is empty
// unless the parser was built with [WithErrorMessages].
func (p *Parser) ErrorMsg() string {
	if p.cfg.errMode == errorModeMessage && p.err != nil {
		return p.err.Error()
	}
	return ""
}

// Err returns the current error as a [*ParseError]. It is nil unless the
// parser was built with [WithStructuredErrors].
func (p *Parser) Err() error {
	if p.cfg.errMode == errorModeStructured && p.err != nil {
		return p.err
	}
	return nil
}

// Eof reports whether the input is exhausted. Because the next record is
// pre-staged, Eof is accurate before the final retrieval is attempted.
func (p *Parser) Eof() bool {
	return p.eof
}

// Line returns the number of physical lines read before the pre-staged
// record. After a retrieval this is the 1-based line on which the returned
// record ends, plus any empty lines skipped after it; it is 0 while the
// first record of the input is staged.
func (p *Parser) Line() int {
	if p.reader.lineNumber > 0 {
		return p.reader.lineNumber - 1
	}
	return 0
}

// Position returns the byte offset of the currently staged record within
// the input.
func (p *Parser) Position() int64 {
	return p.reader.charsRead
}

// =============================================================================
// Record Retrieval
// =============================================================================

// GetNext converts the next record against the parse list and advances. It
// returns one value per non-placeholder position; on error the values are
// typed zeros and the error state is set. A conversion error does not
// poison the parser: the following retrieval proceeds normally.
func (p *Parser) GetNext(specs ...TypeSpec) []any {
	if !p.eof {
		p.reader.parse()
	}
	p.reader.update()

	if !p.reader.conv.valid() {
		p.handleInvalidConversion()
		p.readLine()
		return zeroResults(flattenSpecs(specs))
	}

	p.clearError()
	if p.eof {
		p.handleEOFReached()
		return zeroResults(flattenSpecs(specs))
	}

	values := p.reader.conv.convert(specs)
	if !p.reader.conv.valid() {
		p.handleInvalidConversion()
	}

	p.readLine()
	return values
}

// GetObject converts the next record and fills dst, a pointer to a struct
// whose exported fields receive the values in declaration order (or a
// pointer to a single value for one-position parse lists).
func (p *Parser) GetObject(dst any, specs ...TypeSpec) {
	values := p.GetNext(specs...)
	if !p.Valid() {
		return
	}
	if err := fillObject(dst, values); err != nil {
		p.setErr(p.reader.lineNumber, 0, err)
	}
}

// IgnoreNext skips the staged record without converting it. It reports
// false at end of input.
func (p *Parser) IgnoreNext() bool {
	ok := p.reader.readNext()
	p.eof = !ok
	return ok
}

// Iterate returns a single-pass iterator over the remaining records. Each
// record is converted like [Parser.GetNext]; records with conversion errors
// yield zero values, observable through the parser error state.
func (p *Parser) Iterate(specs ...TypeSpec) iter.Seq[[]any] {
	return func(yield func([]any) bool) {
		for !p.Eof() {
			if !yield(p.GetNext(specs...)) {
				return
			}
		}
	}
}

// IterateObjects returns a single-pass iterator producing one T per record,
// filled the way [Parser.GetObject] fills its target.
func IterateObjects[T any](p *Parser, specs ...TypeSpec) iter.Seq[T] {
	return func(yield func(T) bool) {
		for !p.Eof() {
			var out T
			p.GetObject(&out, specs...)
			if !yield(out) {
				return
			}
		}
	}
}

// =============================================================================
// Header Handling
// =============================================================================

// FieldExists reports whether the header row contains the given field,
// materializing the header on first use.
func (p *Parser) FieldExists(field string) bool {
	if len(p.header) == 0 {
		p.splitHeaderData()
	}
	_, ok := p.headerIndex(field)
	return ok
}

// UseFields restricts parsing to the named header fields, in the given
// order, by installing a column mapping on both converters. When the parser
// is still positioned at the header row it advances past it, so the next
// retrieval returns data.
func (p *Parser) UseFields(fields ...string) {
	if p.cfg.ignoreHeader {
		p.setErr(0, 0, ErrHeaderIgnored)
		return
	}

	if len(p.header) == 0 && !p.Eof() {
		p.splitHeaderData()
	}
	if !p.Valid() {
		return
	}

	if len(fields) == 0 {
		p.setErr(0, 0, ErrEmptyMapping)
		return
	}

	mapping := make([]int, 0, len(fields))
	for _, field := range fields {
		if countOf(fields, field) != 1 {
			p.setErr(0, 0, fmt.Errorf("%w: %s", ErrRepeatedField, field))
			return
		}
		index, ok := p.headerIndex(field)
		if !ok {
			p.setErr(0, 0, fmt.Errorf("%w: %s", ErrUnknownField, field))
			return
		}
		mapping = append(mapping, index)
	}

	if err := p.reader.conv.setColumnMapping(mapping, len(p.header)); err != nil {
		p.setErr(0, 0, err)
		return
	}
	if err := p.reader.nextConv.setColumnMapping(mapping, len(p.header)); err != nil {
		p.setErr(0, 0, err)
		return
	}

	if p.Line() == 0 {
		p.IgnoreNext()
	}
}

// splitHeaderData materializes the header from the raw first record,
// splitting a copy with the same rules as record parsing. Duplicate entries
// clear the header and set the error state.
func (p *Parser) splitHeaderData() {
	sp := newSplitter(p.cfg)
	raw := make([]byte, len(p.rawHeader))
	copy(raw, p.rawHeader)

	var header []string
	for _, r := range sp.split(raw, p.cfg.delimiter) {
		field := string(raw[r.begin:r.end])
		for _, seen := range header {
			if seen == field {
				p.setErr(0, 0, fmt.Errorf("%w: %s", ErrDuplicateHeader, field))
				p.header = nil
				return
			}
		}
		header = append(header, field)
	}
	p.header = header
}

func (p *Parser) headerIndex(field string) (int, bool) {
	for i, h := range p.header {
		if h == field {
			return i, true
		}
	}
	return 0, false
}

func countOf(fields []string, field string) int {
	n := 0
	for _, f := range fields {
		if f == field {
			n++
		}
	}
	return n
}

// =============================================================================
// Error Handling
// =============================================================================

func (p *Parser) setErr(line, column int, err error) {
	p.err = &ParseError{Source: p.sourceName, Line: line, Column: column, Err: err}
}

func (p *Parser) clearError() {
	p.err = nil
}

func (p *Parser) handleInvalidConversion() {
	conv := p.reader.conv
	p.setErr(p.reader.lineNumber, conv.errCol, conv.err)
}

func (p *Parser) handleEOFReached() {
	p.setErr(0, 0, ErrReadPastEOF)
}

func (p *Parser) handleFailedCheck() {
	p.setErr(0, 0, ErrFailedCheck)
}

// readLine stages the next record and latches end of input.
func (p *Parser) readLine() {
	p.eof = !p.reader.readNext()
}

// retrySame re-converts the current, still-split record with a different
// parse list. Used by composite retry; it does not advance the reader.
func (p *Parser) retrySame(specs []TypeSpec) []any {
	p.clearError()
	values := p.reader.conv.convert(specs)
	if !p.reader.conv.valid() {
		p.handleInvalidConversion()
	}
	return values
}
