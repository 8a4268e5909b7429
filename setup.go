package ssparser

import "fmt"

// =============================================================================
// Configuration - construction options and their mutual-exclusion rules
// =============================================================================

// defaultDelimiter separates fields when no [WithDelimiter] option is given.
const defaultDelimiter = ","

// errorMode selects how errors surface to the caller. Exactly one mode is
// active for the lifetime of a parser.
type errorMode uint8

const (
	errorModeFlag       errorMode = iota // Valid() only
	errorModeMessage                     // Valid() plus ErrorMsg()
	errorModeStructured                  // Valid() plus Err()
)

// byteSet is a matcher over single bytes. The zero byte is reserved and can
// never be part of a matcher.
type byteSet [256]bool

func (s *byteSet) add(bs ...byte) {
	for _, b := range bs {
		s[b] = true
	}
}

func (s *byteSet) contains(b byte) bool {
	return s[b]
}

func (s *byteSet) empty() bool {
	for _, set := range s {
		if set {
			return false
		}
	}
	return true
}

func (s *byteSet) intersects(other *byteSet) bool {
	for b := 1; b < 256; b++ {
		if s[b] && other[b] {
			return true
		}
	}
	return false
}

// config is the explicit configuration value a parser is constructed with.
// It is immutable once the constructor has validated it.
type config struct {
	delimiter []byte

	quote   byte
	quoteOn bool

	escape   byteSet
	escapeOn bool

	trimLeft    byteSet
	trimLeftOn  bool
	trimRight   byteSet
	trimRightOn bool

	trimSymmetric bool
	trimSided     bool

	multiline      bool
	multilineLimit int

	ignoreHeader bool
	ignoreEmpty  bool

	errMode      errorMode
	errModeCount int
}

// Option configures a [Parser] at construction time.
type Option func(*config)

// WithDelimiter sets the field delimiter, a single byte or a multi-byte
// literal sequence. The default is ",".
func WithDelimiter(delim string) Option {
	return func(c *config) { c.delimiter = []byte(delim) }
}

// WithQuote enables quoting with the given quote byte. A doubled quote
// inside a quoted field denotes a literal quote.
func WithQuote(quote byte) Option {
	return func(c *config) {
		c.quote = quote
		c.quoteOn = true
	}
}

// WithEscape enables escaping with the given byte(s). An escape byte elides
// itself and makes the following byte literal field content.
func WithEscape(escapes ...byte) Option {
	return func(c *config) {
		c.escape.add(escapes...)
		c.escapeOn = true
	}
}

// WithTrim strips the given bytes from both field boundaries. Mutually
// exclusive with [WithTrimLeft] and [WithTrimRight].
func WithTrim(bs ...byte) Option {
	return func(c *config) {
		c.trimLeft.add(bs...)
		c.trimRight.add(bs...)
		c.trimLeftOn = true
		c.trimRightOn = true
		c.trimSymmetric = true
	}
}

// WithTrimLeft strips the given bytes from the start of each field.
func WithTrimLeft(bs ...byte) Option {
	return func(c *config) {
		c.trimLeft.add(bs...)
		c.trimLeftOn = true
		c.trimSided = true
	}
}

// WithTrimRight strips the given bytes from the end of each field.
func WithTrimRight(bs ...byte) Option {
	return func(c *config) {
		c.trimRight.add(bs...)
		c.trimRightOn = true
		c.trimSided = true
	}
}

// WithMultiline enables records spanning multiple physical lines, with no
// bound on the number of continuation lines. Requires quoting or escaping.
func WithMultiline() Option {
	return func(c *config) {
		c.multiline = true
		c.multilineLimit = 0
	}
}

// WithMultilineLimit enables multiline records bounded to at most limit
// continuation lines per record; exceeding it abandons the record with
// [ErrMultilineLimit]. A limit of zero means unlimited.
func WithMultilineLimit(limit int) Option {
	return func(c *config) {
		c.multiline = true
		c.multilineLimit = limit
	}
}

// WithIgnoreHeader drops the first record instead of retaining it as a
// header. Disables [Parser.UseFields].
func WithIgnoreHeader() Option {
	return func(c *config) { c.ignoreHeader = true }
}

// WithIgnoreEmpty skips zero-length physical lines instead of treating them
// as records.
func WithIgnoreEmpty() Option {
	return func(c *config) { c.ignoreEmpty = true }
}

// WithErrorMessages selects the message error mode: errors are rendered as
// strings decorated with the source name and line number, read through
// [Parser.ErrorMsg].
func WithErrorMessages() Option {
	return func(c *config) {
		c.errMode = errorModeMessage
		c.errModeCount++
	}
}

// WithStructuredErrors selects the structured error mode: errors are
// [*ParseError] values read through [Parser.Err].
func WithStructuredErrors() Option {
	return func(c *config) {
		c.errMode = errorModeStructured
		c.errModeCount++
	}
}

// newConfig applies the options and enforces the constraints that the
// configuration surface promises at construction time.
func newConfig(opts []Option) (*config, error) {
	cfg := &config{delimiter: []byte(defaultDelimiter)}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	if c.errModeCount > 1 {
		return fmt.Errorf("%w: only one error mode may be selected", ErrConfig)
	}
	if c.trimSymmetric && c.trimSided {
		return fmt.Errorf("%w: ambiguous trim setup", ErrConfig)
	}
	if c.multiline && !c.quoteOn && !c.escapeOn {
		return fmt.Errorf("%w: multiline requires quoting or escaping", ErrConfig)
	}

	var quoteSet byteSet
	if c.quoteOn {
		if c.quote == 0 {
			return fmt.Errorf("%w: the zero byte cannot be used as a match character", ErrConfig)
		}
		quoteSet.add(c.quote)
	}
	matchers := []struct {
		name    string
		set     *byteSet
		enabled bool
	}{
		{"quote", &quoteSet, c.quoteOn},
		{"escape", &c.escape, c.escapeOn},
		{"trim left", &c.trimLeft, c.trimLeftOn},
		{"trim right", &c.trimRight, c.trimRightOn},
	}
	for i, m := range matchers {
		if !m.enabled {
			continue
		}
		if m.set.contains(0) {
			return fmt.Errorf("%w: the zero byte cannot be used as a match character", ErrConfig)
		}
		for _, other := range matchers[i+1:] {
			if !other.enabled {
				continue
			}
			// symmetric trim shares one set between left and right
			if m.set == other.set || (c.trimSymmetric && m.name == "trim left" && other.name == "trim right") {
				continue
			}
			if m.set.intersects(other.set) {
				return fmt.Errorf("%w: %s and %s matchers share a match character", ErrConfig, m.name, other.name)
			}
		}
	}
	return nil
}
