package ssparser

import "fmt"

// =============================================================================
// Converter - split record to typed tuple
// =============================================================================
//
// The converter owns one splitter and turns its field ranges into the values
// described by a parse list. Each parser holds two converters, one for the
// current record and one for the record being pre-staged, so a composite
// retry chain can re-convert the current record while the next is assembled.

type converter struct {
	cfg *config
	sp  splitter

	err    error
	errCol int // 1-based parse position of the error, 0 when not positional

	mapping    []int
	numColumns int
}

func newConverter(cfg *config) *converter {
	return &converter{cfg: cfg, sp: newSplitter(cfg)}
}

func (c *converter) valid() bool {
	return c.err == nil
}

func (c *converter) clearError() {
	c.err = nil
	c.errCol = 0
}

// split slices buf and caches the result for subsequent convert calls. An
// empty record yields zero columns.
func (c *converter) split(buf, delim []byte) []fieldRange {
	c.sp.ranges = c.sp.ranges[:0]
	if len(buf) == 0 {
		c.sp.clearError()
		return c.sp.ranges
	}
	return c.sp.split(buf, delim)
}

func (c *converter) resplit(buf, delim []byte) []fieldRange {
	return c.sp.resplit(buf, delim)
}

func (c *converter) unterminatedQuote() bool {
	return c.sp.unterminatedQuote
}

// =============================================================================
// Column Mapping
// =============================================================================

func (c *converter) columnsMapped() bool {
	return len(c.mapping) != 0
}

// columnPosition returns the input column read for parse position pos.
func (c *converter) columnPosition(pos int) int {
	if !c.columnsMapped() {
		return pos
	}
	return c.mapping[pos]
}

// setColumnMapping installs a mapping from parse positions to input columns
// and records the column count the mapping was built against.
func (c *converter) setColumnMapping(positions []int, numColumns int) error {
	if len(positions) == 0 {
		return ErrEmptyMapping
	}
	maxIndex := positions[0]
	for _, p := range positions[1:] {
		if p > maxIndex {
			maxIndex = p
		}
	}
	if maxIndex >= numColumns {
		return fmt.Errorf("%w: maximum index: %d, greater than number of columns: %d",
			ErrMappingOutOfRange, maxIndex, numColumns)
	}
	c.mapping = positions
	c.numColumns = numColumns
	return nil
}

// =============================================================================
// Conversion
// =============================================================================

// convert produces one value per non-placeholder position of the parse list
// from the cached split data. On any error the returned tuple holds typed
// zero values and the error is recorded on the converter.
func (c *converter) convert(specs []TypeSpec) []any {
	flat := flattenSpecs(specs)
	c.clearError()

	if !c.sp.valid() {
		c.err = c.sp.err
		return zeroResults(flat)
	}

	elems := c.sp.ranges
	if !c.columnsMapped() {
		if len(flat) != len(elems) {
			c.setErrorColumnCount(len(flat), len(elems))
			return zeroResults(flat)
		}
	} else {
		if len(flat) != len(c.mapping) {
			c.setErrorIncompatibleMapping(len(flat), len(c.mapping))
			return zeroResults(flat)
		}
		if len(elems) != c.numColumns {
			c.setErrorColumnCount(c.numColumns, len(elems))
			return zeroResults(flat)
		}
	}

	results := c.extractTuple(flat, elems)
	if !c.valid() {
		return zeroResults(flat)
	}
	return results
}

func (c *converter) extractTuple(flat []TypeSpec, elems []fieldRange) []any {
	results := make([]any, 0, len(flat))
	for pos, spec := range flat {
		if spec.kind == skipSpec {
			continue
		}
		r := elems[c.columnPosition(pos)]
		results = append(results, c.extractOne(spec, c.sp.buf[r.begin:r.end], pos))
	}
	return results
}

// extractOne converts a single field. After the first error the remaining
// positions produce their zero values without touching the input.
func (c *converter) extractOne(spec TypeSpec, data []byte, pos int) any {
	if !c.valid() {
		return zeroValue(spec)
	}

	switch spec.kind {
	case optionalSpec:
		v, ok := tryExtract(*spec.inner, data)
		if !ok {
			return nil
		}
		return v

	case variantSpec:
		for _, alt := range spec.alts {
			if v, ok := tryExtract(alt, data); ok {
				return v
			}
		}
		c.setErrorInvalidConversion(data, pos)
		return zeroValue(spec)

	case checkedSpec:
		v, ok := tryExtract(*spec.inner, data)
		if !ok {
			c.setErrorInvalidConversion(data, pos)
			return zeroValue(spec)
		}
		if !spec.validator.Valid(v) {
			c.setErrorValidation(spec.validator.Message(), data, pos)
			return zeroValue(spec)
		}
		return v

	default:
		v, ok := tryExtract(spec, data)
		if !ok {
			c.setErrorInvalidConversion(data, pos)
			return zeroValue(spec)
		}
		return v
	}
}

// tryExtract attempts a conversion without recording errors, so variant
// alternatives and optional positions can probe freely.
func tryExtract(spec TypeSpec, data []byte) (any, bool) {
	switch spec.kind {
	case scalarSpec:
		return extractScalar(spec.scalar, data)
	case customSpec:
		return extractCustom(spec.typ, data)
	case optionalSpec:
		v, ok := tryExtract(*spec.inner, data)
		if !ok {
			return nil, true
		}
		return v, true
	case variantSpec:
		for _, alt := range spec.alts {
			if v, ok := tryExtract(alt, data); ok {
				return v, true
			}
		}
		return nil, false
	case checkedSpec:
		v, ok := tryExtract(*spec.inner, data)
		if !ok || !spec.validator.Valid(v) {
			return nil, false
		}
		return v, true
	default:
		return nil, false
	}
}

func zeroResults(flat []TypeSpec) []any {
	results := make([]any, 0, len(flat))
	for _, spec := range flat {
		if spec.kind == skipSpec {
			continue
		}
		results = append(results, zeroValue(spec))
	}
	return results
}

// =============================================================================
// Errors
// =============================================================================

func (c *converter) setError(err error) {
	c.err = err
	c.errCol = 0
}

func (c *converter) setErrorColumnCount(expected, got int) {
	c.err = fmt.Errorf("%w, expected: %d, got: %d", ErrColumnCount, expected, got)
}

func (c *converter) setErrorIncompatibleMapping(arguments, mappingSize int) {
	c.err = fmt.Errorf("%w: number of arguments does not match mapping, expected: %d, got: %d",
		ErrColumnCount, mappingSize, arguments)
}

func (c *converter) setErrorInvalidConversion(data []byte, pos int) {
	c.err = fmt.Errorf("%w: %q", ErrInvalidConversion, data)
	c.errCol = pos + 1
}

func (c *converter) setErrorValidation(message string, data []byte, pos int) {
	if message == "" {
		c.err = fmt.Errorf("%w: %q", ErrValidation, data)
	} else {
		c.err = fmt.Errorf("%w: %s: %q", ErrValidation, message, data)
	}
	c.errCol = pos + 1
}
