// Package ssparser implements a record-oriented parser for CSV-family
// delimited text with typed field extraction.
//
// A [Parser] reads one logical record at a time from a file or an in-memory
// buffer and converts it into typed values described by a parse list of
// [TypeSpec] positions. Records may span several physical lines when quoting
// or escape continuation is enabled, fields are decoded in place with
// zero-copy ranges into the record buffer, and a header row can drive column
// selection and reordering.
//
// # Parse Lists
//
// Each position of a parse list is one of:
//   - a scalar spec ([Int], [Float64], [Bool], [Char], [String], [Raw], ...)
//   - [Skip], a placeholder that discards the column
//   - [Optional], which absorbs a failed conversion as an absent value
//   - [OneOf], a variant that tries alternatives in declared order
//   - [Checked], which wraps a spec with a [Validator] predicate
//   - [Tuple], a nested group flattened into the surrounding list
//
// # Error Modes
//
// Exactly one error mode is active per parser: a validity flag (default,
// check [Parser.Valid]), decorated message strings ([WithErrorMessages],
// read [Parser.ErrorMsg]), or structured errors ([WithStructuredErrors],
// read [Parser.Err]). A failed conversion does not poison the stream; the
// next retrieval proceeds with a clear error state.
package ssparser
