package ssparser

import (
	"reflect"
	"strconv"
	"unsafe"
)

// =============================================================================
// Field Extraction - byte range to typed value
// =============================================================================

// Extractor turns the raw bytes of one field into a value, reporting failure
// instead of returning an error. Registered extractors receive the decoded
// field payload with quoting, escaping, and trimming already applied.
type Extractor func(data []byte) (any, bool)

// extractors holds user-registered extractors for custom target types.
// Registration is expected to happen during initialization, before any
// parser built on the type runs.
var extractors = map[reflect.Type]Extractor{}

// RegisterExtractor makes T usable as a [Custom] parse position backed by fn.
func RegisterExtractor[T any](fn func(data []byte) (T, bool)) {
	extractors[reflect.TypeFor[T]()] = func(data []byte) (any, bool) {
		v, ok := fn(data)
		if !ok {
			return nil, false
		}
		return v, true
	}
}

// unsafeString views b as a string without copying. The view is only used by
// the scalar parsers in this file, none of which retain it.
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// =============================================================================
// Built-in Scalar Extraction
// =============================================================================

func extractSigned(data []byte, bits int) (int64, bool) {
	v, err := strconv.ParseInt(unsafeString(data), 10, bits)
	return v, err == nil
}

func extractUnsigned(data []byte, bits int) (uint64, bool) {
	v, err := strconv.ParseUint(unsafeString(data), 10, bits)
	return v, err == nil
}

func extractFloat(data []byte, bits int) (float64, bool) {
	if len(data) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(unsafeString(data), bits)
	return v, err == nil
}

// extractBool accepts exactly "0", "1", "true", and "false", with no case
// folding.
func extractBool(data []byte) (bool, bool) {
	switch unsafeString(data) {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	default:
		return false, false
	}
}

func extractChar(data []byte) (byte, bool) {
	if len(data) != 1 {
		return 0, false
	}
	return data[0], true
}

// extractScalar dispatches on the scalar kind of a spec. String and Raw
// always succeed; Raw borrows the record buffer and is only valid until the
// next record is advanced.
func extractScalar(kind scalarKind, data []byte) (any, bool) {
	switch kind {
	case kindInt:
		v, ok := extractSigned(data, strconv.IntSize)
		return int(v), ok
	case kindInt8:
		v, ok := extractSigned(data, 8)
		return int8(v), ok
	case kindInt16:
		v, ok := extractSigned(data, 16)
		return int16(v), ok
	case kindInt32:
		v, ok := extractSigned(data, 32)
		return int32(v), ok
	case kindInt64:
		v, ok := extractSigned(data, 64)
		return v, ok
	case kindUint:
		v, ok := extractUnsigned(data, strconv.IntSize)
		return uint(v), ok
	case kindUint8:
		v, ok := extractUnsigned(data, 8)
		return uint8(v), ok
	case kindUint16:
		v, ok := extractUnsigned(data, 16)
		return uint16(v), ok
	case kindUint32:
		v, ok := extractUnsigned(data, 32)
		return uint32(v), ok
	case kindUint64:
		v, ok := extractUnsigned(data, 64)
		return v, ok
	case kindFloat32:
		v, ok := extractFloat(data, 32)
		return float32(v), ok
	case kindFloat64:
		v, ok := extractFloat(data, 64)
		return v, ok
	case kindBool:
		return extractBool(data)
	case kindChar:
		return extractChar(data)
	case kindString:
		return string(data), true
	case kindRaw:
		return data, true
	default:
		return nil, false
	}
}

// extractCustom runs the registered extractor for typ.
func extractCustom(typ reflect.Type, data []byte) (any, bool) {
	fn, ok := extractors[typ]
	if !ok {
		return nil, false
	}
	return fn(data)
}
