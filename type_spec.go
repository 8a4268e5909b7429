package ssparser

import "reflect"

// =============================================================================
// Type Specs - the data-driven parse list
// =============================================================================
//
// A parse list is a sequence of TypeSpec values, one per input column (after
// column mapping). The converter walks the list and produces one value per
// non-placeholder position.

type specKind uint8

const (
	skipSpec specKind = iota
	scalarSpec
	customSpec
	optionalSpec
	variantSpec
	checkedSpec
	groupSpec
)

type scalarKind uint8

const (
	kindNone scalarKind = iota
	kindInt
	kindInt8
	kindInt16
	kindInt32
	kindInt64
	kindUint
	kindUint8
	kindUint16
	kindUint32
	kindUint64
	kindFloat32
	kindFloat64
	kindBool
	kindChar
	kindString
	kindRaw
)

// TypeSpec describes one position of a parse list.
type TypeSpec struct {
	kind      specKind
	scalar    scalarKind
	typ       reflect.Type // customSpec target
	inner     *TypeSpec    // optionalSpec / checkedSpec
	alts      []TypeSpec   // variantSpec alternatives, groupSpec members
	validator Validator
}

// Skip declares a placeholder position: the column is consumed but produces
// no value.
func Skip() TypeSpec { return TypeSpec{kind: skipSpec} }

// Int declares an int position. Overflow is a conversion failure.
func Int() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindInt} }

// Int8 declares an int8 position.
func Int8() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindInt8} }

// Int16 declares an int16 position.
func Int16() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindInt16} }

// Int32 declares an int32 position.
func Int32() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindInt32} }

// Int64 declares an int64 position.
func Int64() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindInt64} }

// Uint declares a uint position.
func Uint() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindUint} }

// Uint8 declares a uint8 position.
func Uint8() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindUint8} }

// Uint16 declares a uint16 position.
func Uint16() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindUint16} }

// Uint32 declares a uint32 position.
func Uint32() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindUint32} }

// Uint64 declares a uint64 position.
func Uint64() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindUint64} }

// Float32 declares a float32 position.
func Float32() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindFloat32} }

// Float64 declares a float64 position. Trailing garbage after the number is
// a conversion failure.
func Float64() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindFloat64} }

// Bool declares a bool position accepting "0", "1", "true", and "false".
func Bool() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindBool} }

// Char declares a single-byte position.
func Char() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindChar} }

// String declares an owned string position; the field bytes are copied.
func String() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindString} }

// Raw declares a borrowed []byte position sliced directly out of the record
// buffer. The slice is valid until the next record is advanced; callers that
// retain it across records must copy.
func Raw() TypeSpec { return TypeSpec{kind: scalarSpec, scalar: kindRaw} }

// Custom declares a position extracted by the [RegisterExtractor] entry
// for T.
func Custom[T any]() TypeSpec {
	return TypeSpec{kind: customSpec, typ: reflect.TypeFor[T]()}
}

// Optional wraps a spec so that a failed conversion yields an absent value
// (nil) instead of an error.
func Optional(spec TypeSpec) TypeSpec {
	return TypeSpec{kind: optionalSpec, inner: &spec}
}

// OneOf declares a variant position: the alternatives are attempted in
// declared order and the first success wins. Reordering the alternatives is
// a semantic change.
func OneOf(alts ...TypeSpec) TypeSpec {
	return TypeSpec{kind: variantSpec, alts: alts}
}

// Checked wraps a spec with a validator: the value is extracted, then the
// predicate must accept it.
func Checked(spec TypeSpec, v Validator) TypeSpec {
	return TypeSpec{kind: checkedSpec, inner: &spec, validator: v}
}

// Tuple groups specs into a nested tuple. Groups are flattened into the
// surrounding parse list: each member consumes its own input column and the
// produced values appear in place.
func Tuple(specs ...TypeSpec) TypeSpec {
	return TypeSpec{kind: groupSpec, alts: specs}
}

// flattenSpecs expands Tuple groups into a flat positional list.
func flattenSpecs(specs []TypeSpec) []TypeSpec {
	flat := make([]TypeSpec, 0, len(specs))
	for _, spec := range specs {
		if spec.kind == groupSpec {
			flat = append(flat, flattenSpecs(spec.alts)...)
			continue
		}
		flat = append(flat, spec)
	}
	return flat
}

// zeroValue returns the typed zero a position produces on the error path, so
// type assertions in caller code stay safe even for discarded results.
func zeroValue(spec TypeSpec) any {
	switch spec.kind {
	case scalarSpec:
		return zeroScalar(spec.scalar)
	case customSpec:
		return reflect.Zero(spec.typ).Interface()
	case optionalSpec:
		return nil
	case variantSpec:
		if len(spec.alts) > 0 {
			return zeroValue(spec.alts[0])
		}
		return nil
	case checkedSpec:
		return zeroValue(*spec.inner)
	default:
		return nil
	}
}

func zeroScalar(kind scalarKind) any {
	switch kind {
	case kindInt:
		return int(0)
	case kindInt8:
		return int8(0)
	case kindInt16:
		return int16(0)
	case kindInt32:
		return int32(0)
	case kindInt64:
		return int64(0)
	case kindUint:
		return uint(0)
	case kindUint8:
		return uint8(0)
	case kindUint16:
		return uint16(0)
	case kindUint32:
		return uint32(0)
	case kindUint64:
		return uint64(0)
	case kindFloat32:
		return float32(0)
	case kindFloat64:
		return float64(0)
	case kindBool:
		return false
	case kindChar:
		return byte(0)
	case kindString:
		return ""
	case kindRaw:
		return []byte(nil)
	default:
		return nil
	}
}
