package ssparser

import (
	"errors"
	"fmt"
	"reflect"
)

// =============================================================================
// Object Construction - positional tuple to aggregate
// =============================================================================
//
// Aggregates are filled by reflection: the converted values are assigned to
// the exported fields of a struct in declaration order, mirroring positional
// aggregate construction. A single-value parse list can also fill a plain
// pointer target.

// fillObject assigns values positionally into dst, which must be a non-nil
// pointer to a struct or, for single-value lists, to any assignable type.
func fillObject(dst any, values []any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("object target must be a non-nil pointer")
	}

	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		if len(values) != 1 {
			return fmt.Errorf("cannot construct %s from %d values", elem.Type(), len(values))
		}
		return assignValue(elem, values[0])
	}

	fields := settableFields(elem)
	if len(values) > len(fields) {
		return fmt.Errorf("cannot construct %s: %d values for %d settable fields",
			elem.Type(), len(values), len(fields))
	}
	for i, v := range values {
		if err := assignValue(fields[i], v); err != nil {
			return err
		}
	}
	return nil
}

// settableFields returns the exported fields of a struct value in
// declaration order.
func settableFields(v reflect.Value) []reflect.Value {
	fields := make([]reflect.Value, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.CanSet() {
			fields = append(fields, f)
		}
	}
	return fields
}

// assignValue sets field to v, converting between numeric kinds and to
// named types over the same underlying kind. A nil value (an absent
// optional) leaves the field at its zero value.
func assignValue(field reflect.Value, v any) error {
	if v == nil {
		field.SetZero()
		return nil
	}

	val := reflect.ValueOf(v)
	switch {
	case val.Type().AssignableTo(field.Type()):
		field.Set(val)
	case val.Type().ConvertibleTo(field.Type()) && numericKind(val.Kind()) && numericKind(field.Kind()):
		field.Set(val.Convert(field.Type()))
	case val.Type().ConvertibleTo(field.Type()) && val.Kind() == field.Kind():
		field.Set(val.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign %s to field of type %s", val.Type(), field.Type())
	}
	return nil
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
