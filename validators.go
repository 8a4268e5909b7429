package ssparser

import "cmp"

// =============================================================================
// Validators - per-position predicates for Checked specs
// =============================================================================

// Validator constrains an extracted value. A rejected value fails the
// conversion for its position with the validator's message, or with
// "validation error" when Message returns the empty string.
type Validator interface {
	Valid(value any) bool
	Message() string
}

// ValidatorFunc adapts a plain predicate to the [Validator] interface with
// the default message.
type ValidatorFunc func(value any) bool

func (f ValidatorFunc) Valid(value any) bool { return f(value) }

func (f ValidatorFunc) Message() string { return "" }

type validator struct {
	valid   func(any) bool
	message string
}

func (v validator) Valid(value any) bool { return v.valid(value) }

func (v validator) Message() string { return v.message }

// typed asserts the value to T; a wrong type never validates.
func typed[T any](pred func(T) bool) func(any) bool {
	return func(value any) bool {
		v, ok := value.(T)
		return ok && pred(v)
	}
}

// AllExcept accepts every value of T other than the listed ones.
func AllExcept[T comparable](excluded ...T) Validator {
	return validator{
		valid: typed(func(v T) bool {
			for _, x := range excluded {
				if v == x {
					return false
				}
			}
			return true
		}),
		message: "value excluded",
	}
}

// NoneExcept accepts only the listed values of T.
func NoneExcept[T comparable](allowed ...T) Validator {
	return validator{
		valid: typed(func(v T) bool {
			for _, x := range allowed {
				if v == x {
					return true
				}
			}
			return false
		}),
		message: "value excluded",
	}
}

// LessThan accepts values strictly below the limit.
func LessThan[T cmp.Ordered](limit T) Validator {
	return validator{valid: typed(func(v T) bool { return v < limit })}
}

// AtMost accepts values less than or equal to the limit.
func AtMost[T cmp.Ordered](limit T) Validator {
	return validator{valid: typed(func(v T) bool { return v <= limit })}
}

// GreaterThan accepts values strictly above the limit.
func GreaterThan[T cmp.Ordered](limit T) Validator {
	return validator{valid: typed(func(v T) bool { return v > limit })}
}

// AtLeast accepts values greater than or equal to the limit.
func AtLeast[T cmp.Ordered](limit T) Validator {
	return validator{valid: typed(func(v T) bool { return v >= limit })}
}

// InRange accepts values within [lo, hi].
func InRange[T cmp.Ordered](lo, hi T) Validator {
	return validator{valid: typed(func(v T) bool { return v >= lo && v <= hi })}
}

// OutOfRange accepts values outside [lo, hi].
func OutOfRange[T cmp.Ordered](lo, hi T) Validator {
	return validator{valid: typed(func(v T) bool { return v < lo || v > hi })}
}

// NonEmpty accepts non-empty strings and byte slices.
func NonEmpty() Validator {
	return validator{
		valid: func(value any) bool {
			switch v := value.(type) {
			case string:
				return len(v) > 0
			case []byte:
				return len(v) > 0
			default:
				return false
			}
		},
		message: "empty field",
	}
}
