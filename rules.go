package valar

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Built-in leaf validators
///////////////////////////////////////////////////////////////////////////////

var (
	ErrRuleArgRequired = errors.New("rule requires an argument")
	ErrBadRuleArg      = errors.New("malformed rule argument")
)

// Codes carried by the built-in rules, usable as translation-catalog keys.
const (
	CodeNonEmpty = "validation.nonempty"
	CodeMinLen   = "validation.minlen"
	CodeMaxLen   = "validation.maxlen"
	CodeNonNeg   = "validation.nonneg"
	CodePositive = "validation.positive"
	CodeMin      = "validation.min"
	CodeMax      = "validation.max"
	CodeUUID     = "validation.uuid"
	CodeRegex    = "validation.regex"
	CodeOneOf    = "validation.oneof"
	CodeType     = "validation.type"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// NonEmptyString fails on strings that are empty after trimming whitespace.
func NonEmptyString() Validator[string] {
	return func(value string) Result[string] {
		if strings.TrimSpace(value) == "" {
			return Invalid[string](FieldError{
				Message:  "must not be empty",
				Code:     CodeNonEmpty,
				Severity: SeverityError,
				Expected: "non-empty string",
				Actual:   renderValue(value),
			})
		}
		return Valid(value)
	}
}

// MinLenString requires at least min bytes.
func MinLenString(min int) Validator[string] {
	return func(value string) Result[string] {
		if len(value) < min {
			return Invalid[string](FieldError{
				Message:  fmt.Sprintf("must be at least %d characters long", min),
				Code:     CodeMinLen,
				Severity: SeverityError,
				Expected: fmt.Sprintf("len >= %d", min),
				Actual:   renderValue(value),
			})
		}
		return Valid(value)
	}
}

// MaxLenString allows at most max bytes.
func MaxLenString(max int) Validator[string] {
	return func(value string) Result[string] {
		if len(value) > max {
			return Invalid[string](FieldError{
				Message:  fmt.Sprintf("must be at most %d characters long", max),
				Code:     CodeMaxLen,
				Severity: SeverityError,
				Expected: fmt.Sprintf("len <= %d", max),
				Actual:   renderValue(value),
			})
		}
		return Valid(value)
	}
}

// NonNegative fails on values below zero.
func NonNegative[N Numeric]() Validator[N] {
	return func(value N) Result[N] {
		if value < 0 {
			return Invalid[N](FieldError{
				Message:  "must not be negative",
				Code:     CodeNonNeg,
				Severity: SeverityError,
				Expected: ">= 0",
				Actual:   renderValue(value),
			})
		}
		return Valid(value)
	}
}

// Positive fails on values at or below zero.
func Positive[N Numeric]() Validator[N] {
	return func(value N) Result[N] {
		if value <= 0 {
			return Invalid[N](FieldError{
				Message:  "must be positive",
				Code:     CodePositive,
				Severity: SeverityError,
				Expected: "> 0",
				Actual:   renderValue(value),
			})
		}
		return Valid(value)
	}
}

// Min requires value >= min.
func Min[N Numeric](min N) Validator[N] {
	return func(value N) Result[N] {
		if value < min {
			return Invalid[N](FieldError{
				Message:  fmt.Sprintf("must be at least %v", min),
				Code:     CodeMin,
				Severity: SeverityError,
				Expected: fmt.Sprintf(">= %v", min),
				Actual:   renderValue(value),
			})
		}
		return Valid(value)
	}
}

// Max requires value <= max.
func Max[N Numeric](max N) Validator[N] {
	return func(value N) Result[N] {
		if value > max {
			return Invalid[N](FieldError{
				Message:  fmt.Sprintf("must be at most %v", max),
				Code:     CodeMax,
				Severity: SeverityError,
				Expected: fmt.Sprintf("<= %v", max),
				Actual:   renderValue(value),
			})
		}
		return Valid(value)
	}
}

// InValues requires the value to be one of the allowed values.
func InValues[A comparable](allowed ...A) Validator[A] {
	return func(value A) Result[A] {
		for _, a := range allowed {
			if value == a {
				return Valid(value)
			}
		}
		return Invalid[A](FieldError{
			Message:  fmt.Sprintf("must be one of %v", allowed),
			Code:     CodeOneOf,
			Severity: SeverityError,
			Expected: fmt.Sprintf("%v", allowed),
			Actual:   renderValue(value),
		})
	}
}

// UUIDString requires the string to parse as a UUID.
func UUIDString() Validator[string] {
	return func(value string) Result[string] {
		if _, err := uuid.Parse(value); err != nil {
			return Invalid[string](FieldError{
				Message:  "must be a valid UUID",
				Code:     CodeUUID,
				Severity: SeverityError,
				Expected: "RFC 4122 UUID",
				Actual:   renderValue(value),
			})
		}
		return Valid(value)
	}
}

// NonNilUUID rejects the zero UUID.
func NonNilUUID() Validator[uuid.UUID] {
	return func(value uuid.UUID) Result[uuid.UUID] {
		if value == uuid.Nil {
			return Invalid[uuid.UUID](FieldError{
				Message:  "must not be the nil UUID",
				Code:     CodeUUID,
				Severity: SeverityError,
				Expected: "non-nil UUID",
				Actual:   value.String(),
			})
		}
		return Valid(value)
	}
}

// MatchRegex requires the string to match the pattern.
func MatchRegex(re *regexp.Regexp) Validator[string] {
	return func(value string) Result[string] {
		if !re.MatchString(value) {
			return Invalid[string](FieldError{
				Message:  fmt.Sprintf("must match pattern %s", re.String()),
				Code:     CodeRegex,
				Severity: SeverityError,
				Expected: re.String(),
				Actual:   renderValue(value),
			})
		}
		return Valid(value)
	}
}

///////////////////////////////////////////////////////////////////////////////
// Named rules
//
// The named forms back the validate-tag grammar and document schemas. They
// operate on erased values, so numeric rules accept any numeric kind via
// reflection instead of asserting one concrete type.
///////////////////////////////////////////////////////////////////////////////

func builtinRules() map[string]RuleFactory {
	return map[string]RuleFactory{
		RuleNonEmpty: noArgRule(eraseValidator(NonEmptyString())),
		RuleUUID:     noArgRule(eraseValidator(UUIDString())),
		RuleMinLen: intArgRule(func(n int) Validator[any] {
			return eraseValidator(MinLenString(n))
		}),
		RuleMaxLen: intArgRule(func(n int) Validator[any] {
			return eraseValidator(MaxLenString(n))
		}),
		RuleNonNeg:   noArgRule(numericRule(RuleNonNeg, CodeNonNeg, "must not be negative", func(v float64) bool { return v >= 0 })),
		RulePositive: noArgRule(numericRule(RulePositive, CodePositive, "must be positive", func(v float64) bool { return v > 0 })),
		RuleMin: floatArgRule(func(bound float64) Validator[any] {
			return numericRule(RuleMin, CodeMin, fmt.Sprintf("must be at least %v", bound), func(v float64) bool { return v >= bound })
		}),
		RuleMax: floatArgRule(func(bound float64) Validator[any] {
			return numericRule(RuleMax, CodeMax, fmt.Sprintf("must be at most %v", bound), func(v float64) bool { return v <= bound })
		}),
		RuleRegex: func(arg string) (Validator[any], error) {
			if arg == "" {
				return nil, fmt.Errorf("%w: regex", ErrRuleArgRequired)
			}
			re, err := regexp.Compile(arg)
			if err != nil {
				return nil, fmt.Errorf("%w: regex: %v", ErrBadRuleArg, err)
			}
			return eraseValidator(MatchRegex(re)), nil
		},
		RuleOneOf: func(arg string) (Validator[any], error) {
			if arg == "" {
				return nil, fmt.Errorf("%w: oneof", ErrRuleArgRequired)
			}
			return eraseValidator(InValues(strings.Split(arg, "|")...)), nil
		},
	}
}

func noArgRule(v Validator[any]) RuleFactory {
	return func(string) (Validator[any], error) {
		return v, nil
	}
}

func intArgRule(build func(n int) Validator[any]) RuleFactory {
	return func(arg string) (Validator[any], error) {
		if arg == "" {
			return nil, ErrRuleArgRequired
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadRuleArg, arg)
		}
		return build(n), nil
	}
}

func floatArgRule(build func(bound float64) Validator[any]) RuleFactory {
	return func(arg string) (Validator[any], error) {
		if arg == "" {
			return nil, ErrRuleArgRequired
		}
		bound, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadRuleArg, arg)
		}
		return build(bound), nil
	}
}

// numericRule checks any numeric kind against a predicate over float64.
func numericRule(name, code, message string, pred func(float64) bool) Validator[any] {
	return func(value any) Result[any] {
		f, ok := numericValue(value)
		if !ok {
			return Invalid[any](FieldError{
				Message:  fmt.Sprintf("rule %s requires a numeric value, got %s", name, typeNameOf(reflect.TypeOf(value))),
				Code:     CodeType,
				Severity: SeverityError,
				Expected: "numeric value",
				Actual:   renderValue(value),
			})
		}
		if !pred(f) {
			return Invalid[any](FieldError{
				Message:  message,
				Code:     code,
				Severity: SeverityError,
				Actual:   renderValue(value),
			})
		}
		return Valid(value)
	}
}

func numericValue(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}
