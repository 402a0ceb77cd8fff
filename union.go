package valar

import (
	"context"
	"fmt"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Unions
///////////////////////////////////////////////////////////////////////////////

// Alt is one alternative of a union: a named type a value may validate as.
// Alternatives are built with AltOf or AltOfAsync, never by reinterpreting
// a validator's type parameter; dispatch is by runtime type check.
type Alt struct {
	Name  string
	check Validator[any]
	async AsyncValidator[any]
}

// AltOf declares an alternative backed by a synchronous validator for A.
// A value whose dynamic type is not A rejects the alternative.
func AltOf[A any](name string, v Validator[A]) Alt {
	u := eraseValidator(v)
	return Alt{Name: name, check: u, async: Async(u)}
}

// AltOfAsync declares an alternative backed by an asynchronous validator.
func AltOfAsync[A any](name string, v AsyncValidator[A]) Alt {
	u := eraseAsyncValidator(v)
	return Alt{
		Name: name,
		check: func(value any) Result[any] {
			return u(context.Background(), value)
		},
		async: u,
	}
}

// OneOf validates a value against a union of independently validatable
// types. Alternatives are attempted in declared order and the first one
// whose validator succeeds wins; later alternatives are not attempted. If
// every alternative rejects the value, the result is a single top-level
// error carrying one child per attempted alternative, the union's name as
// the expected type, and a rendering of the input as the actual value.
func OneOf(name string, alts ...Alt) Validator[any] {
	return func(value any) Result[any] {
		children := make([]FieldError, 0, len(alts))
		for _, alt := range alts {
			r := alt.check(value)
			if r.valid {
				return r
			}
			children = append(children, altRejection(alt, r.errors))
		}
		return Invalid[any](unionError(name, value, alts, children))
	}
}

// OneOfAsync is the asynchronous counterpart of OneOf. All alternatives
// are attempted concurrently; the winner is still the first alternative in
// declared order that succeeded, so completion order never changes the
// outcome.
func OneOfAsync(name string, alts ...Alt) AsyncValidator[any] {
	return func(ctx context.Context, value any) Result[any] {
		results := make([]Result[any], len(alts))
		collect(ctx, len(alts), func(ctx context.Context, i int) {
			results[i] = alts[i].async(ctx, value)
		})

		children := make([]FieldError, 0, len(alts))
		for i, r := range results {
			if r.valid {
				return r
			}
			children = append(children, altRejection(alts[i], r.errors))
		}
		return Invalid[any](unionError(name, value, alts, children))
	}
}

// altRejection summarizes why one alternative rejected the value. The
// alternative's own errors are preserved as children of the summary.
func altRejection(alt Alt, errs []FieldError) FieldError {
	return FieldError{
		Message:  fmt.Sprintf("not a valid %s", alt.Name),
		Severity: SeverityError,
		Expected: alt.Name,
		Children: errs,
	}
}

func unionError(name string, value any, alts []Alt, children []FieldError) FieldError {
	names := make([]string, len(alts))
	for i, alt := range alts {
		names[i] = alt.Name
	}
	return FieldError{
		Message:  fmt.Sprintf("value failed validation for all expected types: %s", strings.Join(names, ", ")),
		Code:     CodeUnionExhausted,
		Severity: SeverityError,
		Expected: name,
		Actual:   renderValue(value),
		Children: children,
	}
}
