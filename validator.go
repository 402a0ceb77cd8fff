package valar

import "context"

///////////////////////////////////////////////////////////////////////////////
// Validator contracts
///////////////////////////////////////////////////////////////////////////////

// Validator checks a value of type A and returns either the value,
// confirmed valid, or the accumulated errors describing every failure.
// Validators are stateless, shareable, and must not mutate their input.
// A Valid result may carry a transformed value (for example a normalized
// form of the input); most validators return the input unchanged.
type Validator[A any] func(value A) Result[A]

// AsyncValidator is the non-blocking counterpart of Validator. The
// structural combinators invoke sibling AsyncValidators concurrently and
// join on all of them; an implementation is responsible for honoring ctx
// and for its own timeout policy. The core imposes none.
type AsyncValidator[A any] func(ctx context.Context, value A) Result[A]

// Async lifts a synchronous validator into an asynchronous one by wrapping
// its result as an already-completed outcome. This is the fallback the
// structural derivation applies to every leaf that has no custom
// asynchronous validator.
func Async[A any](v Validator[A]) AsyncValidator[A] {
	return func(_ context.Context, value A) Result[A] {
		return v(value)
	}
}

// Pass is the pass-through leaf: every value of A is Valid. It is the base
// case used for leaf types that carry no constraints of their own.
func Pass[A any]() Validator[A] {
	return func(value A) Result[A] {
		return Valid(value)
	}
}

// All folds several validators over the same value, accumulating the errors
// of every failing component in declaration order. The value must satisfy
// every component (intersection semantics); two failing components out of
// three report both failures in one pass.
func All[A any](vs ...Validator[A]) Validator[A] {
	return AllWith(Concat, vs...)
}

// AllWith is All with an explicit accumulation strategy.
func AllWith[A any](acc Accumulator, vs ...Validator[A]) Validator[A] {
	return func(value A) Result[A] {
		var errs []FieldError
		for _, v := range vs {
			if r := v(value); !r.valid {
				errs = acc(errs, r.errors)
			}
		}
		if len(errs) > 0 {
			return Invalid[A](errs...)
		}
		return Valid(value)
	}
}

// AllAsync is the asynchronous counterpart of All: every component runs
// concurrently, nothing is cancelled when a sibling fails, and the errors
// merge in declaration order regardless of completion order.
func AllAsync[A any](vs ...AsyncValidator[A]) AsyncValidator[A] {
	return func(ctx context.Context, value A) Result[A] {
		results := fanOut(ctx, len(vs), func(ctx context.Context, i int) []FieldError {
			return vs[i](ctx, value).Errors()
		})
		var errs []FieldError
		for _, r := range results {
			errs = Concat(errs, r)
		}
		if len(errs) > 0 {
			return Invalid[A](errs...)
		}
		return Valid(value)
	}
}

// Optional adapts a validator for A into one for *A. Absent (nil) values
// are unconditionally valid; present values validate the inner value and
// rewrap it, propagating an Invalid inner result unchanged.
func Optional[A any](v Validator[A]) Validator[*A] {
	return func(value *A) Result[*A] {
		if value == nil {
			return Valid[*A](nil)
		}
		inner := v(*value)
		if !inner.valid {
			return Invalid[*A](inner.errors...)
		}
		return Valid(value)
	}
}

// OptionalAsync is the asynchronous counterpart of Optional.
func OptionalAsync[A any](v AsyncValidator[A]) AsyncValidator[*A] {
	return func(ctx context.Context, value *A) Result[*A] {
		if value == nil {
			return Valid[*A](nil)
		}
		inner := v(ctx, *value)
		if !inner.valid {
			return Invalid[*A](inner.errors...)
		}
		return Valid(value)
	}
}

// Named wraps a validator so that its errors surface annotated with the
// given field name and type, exactly as the struct traversal annotates a
// field. Useful when validating loose values that still belong to a
// conceptual field.
func Named[A any](field, typeName string, v Validator[A]) Validator[A] {
	return func(value A) Result[A] {
		r := v(value)
		if r.valid {
			return r
		}
		return Invalid[A](annotateAll(r.errors, field, typeName)...)
	}
}
