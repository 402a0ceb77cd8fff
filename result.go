package valar

///////////////////////////////////////////////////////////////////////////////
// Result
///////////////////////////////////////////////////////////////////////////////

// Result is the outcome of validating a value of type A. It is exactly one
// of two things: Valid, holding the confirmed value, or Invalid, holding at
// least one FieldError. The zero value is Invalid with no errors and is not
// produced by any constructor; always build results via Valid and Invalid.
type Result[A any] struct {
	value  A
	errors []FieldError
	valid  bool
}

// Valid wraps a confirmed-valid value.
func Valid[A any](value A) Result[A] {
	return Result[A]{value: value, valid: true}
}

// Invalid builds a failed result from one or more errors.
//
// Constructing an Invalid from zero errors is a misuse; rather than produce
// a degenerate result with an empty error collection, the factory
// substitutes a single synthetic CodeEmptyErrors error.
func Invalid[A any](errs ...FieldError) Result[A] {
	if len(errs) == 0 {
		errs = []FieldError{emptyErrorsError()}
	}
	return Result[A]{errors: errs}
}

// IsValid reports whether the result holds a value.
func (r Result[A]) IsValid() bool { return r.valid }

// IsInvalid reports whether the result holds errors.
func (r Result[A]) IsInvalid() bool { return !r.valid }

// Get returns the contained value and whether the result is Valid.
func (r Result[A]) Get() (A, bool) {
	return r.value, r.valid
}

// Errors returns a copy of the error collection; empty when Valid.
func (r Result[A]) Errors() []FieldError {
	if r.valid || len(r.errors) == 0 {
		return nil
	}
	out := make([]FieldError, len(r.errors))
	copy(out, r.errors)
	return out
}

// Err returns the full error collection as an error value, or nil when
// Valid. This is the lossless error-interface conversion.
func (r Result[A]) Err() error {
	if r.valid {
		return nil
	}
	return Errors(r.Errors())
}

// Unwrap returns the value, or the first accumulated error when Invalid.
// It is the only lossy error conversion: the remaining errors are dropped.
func (r Result[A]) Unwrap() (A, error) {
	if r.valid {
		return r.value, nil
	}
	return r.value, r.errors[0]
}

// MustGet returns the value or panics with the full error collection.
// The panic is the caller's explicit request; nothing inside the validation
// algebra itself ever panics on Invalid.
func (r Result[A]) MustGet() A {
	if !r.valid {
		panic(Errors(r.Errors()))
	}
	return r.value
}

// OrElse returns r when Valid, otherwise other. When both are Invalid the
// errors of both sides are combined with the default strategy.
func (r Result[A]) OrElse(other Result[A]) Result[A] {
	return r.OrElseWith(Concat, other)
}

// OrElseWith is OrElse with an explicit accumulation strategy.
func (r Result[A]) OrElseWith(acc Accumulator, other Result[A]) Result[A] {
	if r.valid {
		return r
	}
	if other.valid {
		return other
	}
	return Invalid[A](acc(r.errors, other.errors)...)
}

// Recover returns r's value when Valid, otherwise Valid(def). It discards
// the diagnostics on purpose; callers that still want them should read
// Errors first.
func (r Result[A]) Recover(def A) Result[A] {
	if r.valid {
		return r
	}
	return Valid(def)
}

// ToSlice returns a singleton slice of the value, or an empty slice when
// Invalid.
func (r Result[A]) ToSlice() []A {
	if !r.valid {
		return nil
	}
	return []A{r.value}
}

///////////////////////////////////////////////////////////////////////////////
// Combinators
//
// Operations that change the value's type live as free functions because Go
// methods cannot introduce type parameters.
///////////////////////////////////////////////////////////////////////////////

// Pair holds the two values produced by a successful Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Map transforms the contained value when Valid. Invalid propagates
// unchanged, errors untouched.
func Map[A, B any](r Result[A], f func(A) B) Result[B] {
	if !r.valid {
		return Invalid[B](r.errors...)
	}
	return Valid(f(r.value))
}

// FlatMap is the sequential, fail-fast bind: when r is Invalid, f is never
// invoked and r's errors are returned as-is.
func FlatMap[A, B any](r Result[A], f func(A) Result[B]) Result[B] {
	if !r.valid {
		return Invalid[B](r.errors...)
	}
	return f(r.value)
}

// Zip combines two independent results, accumulating errors from whichever
// sides failed using the default strategy.
func Zip[A, B any](a Result[A], b Result[B]) Result[Pair[A, B]] {
	return ZipWith(Concat, a, b)
}

// ZipWith combines two independent results with an explicit accumulation
// strategy. Both sides are always inspected: if only one side is Invalid its
// errors are returned alone, if both are Invalid the strategy merges them.
func ZipWith[A, B any](acc Accumulator, a Result[A], b Result[B]) Result[Pair[A, B]] {
	switch {
	case a.valid && b.valid:
		return Valid(Pair[A, B]{First: a.value, Second: b.value})
	case a.valid:
		return Invalid[Pair[A, B]](b.errors...)
	case b.valid:
		return Invalid[Pair[A, B]](a.errors...)
	default:
		return Invalid[Pair[A, B]](acc(a.errors, b.errors)...)
	}
}

// ZipFailFast short-circuits on the left: when a is Invalid, b's errors are
// never inspected or merged, even if b also failed.
func ZipFailFast[A, B any](a Result[A], b Result[B]) Result[Pair[A, B]] {
	if !a.valid {
		return Invalid[Pair[A, B]](a.errors...)
	}
	if !b.valid {
		return Invalid[Pair[A, B]](b.errors...)
	}
	return Valid(Pair[A, B]{First: a.value, Second: b.value})
}

// Map2 combines two results with a function, accumulating errors exactly
// like Zip.
func Map2[A, B, C any](a Result[A], b Result[B], combine func(A, B) C) Result[C] {
	return Map(Zip(a, b), func(p Pair[A, B]) C {
		return combine(p.First, p.Second)
	})
}

// Map2FailFast combines two results with a function, short-circuiting
// exactly like ZipFailFast.
func Map2FailFast[A, B, C any](a Result[A], b Result[B], combine func(A, B) C) Result[C] {
	return Map(ZipFailFast(a, b), func(p Pair[A, B]) C {
		return combine(p.First, p.Second)
	})
}

// Or returns a's value when a is Valid, otherwise b's value when b is Valid.
// The data is right-biased across two different types, so the surviving
// value is reported as any. When both fail, errors accumulate with the
// default strategy.
func Or[A, B any](a Result[A], b Result[B]) Result[any] {
	if a.valid {
		return Valid[any](a.value)
	}
	if b.valid {
		return Valid[any](b.value)
	}
	return Invalid[any](Concat(a.errors, b.errors)...)
}

// Fold is the total catamorphism: exactly one of the two callbacks runs.
func Fold[A, R any](r Result[A], onValid func(A) R, onInvalid func([]FieldError) R) R {
	if r.valid {
		return onValid(r.value)
	}
	return onInvalid(r.Errors())
}
