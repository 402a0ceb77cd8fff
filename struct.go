package valar

import (
	"context"
	"reflect"
	"sort"
	"time"
)

///////////////////////////////////////////////////////////////////////////////
// Record validation
///////////////////////////////////////////////////////////////////////////////

// ValidateStruct validates a struct value field by field, in declaration
// order, against the tag rules, registered per-type validators, and nested
// structure derived for its type. All fields are always checked; the result
// reports every invalid field in one pass, each error annotated with its
// field path and declared type.
//
// A must be a struct or pointer to struct. On success the original value is
// returned unchanged.
func ValidateStruct[A any](value A, opts Opts) Result[A] {
	start := time.Now()

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			errs := []FieldError{planError(ErrNotAStruct)}
			opts.observe(start, false, errs)
			return Invalid[A](errs...)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		errs := []FieldError{planError(ErrNotAStruct)}
		opts.observe(start, false, errs)
		return Invalid[A](errs...)
	}

	plan, err := opts.registry().planFor(rv.Type())
	if err != nil {
		errs := []FieldError{planError(err)}
		opts.observe(start, false, errs)
		return Invalid[A](errs...)
	}

	errs := plan.Execute(opts, rv)
	opts.observe(start, len(errs) == 0, errs)
	if len(errs) > 0 {
		return Invalid[A](errs...)
	}
	return Valid(value)
}

// ValidateStructAsync is the asynchronous counterpart of ValidateStruct:
// every field's validation is launched concurrently and all of them are
// awaited before merging, in declaration order. Fields whose types carry a
// registered asynchronous validator use it; every other leaf runs its
// lifted synchronous validator.
func ValidateStructAsync[A any](ctx context.Context, value A, opts Opts) Result[A] {
	start := time.Now()

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			errs := []FieldError{planError(ErrNotAStruct)}
			opts.observe(start, false, errs)
			return Invalid[A](errs...)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		errs := []FieldError{planError(ErrNotAStruct)}
		opts.observe(start, false, errs)
		return Invalid[A](errs...)
	}

	plan, err := opts.registry().planFor(rv.Type())
	if err != nil {
		errs := []FieldError{planError(err)}
		opts.observe(start, false, errs)
		return Invalid[A](errs...)
	}

	errs := plan.ExecuteAsync(ctx, opts, rv)
	opts.observe(start, len(errs) == 0, errs)
	if len(errs) > 0 {
		return Invalid[A](errs...)
	}
	return Valid(value)
}

///////////////////////////////////////////////////////////////////////////////
// Collection validation
///////////////////////////////////////////////////////////////////////////////

// ValidateSlice validates every element of xs. The configured collection
// limit is consulted before any element-level work: an over-limit slice
// short-circuits with a single CodeCollectionTooLarge error and zero
// element validator invocations. Otherwise all elements are validated and
// their errors accumulate, each prefixed with the element's index. Any
// invalid element invalidates the whole slice; on success the original
// slice is returned unchanged.
func ValidateSlice[E any](xs []E, v Validator[E], opts Opts) Result[[]E] {
	start := time.Now()

	if errs, stop := checkCollectionSize(opts, len(xs)); stop {
		opts.observe(start, false, errs)
		return Invalid[[]E](errs...)
	}

	acc := opts.accumulator()
	var errs []FieldError
	for i, x := range xs {
		if r := v(x); r.IsInvalid() {
			errs = acc(errs, prefixAll(r.errors, indexSegment(i)))
		}
	}

	opts.observe(start, len(errs) == 0, errs)
	if len(errs) > 0 {
		return Invalid[[]E](errs...)
	}
	return Valid(xs)
}

// ValidateSliceAsync is the asynchronous counterpart of ValidateSlice: all
// elements fan out concurrently, everything is awaited, and errors merge in
// index order regardless of completion order.
func ValidateSliceAsync[E any](ctx context.Context, xs []E, v AsyncValidator[E], opts Opts) Result[[]E] {
	start := time.Now()

	if errs, stop := checkCollectionSize(opts, len(xs)); stop {
		opts.observe(start, false, errs)
		return Invalid[[]E](errs...)
	}

	results := fanOut(ctx, len(xs), func(ctx context.Context, i int) []FieldError {
		return v(ctx, xs[i]).Errors()
	})

	acc := opts.accumulator()
	var errs []FieldError
	for i, elemErrs := range results {
		if len(elemErrs) > 0 {
			errs = acc(errs, prefixAll(elemErrs, indexSegment(i)))
		}
	}

	opts.observe(start, len(errs) == 0, errs)
	if len(errs) > 0 {
		return Invalid[[]E](errs...)
	}
	return Valid(xs)
}

// ValidateMap validates each entry's key and value independently, so a
// single entry may contribute up to two errors. Key errors are annotated
// as field "key" and value errors as field "value", both prefixed with the
// rendered map key; entries are visited in sorted rendered-key order so
// output is deterministic. The collection limit applies to the entry count
// before any per-entry work.
func ValidateMap[K comparable, V any](m map[K]V, keyV Validator[K], valV Validator[V], opts Opts) Result[map[K]V] {
	start := time.Now()

	if errs, stop := checkCollectionSize(opts, len(m)); stop {
		opts.observe(start, false, errs)
		return Invalid[map[K]V](errs...)
	}

	keyType := displayTypeName(reflect.TypeOf((*K)(nil)).Elem())
	valType := displayTypeName(reflect.TypeOf((*V)(nil)).Elem())

	acc := opts.accumulator()
	var errs []FieldError
	for _, k := range sortedKeys(m) {
		var entry []FieldError
		if r := keyV(k); r.IsInvalid() {
			entry = acc(entry, annotateAll(r.errors, "key", keyType))
		}
		if r := valV(m[k]); r.IsInvalid() {
			entry = acc(entry, annotateAll(r.errors, "value", valType))
		}
		if len(entry) > 0 {
			errs = acc(errs, prefixAll(entry, renderValue(k)))
		}
	}

	opts.observe(start, len(errs) == 0, errs)
	if len(errs) > 0 {
		return Invalid[map[K]V](errs...)
	}
	return Valid(m)
}

// ValidateMapAsync is the asynchronous counterpart of ValidateMap; entries
// fan out concurrently and merge in sorted rendered-key order.
func ValidateMapAsync[K comparable, V any](ctx context.Context, m map[K]V, keyV AsyncValidator[K], valV AsyncValidator[V], opts Opts) Result[map[K]V] {
	start := time.Now()

	if errs, stop := checkCollectionSize(opts, len(m)); stop {
		opts.observe(start, false, errs)
		return Invalid[map[K]V](errs...)
	}

	keyType := displayTypeName(reflect.TypeOf((*K)(nil)).Elem())
	valType := displayTypeName(reflect.TypeOf((*V)(nil)).Elem())

	keys := sortedKeys(m)
	results := fanOut(ctx, len(keys), func(ctx context.Context, i int) []FieldError {
		k := keys[i]
		acc := opts.accumulator()
		var entry []FieldError
		if r := keyV(ctx, k); r.IsInvalid() {
			entry = acc(entry, annotateAll(r.errors, "key", keyType))
		}
		if r := valV(ctx, m[k]); r.IsInvalid() {
			entry = acc(entry, annotateAll(r.errors, "value", valType))
		}
		return entry
	})

	acc := opts.accumulator()
	var errs []FieldError
	for i, entry := range results {
		if len(entry) > 0 {
			errs = acc(errs, prefixAll(entry, renderValue(keys[i])))
		}
	}

	opts.observe(start, len(errs) == 0, errs)
	if len(errs) > 0 {
		return Invalid[map[K]V](errs...)
	}
	return Valid(m)
}

func sortedKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return renderValue(keys[i]) < renderValue(keys[j])
	})
	return keys
}

///////////////////////////////////////////////////////////////////////////////
// Tuple validation
///////////////////////////////////////////////////////////////////////////////

// TupleElem is one positional element of a tuple under validation.
type TupleElem struct {
	Label string // Optional; the positional index is used when empty
	Value any
	Check Validator[any]
}

// ValidateTuple validates a fixed sequence of heterogeneous values the same
// way a record is validated: every position checked, errors accumulated,
// each annotated with the element's label (or index) and rendered type.
func ValidateTuple(opts Opts, elems ...TupleElem) Result[[]any] {
	start := time.Now()

	acc := opts.accumulator()
	var errs []FieldError
	values := make([]any, len(elems))
	for i, e := range elems {
		values[i] = e.Value
		if e.Check == nil {
			continue
		}
		if r := e.Check(e.Value); r.IsInvalid() {
			errs = acc(errs, annotateAll(r.errors, tupleLabel(e, i), displayTypeName(reflect.TypeOf(e.Value))))
		}
	}

	opts.observe(start, len(errs) == 0, errs)
	if len(errs) > 0 {
		return Invalid[[]any](errs...)
	}
	return Valid(values)
}

// ValidateTupleAsync is the asynchronous counterpart of ValidateTuple.
func ValidateTupleAsync(ctx context.Context, opts Opts, elems ...TupleElem) Result[[]any] {
	start := time.Now()

	results := fanOut(ctx, len(elems), func(_ context.Context, i int) []FieldError {
		e := elems[i]
		if e.Check == nil {
			return nil
		}
		if r := e.Check(e.Value); r.IsInvalid() {
			return annotateAll(r.errors, tupleLabel(e, i), displayTypeName(reflect.TypeOf(e.Value)))
		}
		return nil
	})

	acc := opts.accumulator()
	var errs []FieldError
	values := make([]any, len(elems))
	for i, e := range elems {
		values[i] = e.Value
		if len(results[i]) > 0 {
			errs = acc(errs, results[i])
		}
	}

	opts.observe(start, len(errs) == 0, errs)
	if len(errs) > 0 {
		return Invalid[[]any](errs...)
	}
	return Valid(values)
}

func tupleLabel(e TupleElem, i int) string {
	if e.Label != "" {
		return e.Label
	}
	return indexSegment(i)
}
