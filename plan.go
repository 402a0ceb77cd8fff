package valar

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

var (
	ErrNotAStruct = errors.New("validation plans can only be derived for struct types")
)

///////////////////////////////////////////////////////////////////////////////
// Core Validation Plan Types
///////////////////////////////////////////////////////////////////////////////

// valueCheck validates one value in both execution modes. The async form is
// never nil: leaves without a custom asynchronous validator get the lifted
// synchronous one, and structural checks fan their parts out concurrently.
type valueCheck struct {
	sync  func(opts Opts, v reflect.Value) []FieldError
	async func(ctx context.Context, opts Opts, v reflect.Value) []FieldError
}

func (c valueCheck) empty() bool { return c.sync == nil }

// liftCheck builds an async form from a sync one.
func liftCheck(sync func(opts Opts, v reflect.Value) []FieldError) valueCheck {
	return valueCheck{
		sync: sync,
		async: func(_ context.Context, opts Opts, v reflect.Value) []FieldError {
			return sync(opts, v)
		},
	}
}

// validateStep is a single step in a struct's validation plan: one declared
// field, in declaration order.
type validateStep struct {
	FieldIndex int    // Index of the field in the struct
	FieldName  string // Name used in error paths and annotations
	TypeName   string // Declared field type, rendered for annotations
	Optional   bool   // A nil pointer/interface validates as absent-is-valid
	Check      valueCheck
	Next       *validateStep // Next step in the chain
}

// ValidationPlan is the derived traversal for one struct type: a linked
// list of per-field steps executed in declaration order. Plans are built
// lazily on first use and cached in the registry, so the reflection work
// happens once per type.
type ValidationPlan struct {
	StructType reflect.Type
	Head       *validateStep
	steps      []*validateStep
}

// Execute validates every field of value, accumulating errors across all
// steps; one pass reports every invalid field. value must be a
// non-pointer struct of the plan's type.
func (p *ValidationPlan) Execute(opts Opts, value reflect.Value) []FieldError {
	acc := opts.accumulator()
	var errs []FieldError
	for current := p.Head; current != nil; current = current.Next {
		if stepErrs := current.run(opts, value.Field(current.FieldIndex)); len(stepErrs) > 0 {
			errs = acc(errs, stepErrs)
		}
	}
	return errs
}

// ExecuteAsync validates all fields concurrently (fan-out), waits for every
// sibling to finish (join-all, no early cancellation), then merges the
// results in declaration order so completion order never shows.
func (p *ValidationPlan) ExecuteAsync(ctx context.Context, opts Opts, value reflect.Value) []FieldError {
	results := fanOut(ctx, len(p.steps), func(ctx context.Context, i int) []FieldError {
		step := p.steps[i]
		return step.runAsync(ctx, opts, value.Field(step.FieldIndex))
	})

	acc := opts.accumulator()
	var errs []FieldError
	for _, stepErrs := range results {
		if len(stepErrs) > 0 {
			errs = acc(errs, stepErrs)
		}
	}
	return errs
}

// run executes a single step against the field's value.
func (s *validateStep) run(opts Opts, field reflect.Value) []FieldError {
	v, errs, done := s.prepare(field)
	if done {
		return errs
	}
	return annotateAll(s.Check.sync(opts, v), s.FieldName, s.TypeName)
}

func (s *validateStep) runAsync(ctx context.Context, opts Opts, field reflect.Value) []FieldError {
	v, errs, done := s.prepare(field)
	if done {
		return errs
	}
	return annotateAll(s.Check.async(ctx, opts, v), s.FieldName, s.TypeName)
}

// prepare handles absence before any validator runs: a required absent
// field short-circuits with the synthetic null violation, an optional
// absent field is valid, and a present pointer is dereferenced.
func (s *validateStep) prepare(field reflect.Value) (reflect.Value, []FieldError, bool) {
	if isAbsent(field) {
		if s.Optional {
			return field, nil, true
		}
		return field, []FieldError{requiredError(s.FieldName)}, true
	}
	if field.Kind() == reflect.Ptr {
		field = field.Elem()
	}
	if s.Check.empty() {
		return field, nil, true
	}
	return field, nil, false
}

///////////////////////////////////////////////////////////////////////////////
// Plan derivation
///////////////////////////////////////////////////////////////////////////////

// planFor returns the cached plan for t, deriving it on first use.
func (r *Registry) planFor(t reflect.Type) (*ValidationPlan, error) {
	if p, ok := r.plans.Load(t); ok {
		return p.(*ValidationPlan), nil
	}

	p, err := buildPlan(r, t)
	if err != nil {
		return nil, err
	}

	actual, _ := r.plans.LoadOrStore(t, p)
	return actual.(*ValidationPlan), nil
}

func buildPlan(reg *Registry, t reflect.Type) (*ValidationPlan, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotAStruct, typeNameOf(t))
	}

	plan := &ValidationPlan{StructType: t}
	var tail *validateStep

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		ft, err := decodeValidateTag(f)
		if err != nil {
			return nil, err
		}

		rules, err := resolveRules(reg, ft.Rules)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}

		checkType := f.Type
		if checkType.Kind() == reflect.Ptr {
			checkType = checkType.Elem()
		}

		check, err := buildValueCheck(reg, checkType, rules, ft.Dive)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}

		step := &validateStep{
			FieldIndex: i,
			FieldName:  errorFieldName(f),
			TypeName:   displayTypeName(f.Type),
			Optional:   ft.Optional,
			Check:      check,
		}

		if tail == nil {
			plan.Head = step
		} else {
			tail.Next = step
		}
		tail = step
		plan.steps = append(plan.steps, step)
	}

	return plan, nil
}

// buildValueCheck derives the check for one value of type t. rules come
// from the enclosing field's tag; with dive set they apply to the elements
// of a collection instead of the collection itself.
//
// Resolution order: tag rules, then the registry's per-type validator, then
// structural recursion for structs and collections. A leaf with none of
// these is pass-through. Interface-typed values are checked by tag rules
// only; their dynamic shape is not traversed.
func buildValueCheck(reg *Registry, t reflect.Type, rules []Validator[any], dive bool) (valueCheck, error) {
	isCollection := false
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		isCollection = true
	}

	var checks []valueCheck
	if len(rules) > 0 && !(dive && isCollection) {
		checks = append(checks, ruleCheck(rules))
	}

	if u, ok := reg.lookup(t); ok {
		checks = append(checks, registryCheck(reg, t, u))
	} else {
		switch t.Kind() {
		case reflect.Struct:
			checks = append(checks, structuralCheck(reg))
		case reflect.Slice, reflect.Array:
			elemRules := rulesIf(dive, rules)
			elemCheck, err := buildValueCheck(reg, derefType(t.Elem()), elemRules, false)
			if err != nil {
				return valueCheck{}, err
			}
			checks = append(checks, sequenceCheck(elemCheck))
		case reflect.Map:
			keyCheck, err := buildValueCheck(reg, derefType(t.Key()), nil, false)
			if err != nil {
				return valueCheck{}, err
			}
			valCheck, err := buildValueCheck(reg, derefType(t.Elem()), rulesIf(dive, rules), false)
			if err != nil {
				return valueCheck{}, err
			}
			checks = append(checks, mappingCheck(t, keyCheck, valCheck))
		}
	}

	return mergeChecks(checks), nil
}

func rulesIf(cond bool, rules []Validator[any]) []Validator[any] {
	if cond {
		return rules
	}
	return nil
}

func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// ruleCheck applies the field's tag rules to the value, accumulating every
// failing rule's errors in declaration order.
func ruleCheck(rules []Validator[any]) valueCheck {
	return liftCheck(func(opts Opts, v reflect.Value) []FieldError {
		acc := opts.accumulator()
		var errs []FieldError
		for _, rule := range rules {
			if r := rule(v.Interface()); !r.valid {
				errs = acc(errs, r.errors)
			}
		}
		return errs
	})
}

// registryCheck invokes the per-type validator resolved from the registry,
// preferring a registered asynchronous validator on the async path.
func registryCheck(reg *Registry, t reflect.Type, u Validator[any]) valueCheck {
	sync := func(_ Opts, v reflect.Value) []FieldError {
		return u(v.Interface()).Errors()
	}
	check := liftCheck(sync)
	if ua, ok := reg.lookupAsync(t); ok {
		check.async = func(ctx context.Context, _ Opts, v reflect.Value) []FieldError {
			return ua(ctx, v.Interface()).Errors()
		}
	}
	return check
}

// structuralCheck recurses into a nested struct via its own plan. The plan
// is resolved at execution time so recursive types derive cleanly.
func structuralCheck(reg *Registry) valueCheck {
	return valueCheck{
		sync: func(opts Opts, v reflect.Value) []FieldError {
			p, err := reg.planFor(v.Type())
			if err != nil {
				return []FieldError{planError(err)}
			}
			return p.Execute(opts, v)
		},
		async: func(ctx context.Context, opts Opts, v reflect.Value) []FieldError {
			p, err := reg.planFor(v.Type())
			if err != nil {
				return []FieldError{planError(err)}
			}
			return p.ExecuteAsync(ctx, opts, v)
		},
	}
}

// sequenceCheck validates every element of a slice or array. The size limit
// is consulted first and dominates: an over-limit collection produces one
// synthetic error and no element-level work at all.
func sequenceCheck(elem valueCheck) valueCheck {
	return valueCheck{
		sync: func(opts Opts, v reflect.Value) []FieldError {
			if errs, stop := checkCollectionSize(opts, v.Len()); stop {
				return errs
			}
			if elem.empty() {
				return nil
			}
			acc := opts.accumulator()
			var errs []FieldError
			for i := 0; i < v.Len(); i++ {
				if elemErrs := checkElement(elem.sync, opts, v.Index(i)); len(elemErrs) > 0 {
					errs = acc(errs, prefixAll(elemErrs, indexSegment(i)))
				}
			}
			return errs
		},
		async: func(ctx context.Context, opts Opts, v reflect.Value) []FieldError {
			if errs, stop := checkCollectionSize(opts, v.Len()); stop {
				return errs
			}
			if elem.empty() {
				return nil
			}
			results := fanOut(ctx, v.Len(), func(ctx context.Context, i int) []FieldError {
				return checkElementAsync(ctx, elem.async, opts, v.Index(i))
			})
			acc := opts.accumulator()
			var errs []FieldError
			for i, elemErrs := range results {
				if len(elemErrs) > 0 {
					errs = acc(errs, prefixAll(elemErrs, indexSegment(i)))
				}
			}
			return errs
		},
	}
}

// mappingCheck validates each entry's key and value independently; a single
// entry can contribute up to two error groups, one per side. Entries are
// visited in sorted rendered-key order so output is deterministic.
func mappingCheck(t reflect.Type, key, val valueCheck) valueCheck {
	keyType := displayTypeName(t.Key())
	valType := displayTypeName(t.Elem())

	entryErrs := func(opts Opts, keyErrs, valErrs []FieldError, rendered string) []FieldError {
		keyErrs = annotateAll(keyErrs, "key", keyType)
		valErrs = annotateAll(valErrs, "value", valType)
		return prefixAll(opts.accumulator()(keyErrs, valErrs), rendered)
	}

	return valueCheck{
		sync: func(opts Opts, v reflect.Value) []FieldError {
			if errs, stop := checkCollectionSize(opts, v.Len()); stop {
				return errs
			}
			if key.empty() && val.empty() {
				return nil
			}
			acc := opts.accumulator()
			var errs []FieldError
			for _, mk := range sortedMapKeys(v) {
				var keyErrs, valErrs []FieldError
				if !key.empty() {
					keyErrs = checkElement(key.sync, opts, mk)
				}
				if !val.empty() {
					valErrs = checkElement(val.sync, opts, v.MapIndex(mk))
				}
				if entry := entryErrs(opts, keyErrs, valErrs, renderValue(mk.Interface())); len(entry) > 0 {
					errs = acc(errs, entry)
				}
			}
			return errs
		},
		async: func(ctx context.Context, opts Opts, v reflect.Value) []FieldError {
			if errs, stop := checkCollectionSize(opts, v.Len()); stop {
				return errs
			}
			if key.empty() && val.empty() {
				return nil
			}
			keys := sortedMapKeys(v)
			results := fanOut(ctx, len(keys), func(ctx context.Context, i int) []FieldError {
				mk := keys[i]
				var keyErrs, valErrs []FieldError
				if !key.empty() {
					keyErrs = checkElementAsync(ctx, key.async, opts, mk)
				}
				if !val.empty() {
					valErrs = checkElementAsync(ctx, val.async, opts, v.MapIndex(mk))
				}
				return entryErrs(opts, keyErrs, valErrs, renderValue(mk.Interface()))
			})
			acc := opts.accumulator()
			var errs []FieldError
			for _, entry := range results {
				if len(entry) > 0 {
					errs = acc(errs, entry)
				}
			}
			return errs
		},
	}
}

// checkElement dereferences pointer elements before checking. A nil pointer
// element validates as absent-is-valid.
func checkElement(check func(Opts, reflect.Value) []FieldError, opts Opts, v reflect.Value) []FieldError {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return check(opts, v)
}

func checkElementAsync(ctx context.Context, check func(context.Context, Opts, reflect.Value) []FieldError, opts Opts, v reflect.Value) []FieldError {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return check(ctx, opts, v)
}

func checkCollectionSize(opts Opts, size int) ([]FieldError, bool) {
	limit, set := opts.Config.collectionLimit()
	if set && size > limit {
		return []FieldError{tooLargeError(size, limit)}, true
	}
	return nil, false
}

// mergeChecks folds several checks over the same value, accumulating.
func mergeChecks(checks []valueCheck) valueCheck {
	switch len(checks) {
	case 0:
		return valueCheck{}
	case 1:
		return checks[0]
	}
	return valueCheck{
		sync: func(opts Opts, v reflect.Value) []FieldError {
			acc := opts.accumulator()
			var errs []FieldError
			for _, c := range checks {
				if cErrs := c.sync(opts, v); len(cErrs) > 0 {
					errs = acc(errs, cErrs)
				}
			}
			return errs
		},
		async: func(ctx context.Context, opts Opts, v reflect.Value) []FieldError {
			results := fanOut(ctx, len(checks), func(ctx context.Context, i int) []FieldError {
				return checks[i].async(ctx, opts, v)
			})
			acc := opts.accumulator()
			var errs []FieldError
			for _, cErrs := range results {
				if len(cErrs) > 0 {
					errs = acc(errs, cErrs)
				}
			}
			return errs
		},
	}
}

func sortedMapKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return renderValue(keys[i].Interface()) < renderValue(keys[j].Interface())
	})
	return keys
}

func planError(err error) FieldError {
	return FieldError{
		Message:  fmt.Sprintf("cannot derive validation plan: %v", err),
		Code:     CodePlan,
		Severity: SeverityError,
	}
}

// errorFieldName picks the name a field carries in error paths: the json
// tag name when present, the Go field name otherwise.
func errorFieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup(JSONNameTag); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}
