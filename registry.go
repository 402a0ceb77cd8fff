package valar

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

var (
	ErrRuleAlreadyRegistered = errors.New("a rule with this name is already registered")
	ErrRuleNotFound          = errors.New("no registered rule found with this name")
)

///////////////////////////////////////////////////////////////////////////////
// Registry
///////////////////////////////////////////////////////////////////////////////

// RuleFactory builds a validator from the argument text of a named rule
// reference such as minlen(3). Rules that take no argument receive the
// empty string. Factories run once, when a plan or schema is built, so an
// unknown or malformed argument fails construction rather than validation.
type RuleFactory func(arg string) (Validator[any], error)

// Registry resolves validation capabilities by type identity and by rule
// name. The structural traversal receives a registry explicitly with every
// call; there is no hidden resolution order.
//
// Per-type validators are stored type-erased. Register and RegisterAsync
// wrap a typed validator so that the dynamic type is checked at the
// boundary; a mismatch surfaces as an Invalid result, never as an unchecked
// reinterpretation.
//
// The registry also owns the cache of derived per-struct validation plans
// (see plan.go). Plans snapshot the registry contents at build time;
// registering validators after a type has been validated requires
// ClearPlans for the new registrations to take effect on that type.
type Registry struct {
	mu         sync.RWMutex
	validators map[reflect.Type]Validator[any]
	async      map[reflect.Type]AsyncValidator[any]
	rules      map[string]RuleFactory
	plans      sync.Map // reflect.Type -> *ValidationPlan
}

type RegistryOpts struct {
	// IncludeDefaults registers the built-in named rules (nonempty,
	// minlen, nonneg, uuid, ...) so tag references and document schemas
	// resolve out of the box.
	IncludeDefaults bool
}

func NewRegistry(opts RegistryOpts) *Registry {
	r := &Registry{
		validators: make(map[reflect.Type]Validator[any]),
		async:      make(map[reflect.Type]AsyncValidator[any]),
		rules:      make(map[string]RuleFactory),
	}

	if opts.IncludeDefaults {
		for name, factory := range builtinRules() {
			// Built-in names are distinct; registration cannot fail here.
			_ = r.RegisterRule(name, factory)
		}
	}

	return r
}

// Register stores v as the validator resolved for values of type A.
// Registering a second validator for the same type replaces the first.
func Register[A any](reg *Registry, v Validator[A]) {
	t := reflect.TypeOf((*A)(nil)).Elem()
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.validators[t] = eraseValidator(v)
}

// RegisterAsync stores v as the asynchronous validator for values of type
// A. Types without an asynchronous registration fall back to the lifted
// synchronous validator during asynchronous traversal.
func RegisterAsync[A any](reg *Registry, v AsyncValidator[A]) {
	t := reflect.TypeOf((*A)(nil)).Elem()
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.async[t] = eraseAsyncValidator(v)
}

// RegisterRule registers a named rule factory for use in validate tags and
// document schemas.
func (r *Registry) RegisterRule(name string, factory RuleFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rules[name]; exists {
		return fmt.Errorf("%w: %s", ErrRuleAlreadyRegistered, name)
	}
	r.rules[name] = factory
	return nil
}

// For returns the validator registered for type A, typed back from its
// erased form, and whether one exists.
func For[A any](reg *Registry) (Validator[A], bool) {
	t := reflect.TypeOf((*A)(nil)).Elem()
	u, ok := reg.lookup(t)
	if !ok {
		return nil, false
	}
	return func(value A) Result[A] {
		r := u(value)
		if !r.valid {
			return Invalid[A](r.errors...)
		}
		if transformed, ok := r.value.(A); ok {
			return Valid(transformed)
		}
		return Valid(value)
	}, true
}

// ClearPlans drops every cached validation plan. Call after registering
// validators for types that have already been validated.
func (r *Registry) ClearPlans() {
	r.plans.Clear()
}

func (r *Registry) lookup(t reflect.Type) (Validator[any], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[t]
	return v, ok
}

func (r *Registry) lookupAsync(t reflect.Type) (AsyncValidator[any], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.async[t]
	return v, ok
}

// rule resolves a named rule reference to a ready validator.
func (r *Registry) rule(name, arg string) (Validator[any], error) {
	r.mu.RLock()
	factory, ok := r.rules[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, name)
	}
	return factory(arg)
}

///////////////////////////////////////////////////////////////////////////////
// Type erasure
///////////////////////////////////////////////////////////////////////////////

func eraseValidator[A any](v Validator[A]) Validator[any] {
	return func(value any) Result[any] {
		a, ok := value.(A)
		if !ok {
			return Invalid[any](typeMismatchError[A](value))
		}
		return Map(v(a), func(x A) any { return x })
	}
}

func eraseAsyncValidator[A any](v AsyncValidator[A]) AsyncValidator[any] {
	return func(ctx context.Context, value any) Result[any] {
		a, ok := value.(A)
		if !ok {
			return Invalid[any](typeMismatchError[A](value))
		}
		return Map(v(ctx, a), func(x A) any { return x })
	}
}

func typeMismatchError[A any](value any) FieldError {
	expected := reflect.TypeOf((*A)(nil)).Elem()
	return FieldError{
		Message:  fmt.Sprintf("expected value of type %s, got %s", typeNameOf(expected), typeNameOf(reflect.TypeOf(value))),
		Severity: SeverityError,
		Expected: typeNameOf(expected),
		Actual:   renderValue(value),
	}
}

///////////////////////////////////////////////////////////////////////////////
// Default registry and package functions
///////////////////////////////////////////////////////////////////////////////

var _defaultRegistry *Registry

func init() {
	_defaultRegistry = NewRegistry(RegistryOpts{IncludeDefaults: true})
}

// DefaultRegistry returns the process-wide registry used when Opts carries
// none. It ships with the built-in named rules preregistered.
func DefaultRegistry() *Registry {
	return _defaultRegistry
}

// RegisterRule registers a named rule with the default registry.
func RegisterRule(name string, factory RuleFactory) error {
	return _defaultRegistry.RegisterRule(name, factory)
}
