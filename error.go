package valar

import (
	"fmt"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

// Reserved machine codes attached to errors that the traversal itself
// synthesizes. Callers can filter on these programmatically (for example
// to treat an over-limit collection as a resource-exhaustion signal).
const (
	CodeRequired           = "valar.required"
	CodeCollectionTooLarge = "valar.collection_too_large"
	CodeUnionExhausted     = "valar.union_exhausted"
	CodeEmptyErrors        = "valar.empty_errors"
	CodePlan               = "valar.plan"
)

// Severity markers used by the built-in rules. The field is free-form;
// custom validators may use their own markers.
const (
	SeverityError   = "Error"
	SeverityWarning = "Warning"
)

// FieldError is a single validation failure. It is treated as immutable:
// every decoration (path prefixes, message annotations, translation)
// returns a new value and leaves the original untouched.
//
// FieldPath is empty at the leaf where the error originated; each enclosing
// traversal level prepends its own field name, so a fully derived path reads
// root-to-leaf.
//
// Children holds nested errors that belong to this error's context (for
// example one child per attempted alternative of a failed union). Children
// are never folded into Message; PrettyPrint renders them indented for
// humans while structured consumers read them directly.
type FieldError struct {
	Message   string
	FieldPath []string
	Code      string
	Severity  string
	Expected  string
	Actual    string
	Children  []FieldError
}

// Error implements the error interface.
func (e FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Message
	}
	return strings.Join(e.FieldPath, ".") + ": " + e.Message
}

// Is reports whether target matches this error by code and path, so callers
// can use errors.Is against sentinel-style FieldError values.
func (e FieldError) Is(target error) bool {
	t, ok := target.(FieldError)
	if !ok {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	if len(t.FieldPath) > 0 && strings.Join(t.FieldPath, ".") != strings.Join(e.FieldPath, ".") {
		return false
	}
	return t.Code != "" || len(t.FieldPath) > 0
}

// AtPath returns a copy of the error with segment prepended to its field
// path. Children keep their own paths; they are relative to this error.
func (e FieldError) AtPath(segment string) FieldError {
	path := make([]string, 0, len(e.FieldPath)+1)
	path = append(path, segment)
	path = append(path, e.FieldPath...)
	e.FieldPath = path
	return e
}

// WithMessage returns a copy of the error with the message replaced.
// Everything else, including children, is preserved.
func (e FieldError) WithMessage(message string) FieldError {
	e.Message = message
	return e
}

// PrettyPrint renders the error and its children as an indented tree.
func (e FieldError) PrettyPrint() string {
	var sb strings.Builder
	e.prettyPrint(&sb, 0)
	return sb.String()
}

func (e FieldError) prettyPrint(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if len(e.FieldPath) > 0 {
		sb.WriteString(strings.Join(e.FieldPath, "."))
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	for _, child := range e.Children {
		sb.WriteString("\n")
		child.prettyPrint(sb, depth+1)
	}
}

///////////////////////////////////////////////////////////////////////////////
// Error collection
///////////////////////////////////////////////////////////////////////////////

// Errors is an ordered collection of field errors. It implements the error
// interface so an Invalid result can cross API boundaries as a plain error.
type Errors []FieldError

// Error implements the error interface.
func (es Errors) Error() string {
	if len(es) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Codes returns the distinct machine codes present in the collection,
// in first-seen order.
func (es Errors) Codes() []string {
	var codes []string
	seen := make(map[string]bool)
	for _, e := range es {
		if e.Code != "" && !seen[e.Code] {
			codes = append(codes, e.Code)
			seen[e.Code] = true
		}
	}
	return codes
}

// HasCode reports whether any error in the collection carries code.
func (es Errors) HasCode(code string) bool {
	for _, e := range es {
		if e.Code == code {
			return true
		}
	}
	return false
}

// At returns the errors whose field path starts with the given segments.
func (es Errors) At(segments ...string) Errors {
	var out Errors
	for _, e := range es {
		if pathHasPrefix(e.FieldPath, segments) {
			out = append(out, e)
		}
	}
	return out
}

// PrettyPrint renders every error in the collection, one tree per line.
func (es Errors) PrettyPrint() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.PrettyPrint())
	}
	return strings.Join(parts, "\n")
}

func pathHasPrefix(path, prefix []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i, seg := range prefix {
		if path[i] != seg {
			return false
		}
	}
	return true
}

///////////////////////////////////////////////////////////////////////////////
// Synthetic errors raised by the traversal itself
///////////////////////////////////////////////////////////////////////////////

// requiredError is synthesized when a required field is absent. The field's
// validator is never invoked on an absent value.
func requiredError(field string) FieldError {
	return FieldError{
		Message:   fmt.Sprintf("Field '%s' must not be null.", field),
		FieldPath: []string{field},
		Code:      CodeRequired,
		Severity:  SeverityError,
	}
}

// tooLargeError is synthesized when a collection exceeds the configured
// maximum size. No element-level validation happens in that case.
func tooLargeError(size, limit int) FieldError {
	return FieldError{
		Message:  fmt.Sprintf("collection size %d exceeds configured maximum %d", size, limit),
		Code:     CodeCollectionTooLarge,
		Severity: SeverityError,
		Expected: fmt.Sprintf("size <= %d", limit),
		Actual:   fmt.Sprintf("%d", size),
	}
}

// emptyErrorsError substitutes for an Invalid constructed from zero errors,
// preserving the at-least-one-error invariant.
func emptyErrorsError() FieldError {
	return FieldError{
		Message:  "cannot create Invalid result from empty error collection",
		Code:     CodeEmptyErrors,
		Severity: SeverityError,
	}
}
