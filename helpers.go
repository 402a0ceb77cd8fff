package valar

import (
	"fmt"
	"reflect"
	"strconv"
)

///////////////////////////////////////////////////////////////////////////////
// Helpers
///////////////////////////////////////////////////////////////////////////////

// annotate decorates a single error with the enclosing field's name and
// declared type: the message gains the "Invalid field" prefix and the field
// path gains the field's segment at the front.
func annotate(err FieldError, field, typeName string) FieldError {
	err.Message = fmt.Sprintf("Invalid field: %s, field type: %s: %s", field, typeName, err.Message)
	return err.AtPath(field)
}

func annotateAll(errs []FieldError, field, typeName string) []FieldError {
	out := make([]FieldError, len(errs))
	for i, e := range errs {
		out[i] = annotate(e, field, typeName)
	}
	return out
}

// prefixAll prepends a path segment without touching messages. Used for
// collection indices and map keys, where the message annotation would just
// repeat the segment.
func prefixAll(errs []FieldError, segment string) []FieldError {
	out := make([]FieldError, len(errs))
	for i, e := range errs {
		out[i] = e.AtPath(segment)
	}
	return out
}

// renderValue produces the diagnostic rendering used for the Actual field
// of synthetic errors. Strings are quoted so that empty and whitespace
// values stay visible.
func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// displayTypeName renders a type without its package qualifier, the form
// used in field annotations: "string", "Address", "*User", "[]int".
func displayTypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + displayTypeName(t.Elem())
	case reflect.Slice:
		return "[]" + displayTypeName(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), displayTypeName(t.Elem()))
	case reflect.Map:
		return fmt.Sprintf("map[%s]%s", displayTypeName(t.Key()), displayTypeName(t.Elem()))
	default:
		if name := t.Name(); name != "" {
			return name
		}
		return t.String()
	}
}

// typeNameOf renders the declared type of a value for error annotations.
func typeNameOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// isAbsent reports whether a field value counts as null/missing. Only
// pointer and interface fields can be absent; nil maps and slices behave
// as empty collections, not as missing values.
func isAbsent(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// indexSegment renders a collection index as a field-path segment.
func indexSegment(i int) string {
	return strconv.Itoa(i)
}
