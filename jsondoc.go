package valar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

///////////////////////////////////////////////////////////////////////////////
// JSON document validation
///////////////////////////////////////////////////////////////////////////////

var (
	ErrSchemaFieldPathEmpty = errors.New("document schema field has an empty path")
	ErrUnknownFieldType     = errors.New("unknown field type in document schema")
	ErrNotJSON              = errors.New("document is not valid JSON")
)

// JSON value types a DocField may require.
const (
	DocString = "string"
	DocNumber = "number"
	DocBool   = "bool"
	DocObject = "object"
	DocArray  = "array"
)

// DocField describes one field of a JSON document schema.
type DocField struct {
	// Path is the field's location, relative to its parent, in gjson
	// path syntax (dots for nesting).
	Path string
	// Type optionally constrains the JSON value type (DocString,
	// DocNumber, DocBool, DocObject, DocArray). Empty accepts any type.
	Type string
	// Required fields raise the null violation when absent. Absent
	// optional fields validate as valid and skip their rules.
	Required bool
	// Rules are named rule references, e.g. "nonempty" or "minlen(3)",
	// resolved against the registry when the schema is built.
	Rules []string
	// Fields are nested object fields, validated inside this field's
	// value.
	Fields []DocField
}

// DocSchema validates raw JSON documents without decoding them into
// structs: each declared field is extracted by path, checked for presence
// and type, and run through its named rules. Errors carry the JSON path as
// their field path. Rule references resolve once, when the schema is
// built, so an unknown rule fails construction rather than validation.
type DocSchema struct {
	Name   string
	fields []docFieldPlan
}

type docFieldPlan struct {
	path     string
	segments []string
	typ      string
	required bool
	checks   []Validator[any]
	fields   []docFieldPlan
}

// NewDocSchema compiles a document schema, resolving every rule reference
// against reg.
func NewDocSchema(name string, reg *Registry, fields []DocField) (*DocSchema, error) {
	plans, err := compileDocFields(reg, fields)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	return &DocSchema{Name: name, fields: plans}, nil
}

func compileDocFields(reg *Registry, fields []DocField) ([]docFieldPlan, error) {
	plans := make([]docFieldPlan, 0, len(fields))
	for _, f := range fields {
		if f.Path == "" {
			return nil, ErrSchemaFieldPathEmpty
		}
		switch f.Type {
		case "", DocString, DocNumber, DocBool, DocObject, DocArray:
		default:
			return nil, fmt.Errorf("%w: %s (field %s)", ErrUnknownFieldType, f.Type, f.Path)
		}

		var checks []Validator[any]
		for _, raw := range f.Rules {
			ref, err := decodeRuleRef(raw)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Path, err)
			}
			check, err := reg.rule(ref.Name, ref.Arg)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Path, err)
			}
			checks = append(checks, check)
		}

		nested, err := compileDocFields(reg, f.Fields)
		if err != nil {
			return nil, err
		}

		plans = append(plans, docFieldPlan{
			path:     f.Path,
			segments: strings.Split(f.Path, "."),
			typ:      f.Type,
			required: f.Required,
			checks:   checks,
			fields:   nested,
		})
	}
	return plans, nil
}

// Validate checks doc against the schema. On success the original document
// bytes are returned unchanged; on failure every field's errors are
// reported in one pass, accumulated in declared field order.
func (s *DocSchema) Validate(doc []byte, opts Opts) Result[[]byte] {
	start := time.Now()

	if !gjson.ValidBytes(doc) {
		errs := []FieldError{{
			Message:  ErrNotJSON.Error(),
			Severity: SeverityError,
			Expected: "JSON document",
		}}
		opts.observe(start, false, errs)
		return Invalid[[]byte](errs...)
	}

	root := gjson.ParseBytes(doc)
	acc := opts.accumulator()
	var errs []FieldError
	for _, f := range s.fields {
		if fieldErrs := f.validate(root, opts); len(fieldErrs) > 0 {
			errs = acc(errs, fieldErrs)
		}
	}

	opts.observe(start, len(errs) == 0, errs)
	if len(errs) > 0 {
		return Invalid[[]byte](errs...)
	}
	return Valid(doc)
}

func (f docFieldPlan) validate(parent gjson.Result, opts Opts) []FieldError {
	result := parent.Get(f.path)
	if !result.Exists() {
		if f.required {
			return withDocPath([]FieldError{requiredError(f.segments[len(f.segments)-1])}, f.segments[:len(f.segments)-1])
		}
		return nil
	}

	if err, ok := f.checkType(result); !ok {
		return withDocPath([]FieldError{err}, f.segments)
	}

	acc := opts.accumulator()
	var errs []FieldError
	for _, check := range f.checks {
		if r := check(result.Value()); r.IsInvalid() {
			errs = acc(errs, r.errors)
		}
	}

	if result.IsArray() {
		if sizeErrs, stop := checkCollectionSize(opts, len(result.Array())); stop {
			errs = acc(errs, sizeErrs)
		}
	}

	for _, nested := range f.fields {
		if nestedErrs := nested.validate(result, opts); len(nestedErrs) > 0 {
			errs = acc(errs, nestedErrs)
		}
	}

	return withDocPath(errs, f.segments)
}

// checkType verifies the declared JSON value type.
func (f docFieldPlan) checkType(result gjson.Result) (FieldError, bool) {
	ok := true
	switch f.typ {
	case DocString:
		ok = result.Type == gjson.String
	case DocNumber:
		ok = result.Type == gjson.Number
	case DocBool:
		ok = result.Type == gjson.True || result.Type == gjson.False
	case DocObject:
		ok = result.IsObject()
	case DocArray:
		ok = result.IsArray()
	}
	if ok {
		return FieldError{}, true
	}
	return FieldError{
		Message:  fmt.Sprintf("must be a %s", f.typ),
		Code:     CodeType,
		Severity: SeverityError,
		Expected: f.typ,
		Actual:   result.Raw,
	}, false
}

func withDocPath(errs []FieldError, segments []string) []FieldError {
	out := errs
	for i := len(segments) - 1; i >= 0; i-- {
		out = prefixAll(out, segments[i])
	}
	return out
}
