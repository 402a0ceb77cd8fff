package valar

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Base error types for tag parsing errors
var (
	ErrMalformedRuleRef  = errors.New("malformed rule reference in validate tag")
	ErrDuplicateModifier = errors.New("duplicate modifier in validate tag")
)

// This file contains the validate-tag decoder. The tag attaches named rules
// and traversal modifiers to a struct field; the plan builder (plan.go)
// resolves the rule names against a Registry when the field's validation
// plan is derived.
//
// Tag grammar:
//     <field> <type> `validate:"<item_list>"`
//
// item_list:
//     [<item>]^*            // Delimited with ","
// item:
//     <modifier> | <rule_ref>
// modifier:
//     optional | dive
// rule_ref:
//     <rule_name> | <rule_name>(<rule_arg>)
// rule_name:
//     <string>              // resolved against the Registry's named rules
// rule_arg:
//     <string>              // no commas; list-valued args use "|"
//
// Modifier semantics:
//   - optional: a nil pointer/interface field validates as absent-is-valid
//     instead of raising the null violation.
//   - dive: the rule refs apply to the elements of a slice, array, or map
//     value field rather than to the collection itself.
//
// A field with no validate tag still participates in traversal: structs
// recurse, collections recurse into their elements, and leaves resolve
// through the registry's per-type validators, falling back to pass-through.

// ruleRef is one parsed rule reference, e.g. minlen(3).
type ruleRef struct {
	Name string
	Arg  string
}

// fieldTag is the decoded form of one field's validate tag.
type fieldTag struct {
	Rules    []ruleRef
	Optional bool
	Dive     bool
}

// decodeValidateTag parses the validate tag of a struct field. A missing
// tag decodes to the zero fieldTag.
func decodeValidateTag(field reflect.StructField) (fieldTag, error) {
	raw, ok := field.Tag.Lookup(ValidateTag)
	if !ok {
		return fieldTag{}, nil
	}

	var ft fieldTag
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		switch item {
		case OptionalTagModifier:
			if ft.Optional {
				return fieldTag{}, fmt.Errorf("%w: optional (field %s)", ErrDuplicateModifier, field.Name)
			}
			ft.Optional = true
			continue
		case DiveTagModifier:
			if ft.Dive {
				return fieldTag{}, fmt.Errorf("%w: dive (field %s)", ErrDuplicateModifier, field.Name)
			}
			ft.Dive = true
			continue
		}

		ref, err := decodeRuleRef(item)
		if err != nil {
			return fieldTag{}, fmt.Errorf("field %s: %w", field.Name, err)
		}
		ft.Rules = append(ft.Rules, ref)
	}

	return ft, nil
}

// decodeRuleRef splits a single item into rule name and optional argument.
// Example: "minlen(3)" -> {Name: "minlen", Arg: "3"}
func decodeRuleRef(item string) (ruleRef, error) {
	open := strings.IndexByte(item, '(')
	if open < 0 {
		if strings.ContainsAny(item, ")") {
			return ruleRef{}, fmt.Errorf("%w: %q", ErrMalformedRuleRef, item)
		}
		return ruleRef{Name: item}, nil
	}

	if !strings.HasSuffix(item, ")") || open == 0 {
		return ruleRef{}, fmt.Errorf("%w: %q", ErrMalformedRuleRef, item)
	}

	return ruleRef{
		Name: item[:open],
		Arg:  item[open+1 : len(item)-1],
	}, nil
}

// resolveRules turns parsed rule refs into ready validators via the
// registry. Resolution failures surface at plan-build time.
func resolveRules(reg *Registry, refs []ruleRef) ([]Validator[any], error) {
	if len(refs) == 0 {
		return nil, nil
	}
	out := make([]Validator[any], 0, len(refs))
	for _, ref := range refs {
		v, err := reg.rule(ref.Name, ref.Arg)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
