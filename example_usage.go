package valar

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Example structs exercising tag rules, nesting, and collections.
type CreateUserRequest struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name" validate:"nonempty,maxlen(64)"`
	Email  string    `json:"email" validate:"regex(^[^@]+@[^@]+$)"`
	Age    int       `json:"age" validate:"nonneg"`
	Role   string    `json:"role" validate:"oneof(admin|member|viewer)"`
	Bio    *string   `json:"bio" validate:"optional,maxlen(280)"`
	Tags   []string  `json:"tags" validate:"dive,nonempty"`
	Office *Address  `json:"office"`
}

type Address struct {
	Street string `json:"street" validate:"nonempty"`
	Zip    string `json:"zip" validate:"regex(^[0-9]{5}$)"`
}

func ExampleUsage() {
	// Example 1: tag-driven struct validation. Every invalid field is
	// reported in one pass, each error annotated with its path. The ID
	// field has no tag; its check comes from the per-type registration.
	fmt.Println("=== Example 1: Struct Validation ===")

	reg := NewRegistry(RegistryOpts{IncludeDefaults: true})
	Register(reg, NonNilUUID())

	bad := CreateUserRequest{
		ID: uuid.Nil,
		Name:  "",
		Email: "not-an-email",
		Age:   -3,
		Role:  "root",
		Tags:  []string{"go", ""},
		Office: &Address{
			Street: "Main St 1",
			Zip:    "abc",
		},
	}

	res := ValidateStruct(bad, Opts{Registry: reg})
	if res.IsInvalid() {
		for _, fe := range res.Errors() {
			fmt.Printf("- %v: %s\n", fe.FieldPath, fe.Message)
		}
	}

	// Example 2: composing validators directly. Zip accumulates both
	// sides; FlatMap short-circuits on the first failure.
	fmt.Println("\n=== Example 2: Combinators ===")

	checkName := Named("name", "string", NonEmptyString())
	checkAge := Named("age", "int", NonNegative[int]())

	pair := Zip(checkName(""), checkAge(-10))
	fmt.Printf("accumulated errors: %d\n", len(pair.Errors()))

	// Example 3: union of alternatives. The first alternative that
	// accepts the value wins; exhaustion reports every rejection.
	fmt.Println("\n=== Example 3: Unions ===")

	stringOrInt := OneOf("string_or_int",
		AltOf("string", NonEmptyString()),
		AltOf("int", NonNegative[int]()),
	)
	if r := stringOrInt(true); r.IsInvalid() {
		fmt.Println(Errors(r.Errors()).PrettyPrint())
	}

	// Example 4: async validation with the same semantics. Field checks
	// run concurrently but errors arrive in declaration order.
	fmt.Println("\n=== Example 4: Async ===")

	asyncRes := ValidateStructAsync(context.Background(), bad, Opts{Registry: reg})
	fmt.Printf("sync and async agree: %t\n",
		len(asyncRes.Errors()) == len(res.Errors()))

	// Example 5: validating a raw JSON document against a schema,
	// without decoding into a struct.
	fmt.Println("\n=== Example 5: JSON Documents ===")

	schema, err := NewDocSchema("user", DefaultRegistry(), []DocField{
		{Path: "name", Type: DocString, Required: true, Rules: []string{"nonempty"}},
		{Path: "age", Type: DocNumber, Rules: []string{"nonneg"}},
	})
	if err != nil {
		fmt.Printf("schema error: %v\n", err)
		return
	}
	doc := []byte(`{"age": -1}`)
	if r := schema.Validate(doc, Opts{}); r.IsInvalid() {
		for _, fe := range r.Errors() {
			fmt.Printf("- %v: %s\n", fe.FieldPath, fe.Message)
		}
	}
}
