package valar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPass(t *testing.T) {
	r := Pass[string]()("anything")
	assert.True(t, r.IsValid())
}

func TestAll(t *testing.T) {
	t.Run("every component must hold", func(t *testing.T) {
		v := All(NonEmptyString(), MaxLenString(5))

		assert.True(t, v("ok").IsValid())
	})

	t.Run("accumulates every failing component in order", func(t *testing.T) {
		failA := func(s string) Result[string] { return Invalid[string](errNamed("a")) }
		failB := func(s string) Result[string] { return Invalid[string](errNamed("b")) }

		r := All(failA, Pass[string](), failB)("x")

		errs := r.Errors()
		require.Len(t, errs, 2)
		assert.Equal(t, "a", errs[0].Message)
		assert.Equal(t, "b", errs[1].Message)
	})

	t.Run("custom strategy controls merge order", func(t *testing.T) {
		failA := func(s string) Result[string] { return Invalid[string](errNamed("a")) }
		failB := func(s string) Result[string] { return Invalid[string](errNamed("b")) }

		r := AllWith(ConcatReversed, failA, failB)("x")

		errs := r.Errors()
		require.Len(t, errs, 2)
		assert.Equal(t, "b", errs[0].Message)
	})
}

func TestAllAsync(t *testing.T) {
	failA := func(ctx context.Context, s string) Result[string] { return Invalid[string](errNamed("a")) }
	failB := func(ctx context.Context, s string) Result[string] { return Invalid[string](errNamed("b")) }

	r := AllAsync(failA, Async(Pass[string]()), failB)(context.Background(), "x")

	errs := r.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "a", errs[0].Message)
	assert.Equal(t, "b", errs[1].Message)
}

func TestOptional(t *testing.T) {
	v := Optional(NonEmptyString())

	t.Run("nil is valid", func(t *testing.T) {
		assert.True(t, v(nil).IsValid())
	})

	t.Run("present value validates", func(t *testing.T) {
		empty := ""
		assert.True(t, v(&empty).IsInvalid())

		name := "ada"
		assert.True(t, v(&name).IsValid())
	})
}

func TestOptionalAsync(t *testing.T) {
	v := OptionalAsync(Async(NonEmptyString()))
	ctx := context.Background()

	assert.True(t, v(ctx, nil).IsValid())

	empty := ""
	assert.True(t, v(ctx, &empty).IsInvalid())
}

func TestNamed(t *testing.T) {
	v := Named("age", "int", NonNegative[int]())

	r := v(-1)

	errs := r.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "Invalid field: age, field type: int: must not be negative", errs[0].Message)
	assert.Equal(t, []string{"age"}, errs[0].FieldPath)

	assert.True(t, v(1).IsValid())
}

func TestAsyncLift(t *testing.T) {
	v := Async(NonEmptyString())

	r := v(context.Background(), "")
	assert.True(t, r.IsInvalid())
}
