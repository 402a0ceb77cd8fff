package valar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSlice(t *testing.T) {
	t.Run("valid slice returns the original", func(t *testing.T) {
		xs := []string{"a", "b"}

		r := ValidateSlice(xs, NonEmptyString(), Opts{})

		v, ok := r.Get()
		require.True(t, ok)
		assert.Equal(t, xs, v)
	})

	t.Run("element errors are index prefixed and accumulated", func(t *testing.T) {
		r := ValidateSlice([]string{"a", "", "c", ""}, NonEmptyString(), Opts{})

		errs := r.Errors()
		require.Len(t, errs, 2)
		assert.Equal(t, []string{"1"}, errs[0].FieldPath)
		assert.Equal(t, []string{"3"}, errs[1].FieldPath)
	})

	t.Run("empty slice is valid", func(t *testing.T) {
		r := ValidateSlice(nil, NonEmptyString(), Opts{})
		assert.True(t, r.IsValid())
	})
}

func TestValidateSliceSizeLimit(t *testing.T) {
	limited := Opts{Config: Config{MaxCollectionSize: 3}}

	t.Run("slice at the limit validates every element", func(t *testing.T) {
		calls := 0
		counting := func(s string) Result[string] {
			calls++
			return Valid(s)
		}

		r := ValidateSlice([]string{"a", "b", "c"}, counting, limited)

		assert.True(t, r.IsValid())
		assert.Equal(t, 3, calls)
	})

	t.Run("slice over the limit short-circuits before any element runs", func(t *testing.T) {
		calls := 0
		counting := func(s string) Result[string] {
			calls++
			return Valid(s)
		}

		r := ValidateSlice([]string{"a", "b", "c", "d"}, counting, limited)

		errs := Errors(r.Errors())
		require.Len(t, errs, 1)
		assert.True(t, errs.HasCode(CodeCollectionTooLarge))
		assert.Equal(t, 0, calls)
	})

	t.Run("zero config means no limit", func(t *testing.T) {
		xs := make([]string, 100)
		for i := range xs {
			xs[i] = "x"
		}

		r := ValidateSlice(xs, NonEmptyString(), Opts{})
		assert.True(t, r.IsValid())
	})
}

func TestValidateMap(t *testing.T) {
	t.Run("keys and values validate independently per entry", func(t *testing.T) {
		m := map[string]int{
			"":     -1,
			"also": -2,
			"bad":  -5,
			"ok":   2,
		}

		r := ValidateMap(m, NonEmptyString(), NonNegative[int](), Opts{})

		errs := r.Errors()
		require.Len(t, errs, 4)

		// Entries are visited in sorted rendered-key order; the empty key
		// contributes both a key error and a value error.
		assert.Equal(t, []string{`""`, "key"}, errs[0].FieldPath)
		assert.Equal(t, "Invalid field: key, field type: string: must not be empty", errs[0].Message)

		assert.Equal(t, []string{`""`, "value"}, errs[1].FieldPath)
		assert.Equal(t, "Invalid field: value, field type: int: must not be negative", errs[1].Message)

		assert.Equal(t, []string{`"also"`, "value"}, errs[2].FieldPath)
		assert.Equal(t, []string{`"bad"`, "value"}, errs[3].FieldPath)
	})

	t.Run("valid map returns the original", func(t *testing.T) {
		m := map[string]int{"a": 1}

		r := ValidateMap(m, NonEmptyString(), NonNegative[int](), Opts{})

		v, ok := r.Get()
		require.True(t, ok)
		assert.Equal(t, m, v)
	})

	t.Run("entry count obeys the collection limit", func(t *testing.T) {
		m := map[string]int{"a": 1, "b": 2, "c": 3}
		limited := Opts{Config: Config{MaxCollectionSize: 2}}

		r := ValidateMap(m, NonEmptyString(), NonNegative[int](), limited)

		errs := Errors(r.Errors())
		require.Len(t, errs, 1)
		assert.True(t, errs.HasCode(CodeCollectionTooLarge))
	})
}

func TestValidateMapAsync(t *testing.T) {
	m := map[string]int{"": -1, "ok": 2}

	sync := ValidateMap(m, NonEmptyString(), NonNegative[int](), Opts{})
	async := ValidateMapAsync(context.Background(), m,
		Async(NonEmptyString()), Async(NonNegative[int]()), Opts{})

	assert.Equal(t, sync.Errors(), async.Errors())
}

func TestValidateTuple(t *testing.T) {
	t.Run("every position checked, labels annotate errors", func(t *testing.T) {
		r := ValidateTuple(Opts{},
			TupleElem{Label: "name", Value: "", Check: eraseValidator(NonEmptyString())},
			TupleElem{Label: "age", Value: -1, Check: eraseValidator(NonNegative[int]())},
			TupleElem{Label: "note", Value: "fine", Check: eraseValidator(NonEmptyString())},
		)

		errs := r.Errors()
		require.Len(t, errs, 2)
		assert.Equal(t, []string{"name"}, errs[0].FieldPath)
		assert.Equal(t, "Invalid field: name, field type: string: must not be empty", errs[0].Message)
		assert.Equal(t, []string{"age"}, errs[1].FieldPath)
	})

	t.Run("unlabeled positions use the index", func(t *testing.T) {
		r := ValidateTuple(Opts{},
			TupleElem{Value: "ok", Check: eraseValidator(NonEmptyString())},
			TupleElem{Value: "", Check: eraseValidator(NonEmptyString())},
		)

		errs := r.Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"1"}, errs[0].FieldPath)
	})

	t.Run("valid tuple yields the values in order", func(t *testing.T) {
		r := ValidateTuple(Opts{},
			TupleElem{Label: "name", Value: "ada", Check: eraseValidator(NonEmptyString())},
			TupleElem{Label: "age", Value: 36},
		)

		v, ok := r.Get()
		require.True(t, ok)
		assert.Equal(t, []any{"ada", 36}, v)
	})
}

func TestValidateTupleAsync(t *testing.T) {
	elems := []TupleElem{
		{Label: "name", Value: "", Check: eraseValidator(NonEmptyString())},
		{Label: "age", Value: -1, Check: eraseValidator(NonNegative[int]())},
	}

	sync := ValidateTuple(Opts{}, elems...)
	async := ValidateTupleAsync(context.Background(), Opts{}, elems...)

	assert.Equal(t, sync.Errors(), async.Errors())
}

func TestStructCollectionFields(t *testing.T) {
	type team struct {
		Members []testPerson          `json:"members"`
		Scores  map[string]int        `json:"scores" validate:"dive,nonneg"`
		Rooms   map[string]testPerson `json:"rooms"`
	}

	t.Run("struct elements recurse with index paths", func(t *testing.T) {
		r := ValidateStruct(team{
			Members: []testPerson{{Name: "ada"}, {Name: ""}},
		}, Opts{})

		errs := Errors(r.Errors())
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"members", "1", "name"}, errs[0].FieldPath)
	})

	t.Run("dive rules reach map values", func(t *testing.T) {
		r := ValidateStruct(team{
			Scores: map[string]int{"a": 1, "b": -2},
		}, Opts{})

		errs := Errors(r.Errors())
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"scores", `"b"`, "value"}, errs[0].FieldPath)
	})

	t.Run("struct map values recurse", func(t *testing.T) {
		r := ValidateStruct(team{
			Rooms: map[string]testPerson{"101": {Name: ""}},
		}, Opts{})

		errs := Errors(r.Errors())
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"rooms", `"101"`, "value", "name"}, errs[0].FieldPath)
	})

	t.Run("field-level size limit applies inside structs", func(t *testing.T) {
		r := ValidateStruct(team{
			Members: []testPerson{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		}, Opts{Config: Config{MaxCollectionSize: 2}})

		errs := Errors(r.Errors())
		require.Len(t, errs, 1)
		assert.True(t, errs.HasCode(CodeCollectionTooLarge))
	})
}
