package valar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTranslateErrors(t *testing.T) {
	upper := TranslatorFunc(func(e FieldError) string {
		return "[T] " + e.Message
	})

	t.Run("valid results pass through identically", func(t *testing.T) {
		r := TranslateErrors(Valid(42), upper)

		v, ok := r.Get()
		require.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("nil translator passes through identically", func(t *testing.T) {
		orig := Invalid[int](errNamed("bad"))
		r := TranslateErrors(orig, nil)

		assert.Equal(t, orig.Errors(), r.Errors())
	})

	t.Run("only messages change", func(t *testing.T) {
		orig := Invalid[int](FieldError{
			Message:   "must not be empty",
			FieldPath: []string{"address", "street"},
			Code:      CodeNonEmpty,
			Severity:  SeverityError,
			Expected:  "non-empty string",
			Actual:    `""`,
			Children:  []FieldError{{Message: "child"}},
		})

		r := TranslateErrors(orig, upper)

		errs := r.Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, "[T] must not be empty", errs[0].Message)

		want := orig.Errors()[0]
		assert.Equal(t, want.FieldPath, errs[0].FieldPath)
		assert.Equal(t, want.Code, errs[0].Code)
		assert.Equal(t, want.Severity, errs[0].Severity)
		assert.Equal(t, want.Expected, errs[0].Expected)
		assert.Equal(t, want.Actual, errs[0].Actual)
		assert.Equal(t, want.Children, errs[0].Children)
	})

	t.Run("input result is never modified", func(t *testing.T) {
		orig := Invalid[int](errNamed("bad"))
		_ = TranslateErrors(orig, upper)

		assert.Equal(t, "bad", orig.Errors()[0].Message)
	})
}

func TestCatalogTranslator(t *testing.T) {
	tr, err := NewCatalogTranslator(language.German, map[string]string{
		CodeNonEmpty: "darf nicht leer sein",
		CodeRequired: "darf nicht null sein",
	})
	require.NoError(t, err)

	t.Run("known codes resolve from the catalog", func(t *testing.T) {
		msg := tr.Translate(FieldError{Message: "must not be empty", Code: CodeNonEmpty})
		assert.Equal(t, "darf nicht leer sein", msg)
	})

	t.Run("unknown codes keep the original message", func(t *testing.T) {
		msg := tr.Translate(FieldError{Message: "original", Code: "validation.unknown_code"})
		assert.Equal(t, "original", msg)
	})

	t.Run("errors without a code keep the original message", func(t *testing.T) {
		msg := tr.Translate(FieldError{Message: "original"})
		assert.Equal(t, "original", msg)
	})

	t.Run("translates a full result", func(t *testing.T) {
		r := TranslateErrors(ValidateStruct(testUser{Name: "ada", Age: -1}, Opts{}), tr)

		errs := r.Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, []string{"age"}, errs[0].FieldPath)
	})
}
