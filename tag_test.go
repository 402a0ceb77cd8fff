package valar

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldOf(t *testing.T, s any, name string) reflect.StructField {
	t.Helper()
	f, ok := reflect.TypeOf(s).FieldByName(name)
	require.True(t, ok)
	return f
}

func TestDecodeValidateTag(t *testing.T) {
	type tagged struct {
		Plain    string
		Simple   string   `validate:"nonempty"`
		WithArgs string   `validate:"minlen(3),maxlen(10)"`
		Mixed    *string  `validate:"optional,nonempty"`
		Deep     []string `validate:"dive,nonempty"`
		Spaced   string   `validate:" nonempty , maxlen(5) "`
	}

	t.Run("missing tag decodes to zero value", func(t *testing.T) {
		ft, err := decodeValidateTag(fieldOf(t, tagged{}, "Plain"))
		require.NoError(t, err)
		assert.Empty(t, ft.Rules)
		assert.False(t, ft.Optional)
		assert.False(t, ft.Dive)
	})

	t.Run("single rule", func(t *testing.T) {
		ft, err := decodeValidateTag(fieldOf(t, tagged{}, "Simple"))
		require.NoError(t, err)
		require.Len(t, ft.Rules, 1)
		assert.Equal(t, ruleRef{Name: "nonempty"}, ft.Rules[0])
	})

	t.Run("rules with arguments keep declaration order", func(t *testing.T) {
		ft, err := decodeValidateTag(fieldOf(t, tagged{}, "WithArgs"))
		require.NoError(t, err)
		assert.Equal(t, []ruleRef{
			{Name: "minlen", Arg: "3"},
			{Name: "maxlen", Arg: "10"},
		}, ft.Rules)
	})

	t.Run("modifiers combine with rules", func(t *testing.T) {
		ft, err := decodeValidateTag(fieldOf(t, tagged{}, "Mixed"))
		require.NoError(t, err)
		assert.True(t, ft.Optional)
		assert.Len(t, ft.Rules, 1)

		ft, err = decodeValidateTag(fieldOf(t, tagged{}, "Deep"))
		require.NoError(t, err)
		assert.True(t, ft.Dive)
	})

	t.Run("whitespace around items is ignored", func(t *testing.T) {
		ft, err := decodeValidateTag(fieldOf(t, tagged{}, "Spaced"))
		require.NoError(t, err)
		assert.Len(t, ft.Rules, 2)
	})
}

func TestDecodeValidateTagErrors(t *testing.T) {
	type dupOptional struct {
		F *string `validate:"optional,optional"`
	}
	type dupDive struct {
		F []string `validate:"dive,dive"`
	}

	_, err := decodeValidateTag(fieldOf(t, dupOptional{}, "F"))
	assert.ErrorIs(t, err, ErrDuplicateModifier)

	_, err = decodeValidateTag(fieldOf(t, dupDive{}, "F"))
	assert.ErrorIs(t, err, ErrDuplicateModifier)
}

func TestDecodeRuleRef(t *testing.T) {
	t.Run("valid forms", func(t *testing.T) {
		cases := []struct {
			in   string
			want ruleRef
		}{
			{"nonempty", ruleRef{Name: "nonempty"}},
			{"minlen(3)", ruleRef{Name: "minlen", Arg: "3"}},
			{"oneof(a|b|c)", ruleRef{Name: "oneof", Arg: "a|b|c"}},
			{"regex(^[0-9]+$)", ruleRef{Name: "regex", Arg: "^[0-9]+$"}},
		}
		for _, tc := range cases {
			ref, err := decodeRuleRef(tc.in)
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, ref, tc.in)
		}
	})

	t.Run("malformed forms", func(t *testing.T) {
		for _, in := range []string{"minlen(3", "minlen3)", "(3)"} {
			_, err := decodeRuleRef(in)
			assert.ErrorIs(t, err, ErrMalformedRuleRef, in)
		}
	})
}

func TestErrorFieldName(t *testing.T) {
	type named struct {
		Plain    string
		Tagged   string `json:"tagged_name"`
		Options  string `json:"opt_name,omitempty"`
		Dash     string `json:"-"`
		EmptyTag string `json:","`
	}

	assert.Equal(t, "Plain", errorFieldName(fieldOf(t, named{}, "Plain")))
	assert.Equal(t, "tagged_name", errorFieldName(fieldOf(t, named{}, "Tagged")))
	assert.Equal(t, "opt_name", errorFieldName(fieldOf(t, named{}, "Options")))
	assert.Equal(t, "Dash", errorFieldName(fieldOf(t, named{}, "Dash")))
	assert.Equal(t, "EmptyTag", errorFieldName(fieldOf(t, named{}, "EmptyTag")))
}
