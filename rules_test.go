package valar

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRules(t *testing.T) {
	t.Run("nonempty", func(t *testing.T) {
		v := NonEmptyString()

		assert.True(t, v("x").IsValid())
		assert.True(t, v("").IsInvalid())
		assert.True(t, v("   ").IsInvalid(), "whitespace only counts as empty")

		errs := v("").Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, CodeNonEmpty, errs[0].Code)
		assert.Equal(t, `""`, errs[0].Actual)
	})

	t.Run("length bounds", func(t *testing.T) {
		assert.True(t, MinLenString(3)("abc").IsValid())
		assert.True(t, MinLenString(3)("ab").IsInvalid())
		assert.True(t, MaxLenString(3)("abc").IsValid())
		assert.True(t, MaxLenString(3)("abcd").IsInvalid())
	})

	t.Run("regex", func(t *testing.T) {
		v := MatchRegex(regexp.MustCompile(`^[0-9]{5}$`))

		assert.True(t, v("12345").IsValid())
		assert.True(t, v("abc").IsInvalid())
	})

	t.Run("uuid", func(t *testing.T) {
		assert.True(t, UUIDString()(uuid.NewString()).IsValid())
		assert.True(t, UUIDString()("not-a-uuid").IsInvalid())

		assert.True(t, NonNilUUID()(uuid.New()).IsValid())
		assert.True(t, NonNilUUID()(uuid.Nil).IsInvalid())
	})
}

func TestNumericRules(t *testing.T) {
	assert.True(t, NonNegative[int]()(0).IsValid())
	assert.True(t, NonNegative[int]()(-1).IsInvalid())
	assert.True(t, Positive[float64]()(0.5).IsValid())
	assert.True(t, Positive[float64]()(0).IsInvalid())
	assert.True(t, Min(10)(10).IsValid())
	assert.True(t, Min(10)(9).IsInvalid())
	assert.True(t, Max(10)(10).IsValid())
	assert.True(t, Max(10)(11).IsInvalid())
}

func TestInValues(t *testing.T) {
	v := InValues("admin", "member")

	assert.True(t, v("admin").IsValid())
	assert.True(t, v("root").IsInvalid())
}

func TestNamedRuleFactories(t *testing.T) {
	reg := NewRegistry(RegistryOpts{IncludeDefaults: true})

	t.Run("numeric rules accept any numeric kind", func(t *testing.T) {
		v, err := reg.rule(RuleMin, "3")
		require.NoError(t, err)

		assert.True(t, v(int(5)).IsValid())
		assert.True(t, v(int8(2)).IsInvalid())
		assert.True(t, v(uint16(3)).IsValid())
		assert.True(t, v(2.5).IsInvalid())
	})

	t.Run("numeric rules reject non-numeric values", func(t *testing.T) {
		v, err := reg.rule(RuleNonNeg, "")
		require.NoError(t, err)

		errs := v("nope").Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, CodeType, errs[0].Code)
	})

	t.Run("missing argument fails at construction", func(t *testing.T) {
		_, err := reg.rule(RuleMinLen, "")
		assert.ErrorIs(t, err, ErrRuleArgRequired)
	})

	t.Run("malformed argument fails at construction", func(t *testing.T) {
		_, err := reg.rule(RuleMinLen, "many")
		assert.ErrorIs(t, err, ErrBadRuleArg)

		_, err = reg.rule(RuleRegex, "([")
		assert.ErrorIs(t, err, ErrBadRuleArg)
	})

	t.Run("oneof splits its argument on the pipe", func(t *testing.T) {
		v, err := reg.rule(RuleOneOf, "a|b")
		require.NoError(t, err)

		assert.True(t, v("a").IsValid())
		assert.True(t, v("c").IsInvalid())
	})
}
