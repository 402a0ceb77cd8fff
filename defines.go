package valar

// constants for struct tags read during plan building
const (
	ValidateTag = "validate"
	JSONNameTag = "json"
)

// constants for validate-tag modifiers
const (
	OptionalTagModifier = "optional"
	DiveTagModifier     = "dive"
)

// Rule name constants for the builtin named rules.
const (
	RuleNonEmpty = "nonempty"
	RuleMinLen   = "minlen"
	RuleMaxLen   = "maxlen"
	RuleNonNeg   = "nonneg"
	RulePositive = "positive"
	RuleMin      = "min"
	RuleMax      = "max"
	RuleUUID     = "uuid"
	RuleRegex    = "regex"
	RuleOneOf    = "oneof"
)
