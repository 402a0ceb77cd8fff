package valar

///////////////////////////////////////////////////////////////////////////////
// Error accumulation strategy
///////////////////////////////////////////////////////////////////////////////

// Accumulator combines the error collections of two independently validated
// parts into one. The strategy must be associative; beyond that the order is
// the strategy's own business, so a caller can swap in any ordering without
// breaking the algebra. Accumulating combinators (Zip, Map2, OrElse, the
// structural traversal) route every merge through the strategy in scope.
type Accumulator func(left, right []FieldError) []FieldError

// Concat is the default strategy: the left operand's errors first, then the
// right operand's.
func Concat(left, right []FieldError) []FieldError {
	if len(left) == 0 {
		return right
	}
	if len(right) == 0 {
		return left
	}
	out := make([]FieldError, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out
}

// ConcatReversed combines with the right operand's errors first. Mostly
// useful to verify that code does not silently depend on the default order.
func ConcatReversed(left, right []FieldError) []FieldError {
	return Concat(right, left)
}
