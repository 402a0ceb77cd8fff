// Package valar (VALidation Algebra and Rules) provides a composable
// framework for validating data structures in Go.
//
// A validation either succeeds with the validated value or fails with one
// or more field errors; there is no middle state. The [Result] type carries
// that outcome, and validators compose in two modes:
//   - accumulating ([Zip], [Map2], [All]): both sides always run and their
//     errors concatenate, so one pass reports everything that is wrong
//   - fail-fast ([FlatMap], [ZipFailFast]): the second validation only runs
//     when the first succeeded, for when later steps depend on earlier ones
//
// Structural validation walks records, slices, maps, tuples, and unions,
// annotating every error with the path from the root to the offending
// value, so "which field, inside which element, inside which struct" is
// always answerable from the error itself.
//
// Struct validation is tag driven. Fields declare their rules with the
// `validate` tag and the package builds a cached per-type plan:
//
//	type User struct {
//		Name string `validate:"nonempty,maxlen(64)"`
//		Age  int    `validate:"nonneg"`
//	}
//
//	res := valar.ValidateStruct(user, valar.Opts{})
//
// Custom validators register against a type with [Register] (or a named
// rule with [RegisterRule]) on the default registry or on a private
// [Registry] instance.
//
// Every synchronous entry point has an asynchronous sibling
// ([ValidateStructAsync], [ValidateSliceAsync], [OneOfAsync], ...) that
// fans independent checks out across goroutines and merges their results
// in declaration order, so sync and async validation of the same value
// produce the same errors in the same order.
//
// Raw JSON documents can be validated without decoding into a struct via
// [DocSchema], built in code or loaded from YAML with [ParseDocSchema].
package valar
