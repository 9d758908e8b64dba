// Package validation composes rules into results.
//
// Entities implement Validatable and append their own findings to a shared
// MessageCollection. Reusable checks are expressed as Rule values and
// grouped in a Rules set, which is itself a Validator.
package validation

import (
	"github.com/randel-bjorkquist/pluralsight/internal/result"
)

// Validatable is implemented by anything that can check its own state.
// Validate appends findings to messages (creating a collection when nil)
// and returns the collection.
type Validatable interface {
	Validate(isCreate bool, messages *result.MessageCollection) *result.MessageCollection
}

// Validator checks a target of type T
type Validator[T any] interface {
	Validate(target T, isCreate bool) result.Result
}

// Func adapts a plain function to Validator
type Func[T any] func(target T, isCreate bool) result.Result

// Validate calls f
func (f Func[T]) Validate(target T, isCreate bool) result.Result {
	return f(target, isCreate)
}

// Check runs v against a fresh collection. The result fails when any Error
// was reported.
func Check(v Validatable, isCreate bool) result.Result {
	return result.Outcome(v.Validate(isCreate, nil))
}

// Ensure returns messages, allocating it when nil
func Ensure(messages *result.MessageCollection) *result.MessageCollection {
	if messages == nil {
		return result.NewMessageCollection()
	}
	return messages
}
