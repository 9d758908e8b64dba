package result

import (
	"fmt"
)

// Result is the outcome of an operation without a payload
type Result struct {
	success  bool
	messages *MessageCollection
}

// Success creates a successful result. A nil collection becomes empty.
func Success(messages *MessageCollection) Result {
	return Result{success: true, messages: orEmpty(messages)}
}

// NewFailure creates a failed result. It returns ErrInvalidArgument unless
// messages holds at least one Error or NotFound message.
func NewFailure(messages *MessageCollection) (Result, error) {
	if err := checkFailure(messages); err != nil {
		return Result{}, err
	}
	return Result{messages: messages}, nil
}

// Failure is like NewFailure but panics on an invalid collection
func Failure(messages *MessageCollection) Result {
	r, err := NewFailure(messages)
	if err != nil {
		panic(err)
	}
	return r
}

// Outcome classifies messages: a failure when they hold an Error, a success
// otherwise.
func Outcome(messages *MessageCollection) Result {
	if messages.HasErrors() {
		return Result{messages: messages}
	}
	return Success(messages)
}

func checkFailure(messages *MessageCollection) error {
	if messages.Len() == 0 {
		return fmt.Errorf("%w: a failure requires at least one message", ErrInvalidArgument)
	}
	if !messages.canFail() {
		return fmt.Errorf("%w: a failure requires at least one error or not-found message", ErrInvalidArgument)
	}
	return nil
}

func orEmpty(messages *MessageCollection) *MessageCollection {
	if messages == nil {
		return &MessageCollection{}
	}
	return messages
}

// IsSuccess reports whether the operation succeeded
func (r Result) IsSuccess() bool { return r.success }

// IsFailure reports whether the operation failed
func (r Result) IsFailure() bool { return !r.success }

// Messages returns the result's messages. The collection is shared and
// must be treated as read-only.
func (r Result) Messages() *MessageCollection { return orEmpty(r.messages) }

// OnSuccess runs fn when r succeeded
func (r Result) OnSuccess(fn func()) Result {
	if r.success {
		fn()
	}
	return r
}

// OnFailure runs fn with the messages when r failed
func (r Result) OnFailure(fn func(*MessageCollection)) Result {
	if !r.success && r.messages.Len() > 0 {
		fn(r.messages)
	}
	return r
}

// Of is the outcome of an operation producing a T. Data is only meaningful
// on success.
type Of[T any] struct {
	Result
	data T
}

// SuccessOf creates a successful result carrying data
func SuccessOf[T any](data T, messages *MessageCollection) Of[T] {
	return Of[T]{Result: Success(messages), data: data}
}

// NewFailureOf creates a failed typed result, see NewFailure
func NewFailureOf[T any](messages *MessageCollection) (Of[T], error) {
	r, err := NewFailure(messages)
	if err != nil {
		return Of[T]{}, err
	}
	return Of[T]{Result: r}, nil
}

// FailureOf is like NewFailureOf but panics on an invalid collection
func FailureOf[T any](messages *MessageCollection) Of[T] {
	return Of[T]{Result: Failure(messages)}
}

// SuccessWith creates a successful result with a single message of typ
func SuccessWith[T any](typ MessageType, data T, text string, opts ...Option) Of[T] {
	return SuccessOf(data, NewMessageCollection(NewMessage(typ, text, opts...)))
}

// FailureWith creates a failed result with a single message. typ must be
// TypeError or TypeNotFound; anything else panics.
func FailureWith[T any](typ MessageType, text string, opts ...Option) Of[T] {
	if !typ.IsFailure() {
		panic(fmt.Errorf("%w: %s cannot describe a failure", ErrInvalidArgument, typ))
	}
	return FailureOf[T](NewMessageCollection(NewMessage(typ, text, opts...)))
}

// Copy returns r with an independent copy of its messages
func Copy[T any](r Of[T]) Of[T] {
	return Of[T]{Result: Result{success: r.success, messages: r.Messages().Clone()}, data: r.data}
}

// failed propagates an already valid failure to another payload type
func failed[T any](messages *MessageCollection) Of[T] {
	return Of[T]{Result: Result{messages: messages}}
}

// Data returns the payload. It is the zero value for failures.
func (r Of[T]) Data() T { return r.data }
