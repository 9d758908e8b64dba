package result

import (
	"fmt"
	"reflect"
)

// present reports whether v holds a payload. Nil pointers, maps, slices,
// interfaces, funcs and channels are absent; every other value is present.
func present[T any](v T) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// typeName returns the bare name of T, dereferencing pointers
func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// OnSuccess runs fn with the payload when r succeeded and the payload is
// present.
func (r Of[T]) OnSuccess(fn func(T)) Of[T] {
	if r.success && present(r.data) {
		fn(r.data)
	}
	return r
}

// OnFailure runs fn when r failed with at least one message
func (r Of[T]) OnFailure(fn func(*MessageCollection)) Of[T] {
	if !r.success && r.messages.Len() > 0 {
		fn(r.messages)
	}
	return r
}

// OnFailureSeverity is OnFailure with the highest severity present
func (r Of[T]) OnFailureSeverity(fn func(*MessageCollection, MessageType)) Of[T] {
	if !r.success && r.messages.Len() > 0 {
		fn(r.messages, r.messages.HighestSeverity())
	}
	return r
}

// MapFailure replaces the messages of a failure holding at least one Error
// with a single Error built by fn. Other results are returned unchanged.
func (r Of[T]) MapFailure(fn func(*MessageCollection) string) Of[T] {
	if r.success || !r.messages.HasErrors() {
		return r
	}
	return FailureOf[T](NewMessageCollection(Error(fn(r.messages))))
}

// EnsureSuccess returns the payload, or a *FailureError when r failed
func (r Of[T]) EnsureSuccess() (T, error) {
	if !r.success {
		var zero T
		return zero, &FailureError{Messages: r.Messages()}
	}
	return r.data, nil
}

// ToResult drops the payload, keeping classification and messages
func (r Of[T]) ToResult() Result {
	return Result{success: r.success, messages: r.Messages()}
}

// Map transforms the payload of a success. A failure becomes a failure of
// the new type with a copy of its messages.
func Map[T, U any](r Of[T], fn func(T) U) Of[U] {
	if !r.success {
		return failed[U](r.Messages().Clone())
	}
	return SuccessOf(fn(r.data), r.Messages().Clone())
}

// Bind chains an operation that itself returns a result. When the inner
// result fails, its messages are appended to a copy of r's messages. A
// successful inner result is returned as is.
func Bind[T, U any](r Of[T], fn func(T) Of[U]) Of[U] {
	if !r.success {
		return failed[U](r.Messages().Clone())
	}
	inner := fn(r.data)
	if inner.success {
		return inner
	}
	merged := r.Messages().Clone()
	merged.AddRange(inner.messages)
	return failed[U](merged)
}

// Match resolves r into a single value
func Match[T, U any](r Of[T], onSuccess func(T) U, onFailure func(*MessageCollection) U) U {
	if r.success && present(r.data) {
		return onSuccess(r.data)
	}
	return onFailure(r.Messages())
}

// MatchSeverity is Match with the highest severity passed to onFailure
func MatchSeverity[T, U any](r Of[T], onSuccess func(T) U, onFailure func(*MessageCollection, MessageType) U) U {
	if r.success && present(r.data) {
		return onSuccess(r.data)
	}
	messages := r.Messages()
	return onFailure(messages, messages.HighestSeverity())
}

// ToSingle narrows a result holding a slice to its only element.
//
// A failure is propagated. An empty slice becomes a NotFound failure with
// code NOT_FOUND; text defaults to "<T> record not found." when message is
// empty and no NotFound message is present yet. An empty success that
// already carries a NotFound message is also returned as a failure, not as
// a success with zero data. More than one element is a contract violation
// and panics with ErrAmbiguousSingle.
func ToSingle[T any](r Of[[]T], message string) Of[T] {
	messages := r.Messages().Clone()
	if !r.success {
		return failed[T](messages)
	}
	switch n := len(r.data); n {
	case 0:
		if !messages.HasNotFounds() {
			if message == "" {
				message = fmt.Sprintf("%s record not found.", typeName[T]())
			}
			messages.AddNotFound(message, WithCode(CodeNotFound))
		}
		return failed[T](messages)
	case 1:
		return SuccessOf(r.data[0], messages)
	default:
		panic(fmt.Errorf("%w: got %d", ErrAmbiguousSingle, n))
	}
}

// CodeNotFound is the code attached to NotFound messages created here
const CodeNotFound = "NOT_FOUND"

// FailureError is returned by EnsureSuccess for a failed result
type FailureError struct {
	Messages *MessageCollection
}

func (e *FailureError) Error() string {
	if errs := e.Messages.Errors(); len(errs) > 0 {
		return errs[0].Text()
	}
	if nf := e.Messages.NotFounds(); len(nf) > 0 {
		return nf[0].Text()
	}
	return "Unknown failure"
}
