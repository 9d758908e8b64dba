// Package result provides the outcome algebra used across the contact store.
//
// Every service operation returns either a Result (no payload) or an
// Of[T] (payload of type T). A result is a success or a failure and always
// carries a MessageCollection describing what happened.
//
// # Messages
//
// Messages are ranked by MessageType:
//
//	NotFound < Success < Information < Warning < Error
//
// NotFound is neutral absence rather than a fault. A failure must carry at
// least one Error or NotFound message; the constructors refuse anything else.
//
// # Combinators
//
// Map, Bind, Match and ToSingle change the payload type and are therefore
// free functions. OnSuccess, OnFailure, MapFailure, EnsureSuccess and
// ToResult keep it and are methods on Of[T]. None of them mutate the
// receiver.
package result
