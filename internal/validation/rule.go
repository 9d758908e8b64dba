package validation

import (
	"github.com/randel-bjorkquist/pluralsight/internal/result"
)

// Scope limits when a rule applies
type Scope int

const (
	Always Scope = iota
	OnCreate
	OnUpdate
)

func (s Scope) applies(isCreate bool) bool {
	switch s {
	case OnCreate:
		return isCreate
	case OnUpdate:
		return !isCreate
	}
	return true
}

// Rule is a predicate plus the message reported when it does not hold
type Rule[T any] struct {
	Message string
	Code    string
	// Severity of the reported message. The zero value (NotFound) is
	// reported as Error.
	Severity result.MessageType
	Scope    Scope
	Valid    func(T) bool
}

// Require builds an Error rule
func Require[T any](message string, valid func(T) bool) Rule[T] {
	return Rule[T]{Message: message, Severity: result.TypeError, Valid: valid}
}

// Advise builds a Warning rule. A failing Warning rule does not fail
// validation.
func Advise[T any](message string, valid func(T) bool) Rule[T] {
	return Rule[T]{Message: message, Severity: result.TypeWarning, Valid: valid}
}

// WithCode returns a copy of r reporting code
func (r Rule[T]) WithCode(code string) Rule[T] {
	r.Code = code
	return r
}

// Only returns a copy of r restricted to scope
func (r Rule[T]) Only(scope Scope) Rule[T] {
	r.Scope = scope
	return r
}

// IsValid reports whether target satisfies the rule
func (r Rule[T]) IsValid(target T) bool {
	return r.Valid(target)
}

func (r Rule[T]) check(target T, isCreate bool, messages *result.MessageCollection) {
	if !r.Scope.applies(isCreate) || r.IsValid(target) {
		return
	}
	severity := r.Severity
	if severity == result.TypeNotFound {
		severity = result.TypeError
	}
	var opts []result.Option
	if r.Code != "" {
		opts = append(opts, result.WithCode(r.Code))
	}
	_ = messages.Add(result.NewMessage(severity, r.Message, opts...))
}

// Rules is an ordered set of rules and custom checks for T
type Rules[T any] struct {
	rules  []Rule[T]
	checks []func(T, bool, *result.MessageCollection)
}

// NewRules creates a rule set
func NewRules[T any](rules ...Rule[T]) *Rules[T] {
	return &Rules[T]{rules: rules}
}

// Add appends rules
func (rs *Rules[T]) Add(rules ...Rule[T]) *Rules[T] {
	rs.rules = append(rs.rules, rules...)
	return rs
}

// Custom appends a check that reports directly into the collection
func (rs *Rules[T]) Custom(check func(target T, isCreate bool, messages *result.MessageCollection)) *Rules[T] {
	rs.checks = append(rs.checks, check)
	return rs
}

// Append evaluates every rule against target and appends findings to
// messages, which is allocated when nil.
func (rs *Rules[T]) Append(target T, isCreate bool, messages *result.MessageCollection) *result.MessageCollection {
	messages = Ensure(messages)
	for _, r := range rs.rules {
		r.check(target, isCreate, messages)
	}
	for _, check := range rs.checks {
		check(target, isCreate, messages)
	}
	return messages
}

// Validate implements Validator
func (rs *Rules[T]) Validate(target T, isCreate bool) result.Result {
	return result.Outcome(rs.Append(target, isCreate, nil))
}
