package domain

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/randel-bjorkquist/pluralsight/internal/result"
	"github.com/randel-bjorkquist/pluralsight/internal/validation"
)

func required[T any](field string, get func(T) string) validation.Rule[T] {
	return validation.Require(fmt.Sprintf("%s is required.", field), func(t T) bool {
		return strings.TrimSpace(get(t)) != ""
	}).WithCode(CodeRequired)
}

func maxLen[T any](field string, limit int, get func(T) string) validation.Rule[T] {
	return validation.Require(fmt.Sprintf("%s cannot be longer than %d characters.", field, limit), func(t T) bool {
		return len([]rune(get(t))) <= limit
	}).WithCode(CodeTooLong)
}

func emailFormat[T any](field string, get func(T) string) validation.Rule[T] {
	return validation.Require(fmt.Sprintf("%s is not a valid email address.", field), func(t T) bool {
		v := strings.TrimSpace(get(t))
		if v == "" {
			return true
		}
		addr, err := mail.ParseAddress(v)
		return err == nil && addr.Address == v
	}).WithCode(CodeInvalidFormat)
}

// validateRecord runs identity, deletion and field rules for one entity
func validateRecord[T any](e Entity, d SoftDelete, rules *validation.Rules[T], target T,
	isCreate, allowDeletedOnCreate bool, messages *result.MessageCollection) *result.MessageCollection {
	messages = e.Validate(isCreate, messages)
	messages = d.ValidateDeletion(isCreate, allowDeletedOnCreate, messages)
	return rules.Append(target, isCreate, messages)
}
