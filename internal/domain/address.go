package domain

import (
	"github.com/randel-bjorkquist/pluralsight/internal/result"
	"github.com/randel-bjorkquist/pluralsight/internal/validation"
)

// Address is a postal address owned by a contact
type Address struct {
	Entity        `yaml:",inline"`
	SoftDelete    `yaml:",inline"`
	ContactID     int    `json:"contact_id" yaml:"contact_id,omitempty"`
	AddressType   string `json:"address_type" yaml:"address_type"`
	StreetAddress string `json:"street_address" yaml:"street_address"`
	City          string `json:"city" yaml:"city"`
	StateID       int    `json:"state_id" yaml:"state_id"`
	PostalCode    string `json:"postal_code" yaml:"postal_code"`
}

var addressRules = validation.NewRules(
	required("AddressType", func(a *Address) string { return a.AddressType }),
	maxLen("AddressType", 10, func(a *Address) string { return a.AddressType }),
	required("StreetAddress", func(a *Address) string { return a.StreetAddress }),
	maxLen("StreetAddress", 50, func(a *Address) string { return a.StreetAddress }),
	required("City", func(a *Address) string { return a.City }),
	maxLen("City", 50, func(a *Address) string { return a.City }),
	validation.Require("StateID must be greater than 0 (zero).", func(a *Address) bool { return a.StateID > 0 }).
		WithCode(CodeRequired),
	required("PostalCode", func(a *Address) string { return a.PostalCode }),
	maxLen("PostalCode", 20, func(a *Address) string { return a.PostalCode }),
)

// Validate checks the address fields
func (a *Address) Validate(isCreate bool, messages *result.MessageCollection) *result.MessageCollection {
	return a.ValidateWith(isCreate, false, messages)
}

// ValidateWith is Validate with the allow-deleted-on-create override
func (a *Address) ValidateWith(isCreate, allowDeletedOnCreate bool, messages *result.MessageCollection) *result.MessageCollection {
	return validateRecord(a.Entity, a.SoftDelete, addressRules, a, isCreate, allowDeletedOnCreate, messages)
}
