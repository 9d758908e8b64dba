package domain

import (
	"strings"

	"github.com/randel-bjorkquist/pluralsight/internal/result"
	"github.com/randel-bjorkquist/pluralsight/internal/validation"
)

// Contact is a person in the contact book and the root of its addresses
type Contact struct {
	Entity     `yaml:",inline"`
	SoftDelete `yaml:",inline"`
	FirstName  string     `json:"first_name" yaml:"first_name"`
	LastName   string     `json:"last_name" yaml:"last_name"`
	Email      string     `json:"email,omitempty" yaml:"email,omitempty"`
	Company    string     `json:"company,omitempty" yaml:"company,omitempty"`
	Title      string     `json:"title,omitempty" yaml:"title,omitempty"`
	Addresses  []*Address `json:"addresses,omitempty" yaml:"addresses,omitempty"`
}

var contactRules = validation.NewRules(
	required("FirstName", func(c *Contact) string { return c.FirstName }),
	maxLen("FirstName", 50, func(c *Contact) string { return c.FirstName }),
	required("LastName", func(c *Contact) string { return c.LastName }),
	maxLen("LastName", 50, func(c *Contact) string { return c.LastName }),
	maxLen("Email", 100, func(c *Contact) string { return c.Email }),
	emailFormat("Email", func(c *Contact) string { return c.Email }),
	maxLen("Company", 100, func(c *Contact) string { return c.Company }),
	maxLen("Title", 50, func(c *Contact) string { return c.Title }),
)

// Validate checks the contact's own fields. Addresses are validated by the
// aggregate saver.
func (c *Contact) Validate(isCreate bool, messages *result.MessageCollection) *result.MessageCollection {
	return c.ValidateWith(isCreate, false, messages)
}

// ValidateWith is Validate with the allow-deleted-on-create override
func (c *Contact) ValidateWith(isCreate, allowDeletedOnCreate bool, messages *result.MessageCollection) *result.MessageCollection {
	return validateRecord(c.Entity, c.SoftDelete, contactRules, c, isCreate, allowDeletedOnCreate, messages)
}

// FullName returns "First Last"
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// AdoptAddresses points every address at this contact
func (c *Contact) AdoptAddresses() {
	for _, a := range c.Addresses {
		a.ContactID = c.ID
	}
}

// AddAddress appends an address owned by this contact
func (c *Contact) AddAddress(a *Address) {
	a.ContactID = c.ID
	c.Addresses = append(c.Addresses, a)
}
