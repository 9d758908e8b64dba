package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randel-bjorkquist/pluralsight/internal/result"
	"github.com/randel-bjorkquist/pluralsight/internal/validation"
)

func validContact() *Contact {
	return &Contact{FirstName: "Joe", LastName: "Blow", Email: "joe@blow.com", Company: "Microsoft", Title: "Developer"}
}

func validAddress() *Address {
	return &Address{AddressType: "Home", StreetAddress: "123 Main Street", City: "Baltimore", StateID: 1, PostalCode: "22222"}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		deleted bool
		want    Lifecycle
	}{
		{"zero id", 0, false, LifecycleNew},
		{"negative id", -4, false, LifecycleNew},
		{"stored", 7, false, LifecycleExisting},
		{"stored and deleted", 7, true, LifecycleDeleted},
		{"unsaved and deleted", 0, true, LifecycleDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAddress()
			a.ID = tt.id
			a.Deleted = tt.deleted
			assert.Equal(t, tt.want, Classify(a))
		})
	}
}

func TestEntityIDRule(t *testing.T) {
	assert.True(t, validation.Check(Entity{}, true).IsSuccess())
	assert.True(t, validation.Check(Entity{ID: 3}, false).IsSuccess())

	r := validation.Check(Entity{}, false)
	require.True(t, r.IsFailure())
	assert.Equal(t, []string{msgIDRequired}, r.Messages().Texts())
	assert.Equal(t, CodeInvalidID, r.Messages().Errors()[0].Code())
}

func TestDeletedOnCreate(t *testing.T) {
	c := validContact()
	c.MarkDeleted()

	r := validation.Check(c, true)
	require.True(t, r.IsFailure())
	assert.Equal(t, CodeDeletedOnCreate, r.Messages().Errors()[0].Code())

	allowed := result.Outcome(c.ValidateWith(true, true, nil))
	assert.True(t, allowed.IsSuccess())

	c.ID = 9
	assert.True(t, validation.Check(c, false).IsSuccess(), "deletion of a stored contact is allowed")
}

func TestContactRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Contact)
		want   []string
	}{
		{"valid", func(*Contact) {}, nil},
		{"missing names", func(c *Contact) { c.FirstName, c.LastName = " ", "" },
			[]string{"FirstName is required.", "LastName is required."}},
		{"long first name", func(c *Contact) { c.FirstName = strings.Repeat("x", 51) },
			[]string{"FirstName cannot be longer than 50 characters."}},
		{"bad email", func(c *Contact) { c.Email = "not-an-email" },
			[]string{"Email is not a valid email address."}},
		{"display-name email rejected", func(c *Contact) { c.Email = "Joe <joe@blow.com>" },
			[]string{"Email is not a valid email address."}},
		{"empty email allowed", func(c *Contact) { c.Email = "" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContact()
			tt.mutate(c)
			msgs := c.Validate(true, nil)
			if tt.want == nil {
				assert.Equal(t, 0, msgs.Len(), msgs.String())
				return
			}
			assert.Equal(t, tt.want, msgs.Texts())
		})
	}
}

func TestAddressRules(t *testing.T) {
	a := &Address{}
	msgs := a.Validate(false, nil)

	assert.Equal(t, []string{
		msgIDRequired,
		"AddressType is required.",
		"StreetAddress is required.",
		"City is required.",
		"StateID must be greater than 0 (zero).",
		"PostalCode is required.",
	}, msgs.Texts())

	assert.Equal(t, 0, validAddress().Validate(true, nil).Len())
}

func TestAdoptAddresses(t *testing.T) {
	c := validContact()
	c.Addresses = []*Address{validAddress(), validAddress()}
	c.ID = 12
	c.AdoptAddresses()

	for _, a := range c.Addresses {
		assert.Equal(t, 12, a.ContactID)
	}

	extra := validAddress()
	c.AddAddress(extra)
	assert.Equal(t, 12, extra.ContactID)
	assert.Len(t, c.Addresses, 3)
	assert.Equal(t, "Joe Blow", c.FullName())
}

func TestUSStates(t *testing.T) {
	states := USStates()
	require.Len(t, states, 50)
	assert.Equal(t, State{ID: 1, Name: "Alabama", Abbreviation: "AL"}, states[0])

	il, ok := StateByAbbreviation("IL")
	require.True(t, ok)
	assert.Equal(t, "Illinois", il.Name)

	_, ok = StateByAbbreviation("ZZ")
	assert.False(t, ok)
}
