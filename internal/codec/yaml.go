package codec

import (
	"fmt"
	"io"
	"strings"

	"github.com/randel-bjorkquist/pluralsight/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export. Addresses name their state by
// postal abbreviation instead of id.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

type yamlDocument struct {
	Contacts []yamlContact `yaml:"contacts"`
}

type yamlContact struct {
	ID        int           `yaml:"id,omitempty"`
	Deleted   bool          `yaml:"deleted,omitempty"`
	FirstName string        `yaml:"first_name"`
	LastName  string        `yaml:"last_name"`
	Email     string        `yaml:"email,omitempty"`
	Company   string        `yaml:"company,omitempty"`
	Title     string        `yaml:"title,omitempty"`
	Addresses []yamlAddress `yaml:"addresses,omitempty"`
}

type yamlAddress struct {
	ID            int    `yaml:"id,omitempty"`
	Deleted       bool   `yaml:"deleted,omitempty"`
	AddressType   string `yaml:"type"`
	StreetAddress string `yaml:"street"`
	City          string `yaml:"city"`
	State         string `yaml:"state"`
	PostalCode    string `yaml:"postal_code"`
}

// Parse imports contacts from YAML
func (c *YAMLCodec) Parse(r io.Reader) ([]*domain.Contact, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	contacts := make([]*domain.Contact, 0, len(doc.Contacts))
	for i, yc := range doc.Contacts {
		contact := &domain.Contact{
			Entity:     domain.Entity{ID: yc.ID},
			SoftDelete: domain.SoftDelete{Deleted: yc.Deleted},
			FirstName:  yc.FirstName,
			LastName:   yc.LastName,
			Email:      yc.Email,
			Company:    yc.Company,
			Title:      yc.Title,
		}

		for j, ya := range yc.Addresses {
			state, ok := domain.StateByAbbreviation(strings.ToUpper(strings.TrimSpace(ya.State)))
			if !ok {
				return nil, fmt.Errorf("failed to parse YAML: contacts[%d].addresses[%d]: unknown state %q", i, j, ya.State)
			}
			contact.AddAddress(&domain.Address{
				Entity:        domain.Entity{ID: ya.ID},
				SoftDelete:    domain.SoftDelete{Deleted: ya.Deleted},
				AddressType:   ya.AddressType,
				StreetAddress: ya.StreetAddress,
				City:          ya.City,
				StateID:       state.ID,
				PostalCode:    ya.PostalCode,
			})
		}
		contacts = append(contacts, contact)
	}

	return contacts, nil
}

// Export exports contacts to YAML
func (c *YAMLCodec) Export(contacts []*domain.Contact, w io.Writer) error {
	doc := yamlDocument{Contacts: make([]yamlContact, 0, len(contacts))}

	for _, contact := range contacts {
		yc := yamlContact{
			ID:        contact.ID,
			FirstName: contact.FirstName,
			LastName:  contact.LastName,
			Email:     contact.Email,
			Company:   contact.Company,
			Title:     contact.Title,
		}
		for _, a := range contact.Addresses {
			state, ok := domain.StateByID(a.StateID)
			if !ok {
				return fmt.Errorf("failed to encode YAML: address %d has unknown state id %d", a.ID, a.StateID)
			}
			yc.Addresses = append(yc.Addresses, yamlAddress{
				ID:            a.ID,
				AddressType:   a.AddressType,
				StreetAddress: a.StreetAddress,
				City:          a.City,
				State:         state.Abbreviation,
				PostalCode:    a.PostalCode,
			})
		}
		doc.Contacts = append(doc.Contacts, yc)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
