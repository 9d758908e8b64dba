package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/randel-bjorkquist/pluralsight/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

type jsonDocument struct {
	Contacts []*domain.Contact `json:"contacts"`
}

// Parse reads {"contacts": [...]}
func (c *JSONCodec) Parse(r io.Reader) ([]*domain.Contact, error) {
	var doc jsonDocument
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	for i, contact := range doc.Contacts {
		if contact == nil {
			return nil, fmt.Errorf("failed to parse JSON: contacts[%d] is null", i)
		}
		contact.AdoptAddresses()
	}
	return doc.Contacts, nil
}

// Export writes contacts as indented JSON
func (c *JSONCodec) Export(contacts []*domain.Contact, w io.Writer) error {
	doc := jsonDocument{Contacts: contacts}
	if doc.Contacts == nil {
		doc.Contacts = []*domain.Contact{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
