// Package codec reads and writes contact aggregates in file formats.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/randel-bjorkquist/pluralsight/internal/domain"
)

// Importer parses contacts with their addresses
type Importer interface {
	Parse(r io.Reader) ([]*domain.Contact, error)
	Format() string
}

// Exporter writes contacts with their addresses
type Exporter interface {
	Export(contacts []*domain.Contact, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec named format ("json" or "yaml")
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// ForPath picks a codec from the file extension
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("cannot detect format of %q", path)
	}
	return ForFormat(ext)
}
