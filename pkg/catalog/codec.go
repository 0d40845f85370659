// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// FormatJSON encodes a catalog as a JSON document.
	FormatJSON Format = "json"
	// FormatTOML encodes a catalog as a TOML document with an [[entries]] array.
	FormatTOML Format = "toml"
	// FormatMsgpack encodes a catalog as msgpack.
	FormatMsgpack Format = "msgpack"
)

// ErrUnknownFormat is the sentinel error wrapped by UnknownFormatError.
var ErrUnknownFormat = errors.New("unknown catalog format")

type (
	// Format names a catalog data encoding.
	Format string

	// UnknownFormatError is returned for unrecognized format names or file extensions.
	UnknownFormatError struct {
		Value string
	}

	// document is the on-disk shape shared by all encodings. Entries are kept
	// as a list so catalog order survives a round trip.
	document struct {
		Entries []Entry `json:"entries" toml:"entries" msgpack:"entries"`
	}
)

// Error implements the error interface.
func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown catalog format %q (valid: json, toml, msgpack)", e.Value)
}

// Unwrap returns ErrUnknownFormat.
func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }

// Validate returns an error if the format is not recognized.
func (f Format) Validate() error {
	switch f {
	case FormatJSON, FormatTOML, FormatMsgpack:
		return nil
	default:
		return &UnknownFormatError{Value: string(f)}
	}
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	default:
		return "", &UnknownFormatError{Value: filepath.Ext(path)}
	}
}

// Encode writes c to w in the given format.
func Encode(w io.Writer, c *Catalog, format Format) error {
	doc := document{Entries: c.Entries()}
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode catalog as json: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode catalog as toml: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode catalog as msgpack: %w", err)
		}
	default:
		return &UnknownFormatError{Value: string(format)}
	}
	return nil
}

// Marshal returns the encoding of c in the given format.
func Marshal(c *Catalog, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a catalog in the given format. The result is validated the
// same way New validates entries.
func Decode(r io.Reader, format Format) (*Catalog, error) {
	var doc document

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
	case FormatTOML:
		if err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode toml catalog: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode msgpack catalog: %w", err)
		}
	default:
		return nil, &UnknownFormatError{Value: string(format)}
	}

	return New(doc.Entries...)
}

// Unmarshal decodes data in the given format.
func Unmarshal(data []byte, format Format) (*Catalog, error) {
	return Decode(bytes.NewReader(data), format)
}
