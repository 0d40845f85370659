// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrKeyNotFound is the sentinel error wrapped by KeyNotFoundError.
	ErrKeyNotFound = errors.New("key not found in catalog")
	// ErrDuplicateKey is the sentinel error wrapped by DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate catalog key")
	// ErrEmptyKey is returned when an entry has an empty key after normalization.
	ErrEmptyKey = errors.New("empty catalog key")
)

type (
	// Entry is one compiled source in a catalog.
	Entry struct {
		// Key is the normalized, project-relative path of the .blp source.
		Key string `json:"path" toml:"path" msgpack:"path"`
		// Value is the compiled GtkBuilder XML.
		Value string `json:"xml" toml:"xml,multiline" msgpack:"xml"`
	}

	// Catalog is an ordered, immutable mapping from source path to compiled XML.
	Catalog struct {
		entries []Entry
		index   map[string]int
	}

	// KeyNotFoundError is returned by Lookup when a key is absent.
	// It wraps ErrKeyNotFound for errors.Is() compatibility.
	KeyNotFoundError struct {
		Key string
	}

	// DuplicateKeyError is returned by New when two entries normalize to the same key.
	DuplicateKeyError struct {
		Key string
	}
)

// Error implements the error interface.
func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("no compiled blueprint for %q", e.Key)
}

// Unwrap returns ErrKeyNotFound.
func (e *KeyNotFoundError) Unwrap() error { return ErrKeyNotFound }

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate catalog key %q", e.Key)
}

// Unwrap returns ErrDuplicateKey.
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// New builds a catalog from entries, keeping their order. Keys are normalized.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		key := Normalize(e.Key)
		if key == "" {
			return nil, ErrEmptyKey
		}
		if _, exists := c.index[key]; exists {
			return nil, &DuplicateKeyError{Key: key}
		}
		c.index[key] = len(c.entries)
		c.entries = append(c.entries, Entry{Key: key, Value: e.Value})
	}
	return c, nil
}

// MustNew is like New but panics on error. Generated code uses it for
// package-level catalog variables whose keys are already known to be unique.
func MustNew(entries ...Entry) *Catalog {
	c, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the compiled XML for key.
func Lookup(c *Catalog, key string) (string, error) {
	return c.Lookup(key)
}

// Lookup returns the compiled XML for key, normalizing it first.
// An absent key yields a *KeyNotFoundError, never a default value.
func (c *Catalog) Lookup(key string) (string, error) {
	norm := Normalize(key)
	if c != nil {
		if i, ok := c.index[norm]; ok {
			return c.entries[i].Value, nil
		}
	}
	return "", &KeyNotFoundError{Key: norm}
}

// Has reports whether key is present.
func (c *Catalog) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[Normalize(key)]
	return ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Keys returns the keys in catalog order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return slices.Clone(c.entries)
}

// All iterates over key/value pairs in catalog order.
func (c *Catalog) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if c == nil {
			return
		}
		for _, e := range c.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}
