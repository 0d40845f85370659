// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Decode compiles data, unifies it with the definition at path in schema
// (for example "#Config"), validates the result and decodes it into T.
func Decode[T any](schema string, data []byte, path string, opts ...Option) (T, error) {
	var zero T

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if err := CheckFileSize(data, options.maxFileSize, options.filename); err != nil {
		return zero, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return zero, fmt.Errorf("internal error: compiling schema: %w", schemaValue.Err())
	}
	definition := schemaValue.LookupPath(cue.ParsePath(path))
	if definition.Err() != nil {
		return zero, fmt.Errorf("internal error: schema definition %s: %w", path, definition.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(options.filename))
	if userValue.Err() != nil {
		return zero, FormatError(userValue.Err(), options.filename)
	}

	unified := definition.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return zero, FormatError(err, options.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return zero, FormatError(err, options.filename)
	}
	return out, nil
}
