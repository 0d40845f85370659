// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"slices"
	"text/template"

	"github.com/blpembed/blpembed/internal/discovery"
	"github.com/blpembed/blpembed/pkg/catalog"
)

const (
	// DefaultPackage is the package name of generated Go files.
	DefaultPackage = "ui"
	// DefaultVarName is the name of the catalog variable in generated Go files.
	DefaultVarName = "Blueprints"
	// DefaultPrefix is prepended to per-entry constant names.
	DefaultPrefix = "UI"

	catalogImport = "github.com/blpembed/blpembed/pkg/catalog"
)

// FormatGo renders a catalog as Go source.
const FormatGo OutputFormat = "go"

// ErrUnknownOutputFormat is returned for an unsupported output format.
var ErrUnknownOutputFormat = errors.New("unknown output format")

type (
	// OutputFormat is the artifact format of catalog mode: Go source or one
	// of the catalog data formats.
	OutputFormat string

	// ConstFile describes a generated single-source Go file.
	ConstFile struct {
		Package string
		Name    string
		// Source is the blueprint path, mentioned in comments.
		Source string
		XML    string
	}

	// CatalogFile describes a generated catalog Go file.
	CatalogFile struct {
		Package string
		VarName string
		// Prefix is prepended to the per-entry constant names.
		Prefix string
		// Suffix is stripped from keys when naming constants.
		Suffix string
	}

	constDecl struct {
		Name  string
		Key   string
		Value string
	}
)

var (
	constFileTemplate = template.Must(template.New("const").Parse(`// Code generated by blpembed from {{.Source}}. DO NOT EDIT.

package {{.Package}}

// {{.Name}} is the GtkBuilder XML compiled from {{.Source}}.
const {{.Name}} = {{.Literal}}
`))

	catalogFileTemplate = template.Must(template.New("catalog").Parse(`// Code generated by blpembed. DO NOT EDIT.

package {{.Package}}

import "{{.Import}}"
{{if .Consts}}
// Compiled blueprints, one constant per source.
const (
{{- range .Consts}}
	// {{.Name}} is compiled from {{.Key}}.
	{{.Name}} = {{.Value}}
{{- end}}
)
{{end}}
// {{.VarName}} maps blueprint source paths to compiled GtkBuilder XML.
var {{.VarName}} = catalog.MustNew(
{{- range .Consts}}
	catalog.Entry{Key: {{printf "%q" .Key}}, Value: {{.Name}}},
{{- end}}
)
`))
)

// ParseOutputFormat parses "go", "json", "toml" or "msgpack".
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(s)
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// OutputFormats returns every supported output format.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatGo, OutputFormat(catalog.FormatJSON), OutputFormat(catalog.FormatTOML), OutputFormat(catalog.FormatMsgpack)}
}

// Validate returns an error if f is not a supported output format.
func (f OutputFormat) Validate() error {
	if slices.Contains(OutputFormats(), f) {
		return nil
	}
	return fmt.Errorf("%w %q (expected one of %v)", ErrUnknownOutputFormat, string(f), OutputFormats())
}

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// RenderConstFile renders compiled XML as a Go file holding one constant.
func RenderConstFile(f ConstFile) ([]byte, error) {
	if err := ValidateIdentifier("package", f.Package); err != nil {
		return nil, err
	}
	if err := ValidateIdentifier("constant", f.Name); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err := constFileTemplate.Execute(&buf, struct {
		ConstFile
		Literal string
	}{ConstFile: f, Literal: Literal(f.XML)})
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", f.Name, err)
	}
	return formatSource(buf.Bytes())
}

// RenderCatalogFile renders c as a Go file exposing one exported constant per
// entry plus a catalog variable built from them. Referencing a constant for a
// source that is not in the catalog is then a compile error.
func RenderCatalogFile(c *catalog.Catalog, f CatalogFile) ([]byte, error) {
	if f.Package == "" {
		f.Package = DefaultPackage
	}
	if f.VarName == "" {
		f.VarName = DefaultVarName
	}
	if f.Suffix == "" {
		f.Suffix = discovery.DefaultSuffix
	}
	if err := ValidateIdentifier("package", f.Package); err != nil {
		return nil, err
	}
	if err := ValidateIdentifier("variable", f.VarName); err != nil {
		return nil, err
	}
	if f.Prefix != "" {
		if err := ValidateIdentifier("prefix", f.Prefix); err != nil {
			return nil, err
		}
	}

	names := newNamer(f.Prefix, f.Suffix, f.VarName, "catalog")
	consts := make([]constDecl, 0, c.Len())
	for key, value := range c.All() {
		consts = append(consts, constDecl{Name: names.name(key), Key: key, Value: Literal(value)})
	}

	var buf bytes.Buffer
	err := catalogFileTemplate.Execute(&buf, struct {
		CatalogFile
		Import string
		Consts []constDecl
	}{CatalogFile: f, Import: catalogImport, Consts: consts})
	if err != nil {
		return nil, fmt.Errorf("rendering catalog: %w", err)
	}
	return formatSource(buf.Bytes())
}

// RenderCatalog renders c in the requested output format.
func RenderCatalog(c *catalog.Catalog, format OutputFormat, f CatalogFile) ([]byte, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if format == FormatGo {
		return RenderCatalogFile(c, f)
	}
	return catalog.Marshal(c, catalog.Format(format))
}

func formatSource(src []byte) ([]byte, error) {
	out, err := format.Source(src)
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return out, nil
}
