// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/blpembed/blpembed/internal/compiler"
	"github.com/blpembed/blpembed/internal/discovery"
	"github.com/blpembed/blpembed/internal/generate"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidCandidate is the sentinel error wrapped by InvalidCandidateError.
	ErrInvalidCandidate = errors.New("invalid compiler candidate")
	// ErrInvalidField is the sentinel error wrapped by InvalidFieldError.
	ErrInvalidField = errors.New("invalid configuration value")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	errNegativeTimeout = errors.New("must not be negative")
	errEmpty           = errors.New("must not be empty")
	errHasSeparator    = errors.New("must be a single path element")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidCandidateError is returned for a compiler candidate whose command
	// line is empty or cannot be split into words.
	InvalidCandidateError struct {
		Index   int
		Command string
		Err     error
	}

	// InvalidFieldError is returned for a single invalid configuration value.
	InvalidFieldError struct {
		// Field is the configuration key, e.g. "discovery.suffix".
		Field string
		Value string
		Err   error
	}

	// InvalidConfigError collects every field error of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// CandidateConfig is one compiler location to try.
	CandidateConfig struct {
		// Command is a shell-like command line; words after the first are
		// prepended to Args.
		Command string `json:"command" mapstructure:"command"`
		// Args is the argument template. nil means ["compile", "{source}"].
		Args []string `json:"args,omitempty" mapstructure:"args"`
		// ProjectRelative resolves the command against the project root.
		ProjectRelative bool `json:"project_relative" mapstructure:"project_relative"`
	}

	// CompilerConfig configures blueprint-compiler resolution.
	CompilerConfig struct {
		// Candidates are tried in order.
		Candidates []CandidateConfig `json:"candidates" mapstructure:"candidates"`
		// Timeout bounds each compiler run. Zero means no timeout.
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	// DiscoveryConfig configures source discovery.
	DiscoveryConfig struct {
		Suffix      string   `json:"suffix" mapstructure:"suffix"`
		ExcludeDirs []string `json:"exclude_dirs" mapstructure:"exclude_dirs"`
		Ignore      []string `json:"ignore" mapstructure:"ignore"`
	}

	// OutputConfig configures generated artifacts.
	OutputConfig struct {
		Package string                `json:"package" mapstructure:"package"`
		VarName string                `json:"var_name" mapstructure:"var_name"`
		Prefix  string                `json:"prefix" mapstructure:"prefix"`
		Format  generate.OutputFormat `json:"format" mapstructure:"format"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// Config holds the project configuration.
	Config struct {
		Compiler  CompilerConfig  `json:"compiler" mapstructure:"compiler"`
		Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery"`
		Output    OutputConfig    `json:"output" mapstructure:"output"`
		UI        UIConfig        `json:"ui" mapstructure:"ui"`

		// Path is the file the configuration was read from, empty when only
		// defaults and environment variables apply.
		Path string `json:"-" mapstructure:"-"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	defaults := compiler.DefaultCandidates()
	candidates := make([]CandidateConfig, len(defaults))
	for i, c := range defaults {
		candidates[i] = CandidateConfig{
			Command:         filepath.ToSlash(c.Command),
			ProjectRelative: c.ProjectRelative,
		}
	}

	return &Config{
		Compiler: CompilerConfig{
			Candidates: candidates,
		},
		Discovery: DiscoveryConfig{
			Suffix:      discovery.DefaultSuffix,
			ExcludeDirs: discovery.DefaultExcludeDirs(),
			Ignore:      []string{},
		},
		Output: OutputConfig{
			Package: generate.DefaultPackage,
			VarName: generate.DefaultVarName,
			Prefix:  generate.DefaultPrefix,
			Format:  generate.FormatGo,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidCandidateError.
func (e *InvalidCandidateError) Error() string {
	return fmt.Sprintf("compiler.candidates[%d]: invalid command %q: %v", e.Index, e.Command, e.Err)
}

// Unwrap returns ErrInvalidCandidate and the cause.
func (e *InvalidCandidateError) Unwrap() []error { return []error{ErrInvalidCandidate, e.Err} }

// Error implements the error interface for InvalidFieldError.
func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s: invalid value %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns ErrInvalidField and the cause.
func (e *InvalidFieldError) Unwrap() []error { return []error{ErrInvalidField, e.Err} }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s):\n  %s", len(e.FieldErrors), strings.Join(msgs, "\n  "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Candidate converts the entry into a compiler candidate.
func (c CandidateConfig) Candidate() (compiler.Candidate, error) {
	return compiler.ParseCandidate(c.Command, c.Args, c.ProjectRelative)
}

// IsValid returns whether every candidate parses and the timeout is not negative.
func (c CompilerConfig) IsValid() (bool, []error) {
	var errs []error
	for i, cand := range c.Candidates {
		if _, err := cand.Candidate(); err != nil {
			errs = append(errs, &InvalidCandidateError{Index: i, Command: cand.Command, Err: err})
		}
	}
	if c.Timeout < 0 {
		errs = append(errs, &InvalidFieldError{Field: "compiler.timeout", Value: c.Timeout.String(), Err: errNegativeTimeout})
	}
	return len(errs) == 0, errs
}

// InvokerOptions returns the compiler.Invoker options for this configuration.
// An empty candidate list keeps the built-in candidates.
func (c CompilerConfig) InvokerOptions() ([]compiler.Option, error) {
	opts := []compiler.Option{compiler.WithTimeout(c.Timeout)}
	if len(c.Candidates) == 0 {
		return opts, nil
	}

	candidates := make([]compiler.Candidate, len(c.Candidates))
	for i, cand := range c.Candidates {
		parsed, err := cand.Candidate()
		if err != nil {
			return nil, &InvalidCandidateError{Index: i, Command: cand.Command, Err: err}
		}
		candidates[i] = parsed
	}
	return append(opts, compiler.WithCandidates(candidates...)), nil
}

// IsValid returns whether the suffix, excluded directory names and ignore
// patterns are usable.
func (d DiscoveryConfig) IsValid() (bool, []error) {
	var errs []error
	switch {
	case d.Suffix == "":
		errs = append(errs, &InvalidFieldError{Field: "discovery.suffix", Err: errEmpty})
	case strings.ContainsAny(d.Suffix, `/\`):
		errs = append(errs, &InvalidFieldError{Field: "discovery.suffix", Value: d.Suffix, Err: errHasSeparator})
	}
	for i, dir := range d.ExcludeDirs {
		if dir == "" || strings.ContainsAny(dir, `/\`) {
			errs = append(errs, &InvalidFieldError{Field: fmt.Sprintf("discovery.exclude_dirs[%d]", i), Value: dir, Err: errHasSeparator})
		}
	}
	for i, pat := range d.Ignore {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, &InvalidFieldError{Field: fmt.Sprintf("discovery.ignore[%d]", i), Value: pat, Err: doublestar.ErrBadPattern})
		}
	}
	return len(errs) == 0, errs
}

// Options returns the discovery options for this configuration.
func (d DiscoveryConfig) Options() discovery.Options {
	return discovery.Options{
		Suffix:      d.Suffix,
		ExcludeDirs: d.ExcludeDirs,
		Ignore:      d.Ignore,
	}
}

// IsValid returns whether the generated names are Go identifiers and the
// format is supported.
func (o OutputConfig) IsValid() (bool, []error) {
	var errs []error
	check := func(field, value string) {
		if err := generate.ValidateIdentifier(field, value); err != nil {
			errs = append(errs, &InvalidFieldError{Field: "output." + field, Value: value, Err: err})
		}
	}
	check("package", o.Package)
	check("var_name", o.VarName)
	if o.Prefix != "" {
		check("prefix", o.Prefix)
	}
	if err := o.Format.Validate(); err != nil {
		errs = append(errs, &InvalidFieldError{Field: "output.format", Value: o.Format.String(), Err: err})
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	return c.ColorScheme.IsValid()
}

// IsValid validates every section and collects the errors into a single
// *InvalidConfigError.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	for _, section := range []interface{ IsValid() (bool, []error) }{c.Compiler, c.Discovery, c.Output, c.UI} {
		if valid, fieldErrs := section.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Validate is IsValid returning a single error.
func (c *Config) Validate() error {
	if valid, errs := c.IsValid(); !valid {
		return errs[0]
	}
	return nil
}

// CatalogFile returns the Go rendering options for catalog mode.
func (c *Config) CatalogFile() generate.CatalogFile {
	return generate.CatalogFile{
		Package: c.Output.Package,
		VarName: c.Output.VarName,
		Prefix:  c.Output.Prefix,
		Suffix:  c.Discovery.Suffix,
	}
}
