// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSuffix is the file name suffix of Blueprint sources.
const DefaultSuffix = ".blp"

var (
	// ErrDiscovery is the sentinel error wrapped by DiscoveryError.
	ErrDiscovery = errors.New("source discovery failed")
	// ErrNotDirectory is returned when the start path is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrInvalidPattern is returned for malformed ignore patterns.
	ErrInvalidPattern = errors.New("invalid ignore pattern")
)

type (
	// Options configures what discovery treats as a source and what it skips.
	Options struct {
		// Suffix selects source files. Empty means DefaultSuffix.
		Suffix string
		// ExcludeDirs are directory names that are never entered, at any
		// depth, in addition to DefaultExcludeDirs.
		ExcludeDirs []string
		// Ignore are doublestar patterns, relative to the start directory,
		// for files and directories to skip.
		Ignore []string
	}

	// Discoverer walks project trees with a fixed set of Options.
	Discoverer struct {
		suffix  string
		exclude []string
		ignore  []string
	}

	// DiscoveryError is returned when the start directory, or a directory
	// below it, cannot be read.
	DiscoveryError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("cannot read source directory %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrDiscovery and the underlying cause.
func (e *DiscoveryError) Unwrap() []error { return []error{ErrDiscovery, e.Err} }

// DefaultExcludeDirs returns the directory names skipped by default:
// git metadata and the build output directory.
func DefaultExcludeDirs() []string {
	return []string{".git", "target"}
}

// ExcludeDirs returns DefaultExcludeDirs followed by the names in extra that
// are not already present. The defaults can not be switched off.
func ExcludeDirs(extra []string) []string {
	out := DefaultExcludeDirs()
	for _, name := range extra {
		if name != "" && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// DefaultOptions returns Options with the default suffix and exclusions.
func DefaultOptions() Options {
	return Options{
		Suffix:      DefaultSuffix,
		ExcludeDirs: DefaultExcludeDirs(),
	}
}

// New creates a Discoverer. Ignore patterns are validated eagerly so a bad
// glob fails here rather than silently never matching.
func New(opts Options) (*Discoverer, error) {
	suffix := opts.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	for _, pat := range opts.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pat, doublestar.ErrBadPattern)
		}
	}

	return &Discoverer{
		suffix:  suffix,
		exclude: ExcludeDirs(opts.ExcludeDirs),
		ignore:  slices.Clone(opts.Ignore),
	}, nil
}

// Discover is a convenience wrapper around New and Discoverer.Discover.
func Discover(start string, opts Options) ([]string, error) {
	d, err := New(opts)
	if err != nil {
		return nil, err
	}
	return d.Discover(start)
}

// Suffix returns the source file suffix.
func (d *Discoverer) Suffix() string { return d.suffix }

// Discover returns the source paths under start, joined onto start and
// sorted by their catalog key.
func (d *Discoverer) Discover(start string) ([]string, error) {
	res, err := d.DiscoverWithDiagnostics(start)
	if err != nil {
		return nil, err
	}
	return res.Paths, nil
}

// IsSource reports whether a file name carries the source suffix.
func (d *Discoverer) IsSource(name string) bool {
	return strings.HasSuffix(name, d.suffix)
}

func (d *Discoverer) isExcludedDir(name string) bool {
	return slices.Contains(d.exclude, name)
}

// isIgnored matches a start-relative, slash-separated path against the
// ignore patterns.
func (d *Discoverer) isIgnored(rel string) bool {
	for _, pat := range d.ignore {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}
