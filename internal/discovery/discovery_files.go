// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/blpembed/blpembed/pkg/catalog"
)

// DiscoverWithDiagnostics walks start depth-first and returns every source
// file plus diagnostics for entries that were skipped.
func (d *Discoverer) DiscoverWithDiagnostics(start string) (*Result, error) {
	info, err := os.Stat(start)
	if err != nil {
		return nil, &DiscoveryError{Path: start, Err: err}
	}
	if !info.IsDir() {
		return nil, &DiscoveryError{Path: start, Err: ErrNotDirectory}
	}

	// WalkDir does not descend into a symlinked root, so walk the target and
	// report every path under the caller's start.
	walkRoot, err := filepath.EvalSymlinks(start)
	if err != nil {
		return nil, &DiscoveryError{Path: start, Err: err}
	}

	res := &Result{}
	walkErr := filepath.WalkDir(walkRoot, func(path string, entry fs.DirEntry, err error) error {
		path = underStart(start, walkRoot, path)
		if err != nil {
			// WalkDir reports ReadDir failures against the directory itself.
			if path == start || (entry != nil && entry.IsDir()) {
				return &DiscoveryError{Path: path, Err: err}
			}
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Code:    CodeUnreadableEntry,
				Message: fmt.Sprintf("skipping unreadable entry %s: %v", path, err),
				Path:    path,
				Cause:   err,
			})
			return nil
		}
		if path == start {
			return nil
		}

		name := entry.Name()
		if !utf8.ValidString(name) {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Code:    CodeInvalidName,
				Message: fmt.Sprintf("skipping entry with non UTF-8 name in %s", filepath.Dir(path)),
				Path:    path,
			})
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel := relativeTo(start, path)

		if entry.IsDir() {
			if d.isExcludedDir(name) || d.isIgnored(rel) || d.isIgnored(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		typ := entry.Type()
		if !typ.IsRegular() && typ&fs.ModeSymlink == 0 {
			return nil
		}
		if !d.IsSource(name) || d.isIgnored(rel) {
			return nil
		}

		res.Paths = append(res.Paths, path)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	slices.SortFunc(res.Paths, func(a, b string) int {
		return strings.Compare(catalog.Normalize(a), catalog.Normalize(b))
	})
	return res, nil
}

// underStart maps a path below walkRoot onto start.
func underStart(start, walkRoot, path string) string {
	if walkRoot == start {
		return path
	}
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil {
		return path
	}
	if rel == "." {
		return start
	}
	return filepath.Join(start, rel)
}

// relativeTo returns path relative to start with forward slashes, for
// matching against ignore patterns.
func relativeTo(start, path string) string {
	rel, err := filepath.Rel(start, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
