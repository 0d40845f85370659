// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/blpembed/blpembed/pkg/catalog"
)

var errIsDirectory = errors.New("is a directory")

// CheckSource verifies that the source named by key exists under root as a
// file. It is a cheaper, earlier check than a catalog lookup and fails with a
// *SourceNotFoundError rather than a catalog.KeyNotFoundError.
func CheckSource(root, key string) error {
	key = catalog.Normalize(key)
	path := key
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, filepath.FromSlash(key))
	}

	info, err := os.Stat(path)
	if err != nil {
		return &SourceNotFoundError{Key: key, Path: path, Err: err}
	}
	if info.IsDir() {
		return &SourceNotFoundError{Key: key, Path: path, Err: errIsDirectory}
	}
	return nil
}
