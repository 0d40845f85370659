// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"path/filepath"
	"strings"
)

// Normalize converts a source path into its catalog key form: forward
// slashes, with every leading "./" removed. Normalize is idempotent.
func Normalize(path string) string {
	key := filepath.ToSlash(path)
	for strings.HasPrefix(key, "./") {
		key = strings.TrimLeft(key[2:], "/")
	}
	return key
}

// Equal reports whether two source paths name the same catalog key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
