// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blpembed/blpembed/pkg/catalog"
)

// ValidateIdentifier checks that name can be used as a Go identifier.
func ValidateIdentifier(kind, name string) error {
	if !token.IsIdentifier(name) {
		return fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, kind, name)
	}
	return nil
}

// namer hands out exported, collision-free constant names derived from
// catalog keys.
type namer struct {
	prefix string
	suffix string
	used   map[string]bool
}

func newNamer(prefix, suffix string, reserved ...string) *namer {
	n := &namer{prefix: prefix, suffix: suffix, used: make(map[string]bool)}
	for _, r := range reserved {
		n.used[r] = true
	}
	return n
}

// name derives an identifier from key: "dialogs/about_window.blp" with prefix
// "UI" becomes "UIDialogsAboutWindow". Later collisions get a numeric suffix.
func (n *namer) name(key string) string {
	base := n.prefix + camel(strings.TrimSuffix(catalog.Normalize(key), n.suffix))
	if r, _ := utf8.DecodeRuneInString(base); base == "" || !unicode.IsUpper(r) {
		base = "X" + base
	}

	name := base
	for i := 2; n.used[name] || token.IsKeyword(name); i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	n.used[name] = true
	return name
}

// camel joins the letter and digit runs of s, upper-casing the first rune of each.
func camel(s string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(word[size:])
	}
	return b.String()
}

// ConstName returns the constant name catalog mode would give key, without
// collision handling. Single mode uses it when no name is requested.
func ConstName(prefix, suffix, key string) string {
	return newNamer(prefix, suffix).name(key)
}
