// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"strconv"
	"strings"
)

// Literal returns s as a Go string literal. A raw literal keeps the XML
// readable in generated files; an interpreted literal is used when s holds
// characters a raw literal cannot carry (backquote, carriage return, NUL,
// byte order mark).
func Literal(s string) string {
	if strings.ContainsAny(s, "`\r\x00\ufeff") {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}
