// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	// InvalidMarker makes the fake compiler reject a source file that contains it.
	InvalidMarker = "INVALID"

	// fakeCompilerScript mimics blueprint-compiler: `compile <path>` prints the
	// source wrapped in an <interface> element, or reports a syntax error on
	// stdout with exit code 1 when the source contains InvalidMarker.
	fakeCompilerScript = `#!/bin/sh
if [ "$1" != "compile" ]; then
	echo "usage: blueprint-compiler compile <file>" >&2
	exit 2
fi
if [ ! -f "$2" ]; then
	echo "error: could not open $2" >&2
	exit 2
fi
if grep -q ` + InvalidMarker + ` "$2"; then
	echo "$2:1:1: error: unexpected token"
	exit 1
fi
printf '<?xml version="1.0" encoding="UTF-8"?>\n<interface>\n'
cat "$2"
printf '</interface>\n'
`
)

// FakeCompilerOutput returns what the fake compiler prints for source content.
func FakeCompilerOutput(content string) string {
	return "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<interface>\n" + content + "</interface>\n"
}

// SkipIfNoShell skips tests that rely on /bin/sh scripts.
func SkipIfNoShell(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script compiler fakes are not supported on Windows")
	}
}

// WriteFakeCompiler writes an executable fake blueprint-compiler to dir/name
// and returns its path.
func WriteFakeCompiler(t testing.TB, dir, name string) string {
	t.Helper()
	return WriteScript(t, dir, name, fakeCompilerScript)
}

// WriteScript writes an executable shell script to dir/name and returns its path.
func WriteScript(t testing.TB, dir, name, script string) string {
	t.Helper()
	SkipIfNoShell(t)
	path := filepath.Join(dir, name)
	MustMkdirAll(t, filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write script %s: %v", path, err)
	}
	return path
}
