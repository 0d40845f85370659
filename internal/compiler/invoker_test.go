// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blpembed/blpembed/internal/testutil"
)

const missingCommand = "blpembed-test-no-such-compiler"

type stubStrategy struct {
	name   string
	output string
	err    error
	calls  *[]string
}

func (s stubStrategy) Compile(_ context.Context, _ Request) (string, error) {
	if s.calls != nil {
		*s.calls = append(*s.calls, s.name)
	}
	return s.output, s.err
}

func (s stubStrategy) String() string { return s.name }

func TestInvoker_StrategyOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	inv := NewInvoker(t.TempDir(), WithStrategies(
		stubStrategy{name: "first", err: fmt.Errorf("%w: missing", ErrNotApplicable), calls: &calls},
		stubStrategy{name: "second", output: "<interface/>", calls: &calls},
		stubStrategy{name: "third", output: "never", calls: &calls},
	))

	outcome := inv.Invoke(context.Background(), "a.blp")
	if !outcome.OK() {
		t.Fatalf("Invoke() error = %v", outcome.Err)
	}
	if outcome.Output != "<interface/>" || outcome.Strategy != "second" {
		t.Errorf("Invoke() = %+v, want output from second strategy", outcome)
	}
	if strings.Join(calls, ",") != "first,second" {
		t.Errorf("strategies called = %v, want [first second]", calls)
	}
}

func TestInvoker_ApplicableFailureStops(t *testing.T) {
	t.Parallel()

	var calls []string
	failure := &InvocationError{Command: "first", Err: os.ErrPermission}
	inv := NewInvoker(t.TempDir(), WithStrategies(
		stubStrategy{name: "first", err: failure, calls: &calls},
		stubStrategy{name: "second", output: "never", calls: &calls},
	))

	_, err := inv.Compile(context.Background(), "a.blp")
	if !errors.Is(err, ErrInvocation) {
		t.Fatalf("Compile() error = %v, want ErrInvocation", err)
	}
	if len(calls) != 1 {
		t.Errorf("strategies called = %v, want only the first", calls)
	}
}

func TestInvoker_NoStrategiesIsToolNotFound(t *testing.T) {
	t.Parallel()

	inv := NewInvoker(t.TempDir(), WithStrategies())
	_, err := inv.Compile(context.Background(), "a.blp")
	if !IsToolNotFound(err) {
		t.Errorf("Compile() error = %v, want tool not found", err)
	}
}

func TestInvoker_FirstFoundCandidateWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	bin := t.TempDir()
	first := testutil.WriteFakeCompiler(t, bin, "first-compiler")
	second := testutil.WriteScript(t, bin, "second-compiler", "#!/bin/sh\necho second\n")
	testutil.MustWriteFile(t, root, "a.blp", "template $Window : Gtk.Window {}\n")

	inv := NewInvoker(root, WithCandidates(
		Candidate{Command: missingCommand},
		Candidate{Command: first},
		Candidate{Command: second},
	))

	outcome := inv.Invoke(context.Background(), "a.blp")
	if !outcome.OK() {
		t.Fatalf("Invoke() error = %v", outcome.Err)
	}
	want := testutil.FakeCompilerOutput("template $Window : Gtk.Window {}\n")
	if outcome.Output != want {
		t.Errorf("Output = %q, want %q", outcome.Output, want)
	}
}

func TestInvoker_ProjectRelativeCandidate(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFakeCompiler(t, filepath.Join(root, "blueprint-compiler"), "blueprint-compiler.py")
	testutil.MustWriteFile(t, root, "ui/main.blp", "Gtk.Box {}\n")

	inv := NewInvoker(root, WithCandidates(
		Candidate{Command: missingCommand},
		Candidate{Command: filepath.Join("blueprint-compiler", "blueprint-compiler.py"), ProjectRelative: true},
	))

	out, err := inv.Compile(context.Background(), "ui/main.blp")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if out != testutil.FakeCompilerOutput("Gtk.Box {}\n") {
		t.Errorf("Compile() = %q", out)
	}
}

func TestInvoker_CompileError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	compiler := testutil.WriteFakeCompiler(t, t.TempDir(), "blueprint-compiler")
	testutil.MustWriteFile(t, root, "bad.blp", testutil.InvalidMarker+"\n")

	inv := NewInvoker(root, WithCandidates(Candidate{Command: compiler}))
	_, err := inv.Compile(context.Background(), "bad.blp")

	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("Compile() error = %v, want *CompileError", err)
	}
	if !compileErr.Exited || compileErr.ExitCode != 1 || !compileErr.ExitCode.IsSyntaxError() {
		t.Errorf("ExitCode = %v (exited %v), want 1", compileErr.ExitCode, compileErr.Exited)
	}
	if !strings.Contains(compileErr.Stdout, "unexpected token") {
		t.Errorf("Stdout = %q, want syntax diagnostic", compileErr.Stdout)
	}
	if !strings.HasPrefix(err.Error(), "blueprint-compiler exit code: 1\n") {
		t.Errorf("Error() = %q, want exit code header", err.Error())
	}
	if IsToolNotFound(err) {
		t.Error("compile error must be distinguishable from tool not found")
	}
}

func TestInvoker_CompileErrorKeepsStderr(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	script := testutil.WriteScript(t, t.TempDir(), "bpc", "#!/bin/sh\necho 'partial output'\necho 'Gtk typelib missing' >&2\nexit 3\n")

	inv := NewInvoker(root, WithCandidates(Candidate{Command: script}))
	_, err := inv.Compile(context.Background(), "a.blp")

	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("Compile() error = %v, want *CompileError", err)
	}
	msg := err.Error()
	for _, want := range []string{"exit code: 3", "partial output", "Gtk typelib missing"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
	if got := compileErr.Diagnostic(); got != "partial output\nGtk typelib missing" {
		t.Errorf("Diagnostic() = %q", got)
	}
}

func TestInvoker_ToolNotFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inv := NewInvoker(root, WithCandidates(
		Candidate{Command: missingCommand},
		Candidate{Command: filepath.Join("blueprint-compiler", "blueprint-compiler.py"), ProjectRelative: true},
	))

	outcome := inv.Invoke(context.Background(), "a.blp")
	var notFound *ToolNotFoundError
	if !errors.As(outcome.Err, &notFound) {
		t.Fatalf("Invoke() error = %v, want *ToolNotFoundError", outcome.Err)
	}
	if len(notFound.Tried) != 2 {
		t.Errorf("Tried = %v, want 2 entries", notFound.Tried)
	}
	if IsCompileError(outcome.Err) || errors.Is(outcome.Err, ErrInvocation) {
		t.Error("tool not found must be distinguishable from compile and invocation errors")
	}
	if outcome.Strategy != "" {
		t.Errorf("Strategy = %q, want empty", outcome.Strategy)
	}
}

func TestInvoker_PermissionDeniedStopsSearch(t *testing.T) {
	t.Parallel()
	testutil.SkipIfNoShell(t)

	root := t.TempDir()
	testutil.MustWriteFile(t, root, "blueprint-compiler/blueprint-compiler.py", "#!/bin/sh\necho never\n")
	fallback := testutil.WriteFakeCompiler(t, t.TempDir(), "blueprint-compiler")

	inv := NewInvoker(root, WithCandidates(
		Candidate{Command: filepath.Join("blueprint-compiler", "blueprint-compiler.py"), ProjectRelative: true},
		Candidate{Command: fallback},
	))

	_, err := inv.Compile(context.Background(), "a.blp")
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("Compile() error = %v, want *InvocationError", err)
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("Compile() error = %v, want permission denied cause", err)
	}
}

// Not parallel: modifies PATH.
func TestInvoker_NonExecutableOnPathStopsSearch(t *testing.T) {
	testutil.SkipIfNoShell(t)

	bin := t.TempDir()
	testutil.MustWriteFile(t, bin, "blueprint-compiler", "#!/bin/sh\necho never\n")
	t.Setenv("PATH", bin)
	fallback := testutil.WriteFakeCompiler(t, t.TempDir(), "fallback")

	inv := NewInvoker(t.TempDir(), WithCandidates(
		Candidate{Command: "blueprint-compiler"},
		Candidate{Command: fallback},
	))

	_, err := inv.Compile(context.Background(), "a.blp")
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("Compile() error = %v, want *InvocationError", err)
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("Compile() error = %v, want permission denied cause", err)
	}
}

func TestSearchPath(t *testing.T) {
	testutil.SkipIfNoShell(t)

	bin := t.TempDir()
	plain := testutil.MustWriteFile(t, bin, "plain", "data")
	runnable := testutil.WriteScript(t, bin, "runnable", "#!/bin/sh\n")
	t.Setenv("PATH", bin)

	tests := map[string]string{
		"plain":        plain,
		"runnable":     "runnable",
		"absent":       "absent",
		"./local/tool": "./local/tool",
		runnable:       runnable,
	}
	for name, want := range tests {
		if got := searchPath(name); got != want {
			t.Errorf("searchPath(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestInvoker_InvalidUTF8Output(t *testing.T) {
	t.Parallel()

	script := testutil.WriteScript(t, t.TempDir(), "bpc", "#!/bin/sh\nprintf '\\377\\376'\n")
	inv := NewInvoker(t.TempDir(), WithCandidates(Candidate{Command: script}))

	_, err := inv.Compile(context.Background(), "a.blp")
	if !errors.Is(err, ErrInvalidOutput) || !errors.Is(err, ErrInvocation) {
		t.Errorf("Compile() error = %v, want invalid output invocation error", err)
	}
}

func TestInvoker_Timeout(t *testing.T) {
	t.Parallel()

	script := testutil.WriteScript(t, t.TempDir(), "bpc", "#!/bin/sh\nexec sleep 5\n")
	inv := NewInvoker(t.TempDir(),
		WithCandidates(Candidate{Command: script}),
		WithTimeout(100*time.Millisecond),
	)

	start := time.Now()
	_, err := inv.Compile(context.Background(), "a.blp")
	if !errors.Is(err, context.DeadlineExceeded) || !errors.Is(err, ErrInvocation) {
		t.Fatalf("Compile() error = %v, want deadline exceeded invocation error", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("Compile() took %v, timeout was not enforced", elapsed)
	}
}

func TestInvoker_Strategies(t *testing.T) {
	t.Parallel()

	inv := NewInvoker("/project")
	got := inv.Strategies()
	if len(got) != len(DefaultCandidates()) {
		t.Fatalf("Strategies() = %v", got)
	}
	if got[0] != "blueprint-compiler compile {source}" {
		t.Errorf("Strategies()[0] = %q", got[0])
	}
	if inv.Root() != "/project" {
		t.Errorf("Root() = %q", inv.Root())
	}
}
