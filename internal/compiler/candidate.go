// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"mvdan.cc/sh/v3/shell"
)

const (
	// SourcePlaceholder is replaced by the source path in Candidate arguments.
	SourcePlaceholder = "{source}"

	// waitDelay bounds how long output copying may continue after the
	// compiler is killed, in case it left children holding the pipes.
	waitDelay = 2 * time.Second
)

// ErrEmptyCommand is returned when a candidate command line has no words.
var ErrEmptyCommand = errors.New("empty compiler command")

type (
	// Request is the input to a single compile attempt.
	Request struct {
		// Root is the project root and the child's working directory.
		Root string
		// Source is the .blp path passed to the compiler, relative to Root.
		Source string
	}

	// Strategy is one way of compiling a source file. Compile returns an
	// error wrapping ErrNotApplicable when the strategy cannot be resolved,
	// which tells the Invoker to move on to the next strategy.
	Strategy interface {
		Compile(ctx context.Context, req Request) (string, error)
		String() string
	}

	// Candidate is a possible location of the compiler executable together
	// with the arguments to pass it.
	Candidate struct {
		// Command is an executable name looked up in $PATH, or a path.
		Command string
		// Args is the argument template. SourcePlaceholder is replaced by the
		// source path. A nil Args means DefaultArgs.
		Args []string
		// ProjectRelative resolves Command against the project root instead of $PATH.
		ProjectRelative bool
	}
)

// DefaultArgs is the argument template used by the blueprint-compiler CLI.
func DefaultArgs() []string {
	return []string{"compile", SourcePlaceholder}
}

// DefaultCandidates returns the built-in candidate list, most likely first.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{Command: "blueprint-compiler"},
		{Command: filepath.Join("blueprint-compiler", "blueprint-compiler.py"), ProjectRelative: true},
		{Command: "blueprint-compiler.py"},
		{Command: filepath.Join("blueprint-compiler", "blueprint-compiler"), ProjectRelative: true},
	}
}

// ParseCandidate builds a Candidate from a shell-like command line such as
// "python3 tools/blueprint-compiler.py". Words after the first become leading
// arguments in front of args (or DefaultArgs when args is nil). Environment
// variables in the line are expanded.
func ParseCandidate(line string, args []string, projectRelative bool) (Candidate, error) {
	fields, err := shell.Fields(line, os.Getenv)
	if err != nil {
		return Candidate{}, fmt.Errorf("parse compiler command %q: %w", line, err)
	}
	if len(fields) == 0 {
		return Candidate{}, ErrEmptyCommand
	}

	if args == nil {
		args = DefaultArgs()
	}
	full := make([]string, 0, len(fields)-1+len(args))
	full = append(full, fields[1:]...)
	full = append(full, args...)

	return Candidate{
		Command:         fields[0],
		Args:            full,
		ProjectRelative: projectRelative,
	}, nil
}

// String returns the command line this candidate represents.
func (c Candidate) String() string {
	cmd := c.Command
	if c.ProjectRelative && !filepath.IsAbs(cmd) {
		cmd = "./" + filepath.ToSlash(cmd)
	}
	args := c.Args
	if args == nil {
		args = DefaultArgs()
	}
	if len(args) == 0 {
		return cmd
	}
	return cmd + " " + strings.Join(args, " ")
}

// executable returns the path or name handed to exec for the given root.
func (c Candidate) executable(root string) string {
	if c.ProjectRelative && !filepath.IsAbs(c.Command) {
		if root == "" {
			root = "."
		}
		abs, err := filepath.Abs(filepath.Join(root, c.Command))
		if err != nil {
			return filepath.Join(root, c.Command)
		}
		return abs
	}
	return searchPath(c.Command)
}

// searchPath resolves a bare command name against $PATH. exec.LookPath skips
// files that are not executable; when it finds nothing, the first such file
// is returned instead so starting it fails with permission denied rather
// than looking like a missing tool.
func searchPath(name string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		return name
	}
	if _, err := exec.LookPath(name); err == nil || runtime.GOOS == "windows" {
		return name
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return name
}

// arguments expands the argument template for source.
func (c Candidate) arguments(source string) []string {
	tmpl := c.Args
	if tmpl == nil {
		tmpl = DefaultArgs()
	}
	args := make([]string, len(tmpl))
	for i, a := range tmpl {
		args[i] = strings.ReplaceAll(a, SourcePlaceholder, source)
	}
	return args
}

// Compile runs the candidate and returns its stdout on success.
func (c Candidate) Compile(ctx context.Context, req Request) (string, error) {
	cmd := exec.CommandContext(ctx, c.executable(req.Root), c.arguments(req.Source)...)
	cmd.Dir = req.Root
	cmd.WaitDelay = waitDelay

	captured := &capturedOutput{}
	captured.attach(cmd)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &InvocationError{Command: c.String(), Err: ctxErr}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", compileErrorFrom(req.Source, exitErr, captured)
		}
		if isNotFound(err) {
			return "", fmt.Errorf("%w: %s: %w", ErrNotApplicable, c, err)
		}
		return "", &InvocationError{Command: c.String(), Err: err}
	}

	out := captured.stdout.Bytes()
	if !utf8.Valid(out) {
		return "", &InvocationError{Command: c.String(), Err: ErrInvalidOutput}
	}
	return string(out), nil
}
