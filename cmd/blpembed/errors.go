// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blpembed/blpembed/internal/compiler"
	"github.com/blpembed/blpembed/internal/config"
	"github.com/blpembed/blpembed/internal/discovery"
	"github.com/blpembed/blpembed/internal/generate"
	"github.com/blpembed/blpembed/internal/issue"
	"github.com/blpembed/blpembed/pkg/catalog"
)

// actionable wraps a domain error from operation on resource into an
// issue.ActionableError linked to the matching help page. Errors that are
// already actionable are returned unchanged.
func actionable(err error, operation, resource string) error {
	if err == nil {
		return nil
	}
	if _, ok := issue.Lookup(err); ok {
		return err
	}

	ec := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		Wrap(err)

	var (
		notFound   *compiler.ToolNotFoundError
		compileErr *compiler.CompileError
		aggregate  *generate.AggregateCompileError
		srcErr     *generate.SourceNotFoundError
		keyErr     *catalog.KeyNotFoundError
	)
	switch {
	case errors.As(err, &notFound):
		ec.WithIssue(issue.CompilerNotFoundId).
			WithSuggestion("Install blueprint-compiler and make sure it is on your PATH").
			WithSuggestion("Or point compiler.candidates in " + config.FileName + " at a project-local copy")
	case errors.Is(err, compiler.ErrInvocation):
		ec.WithIssue(issue.InvocationFailedId).
			WithSuggestion("Check that the compiler is executable and that compiler.timeout is long enough")
	case errors.As(err, &aggregate):
		ec.WithIssue(issue.CompileFailedId).
			WithSuggestion(fmt.Sprintf("Fix the reported errors in %s", strings.Join(aggregate.Keys(), ", ")))
	case errors.As(err, &compileErr):
		ec.WithIssue(issue.CompileFailedId)
		if compileErr.Exited && !compileErr.ExitCode.IsSyntaxError() {
			ec.WithSuggestion(fmt.Sprintf("blueprint-compiler exited with status %s; check that it runs outside blpembed", compileErr.ExitCode))
		} else {
			ec.WithSuggestion("Fix the reported syntax error and run the command again")
		}
	case compiler.IsCompileError(err):
		ec.WithIssue(issue.CompileFailedId)
	case errors.Is(err, discovery.ErrDiscovery):
		ec.WithIssue(issue.DiscoveryFailedId).
			WithSuggestion("Check that the directory exists and every subdirectory is readable")
	case errors.As(err, &srcErr):
		ec.WithIssue(issue.SourceNotFoundId).
			WithSuggestion(fmt.Sprintf("Check that %s exists relative to the project root", srcErr.Key))
	case errors.As(err, &keyErr):
		ec.WithIssue(issue.KeyNotFoundId).
			WithSuggestion("Run 'blpembed discover' to list the sources a catalog would contain").
			WithSuggestion("Regenerate the catalog if the source was added recently")
	}
	return ec.BuildError()
}

// writeArtifact writes a generated file atomically.
func writeArtifact(path string, data []byte) error {
	if err := generate.WriteFile(path, data); err != nil {
		return issue.NewErrorContext().
			WithOperation("write artifact").
			WithResource(path).
			WithSuggestion("Check that the output directory exists and is writable").
			Wrap(err).
			BuildError()
	}
	return nil
}

// renderError prints err for the user. Actionable errors are followed by their
// suggestions and, in verbose mode, by the error chain and the help page.
func renderError(w io.Writer, err error, verbose bool, scheme config.ColorScheme) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+err.Error())

	ae, ok := issue.Lookup(err)
	if !ok {
		return
	}
	if detail := details(ae, verbose); detail != "" {
		fmt.Fprintln(w, detail)
	}

	if help := ae.Help(); help != nil {
		if !verbose {
			fmt.Fprintln(w, renderHintStyle.Render("Run with --verbose for more help."))
			return
		}
		rendered, renderErr := help.Render(glamourStyle(scheme))
		if renderErr != nil {
			fmt.Fprintln(w, help.Markdown())
			return
		}
		fmt.Fprint(w, rendered)
	}
}

func details(ae *issue.ActionableError, verbose bool) string {
	full := ae.Format(verbose)
	if rest, ok := strings.CutPrefix(full, ae.Error()); ok {
		return strings.TrimLeft(rest, "\n")
	}
	return ""
}

func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return scheme.String()
	default:
		return "auto"
	}
}
