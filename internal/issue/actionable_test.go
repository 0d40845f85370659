// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "compile blueprint"},
			want: "failed to compile blueprint",
		},
		{
			name: "operation with resource",
			err:  &ActionableError{Operation: "compile blueprint", Resource: "window.blp"},
			want: "failed to compile blueprint: window.blp",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "look up blueprint",
				Resource:  "ui.json",
				Cause:     errors.New(`no compiled blueprint for "about.blp"`),
			},
			want: `failed to look up blueprint: ui.json: no compiled blueprint for "about.blp"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("exec: permission denied")
	err := &ActionableError{
		Operation:   "run blueprint-compiler",
		Suggestions: []string{"chmod +x the script", "run with --verbose"},
		Cause:       fmt.Errorf("starting candidate:\nsecond line: %w", root),
	}

	short := err.Format(false)
	if !strings.Contains(short, "\n  • chmod +x the script\n  • run with --verbose") {
		t.Errorf("Format(false) missing suggestions:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("Format(false) should not include the chain:\n%s", short)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "2. *errors.errorString: exec: permission denied") {
		t.Errorf("Format(true) missing chain:\n%s", verbose)
	}
	if !strings.Contains(verbose, "1. *fmt.wrapError: starting candidate: …") {
		t.Errorf("Format(true) should shorten multi-line causes:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := NewErrorContext().
		WithOperation("load configuration").
		WithResource("blpembed.cue").
		WithSuggestion("check the syntax").
		WithSuggestions("run 'blpembed config show'", "run 'blpembed config init'").
		WithIssue(ConfigLoadFailedId).
		Wrap(cause).
		BuildError()

	ae, ok := Lookup(fmt.Errorf("outer: %w", err))
	if !ok {
		t.Fatalf("Lookup() did not find the ActionableError in %v", err)
	}
	if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v, want 3", ae.Suggestions)
	}
	if ae.Help() != Get(ConfigLoadFailedId) {
		t.Error("Help() does not return the linked issue")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().Wrap(errors.New("x")).Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
	if (&ActionableError{Operation: "x"}).Help() != nil {
		t.Error("Help() without issue should return nil")
	}
}
