// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaultCandidates_Order(t *testing.T) {
	t.Parallel()

	got := DefaultCandidates()
	want := []Candidate{
		{Command: "blueprint-compiler"},
		{Command: filepath.Join("blueprint-compiler", "blueprint-compiler.py"), ProjectRelative: true},
		{Command: "blueprint-compiler.py"},
		{Command: filepath.Join("blueprint-compiler", "blueprint-compiler"), ProjectRelative: true},
	}
	if len(got) != len(want) {
		t.Fatalf("len(DefaultCandidates()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Command != want[i].Command || got[i].ProjectRelative != want[i].ProjectRelative {
			t.Errorf("candidate[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCandidate_Arguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate Candidate
		want      []string
	}{
		{
			name:      "default template",
			candidate: Candidate{Command: "blueprint-compiler"},
			want:      []string{"compile", "ui/window.blp"},
		},
		{
			name:      "custom template",
			candidate: Candidate{Command: "bpc", Args: []string{"compile", "--typelib-path=x", SourcePlaceholder}},
			want:      []string{"compile", "--typelib-path=x", "ui/window.blp"},
		},
		{
			name:      "placeholder inside argument",
			candidate: Candidate{Command: "bpc", Args: []string{"--input=" + SourcePlaceholder}},
			want:      []string{"--input=ui/window.blp"},
		},
		{
			name:      "explicit empty template",
			candidate: Candidate{Command: "bpc", Args: []string{}},
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.candidate.arguments("ui/window.blp")
			if !slices.Equal(got, tt.want) {
				t.Errorf("arguments() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCandidate_Executable(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	onPath := Candidate{Command: "blueprint-compiler"}
	if got := onPath.executable(root); got != "blueprint-compiler" {
		t.Errorf("executable() = %q, want search-path name", got)
	}

	relative := Candidate{Command: filepath.Join("blueprint-compiler", "blueprint-compiler.py"), ProjectRelative: true}
	want := filepath.Join(root, "blueprint-compiler", "blueprint-compiler.py")
	if got := relative.executable(root); got != want {
		t.Errorf("executable() = %q, want %q", got, want)
	}

	abs := Candidate{Command: want, ProjectRelative: true}
	if got := abs.executable("/elsewhere"); got != want {
		t.Errorf("executable() for absolute command = %q, want %q", got, want)
	}
}

func TestCandidate_String(t *testing.T) {
	t.Parallel()

	c := Candidate{Command: "blueprint-compiler/blueprint-compiler.py", ProjectRelative: true}
	if got, want := c.String(), "./blueprint-compiler/blueprint-compiler.py compile {source}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseCandidate(t *testing.T) {
	t.Setenv("BLPEMBED_TEST_TOOLS", "/opt/tools")

	tests := []struct {
		name     string
		line     string
		args     []string
		wantCmd  string
		wantArgs []string
		wantErr  error
	}{
		{
			name:     "single word",
			line:     "blueprint-compiler",
			wantCmd:  "blueprint-compiler",
			wantArgs: []string{"compile", SourcePlaceholder},
		},
		{
			name:     "interpreter and script",
			line:     "python3 'blueprint compiler/bpc.py'",
			wantCmd:  "python3",
			wantArgs: []string{"blueprint compiler/bpc.py", "compile", SourcePlaceholder},
		},
		{
			name:     "environment expansion",
			line:     "$BLPEMBED_TEST_TOOLS/bpc",
			args:     []string{"compile", "--output=-", SourcePlaceholder},
			wantCmd:  "/opt/tools/bpc",
			wantArgs: []string{"compile", "--output=-", SourcePlaceholder},
		},
		{
			name:    "empty",
			line:    "   ",
			wantErr: ErrEmptyCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCandidate(tt.line, tt.args, false)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseCandidate(%q) error = %v, want %v", tt.line, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCandidate(%q) error = %v", tt.line, err)
			}
			if c.Command != tt.wantCmd {
				t.Errorf("Command = %q, want %q", c.Command, tt.wantCmd)
			}
			if !slices.Equal(c.Args, tt.wantArgs) {
				t.Errorf("Args = %v, want %v", c.Args, tt.wantArgs)
			}
		})
	}
}

func TestParseCandidate_UnbalancedQuote(t *testing.T) {
	t.Parallel()

	if _, err := ParseCandidate("python3 'unterminated", nil, false); err == nil {
		t.Error("ParseCandidate() with unbalanced quote returned nil error")
	}
}
