// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	want := []Id{
		CompilerNotFoundId,
		CompileFailedId,
		InvocationFailedId,
		DiscoveryFailedId,
		KeyNotFoundId,
		SourceNotFoundId,
		ConfigLoadFailedId,
	}

	values := Values()
	if len(values) != len(want) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(want))
	}
	for i, issue := range values {
		if issue.Id() != want[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, issue.Id(), want[i])
		}
		if Get(want[i]) != issue {
			t.Errorf("Get(%d) does not return the catalog entry", want[i])
		}
	}
}

func TestIssues_HaveContentAndDocs(t *testing.T) {
	t.Parallel()

	for _, issue := range Values() {
		if !strings.HasPrefix(strings.TrimSpace(string(issue.MarkdownMsg())), "# ") {
			t.Errorf("issue %d has no title", issue.Id())
		}
		if len(issue.DocLinks()) == 0 {
			t.Errorf("issue %d has no documentation links", issue.Id())
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if Get(0) != nil || Get(Id(999)) != nil {
		t.Error("Get() of an unknown id should return nil")
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	issue := Get(CompilerNotFoundId)
	links := issue.DocLinks()
	links[0] = "changed"
	if issue.DocLinks()[0] == "changed" {
		t.Error("DocLinks() exposes the internal slice")
	}
}

func TestIssue_Markdown(t *testing.T) {
	t.Parallel()

	md := Get(CompilerNotFoundId).Markdown()
	for _, s := range []string{
		"# blueprint-compiler not found",
		"`blueprint-compiler`",
		"## See also",
		"- <" + string(setupDocs) + ">",
	} {
		if !strings.Contains(md, s) {
			t.Errorf("Markdown() missing %q", s)
		}
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(KeyNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Blueprint not in catalog") {
		t.Errorf("Render() output missing title:\n%s", out)
	}
}

func TestIssue_RenderUnknownStyle(t *testing.T) {
	t.Parallel()

	if _, err := Get(KeyNotFoundId).Render("no-such-style"); err == nil {
		t.Error("Render() with an unknown style should fail")
	}
}
