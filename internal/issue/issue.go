// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	CompilerNotFoundId Id = iota + 1
	CompileFailedId
	InvocationFailedId
	DiscoveryFailedId
	KeyNotFoundId
	SourceNotFoundId
	ConfigLoadFailedId
)

const (
	blueprintDocs HttpLink = "https://gnome.pages.gitlab.gnome.org/blueprint-compiler/"
	setupDocs     HttpLink = "https://gnome.pages.gitlab.gnome.org/blueprint-compiler/setup.html"
	builderDocs   HttpLink = "https://docs.gtk.org/gtk4/class.Builder.html"
	cueDocs       HttpLink = "https://cuelang.org/docs/"
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to look up the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // never empty
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the full help page, including the link section.
func (i *Issue) Markdown() string {
	var md strings.Builder
	md.WriteString(strings.TrimSpace(string(i.mdMsg)))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	md.WriteString("\n")
	return md.String()
}

// Render renders the help page for a terminal with the given glamour style
// ("auto", "dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	compilerNotFoundIssue = &Issue{
		id: CompilerNotFoundId,
		mdMsg: `
# blueprint-compiler not found

None of the configured compiler candidates could be started. blpembed looks,
in order, for:

1. ` + "`blueprint-compiler`" + ` on your $PATH
2. ` + "`./blueprint-compiler/blueprint-compiler.py`" + ` in the project root
3. ` + "`blueprint-compiler.py`" + ` on your $PATH
4. ` + "`./blueprint-compiler/blueprint-compiler`" + ` in the project root

## Things you can try
- Install it from your distribution, for example:
~~~
$ sudo dnf install blueprint-compiler
~~~
- Or vendor it into the project root:
~~~
$ git clone https://gitlab.gnome.org/GNOME/blueprint-compiler.git
~~~
- Or point blpembed at your copy in ` + "`blpembed.cue`" + `:
~~~cue
compiler: candidates: [{command: "python3 tools/blueprint-compiler.py"}]
~~~`,
		docLinks: []HttpLink{setupDocs},
	}

	compileFailedIssue = &Issue{
		id: CompileFailedId,
		mdMsg: `
# Blueprint compilation failed

blueprint-compiler ran but rejected one or more sources. Syntax errors are
printed on standard output with exit code 1; other problems (missing files,
bad arguments) are printed on standard error.

## Things you can try
- Fix every file listed above; all failing files are reported in one run.
- Compile a single file directly to see the compiler's own output:
~~~
$ blueprint-compiler compile path/to/window.blp
~~~`,
		docLinks: []HttpLink{blueprintDocs},
	}

	invocationFailedIssue = &Issue{
		id: InvocationFailedId,
		mdMsg: `
# blueprint-compiler could not be run

A compiler was found but starting or running it failed, for example because it
is not executable, it timed out, or it printed output that is not valid UTF-8.
No further candidates were tried.

## Things you can try
- Make the script executable:
~~~
$ chmod +x blueprint-compiler/blueprint-compiler.py
~~~
- Raise or remove ` + "`compiler.timeout`" + ` in ` + "`blpembed.cue`" + `.
- Run with ` + "`--verbose`" + ` to see which candidate was used.`,
		docLinks: []HttpLink{setupDocs},
	}

	discoveryFailedIssue = &Issue{
		id: DiscoveryFailedId,
		mdMsg: `
# Could not read the source tree

The start directory, or a directory below it, could not be read. Discovery
stops on the first unreadable directory so that no catalog is built from a
partial tree.

## Things you can try
- Check that the directory exists and that you can list it.
- Exclude directories you cannot read with ` + "`discovery.exclude_dirs`" + ` or
  ` + "`discovery.ignore`" + ` in ` + "`blpembed.cue`" + `.`,
		docLinks: []HttpLink{blueprintDocs},
	}

	keyNotFoundIssue = &Issue{
		id: KeyNotFoundId,
		mdMsg: `
# Blueprint not in catalog

The catalog has no entry for the requested path. Keys are project-relative
paths with forward slashes and no leading ` + "`./`" + `.

## Things you can try
- List the keys of the catalog sources:
~~~
$ blpembed discover
~~~
- Regenerate the catalog after adding the file:
~~~
$ go generate ./...
~~~`,
		docLinks: []HttpLink{builderDocs},
	}

	sourceNotFoundIssue = &Issue{
		id: SourceNotFoundId,
		mdMsg: `
# Blueprint source does not exist

The requested ` + "`.blp`" + ` file is not on disk, so no catalog can contain it.

## Things you can try
- Check the spelling of the path; it is relative to the project root.
- Use ` + "`--root`" + ` if the project root is not the current directory.`,
		docLinks: []HttpLink{blueprintDocs},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

` + "`blpembed.cue`" + ` could not be read, is not valid CUE, or does not match the
configuration schema.

## Things you can try
- Print the effective configuration:
~~~
$ blpembed config show
~~~
- Write a fresh file with every default:
~~~
$ blpembed config init
~~~`,
		docLinks: []HttpLink{cueDocs},
	}

	issues = map[Id]*Issue{
		compilerNotFoundIssue.id: compilerNotFoundIssue,
		compileFailedIssue.id:    compileFailedIssue,
		invocationFailedIssue.id: invocationFailedIssue,
		discoveryFailedIssue.id:  discoveryFailedIssue,
		keyNotFoundIssue.id:      keyNotFoundIssue,
		sourceNotFoundIssue.id:   sourceNotFoundIssue,
		configLoadFailedIssue.id: configLoadFailedIssue,
	}
)

// Values returns every issue ordered by ID.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
