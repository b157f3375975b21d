// Package render turns the aggregated blurbs into the release notes and
// changelog documents. The package prepares the data views; the text layout
// lives in text/template files, embedded by default and overridable from a
// directory.
package render

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"text/template"

	"github.com/ariel-frischer/blurbs/internal/blurb"
)

// Template names. The artifact written for a template is its name without
// the .tmpl extension.
const (
	ReleaseTemplate   = "RELEASE.txt.tmpl"
	ChangelogTemplate = "CHANGES.txt.tmpl"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Renderer writes a named document for the given data.
type Renderer interface {
	Render(name string, data any, w io.Writer) error
}

// TemplateRenderer renders text/template files. Templates are looked up in
// the override filesystem first and then in the embedded defaults.
type TemplateRenderer struct {
	override fs.FS
	defaults fs.FS
}

// NewTemplateRenderer returns a renderer over the embedded templates.
// A non-nil override (usually os.DirFS of a user directory) takes precedence
// for any template it contains.
func NewTemplateRenderer(override fs.FS) *TemplateRenderer {
	defaults, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return &TemplateRenderer{override: override, defaults: defaults}
}

// Render executes the template called name with data and writes it to w.
func (r *TemplateRenderer) Render(name string, data any, w io.Writer) error {
	tmpl, err := r.load(name)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}
	return nil
}

// load parses the template from the first filesystem that has it.
func (r *TemplateRenderer) load(name string) (*template.Template, error) {
	src := r.defaults
	if r.override != nil {
		if _, err := fs.Stat(r.override, name); err == nil {
			src = r.override
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}
	}

	content, err := fs.ReadFile(src, name)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(Funcs()).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return tmpl, nil
}

// ArtifactName returns the output file name for a template name.
func ArtifactName(templateName string) string {
	return strings.TrimSuffix(templateName, ".tmpl")
}

// Funcs returns the helper functions available to templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"wrap":      Wrap,
		"issue":     FormatIssue,
		"underline": Underline,
		"upper":     strings.ToUpper,
		"indent":    Indent,
	}
}

// FormatIssue renders an issue reference for a change, or "" when the
// change has none.
func FormatIssue(c blurb.Change) string {
	if !c.HasIssue() {
		return ""
	}
	return " (#" + strings.TrimPrefix(c.Issue, "#") + ")"
}

// Underline returns a line of ch as long as s.
func Underline(ch string, s string) string {
	return strings.Repeat(ch, len([]rune(s)))
}

// Indent prefixes every non-empty line of s with prefix.
func Indent(prefix string, s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// Wrap breaks text into lines of at most width runes, starting continuation
// lines with indent. Words longer than width are left on their own line.
func Wrap(width int, indent string, text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if width <= 0 {
		return strings.Join(words, " ")
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		n := len([]rune(word))
		switch {
		case i == 0:
			b.WriteString(word)
			lineLen = n
		case lineLen+1+n > width:
			b.WriteString("\n")
			b.WriteString(indent)
			b.WriteString(word)
			lineLen = len([]rune(indent)) + n
		default:
			b.WriteString(" ")
			b.WriteString(word)
			lineLen += 1 + n
		}
	}
	return b.String()
}
