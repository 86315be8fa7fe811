// Package renderer formats rebalancing results as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/rebalance"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"csv": csvField,
}

// csvField quotes s if it cannot be written as a bare CSV field.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// renderTemplate renders an embedded template file with data.
func renderTemplate(name string, data any) string {
	content, err := fs.ReadFile(templates, "templates/"+name)
	if err != nil {
		return fmt.Sprintf("error reading template %q: %v", name, err)
	}
	tmpl, err := template.New(name).Funcs(funcs).Parse(string(content))
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", name, err)
	}
	return b.String()
}

// share returns the percentage of ticker in a, 0 when absent.
func share(a *rebalance.Allocation, ticker string) rebalance.Percent {
	p, _ := a.Get(ticker)
	return p
}
