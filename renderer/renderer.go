package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/homefin/homefin"
)

//go:embed templates/*.md
var templates embed.FS

// Report renders a full period report: accrual income statement,
// closing balance sheet and health ratios.
func Report(r homefin.PeriodReport) string {
	partials := map[string]string{
		"report_title":  "report_title.md",
		"report_income": "report_income.md",
		"report_sheet":  "report_sheet.md",
		"report_ratios": "report_ratios.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// Comparison renders two period reports side by side.
func Comparison(c homefin.Comparison) string {
	return renderTemplate("comparison", "comparison.md", nil, c)
}

// renderTemplate is a generic utility to render a main template that
// depends on several partials, all read from the embedded templates.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
