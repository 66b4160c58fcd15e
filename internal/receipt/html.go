package receipt

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// parseTemplates parses the embedded page templates.
func parseTemplates() *template.Template {
	funcs := template.FuncMap{
		"money": func(amount float64) string {
			return fmt.Sprintf("₹%.2f", amount)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
