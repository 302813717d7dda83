package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/foodmood/foodmood/internal/foodmood"
	"github.com/foodmood/foodmood/internal/form"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.New("page.html.tmpl").ParseFS(templateFS, "templates/*.html.tmpl"))

// Document is everything the page template needs besides the view-model.
type Document struct {
	Page      Page
	Form      form.Form
	FormError string
	Location  *foodmood.LatLng
	UserName  string
	SignedIn  bool
	MapsKey   string
	ClientID  string
}

// WriteHTML renders the full page.
func (d Document) WriteHTML(w io.Writer) error {
	if err := pageTmpl.Execute(w, d); err != nil {
		return fmt.Errorf("executing page template: %w", err)
	}
	return nil
}
