package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
)

var indexTmpl *template.Template

// loadTemplatesFromFS parses the page and partial templates under dir.
// Tests pass their own fs to exercise failures.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	indexTmpl = tmpl
	return nil
}

// LoadTemplates parses the embedded templates. Call once during startup; if
// it fails the server must not start.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

type RouteLink struct {
	Href  string
	Label string
}

type IndexData struct {
	Title   string
	Heading string
	Routes  []RouteLink
}

// DefaultIndex lists the API routes, with sample dates for the two
// parameterized summaries.
func DefaultIndex() *IndexData {
	return &IndexData{
		Title:   "Hawaii Climate API",
		Heading: "Welcome to the Hawaii Climate Analysis API!",
		Routes: []RouteLink{
			{Href: "/api/v1.0/precipitation", Label: "Precipitation Data"},
			{Href: "/api/v1.0/stations", Label: "Stations"},
			{Href: "/api/v1.0/tobs", Label: "Temperature Observations (TOBS)"},
			{Href: "/api/v1.0/2016-08-23", Label: "Temperature Summary from Start Date"},
			{Href: "/api/v1.0/2016-08-23/2017-08-23", Label: "Temperature Summary for Date Range"},
		},
	}
}

func RenderIndex(w io.Writer, data *IndexData) error {
	if indexTmpl == nil {
		return errors.New("index template not loaded: call views.LoadTemplates during startup")
	}
	return indexTmpl.ExecuteTemplate(w, "index.html", data)
}
