// Package web holds the HTML templates and static assets and renders pages
// for echo.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/model"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the stylesheet tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is the value every template executes against.
type Page struct {
	Path      string
	RequestID string
	Flashes   []string
	Data      map[string]any
	Form      any
}

// Renderer implements echo.Renderer over the embedded templates.  Each page
// is parsed together with the layout and partials and executed through the
// "layout" template.
type Renderer struct {
	pages map[string]*template.Template
}

// Funcs are the helpers available to every template.  loc is used by
// datetime to present show times.
func Funcs(loc *time.Location) template.FuncMap {
	if loc == nil {
		loc = time.UTC
	}
	return template.FuncMap{
		"datetime": func(s string) string { return Datetime(s, loc) },
		"has":      func(list []string, v string) bool { return slices.Contains(list, v) },
		"genres":   func() []string { return form.GenreChoices },
		"states":   func() []string { return form.StateChoices },
		"searchAction": func(p string) string {
			switch {
			case strings.HasPrefix(p, "/artists"):
				return "/artists/search"
			case strings.HasPrefix(p, "/shows"):
				return "/shows/search"
			default:
				return "/venues/search"
			}
		},
	}
}

// NewRenderer parses every template under templates/.
func NewRenderer(loc *time.Location) (*Renderer, error) {
	base, err := template.New("base").Funcs(Funcs(loc)).ParseFS(templatesFS,
		"templates/layouts/*.html", "templates/pages/partials.html", "templates/forms/*_fields.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, dir := range []string{"pages", "forms", "errors"} {
		files, err := fs.Glob(templatesFS, "templates/"+dir+"/*.html")
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			name := dir + "/" + path.Base(file)
			if name == "pages/partials.html" || strings.HasSuffix(name, "_fields.html") {
				continue
			}
			t, err := base.Clone()
			if err != nil {
				return nil, err
			}
			if _, err := t.ParseFS(templatesFS, file); err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			r.pages[name] = t
		}
	}
	return r, nil
}

// Render executes the page called name, e.g. "pages/venues.html".
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Datetime turns a stored "2006-01-02 15:04:05" show time into the long
// form shown on pages, e.g. "Tuesday May 21, 2019 at 9:30PM".  Values that
// do not parse are returned unchanged.
func Datetime(s string, loc *time.Location) string {
	t, err := time.ParseInLocation(model.TimeLayout, s, loc)
	if err != nil {
		return s
	}
	return t.Format("Monday January 2, 2006 at 3:04PM")
}
