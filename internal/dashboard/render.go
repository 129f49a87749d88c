package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/pratik-mahalle/reminderflow/internal/app/forms"
	"github.com/pratik-mahalle/reminderflow/internal/app/guard"
	"github.com/pratik-mahalle/reminderflow/internal/app/i18n"
	"github.com/pratik-mahalle/reminderflow/internal/app/session"
	"github.com/pratik-mahalle/reminderflow/internal/app/toast"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

type views struct {
	pages map[string]*template.Template
}

// parseViews builds one template set per page, each on top of the layout
func parseViews(catalog *i18n.Catalog) (*views, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	funcs := template.FuncMap{
		"t":    catalog.T,
		"when": formatWhen,
		"day":  func(t time.Time, loc *time.Location) string { return t.In(loc).Format("2006-01-02") },
		"pct":  percent,
		"sub":  func(a, b int) int { return a - b },
		"key":  func(prefix, name string) string { return prefix + "." + name },
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	v := &views{pages: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		v.pages[name] = tmpl
	}
	return v, nil
}

func formatWhen(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02 Jan 2006 15:04")
}

func percent(n, d int) string {
	if d <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(n)*100/float64(d))
}

// page is the data every template receives
type page struct {
	Lang    string
	Title   string
	Path    string
	Variant string
	State   session.State
	Toasts  []toast.Toast
	Loc     *time.Location
	Form    url.Values
	Errors  forms.Errors
	Data    interface{}
}

func (s *Server) newPage(r *http.Request, title string, v guard.Variant, data interface{}) *page {
	st := s.store.State()
	return &page{
		Lang:    s.language(),
		Title:   title,
		Path:    r.URL.Path,
		Variant: v.String(),
		State:   st,
		Toasts:  s.toasts.List(),
		Loc:     businessLocation(st),
		Form:    url.Values{},
		Errors:  forms.Errors{},
		Data:    data,
	}
}

func businessLocation(st session.State) *time.Location {
	if st.Business == nil || st.Business.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(st.Business.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *Server) render(w http.ResponseWriter, status int, name string, p *page) {
	tmpl, ok := s.views.pages[name]
	if !ok {
		s.log.With("template", name).Error("Unknown template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		s.log.With("template", name).ErrorWithErr(err, "Failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// loadingPage is shown by the route guards until the session is ready
func (s *Server) loadingPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "1")
	s.render(w, http.StatusServiceUnavailable, "loading", s.newPage(r, "common.loading", variantFor(r.URL.Path), nil))
}

func variantFor(p string) guard.Variant {
	if p == guard.LoginPath || p == "/register" {
		return guard.Public
	}
	return guard.Protected
}
