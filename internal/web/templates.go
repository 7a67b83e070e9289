package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/erazemk/rfidash/internal/auth"
	"github.com/erazemk/rfidash/internal/julian"
	"github.com/erazemk/rfidash/internal/model"
	"github.com/erazemk/rfidash/internal/reader"
	"github.com/erazemk/rfidash/internal/tagdata"
	webembed "github.com/erazemk/rfidash/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"julianDisplay": julian.Display,
		"julianLong": func(code string) string {
			t, err := julian.Decode(code)
			if err != nil {
				return ""
			}
			return julian.Long(t)
		},
		"statusLabel": func(s model.Status) string { return s.Label() },
		"price": func(p *model.Price) string {
			if p == nil {
				return "N/A"
			}
			return "$" + p.String()
		},
		"hex":      tagdata.ToHex,
		"weekdays": func() [7]string { return julian.Weekdays },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
		"readerLabel": func(s reader.Status) string {
			switch s {
			case reader.StatusReading:
				return "Reading"
			case reader.StatusWriting:
				return "Writing"
			default:
				return "Idle"
			}
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}
	pickerBytes, err := fs.ReadFile(tfs, "picker.html")
	if err != nil {
		return nil, fmt.Errorf("reading picker template: %w", err)
	}

	pages := []string{
		"signin.html",
		"dashboard.html",
		"item_form.html",
		"tag_preview.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		for _, src := range []string{string(layoutBytes), string(pickerBytes), string(pageBytes)} {
			if tmpl, err = tmpl.Parse(src); err != nil {
				return nil, fmt.Errorf("parsing template %s: %w", page, err)
			}
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with an explicit status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Session *auth.Session
	Flash   *Flash
	Reader  reader.State
}
