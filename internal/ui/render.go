package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"regexp"
	"strings"

	"discount-system/vitrina/internal/logging"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages rendered inside the base layout
const (
	PageDashboard = "dashboard/index.html"
	PageUpload    = "admin/upload.html"
)

var (
	sectionHeader = regexp.MustCompile(`(Изменение максимальных скидок)`)
	projectEntry  = regexp.MustCompile(`([A-Za-zА-Яа-я'\d-]+\s[A-Za-zА-Яа-я'\d-]+(?:\s\(\d\))?\s*-)`)
)

// FormatComment puts section headers and "<project> -" entries on their own lines
func FormatComment(text string) string {
	text = sectionHeader.ReplaceAllString(text, "\n${1}")
	text = projectEntry.ReplaceAllString(text, "\n${1}")
	text = strings.ReplaceAll(text, "\n\n", "\n")
	return strings.TrimPrefix(text, "\n")
}

// Renderer holds the parsed pages; every page is parsed together with the base layout
type Renderer struct {
	prefix string
	pages  map[string]*template.Template
}

// NewRenderer parses the embedded templates. prefix is prepended to every generated URL.
func NewRenderer(prefix string) (*Renderer, error) {
	funcMap := template.FuncMap{
		"formatComment": FormatComment,
		"prefix": func() string {
			return prefix
		},
		"url": func(path string) string {
			return prefix + path
		},
	}

	r := &Renderer{prefix: prefix, pages: make(map[string]*template.Template)}
	for _, page := range []string{PageDashboard, PageUpload} {
		t, err := template.New(page).Funcs(funcMap).ParseFS(templateFS,
			"templates/layouts/base.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// URL prefixes path with the mount point
func (r *Renderer) URL(path string) string {
	return r.prefix + path
}

// Render executes page inside the base layout
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data map[string]interface{}) error {
	t, ok := r.pages[page]
	if !ok {
		http.Error(w, "Unknown template", http.StatusInternalServerError)
		return fmt.Errorf("unknown template %q", page)
	}

	// Render to a buffer so a template error does not leave a half-written page
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		logging.Error("Template render failed", "page", page, "error", err)
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticFS is the embedded static directory (css, js)
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
