package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile     = "layout.html"
	layoutTemplate = "templates/" + layoutFile
)

var pageNames = []string{
	"index.html",
	"ingestion.html",
	"otolith.html",
	"edna.html",
	"visualization.html",
	"error.html",
}

type pageData struct {
	Title   string
	Active  string
	Items   any
	Status  int
	Message string
}

type pageRenderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"str": func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	},
	"length": func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	},
	"ts": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04:05")
	},
	"join": func(values []string) string {
		return strings.Join(values, ", ")
	},
	"statusText": http.StatusText,
}

func newPageRenderer() (*pageRenderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(layoutFile).Funcs(templateFuncs).ParseFS(templateFS, layoutTemplate, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &pageRenderer{pages: pages}, nil
}

func mustPageRenderer() *pageRenderer {
	renderer, err := newPageRenderer()
	if err != nil {
		panic(err)
	}
	return renderer
}

func (p *pageRenderer) render(name string, data pageData) ([]byte, error) {
	tmpl, ok := p.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutFile, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	body, err := s.pages.render(name, data)
	if err != nil {
		s.renderError(w, r, internalError(err))
		return
	}
	writeHTML(w, status, body)
}

// renderError is the HTML counterpart of writeServiceError.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromError(err)
	resp := s.describeError(r, status, err)

	body, renderErr := s.pages.render("error.html", pageData{
		Title:   http.StatusText(status),
		Status:  status,
		Message: resp.Error,
	})
	if renderErr != nil {
		s.log().Error("render error page", "error", renderErr)
		http.Error(w, resp.Error, status)
		return
	}
	writeHTML(w, status, body)
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
