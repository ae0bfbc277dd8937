package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/foodlog"
	"github.com/hpungsan/winterarc/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "log", "report"
}

// EntryForm holds the add form's submitted values and inline error.
type EntryForm struct {
	Name     string
	Calories string
	Field    string // offending field, if any
	Error    string
}

// LogPageData is the template data for the food log page.
type LogPageData struct {
	PageData
	Items      []ops.EntryView
	Totals     foodlog.Totals
	Pagination ops.Pagination
	Form       EntryForm
	Unsaved    bool
}

// ReportPageData is the template data for the report page.
type ReportPageData struct {
	PageData
	RenderedHTML template.HTML
	Count        int
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	logger    *slog.Logger
	markdown  goldmark.Markdown
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, logger *slog.Logger) *Renderer {
	funcMap := template.FuncMap{
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"formatNumber": formatNumber,
		"formatTime":   formatTime,
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"log":    "log.html",
		"report": "report.html",
		"error":  "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		logger:    logger,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

func (r *Renderer) page(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
}

// renderPage renders a named page template with HTTP 200.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("template not found", "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var aErr *errors.ArcError
	if !stderrors.As(err, &aErr) {
		aErr = errors.NewInternal(err)
	}
	if aErr.Status >= 500 {
		r.logger.Error("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
	}

	if wantsJSON(req) {
		renderJSON(w, aErr.Status, map[string]any{
			"error": map[string]any{
				"code":    string(aErr.Code),
				"message": aErr.Message,
				"status":  aErr.Status,
				"details": aErr.Details,
			},
		})
		return
	}

	r.renderPageStatus(w, aErr.Status, "error", ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Error %d", aErr.Status), ""),
		StatusCode: aErr.Status,
		Message:    aErr.Message,
	})
}

// renderMarkdown converts markdown to HTML. Raw HTML in the source is
// dropped by goldmark's default renderer.
func (r *Renderer) renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(md) + "</pre>")
	}
	return template.HTML(buf.String())
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// wantsJSON reports whether the client asked for JSON.
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// formatTime formats a Unix timestamp as "2006-01-02 15:04" UTC.
func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}

// formatNumber formats an integer with comma thousands separators.
func formatNumber(n int) string {
	return humanize.Comma(int64(n))
}
