package web

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/ops"
	"github.com/hpungsan/winterarc/internal/tracker"
)

// maxFormBytes caps the add and delete form bodies.
const maxFormBytes = 4 << 10

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	tracker  *tracker.Tracker
	logger   *slog.Logger
	renderer *Renderer
}

// HandleLog handles GET /log: totals, the add form and the entries.
func (h *Handlers) HandleLog(w http.ResponseWriter, r *http.Request) {
	h.renderLog(w, r, http.StatusOK, EntryForm{})
}

func (h *Handlers) renderLog(w http.ResponseWriter, r *http.Request, status int, form EntryForm) {
	result := ops.List(h.tracker, ops.ListInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})

	h.renderer.renderPageStatus(w, status, "log", LogPageData{
		PageData:   h.renderer.page("Today", "log"),
		Items:      result.Items,
		Totals:     result.Totals,
		Pagination: result.Pagination,
		Form:       form,
		Unsaved:    parseBoolParam(r, "unsaved"),
	})
}

// HandleAdd handles POST /log/entries.
// Invalid input re-renders the page with the message next to the field and
// leaves the log untouched.
func (h *Handlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	input := ops.AddInput{
		Name:     r.PostFormValue("name"),
		Calories: r.PostFormValue("calories"),
	}
	result, err := ops.Add(r.Context(), h.tracker, input)
	if err != nil {
		var aErr *errors.ArcError
		if !wantsJSON(r) && stderrors.As(err, &aErr) && aErr.Code == errors.ErrInvalidRequest {
			field, _ := aErr.Details["field"].(string)
			h.renderLog(w, r, http.StatusBadRequest, EntryForm{
				Name:     input.Name,
				Calories: input.Calories,
				Field:    field,
				Error:    aErr.Message,
			})
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	if !result.Persisted {
		h.logger.Warn("entry added but not saved", "id", result.Entry.ID)
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusCreated, result)
		return
	}
	redirectToLog(w, r, result.Persisted)
}

// HandleDelete handles DELETE /log/entries/{id} and the form fallback
// POST /log/entries/{id}/delete. An unknown id is not an error.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(r.Context(), h.tracker, ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	redirectToLog(w, r, result.Persisted)
}

// HandleReport handles GET /log/report: the markdown report rendered as HTML.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	result := ops.Report(h.tracker, ops.ReportInput{})

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, "report", ReportPageData{
		PageData:     h.renderer.page("Report", "report"),
		RenderedHTML: h.renderer.renderMarkdown(result.Markdown),
		Count:        result.Count,
	})
}

// HandleAPILog handles GET /api/log: the list output as JSON.
func (h *Handlers) HandleAPILog(w http.ResponseWriter, r *http.Request) {
	result := ops.List(h.tracker, ops.ListInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	renderJSON(w, http.StatusOK, result)
}

// redirectToLog sends the browser back to the log after a form post.
func redirectToLog(w http.ResponseWriter, r *http.Request, persisted bool) {
	target := "/log"
	if !persisted {
		target = "/log?unsaved=1"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
