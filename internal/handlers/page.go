package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/courtside/win-predictor/internal/form"
	"github.com/courtside/win-predictor/internal/models"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Team     string
	Opponent string
	HomeAway string
	Result   string // empty hides the result region
	Error    string // empty hides the error region
}

// Index renders the prediction form for the caller's session
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	state := h.session(w, r)
	h.renderPage(w, http.StatusOK, pageFromSnapshot(state.Snapshot()))
}

// SubmitForm handles the form post, then redirects back to the page so a
// reload does not resubmit.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	homeAway, err := models.ParseHomeAway(r.PostForm.Get("home_away"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := h.session(w, r)
	_, out := h.submit(r, state, models.PredictionRequest{
		Team:     r.PostForm.Get("team"),
		Opponent: r.PostForm.Get("opponent"),
		HomeAway: homeAway,
	}, "form")
	if out.Kind == form.KindInvalid {
		page := pageFromSnapshot(state.Snapshot())
		page.Error = "Please enter both your team and the opponent."
		h.renderPage(w, http.StatusUnprocessableEntity, page)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func pageFromSnapshot(snap form.Snapshot) pageData {
	page := pageData{
		Team:     snap.Team,
		Opponent: snap.Opponent,
		HomeAway: string(snap.HomeAway),
	}
	page.Result, _ = snap.Display()
	if snap.LastFailure != nil {
		page.Error = failureMessage(snap.LastFailure.Kind)
	}
	return page
}

func failureMessage(kind form.Kind) string {
	switch kind {
	case form.KindServer:
		return "The prediction service returned an error. Try again later."
	case form.KindDecode:
		return "The prediction service sent a response that could not be read."
	default:
		return "The prediction service could not be reached."
	}
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, page); err != nil {
		h.logger.Errorw("Failed to render page", "error", err)
	}
}
