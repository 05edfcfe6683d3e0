package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/courtside/win-predictor/internal/form"
	"github.com/courtside/win-predictor/internal/models"
)

// CreatePrediction runs one prediction for the caller's session
// @Summary Predict Win Probability
// @Tags Predictions
// @Accept json
// @Produce json
// @Param body body models.PredictionRequest true "Matchup"
// @Success 200 {object} models.PredictionOutcome
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} models.PredictionOutcome "Backend Failure"
// @Router /predictions [post]
func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		submissionsTotal.WithLabelValues("api", string(form.KindInvalid)).Inc()
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		submissionsTotal.WithLabelValues("api", string(form.KindInvalid)).Inc()
		h.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	state := h.session(w, r)
	id, out := h.submit(r, state, req, "api")

	status := http.StatusOK
	switch out.Kind {
	case form.KindSuccess:
	case form.KindInvalid:
		status = http.StatusBadRequest
	default:
		status = http.StatusBadGateway
	}
	h.jsonResponse(w, status, outcomeView(id, out))
}

// GetLastPrediction returns the session's current form state
// @Summary Get Session Form State
// @Tags Predictions
// @Produce json
// @Success 200 {object} models.FormView
// @Router /predictions/last [get]
func (h *Handler) GetLastPrediction(w http.ResponseWriter, r *http.Request) {
	state, ok := h.existingSession(r)
	if !ok {
		state = form.NewState()
	}
	h.jsonResponse(w, http.StatusOK, state.Snapshot().View())
}

// submit stores req in state and runs it under a fresh submission id,
// recording metrics and logs for it.
func (h *Handler) submit(r *http.Request, state *form.State, req models.PredictionRequest, source string) (string, form.Outcome) {
	id := uuid.New().String()
	out := form.SubmitValues(r.Context(), state, h.backend, req.Team, req.Opponent, req.HomeAway)
	submissionsTotal.WithLabelValues(source, string(out.Kind)).Inc()

	if out.OK() {
		h.logger.Infow("Prediction submitted",
			"submission_id", id, "source", source, "team", out.Request.Team, "opponent", out.Request.Opponent,
			"home_away", out.Request.HomeAway, "display", out.Display())
	} else {
		h.logger.Warnw("Prediction submission failed",
			"submission_id", id, "source", source, "kind", out.Kind, "error", out.Err,
			"team", out.Request.Team, "opponent", out.Request.Opponent)
	}
	return id, out
}

func outcomeView(id string, out form.Outcome) models.PredictionOutcome {
	v := models.PredictionOutcome{
		SubmissionID: id,
		Request:      out.Request,
	}
	if out.OK() {
		p := out.Probability
		v.WinProbability = &p
		v.Display = out.Display()
		return v
	}
	v.Error = &models.OutcomeError{Kind: string(out.Kind), Message: out.Err.Error()}
	return v
}
