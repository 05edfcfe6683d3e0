package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// HomeAway says whether the requested team plays at its home venue
type HomeAway string

const (
	Home HomeAway = "home"
	Away HomeAway = "away"
)

// ErrInvalidHomeAway is returned for any value other than "home" or "away"
var ErrInvalidHomeAway = errors.New("home_away must be \"home\" or \"away\"")

// ParseHomeAway accepts exactly the two select option values.
func ParseHomeAway(s string) (HomeAway, error) {
	switch HomeAway(s) {
	case Home:
		return Home, nil
	case Away:
		return Away, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidHomeAway, s)
}

func (h HomeAway) String() string { return string(h) }

// UnmarshalJSON rejects unknown values instead of silently defaulting to home.
func (h *HomeAway) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("home_away: %w", err)
	}
	v, err := ParseHomeAway(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// PredictionRequest is the body POSTed to the prediction backend
type PredictionRequest struct {
	Team     string   `json:"team" validate:"required,notblank"`
	Opponent string   `json:"opponent" validate:"required,notblank"`
	HomeAway HomeAway `json:"home_away" validate:"required,oneof=home away"`
}

// PredictionResponse is the backend's answer. WinProbability is expected in
// [0, 1] but the range is the backend's contract and is not checked here.
type PredictionResponse struct {
	WinProbability float64 `json:"win_probability"`
}

// OutcomeError describes a failed submission for API consumers
type OutcomeError struct {
	Kind    string `json:"kind"` // "network", "server", "decode", "invalid"
	Message string `json:"message"`
}

// PredictionOutcome is the JSON view of a single submission
type PredictionOutcome struct {
	SubmissionID   string            `json:"submission_id"`
	Request        PredictionRequest `json:"request"`
	WinProbability *float64          `json:"win_probability,omitempty"`
	Display        string            `json:"display,omitempty"`
	Error          *OutcomeError     `json:"error,omitempty"`
}

// FormView is the JSON view of a session's form state
type FormView struct {
	Team           string        `json:"team"`
	Opponent       string        `json:"opponent"`
	HomeAway       HomeAway      `json:"home_away"`
	WinProbability *float64      `json:"win_probability,omitempty"`
	Display        string        `json:"display,omitempty"`
	LastError      *OutcomeError `json:"last_error,omitempty"`
	Submissions    int           `json:"submissions"`
}
