package form

import (
	"context"
	"errors"
	"strings"

	"github.com/courtside/win-predictor/internal/models"
	"github.com/courtside/win-predictor/internal/predictor"
)

// Predictor is implemented by *predictor.Client
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error)
}

// Kind tags the result of a submission
type Kind string

const (
	KindSuccess Kind = "success"
	KindNetwork Kind = "network"
	KindServer  Kind = "server"
	KindDecode  Kind = "decode"
	KindInvalid Kind = "invalid"
)

// ErrEmptyField is returned when team or opponent is blank
var ErrEmptyField = errors.New("team and opponent are required")

// Outcome is the tagged result of one submission
type Outcome struct {
	Kind        Kind
	Request     models.PredictionRequest
	Probability float64 // valid only when Kind == KindSuccess
	Err         error
}

func (o Outcome) OK() bool { return o.Kind == KindSuccess }

// Display formats the probability of a successful outcome.
func (o Outcome) Display() string {
	if !o.OK() {
		return ""
	}
	return FormatProbability(o.Probability)
}

// Submit sends the state's current values to p and applies the outcome to
// state once the call completes. Blank fields fail with KindInvalid before
// any request is made and leave the state untouched.
//
// Overlapping submissions are independent: each writes its own outcome when
// it finishes, so the last to complete wins.
func Submit(ctx context.Context, state *State, p Predictor) Outcome {
	return send(ctx, state, p, requestFrom(state.Snapshot()))
}

// SubmitValues stores the given inputs in state and submits exactly those
// values, even when other requests write to the same state concurrently.
func SubmitValues(ctx context.Context, state *State, p Predictor, team, opponent string, homeAway models.HomeAway) Outcome {
	return send(ctx, state, p, requestFrom(state.Update(team, opponent, homeAway)))
}

func requestFrom(snap Snapshot) models.PredictionRequest {
	return models.PredictionRequest{
		Team:     snap.Team,
		Opponent: snap.Opponent,
		HomeAway: snap.HomeAway,
	}
}

func send(ctx context.Context, state *State, p Predictor, req models.PredictionRequest) Outcome {
	if strings.TrimSpace(req.Team) == "" || strings.TrimSpace(req.Opponent) == "" {
		return Outcome{Kind: KindInvalid, Request: req, Err: ErrEmptyField}
	}
	if _, err := models.ParseHomeAway(string(req.HomeAway)); err != nil {
		return Outcome{Kind: KindInvalid, Request: req, Err: err}
	}

	resp, err := p.Predict(ctx, req)
	if err != nil {
		kind := classify(err)
		state.RecordFailure(kind, err)
		return Outcome{Kind: kind, Request: req, Err: err}
	}

	state.RecordResult(resp.WinProbability)
	return Outcome{Kind: KindSuccess, Request: req, Probability: resp.WinProbability}
}

func classify(err error) Kind {
	switch {
	case predictor.IsServerError(err):
		return KindServer
	case predictor.IsDecodeError(err):
		return KindDecode
	}
	// anything else never got a usable response
	return KindNetwork
}
