// Package form holds the mutable state behind the prediction form and the
// submission flow that updates it.
package form

import (
	"fmt"
	"math"
	"sync"

	"github.com/courtside/win-predictor/internal/models"
)

// FormatProbability renders p as a percentage with one decimal place.
// Ties round up (6.25 -> 6.3), matching how browsers format the value.
func FormatProbability(p float64) string {
	pct := math.Floor(p*1000+0.5) / 10
	return fmt.Sprintf("%.1f%%", pct)
}

// Failure is the last submission error shown to the user
type Failure struct {
	Kind    Kind
	Message string
}

// State is the form's single owned container. All reads and writes go
// through its methods so concurrent handlers see consistent values.
type State struct {
	mu              sync.RWMutex
	team            string
	opponent        string
	homeAway        models.HomeAway
	lastProbability *float64
	lastFailure     *Failure
	submissions     int
}

// NewState returns empty fields with home selected.
func NewState() *State {
	return &State{homeAway: models.Home}
}

func (s *State) SetTeam(v string) {
	s.mu.Lock()
	s.team = v
	s.mu.Unlock()
}

func (s *State) SetOpponent(v string) {
	s.mu.Lock()
	s.opponent = v
	s.mu.Unlock()
}

func (s *State) SetHomeAway(v models.HomeAway) {
	s.mu.Lock()
	s.homeAway = v
	s.mu.Unlock()
}

// Update overwrites all three input fields under one lock and returns the
// resulting snapshot, so a submission never mixes fields from two writers.
func (s *State) Update(team, opponent string, homeAway models.HomeAway) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.team = team
	s.opponent = opponent
	s.homeAway = homeAway
	return s.snapshotLocked()
}

// RecordResult stores p as the latest probability and clears any failure.
func (s *State) RecordResult(p float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastProbability = &p
	s.lastFailure = nil
	s.submissions++
}

// RecordFailure keeps the previous probability untouched.
func (s *State) RecordFailure(kind Kind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFailure = &Failure{Kind: kind, Message: err.Error()}
	s.submissions++
}

// Snapshot is an immutable copy of State
type Snapshot struct {
	Team            string
	Opponent        string
	HomeAway        models.HomeAway
	LastProbability *float64
	LastFailure     *Failure
	Submissions     int
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	snap := Snapshot{
		Team:        s.team,
		Opponent:    s.opponent,
		HomeAway:    s.homeAway,
		Submissions: s.submissions,
	}
	if s.lastProbability != nil {
		p := *s.lastProbability
		snap.LastProbability = &p
	}
	if s.lastFailure != nil {
		f := *s.lastFailure
		snap.LastFailure = &f
	}
	return snap
}

// Display returns the formatted probability, or false when no submission
// has succeeded yet and the result region must not be rendered.
func (s Snapshot) Display() (string, bool) {
	if s.LastProbability == nil {
		return "", false
	}
	return FormatProbability(*s.LastProbability), true
}

// View converts the snapshot to its JSON representation.
func (s Snapshot) View() models.FormView {
	v := models.FormView{
		Team:           s.Team,
		Opponent:       s.Opponent,
		HomeAway:       s.HomeAway,
		WinProbability: s.LastProbability,
		Submissions:    s.Submissions,
	}
	v.Display, _ = s.Display()
	if s.LastFailure != nil {
		v.LastError = &models.OutcomeError{Kind: string(s.LastFailure.Kind), Message: s.LastFailure.Message}
	}
	return v
}
