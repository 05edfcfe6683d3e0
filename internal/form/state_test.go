package form

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/courtside/win-predictor/internal/models"
)

func TestFormatProbability(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0.732, "73.2%"},
		{0, "0.0%"},
		{1, "100.0%"},
		{0.5, "50.0%"},
		{0.0004, "0.0%"},
		{0.9999, "100.0%"},
		// ties round up, not to even
		{0.0625, "6.3%"},
		{0.3125, "31.3%"},
		{0.5625, "56.3%"},
		{0.8125, "81.3%"},
	}

	for _, tt := range tests {
		if got := FormatProbability(tt.p); got != tt.want {
			t.Errorf("FormatProbability(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestNewState_Defaults(t *testing.T) {
	snap := NewState().Snapshot()

	if snap.Team != "" || snap.Opponent != "" {
		t.Errorf("expected empty text fields, got %+v", snap)
	}
	if snap.HomeAway != models.Home {
		t.Errorf("HomeAway = %q, want home", snap.HomeAway)
	}
	if _, ok := snap.Display(); ok {
		t.Error("no result should be displayed before any submission")
	}
	if snap.LastFailure != nil {
		t.Error("no failure expected before any submission")
	}
}

func TestState_Setters(t *testing.T) {
	s := NewState()
	s.SetTeam("Nuggets")
	s.SetOpponent("Suns")
	s.SetHomeAway(models.Away)
	s.SetTeam("Jazz")

	snap := s.Snapshot()
	if snap.Team != "Jazz" || snap.Opponent != "Suns" || snap.HomeAway != models.Away {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestState_RecordResultAndFailure(t *testing.T) {
	s := NewState()

	s.RecordResult(0)
	if got, ok := s.Snapshot().Display(); !ok || got != "0.0%" {
		t.Errorf("Display() = %q, %v; want 0.0%%, true", got, ok)
	}

	s.RecordFailure(KindServer, errors.New("backend returned 500"))
	snap := s.Snapshot()
	if got, _ := snap.Display(); got != "0.0%" {
		t.Errorf("failure must not clear the previous result, got %q", got)
	}
	if snap.LastFailure == nil || snap.LastFailure.Kind != KindServer {
		t.Errorf("LastFailure = %+v", snap.LastFailure)
	}

	s.RecordResult(0.732)
	snap = s.Snapshot()
	if got, _ := snap.Display(); got != "73.2%" {
		t.Errorf("Display() = %q, want 73.2%%", got)
	}
	if snap.LastFailure != nil {
		t.Error("success should clear the last failure")
	}
	if snap.Submissions != 3 {
		t.Errorf("Submissions = %d, want 3", snap.Submissions)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewState()
	s.RecordResult(0.25)
	snap := s.Snapshot()
	*snap.LastProbability = 0.99

	if got, _ := s.Snapshot().Display(); got != "25.0%" {
		t.Errorf("state changed through snapshot: %q", got)
	}
}

func TestSnapshot_View(t *testing.T) {
	s := NewState()
	s.SetTeam("Hawks")
	s.SetOpponent("Magic")
	s.RecordFailure(KindDecode, errors.New("no win_probability"))

	v := s.Snapshot().View()
	if v.Display != "" || v.WinProbability != nil {
		t.Errorf("unexpected result in view: %+v", v)
	}
	if v.LastError == nil || v.LastError.Kind != "decode" {
		t.Errorf("LastError = %+v", v.LastError)
	}
}

func TestState_ConcurrentAccess(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.SetTeam("team")
			s.RecordResult(float64(i) / 100)
		}(i)
		go func() {
			defer wg.Done()
			s.Snapshot().Display()
		}()
	}
	wg.Wait()

	if s.Snapshot().Submissions != 50 {
		t.Errorf("Submissions = %d, want 50", s.Snapshot().Submissions)
	}
}

func TestState_UpdateIsAtomic(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			team := fmt.Sprintf("T%d", i)
			opp := fmt.Sprintf("O%d", i)
			snap := s.Update(team, opp, models.Away)
			if snap.Team != team || snap.Opponent != opp || snap.HomeAway != models.Away {
				t.Errorf("Update returned mixed snapshot %+v for %s/%s", snap, team, opp)
			}
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	if strings.TrimPrefix(snap.Team, "T") != strings.TrimPrefix(snap.Opponent, "O") {
		t.Errorf("final state mixes writers: %+v", snap)
	}
}
