package handlers

import (
	"context"
	"testing"
	"time"
)

func TestSessionStore_GetCreate(t *testing.T) {
	store := NewSessionStore(time.Hour)

	if _, ok := store.Get("unknown"); ok {
		t.Error("unknown id should not resolve")
	}

	id, state := store.Create()
	state.SetTeam("Pistons")

	got, ok := store.Get(id)
	if !ok || got != state {
		t.Fatal("created session should resolve to the same state")
	}
	if got.Snapshot().Team != "Pistons" {
		t.Error("state not shared")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(10 * time.Minute)
	store.now = func() time.Time { return now }

	idle, _ := store.Create()
	active, _ := store.Create()

	now = now.Add(8 * time.Minute)
	if _, ok := store.Get(active); !ok {
		t.Fatal("active session expired too early")
	}

	now = now.Add(5 * time.Minute)
	if removed := store.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}
	if _, ok := store.Get(idle); ok {
		t.Error("idle session should be gone")
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}

	now = now.Add(11 * time.Minute)
	if _, ok := store.Get(active); ok {
		t.Error("expired session must not resolve even before a sweep")
	}
}

func TestSessionStore_RunStopsOnCancel(t *testing.T) {
	store := NewSessionStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- store.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
