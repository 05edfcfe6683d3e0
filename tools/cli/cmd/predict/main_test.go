package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestRun(t *testing.T) {
	var mu sync.Mutex
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotBody = string(b)
		mu.Unlock()
		if strings.Contains(string(b), `"team":"Broken"`) {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"win_probability": 0.732}`))
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantBody string
	}{
		{
			name:     "Home",
			args:     []string{"-url", srv.URL, "-team", "Celtics", "-opponent", "Knicks"},
			wantCode: exitOK,
			wantOut:  "Win Probability: 73.2%\n",
			wantBody: `{"team":"Celtics","opponent":"Knicks","home_away":"home"}`,
		},
		{
			name:     "Away",
			args:     []string{"-url", srv.URL, "-team", "Celtics", "-opponent", "Knicks", "-away"},
			wantCode: exitOK,
			wantOut:  "Win Probability: 73.2%\n",
			wantBody: `{"team":"Celtics","opponent":"Knicks","home_away":"away"}`,
		},
		{
			name:     "Missing Opponent",
			args:     []string{"-url", srv.URL, "-team", "Celtics"},
			wantCode: exitUsage,
		},
		{
			name:     "Server Error",
			args:     []string{"-url", srv.URL, "-team", "Broken", "-opponent", "Knicks"},
			wantCode: exitFailure,
		},
		{
			name:     "Unknown Flag",
			args:     []string{"-bogus"},
			wantCode: exitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mu.Lock()
			gotBody = ""
			mu.Unlock()
			var stdout, stderr bytes.Buffer

			code := run(context.Background(), tt.args, &stdout, &stderr)

			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr %q)", code, tt.wantCode, stderr.String())
			}
			if stdout.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantOut)
			}
			mu.Lock()
			defer mu.Unlock()
			if tt.wantBody != "" && gotBody != tt.wantBody {
				t.Errorf("request body = %s, want %s", gotBody, tt.wantBody)
			}
		})
	}
}
