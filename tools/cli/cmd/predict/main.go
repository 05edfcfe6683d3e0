// Command predict asks the prediction backend for a single win probability.
//
//	predict -team Celtics -opponent Knicks [-away] [-url http://localhost:5000]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/courtside/win-predictor/internal/form"
	"github.com/courtside/win-predictor/internal/models"
	"github.com/courtside/win-predictor/internal/predictor"
)

// Exit codes
const (
	exitOK      = 0
	exitUsage   = 1
	exitFailure = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)

	team := fs.String("team", "", "your team")
	opponent := fs.String("opponent", "", "opponent team")
	away := fs.Bool("away", false, "your team plays away")
	url := fs.String("url", envOr("PREDICTOR_URL", "http://localhost:5000"), "prediction backend base URL")
	path := fs.String("path", predictor.DefaultPath, "prediction route")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout (0 waits forever)")
	verbose := fs.Bool("v", false, "log backend calls")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	logger := zap.NewNop()
	if *verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	client, err := predictor.New(predictor.Config{
		BaseURL: *url,
		Path:    *path,
		Timeout: *timeout,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	state := form.NewState()
	state.SetTeam(*team)
	state.SetOpponent(*opponent)
	if *away {
		state.SetHomeAway(models.Away)
	}

	out := form.Submit(ctx, state, client)
	switch out.Kind {
	case form.KindSuccess:
		fmt.Fprintf(stdout, "Win Probability: %s\n", out.Display())
		return exitOK
	case form.KindInvalid:
		fmt.Fprintf(stderr, "%v\n", out.Err)
		fs.Usage()
		return exitUsage
	default:
		fmt.Fprintf(stderr, "%s error: %v\n", out.Kind, out.Err)
		return exitFailure
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
