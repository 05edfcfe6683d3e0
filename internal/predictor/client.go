// Package predictor talks to the remote win-probability backend.
//
// A Client issues exactly one POST per Predict call and never retries or
// caches. Failures come back as *NetworkError, *ServerError or *DecodeError.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/courtside/win-predictor/internal/models"
)

// DefaultPath is the backend route predictions are posted to
const DefaultPath = "/api/predict"

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 1 << 20

// Prometheus metrics
var (
	backendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winpredict_backend_requests_total",
		Help: "Prediction backend calls by outcome",
	}, []string{"outcome"})

	backendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "winpredict_backend_request_duration_seconds",
		Help:    "Duration of prediction backend calls",
		Buckets: prometheus.DefBuckets,
	})
)

// Config configures a Client
type Config struct {
	BaseURL string
	Path    string
	// Timeout bounds a single call. Zero leaves it unbounded; the caller's
	// context can still cancel.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client is safe for concurrent use.
type Client struct {
	endpoint string
	rootURL  string
	timeout  time.Duration
	http     *http.Client
	logger   *zap.SugaredLogger
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("predictor: base URL is required")
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint: base + path,
		rootURL:  base + "/",
		timeout:  cfg.Timeout,
		http:     hc,
		logger:   logger.Sugar(),
	}, nil
}

// Endpoint returns the full URL predictions are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Predict posts req to the backend and returns the decoded response.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	start := time.Now()
	resp, err := c.predict(ctx, req)
	kind := Kind(err)
	backendDuration.Observe(time.Since(start).Seconds())
	backendRequests.WithLabelValues(kind).Inc()

	if err != nil {
		c.logger.Warnw("Prediction failed", "kind", kind, "error", err,
			"team", req.Team, "opponent", req.Opponent, "home_away", req.HomeAway)
		return nil, err
	}
	c.logger.Infow("Prediction received",
		"team", req.Team, "opponent", req.Opponent, "home_away", req.HomeAway,
		"win_probability", resp.WinProbability, "duration", time.Since(start))
	return resp, nil
}

func (c *Client) predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode prediction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build prediction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Op: "send", Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, &NetworkError{Op: "read", Err: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &ServerError{
			StatusCode: httpResp.StatusCode,
			Message:    errorMessage(body),
			Body:       truncate(string(body), 200),
		}
	}

	return decodeResponse(body)
}

// decodeResponse requires win_probability to be present and numeric; a
// plain float64 would turn a missing field into a bogus 0.0% result.
func decodeResponse(body []byte) (*models.PredictionResponse, error) {
	var raw struct {
		WinProbability *float64 `json:"win_probability"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Body: truncate(string(body), 200), Err: err}
	}
	if raw.WinProbability == nil {
		return nil, &DecodeError{Body: truncate(string(body), 200), Err: ErrMissingProbability}
	}
	return &models.PredictionResponse{WinProbability: *raw.WinProbability}, nil
}

// Ping checks that the backend root answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rootURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "ping", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{StatusCode: resp.StatusCode}
	}
	return nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		return e.Error
	}
	return ""
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
