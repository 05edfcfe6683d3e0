package handlers

import (
	"context"
	"sync"

	"github.com/courtside/win-predictor/internal/models"
)

// MockBackend
type MockBackend struct {
	PredictFunc func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error)
	PingFunc    func(ctx context.Context) error

	mu    sync.Mutex
	calls []models.PredictionRequest
}

func (m *MockBackend) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, req)
	}
	return &models.PredictionResponse{WinProbability: 0.5}, nil
}

func (m *MockBackend) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockBackend) Calls() []models.PredictionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.PredictionRequest(nil), m.calls...)
}

func respondWith(p float64) func(context.Context, models.PredictionRequest) (*models.PredictionResponse, error) {
	return func(context.Context, models.PredictionRequest) (*models.PredictionResponse, error) {
		return &models.PredictionResponse{WinProbability: p}, nil
	}
}

func failWith(err error) func(context.Context, models.PredictionRequest) (*models.PredictionResponse, error) {
	return func(context.Context, models.PredictionRequest) (*models.PredictionResponse, error) {
		return nil, err
	}
}
