package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/artemis-health/artemis/coordinator"
	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/round"
)

// MockService is a mock implementation of the coordinator.Service interface
type MockService struct {
	mock.Mock
}

// RunRound runs a single federated round
func (m *MockService) RunRound(ctx context.Context) (round.Record, error) {
	args := m.Called(ctx)
	return args.Get(0).(round.Record), args.Error(1)
}

// RunRounds runs n federated rounds back to back
func (m *MockService) RunRounds(ctx context.Context, n int) ([]round.Record, error) {
	args := m.Called(ctx, n)
	return args.Get(0).([]round.Record), args.Error(1)
}

// EvaluateCurrent scores the current global model on the held-out set
func (m *MockService) EvaluateCurrent(ctx context.Context) (model.Metrics, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Metrics), args.Error(1)
}

// Predict scores a single feature vector
func (m *MockService) Predict(ctx context.Context, features []float64) (model.Prediction, error) {
	args := m.Called(ctx, features)
	return args.Get(0).(model.Prediction), args.Error(1)
}

// History lists the committed round records
func (m *MockService) History(ctx context.Context) ([]round.Record, error) {
	args := m.Called(ctx)
	return args.Get(0).([]round.Record), args.Error(1)
}

// Stats reports aggregate service counters
func (m *MockService) Stats(ctx context.Context) (coordinator.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(coordinator.Stats), args.Error(1)
}

// SaveCheckpoint persists the current global model
func (m *MockService) SaveCheckpoint(ctx context.Context) (model.Version, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Version), args.Error(1)
}

// ListVersions lists saved model versions
func (m *MockService) ListVersions(ctx context.Context) ([]model.Version, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Version), args.Error(1)
}

// GetVersion retrieves a model version by number
func (m *MockService) GetVersion(ctx context.Context, version int) (model.Version, error) {
	args := m.Called(ctx, version)
	return args.Get(0).(model.Version), args.Error(1)
}

// LatestVersion retrieves the most recent model version
func (m *MockService) LatestVersion(ctx context.Context) (model.Version, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Version), args.Error(1)
}

// Round reports the number of committed rounds
func (m *MockService) Round() int {
	args := m.Called()
	return args.Int(0)
}
