package solveapi

import (
	"context"

	"trip-dispatch-service/internal/domain"
	"trip-dispatch-service/internal/ports"
)

// MockSolveProvider serves canned trips for tests and offline demos.
type MockSolveProvider struct {
	Trips []*domain.Trip
	Err   error
}

func NewMockSolveProvider(trips []*domain.Trip) *MockSolveProvider {
	return &MockSolveProvider{Trips: trips}
}

func (m *MockSolveProvider) Solve(ctx context.Context, req ports.SolveRequest) ([]*domain.Trip, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Trips, nil
}

// MockPlanSubmitter records submitted plans instead of sending them.
type MockPlanSubmitter struct {
	Err       error
	Submitted [][]*domain.Trip
}

func (m *MockPlanSubmitter) SubmitPlan(ctx context.Context, trips []*domain.Trip) error {
	if m.Err != nil {
		return m.Err
	}
	m.Submitted = append(m.Submitted, trips)
	return nil
}
