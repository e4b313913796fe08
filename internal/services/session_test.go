package services

import (
	"context"
	"errors"
	"testing"

	"trip-dispatch-service/internal/adapters/solveapi"
	"trip-dispatch-service/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory snapshot store for session tests.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	blob, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return blob, nil
}

func (m *memStore) Set(_ context.Context, key string, blob []byte) error {
	m.data[key] = blob
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.data = map[string][]byte{}
	return nil
}

func newTestSession(t *testing.T) (*PlanningSession, *memStore, *solveapi.MockPlanSubmitter) {
	t.Helper()
	store := newMemStore()
	submitter := &solveapi.MockPlanSubmitter{}
	return NewPlanningSession(store, submitter, zerolog.Nop()), store, submitter
}

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	sess := NewPlanningSession(store, &solveapi.MockPlanSubmitter{}, zerolog.Nop())

	trips := GenerateTrips(GenerateOptions{StringIDs: []string{"101"}, Date: "2026-09-01", Seed: 3})
	sess.SetTrips(trips)
	require.NoError(t, sess.SaveTrips(ctx))

	// A fresh session over the same store restores the identical plan.
	restored := NewPlanningSession(store, &solveapi.MockPlanSubmitter{}, zerolog.Nop())
	require.NoError(t, restored.LoadTrips(ctx))
	require.Equal(t, trips, restored.Trips())
}

func TestSessionLoadWithoutSnapshot(t *testing.T) {
	sess, _, _ := newTestSession(t)
	require.NoError(t, sess.LoadTrips(context.Background()))
	require.Empty(t, sess.Trips())
}

func TestSessionMoveDeselectsMovedOrder(t *testing.T) {
	sess, _, _ := newTestSession(t)
	sess.SetTrips([]*domain.Trip{tripA(), tripB()})

	sess.ToggleOrderSelection("B", "0102")
	_, err := sess.MoveOrder("0102", "B", "A")
	require.NoError(t, err)
	require.Nil(t, sess.Selection())

	// An unrelated selection survives a move.
	sess.ToggleOrderSelection("A", "0001")
	_, err = sess.MoveOrder("0002", "A", "B")
	require.NoError(t, err)
	require.NotNil(t, sess.Selection())
}

func TestSessionSelectionToggle(t *testing.T) {
	sess, _, _ := newTestSession(t)

	sel := sess.ToggleOrderSelection("A", "0001")
	require.Equal(t, &Selection{TripID: "A", OrderID: "0001"}, sel)

	// A different order replaces the selection.
	sel = sess.ToggleOrderSelection("A", "0002")
	require.Equal(t, &Selection{TripID: "A", OrderID: "0002"}, sel)

	// Toggling the same order clears it.
	require.Nil(t, sess.ToggleOrderSelection("A", "0002"))
	require.Nil(t, sess.Selection())
}

func TestSessionSetTripsResetsUndo(t *testing.T) {
	sess, _, _ := newTestSession(t)
	sess.SetTrips([]*domain.Trip{tripA(), tripB()})

	_, err := sess.MoveOrder("0102", "B", "A")
	require.NoError(t, err)

	sess.SetTrips([]*domain.Trip{tripA(), tripB()})
	require.False(t, sess.UndoLastMove())
}

func TestSessionEvaluateMoveIsAdvisory(t *testing.T) {
	sess, _, _ := newTestSession(t)
	a := tripA() // 720 cubes of 860
	b := &domain.Trip{
		ID: "B", TripNumber: "10102", DeliveryType: domain.DeliveryTypeCore, VehicleCapacity: 860,
		Orders: []*domain.Order{{ID: "0050", Cubes: 200, DeliverySequence: 1}},
	}
	b.Recompute()
	sess.SetTrips([]*domain.Trip{a, b})

	check, err := sess.EvaluateMove("0050", "B", "A")
	require.NoError(t, err)
	require.True(t, check.Exceeds)

	// Evaluation commits nothing.
	got, _ := sess.col.Get("A")
	require.Equal(t, 3, got.TotalOrders)

	// The warned move still goes through.
	_, err = sess.MoveOrder("0050", "B", "A")
	require.NoError(t, err)
}

func TestSessionSubmitPlanSuccess(t *testing.T) {
	ctx := context.Background()
	sess, _, submitter := newTestSession(t)
	trips := []*domain.Trip{tripA(), tripB()}
	sess.SetTrips(trips)

	require.NoError(t, sess.SubmitPlan(ctx))
	require.Len(t, submitter.Submitted, 1)
	require.Len(t, submitter.Submitted[0], 2)

	notice, err := sess.TakeApprovalNotice(ctx)
	require.NoError(t, err)
	require.NotNil(t, notice)
	require.Equal(t, "success", notice.Status)
	require.Equal(t, "Trips approved", notice.Message)
	require.Equal(t, "2 trips have been created.", notice.Description)

	// The notice is one-shot.
	notice, err = sess.TakeApprovalNotice(ctx)
	require.NoError(t, err)
	require.Nil(t, notice)
}

func TestSessionSubmitPlanFailureKeepsEdits(t *testing.T) {
	ctx := context.Background()
	sess, _, submitter := newTestSession(t)
	sess.SetTrips([]*domain.Trip{tripA(), tripB()})

	_, err := sess.MoveOrder("0102", "B", "A")
	require.NoError(t, err)
	before := sess.Trips()

	submitter.Err = errors.New("solve api unavailable")
	err = sess.SubmitPlan(ctx)
	require.Error(t, err)

	// Local edits survive a remote failure, and no notice is staged.
	require.Equal(t, before, sess.Trips())
	notice, err := sess.TakeApprovalNotice(ctx)
	require.NoError(t, err)
	require.Nil(t, notice)

	// The in-flight guard resets after the failure.
	submitter.Err = nil
	require.NoError(t, sess.SubmitPlan(ctx))
}

func TestSessionGenerationScopeRoundTrip(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newTestSession(t)

	scope := GenerationScope{StringIDs: []string{"101", "103"}, DeliveryType: domain.DeliveryTypeJars}
	require.NoError(t, sess.SaveGenerationScope(ctx, scope))

	got, err := sess.LoadGenerationScope(ctx)
	require.NoError(t, err)
	require.Equal(t, scope, got)
}

func TestSessionGenerationScopeAbsent(t *testing.T) {
	sess, _, _ := newTestSession(t)
	got, err := sess.LoadGenerationScope(context.Background())
	require.NoError(t, err)
	require.Equal(t, GenerationScope{}, got)
}

func TestSessionDiscard(t *testing.T) {
	ctx := context.Background()
	sess, store, _ := newTestSession(t)
	sess.SetTrips([]*domain.Trip{tripA()})
	require.NoError(t, sess.SaveTrips(ctx))

	require.NoError(t, sess.Discard(ctx))
	require.Empty(t, sess.Trips())
	require.NotContains(t, store.data, "generatedTrips")
}

func TestSessionListTrips(t *testing.T) {
	sess, _, _ := newTestSession(t)
	sess.SetTrips(viewTrips())

	got := sess.ListTrips(TripFilter{StringIDs: []string{"102"}})
	require.Len(t, got, 1)
	require.Equal(t, "10203", got[0].TripNumber)
}
