package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"trip-dispatch-service/internal/domain"
	"trip-dispatch-service/internal/ports"

	"github.com/rs/zerolog"
)

// Snapshot-store keys carried over page transitions.
const (
	snapshotKeyTrips          = "generatedTrips"
	snapshotKeyStringIDs      = "selectedStringIds"
	snapshotKeyDeliveryType   = "tripDeliveryType"
	snapshotKeyApprovalNotice = "showApprovalToast"
)

var ErrSubmitInFlight = errors.New("plan submission already in progress")

// Selection is the session's UI-state side channel: at most one order is
// selected for inspection at a time. It never affects trip data.
type Selection struct {
	TripID  string
	OrderID string
}

// ApprovalNotice is the one-shot notification payload shown after a
// successful submission, persisted across the post-approval navigation.
type ApprovalNotice struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// PlanningSession owns one operator's in-progress dispatch plan: the trip
// collection, the reallocation engine with its single-level undo, the
// selection side channel, and the load/save lifecycle against the snapshot
// store. All mutations run synchronously to completion; the session is
// single-operator by design.
type PlanningSession struct {
	col       *domain.TripCollection
	engine    *Engine
	store     ports.SnapshotStore
	submitter ports.PlanSubmitter
	log       zerolog.Logger

	selection  *Selection
	submitting bool
}

func NewPlanningSession(store ports.SnapshotStore, submitter ports.PlanSubmitter, log zerolog.Logger) *PlanningSession {
	return &PlanningSession{
		col:       domain.NewTripCollection(nil),
		engine:    NewEngine(),
		store:     store,
		submitter: submitter,
		log:       log,
	}
}

// SetTrips replaces the session's collection, e.g. with a solve result or
// generated trips. Undo history and selection do not survive a reload.
func (s *PlanningSession) SetTrips(trips []*domain.Trip) {
	s.col = domain.NewTripCollection(trips)
	s.engine = NewEngine()
	s.selection = nil
}

// Trips returns the current collection in stable order.
func (s *PlanningSession) Trips() []*domain.Trip {
	return s.col.Trips()
}

// ListTrips returns a filtered read-only view of the collection.
func (s *PlanningSession) ListTrips(f TripFilter) []*domain.Trip {
	return FilterTrips(s.col.Trips(), f)
}

// LoadTrips restores the persisted collection from the snapshot store. An
// absent snapshot yields an empty session, not an error.
func (s *PlanningSession) LoadTrips(ctx context.Context) error {
	blob, err := s.store.Get(ctx, snapshotKeyTrips)
	if err != nil {
		return fmt.Errorf("load trips: get snapshot: %w", err)
	}
	if blob == nil {
		s.SetTrips(nil)
		return nil
	}

	var trips []*domain.Trip
	if err := json.Unmarshal(blob, &trips); err != nil {
		return fmt.Errorf("load trips: decode snapshot: %w", err)
	}

	s.SetTrips(trips)
	s.log.Info().Int("trips", len(trips)).Msg("planning session restored from snapshot")
	return nil
}

// SaveTrips persists the current collection as an opaque snapshot.
func (s *PlanningSession) SaveTrips(ctx context.Context) error {
	blob, err := json.Marshal(s.col.Trips())
	if err != nil {
		return fmt.Errorf("save trips: encode snapshot: %w", err)
	}
	if err := s.store.Set(ctx, snapshotKeyTrips, blob); err != nil {
		return fmt.Errorf("save trips: set snapshot: %w", err)
	}
	return nil
}

// EvaluateMove runs the capacity policy gate for a prospective move
// without committing anything. The result is advisory: the caller decides
// whether to proceed, optionally after operator confirmation.
func (s *PlanningSession) EvaluateMove(orderID, sourceID, targetID string) (CapacityCheck, error) {
	source, ok := s.col.Get(sourceID)
	if !ok {
		return CapacityCheck{}, fmt.Errorf("evaluate move: source trip %q: %w", sourceID, domain.ErrTripNotFound)
	}
	target, ok := s.col.Get(targetID)
	if !ok {
		return CapacityCheck{}, fmt.Errorf("evaluate move: target trip %q: %w", targetID, domain.ErrTripNotFound)
	}
	order, ok := source.FindOrder(orderID)
	if !ok {
		return CapacityCheck{}, fmt.Errorf("evaluate move: order %q in trip %q: %w", orderID, sourceID, ErrOrderNotFound)
	}
	return EvaluateCapacity(order, target), nil
}

// MoveOrder commits a move through the reallocation engine. The moved
// order, if selected, is deselected.
func (s *PlanningSession) MoveOrder(orderID, sourceID, targetID string) (*MoveResult, error) {
	res, err := s.engine.MoveOrder(s.col, orderID, sourceID, targetID)
	if err != nil {
		return nil, err
	}

	if s.selection != nil && s.selection.TripID == sourceID && s.selection.OrderID == orderID {
		s.selection = nil
	}

	s.log.Info().
		Str("order", orderID).
		Str("source", sourceID).
		Str("target", targetID).
		Str("reidentified", res.ReidentifiedID).
		Msg("order moved")
	return res, nil
}

// UndoLastMove reverses the most recent move; with nothing to undo it is a
// no-op and reports false.
func (s *PlanningSession) UndoLastMove() bool {
	undone := s.engine.UndoLastMove(s.col)
	if undone {
		s.log.Info().Msg("last move undone")
	}
	return undone
}

// ToggleOrderSelection selects an order for inspection. Toggling the
// already-selected order clears the selection; any other order replaces
// it. Returns the selection after the toggle (nil when cleared).
func (s *PlanningSession) ToggleOrderSelection(tripID, orderID string) *Selection {
	if s.selection != nil && s.selection.TripID == tripID && s.selection.OrderID == orderID {
		s.selection = nil
		return nil
	}
	s.selection = &Selection{TripID: tripID, OrderID: orderID}
	return s.selection
}

// Selection returns the currently selected order, or nil.
func (s *PlanningSession) Selection() *Selection {
	return s.selection
}

// SubmitPlan pushes the whole collection through the plan submission
// gateway. A second submission while one is pending is rejected. A remote
// failure leaves all local edits intact; it only means the plan was not
// saved. On success the approval notice is staged for the post-navigation
// page.
func (s *PlanningSession) SubmitPlan(ctx context.Context) error {
	if s.submitting {
		return ErrSubmitInFlight
	}
	s.submitting = true
	defer func() { s.submitting = false }()

	trips := s.col.Trips()
	if err := s.submitter.SubmitPlan(ctx, trips); err != nil {
		s.log.Error().Err(err).Msg("plan submission failed")
		return fmt.Errorf("submit plan: %w", err)
	}

	notice := ApprovalNotice{
		Status:      "success",
		Message:     "Trips approved",
		Description: fmt.Sprintf("%d trips have been created.", len(trips)),
	}
	if err := s.putApprovalNotice(ctx, notice); err != nil {
		// The plan is already saved remotely; a lost toast is not worth
		// failing the approval.
		s.log.Warn().Err(err).Msg("approval notice not persisted")
	}

	s.log.Info().Int("trips", len(trips)).Msg("plan submitted")
	return nil
}

func (s *PlanningSession) putApprovalNotice(ctx context.Context, n ApprovalNotice) error {
	blob, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("put approval notice: encode: %w", err)
	}
	if err := s.store.Set(ctx, snapshotKeyApprovalNotice, blob); err != nil {
		return fmt.Errorf("put approval notice: set snapshot: %w", err)
	}
	return nil
}

// TakeApprovalNotice returns and consumes the staged approval notice.
// Returns nil when none is staged; a second call after a take returns nil.
func (s *PlanningSession) TakeApprovalNotice(ctx context.Context) (*ApprovalNotice, error) {
	blob, err := s.store.Get(ctx, snapshotKeyApprovalNotice)
	if err != nil {
		return nil, fmt.Errorf("take approval notice: get snapshot: %w", err)
	}
	if blob == nil {
		return nil, nil
	}

	var n ApprovalNotice
	if err := json.Unmarshal(blob, &n); err != nil {
		return nil, fmt.Errorf("take approval notice: decode: %w", err)
	}
	if err := s.store.Remove(ctx, snapshotKeyApprovalNotice); err != nil {
		return nil, fmt.Errorf("take approval notice: remove snapshot: %w", err)
	}
	return &n, nil
}

// GenerationScope is the date/region selection that produced the current
// plan, persisted so a regeneration can reuse it.
type GenerationScope struct {
	StringIDs    []string            `json:"stringIds"`
	DeliveryType domain.DeliveryType `json:"deliveryType"`
}

// SaveGenerationScope persists the selection used to generate the plan.
func (s *PlanningSession) SaveGenerationScope(ctx context.Context, scope GenerationScope) error {
	ids, err := json.Marshal(scope.StringIDs)
	if err != nil {
		return fmt.Errorf("save generation scope: encode string ids: %w", err)
	}
	if err := s.store.Set(ctx, snapshotKeyStringIDs, ids); err != nil {
		return fmt.Errorf("save generation scope: set string ids: %w", err)
	}
	if err := s.store.Set(ctx, snapshotKeyDeliveryType, []byte(scope.DeliveryType)); err != nil {
		return fmt.Errorf("save generation scope: set delivery type: %w", err)
	}
	return nil
}

// LoadGenerationScope restores the persisted selection; absent keys yield
// an empty scope.
func (s *PlanningSession) LoadGenerationScope(ctx context.Context) (GenerationScope, error) {
	var scope GenerationScope

	ids, err := s.store.Get(ctx, snapshotKeyStringIDs)
	if err != nil {
		return scope, fmt.Errorf("load generation scope: get string ids: %w", err)
	}
	if ids != nil {
		if err := json.Unmarshal(ids, &scope.StringIDs); err != nil {
			return scope, fmt.Errorf("load generation scope: decode string ids: %w", err)
		}
	}

	dt, err := s.store.Get(ctx, snapshotKeyDeliveryType)
	if err != nil {
		return scope, fmt.Errorf("load generation scope: get delivery type: %w", err)
	}
	scope.DeliveryType = domain.DeliveryType(dt)

	return scope, nil
}

// Discard abandons the session: the persisted snapshot is removed and the
// in-memory collection, undo history and selection are reset.
func (s *PlanningSession) Discard(ctx context.Context) error {
	if err := s.store.Remove(ctx, snapshotKeyTrips); err != nil {
		return fmt.Errorf("discard session: remove snapshot: %w", err)
	}
	s.SetTrips(nil)
	return nil
}
