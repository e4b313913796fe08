package services

import (
	"errors"
	"fmt"

	"trip-dispatch-service/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound        = errors.New("order not present in source trip")
	ErrSameTrip             = errors.New("source and target trip are the same")
	ErrDeliveryTypeMismatch = errors.New("source and target delivery types differ")
)

// MoveResult describes a committed move. Order is the order as it now
// exists on the target trip; ReidentifiedID is set when an id collision
// forced a new id.
type MoveResult struct {
	UndoToken      string
	Order          *domain.Order
	ReidentifiedID string
	Source         *domain.Trip
	Target         *domain.Trip
}

// moveRecord is the single most-recent reversible move. order keeps the
// original id and content so undo can restore them verbatim.
type moveRecord struct {
	token          string
	order          domain.Order
	sourceID       string
	targetID       string
	reidentifiedID string
}

// Engine commits order moves between trips as atomic, reversible
// operations. It supports exactly one level of undo: each committed move
// discards the previously recorded one.
type Engine struct {
	lastMove *moveRecord
}

func NewEngine() *Engine {
	return &Engine{}
}

// MoveOrder moves the identified order from the source trip to the target
// trip. Both trips are replaced in the collection with recomputed copies;
// precondition violations return an error without mutating anything.
//
// Capacity is deliberately not checked here: overage is a policy signal
// for EvaluateCapacity and the caller, never a reason to refuse a commit.
func (e *Engine) MoveOrder(col *domain.TripCollection, orderID, sourceID, targetID string) (*MoveResult, error) {
	if sourceID == targetID {
		return nil, fmt.Errorf("move order %q: %w", orderID, ErrSameTrip)
	}

	source, ok := col.Get(sourceID)
	if !ok {
		return nil, fmt.Errorf("move order %q: source trip %q: %w", orderID, sourceID, domain.ErrTripNotFound)
	}
	target, ok := col.Get(targetID)
	if !ok {
		return nil, fmt.Errorf("move order %q: target trip %q: %w", orderID, targetID, domain.ErrTripNotFound)
	}
	if source.DeliveryType != target.DeliveryType {
		return nil, fmt.Errorf("move order %q: %q -> %q: %w", orderID, source.DeliveryType, target.DeliveryType, ErrDeliveryTypeMismatch)
	}

	order, ok := source.FindOrder(orderID)
	if !ok {
		return nil, fmt.Errorf("move order %q: trip %q: %w", orderID, sourceID, ErrOrderNotFound)
	}
	original := *order

	newSource := source.Clone()
	newSource.RemoveOrder(orderID)
	newSource.Resequence()
	newSource.Recompute()

	newTarget := target.Clone()

	// On id collision the moved order is re-identified to one past the
	// highest numeric id already on the target, zero-padded to 4 digits.
	moved := original
	reidentifiedID := ""
	if newTarget.HasOrder(moved.ID) {
		reidentifiedID = fmt.Sprintf("%04d", newTarget.MaxNumericOrderID()+1)
		moved.ID = reidentifiedID
	}

	// Appended at the end of the existing delivery order, not merged into
	// numeric position.
	moved.DeliverySequence = len(newTarget.Orders) + 1
	newTarget.Orders = append(newTarget.Orders, &moved)
	newTarget.Recompute()

	if err := col.Replace(newSource, newTarget); err != nil {
		return nil, fmt.Errorf("move order %q: %w", orderID, err)
	}

	rec := &moveRecord{
		token:          uuid.NewString(),
		order:          original,
		sourceID:       sourceID,
		targetID:       targetID,
		reidentifiedID: reidentifiedID,
	}
	e.lastMove = rec

	return &MoveResult{
		UndoToken:      rec.token,
		Order:          &moved,
		ReidentifiedID: reidentifiedID,
		Source:         newSource,
		Target:         newTarget,
	}, nil
}

// UndoLastMove reverses the most recent committed move and clears the
// record, so a second call is a no-op. The order returns to the end of its
// original trip under its original id, even when the move re-identified
// it. Capacity is not re-validated: undo is a correction mechanism, not a
// policy-checked operation.
//
// It reports whether a move was undone; with no recorded move it leaves
// the collection untouched.
func (e *Engine) UndoLastMove(col *domain.TripCollection) bool {
	rec := e.lastMove
	if rec == nil {
		return false
	}

	target, ok := col.Get(rec.targetID)
	if !ok {
		return false
	}
	source, ok := col.Get(rec.sourceID)
	if !ok {
		return false
	}

	removeID := rec.order.ID
	if rec.reidentifiedID != "" {
		removeID = rec.reidentifiedID
	}

	newTarget := target.Clone()
	newTarget.RemoveOrder(removeID)
	newTarget.Resequence()
	newTarget.Recompute()

	restored := rec.order
	newSource := source.Clone()
	newSource.Orders = append(newSource.Orders, &restored)
	newSource.Resequence()
	newSource.Recompute()

	if err := col.Replace(newSource, newTarget); err != nil {
		return false
	}

	e.lastMove = nil
	return true
}

// LastMoveToken returns the undo token of the recorded move, or "" when no
// move is recorded.
func (e *Engine) LastMoveToken() string {
	if e.lastMove == nil {
		return ""
	}
	return e.lastMove.token
}
