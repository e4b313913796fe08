package ports

import (
	"context"

	"trip-dispatch-service/internal/domain"
)

// Port: the external gateway that accepts an approved dispatch plan.
// A failed submission never rolls back local edits; it only means the plan
// was not saved remotely.
type PlanSubmitter interface {
	SubmitPlan(ctx context.Context, trips []*domain.Trip) error
}
