package ports

import (
	"context"

	"trip-dispatch-service/internal/domain"
)

// SolveRequest selects the scope of a solve run: one delivery date and the
// region ("String ID") codes to plan for.
type SolveRequest struct {
	Date      string
	StringIDs []string
}

// Port: the external solve service that produces the initial trip
// collection. Solving itself is a black box; only the returned assignment
// matters here.
type SolveProvider interface {
	Solve(ctx context.Context, req SolveRequest) ([]*domain.Trip, error)
}
