package services

import (
	"slices"
	"strings"

	"trip-dispatch-service/internal/domain"
)

// TripFilter selects a read-only view of the collection. Category filters
// compose by logical AND; the search term is a final narrowing pass.
// Empty fields mean "no filtering" for that dimension.
type TripFilter struct {
	StringIDs      []string // 3-character trip number prefixes
	SequenceLabels []string // "Trip 1" .. "Trip 3"
	Search         string
}

// FilterTrips applies the filter over the trips without mutating stored
// state. Trips narrowed by an order-level search match are display copies
// with only the matching orders and a recomputed TotalOrders; everything
// else is returned as-is.
func FilterTrips(trips []*domain.Trip, f TripFilter) []*domain.Trip {
	out := make([]*domain.Trip, 0, len(trips))

	search := strings.ToLower(strings.TrimSpace(f.Search))

	for _, trip := range trips {
		if len(f.StringIDs) > 0 && !slices.Contains(f.StringIDs, trip.NumberPrefix()) {
			continue
		}
		// Trips with an unrecognized suffix have no label and are excluded
		// whenever a sequence-label filter is active.
		if len(f.SequenceLabels) > 0 && !slices.Contains(f.SequenceLabels, trip.SequenceLabel()) {
			continue
		}

		if search == "" {
			out = append(out, trip)
			continue
		}

		// A trip-number match keeps the trip with all of its orders.
		if strings.Contains(strings.ToLower(trip.TripNumber), search) {
			out = append(out, trip)
			continue
		}

		// Otherwise fall back to matching individual orders by outlet
		// name, order id or address.
		matched := make([]*domain.Order, 0, len(trip.Orders))
		for _, o := range trip.Orders {
			if strings.Contains(strings.ToLower(o.OutletName), search) ||
				strings.Contains(strings.ToLower(o.ID), search) ||
				strings.Contains(strings.ToLower(o.Address), search) {
				matched = append(matched, o)
			}
		}
		if len(matched) == 0 {
			continue
		}

		// Display-only derivation: the stored trip keeps its full order
		// list and totals.
		view := *trip
		view.Orders = matched
		view.TotalOrders = len(matched)
		out = append(out, &view)
	}

	return out
}

// AvailableStringIDs returns the sorted set of region prefixes present in
// the collection, for building filter options.
func AvailableStringIDs(trips []*domain.Trip) []string {
	seen := make(map[string]struct{}, len(trips))
	out := make([]string, 0, len(trips))
	for _, t := range trips {
		p := t.NumberPrefix()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

type SortField string

const (
	SortByOrders  SortField = "Orders"
	SortByOutlets SortField = "Outlets"
	SortByVolume  SortField = "Volume"
)

type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// SortTrips returns a new slice sorted by the given field and direction.
// Ties break on trip number so the view order is deterministic.
func SortTrips(trips []*domain.Trip, field SortField, order SortOrder) []*domain.Trip {
	out := make([]*domain.Trip, len(trips))
	copy(out, trips)

	key := func(t *domain.Trip) float64 {
		switch field {
		case SortByOutlets:
			return float64(distinctOutlets(t))
		case SortByVolume:
			return t.TotalVolume
		default:
			return float64(t.TotalOrders)
		}
	}

	slices.SortFunc(out, func(a, b *domain.Trip) int {
		ka, kb := key(a), key(b)
		if ka != kb {
			if (ka < kb) == (order != SortDescending) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.TripNumber, b.TripNumber)
	})

	return out
}

func distinctOutlets(t *domain.Trip) int {
	seen := make(map[string]struct{}, len(t.Orders))
	for _, o := range t.Orders {
		seen[o.OutletName] = struct{}{}
	}
	return len(seen)
}
