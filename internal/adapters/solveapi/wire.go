package solveapi

import (
	"fmt"
	"math"
	"strings"

	"trip-dispatch-service/internal/domain"
)

// tripOrderRecord is one flat order row in the solve service's wire
// format. A solve response is a list of these plus a capacity side table;
// a plan submission sends the same rows back.
type tripOrderRecord struct {
	Address         string  `json:"address"`
	Capacity        float64 `json:"capacity"`
	City            string  `json:"city"`
	Date            string  `json:"date"`
	DeliveryType    string  `json:"delivery_type"`
	Dispatcher      string  `json:"dispatcher"`
	DispatcherRoute string  `json:"dispatcher_route"`
	GridNumber      string  `json:"grid_number"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	OutletCode      string  `json:"outlet_code"`
	OutletName      string  `json:"outlet_name"`
	PlannedRoute    string  `json:"planned_route"`
	RouteName       string  `json:"route_name"`
	String          string  `json:"string"`
	TripID          string  `json:"trip_id"`
}

// routeCapacityRecord is the per-trip capacity side table entry keyed by
// trip identifier.
type routeCapacityRecord struct {
	CapacityPct     float64 `json:"capacity_pct"`
	TotalCapacity   float64 `json:"total_capacity"`
	VehicleCapacity float64 `json:"vehicle_capacity"`
}

// Distinct trip colors assigned in response order (cycles when exhausted).
var wireTripColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A", "#98D8C8",
	"#F7DC6F", "#BB8FCE", "#85C1E2", "#F8B195", "#C06C84",
	"#6C5B7B", "#F67280", "#99B898", "#FECEAB", "#355C7D",
	"#2ECC71", "#E74C3C", "#3498DB", "#F39C12", "#9B59B6",
	"#1ABC9C", "#E67E22", "#34495E", "#16A085", "#D35400",
}

// tripsFromRecords groups flat order rows into trips, preserving the
// first-seen order of trip ids. Delivery sequences follow row order within
// each trip; capacity figures come from the side table.
func tripsFromRecords(records []tripOrderRecord, capacities map[string]routeCapacityRecord) ([]*domain.Trip, error) {
	byTrip := make(map[string]*domain.Trip)
	tripIDs := make([]string, 0)

	for _, rec := range records {
		trip, ok := byTrip[rec.TripID]
		if !ok {
			dt, err := domain.ParseDeliveryType(rec.DeliveryType)
			if err != nil {
				return nil, fmt.Errorf("decode solve response: trip %q: %w", rec.TripID, err)
			}

			trip = &domain.Trip{
				ID:              rec.TripID,
				TripNumber:      rec.TripID,
				DeliveryType:    dt,
				Dispatcher:      rec.Dispatcher,
				DispatcherRoute: rec.DispatcherRoute,
				Date:            rec.Date,
				StringID:        rec.String,
			}
			byTrip[rec.TripID] = trip
			tripIDs = append(tripIDs, rec.TripID)
		}

		trip.Orders = append(trip.Orders, &domain.Order{
			ID:               rec.OutletCode,
			OutletName:       rec.OutletName,
			Address:          rec.Address,
			City:             rec.City,
			Cubes:            rec.Capacity,
			Coordinates:      domain.Coordinates{Lat: rec.Latitude, Lon: rec.Longitude},
			DeliverySequence: len(trip.Orders) + 1,
			GridNumber:       rec.GridNumber,
			PlannedRoute:     rec.PlannedRoute,
		})
	}

	trips := make([]*domain.Trip, 0, len(tripIDs))
	for i, id := range tripIDs {
		trip := byTrip[id]
		trip.Color = wireTripColors[i%len(wireTripColors)]
		trip.TotalOrders = len(trip.Orders)

		cap, ok := capacities[id]
		if ok {
			trip.VehicleCapacity = cap.VehicleCapacity
			trip.TotalVolume = cap.TotalCapacity
			trip.CapacityUsage = int(math.Round(cap.CapacityPct))
		} else {
			// No side-table entry; derive totals from the rows.
			trip.Recompute()
		}

		trips = append(trips, trip)
	}

	return trips, nil
}

// recordsFromTrips flattens trips back into wire rows for submission.
// Delivery types go out lower-cased, matching what the solve service
// emits.
func recordsFromTrips(trips []*domain.Trip) []tripOrderRecord {
	records := make([]tripOrderRecord, 0, len(trips))

	for _, trip := range trips {
		for _, o := range trip.Orders {
			records = append(records, tripOrderRecord{
				Address:         o.Address,
				Capacity:        o.Cubes,
				City:            o.City,
				Date:            trip.Date,
				DeliveryType:    strings.ToLower(string(trip.DeliveryType)),
				Dispatcher:      trip.Dispatcher,
				DispatcherRoute: trip.DispatcherRoute,
				GridNumber:      o.GridNumber,
				Latitude:        o.Coordinates.Lat,
				Longitude:       o.Coordinates.Lon,
				OutletCode:      o.ID,
				OutletName:      o.OutletName,
				PlannedRoute:    o.PlannedRoute,
				RouteName:       trip.TripNumber,
				String:          trip.StringID,
				TripID:          trip.TripNumber,
			})
		}
	}

	return records
}
