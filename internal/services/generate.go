package services

import (
	"fmt"
	"math"
	"math/rand"

	"trip-dispatch-service/internal/domain"
)

// Color palette for generated trips (cycles when exhausted).
var tripColors = []string{
	"#7C3AED", // purple
	"#EF4444", // red
	"#3B82F6", // blue
	"#10B981", // green
	"#F97316", // orange
	"#EC4899", // pink
	"#8B5CF6", // violet
	"#14B8A6", // teal
}

// Known sub-regions per String ID; unknown ids fall back to "Region <id>".
var subRegions = map[string]string{
	"101": "La Porte Providence",
	"102": "Belvedere",
	"103": "L'aventure",
	"104": "Quatre Bornes",
	"105": "Curepipe",
	"106": "Rose Hill",
	"107": "Beau Bassin",
	"108": "Vacoas",
	"109": "Phoenix",
	"110": "Floreal",
	"111": "Forest Side",
	"112": "Stanley",
	"113": "Bambous",
	"114": "Midlands",
	"115": "Cascavelle",
}

var outletNames = []string{
	"Amina Bakeries",
	"Yanne Boutique",
	"Sunset Shop",
	"Metro Mart",
	"Phoenix Grocery",
	"Riverside Mart",
	"Central Supplies",
	"Corner Store",
	"Highland Market",
	"Town Center Shop",
	"Express Convenience",
	"Valley Grocers",
	"Peak Supplies",
}

var addresses = []string{
	"Gladestone",
	"Quatre Bornes",
	"Curepipe",
	"Rose Hill",
	"Beau Bassin",
	"Vacoas",
	"Phoenix",
}

// GenerateOptions controls synthetic trip generation. Zero values fall
// back to the defaults used for demo planning sessions.
type GenerateOptions struct {
	StringIDs       []string
	DeliveryType    domain.DeliveryType
	Date            string // YYYY-MM-DD
	VehicleCapacity float64
	TripsPerString  int
	Seed            int64
}

const (
	defaultVehicleCapacity = 800.0
	defaultTripsPerString  = 3

	// Generated order coordinates jitter around this point.
	baseLat = -20.1609
	baseLon = 57.5012
)

// GenerateTrips builds a synthetic trip collection for the given String
// IDs, in generation mode where no external solve service is available.
// Each String ID yields TripsPerString trips numbered
// "<stringID><2-digit seq>" with 3-5 orders each. Output is deterministic
// for a given seed.
func GenerateTrips(opts GenerateOptions) []*domain.Trip {
	if opts.DeliveryType == "" {
		opts.DeliveryType = domain.DeliveryTypeCore
	}
	if opts.VehicleCapacity == 0 {
		opts.VehicleCapacity = defaultVehicleCapacity
	}
	if opts.TripsPerString == 0 {
		opts.TripsPerString = defaultTripsPerString
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	trips := make([]*domain.Trip, 0, len(opts.StringIDs)*opts.TripsPerString)
	colorIndex := 0
	globalTripID := 1

	for _, stringID := range opts.StringIDs {
		for seq := 1; seq <= opts.TripsPerString; seq++ {
			tripNumber := fmt.Sprintf("%s%02d", stringID, seq)

			orderCount := rng.Intn(3) + 3 // 3-5 orders
			orders := make([]*domain.Order, 0, orderCount)
			for i := 0; i < orderCount; i++ {
				orderID := fmt.Sprintf("%04d", globalTripID*100+i+1)
				orders = append(orders, generateOrder(rng, orderID, i+1))
			}

			subRegion, ok := subRegions[stringID]
			if !ok {
				subRegion = "Region " + stringID
			}

			trip := &domain.Trip{
				ID:              fmt.Sprintf("%d", globalTripID),
				TripNumber:      tripNumber,
				SubRegion:       subRegion,
				Color:           tripColors[colorIndex%len(tripColors)],
				DeliveryType:    opts.DeliveryType,
				Orders:          orders,
				VehicleCapacity: opts.VehicleCapacity,
				Dispatcher:      "UNASSIGNED",
				DispatcherRoute: tripNumber,
				Date:            opts.Date,
				StringID:        stringID,
			}
			trip.Recompute()

			trips = append(trips, trip)
			colorIndex++
			globalTripID++
		}
	}

	return trips
}

func generateOrder(rng *rand.Rand, orderID string, sequence int) *domain.Order {
	// ~2km jitter around the depot region.
	latOffset := (rng.Float64() - 0.5) * 0.02
	lonOffset := (rng.Float64() - 0.5) * 0.02

	return &domain.Order{
		ID:               orderID,
		OutletName:       outletNames[rng.Intn(len(outletNames))],
		Address:          addresses[rng.Intn(len(addresses))],
		City:             "Mauritius",
		Cubes:            float64(rng.Intn(341) + 60), // 60-400 cubes
		Coordinates:      domain.Coordinates{Lat: baseLat + latOffset, Lon: baseLon + lonOffset},
		DeliverySequence: sequence,
		GridNumber:       "1",
		PlannedRoute:     orderID,
	}
}

// PlanSummary aggregates a trip collection for display before approval.
type PlanSummary struct {
	TotalTrips        int
	TotalOrders       int
	TotalVolume       float64
	AverageUsage      int
	OverCapacityTrips int
}

// SummarizePlan computes summary statistics over the collection.
func SummarizePlan(trips []*domain.Trip) PlanSummary {
	s := PlanSummary{TotalTrips: len(trips)}

	usageSum := 0
	for _, t := range trips {
		s.TotalOrders += t.TotalOrders
		s.TotalVolume += t.TotalVolume
		usageSum += t.CapacityUsage
		if t.CapacityUsage > 100 {
			s.OverCapacityTrips++
		}
	}
	if len(trips) > 0 {
		s.AverageUsage = int(math.Round(float64(usageSum) / float64(len(trips))))
	}

	return s
}
