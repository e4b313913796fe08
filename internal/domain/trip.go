package domain

import "strconv"

// Trip is an ordered collection of orders assigned to one vehicle and
// dispatcher for a single delivery type and date. Insertion order of
// Orders is the delivery order.
//
// TotalOrders, TotalVolume and CapacityUsage are derived from the live
// Orders slice and must never be mutated independently; Recompute keeps
// them consistent after every change.
type Trip struct {
	ID              string
	TripNumber      string
	SubRegion       string
	Color           string
	DeliveryType    DeliveryType
	Orders          []*Order
	TotalOrders     int
	TotalVolume     float64
	CapacityUsage   int
	VehicleCapacity float64
	Dispatcher      string
	DispatcherRoute string
	Date            string // YYYY-MM-DD
	StringID        string
}

// Recompute refreshes all derived fields from the live Orders slice.
func (t *Trip) Recompute() {
	t.TotalOrders = len(t.Orders)

	volume := 0.0
	for _, o := range t.Orders {
		volume += o.Cubes
	}
	t.TotalVolume = volume
	t.CapacityUsage = Usage(volume, t.VehicleCapacity)
}

// Resequence renumbers delivery sequences to 1..n preserving the current
// relative order. Required after every removal.
func (t *Trip) Resequence() {
	for i, o := range t.Orders {
		o.DeliverySequence = i + 1
	}
}

// FindOrder returns the order with the given id, if present.
func (t *Trip) FindOrder(id string) (*Order, bool) {
	for _, o := range t.Orders {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// HasOrder reports whether an order with the given id is on the trip.
func (t *Trip) HasOrder(id string) bool {
	_, ok := t.FindOrder(id)
	return ok
}

// RemoveOrder deletes the order with the given id, preserving the relative
// order of the rest. It reports whether an order was removed; the caller
// is responsible for Resequence and Recompute.
func (t *Trip) RemoveOrder(id string) bool {
	for i, o := range t.Orders {
		if o.ID == id {
			t.Orders = append(t.Orders[:i], t.Orders[i+1:]...)
			return true
		}
	}
	return false
}

// MaxNumericOrderID returns the highest numeric order id currently on the
// trip. Non-numeric ids are ignored; zero is returned when no numeric ids
// exist. Used to re-identify an incoming order on id collision.
func (t *Trip) MaxNumericOrderID() int {
	max := 0
	for _, o := range t.Orders {
		n, err := strconv.Atoi(o.ID)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// NumberPrefix returns the 3-character region ("String ID") prefix of the
// trip number.
func (t *Trip) NumberPrefix() string {
	if len(t.TripNumber) < 3 {
		return t.TripNumber
	}
	return t.TripNumber[:3]
}

// SequenceLabel maps the trailing two digits of the trip number to its
// display label. Unknown suffixes return an empty label.
func (t *Trip) SequenceLabel() string {
	if len(t.TripNumber) < 5 {
		return ""
	}
	switch t.TripNumber[3:] {
	case "01":
		return "Trip 1"
	case "02":
		return "Trip 2"
	case "03":
		return "Trip 3"
	}
	return ""
}

// Clone returns a deep copy of the trip. Orders are copied so mutations of
// the clone never leak into the original (replace, don't mutate shared
// references).
func (t *Trip) Clone() *Trip {
	out := *t
	out.Orders = make([]*Order, len(t.Orders))
	for i, o := range t.Orders {
		cp := *o
		out.Orders[i] = &cp
	}
	return &out
}
