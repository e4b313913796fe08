package domain

import (
	"errors"
	"fmt"
)

var ErrTripNotFound = errors.New("trip not found")

// TripCollection is the ordered set of trips in one planning session,
// indexed by trip id. Mutations replace whole Trip values; trips that are
// not part of a mutation keep their object identity.
type TripCollection struct {
	trips []*Trip
	index map[string]int
}

func NewTripCollection(trips []*Trip) *TripCollection {
	c := &TripCollection{
		trips: make([]*Trip, len(trips)),
		index: make(map[string]int, len(trips)),
	}
	for i, t := range trips {
		c.trips[i] = t
		c.index[t.ID] = i
	}
	return c
}

// Trips returns the trips in their stable collection order. The slice is a
// copy; the trips themselves are shared and must not be mutated in place.
func (c *TripCollection) Trips() []*Trip {
	out := make([]*Trip, len(c.trips))
	copy(out, c.trips)
	return out
}

func (c *TripCollection) Len() int { return len(c.trips) }

// Get returns the trip with the given id.
func (c *TripCollection) Get(id string) (*Trip, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.trips[i], true
}

// Replace swaps in updated trips by id, keeping collection order. Every
// replacement must target an existing trip; the collection is unchanged on
// error.
func (c *TripCollection) Replace(updated ...*Trip) error {
	for _, t := range updated {
		if _, ok := c.index[t.ID]; !ok {
			return fmt.Errorf("replace trip %q: %w", t.ID, ErrTripNotFound)
		}
	}
	for _, t := range updated {
		c.trips[c.index[t.ID]] = t
	}
	return nil
}
