package services

import (
	"math"

	"trip-dispatch-service/internal/domain"
)

// CapacityCheck is the advisory result of evaluating a prospective move
// against the target trip's vehicle capacity.
type CapacityCheck struct {
	Exceeds         bool
	Overage         int
	ProjectedVolume float64
	ProjectedUsage  int
}

// EvaluateCapacity reports whether adding the order to the target trip
// would exceed its vehicle capacity, and by how much. Pure function; it
// commits nothing. The caller decides whether to proceed with MoveOrder,
// optionally after operator confirmation; the engine itself never refuses
// a move on capacity grounds.
func EvaluateCapacity(order *domain.Order, target *domain.Trip) CapacityCheck {
	newVolume := target.TotalVolume + order.Cubes
	exceeds := newVolume > target.VehicleCapacity

	overage := 0
	if o := int(math.Round(newVolume - target.VehicleCapacity)); exceeds && o > 0 {
		overage = o
	}

	return CapacityCheck{
		Exceeds:         exceeds,
		Overage:         overage,
		ProjectedVolume: newVolume,
		ProjectedUsage:  domain.Usage(newVolume, target.VehicleCapacity),
	}
}
