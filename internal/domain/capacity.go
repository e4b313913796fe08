package domain

import "math"

// UsageUndefined is returned by Usage when the vehicle capacity is zero or
// negative. Callers should render it as "unknown" rather than a percentage.
const UsageUndefined = -1

// Usage returns the capacity utilization of volume against capacity as a
// rounded integer percentage. Values above 100 are valid and signal
// overage, not an error.
func Usage(volume, capacity float64) int {
	if capacity <= 0 {
		return UsageUndefined
	}
	return int(math.Round(volume / capacity * 100))
}
