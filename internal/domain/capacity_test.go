package domain

import "testing"

func TestUsage(t *testing.T) {
	cases := []struct {
		name     string
		volume   float64
		capacity float64
		want     int
	}{
		{"empty trip", 0, 860, 0},
		{"exactly full", 860, 860, 100},
		{"over capacity", 1000, 860, 116},
		{"rounds nearest", 430, 860, 50},
		{"rounds half up", 4.3, 860, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Usage(tc.volume, tc.capacity)
			if got != tc.want {
				t.Errorf("Usage(%v, %v) = %d, want %d", tc.volume, tc.capacity, got, tc.want)
			}
		})
	}
}

func TestUsageUndefinedCapacity(t *testing.T) {
	if got := Usage(100, 0); got != UsageUndefined {
		t.Errorf("Usage with zero capacity = %d, want sentinel %d", got, UsageUndefined)
	}
	if got := Usage(100, -5); got != UsageUndefined {
		t.Errorf("Usage with negative capacity = %d, want sentinel %d", got, UsageUndefined)
	}
}
