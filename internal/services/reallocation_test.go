package services

import (
	"testing"

	"trip-dispatch-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func tripA() *domain.Trip {
	t := &domain.Trip{
		ID:              "A",
		TripNumber:      "10101",
		DeliveryType:    domain.DeliveryTypeCore,
		VehicleCapacity: 860,
		Orders: []*domain.Order{
			{ID: "0001", OutletName: "Amina Bakeries", Cubes: 300, DeliverySequence: 1},
			{ID: "0002", OutletName: "Metro Mart", Cubes: 220, DeliverySequence: 2},
			{ID: "0004", OutletName: "Sunset Shop", Cubes: 200, DeliverySequence: 3},
		},
	}
	t.Recompute()
	return t
}

func tripB() *domain.Trip {
	t := &domain.Trip{
		ID:              "B",
		TripNumber:      "10102",
		DeliveryType:    domain.DeliveryTypeCore,
		VehicleCapacity: 860,
		Orders: []*domain.Order{
			{ID: "0001", OutletName: "Yanne Boutique", Cubes: 200, DeliverySequence: 1},
			{ID: "0102", OutletName: "Corner Store", Cubes: 150, DeliverySequence: 2},
		},
	}
	t.Recompute()
	return t
}

// requireInvariants checks the collection-wide invariants that must hold
// after every committed mutation.
func requireInvariants(t *testing.T, col *domain.TripCollection) {
	t.Helper()

	for _, trip := range col.Trips() {
		require.Equal(t, len(trip.Orders), trip.TotalOrders, "trip %s TotalOrders", trip.ID)

		volume := 0.0
		for i, o := range trip.Orders {
			volume += o.Cubes
			require.Equal(t, i+1, o.DeliverySequence, "trip %s order %s sequence", trip.ID, o.ID)
		}
		require.InDelta(t, volume, trip.TotalVolume, 1e-9, "trip %s TotalVolume", trip.ID)
		require.Equal(t, domain.Usage(volume, trip.VehicleCapacity), trip.CapacityUsage, "trip %s CapacityUsage", trip.ID)

		seen := map[string]bool{}
		for _, o := range trip.Orders {
			require.False(t, seen[o.ID], "trip %s duplicate order id %s", trip.ID, o.ID)
			seen[o.ID] = true
		}
	}
}

func TestMoveOrderCommits(t *testing.T) {
	a, b := tripA(), tripB()
	untouched := &domain.Trip{ID: "C", TripNumber: "10103", DeliveryType: domain.DeliveryTypeCore, VehicleCapacity: 860}
	col := domain.NewTripCollection([]*domain.Trip{a, b, untouched})
	engine := NewEngine()

	res, err := engine.MoveOrder(col, "0102", "B", "A")
	require.NoError(t, err)
	require.NotEmpty(t, res.UndoToken)
	require.Empty(t, res.ReidentifiedID)

	source, _ := col.Get("B")
	require.Equal(t, 1, source.TotalOrders)
	require.InDelta(t, 200.0, source.TotalVolume, 1e-9)

	target, _ := col.Get("A")
	require.Equal(t, 4, target.TotalOrders)
	require.InDelta(t, 870.0, target.TotalVolume, 1e-9)
	require.Equal(t, 101, target.CapacityUsage)

	// Appended at the end of the existing delivery order.
	last := target.Orders[len(target.Orders)-1]
	require.Equal(t, "0102", last.ID)
	require.Equal(t, 4, last.DeliverySequence)

	// Other trips keep their object identity; moved trips are replaced.
	got, _ := col.Get("C")
	require.Same(t, untouched, got)
	require.NotSame(t, a, target)
	require.NotSame(t, b, source)

	requireInvariants(t, col)
}

func TestMoveOrderOverCapacityIsCommitted(t *testing.T) {
	// Trip A holds 720 cubes against 860 capacity; a 200-cube order still
	// commits. The gate is advisory, the engine never refuses.
	a := &domain.Trip{
		ID: "A", TripNumber: "10101", DeliveryType: domain.DeliveryTypeCore, VehicleCapacity: 860,
		Orders: []*domain.Order{
			{ID: "0001", Cubes: 400, DeliverySequence: 1},
			{ID: "0002", Cubes: 320, DeliverySequence: 2},
		},
	}
	a.Recompute()
	b := &domain.Trip{
		ID: "B", TripNumber: "10102", DeliveryType: domain.DeliveryTypeCore, VehicleCapacity: 860,
		Orders: []*domain.Order{{ID: "0050", Cubes: 200, DeliverySequence: 1}},
	}
	b.Recompute()
	col := domain.NewTripCollection([]*domain.Trip{a, b})

	check := EvaluateCapacity(b.Orders[0], a)
	require.True(t, check.Exceeds)
	require.Equal(t, 60, check.Overage)

	_, err := NewEngine().MoveOrder(col, "0050", "B", "A")
	require.NoError(t, err)

	target, _ := col.Get("A")
	require.InDelta(t, 920.0, target.TotalVolume, 1e-9)
	require.Equal(t, 107, target.CapacityUsage)
}

func TestMoveOrderReidentifiesOnCollision(t *testing.T) {
	a, b := tripA(), tripB()
	col := domain.NewTripCollection([]*domain.Trip{a, b})
	engine := NewEngine()

	// Both trips carry an order "0001"; the max numeric id in A is 4, so
	// the moved order becomes "0005".
	res, err := engine.MoveOrder(col, "0001", "B", "A")
	require.NoError(t, err)
	require.Equal(t, "0005", res.ReidentifiedID)
	require.Equal(t, "0005", res.Order.ID)

	target, _ := col.Get("A")
	moved, ok := target.FindOrder("0005")
	require.True(t, ok)
	require.Equal(t, "Yanne Boutique", moved.OutletName)
	require.Equal(t, 4, moved.DeliverySequence)

	requireInvariants(t, col)
}

func TestMoveOrderReidentifiesToFirstIDWithoutNumericIDs(t *testing.T) {
	a := &domain.Trip{
		ID: "A", TripNumber: "10101", DeliveryType: domain.DeliveryTypeCore, VehicleCapacity: 860,
		Orders: []*domain.Order{{ID: "OUT-7", Cubes: 100, DeliverySequence: 1}},
	}
	a.Recompute()
	b := &domain.Trip{
		ID: "B", TripNumber: "10102", DeliveryType: domain.DeliveryTypeCore, VehicleCapacity: 860,
		Orders: []*domain.Order{{ID: "OUT-7", Cubes: 60, DeliverySequence: 1}},
	}
	b.Recompute()
	col := domain.NewTripCollection([]*domain.Trip{a, b})

	res, err := NewEngine().MoveOrder(col, "OUT-7", "B", "A")
	require.NoError(t, err)
	require.Equal(t, "0001", res.ReidentifiedID)
}

func TestMoveOrderPreconditions(t *testing.T) {
	engine := NewEngine()

	t.Run("same trip", func(t *testing.T) {
		col := domain.NewTripCollection([]*domain.Trip{tripA()})
		_, err := engine.MoveOrder(col, "0001", "A", "A")
		require.ErrorIs(t, err, ErrSameTrip)
	})

	t.Run("order not in source", func(t *testing.T) {
		col := domain.NewTripCollection([]*domain.Trip{tripA(), tripB()})
		_, err := engine.MoveOrder(col, "9999", "A", "B")
		require.ErrorIs(t, err, ErrOrderNotFound)
		requireInvariants(t, col)
	})

	t.Run("unknown target", func(t *testing.T) {
		col := domain.NewTripCollection([]*domain.Trip{tripA()})
		_, err := engine.MoveOrder(col, "0001", "A", "Z")
		require.ErrorIs(t, err, domain.ErrTripNotFound)
	})

	t.Run("delivery type mismatch", func(t *testing.T) {
		a := tripA()
		b := tripB()
		b.DeliveryType = domain.DeliveryTypeKegs
		col := domain.NewTripCollection([]*domain.Trip{a, b})

		_, err := engine.MoveOrder(col, "0001", "A", "B")
		require.ErrorIs(t, err, ErrDeliveryTypeMismatch)

		// Failed preconditions must not mutate either side.
		gotA, _ := col.Get("A")
		gotB, _ := col.Get("B")
		require.Same(t, a, gotA)
		require.Same(t, b, gotB)
	})
}

func TestUndoRestoresBothTrips(t *testing.T) {
	a, b := tripA(), tripB()
	wantA := a.Clone()
	wantB := b.Clone()
	col := domain.NewTripCollection([]*domain.Trip{a, b})
	engine := NewEngine()

	_, err := engine.MoveOrder(col, "0102", "B", "A")
	require.NoError(t, err)
	require.True(t, engine.UndoLastMove(col))

	gotA, _ := col.Get("A")
	gotB, _ := col.Get("B")
	require.Equal(t, wantA.Orders, gotA.Orders)
	require.Equal(t, wantB.Orders, gotB.Orders)
	requireInvariants(t, col)
}

func TestUndoRestoresOriginalIDAfterReidentification(t *testing.T) {
	a, b := tripA(), tripB()
	col := domain.NewTripCollection([]*domain.Trip{a, b})
	engine := NewEngine()

	res, err := engine.MoveOrder(col, "0001", "B", "A")
	require.NoError(t, err)
	require.Equal(t, "0005", res.ReidentifiedID)

	require.True(t, engine.UndoLastMove(col))

	target, _ := col.Get("A")
	require.False(t, target.HasOrder("0005"), "re-identified order must leave the target")
	require.Equal(t, 3, target.TotalOrders)

	source, _ := col.Get("B")
	restored, ok := source.FindOrder("0001")
	require.True(t, ok, "original id restored on the source trip")
	require.Equal(t, "Yanne Boutique", restored.OutletName)
	require.InDelta(t, 200.0, restored.Cubes, 1e-9)
	requireInvariants(t, col)
}

func TestUndoTwiceIsNoOp(t *testing.T) {
	col := domain.NewTripCollection([]*domain.Trip{tripA(), tripB()})
	engine := NewEngine()

	_, err := engine.MoveOrder(col, "0102", "B", "A")
	require.NoError(t, err)

	require.True(t, engine.UndoLastMove(col))
	after := col.Trips()

	require.False(t, engine.UndoLastMove(col))
	require.Equal(t, after, col.Trips())
}

func TestUndoWithNoRecordedMove(t *testing.T) {
	col := domain.NewTripCollection([]*domain.Trip{tripA()})
	engine := NewEngine()

	require.False(t, engine.UndoLastMove(col))
	require.Empty(t, engine.LastMoveToken())
}

func TestSecondMoveDiscardsFirstRecord(t *testing.T) {
	col := domain.NewTripCollection([]*domain.Trip{tripA(), tripB()})
	engine := NewEngine()

	first, err := engine.MoveOrder(col, "0102", "B", "A")
	require.NoError(t, err)
	second, err := engine.MoveOrder(col, "0002", "A", "B")
	require.NoError(t, err)
	require.NotEqual(t, first.UndoToken, second.UndoToken)
	require.Equal(t, second.UndoToken, engine.LastMoveToken())

	// Only the second move reverses; "0102" stays on A.
	require.True(t, engine.UndoLastMove(col))

	a, _ := col.Get("A")
	b, _ := col.Get("B")
	require.True(t, a.HasOrder("0102"))
	require.True(t, a.HasOrder("0002"))
	require.False(t, b.HasOrder("0002"))
	requireInvariants(t, col)
}
