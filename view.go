package outbreak

// PersonView is the read-only projection of a Person exposed to external
// consumers (a renderer, a logger, a snapshot writer) that should not be
// able to mutate simulation state.
type PersonView struct {
	ID           int
	X, Y         float64
	DiseaseKind  DiseaseKind
	Mask         Mask
	HouseholdIdx int
}

// HouseholdView is the read-only projection of one household's bounds and
// shopping state.
type HouseholdView struct {
	Bounds       BoundingBox
	DualShopper  bool
	SupplyLevels int
}

// Snapshot is a point-in-time, read-only view of a World: enough to render
// or report on without exposing the mutable Person slice or RNG.
type Snapshot struct {
	Tick       int
	RunID      string
	People     []PersonView
	Households []HouseholdView
	Stores     []BoundingBox
	Counts     map[DiseaseKind]int
}

// View returns a Snapshot of w's current state. The returned value shares
// no backing storage with w.People, so callers may retain it across
// further Step calls.
func (w *World) View() Snapshot {
	people := make([]PersonView, len(w.People))
	for i, p := range w.People {
		people[i] = PersonView{
			ID:           p.ID,
			X:            p.Position.X,
			Y:            p.Position.Y,
			DiseaseKind:  p.DiseaseState.Kind,
			Mask:         p.Mask,
			HouseholdIdx: p.HouseholdIdx,
		}
	}

	shopper, _ := w.behavior.(*Shopper)

	var households []HouseholdView
	var stores []BoundingBox
	if w.Map != nil {
		households = make([]HouseholdView, len(w.Map.Households))
		for i, bb := range w.Map.Households {
			hv := HouseholdView{Bounds: bb}
			if shopper != nil {
				hv.DualShopper, hv.SupplyLevels = shopper.HouseholdState(i)
			}
			households[i] = hv
		}
		stores = append([]BoundingBox(nil), w.Map.Stores...)
	}

	return Snapshot{
		Tick:       w.tick,
		RunID:      w.RunID.String(),
		People:     people,
		Households: households,
		Stores:     stores,
		Counts:     w.CountByState(),
	}
}

// BackgroundField returns the current particle concentration grid when the
// World's spreader is a BackgroundViralParticle, and false otherwise.
func (w *World) BackgroundField() ([]float64, bool) {
	bvp, ok := w.spreader.(*BackgroundViralParticle)
	if !ok {
		return nil, false
	}
	return bvp.Field(), true
}
