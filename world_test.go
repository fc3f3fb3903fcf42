package outbreak

import "testing"

func newTestConfig(behaviorKind BehaviorKind) Config {
	c := Config{
		NumPeople:             30,
		NumInitiallyInfected:  6,
		ExposedPeriodTicks:    3,
		InfectiousPeriodTicks: 5,
		MaskRegularPercentage: 0.2,
		MaskN95Percentage:     0.1,
		Seed:                  123,
		Map:                   &MapParams{Name: "simple_groceries", NumPeoplePerHousehold: 2},
		DiseaseSpread: DiseaseSpreadParameters{
			Kind:   DiseaseSpreadInfectionRadius,
			Radius: 3,
		},
	}
	switch behaviorKind {
	case BehaviorShopper:
		c.Behavior = BehaviorParameters{
			Kind:                          BehaviorShopper,
			ShoppingPeriodTicks:           3,
			InitSupplyLowRange:            2,
			InitSupplyHighRange:           4,
			SuppliesBoughtPerTrip:         10,
			FractionDualShopperHouseholds: 0.3,
		}
	default:
		c.Behavior = BehaviorParameters{Kind: BehaviorBrownianMotion}
	}
	return c
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	c := newTestConfig(BehaviorBrownianMotion)
	c.NumPeople = 0
	if _, err := New(c); err == nil {
		t.Error("expected New to reject an invalid config")
	}
}

func TestNewRejectsUnknownMap(t *testing.T) {
	c := newTestConfig(BehaviorBrownianMotion)
	c.Map = &MapParams{Name: "does_not_exist"}
	if _, err := New(c); err == nil {
		t.Error("expected New to reject an unknown map name")
	}
}

func TestNewBuildsMaplessWorld(t *testing.T) {
	c := newTestConfig(BehaviorBrownianMotion)
	c.Map = nil
	c.BoundingBox = BoundingBox{Bottom: 0, Left: 0, Top: 40, Right: 40}
	w, err := New(c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, p := range w.People {
		if p.HouseholdIdx != 0 {
			t.Errorf("mapless person has HouseholdIdx = %d, want 0", p.HouseholdIdx)
		}
	}
}

func TestConfigValidateRejectsShopperBehaviorWithoutMapViaNew(t *testing.T) {
	c := newTestConfig(BehaviorShopper)
	c.Map = nil
	if _, err := New(c); err == nil {
		t.Error("expected New to reject shopper behavior without a map")
	}
}

func TestNewPopulatesPeople(t *testing.T) {
	w, err := New(newTestConfig(BehaviorBrownianMotion))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(w.People) != 30 {
		t.Errorf("len(People) = %d, want 30", len(w.People))
	}
	counts := w.CountByState()
	if counts[Infectious] != 6 {
		t.Errorf("counts[Infectious] = %d, want 6", counts[Infectious])
	}
	if counts[Susceptible] == 0 {
		t.Error("expected at least one initially susceptible person")
	}
}

func TestStepAdvancesTick(t *testing.T) {
	w, err := New(newTestConfig(BehaviorBrownianMotion))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 10; i++ {
		tick, err := w.Step()
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		if tick != i+1 {
			t.Errorf("Step() = %d, want %d", tick, i+1)
		}
	}
	if w.Tick() != 10 {
		t.Errorf("Tick() = %d, want 10", w.Tick())
	}
}

func TestDiseaseNeverGoesBackwards(t *testing.T) {
	w, err := New(newTestConfig(BehaviorBrownianMotion))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rank := map[DiseaseKind]int{Susceptible: 0, Exposed: 1, Infectious: 2, Recovered: 3}
	prev := make([]DiseaseKind, len(w.People))
	for i, p := range w.People {
		prev[i] = p.DiseaseState.Kind
	}
	for tick := 0; tick < 60; tick++ {
		if _, err := w.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
		for i, p := range w.People {
			if rank[p.DiseaseState.Kind] < rank[prev[i]] {
				t.Fatalf("tick %d: person %d regressed from %v to %v", tick, i, prev[i], p.DiseaseState.Kind)
			}
			prev[i] = p.DiseaseState.Kind
		}
	}
}

func TestPopulationNeverExceedsInitialCount(t *testing.T) {
	w, err := New(newTestConfig(BehaviorShopper))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for tick := 0; tick < 40; tick++ {
		if _, err := w.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
		if len(w.People) != 30 {
			t.Fatalf("tick %d: len(People) = %d, want 30", tick, len(w.People))
		}
	}
}

func TestShopperWorldKeepsPeopleInBounds(t *testing.T) {
	w, err := New(newTestConfig(BehaviorShopper))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bb := BoundingBox{Bottom: 0, Left: 0, Top: w.Map.Rows, Right: w.Map.Cols}
	for tick := 0; tick < 80; tick++ {
		if _, err := w.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
		for _, p := range w.People {
			if p.Position.X < float64(bb.Left) || p.Position.X > float64(bb.Right) ||
				p.Position.Y < float64(bb.Bottom) || p.Position.Y > float64(bb.Top) {
				t.Fatalf("tick %d: person escaped map bounds: %+v", tick, p.Position)
			}
		}
	}
}

func TestViewSnapshotMatchesWorld(t *testing.T) {
	w, err := New(newTestConfig(BehaviorBrownianMotion))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	snap := w.View()
	if len(snap.People) != len(w.People) {
		t.Fatalf("len(snap.People) = %d, want %d", len(snap.People), len(w.People))
	}
	if snap.RunID != w.RunID.String() {
		t.Errorf("snap.RunID = %s, want %s", snap.RunID, w.RunID.String())
	}
	if snap.Tick != w.Tick() {
		t.Errorf("snap.Tick = %d, want %d", snap.Tick, w.Tick())
	}
}

func TestViewSnapshotReportsShopperHouseholdState(t *testing.T) {
	w, err := New(newTestConfig(BehaviorShopper))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := w.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	snap := w.View()
	if len(snap.Households) != len(w.Map.Households) {
		t.Fatalf("len(snap.Households) = %d, want %d", len(snap.Households), len(w.Map.Households))
	}
	for i, hh := range snap.Households {
		if hh.Bounds != w.Map.Households[i] {
			t.Errorf("household %d bounds mismatch: got %+v, want %+v", i, hh.Bounds, w.Map.Households[i])
		}
	}
}

func TestBackgroundFieldOnlyForParticleSpreader(t *testing.T) {
	brownian := newTestConfig(BehaviorBrownianMotion)
	w1, err := New(brownian)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := w1.BackgroundField(); ok {
		t.Error("expected BackgroundField to report false for an infection-radius spreader")
	}

	particleConfig := brownian
	particleConfig.DiseaseSpread = DiseaseSpreadParameters{
		Kind:                     DiseaseSpreadBackgroundViralParticle,
		DecayRate:                0.1,
		ExhaleRadius:             2,
		InfectionRiskPerParticle: 0.1,
	}
	w2, err := New(particleConfig)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := w2.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	field, ok := w2.BackgroundField()
	if !ok {
		t.Fatal("expected BackgroundField to report true for a particle spreader")
	}
	if len(field) == 0 {
		t.Error("expected a nonempty field")
	}
}
