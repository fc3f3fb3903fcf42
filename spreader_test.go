package outbreak

import (
	"math/rand"
	"testing"
)

func TestInfectionRadiusTransmitsWithinRadius(t *testing.T) {
	ir := InfectionRadius{Radius: 5}
	people := []Person{
		{ID: 0, DiseaseState: InfectiousState(0), Position: Position{X: 0, Y: 0}},
		{ID: 1, DiseaseState: SusceptibleState(), Position: Position{X: 1, Y: 0}},
	}
	bb := BoundingBox{Top: 10, Right: 10}
	rng := rand.New(rand.NewSource(1))

	next := ir.Spread(3, people, bb, rng)
	if next[1].Kind != Exposed {
		t.Fatalf("expected person 1 to become Exposed, got %v", next[1].Kind)
	}
	if next[1].Tick != 3 {
		t.Errorf("Exposed tick = %d, want 3", next[1].Tick)
	}
	if next[0].Kind != Infectious {
		t.Errorf("source person's state should be untouched, got %v", next[0].Kind)
	}
}

func TestInfectionRadiusNeverTransmitsBeyondRange(t *testing.T) {
	ir := InfectionRadius{Radius: 1}
	people := []Person{
		{ID: 0, DiseaseState: InfectiousState(0), Position: Position{X: 0, Y: 0}},
		{ID: 1, DiseaseState: SusceptibleState(), Position: Position{X: 100, Y: 100}},
	}
	bb := BoundingBox{Top: 200, Right: 200}
	rng := rand.New(rand.NewSource(1))

	next := ir.Spread(0, people, bb, rng)
	if next[1].Kind != Susceptible {
		t.Errorf("expected distant person to remain Susceptible, got %v", next[1].Kind)
	}
}

func TestInfectionRadiusDoesNotTransmitAtExactRadius(t *testing.T) {
	ir := InfectionRadius{Radius: 1}
	people := []Person{
		{ID: 0, DiseaseState: InfectiousState(0), Position: Position{X: 0, Y: 0}},
		{ID: 1, DiseaseState: SusceptibleState(), Position: Position{X: 1, Y: 0}},
	}
	bb := BoundingBox{Top: 10, Right: 10}
	rng := rand.New(rand.NewSource(1))

	next := ir.Spread(0, people, bb, rng)
	if next[1].Kind != Susceptible {
		t.Errorf("expected person exactly at radius to remain Susceptible (strict <), got %v", next[1].Kind)
	}
}

func TestInfectionRadiusLeavesNonSusceptibleAlone(t *testing.T) {
	ir := InfectionRadius{Radius: 5}
	people := []Person{
		{ID: 0, DiseaseState: InfectiousState(0), Position: Position{X: 0, Y: 0}},
		{ID: 1, DiseaseState: RecoveredState(), Position: Position{X: 1, Y: 0}},
	}
	bb := BoundingBox{Top: 10, Right: 10}
	rng := rand.New(rand.NewSource(1))

	next := ir.Spread(0, people, bb, rng)
	if next[1].Kind != Recovered {
		t.Errorf("expected Recovered person to stay Recovered, got %v", next[1].Kind)
	}
}

func TestBackgroundViralParticleDepositsAndInfects(t *testing.T) {
	b := &BackgroundViralParticle{
		DecayRate:                0.1,
		ExhaleRadius:             1,
		InfectionRiskPerParticle: 1,
	}
	bb := BoundingBox{Top: 10, Right: 10}
	people := []Person{
		{ID: 0, DiseaseState: InfectiousState(0), Position: Position{X: 5, Y: 5}},
		{ID: 1, DiseaseState: SusceptibleState(), Position: Position{X: 5, Y: 5}},
	}
	rng := rand.New(rand.NewSource(1))

	// The first tick's exhale lands after that tick's inhale, so the
	// susceptible person breathes it in on the second tick.
	b.Spread(1, people, bb, rng)
	next := b.Spread(2, people, bb, rng)
	if next[1].Kind != Exposed {
		t.Fatalf("expected co-located susceptible to become Exposed, got %v", next[1].Kind)
	}

	field := b.Field()
	nonZero := false
	for _, v := range field {
		if v > 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Error("expected the particle field to hold a nonzero concentration after an exhale")
	}
}

func TestBackgroundViralParticleMaskedExhaleDepositsLess(t *testing.T) {
	bb := BoundingBox{Top: 10, Right: 10}
	rng := rand.New(rand.NewSource(1))

	unmasked := &BackgroundViralParticle{DecayRate: 0, ExhaleRadius: 1, InfectionRiskPerParticle: 1}
	unmasked.Spread(0, []Person{{ID: 0, DiseaseState: InfectiousState(0), Position: Position{X: 5, Y: 5}}}, bb, rng)

	masked := &BackgroundViralParticle{DecayRate: 0, ExhaleRadius: 1, InfectionRiskPerParticle: 1}
	masked.Spread(0, []Person{{ID: 0, DiseaseState: InfectiousState(0), Mask: MaskRegular, Position: Position{X: 5, Y: 5}}}, bb, rng)

	unmaskedTotal, maskedTotal := 0.0, 0.0
	for _, v := range unmasked.Field() {
		unmaskedTotal += v
	}
	for _, v := range masked.Field() {
		maskedTotal += v
	}
	if maskedTotal >= unmaskedTotal {
		t.Errorf("expected a masked exhale to deposit less: masked=%v unmasked=%v", maskedTotal, unmaskedTotal)
	}
}

// fixedRNG always reports the same draw, making the inhale coin flip
// deterministic for tests.
type fixedRNG float64

func (f fixedRNG) Float64() float64 { return float64(f) }

func TestBackgroundViralParticleN95InhaleIsProtective(t *testing.T) {
	bb := BoundingBox{Top: 10, Right: 10}

	// One unmasked exhale deposits a raw concentration of 1 in the shared
	// cell. With InfectionRiskPerParticle 1, an unmasked inhaler's exposure
	// threshold is 1 (always crossed by a draw below 1), but an N95
	// inhaler's threshold is scaled to 1/5 = 0.2, so a draw of 0.3 exposes
	// the former and spares the latter.
	run := func(mask Mask) DiseaseKind {
		b := &BackgroundViralParticle{DecayRate: 0, ExhaleRadius: 1, InfectionRiskPerParticle: 1}
		source := []Person{{ID: 0, DiseaseState: InfectiousState(0), Position: Position{X: 5, Y: 5}}}
		b.Spread(0, source, bb, fixedRNG(0))

		susceptible := []Person{
			{ID: 0, DiseaseState: InfectiousState(0), Position: Position{X: 5, Y: 5}},
			{ID: 1, DiseaseState: SusceptibleState(), Mask: mask, Position: Position{X: 5, Y: 5}},
		}
		next := b.Spread(1, susceptible, bb, fixedRNG(0.3))
		return next[1].Kind
	}

	if got := run(MaskN95); got != Susceptible {
		t.Errorf("N95 wearer with a 1/5-scaled dose under a 0.3 draw became %v, want Susceptible", got)
	}
	if got := run(MaskNone); got != Exposed {
		t.Errorf("unmasked inhaler under a 0.3 draw became %v, want Exposed", got)
	}
}

func TestBackgroundViralParticleDecaysOverTime(t *testing.T) {
	b := &BackgroundViralParticle{
		DecayRate:                0.5,
		ExhaleRadius:             1,
		InfectionRiskPerParticle: 0,
	}
	bb := BoundingBox{Top: 5, Right: 5}
	rng := rand.New(rand.NewSource(1))

	infectious := []Person{{ID: 0, DiseaseState: InfectiousState(0), Position: Position{X: 2, Y: 2}}}
	b.Spread(0, infectious, bb, rng)
	afterFirst := b.Field()

	empty := []Person{{ID: 0, DiseaseState: RecoveredState(), Position: Position{X: 2, Y: 2}}}
	b.Spread(1, empty, bb, rng)
	afterSecond := b.Field()

	var beforeSum, afterSum float64
	for i := range afterFirst {
		beforeSum += afterFirst[i]
		afterSum += afterSecond[i]
	}
	if afterSum >= beforeSum {
		t.Errorf("expected field to decay: before=%v after=%v", beforeSum, afterSum)
	}
}
