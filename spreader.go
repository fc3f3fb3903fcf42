package outbreak

import (
	rv "github.com/kentwait/randomvariate"
	"gonum.org/v1/gonum/floats"
)

// Spreader advances disease transmission for one tick: it looks at where
// Infectious people are, decides who newly becomes Exposed, and (for
// particle-based spreaders) evolves any background field it owns.
type Spreader interface {
	Spread(tick int, people []Person, bb BoundingBox, rng RNG) []DiseaseState
}

// RNG is the subset of *rand.Rand a Spreader needs; it lets tests supply a
// deterministic source without importing math/rand directly.
type RNG interface {
	Float64() float64
}

// InfectionRadius spreads disease geometrically and deterministically:
// every Infectious person exposes every Susceptible person strictly within
// Radius world units. There is no transmission probability — proximity
// alone decides the outcome every tick.
type InfectionRadius struct {
	Radius float64
}

// Spread returns a copy of each person's DiseaseState with newly-exposed
// susceptibles stamped Exposed(tick). It never mutates its input.
func (ir InfectionRadius) Spread(tick int, people []Person, _ BoundingBox, _ RNG) []DiseaseState {
	next := make([]DiseaseState, len(people))
	for i, p := range people {
		next[i] = p.DiseaseState
	}

	for i, target := range people {
		if target.DiseaseState.Kind != Susceptible {
			continue
		}
		for _, source := range people {
			if source.DiseaseState.Kind != Infectious {
				continue
			}
			if target.Position.Distance(source.Position) >= ir.Radius {
				continue
			}
			next[i] = ExposedState(tick)
			break
		}
	}
	return next
}

// BackgroundViralParticle models disease spread through a shared airborne
// particle field: each tick the whole field decays, susceptible people
// inhale whatever concentration sits under them, each becoming Exposed with
// probability proportional to that concentration, and infectious people
// exhale particles into nearby cells. The grid has exactly one cell per
// world-bounding-box cell.
type BackgroundViralParticle struct {
	ExhaleRadius             int
	DecayRate                float64
	InfectionRiskPerParticle float64

	bb      BoundingBox
	cols    int
	rows    int
	field   []float64
	stencil []stencilCell

	initialized bool
}

// inhaleEpsilon is the minimum particle reading worth rolling a draw for.
const inhaleEpsilon = 1e-9

type stencilCell struct {
	dr, dc int
}

// init lazily builds the grid and the exhale stencil the first time Spread
// runs, once bb (the world's bounding box) is known.
func (b *BackgroundViralParticle) init(bb BoundingBox) {
	if b.initialized && b.bb == bb {
		return
	}
	b.bb = bb
	b.cols = bb.Right - bb.Left
	b.rows = bb.Top - bb.Bottom
	if b.cols < 1 {
		b.cols = 1
	}
	if b.rows < 1 {
		b.rows = 1
	}
	b.field = make([]float64, b.rows*b.cols)
	b.stencil = buildExhaleStencil(b.ExhaleRadius)
	b.initialized = true
}

// buildExhaleStencil precomputes the integer offsets (dx, dy) with
// dx^2+dy^2 <= exhaleRadius^2 and |dx|, |dy| < exhaleRadius.
func buildExhaleStencil(exhaleRadius int) []stencilCell {
	var cells []stencilCell
	for dx := -(exhaleRadius - 1); dx <= exhaleRadius-1; dx++ {
		for dy := -(exhaleRadius - 1); dy <= exhaleRadius-1; dy++ {
			if dx*dx+dy*dy <= exhaleRadius*exhaleRadius {
				cells = append(cells, stencilCell{dr: dy, dc: dx})
			}
		}
	}
	return cells
}

func (b *BackgroundViralParticle) cellIndex(p Position) (int, int, bool) {
	c := int(p.X) - b.bb.Left
	r := int(p.Y) - b.bb.Bottom
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
		return 0, 0, false
	}
	return r, c, true
}

// Field returns the current particle concentration grid, row-major, for
// callers (e.g. a view façade) that want to render or inspect it. The
// returned slice is a defensive copy.
func (b *BackgroundViralParticle) Field() []float64 {
	out := make([]float64, len(b.field))
	copy(out, b.field)
	return out
}

// Spread decays the field, rolls a uniform draw for every susceptible person
// standing in a nonzero cell, then has every infectious person exhale into
// it. Particles exhaled this tick are inhaled from the next tick on.
func (b *BackgroundViralParticle) Spread(tick int, people []Person, bb BoundingBox, rng RNG) []DiseaseState {
	b.init(bb)

	next := make([]DiseaseState, len(people))
	for i, p := range people {
		next[i] = p.DiseaseState
	}

	if len(b.field) > 0 {
		floats.Scale(1-b.DecayRate, b.field)
	}

	for i, p := range people {
		if p.DiseaseState.Kind != Susceptible {
			continue
		}
		r, c, ok := b.cellIndex(p.Position)
		if !ok {
			continue
		}
		raw := b.field[r*b.cols+c]
		particles := raw
		if p.Mask == MaskN95 {
			particles = raw / 5
		}
		if particles <= inhaleEpsilon {
			continue
		}
		if rng.Float64() <= particles*b.InfectionRiskPerParticle {
			next[i] = ExposedState(tick)
		}
	}

	for _, p := range people {
		if p.DiseaseState.Kind != Infectious {
			continue
		}
		perCellAmount := 1.0
		if p.Mask == MaskRegular || p.Mask == MaskN95 {
			perCellAmount = 0.2
		}
		r, c, ok := b.cellIndex(p.Position)
		if !ok {
			continue
		}
		for _, s := range b.stencil {
			rr, cc := r+s.dr, c+s.dc
			if rr < 0 {
				rr = 0
			}
			if rr >= b.rows {
				rr = b.rows - 1
			}
			if cc < 0 {
				cc = 0
			}
			if cc >= b.cols {
				cc = b.cols - 1
			}
			b.field[rr*b.cols+cc] += perCellAmount
		}
	}

	return next
}

// drawBernoulli reports whether a probability-p event fires, using
// randomvariate's Binomial(1, p) single-trial draw.
func drawBernoulli(p float64) bool {
	return rv.Binomial(1, p) == 1.0
}
