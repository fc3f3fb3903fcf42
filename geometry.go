package outbreak

import (
	"math"
	"math/rand"
)

// Position is a point in world coordinates. x grows rightward, y grows
// downward: Advance applies y += -sin(theta), matching the source this
// engine was ported from. Do not "fix" this to a right-handed frame.
type Position struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two positions.
func (p Position) Distance(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Advance moves p by a unit step in direction (in radians), elastically
// reflecting off the walls of bb and mutating direction to match. The
// upper-wall reflection subtracts one ULP so the resulting position stays
// strictly inside the half-open box; the lower-wall reflection does not.
// This asymmetry is intentional, not a bug: it is how the box stays
// half-open at [lo, hi) after a bounce.
func (p *Position) Advance(direction *float64, bb BoundingBox) {
	p.X += math.Cos(*direction)
	p.Y -= math.Sin(*direction)

	left := float64(bb.Left)
	if p.X < left {
		p.X = 2*left - p.X
		*direction = normalizeAngle(math.Pi - *direction)
	}

	right := float64(bb.Right)
	if p.X >= right {
		p.X = math.Nextafter(2*right-p.X, math.Inf(-1))
		*direction = normalizeAngle(math.Pi - *direction)
	}

	bottom := float64(bb.Bottom)
	if p.Y < bottom {
		p.Y = 2*bottom - p.Y
		*direction = normalizeAngle(-*direction)
	}

	top := float64(bb.Top)
	if p.Y >= top {
		p.Y = math.Nextafter(2*top-p.Y, math.Inf(-1))
		*direction = normalizeAngle(-*direction)
	}
}

// normalizeAngle folds t into [0, 2*pi).
func normalizeAngle(t float64) float64 {
	rem := math.Mod(t, 2*math.Pi)
	if rem < 0 {
		return 2*math.Pi + rem
	}
	return rem
}

// NormalizeAngle is the exported form of normalizeAngle, used by callers
// that sample or wrap directions outside this package's own state machines.
func NormalizeAngle(t float64) float64 {
	return normalizeAngle(t)
}

// BoundingBox is a half-open rectangle [Left, Right) x [Bottom, Top) over
// non-negative integer grid coordinates.
type BoundingBox struct {
	Bottom, Left, Top, Right int
}

// Rows returns the half-open row range [Bottom, Top).
func (bb BoundingBox) Rows() []int {
	rows := make([]int, 0, bb.Top-bb.Bottom)
	for r := bb.Bottom; r < bb.Top; r++ {
		rows = append(rows, r)
	}
	return rows
}

// Cols returns the half-open column range [Left, Right).
func (bb BoundingBox) Cols() []int {
	cols := make([]int, 0, bb.Right-bb.Left)
	for c := bb.Left; c < bb.Right; c++ {
		cols = append(cols, c)
	}
	return cols
}

// Size returns the number of cells covered by the box.
func (bb BoundingBox) Size() int {
	return (bb.Top - bb.Bottom) * (bb.Right - bb.Left)
}

// Scale multiplies all four fields by f. Scale(1) is the identity, and
// bb.Scale(a).Scale(b) == bb.Scale(a*b).
func (bb BoundingBox) Scale(f int) BoundingBox {
	return BoundingBox{
		Bottom: bb.Bottom * f,
		Left:   bb.Left * f,
		Top:    bb.Top * f,
		Right:  bb.Right * f,
	}
}

// RandomPoint returns a position uniformly distributed inside bb.
func (bb BoundingBox) RandomPoint(rng *rand.Rand) Position {
	return Position{
		X: float64(bb.Left) + rng.Float64()*float64(bb.Right-bb.Left),
		Y: float64(bb.Bottom) + rng.Float64()*float64(bb.Top-bb.Bottom),
	}
}

// Contains reports whether p lies strictly inside the half-open box.
func (bb BoundingBox) Contains(p Position) bool {
	return p.X >= float64(bb.Left) && p.X < float64(bb.Right) &&
		p.Y >= float64(bb.Bottom) && p.Y < float64(bb.Top)
}
