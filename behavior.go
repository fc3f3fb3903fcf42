package outbreak

import (
	"math"
	"math/rand"
)

// PersonBehavior decides how people move. It owns whatever per-person or
// per-household state it needs as slices indexed in parallel to the
// World's own person slice; Person itself carries no behavior state.
type PersonBehavior interface {
	Step(people []Person, bb BoundingBox, rng *rand.Rand)
}

// BrownianMotion moves every person by Advance along an independent random
// walk, reflecting elastically off bb's walls.
type BrownianMotion struct {
	directions []float64
}

// Step advances each person one unit along its own heading, turning on
// wall contact. Headings are seeded uniformly on first use.
func (b *BrownianMotion) Step(people []Person, bb BoundingBox, rng *rand.Rand) {
	if len(b.directions) != len(people) {
		b.directions = make([]float64, len(people))
		for i := range b.directions {
			b.directions[i] = rng.Float64() * 2 * piConst
		}
	}
	for i := range people {
		people[i].Position.Advance(&b.directions[i], bb)
	}
}

const piConst = 3.14159265358979323846

// ShopperState is a single person's position in the shopping cycle.
type ShopperState int

const (
	AtHome ShopperState = iota
	GoingToStore
	Shopping
	ReturningHome
	FollowingHead
)

func (s ShopperState) String() string {
	switch s {
	case GoingToStore:
		return "going_to_store"
	case Shopping:
		return "shopping"
	case ReturningHome:
		return "returning_home"
	case FollowingHead:
		return "following_head"
	default:
		return "at_home"
	}
}

type personShopperState struct {
	phase   ShopperState
	theta   float64
	path    []Position
	pathIdx int
	elapsed int
}

type householdShopperState struct {
	headIdx      int
	dualShopper  bool
	supplyLevels int
	storeIdx     int
}

// Shopper is the per-person shopping state machine described by the
// household-supply-level model: every household's supply_levels ticks down
// by one each tick; when a household runs out, its head walks the cached
// household<->store route (three cells per tick while on a road, one
// otherwise) to restock, idling at the store for ShoppingPeriodTicks before
// returning. In dual-shopper households, the head's non-head member trails
// the head (FollowingHead) instead of independently idling while supplies
// are out.
type Shopper struct {
	Map        *Map
	Households []BoundingBox
	Stores     []BoundingBox

	ShoppingPeriodTicks           int
	InitSupplyLowRange            int
	InitSupplyHighRange           int
	SuppliesBoughtPerTrip         int
	FractionDualShopperHouseholds float64

	initialized bool
	households  []householdShopperState
	people      []personShopperState
}

func (s *Shopper) init(people []Person, rng *rand.Rand) {
	if s.initialized {
		return
	}

	s.households = make([]householdShopperState, len(s.Households))
	headSeen := make([]bool, len(s.Households))
	for i, p := range people {
		hh := p.HouseholdIdx
		if !headSeen[hh] {
			headSeen[hh] = true
			s.households[hh].headIdx = i
		}
	}
	for h := range s.households {
		s.households[h].dualShopper = drawBernoulli(s.FractionDualShopperHouseholds)
		s.households[h].supplyLevels = randIntRange(rng, s.InitSupplyLowRange, s.InitSupplyHighRange)
	}

	s.people = make([]personShopperState, len(people))
	for i := range s.people {
		s.people[i] = personShopperState{phase: AtHome, theta: rng.Float64() * 2 * piConst}
	}

	s.initialized = true
}

// Step decrements every household's supply_levels, then walks persons in
// ascending id order, branching each on its current ShopperState per the
// documented transition table.
func (s *Shopper) Step(people []Person, _ BoundingBox, rng *rand.Rand) {
	s.init(people, rng)

	for h := range s.households {
		s.households[h].supplyLevels--
	}

	for i := range people {
		hh := people[i].HouseholdIdx
		hs := &s.households[hh]
		ps := &s.people[i]
		isHead := i == hs.headIdx

		switch ps.phase {
		case AtHome:
			switch {
			case hs.supplyLevels > 0:
				people[i].Position.Advance(&ps.theta, s.Households[hh])
			case isHead:
				storeIdx := s.nearestStore(hh)
				route, err := s.Map.GetHouseholdToStorePath(s.Households[hh], s.Stores[storeIdx])
				if err != nil {
					people[i].Position.Advance(&ps.theta, s.Households[hh])
					continue
				}
				hs.storeIdx = storeIdx
				ps.path = buildTravelPath(route, people[i].Position)
				ps.pathIdx = 0
				ps.phase = GoingToStore
			case hs.dualShopper:
				ps.phase = FollowingHead
			default:
				people[i].Position.Advance(&ps.theta, s.Households[hh])
			}

		case GoingToStore:
			if s.advanceAlongPath(&people[i].Position, ps) {
				ps.phase = Shopping
				ps.theta = rng.Float64() * 2 * piConst
				ps.elapsed = 0
			}

		case Shopping:
			if ps.elapsed < s.ShoppingPeriodTicks {
				people[i].Position.Advance(&ps.theta, s.Stores[hs.storeIdx])
				ps.elapsed++
			} else {
				route, err := s.Map.GetStoreToHouseholdPath(s.Stores[hs.storeIdx], s.Households[hh])
				if err != nil {
					ps.elapsed = 0
					continue
				}
				ps.path = buildTravelPath(route, people[i].Position)
				ps.pathIdx = 0
				ps.phase = ReturningHome
			}

		case ReturningHome:
			if s.advanceAlongPath(&people[i].Position, ps) {
				hs.supplyLevels += s.SuppliesBoughtPerTrip
				ps.phase = AtHome
				ps.theta = rng.Float64() * 2 * piConst
			}

		case FollowingHead:
			s.stepFollowingHead(i, hs, ps, people, rng)
		}
	}
}

// advanceAlongPath consumes ps.path starting at ps.pathIdx, moving three
// cells per tick while the freshly-entered cell is a road cell and one
// cell per tick otherwise, and reports whether the path is exhausted.
func (s *Shopper) advanceAlongPath(pos *Position, ps *personShopperState) bool {
	if ps.pathIdx >= len(ps.path) {
		return true
	}
	target := ps.path[ps.pathIdx]
	*pos = target
	step := 1
	if elem, _, ok := s.Map.GetElement(target); ok && elem == RoadCell {
		step = 3
	}
	ps.pathIdx += step
	return ps.pathIdx >= len(ps.path)
}

func (s *Shopper) stepFollowingHead(i int, hs *householdShopperState, ps *personShopperState, people []Person, rng *rand.Rand) {
	headState := s.people[hs.headIdx]
	elem, _, ok := s.Map.GetElement(people[i].Position)
	insideHousehold := ok && elem == HouseholdCell

	if headState.phase == AtHome && insideHousehold {
		ps.phase = AtHome
		ps.theta = rng.Float64() * 2 * piConst
		return
	}

	head := people[hs.headIdx].Position
	dx := people[i].Position.X - head.X
	dy := people[i].Position.Y - head.Y
	dist := math.Hypot(dx, dy)
	if dist >= 5 {
		people[i].Position = Position{X: head.X + 5*dx/dist, Y: head.Y + 5*dy/dist}
	}
}

// HouseholdState reports household hh's current dual_shopper flag and
// supply_levels, for view/reporting code. It returns zero values before the
// first Step call, since households are only seeded lazily in init.
func (s *Shopper) HouseholdState(hh int) (dualShopper bool, supplyLevels int) {
	if hh < 0 || hh >= len(s.households) {
		return false, 0
	}
	return s.households[hh].dualShopper, s.households[hh].supplyLevels
}

// nearestStore picks the store whose center is closest to household hh.
func (s *Shopper) nearestStore(hh int) int {
	center := boxCenter(s.Households[hh])
	best, bestDist := 0, -1.0
	for i, store := range s.Stores {
		d := center.Distance(boxCenter(store))
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// buildTravelPath prepends a linear, grid-discretized segment from the
// traveler's current position to the first road cell of route (route[1];
// route[0] is the building center FindPath starts from), so a shopper
// walks smoothly out of the household or store before joining the cached
// road-network route rather than teleporting to its start.
func buildTravelPath(route []Position, current Position) []Position {
	if len(route) < 2 {
		out := make([]Position, len(route))
		copy(out, route)
		return out
	}
	firstRoad := route[1]
	prefix := linearDiscretizedPath(current, firstRoad)
	full := make([]Position, 0, len(prefix)+len(route)-2)
	full = append(full, prefix...)
	full = append(full, route[2:]...)
	return full
}

// linearDiscretizedPath returns the sequence of unit-step, grid-rounded
// points from "from" toward "to" (excluding "from", ending exactly at
// "to").
func linearDiscretizedPath(from, to Position) []Position {
	steps := int(math.Round(from.Distance(to)))
	if steps < 1 {
		steps = 1
	}
	path := make([]Position, 0, steps)
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		path = append(path, Position{
			X: math.Round(from.X + (to.X-from.X)*t),
			Y: math.Round(from.Y + (to.Y-from.Y)*t),
		})
	}
	path = append(path, to)
	return path
}

// randIntRange draws a uniform integer in [low, high]; if high < low it
// returns low.
func randIntRange(rng *rand.Rand, low, high int) int {
	if high <= low {
		return low
	}
	return low + rng.Intn(high-low+1)
}
