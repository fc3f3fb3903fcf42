package outbreak

import (
	"math/rand"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

// World owns a full simulation: its map, its population, the spread and
// behavior models driving them, and the RNG stream everything draws from.
type World struct {
	RunID ksuid.KSUID

	Config Config
	Map    *Map

	People []Person

	spreader Spreader
	behavior PersonBehavior
	rng      *rand.Rand

	exposedPeriodTicks    int
	infectiousPeriodTicks int

	tick int
	bb   BoundingBox
}

// New builds a World from a validated Config. When config.Map is set it
// loads the named map and places people into its households; otherwise the
// world has no map at all and people are scattered uniformly at random
// across config.BoundingBox, each with HouseholdIdx 0.
func New(config Config) (*World, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(int64(config.Seed)))

	var m *Map
	bb := config.BoundingBox
	people := make([]Person, config.NumPeople)

	if config.Map != nil {
		var err error
		m, err = LoadMap(config.Map.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "loading map %q", config.Map.Name)
		}
		if config.Map.Scale > 1 {
			m = m.Scaled(config.Map.Scale)
		}
		if len(m.Households) == 0 {
			return nil, errors.Wrap(ErrBadConfig, "map has no households")
		}
		bb = BoundingBox{Bottom: 0, Left: 0, Top: m.Rows, Right: m.Cols}

		perHousehold := config.Map.NumPeoplePerHousehold
		if perHousehold <= 0 {
			perHousehold = 1
		}
		for i := range people {
			hh := (i / perHousehold) % len(m.Households)
			people[i] = Person{
				ID:              i,
				DiseaseState:    SusceptibleState(),
				HouseholdIdx:    hh,
				HeadOfHousehold: i%perHousehold == 0,
				Position:        m.Households[hh].RandomPoint(rng),
			}
		}
	} else {
		for i := range people {
			people[i] = Person{
				ID:              i,
				DiseaseState:    SusceptibleState(),
				HouseholdIdx:    0,
				HeadOfHousehold: i == 0,
				Position:        bb.RandomPoint(rng),
			}
		}
	}

	masks := randomVec(config.NumPeople, MaskN95, config.MaskN95Percentage,
		MaskRegular, config.MaskRegularPercentage, MaskNone, rng)
	for i := range people {
		people[i].Mask = masks[i]
	}

	// Sample initial infections by permuted index rather than shuffling
	// people itself, since Shopper's FollowHeadOfHousehold logic relies on
	// the head of each household holding the smallest id in it.
	order := rng.Perm(len(people))
	for _, i := range order[:config.NumInitiallyInfected] {
		people[i].DiseaseState = InfectiousState(0)
	}

	spreader, err := config.DiseaseSpread.Build()
	if err != nil {
		return nil, err
	}

	behavior, err := buildBehavior(config, m)
	if err != nil {
		return nil, err
	}

	return &World{
		RunID:                 ksuid.New(),
		Config:                config,
		Map:                   m,
		People:                people,
		spreader:              spreader,
		behavior:              behavior,
		rng:                   rng,
		exposedPeriodTicks:    config.ExposedPeriodTicks,
		infectiousPeriodTicks: config.InfectiousPeriodTicks,
		bb:                    bb,
	}, nil
}

func buildBehavior(config Config, m *Map) (PersonBehavior, error) {
	switch config.Behavior.Kind {
	case BehaviorBrownianMotion:
		return &BrownianMotion{}, nil
	case BehaviorShopper:
		return &Shopper{
			Map:                           m,
			Households:                    m.Households,
			Stores:                        m.Stores,
			ShoppingPeriodTicks:           config.Behavior.ShoppingPeriodTicks,
			InitSupplyLowRange:            config.Behavior.InitSupplyLowRange,
			InitSupplyHighRange:           config.Behavior.InitSupplyHighRange,
			SuppliesBoughtPerTrip:         config.Behavior.SuppliesBoughtPerTrip,
			FractionDualShopperHouseholds: config.Behavior.FractionDualShopperHouseholds,
		}, nil
	default:
		return nil, errors.Wrapf(ErrBadConfig, "behavior.type %q not recognized", config.Behavior.Kind)
	}
}

// Step advances the simulation by one tick: positions move, disease spreads
// geometrically or through the background field, then every Exposed or
// Infectious person checks whether their dwell time has elapsed and
// progresses to the next disease stage. It returns the tick just completed.
func (w *World) Step() (int, error) {
	w.tick++

	w.behavior.Step(w.People, w.bb, w.rng)

	next := w.spreader.Spread(w.tick, w.People, w.bb, w.rng)
	for i := range w.People {
		w.People[i].DiseaseState = next[i]
	}

	w.advanceDiseaseDurations()

	return w.tick, nil
}

func (w *World) advanceDiseaseDurations() {
	for i := range w.People {
		state := w.People[i].DiseaseState
		switch state.Kind {
		case Exposed:
			if w.tick-state.Tick >= w.exposedPeriodTicks {
				w.People[i].DiseaseState = InfectiousState(w.tick)
			}
		case Infectious:
			if w.tick-state.Tick >= w.infectiousPeriodTicks {
				w.People[i].DiseaseState = RecoveredState()
			}
		}
	}
}

// Tick returns the number of ticks this World has advanced.
func (w *World) Tick() int {
	return w.tick
}

// CountByState returns how many people currently hold each DiseaseKind.
func (w *World) CountByState() map[DiseaseKind]int {
	counts := map[DiseaseKind]int{}
	for _, p := range w.People {
		counts[p.DiseaseState.Kind]++
	}
	return counts
}
