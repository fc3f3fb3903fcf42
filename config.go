package outbreak

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// DiseaseSpreadKind tags which variant a DiseaseSpreadParameters value holds.
type DiseaseSpreadKind string

const (
	DiseaseSpreadInfectionRadius         DiseaseSpreadKind = "infection_radius"
	DiseaseSpreadBackgroundViralParticle DiseaseSpreadKind = "background_viral_particle"
)

// DiseaseSpreadParameters is a closed, JSON-tagged union over the two
// spread models. Only the fields of the variant selected by Kind are
// meaningful.
type DiseaseSpreadParameters struct {
	Kind DiseaseSpreadKind

	// InfectionRadius
	Radius float64

	// BackgroundViralParticle
	ExhaleRadius             int
	DecayRate                float64
	InfectionRiskPerParticle float64
}

type diseaseSpreadWire struct {
	Type                     DiseaseSpreadKind `json:"type"`
	Radius                   float64           `json:"radius,omitempty"`
	ExhaleRadius             int               `json:"exhale_radius,omitempty"`
	DecayRate                float64           `json:"decay_rate,omitempty"`
	InfectionRiskPerParticle float64           `json:"infection_risk_per_particle,omitempty"`
}

func (d DiseaseSpreadParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(diseaseSpreadWire{
		Type:                     d.Kind,
		Radius:                   d.Radius,
		ExhaleRadius:             d.ExhaleRadius,
		DecayRate:                d.DecayRate,
		InfectionRiskPerParticle: d.InfectionRiskPerParticle,
	})
}

func (d *DiseaseSpreadParameters) UnmarshalJSON(data []byte) error {
	var wire diseaseSpreadWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "decoding disease_spread")
	}
	switch wire.Type {
	case DiseaseSpreadInfectionRadius, DiseaseSpreadBackgroundViralParticle:
	default:
		return errors.Wrapf(ErrBadConfig, "disease_spread.type %q not recognized", wire.Type)
	}
	*d = DiseaseSpreadParameters{
		Kind:                     wire.Type,
		Radius:                   wire.Radius,
		ExhaleRadius:             wire.ExhaleRadius,
		DecayRate:                wire.DecayRate,
		InfectionRiskPerParticle: wire.InfectionRiskPerParticle,
	}
	return nil
}

// Build constructs the concrete Spreader this configuration describes.
func (d DiseaseSpreadParameters) Build() (Spreader, error) {
	switch d.Kind {
	case DiseaseSpreadInfectionRadius:
		return InfectionRadius{Radius: d.Radius}, nil
	case DiseaseSpreadBackgroundViralParticle:
		return &BackgroundViralParticle{
			ExhaleRadius:             d.ExhaleRadius,
			DecayRate:                d.DecayRate,
			InfectionRiskPerParticle: d.InfectionRiskPerParticle,
		}, nil
	default:
		return nil, errors.Wrapf(ErrBadConfig, "disease_spread.type %q not recognized", d.Kind)
	}
}

// BehaviorKind tags which variant a BehaviorParameters value holds.
type BehaviorKind string

const (
	BehaviorBrownianMotion BehaviorKind = "brownian_motion"
	BehaviorShopper        BehaviorKind = "shopper"
)

// BehaviorParameters is a closed, JSON-tagged union over the two movement
// models.
type BehaviorParameters struct {
	Kind BehaviorKind

	// Shopper
	ShoppingPeriodTicks           int
	InitSupplyLowRange            int
	InitSupplyHighRange           int
	SuppliesBoughtPerTrip         int
	FractionDualShopperHouseholds float64
}

type behaviorWire struct {
	Type                           BehaviorKind `json:"type"`
	ShoppingPeriodTicks            int          `json:"shopping_period_ticks,omitempty"`
	InitSupplyLowRange             int          `json:"init_supply_low_range,omitempty"`
	InitSupplyHighRange            int          `json:"init_supply_high_range,omitempty"`
	SuppliesBoughtPerTrip          int          `json:"supplies_bought_per_trip,omitempty"`
	FractionDualShopperHouseholds  float64      `json:"fraction_dual_shopper_households,omitempty"`
}

func (b BehaviorParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(behaviorWire{
		Type:                          b.Kind,
		ShoppingPeriodTicks:           b.ShoppingPeriodTicks,
		InitSupplyLowRange:            b.InitSupplyLowRange,
		InitSupplyHighRange:           b.InitSupplyHighRange,
		SuppliesBoughtPerTrip:         b.SuppliesBoughtPerTrip,
		FractionDualShopperHouseholds: b.FractionDualShopperHouseholds,
	})
}

func (b *BehaviorParameters) UnmarshalJSON(data []byte) error {
	var wire behaviorWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "decoding behavior")
	}
	switch wire.Type {
	case BehaviorBrownianMotion, BehaviorShopper:
	default:
		return errors.Wrapf(ErrBadConfig, "behavior.type %q not recognized", wire.Type)
	}
	*b = BehaviorParameters{
		Kind:                          wire.Type,
		ShoppingPeriodTicks:           wire.ShoppingPeriodTicks,
		InitSupplyLowRange:            wire.InitSupplyLowRange,
		InitSupplyHighRange:           wire.InitSupplyHighRange,
		SuppliesBoughtPerTrip:         wire.SuppliesBoughtPerTrip,
		FractionDualShopperHouseholds: wire.FractionDualShopperHouseholds,
	}
	return nil
}

// MapParams describes the optional built-in map a World is placed on. A
// nil *MapParams on Config means the world has no map at all: people are
// placed uniformly at random within BoundingBox and household_idx is
// always 0.
type MapParams struct {
	Name                  string `json:"name"`
	Scale                 int    `json:"scale"`
	NumPeoplePerHousehold int    `json:"num_people_per_household"`
}

// Config is the JSON-serializable description of a World, mirroring the
// shape a caller loads from disk or generates for a calibration sweep.
type Config struct {
	BoundingBox           BoundingBox             `json:"bounding_box"`
	NumPeople             int                     `json:"num_people"`
	NumInitiallyInfected  int                     `json:"num_initially_infected"`
	ExposedPeriodTicks    int                     `json:"exposed_period_ticks"`
	InfectiousPeriodTicks int                     `json:"infectious_period_ticks"`
	MaskRegularPercentage float64                 `json:"mask_regular_percentage"`
	MaskN95Percentage     float64                 `json:"mask_n95_percentage"`
	DiseaseSpread         DiseaseSpreadParameters `json:"disease_spread"`
	Behavior              BehaviorParameters      `json:"behavior"`
	Map                   *MapParams              `json:"map_params,omitempty"`
	Seed                  uint64                  `json:"seed"`
}

// Validate reports the first internal inconsistency found in c, wrapping
// ErrBadConfig with a description of what's wrong.
func (c Config) Validate() error {
	if c.NumPeople <= 0 {
		return errors.Wrapf(ErrBadConfig, "num_people must be positive, got %d", c.NumPeople)
	}
	if c.NumInitiallyInfected < 0 || c.NumInitiallyInfected > c.NumPeople {
		return errors.Wrapf(ErrBadConfig, "num_initially_infected (%d) must be within [0, num_people=%d]",
			c.NumInitiallyInfected, c.NumPeople)
	}
	if c.ExposedPeriodTicks < 0 || c.InfectiousPeriodTicks < 0 {
		return errors.Wrap(ErrBadConfig, "exposed_period_ticks and infectious_period_ticks must be non-negative")
	}
	if err := checkPercentage("mask_regular_percentage", c.MaskRegularPercentage); err != nil {
		return err
	}
	if err := checkPercentage("mask_n95_percentage", c.MaskN95Percentage); err != nil {
		return err
	}
	if c.MaskRegularPercentage+c.MaskN95Percentage > 1 {
		return errors.Wrap(ErrBadConfig, "mask_regular_percentage + mask_n95_percentage exceeds 1")
	}
	switch c.DiseaseSpread.Kind {
	case DiseaseSpreadInfectionRadius, DiseaseSpreadBackgroundViralParticle:
	default:
		return errors.Wrapf(ErrBadConfig, "disease_spread.type %q not recognized", c.DiseaseSpread.Kind)
	}
	switch c.Behavior.Kind {
	case BehaviorBrownianMotion, BehaviorShopper:
	default:
		return errors.Wrapf(ErrBadConfig, "behavior.type %q not recognized", c.Behavior.Kind)
	}
	if c.Behavior.Kind == BehaviorShopper {
		if c.Map == nil {
			return errors.Wrap(ErrBadConfig, "shopper behavior requires map_params")
		}
		if err := checkPercentage("fraction_dual_shopper_households", c.Behavior.FractionDualShopperHouseholds); err != nil {
			return err
		}
		if c.Behavior.InitSupplyLowRange > c.Behavior.InitSupplyHighRange {
			return errors.Wrap(ErrBadConfig, "init_supply_low_range must be <= init_supply_high_range")
		}
	}
	// bounding_box only governs placement when there is no map (§4.6); a
	// map-backed world derives its bounds from the map instead.
	if c.Map == nil {
		if c.BoundingBox.Right <= c.BoundingBox.Left || c.BoundingBox.Top <= c.BoundingBox.Bottom {
			return errors.Wrapf(ErrBadConfig, "bounding_box must have positive width and height, got %+v", c.BoundingBox)
		}
	}
	return nil
}

func checkPercentage(field string, v float64) error {
	if v < 0 || v > 1 {
		return errors.Wrapf(ErrBadConfig, "%s must be within [0, 1], got %v", field, v)
	}
	return nil
}
