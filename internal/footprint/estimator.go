// Package footprint implements the daily CO2 estimator: a deterministic,
// side-effect free mapping from domain.FootprintInput to domain.FootprintResult.
//
// The computation follows these steps:
//  1. Resolve the per-km transport factor (unknown modes resolve to 0).
//  2. electricity = kWh/30 × EF_elec, water = L × EF_water,
//     travel = km × EF_mode, tree offset = trees × EF_tree/365.
//  3. total = electricity + water + travel − tree offset.
//  4. Apply the habit policy (solar, segregation, reuse, lighting).
//  5. Clamp to zero.
//  6. Classify into a tier.
//  7. Stamp the creation time.
package footprint

import (
	"math"
	"time"

	"github.com/tbourn/go-eco-backend/internal/domain"
)

// Tier thresholds in grams per day. A total strictly below a bound falls in
// the corresponding tier; anything at or above the last bound is very_poor.
var tierBounds = []struct {
	below float64
	tier  domain.Tier
}{
	{3000, domain.TierExcellent},
	{6000, domain.TierGood},
	{9000, domain.TierModerate},
	{12000, domain.TierPoor},
}

// Classify maps a daily total to its tier.
func Classify(total float64) domain.Tier {
	for _, b := range tierBounds {
		if total < b.below {
			return b.tier
		}
	}
	return domain.TierVeryPoor
}

// Breakdown exposes the additive components of a computation before habit
// adjustments and clamping.
type Breakdown struct {
	Electricity float64 `json:"electricity"`
	Water       float64 `json:"water"`
	Travel      float64 `json:"travel"`
	TreeOffset  float64 `json:"treeOffset"`
}

// Total returns the unadjusted sum.
func (b Breakdown) Total() float64 {
	return b.Electricity + b.Water + b.Travel - b.TreeOffset
}

// Estimator computes footprint results. The zero value is not usable; build
// one with New.
type Estimator struct {
	Factors Factors
	Policy  Policy
	// Now stamps results; tests replace it for deterministic timestamps.
	Now func() time.Time
}

// New returns an Estimator with the default factors and policy.
func New() *Estimator {
	return &Estimator{
		Factors: DefaultFactors(),
		Policy:  DefaultPolicy(),
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// Breakdown validates in and returns its additive components.
func (e *Estimator) Breakdown(in domain.FootprintInput) (Breakdown, error) {
	if err := Validate(in); err != nil {
		return Breakdown{}, err
	}
	travelFactor, _ := e.Factors.TransportFactor(in.TransportMode)
	b := Breakdown{
		Electricity: in.ElectricityKWhPerMonth / daysPerMonth * e.Factors.ElectricityPerKWh,
		Water:       in.WaterLitresPerDay * e.Factors.WaterPerLitre,
		Travel:      in.DistanceKmPerDay * travelFactor,
		TreeOffset:  float64(in.TreesOwned) * e.Factors.DailyTreeOffset(),
	}
	// Finite inputs can still overflow once scaled by a factor.
	for _, c := range []struct {
		field string
		v     float64
	}{
		{FieldElectricity, b.Electricity},
		{FieldWater, b.Water},
		{FieldDistance, b.Travel},
		{FieldTrees, b.TreeOffset},
	} {
		if !finite(c.v) {
			return Breakdown{}, invalid(c.field, "out of range")
		}
	}
	return b, nil
}

func finite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }

// Estimate validates in and computes its result. It never touches storage;
// the caller decides whether to persist the returned value.
func (e *Estimator) Estimate(in domain.FootprintInput) (domain.FootprintResult, error) {
	b, err := e.Breakdown(in)
	if err != nil {
		return domain.FootprintResult{}, err
	}
	total := e.Policy.Apply(b.Total(), in)
	if !finite(total) {
		return domain.FootprintResult{}, invalid("totalGramsCO2", "out of range")
	}
	if total < 0 {
		total = 0
	}
	return domain.FootprintResult{
		Timestamp:      e.Now(),
		FootprintInput: in,
		TotalGramsCO2:  total,
		Tier:           Classify(total),
	}, nil
}
