package footprint

import "github.com/tbourn/go-eco-backend/internal/domain"

// Factors holds the emission constants in grams CO2 per unit.
type Factors struct {
	ElectricityPerKWh float64                          // g per kWh
	WaterPerLitre     float64                          // g per litre
	TreePerYear       float64                          // g absorbed per tree per year
	Transport         map[domain.TransportMode]float64 // g per km
}

// Apportionment periods.
const (
	daysPerMonth = 30
	daysPerYear  = 365
)

// DefaultFactors returns the factor set the tracker ships with.
func DefaultFactors() Factors {
	return Factors{
		ElectricityPerKWh: 713,
		WaterPerLitre:     0.15,
		TreePerYear:       10000,
		Transport: map[domain.TransportMode]float64{
			domain.TransportWalkBike:        0,
			domain.TransportTwoWheeler:      55,
			domain.TransportCar:             122,
			domain.TransportBus:             80,
			domain.TransportTrain:           45,
			domain.TransportElectricVehicle: 40,
		},
	}
}

// TransportFactor returns the per-km factor for mode. Modes missing from the
// table resolve to 0 (fail-open) so a new commute option never blocks a
// computation; callers that care check Known.
func (f Factors) TransportFactor(mode domain.TransportMode) (factor float64, known bool) {
	factor, known = f.Transport[mode]
	return factor, known
}

// DailyTreeOffset is the per-tree daily absorption credit.
func (f Factors) DailyTreeOffset() float64 { return f.TreePerYear / daysPerYear }

// Policy holds the multiplicative habit discounts, applied in field order.
// A multiplier of 1 disables the adjustment.
type Policy struct {
	Solar          float64
	SegregateWaste float64
	Reuse          float64
	LightsAlways   float64
	LightsSometime float64
}

// DefaultPolicy returns the multiplicative discount policy.
func DefaultPolicy() Policy {
	return Policy{
		Solar:          0.90,
		SegregateWaste: 0.95,
		Reuse:          0.95,
		LightsAlways:   0.90,
		LightsSometime: 0.95,
	}
}

// Apply runs the habit adjustments over total in the fixed order
// solar, segregation, reuse, lighting.
func (p Policy) Apply(total float64, in domain.FootprintInput) float64 {
	if in.HasSolar {
		total *= p.Solar
	}
	if in.SegregatesWaste {
		total *= p.SegregateWaste
	}
	if in.ReusesItems {
		total *= p.Reuse
	}
	switch in.LightUsageDiscipline {
	case domain.LightsAlways:
		total *= p.LightsAlways
	case domain.LightsSometimes:
		total *= p.LightsSometime
	}
	return total
}
