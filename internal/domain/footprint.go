// Package domain defines the footprint records exchanged between the
// estimator, the history log and the HTTP layer, plus the GORM models used by
// the persistence collaborators.
package domain

import "time"

// TransportMode identifies the daily commute mode used to pick a per-km
// emission factor.
type TransportMode string

// Known transport modes.
const (
	TransportWalkBike        TransportMode = "walk_bike"
	TransportTwoWheeler      TransportMode = "two_wheeler"
	TransportCar             TransportMode = "car"
	TransportBus             TransportMode = "bus"
	TransportTrain           TransportMode = "train"
	TransportElectricVehicle TransportMode = "electric_vehicle"
)

// TransportModes lists the known modes in display order.
var TransportModes = []TransportMode{
	TransportWalkBike,
	TransportTwoWheeler,
	TransportCar,
	TransportBus,
	TransportTrain,
	TransportElectricVehicle,
}

// Label returns the human-readable name shown in tables and charts.
func (m TransportMode) Label() string {
	switch m {
	case TransportWalkBike:
		return "Walking / Bicycle"
	case TransportTwoWheeler:
		return "Two-Wheeler"
	case TransportCar:
		return "Car"
	case TransportBus:
		return "Bus"
	case TransportTrain:
		return "Train"
	case TransportElectricVehicle:
		return "Electric Vehicle"
	}
	return string(m)
}

// LightDiscipline describes how consistently lights are switched off.
type LightDiscipline string

const (
	LightsAlways    LightDiscipline = "always"
	LightsSometimes LightDiscipline = "sometimes"
	LightsNever     LightDiscipline = "never"
)

// FootprintInput is a single estimation request.
//
// Fields:
//   - ElectricityKWhPerMonth: monthly meter reading, apportioned per day.
//   - WaterLitresPerDay / DistanceKmPerDay: daily quantities.
//   - TransportMode: commute mode used for the per-km factor.
//   - TreesOwned: trees credited as an absorption offset.
//   - HasSolar / SegregatesWaste / ReusesItems: habit toggles.
//   - LightUsageDiscipline: three-tier lighting habit.
type FootprintInput struct {
	ElectricityKWhPerMonth float64         `json:"electricityKWhPerMonth"`
	WaterLitresPerDay      float64         `json:"waterLitresPerDay"`
	DistanceKmPerDay       float64         `json:"distanceKmPerDay"`
	TransportMode          TransportMode   `json:"transportMode"`
	TreesOwned             int             `json:"treesOwned"`
	HasSolar               bool            `json:"hasSolar"`
	SegregatesWaste        bool            `json:"segregatesWaste"`
	ReusesItems            bool            `json:"reusesItems"`
	LightUsageDiscipline   LightDiscipline `json:"lightUsageDiscipline"`
}

// Tier is the ordered rating derived from a daily total. Lower rank is better.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierModerate  Tier = "moderate"
	TierPoor      Tier = "poor"
	TierVeryPoor  Tier = "very_poor"
)

// Tiers lists all tiers from best to worst.
var Tiers = []Tier{TierExcellent, TierGood, TierModerate, TierPoor, TierVeryPoor}

// Rank returns the position of t in Tiers (0 = best), or -1 when unknown.
func (t Tier) Rank() int {
	for i, v := range Tiers {
		if v == t {
			return i
		}
	}
	return -1
}

// Label returns the rating text displayed next to a result.
func (t Tier) Label() string {
	switch t {
	case TierExcellent:
		return "Excellent (Very Low Emissions)"
	case TierGood:
		return "Good (Low Emissions)"
	case TierModerate:
		return "Moderate (Room for Improvement)"
	case TierPoor:
		return "Poor (High Emissions)"
	case TierVeryPoor:
		return "Very Poor (Very High Emissions)"
	}
	return string(t)
}

// FootprintResult is an immutable computed entry. The JSON shape is the
// persisted history record format and must round-trip exactly.
type FootprintResult struct {
	Timestamp time.Time `json:"timestamp"`
	FootprintInput
	TotalGramsCO2 float64 `json:"totalGramsCO2"`
	Tier          Tier    `json:"tier"`
}
