package footprint

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-eco-backend/internal/domain"
)

// Field names as they appear in the serialized record; InvalidInputError
// reports these.
const (
	FieldElectricity = "electricityKWhPerMonth"
	FieldWater       = "waterLitresPerDay"
	FieldDistance    = "distanceKmPerDay"
	FieldTransport   = "transportMode"
	FieldTrees       = "treesOwned"
	FieldSolar       = "hasSolar"
	FieldSegregate   = "segregatesWaste"
	FieldReuse       = "reusesItems"
	FieldLights      = "lightUsageDiscipline"
)

// RawInput carries unparsed form values, one string per field. An absent
// value is the empty string.
type RawInput struct {
	Electricity string
	Water       string
	Distance    string
	Transport   string
	Trees       string
	Solar       string
	Segregate   string
	Reuse       string
	Lights      string
}

// foldKey trims and case-folds s. A Caser is stateful, so one is built per call.
func foldKey(s string) string { return cases.Fold().String(strings.TrimSpace(s)) }

// transportAliases maps folded spellings, including the display labels, to
// canonical modes.
var transportAliases = map[string]domain.TransportMode{
	"walk_bike":         domain.TransportWalkBike,
	"walk":              domain.TransportWalkBike,
	"bike":              domain.TransportWalkBike,
	"walking / bicycle": domain.TransportWalkBike,
	"walk/bike":         domain.TransportWalkBike,
	"two_wheeler":       domain.TransportTwoWheeler,
	"two-wheeler":       domain.TransportTwoWheeler,
	"twowheeler":        domain.TransportTwoWheeler,
	"car":               domain.TransportCar,
	"bus":               domain.TransportBus,
	"train":             domain.TransportTrain,
	"electric_vehicle":  domain.TransportElectricVehicle,
	"electric vehicle":  domain.TransportElectricVehicle,
	"ev":                domain.TransportElectricVehicle,
}

// ParseTransportMode normalizes s. Unknown non-empty values are kept verbatim
// and later resolve to a zero factor; only an empty value is rejected.
func ParseTransportMode(s string) (domain.TransportMode, error) {
	key := foldKey(s)
	if key == "" {
		return "", invalid(FieldTransport, "required")
	}
	if m, ok := transportAliases[key]; ok {
		return m, nil
	}
	return domain.TransportMode(strings.TrimSpace(s)), nil
}

// ParseLightDiscipline accepts always, sometimes or never (case-insensitive).
func ParseLightDiscipline(s string) (domain.LightDiscipline, error) {
	switch foldKey(s) {
	case "always":
		return domain.LightsAlways, nil
	case "sometimes":
		return domain.LightsSometimes, nil
	case "never":
		return domain.LightsNever, nil
	case "":
		return "", invalid(FieldLights, "required")
	}
	return "", invalid(FieldLights, "must be always, sometimes or never")
}

func parseBool(field, s string) (bool, error) {
	switch foldKey(s) {
	case "yes", "y", "true", "1", "on":
		return true, nil
	case "no", "n", "false", "0", "off":
		return false, nil
	case "":
		return false, invalid(field, "required")
	}
	return false, invalid(field, "must be yes or no")
}

func parseQuantity(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalid(field, "required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid(field, "not a finite number")
	}
	if v < 0 {
		return 0, invalid(field, "must not be negative")
	}
	return v, nil
}

func parseCount(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalid(field, "required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid(field, "not an integer")
	}
	if n < 0 {
		return 0, invalid(field, "must not be negative")
	}
	return n, nil
}

// ParseInput converts raw form values into a FootprintInput. The first field
// that fails is reported; fields are checked in record order.
func ParseInput(raw RawInput) (domain.FootprintInput, error) {
	var (
		in  domain.FootprintInput
		err error
	)
	if in.ElectricityKWhPerMonth, err = parseQuantity(FieldElectricity, raw.Electricity); err != nil {
		return domain.FootprintInput{}, err
	}
	if in.WaterLitresPerDay, err = parseQuantity(FieldWater, raw.Water); err != nil {
		return domain.FootprintInput{}, err
	}
	if in.DistanceKmPerDay, err = parseQuantity(FieldDistance, raw.Distance); err != nil {
		return domain.FootprintInput{}, err
	}
	if in.TransportMode, err = ParseTransportMode(raw.Transport); err != nil {
		return domain.FootprintInput{}, err
	}
	if in.TreesOwned, err = parseCount(FieldTrees, raw.Trees); err != nil {
		return domain.FootprintInput{}, err
	}
	if in.HasSolar, err = parseBool(FieldSolar, raw.Solar); err != nil {
		return domain.FootprintInput{}, err
	}
	if in.SegregatesWaste, err = parseBool(FieldSegregate, raw.Segregate); err != nil {
		return domain.FootprintInput{}, err
	}
	if in.ReusesItems, err = parseBool(FieldReuse, raw.Reuse); err != nil {
		return domain.FootprintInput{}, err
	}
	if in.LightUsageDiscipline, err = ParseLightDiscipline(raw.Lights); err != nil {
		return domain.FootprintInput{}, err
	}
	return in, nil
}

// Validate checks an already structured input.
func Validate(in domain.FootprintInput) error {
	for _, q := range []struct {
		field string
		v     float64
	}{
		{FieldElectricity, in.ElectricityKWhPerMonth},
		{FieldWater, in.WaterLitresPerDay},
		{FieldDistance, in.DistanceKmPerDay},
	} {
		if math.IsNaN(q.v) || math.IsInf(q.v, 0) {
			return invalid(q.field, "not a finite number")
		}
		if q.v < 0 {
			return invalid(q.field, "must not be negative")
		}
	}
	if strings.TrimSpace(string(in.TransportMode)) == "" {
		return invalid(FieldTransport, "required")
	}
	if in.TreesOwned < 0 {
		return invalid(FieldTrees, "must not be negative")
	}
	switch in.LightUsageDiscipline {
	case domain.LightsAlways, domain.LightsSometimes, domain.LightsNever:
	case "":
		return invalid(FieldLights, "required")
	default:
		return invalid(FieldLights, "must be always, sometimes or never")
	}
	return nil
}
