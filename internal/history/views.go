package history

import (
	"math"
	"time"

	"github.com/tbourn/go-eco-backend/internal/domain"
)

// TableRow is one line of the history table.
type TableRow struct {
	Date              string  `json:"date"`
	TotalGramsCO2     float64 `json:"totalGramsCO2"`
	Transport         string  `json:"transport"`
	ElectricityKWh    float64 `json:"electricityKWhPerMonth"`
	WaterLitresPerDay float64 `json:"waterLitresPerDay"`
	TreesOwned        int     `json:"treesOwned"`
	Tier              string  `json:"tier"`
}

// ChartPoint is one point of the emissions-over-time series.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Summary aggregates the whole log.
type Summary struct {
	Count   int                     `json:"count"`
	Average float64                 `json:"averageGramsCO2"`
	Latest  *domain.FootprintResult `json:"latest,omitempty"`
	Best    *domain.FootprintResult `json:"best,omitempty"`
	Worst   *domain.FootprintResult `json:"worst,omitempty"`
	ByTier  map[domain.Tier]int     `json:"byTier"`
}

const dateLayout = "2006-01-02 15:04"

// TableRows projects results one row per entry, in log order. Totals are
// rounded to whole grams for display.
func TableRows(results []domain.FootprintResult) []TableRow {
	rows := make([]TableRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, TableRow{
			Date:              r.Timestamp.UTC().Format(dateLayout),
			TotalGramsCO2:     math.Round(r.TotalGramsCO2),
			Transport:         r.TransportMode.Label(),
			ElectricityKWh:    r.ElectricityKWhPerMonth,
			WaterLitresPerDay: r.WaterLitresPerDay,
			TreesOwned:        r.TreesOwned,
			Tier:              r.Tier.Label(),
		})
	}
	return rows
}

// ChartSeries projects results into (label, value) points in log order.
func ChartSeries(results []domain.FootprintResult) []ChartPoint {
	pts := make([]ChartPoint, 0, len(results))
	for _, r := range results {
		pts = append(pts, ChartPoint{
			Label: r.Timestamp.UTC().Format(time.DateOnly),
			Value: math.Round(r.TotalGramsCO2),
		})
	}
	return pts
}

// Summarize computes aggregates. Ties for best or worst keep the earliest
// entry.
func Summarize(results []domain.FootprintResult) Summary {
	s := Summary{Count: len(results), ByTier: make(map[domain.Tier]int, len(domain.Tiers))}
	if len(results) == 0 {
		return s
	}
	var sum float64
	best, worst := 0, 0
	for i, r := range results {
		sum += r.TotalGramsCO2
		s.ByTier[r.Tier]++
		if r.TotalGramsCO2 < results[best].TotalGramsCO2 {
			best = i
		}
		if r.TotalGramsCO2 > results[worst].TotalGramsCO2 {
			worst = i
		}
	}
	s.Average = sum / float64(len(results))
	latest := results[len(results)-1]
	b, w := results[best], results[worst]
	s.Latest, s.Best, s.Worst = &latest, &b, &w
	return s
}
