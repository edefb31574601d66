package territory

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"salespipeline/internal/models"
)

// Other is the region for cities without a recognized state suffix.
const Other = "Other"

type RegionRule struct {
	Region string
	States []string
}

func DefaultRegions() []RegionRule {
	return []RegionRule{
		{Region: "West Coast", States: []string{"CA", "WA", "OR"}},
		{Region: "Southwest", States: []string{"AZ", "NM", "NV", "OK", "TX"}},
		{Region: "Midwest", States: []string{"IL", "IN", "IA", "KS", "MI", "MN", "MO", "NE", "ND", "OH", "SD", "WI"}},
		{Region: "Southeast", States: []string{"AL", "AR", "FL", "GA", "KY", "LA", "MS", "NC", "SC", "TN", "VA", "WV"}},
		{Region: "Northeast", States: []string{"CT", "DE", "ME", "MD", "MA", "NH", "NJ", "NY", "PA", "RI", "VT"}},
		{Region: "Mountain", States: []string{"CO", "ID", "MT", "UT", "WY"}},
		{Region: "Pacific", States: []string{"AK", "HI"}},
	}
}

var (
	stateSuffix   = regexp.MustCompile(`([A-Z]{2})$`)
	regionByState = compile(DefaultRegions())
)

func compile(rules []RegionRule) map[string]string {
	out := map[string]string{}
	for _, r := range rules {
		for _, s := range r.States {
			out[s] = r.Region
		}
	}
	return out
}

// StateFromCity returns the trailing two-letter state code of "City, ST".
func StateFromCity(city string) (string, bool) {
	m := stateSuffix.FindStringSubmatch(strings.TrimSpace(city))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Lookup maps a city to its sales region, or Other.
func Lookup(city string) string {
	state, ok := StateFromCity(city)
	if !ok {
		return Other
	}
	if region, ok := regionByState[state]; ok {
		return region
	}
	return Other
}

// EnrichedDeal carries the region derived from the deal's origin city.
type EnrichedDeal struct {
	models.Deal
	Territory string `json:"territory"`
}

func Enrich(d models.Deal) EnrichedDeal {
	return EnrichedDeal{Deal: d, Territory: Lookup(d.OriginCity)}
}

// Metrics aggregates deal outcomes per territory id. Deals without a known
// territory are ignored. Revenue sums closed_won values.
func Metrics(territories []models.Territory, deals []models.Deal) map[uint64]models.PerformanceMetrics {
	type acc struct {
		m       models.PerformanceMetrics
		revenue decimal.Decimal
	}
	byID := make(map[uint64]*acc, len(territories))
	for _, t := range territories {
		byID[t.ID] = &acc{revenue: decimal.Zero}
	}
	for _, d := range deals {
		if d.TerritoryID == nil {
			continue
		}
		a, ok := byID[*d.TerritoryID]
		if !ok {
			continue
		}
		a.m.TotalDeals++
		switch d.Stage {
		case models.StageClosedWon:
			a.m.WonDeals++
			a.revenue = a.revenue.Add(d.ValueOrZero())
		case models.StageClosedLost:
			a.m.LostDeals++
		}
	}
	out := make(map[uint64]models.PerformanceMetrics, len(byID))
	for id, a := range byID {
		a.m.Revenue = a.revenue.InexactFloat64()
		out[id] = a.m
	}
	return out
}
