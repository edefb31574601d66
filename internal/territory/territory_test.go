package territory

import (
	"testing"

	"github.com/shopspring/decimal"

	"salespipeline/internal/models"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		city string
		want string
	}{
		{"Austin, TX", "Southwest"},
		{"Los Angeles, CA", "West Coast"},
		{"Chicago, IL", "Midwest"},
		{"Miami, FL", "Southeast"},
		{"New York, NY", "Northeast"},
		{"Denver, CO", "Mountain"},
		{"Honolulu, HI", "Pacific"},
		{"Boston", Other},
		{"Toronto, ON", Other},
		{"austin, tx", Other},
		{"", Other},
	}
	for _, tt := range tests {
		if got := Lookup(tt.city); got != tt.want {
			t.Fatalf("Lookup(%q) = %q, want %q", tt.city, got, tt.want)
		}
	}
}

func TestStateFromCity(t *testing.T) {
	if got, ok := StateFromCity("Seattle, WA "); !ok || got != "WA" {
		t.Fatalf("StateFromCity = %q,%v", got, ok)
	}
	if _, ok := StateFromCity("Seattle"); ok {
		t.Fatalf("expected no state")
	}
}

func TestRegionsAreDisjoint(t *testing.T) {
	seen := map[string]string{}
	for _, r := range DefaultRegions() {
		for _, s := range r.States {
			if prev, ok := seen[s]; ok {
				t.Fatalf("state %s in both %s and %s", s, prev, r.Region)
			}
			seen[s] = r.Region
		}
	}
}

func TestEnrich(t *testing.T) {
	got := Enrich(models.Deal{DealID: "D-1", OriginCity: "Dallas, TX"})
	if got.Territory != "Southwest" || got.DealID != "D-1" {
		t.Fatalf("Enrich = %+v", got)
	}
}

func TestMetrics(t *testing.T) {
	id := func(v uint64) *uint64 { return &v }
	val := func(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.NewFromInt(v)) }
	territories := []models.Territory{{ID: 1, Name: "West"}, {ID: 2, Name: "East"}}
	deals := []models.Deal{
		{TerritoryID: id(1), Stage: models.StageClosedWon, Value: val(1000)},
		{TerritoryID: id(1), Stage: models.StageClosedWon, Value: val(500)},
		{TerritoryID: id(1), Stage: models.StageClosedLost, Value: val(9000)},
		{TerritoryID: id(1), Stage: models.StageProposal, Value: val(9000)},
		{TerritoryID: id(9), Stage: models.StageClosedWon, Value: val(9000)},
		{Stage: models.StageClosedWon, Value: val(9000)},
	}
	got := Metrics(territories, deals)
	west := got[1]
	if west.TotalDeals != 4 || west.WonDeals != 2 || west.LostDeals != 1 || west.Revenue != 1500 {
		t.Fatalf("west metrics = %+v", west)
	}
	if east := got[2]; east != (models.PerformanceMetrics{}) {
		t.Fatalf("east metrics = %+v", east)
	}
	if _, ok := got[9]; ok {
		t.Fatalf("unknown territory must not be reported")
	}
}
