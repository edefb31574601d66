package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"salespipeline/internal/forecast"
	"salespipeline/internal/models"
	"salespipeline/internal/risk"
	"salespipeline/internal/territory"
)

type StageSummary struct {
	Deals      []models.Deal `json:"deals"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"`
}

type StageAnalytics struct {
	TotalDeals     int                     `json:"totalDeals"`
	StageAnalytics map[string]StageSummary `json:"stageAnalytics"`
}

// StageAnalytics groups every deal by stage. All stages are present.
func (s *DealService) StageAnalytics(ctx context.Context) (StageAnalytics, error) {
	deals, err := s.loadDeals(ctx)
	if err != nil {
		return StageAnalytics{}, err
	}
	return stageAnalytics(deals), nil
}

func stageAnalytics(deals []models.Deal) StageAnalytics {
	out := StageAnalytics{
		TotalDeals:     len(deals),
		StageAnalytics: make(map[string]StageSummary, len(models.Stages)),
	}
	for _, stage := range models.Stages {
		out.StageAnalytics[stage] = StageSummary{Deals: []models.Deal{}}
	}
	for _, d := range deals {
		sum := out.StageAnalytics[d.Stage]
		if sum.Deals == nil {
			sum.Deals = []models.Deal{}
		}
		sum.Deals = append(sum.Deals, d)
		sum.Count++
		out.StageAnalytics[d.Stage] = sum
	}
	if len(deals) > 0 {
		for stage, sum := range out.StageAnalytics {
			sum.Percentage = math.Round(float64(sum.Count)/float64(len(deals))*10000) / 100
			out.StageAnalytics[stage] = sum
		}
	}
	return out
}

// ListParams drives the scored deal list. Month and Type select a forecast
// drill-down bucket.
type ListParams struct {
	Search string
	Sort   string
	Desc   bool
	Month  string
	Type   string
}

type ListedDeal struct {
	risk.ScoredDeal
	Territory string `json:"territory"`
}

func (s *DealService) List(ctx context.Context, params ListParams) ([]ListedDeal, error) {
	deals, err := s.loadDeals(ctx)
	if err != nil {
		return nil, err
	}
	if month := strings.TrimSpace(params.Month); month != "" {
		if _, err := forecast.ParseMonthKey(month); err != nil {
			return nil, invalid(err.Error())
		}
		deals = forecast.FilterDealsForBucket(deals, forecast.Selector{Month: month, Type: params.Type}, forecast.ClosedWon(deals))
	}
	if term := strings.ToLower(strings.TrimSpace(params.Search)); term != "" {
		filtered := deals[:0:0]
		for _, d := range deals {
			if matchesSearch(d, term) {
				filtered = append(filtered, d)
			}
		}
		deals = filtered
	}

	now := s.now()
	scored := s.Scorer.Score(deals, now)
	out := make([]ListedDeal, 0, len(scored))
	for _, sd := range scored {
		out = append(out, ListedDeal{ScoredDeal: sd, Territory: territory.Lookup(sd.OriginCity)})
	}
	sortListed(out, params.Sort, params.Desc)
	return out, nil
}

func matchesSearch(d models.Deal, term string) bool {
	for _, field := range []string{d.CompanyName, d.ContactName, d.DealID, d.SalesRep, d.Stage, d.TransportationMode} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// sortListed orders deals by field. Missing values sort first ascending and
// last descending. Unknown fields fall back to created_date.
func sortListed(items []ListedDeal, field string, desc bool) {
	cmp := listComparator(strings.TrimSpace(field))
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func listComparator(field string) func(a, b ListedDeal) int {
	switch field {
	case "days_since_update":
		return func(a, b ListedDeal) int { return compareIntPtr(a.DaysSinceUpdate, b.DaysSinceUpdate) }
	case "risk_score":
		return func(a, b ListedDeal) int { return a.RiskScore - b.RiskScore }
	case "deal_id":
		return func(a, b ListedDeal) int { return compareFold(a.DealID, b.DealID) }
	case "company_name":
		return func(a, b ListedDeal) int { return compareFold(a.CompanyName, b.CompanyName) }
	case "contact_name":
		return func(a, b ListedDeal) int { return compareFold(a.ContactName, b.ContactName) }
	case "sales_rep":
		return func(a, b ListedDeal) int { return compareFold(a.SalesRep, b.SalesRep) }
	case "stage":
		return func(a, b ListedDeal) int { return compareFold(a.Stage, b.Stage) }
	case "transportation_mode":
		return func(a, b ListedDeal) int { return compareFold(a.TransportationMode, b.TransportationMode) }
	case "value":
		return func(a, b ListedDeal) int {
			switch {
			case !a.Value.Valid && !b.Value.Valid:
				return 0
			case !a.Value.Valid:
				return -1
			case !b.Value.Valid:
				return 1
			}
			return a.Value.Decimal.Cmp(b.Value.Decimal)
		}
	case "probability":
		return func(a, b ListedDeal) int { return compareIntPtr(a.Probability, b.Probability) }
	case "updated_date":
		return func(a, b ListedDeal) int { return compareTimePtr(a.UpdatedDate, b.UpdatedDate) }
	case "expected_close_date":
		return func(a, b ListedDeal) int { return compareTimePtr(a.ExpectedCloseDate, b.ExpectedCloseDate) }
	default:
		return func(a, b ListedDeal) int { return compareTimePtr(a.CreatedDate, b.CreatedDate) }
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareIntPtr(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return *a - *b
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

// HistoryStat is one row of closed-deal history. Exactly one of Mode, Rep or
// Size is set when grouped.
type HistoryStat struct {
	Total int    `json:"total"`
	Wins  int    `json:"wins"`
	Mode  string `json:"mode,omitempty"`
	Rep   string `json:"rep,omitempty"`
	Size  string `json:"size,omitempty"`
}

const (
	GroupMode = "mode"
	GroupRep  = "rep"
	GroupSize = "size"
)

// SizeBucket classifies a deal value: small below 20000, medium below 60000.
func SizeBucket(d models.Deal) string {
	v := d.ValueOrZero().InexactFloat64()
	switch {
	case v < 20000:
		return "small"
	case v < 60000:
		return "medium"
	default:
		return "large"
	}
}

// History counts closed deals and wins, optionally grouped by mode, rep or
// size. Any other group yields a single ungrouped row.
func (s *DealService) History(ctx context.Context, group string) ([]HistoryStat, error) {
	deals, err := s.loadDeals(ctx)
	if err != nil {
		return nil, err
	}
	group = strings.ToLower(strings.TrimSpace(group))
	rows := map[string]*HistoryStat{}
	var keys []string
	for _, d := range deals {
		if !d.IsClosed() {
			continue
		}
		key := ""
		switch group {
		case GroupMode:
			key = d.TransportationMode
		case GroupRep:
			key = d.SalesRep
		case GroupSize:
			key = SizeBucket(d)
		}
		row, ok := rows[key]
		if !ok {
			row = &HistoryStat{}
			switch group {
			case GroupMode:
				row.Mode = key
			case GroupRep:
				row.Rep = key
			case GroupSize:
				row.Size = key
			}
			rows[key] = row
			keys = append(keys, key)
		}
		row.Total++
		if d.Stage == models.StageClosedWon {
			row.Wins++
		}
	}
	sort.Strings(keys)
	out := make([]HistoryStat, 0, len(keys))
	for _, k := range keys {
		out = append(out, *rows[k])
	}
	if len(out) == 0 && group != GroupMode && group != GroupRep && group != GroupSize {
		out = append(out, HistoryStat{})
	}
	return out, nil
}
