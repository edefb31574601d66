package forecast

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"salespipeline/internal/models"
)

var now = time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)

func date(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			panic(err)
		}
	}
	return &t
}

func openDeal(id, mode string, value int64, prob int, closeAt string) models.Deal {
	p := prob
	return models.Deal{
		DealID:             id,
		TransportationMode: mode,
		Stage:              models.StageProposal,
		Value:              decimal.NewNullDecimal(decimal.NewFromInt(value)),
		Probability:        &p,
		ExpectedCloseDate:  date(closeAt),
	}
}

func closedDeal(id, mode, stage string) models.Deal {
	return models.Deal{
		DealID:             id,
		TransportationMode: mode,
		Stage:              stage,
		Value:              decimal.NewNullDecimal(decimal.NewFromInt(10000)),
	}
}

func monthKeys(r Result) []string {
	out := make([]string, 0, len(r.Buckets))
	for _, b := range r.Buckets {
		out = append(out, b.Month)
	}
	return out
}

func TestDateKeys(t *testing.T) {
	tests := []struct {
		in      time.Time
		month   string
		quarter string
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2025-01", "2025-Q1"},
		{time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC), "2025-03", "2025-Q1"},
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), "2025-04", "2025-Q2"},
		{time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), "2025-09", "2025-Q3"},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "2025-12", "2025-Q4"},
	}
	for _, tt := range tests {
		if got := MonthKey(tt.in); got != tt.month {
			t.Fatalf("MonthKey(%v)=%q want=%q", tt.in, got, tt.month)
		}
		if got := QuarterKey(tt.in); got != tt.quarter {
			t.Fatalf("QuarterKey(%v)=%q want=%q", tt.in, got, tt.quarter)
		}
	}
}

func TestParseMonthKey(t *testing.T) {
	got, err := ParseMonthKey("2025-07")
	if err != nil {
		t.Fatalf("ParseMonthKey err: %v", err)
	}
	if !got.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ParseMonthKey=%v", got)
	}
	for _, bad := range []string{"", "2025-13", "July", "2025/07"} {
		if _, err := ParseMonthKey(bad); err == nil {
			t.Fatalf("ParseMonthKey(%q) expected error", bad)
		}
	}
}

func TestParseHorizon(t *testing.T) {
	tests := []struct {
		in      string
		want    Horizon
		wantErr bool
	}{
		{"3m", HorizonThreeMonths, false},
		{" Quarter ", HorizonQuarterEnd, false},
		{"year", "", true},
	}
	for _, tt := range tests {
		got, err := ParseHorizon(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseHorizon(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseHorizon(%q)=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestZeroFillEveryMonthInHorizon(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		horizon Horizon
		want    []string
	}{
		{"3m mid year", now, HorizonThreeMonths, []string{"2025-06", "2025-07", "2025-08"}},
		{"quarter mid year", now, HorizonQuarterEnd, []string{"2025-06", "2025-07", "2025-08", "2025-09"}},
		{"3m across year end", time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC), HorizonThreeMonths, []string{"2025-11", "2025-12", "2026-01"}},
		{"quarter across year end", time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC), HorizonQuarterEnd, []string{"2025-11", "2025-12", "2026-01", "2026-02", "2026-03"}},
		{"quarter first month", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), HorizonQuarterEnd, []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ComputeMonthlyForecast(nil, tt.now, Options{Horizon: tt.horizon})
			if got := monthKeys(res); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("months=%v want=%v", got, tt.want)
			}
			if !res.IsEmpty {
				t.Fatalf("expected empty forecast")
			}
			for _, b := range res.Buckets {
				if !b.Revenue.IsZero() || len(b.DealIDs) != 0 {
					t.Fatalf("bucket %s not zero-filled: %v %v", b.Month, b.Revenue, b.DealIDs)
				}
				if b.Quarter == "" {
					t.Fatalf("bucket %s missing quarter", b.Month)
				}
			}
		})
	}
}

func TestScenarioJulyBucket(t *testing.T) {
	deals := []models.Deal{
		openDeal("D-1", models.ModeTrucking, 50000, 80, "2025-07-15"),
		openDeal("D-2", models.ModeTrucking, 30000, 60, "2025-07-25"),
	}
	res := ComputeMonthlyForecast(deals, now, DefaultOptions())
	july, ok := res.Bucket("2025-07")
	if !ok {
		t.Fatalf("july bucket missing")
	}
	if !july.Revenue.Equal(decimal.NewFromInt(58000)) {
		t.Fatalf("july revenue=%s want=58000", july.Revenue)
	}
	if len(july.DealIDs) != 2 {
		t.Fatalf("july deals=%v want 2", july.DealIDs)
	}
	if july.Quarter != "2025-Q3" {
		t.Fatalf("july quarter=%s", july.Quarter)
	}
	if res.IsEmpty {
		t.Fatalf("expected non-empty result")
	}
}

func TestWeightedRevenue(t *testing.T) {
	deals := []models.Deal{openDeal("D-1", models.ModeAir, 100000, 50, "2025-08-01")}
	res := ComputeMonthlyForecast(deals, now, Options{Horizon: HorizonThreeMonths, WeightByWinRate: true})
	aug, _ := res.Bucket("2025-08")
	if !aug.Revenue.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("aug revenue=%s want=50000", aug.Revenue)
	}
}

func TestCompletenessFiltering(t *testing.T) {
	noClose := openDeal("no-close", models.ModeRail, 1000, 50, "2025-07-01")
	noClose.ExpectedCloseDate = nil
	noValue := openDeal("no-value", models.ModeRail, 1000, 50, "2025-07-01")
	noValue.Value = decimal.NullDecimal{}
	noProb := openDeal("no-prob", models.ModeRail, 1000, 50, "2025-07-01")
	noProb.Probability = nil

	res := ComputeMonthlyForecast([]models.Deal{noClose, noValue, noProb}, now, DefaultOptions())
	if !res.IsEmpty {
		t.Fatalf("incomplete deals must not be forecast")
	}
	for _, b := range res.Buckets {
		if len(b.DealIDs) != 0 {
			t.Fatalf("bucket %s has deals %v", b.Month, b.DealIDs)
		}
	}
}

func TestHorizonBoundary(t *testing.T) {
	atNow := openDeal("at-now", models.ModeOcean, 1000, 100, now.Format(time.RFC3339))
	beforeNow := openDeal("before-now", models.ModeOcean, 1000, 100, "2025-06-17")
	atEnd := openDeal("at-end", models.ModeOcean, 1000, 100, "2025-10-01")
	lastMonth := openDeal("last-month", models.ModeOcean, 1000, 100, "2025-09-30T23:59:59Z")
	nextYear := openDeal("next-year", models.ModeOcean, 1000, 100, "2026-01-15")

	res := ComputeMonthlyForecast([]models.Deal{atNow, beforeNow, atEnd, lastMonth, nextYear}, now, Options{Horizon: HorizonQuarterEnd})
	june, _ := res.Bucket("2025-06")
	if !reflect.DeepEqual(june.DealIDs, []string{"at-now"}) {
		t.Fatalf("june deals=%v", june.DealIDs)
	}
	sept, _ := res.Bucket("2025-09")
	if !reflect.DeepEqual(sept.DealIDs, []string{"last-month"}) {
		t.Fatalf("sept deals=%v", sept.DealIDs)
	}
	if _, ok := res.Bucket("2025-10"); ok {
		t.Fatalf("october must be outside the horizon")
	}
}

func TestClosedDealsExcludedFromBuckets(t *testing.T) {
	won := openDeal("won", models.ModeTrucking, 1000, 100, "2025-07-01")
	won.Stage = models.StageClosedWon
	res := ComputeMonthlyForecast([]models.Deal{won}, now, DefaultOptions())
	if !res.IsEmpty {
		t.Fatalf("closed deal must not be forecast")
	}
}

func TestWinRates(t *testing.T) {
	deals := []models.Deal{
		closedDeal("w", models.ModeTrucking, models.StageClosedWon),
		closedDeal("l", models.ModeTrucking, models.StageClosedLost),
		closedDeal("r", models.ModeRail, models.StageClosedLost),
		openDeal("o", models.ModeOcean, 1, 1, "2025-07-01"),
	}
	rates := WinRates(deals)
	tests := []struct {
		mode string
		want decimal.Decimal
	}{
		{models.ModeTrucking, decimal.NewFromFloat(0.5)},
		{"Trucking", decimal.NewFromFloat(0.5)},
		{models.ModeRail, decimal.Zero},
		{models.ModeOcean, decimal.NewFromInt(1)},
		{models.ModeAir, decimal.NewFromInt(1)},
	}
	for _, tt := range tests {
		if got := rates.WinRate(tt.mode); !got.Equal(tt.want) {
			t.Fatalf("WinRate(%s)=%s want=%s", tt.mode, got, tt.want)
		}
	}
}

func TestWinRateWeighting(t *testing.T) {
	deals := []models.Deal{
		closedDeal("w", models.ModeTrucking, models.StageClosedWon),
		closedDeal("l", models.ModeTrucking, models.StageClosedLost),
		openDeal("future", models.ModeTrucking, 100000, 100, "2025-07-10"),
	}
	res := ComputeMonthlyForecast(deals, now, Options{Horizon: HorizonQuarterEnd, WeightByWinRate: true})
	july, _ := res.Bucket("2025-07")
	if !july.Revenue.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("july revenue=%s want=50000", july.Revenue)
	}

	unweighted := ComputeMonthlyForecast(deals, now, Options{Horizon: HorizonQuarterEnd})
	july, _ = unweighted.Bucket("2025-07")
	if !july.Revenue.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("unweighted july revenue=%s want=100000", july.Revenue)
	}
}

func TestWinRatePerMode(t *testing.T) {
	deals := []models.Deal{
		closedDeal("tw", models.ModeTrucking, models.StageClosedWon),
		closedDeal("rl", models.ModeRail, models.StageClosedLost),
		openDeal("t", models.ModeTrucking, 100000, 100, "2025-07-10"),
		openDeal("r", models.ModeRail, 100000, 100, "2025-07-11"),
	}
	res := ComputeMonthlyForecast(deals, now, Options{Horizon: HorizonQuarterEnd, WeightByWinRate: true})
	july, _ := res.Bucket("2025-07")
	if !july.Revenue.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("july revenue=%s want=100000", july.Revenue)
	}
	if len(july.DealIDs) != 2 {
		t.Fatalf("july deals=%v", july.DealIDs)
	}
}

func TestWinRateWeightingStaysExact(t *testing.T) {
	deals := []models.Deal{
		closedDeal("rw", models.ModeRail, models.StageClosedWon),
		closedDeal("rl1", models.ModeRail, models.StageClosedLost),
		closedDeal("rl2", models.ModeRail, models.StageClosedLost),
		openDeal("r1", models.ModeRail, 300000, 100, "2025-07-05"),
		openDeal("r2", models.ModeRail, 300000, 100, "2025-07-06"),
		openDeal("r3", models.ModeRail, 300000, 100, "2025-07-07"),
	}
	res := ComputeMonthlyForecast(deals, now, Options{Horizon: HorizonQuarterEnd, WeightByWinRate: true})
	july, _ := res.Bucket("2025-07")
	if !july.Revenue.Equal(decimal.NewFromInt(300000)) {
		t.Fatalf("july revenue=%s want=300000", july.Revenue)
	}
}

func TestWinRateWeightingNonTerminating(t *testing.T) {
	deals := []models.Deal{
		closedDeal("rw", models.ModeRail, models.StageClosedWon),
		closedDeal("rl1", models.ModeRail, models.StageClosedLost),
		closedDeal("rl2", models.ModeRail, models.StageClosedLost),
		openDeal("r1", models.ModeRail, 100000, 100, "2025-08-05"),
		openDeal("r2", models.ModeRail, 100000, 100, "2025-08-06"),
		openDeal("r3", models.ModeRail, 100000, 100, "2025-08-07"),
	}
	res := ComputeMonthlyForecast(deals, now, Options{Horizon: HorizonQuarterEnd, WeightByWinRate: true})
	aug, _ := res.Bucket("2025-08")
	if got := aug.Revenue.Round(2); !got.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("august revenue=%s rounded=%s want=100000", aug.Revenue, got)
	}
	if got := aug.Revenue.StringFixed(2); got != "100000.00" {
		t.Fatalf("august revenue fixed=%s", got)
	}
}

func TestWeightedWithoutHistory(t *testing.T) {
	var rates WinRateTable
	got := rates.Weighted(models.ModeAir, decimal.NewFromInt(1234), 50)
	if !got.Equal(decimal.NewFromInt(617)) {
		t.Fatalf("weighted=%s want=617", got)
	}
}
