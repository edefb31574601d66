package forecast

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salespipeline/internal/models"
)

// MonthlyForecast is one card of the dashboard forecast.
type MonthlyForecast struct {
	Month            string
	MonthLabel       string
	AlreadyWon       decimal.Decimal
	PredictedRevenue decimal.Decimal
	TotalRevenue     decimal.Decimal
	DealCount        int
}

// ComputeDashboardForecast projects open deals onto their predicted close month
// for the current month and the following months-1. Revenue already won is
// only reported for the current month.
func ComputeDashboardForecast(deals []models.Deal, now time.Time, months int) []MonthlyForecast {
	if months <= 0 {
		months = 3
	}
	closedWon := ClosedWon(deals)
	avg, ok := AverageHistoricalDurationDays(closedWon)

	start := MonthStart(now)
	out := make([]MonthlyForecast, 0, months)
	for i := 0; i < months; i++ {
		monthStart := start.AddDate(0, i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		mf := MonthlyForecast{
			Month:            MonthKey(monthStart),
			MonthLabel:       monthStart.Format("January 2006"),
			AlreadyWon:       decimal.Zero,
			PredictedRevenue: decimal.Zero,
		}
		for _, d := range deals {
			if d.IsClosed() || !IsComplete(d) {
				continue
			}
			closeAt, has := PredictedCloseDate(d, avg, ok)
			if !has || !inRange(closeAt, monthStart, monthEnd) {
				continue
			}
			mf.PredictedRevenue = mf.PredictedRevenue.Add(
				d.Value.Decimal.Mul(decimal.NewFromInt(int64(*d.Probability))).Div(hundred))
			mf.DealCount++
		}
		if i == 0 {
			for _, d := range closedWon {
				if d.UpdatedDate != nil && inRange(d.UpdatedDate.UTC(), monthStart, monthEnd) {
					mf.AlreadyWon = mf.AlreadyWon.Add(d.ValueOrZero())
				}
			}
		}
		mf.TotalRevenue = mf.AlreadyWon.Add(mf.PredictedRevenue)
		out = append(out, mf)
	}
	return out
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

const (
	SelectWon      = "won"
	SelectExpected = "expected"
	SelectAll      = "all"
)

// Selector picks one dashboard bucket for drill-down.
type Selector struct {
	Month string
	Type  string
}

// FilterDealsForBucket returns deals whose predicted close date falls in
// sel.Month. An empty month returns deals unchanged and an unknown type acts
// as SelectAll.
func FilterDealsForBucket(deals []models.Deal, sel Selector, closedWon []models.Deal) []models.Deal {
	if strings.TrimSpace(sel.Month) == "" {
		return deals
	}
	monthStart, err := ParseMonthKey(sel.Month)
	if err != nil {
		return []models.Deal{}
	}
	monthEnd := monthStart.AddDate(0, 1, 0)
	avg, ok := AverageHistoricalDurationDays(closedWon)

	out := make([]models.Deal, 0)
	for _, d := range deals {
		closeAt, has := PredictedCloseDate(d, avg, ok)
		if !has || !inRange(closeAt, monthStart, monthEnd) {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(sel.Type)) {
		case SelectWon:
			if d.Stage != models.StageClosedWon {
				continue
			}
		case SelectExpected:
			if d.IsClosed() {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}
