package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"salespipeline/internal/models"
)

// EmptyMessage accompanies a forecast in which no deal landed in any bucket.
const EmptyMessage = "No deals expected to close from now until the end of next quarter. Please check your data or add upcoming deals."

var hundred = decimal.NewFromInt(100)

type Options struct {
	Horizon         Horizon
	WeightByWinRate bool
}

func DefaultOptions() Options {
	return Options{Horizon: HorizonQuarterEnd}
}

// Bucket is one calendar month of the pipeline forecast.
type Bucket struct {
	Month   string
	Quarter string
	Revenue decimal.Decimal
	DealIDs []string
}

type Result struct {
	// Buckets are ordered by month.
	Buckets []Bucket
	IsEmpty bool
	End     time.Time
}

func (r Result) Bucket(month string) (Bucket, bool) {
	for _, b := range r.Buckets {
		if b.Month == month {
			return b, true
		}
	}
	return Bucket{}, false
}

// IsComplete reports whether a deal carries everything the forecast needs.
func IsComplete(d models.Deal) bool {
	return d.ExpectedCloseDate != nil && d.Value.Valid && d.Probability != nil
}

func ClosedWon(deals []models.Deal) []models.Deal {
	var out []models.Deal
	for _, d := range deals {
		if d.Stage == models.StageClosedWon {
			out = append(out, d)
		}
	}
	return out
}

// ComputeMonthlyForecast buckets open, complete deals by expected close month.
// Every month in the horizon is present even when nothing closes in it.
func ComputeMonthlyForecast(deals []models.Deal, now time.Time, opts Options) Result {
	now = now.UTC()
	end := opts.Horizon.End(now)

	months := Months(now, end)
	res := Result{Buckets: make([]Bucket, 0, len(months)), IsEmpty: true, End: end}
	index := make(map[string]int, len(months))
	for i, m := range months {
		key := MonthKey(m)
		index[key] = i
		res.Buckets = append(res.Buckets, Bucket{
			Month:   key,
			Quarter: QuarterKey(m),
			Revenue: decimal.Zero,
			DealIDs: []string{},
		})
	}

	var rates WinRateTable
	if opts.WeightByWinRate {
		rates = WinRates(deals)
	}

	for _, d := range deals {
		if d.IsClosed() || !IsComplete(d) {
			continue
		}
		closeAt := d.ExpectedCloseDate.UTC()
		if closeAt.Before(now) || !closeAt.Before(end) {
			continue
		}
		i, ok := index[MonthKey(closeAt)]
		if !ok {
			continue
		}
		contribution := rates.Weighted(d.TransportationMode, d.Value.Decimal, *d.Probability)
		b := &res.Buckets[i]
		b.Revenue = b.Revenue.Add(contribution)
		b.DealIDs = append(b.DealIDs, d.DealID)
		res.IsEmpty = false
	}
	return res
}
