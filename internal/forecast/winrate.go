package forecast

import (
	"strings"

	"github.com/shopspring/decimal"

	"salespipeline/internal/models"
)

// WinRecord counts closed outcomes for one transportation mode.
type WinRecord struct {
	Won    int64
	Closed int64
}

// WinRateTable maps a transportation mode to its closed history.
type WinRateTable map[string]WinRecord

// WinRates tallies closed_won and closed deals per mode over all deals.
func WinRates(deals []models.Deal) WinRateTable {
	out := WinRateTable{}
	for _, d := range deals {
		if !d.IsClosed() {
			continue
		}
		mode := normalizeMode(d.TransportationMode)
		rec := out[mode]
		rec.Closed++
		if d.Stage == models.StageClosedWon {
			rec.Won++
		}
		out[mode] = rec
	}
	return out
}

// WinRate returns won/closed for mode, or 1 when the mode has no closed history.
func (w WinRateTable) WinRate(mode string) decimal.Decimal {
	rec, ok := w[normalizeMode(mode)]
	if !ok || rec.Closed == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(rec.Won).Div(decimal.NewFromInt(rec.Closed))
}

// Weighted returns value × probability/100 × win rate with a single division.
// A nil table weights every mode at 1.
func (w WinRateTable) Weighted(mode string, value decimal.Decimal, probability int) decimal.Decimal {
	num := value.Mul(decimal.NewFromInt(int64(probability)))
	den := hundred
	if rec, ok := w[normalizeMode(mode)]; ok && rec.Closed > 0 {
		num = num.Mul(decimal.NewFromInt(rec.Won))
		den = den.Mul(decimal.NewFromInt(rec.Closed))
	}
	return num.Div(den)
}

func normalizeMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}
