package risk

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salespipeline/internal/models"
)

// DefaultStalledDays is the staleness threshold used when none is configured.
const DefaultStalledDays = 21

const day = 24 * time.Hour

// Threshold returns days, or DefaultStalledDays when days is not positive.
func Threshold(days int) int {
	if days <= 0 {
		return DefaultStalledDays
	}
	return days
}

// DaysSinceUpdate returns whole days elapsed since updated, rounded down.
func DaysSinceUpdate(updated *time.Time, now time.Time) (int, bool) {
	if updated == nil || updated.IsZero() {
		return 0, false
	}
	return int(math.Floor(float64(now.Sub(*updated)) / float64(day))), true
}

// IsStale reports whether an open deal has gone threshold days without an update.
func IsStale(d models.Deal, now time.Time, threshold int) bool {
	if d.IsClosed() {
		return false
	}
	days, ok := DaysSinceUpdate(d.UpdatedDate, now)
	return ok && days >= Threshold(threshold)
}

// TierScore buckets days into 0 (fresh), 1 (stalled) or 2 (stalled twice over).
func TierScore(days, threshold int) int {
	threshold = Threshold(threshold)
	switch {
	case days < threshold:
		return 0
	case days < threshold*2:
		return 1
	default:
		return 2
	}
}

type StalledEntry struct {
	DealID          string          `json:"deal_id"`
	CompanyName     string          `json:"company_name"`
	Owner           string          `json:"owner"`
	Stage           string          `json:"stage"`
	Value           decimal.Decimal `json:"value"`
	LastStageChange time.Time       `json:"last_stage_change"`
	DaysStalled     int             `json:"days_stalled"`
	RiskScore       int             `json:"risk_score"`
}

// ComputeStalledReport lists open deals with a non-zero tier score, in input
// order. Deals without an update date are skipped.
func ComputeStalledReport(deals []models.Deal, now time.Time, threshold int) []StalledEntry {
	threshold = Threshold(threshold)
	out := make([]StalledEntry, 0)
	for _, d := range deals {
		if d.IsClosed() {
			continue
		}
		days, ok := DaysSinceUpdate(d.UpdatedDate, now)
		if !ok {
			continue
		}
		score := TierScore(days, threshold)
		if score == 0 {
			continue
		}
		out = append(out, StalledEntry{
			DealID:          d.DealID,
			CompanyName:     d.CompanyName,
			Owner:           d.SalesRep,
			Stage:           d.Stage,
			Value:           d.ValueOrZero(),
			LastStageChange: d.UpdatedDate.UTC(),
			DaysStalled:     days,
			RiskScore:       score,
		})
	}
	return out
}

// ContinuousRisk scores an open deal 0..100 from staleness, weighted up for
// large values and low probabilities. Closed deals score 0. ok is false when
// the update date is missing.
func ContinuousRisk(d models.Deal, now time.Time) (int, bool) {
	if d.IsClosed() {
		return 0, true
	}
	days, ok := DaysSinceUpdate(d.UpdatedDate, now)
	if !ok {
		return 0, false
	}
	baseRisk := math.Min(100, float64(days)/30*100)
	value := d.ValueOrZero().InexactFloat64()
	// sizeFactor is left unclamped; only the final score is bounded.
	sizeFactor := 0.8 + (value/100000)*0.4
	probabilityFactor := 0.8 + (float64(100-d.ProbabilityOrZero())/100)*0.4

	score := math.Round(baseRisk * sizeFactor * probabilityFactor)
	return int(math.Max(0, math.Min(100, score))), true
}

// ScoredDeal is a deal annotated for the deal list view.
type ScoredDeal struct {
	models.Deal
	DaysSinceUpdate *int `json:"days_since_update"`
	Stale           bool `json:"stale"`
	RiskScore       int  `json:"risk_score"`
}

func ScoreDeals(deals []models.Deal, now time.Time, threshold int) []ScoredDeal {
	out := make([]ScoredDeal, 0, len(deals))
	for _, d := range deals {
		sd := ScoredDeal{Deal: d}
		if days, ok := DaysSinceUpdate(d.UpdatedDate, now); ok {
			sd.DaysSinceUpdate = &days
			sd.Stale = IsStale(d, now, threshold)
		}
		if score, ok := ContinuousRisk(d, now); ok {
			sd.RiskScore = score
		}
		out = append(out, sd)
	}
	return out
}

// Scorer binds a threshold and logger to the pure scoring functions.
type Scorer struct {
	StalledDays int
	Logger      *zap.Logger
}

func (s *Scorer) threshold() int {
	if s == nil {
		return DefaultStalledDays
	}
	return Threshold(s.StalledDays)
}

// Stalled computes the stalled report. A positive override replaces the
// configured threshold.
func (s *Scorer) Stalled(deals []models.Deal, now time.Time, override int) []StalledEntry {
	threshold := s.threshold()
	if override > 0 {
		threshold = override
	}
	out := ComputeStalledReport(deals, now, threshold)
	if s != nil && s.Logger != nil {
		s.Logger.Debug("risk: stalled report",
			zap.Int("threshold_days", threshold),
			zap.Int("total", len(deals)),
			zap.Int("stalled", len(out)),
		)
	}
	return out
}

func (s *Scorer) Score(deals []models.Deal, now time.Time) []ScoredDeal {
	return ScoreDeals(deals, now, s.threshold())
}
