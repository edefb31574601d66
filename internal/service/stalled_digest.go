package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salespipeline/internal/notify"
	"salespipeline/internal/risk"
)

type StalledDigest struct {
	Text        string              `json:"text"`
	GeneratedAt time.Time           `json:"generated_at"`
	Count       int                 `json:"count"`
	AtRisk      int                 `json:"at_risk"`
	TotalValue  decimal.Decimal     `json:"total_value"`
	Deals       []risk.StalledEntry `json:"deals"`
}

// StalledDigestService posts the stalled-deal report to a webhook. It is
// driven by the cron runner.
type StalledDigestService struct {
	Analytics *AnalyticsService
	Sender    notify.Sender
	Flags     *SystemSettingsService
	Logger    *zap.Logger
}

func (s *StalledDigestService) RunOnce(ctx context.Context) error {
	if s == nil || s.Analytics == nil {
		return nil
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureStalledDigest, true) {
		return nil
	}
	entries, err := s.Analytics.Stalled(ctx, 0)
	if err != nil {
		return err
	}
	digest := BuildStalledDigest(entries, s.Analytics.now())
	if s.Logger != nil {
		s.Logger.Info("stalled digest",
			zap.Int("stalled", digest.Count),
			zap.Int("at_risk", digest.AtRisk),
			zap.String("total_value", digest.TotalValue.StringFixed(2)),
		)
	}
	if digest.Count == 0 || s.Sender == nil {
		return nil
	}
	if ws, ok := s.Sender.(*notify.WebhookSender); ok && !ws.Enabled() {
		return nil
	}
	return s.Sender.Send(ctx, digest)
}

// BuildStalledDigest summarises entries. AtRisk counts tier-2 deals.
func BuildStalledDigest(entries []risk.StalledEntry, now time.Time) StalledDigest {
	d := StalledDigest{
		GeneratedAt: now,
		Count:       len(entries),
		TotalValue:  decimal.Zero,
		Deals:       entries,
	}
	if d.Deals == nil {
		d.Deals = []risk.StalledEntry{}
	}
	for _, e := range entries {
		if e.RiskScore >= 2 {
			d.AtRisk++
		}
		d.TotalValue = d.TotalValue.Add(e.Value)
	}
	d.Text = fmt.Sprintf("%d stalled deals (%d at risk), %s in pipeline value", d.Count, d.AtRisk, d.TotalValue.StringFixed(2))
	return d
}
