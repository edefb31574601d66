package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"salespipeline/internal/config"
	"salespipeline/internal/forecast"
	"salespipeline/internal/models"
	"salespipeline/internal/repository"
	"salespipeline/internal/risk"
)

// AnalyticsService loads the full deal snapshot per call and folds it through
// the forecast and risk packages.
type AnalyticsService struct {
	Repo   repository.DealRepository
	Flags  *SystemSettingsService
	Scorer *risk.Scorer
	Config config.ForecastConfig
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *AnalyticsService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ForecastOptions resolves request overrides against config. Win-rate
// weighting also requires the forecast_win_rate switch.
func (s *AnalyticsService) ForecastOptions(ctx context.Context, horizon string, winRate *bool) (forecast.Options, error) {
	raw := strings.TrimSpace(horizon)
	if raw == "" {
		raw = s.Config.Horizon
	}
	if raw == "" {
		raw = string(forecast.HorizonQuarterEnd)
	}
	h, err := forecast.ParseHorizon(raw)
	if err != nil {
		return forecast.Options{}, invalid(err.Error())
	}
	weight := s.Config.WinRateWeighting
	if winRate != nil {
		weight = *winRate
	}
	if weight && !s.Flags.IsEnabled(ctx, FeatureForecastWinRate, true) {
		weight = false
	}
	return forecast.Options{Horizon: h, WeightByWinRate: weight}, nil
}

func (s *AnalyticsService) Forecast(ctx context.Context, opts forecast.Options) (forecast.Result, error) {
	deals, err := s.loadDeals(ctx)
	if err != nil {
		return forecast.Result{}, err
	}
	res := forecast.ComputeMonthlyForecast(deals, s.now(), opts)
	if s.Logger != nil {
		s.Logger.Debug("forecast computed",
			zap.String("horizon", string(opts.Horizon)),
			zap.Bool("win_rate", opts.WeightByWinRate),
			zap.Int("buckets", len(res.Buckets)),
			zap.Bool("empty", res.IsEmpty),
		)
	}
	return res, nil
}

func (s *AnalyticsService) Dashboard(ctx context.Context) ([]forecast.MonthlyForecast, error) {
	deals, err := s.loadDeals(ctx)
	if err != nil {
		return nil, err
	}
	return forecast.ComputeDashboardForecast(deals, s.now(), s.Config.DashboardMonths), nil
}

// Drilldown returns the deals behind one dashboard bucket.
func (s *AnalyticsService) Drilldown(ctx context.Context, sel forecast.Selector) ([]models.Deal, error) {
	if strings.TrimSpace(sel.Month) != "" {
		if _, err := forecast.ParseMonthKey(sel.Month); err != nil {
			return nil, invalid(err.Error())
		}
	}
	deals, err := s.loadDeals(ctx)
	if err != nil {
		return nil, err
	}
	return forecast.FilterDealsForBucket(deals, sel, forecast.ClosedWon(deals)), nil
}

// Stalled returns the stalled report. A positive days overrides the
// configured threshold.
func (s *AnalyticsService) Stalled(ctx context.Context, days int) ([]risk.StalledEntry, error) {
	deals, err := s.loadDeals(ctx)
	if err != nil {
		return nil, err
	}
	return s.Scorer.Stalled(deals, s.now(), days), nil
}

func (s *AnalyticsService) loadDeals(ctx context.Context) ([]models.Deal, error) {
	deals, err := s.Repo.ListDeals(ctx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("load deals failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: load deals: %v", ErrUpstream, err)
	}
	return deals, nil
}
