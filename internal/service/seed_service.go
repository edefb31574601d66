package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"salespipeline/internal/models"
	"salespipeline/internal/repository"
)

type SeedResult struct {
	Success     bool `json:"success"`
	Reps        int  `json:"reps"`
	Territories int  `json:"territories"`
	Deals       int  `json:"deals"`
}

// SeedService loads a small demo dataset: three reps, two territories and
// three deals owned by them.
type SeedService struct {
	Repo   repository.Repository
	Flags  *SystemSettingsService
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureSeed, true) {
		return SeedResult{}, ErrDisabled
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	reps := []models.Rep{{Name: "Alice"}, {Name: "Bob"}, {Name: "Charlie"}}
	if err := s.Repo.SaveReps(ctx, reps); err != nil {
		return SeedResult{}, fmt.Errorf("%w: seed reps: %v", ErrUpstream, err)
	}

	territories := []models.Territory{
		{
			Name:               "West",
			Region:             "CA",
			AssignedReps:       datatypes.JSONSlice[uint64]{reps[0].ID, reps[1].ID},
			PerformanceMetrics: datatypes.NewJSONType(models.PerformanceMetrics{}),
		},
		{
			Name:               "East",
			Region:             "NY",
			AssignedReps:       datatypes.JSONSlice[uint64]{reps[2].ID},
			PerformanceMetrics: datatypes.NewJSONType(models.PerformanceMetrics{}),
		},
	}
	if err := s.Repo.SaveTerritories(ctx, territories); err != nil {
		return SeedResult{}, fmt.Errorf("%w: seed territories: %v", ErrUpstream, err)
	}

	deal := func(id, company, contact, mode, stage string, value int64, prob int, origin, dest string, rep models.Rep, t models.Territory) models.Deal {
		ts := now
		p := prob
		repID, territoryID := rep.ID, t.ID
		return models.Deal{
			DealID:             id,
			CompanyName:        company,
			ContactName:        contact,
			TransportationMode: mode,
			Stage:              stage,
			Value:              decimal.NewNullDecimal(decimal.NewFromInt(value)),
			Probability:        &p,
			CreatedDate:        &ts,
			UpdatedDate:        &ts,
			ExpectedCloseDate:  &ts,
			SalesRep:           rep.Name,
			OriginCity:         origin,
			DestinationCity:    dest,
			AssignedRepID:      &repID,
			TerritoryID:        &territoryID,
		}
	}
	deals := []models.Deal{
		deal("D-001", "Acme Corp", "John Doe", models.ModeTrucking, models.StageProspect, 10000, 60, "Los Angeles", "San Francisco", reps[0], territories[0]),
		deal("D-002", "Beta Inc", "Jane Smith", models.ModeRail, models.StageQualified, 20000, 40, "San Diego", "Sacramento", reps[1], territories[0]),
		deal("D-003", "Gamma LLC", "Alice Johnson", models.ModeOcean, models.StageClosedWon, 50000, 100, "New York", "Boston", reps[2], territories[1]),
	}
	if err := s.Repo.InsertDeals(ctx, deals); err != nil {
		return SeedResult{}, fmt.Errorf("%w: seed deals: %v", ErrUpstream, err)
	}

	if s.Logger != nil {
		s.Logger.Info("demo data seeded",
			zap.Int("reps", len(reps)),
			zap.Int("territories", len(territories)),
			zap.Int("deals", len(deals)),
		)
	}
	return SeedResult{Success: true, Reps: len(reps), Territories: len(territories), Deals: len(deals)}, nil
}

// SeedIfEmpty seeds only when no deals exist yet.
func (s *SeedService) SeedIfEmpty(ctx context.Context) (bool, error) {
	deals, err := s.Repo.ListDeals(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: load deals: %v", ErrUpstream, err)
	}
	if len(deals) > 0 {
		return false, nil
	}
	if _, err := s.Seed(ctx); err != nil {
		return false, err
	}
	return true, nil
}
