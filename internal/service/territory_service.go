package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"salespipeline/internal/models"
	"salespipeline/internal/repository"
	"salespipeline/internal/territory"
)

// TerritoryService serves territories with performance metrics recomputed
// from the current deal table.
type TerritoryService struct {
	Repo  repository.TerritoryRepository
	Deals repository.DealRepository
}

func (s *TerritoryService) List(ctx context.Context, params repository.ListTerritoriesParams) ([]models.Territory, error) {
	items, err := s.Repo.ListTerritories(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: list territories: %v", ErrUpstream, err)
	}
	if items == nil {
		items = []models.Territory{}
	}
	if err := s.withMetrics(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *TerritoryService) Get(ctx context.Context, id uint64) (*models.Territory, error) {
	item, err := s.Repo.GetTerritoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get territory %d: %v", ErrUpstream, id, err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	items := []models.Territory{*item}
	if err := s.withMetrics(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Save stores the territory with a fresh metrics snapshot.
func (s *TerritoryService) Save(ctx context.Context, item *models.Territory) error {
	if item == nil || strings.TrimSpace(item.Name) == "" {
		return invalid("name is required")
	}
	item.Name = strings.TrimSpace(item.Name)
	item.Region = strings.TrimSpace(item.Region)
	items := []models.Territory{*item}
	if err := s.withMetrics(ctx, items); err != nil {
		return err
	}
	*item = items[0]
	if err := s.Repo.SaveTerritory(ctx, item); err != nil {
		return fmt.Errorf("%w: save territory: %v", ErrUpstream, err)
	}
	return nil
}

func (s *TerritoryService) Delete(ctx context.Context, id uint64) error {
	if err := s.Repo.DeleteTerritory(ctx, id); err != nil {
		return fmt.Errorf("%w: delete territory %d: %v", ErrUpstream, id, err)
	}
	return nil
}

func (s *TerritoryService) withMetrics(ctx context.Context, items []models.Territory) error {
	if s.Deals == nil || len(items) == 0 {
		return nil
	}
	deals, err := s.Deals.ListDeals(ctx)
	if err != nil {
		return fmt.Errorf("%w: load deals: %v", ErrUpstream, err)
	}
	metrics := territory.Metrics(items, deals)
	for i := range items {
		items[i].PerformanceMetrics = datatypes.NewJSONType(metrics[items[i].ID])
	}
	return nil
}
