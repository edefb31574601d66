package service

import (
	"context"
	"fmt"
	"strings"

	"salespipeline/internal/models"
	"salespipeline/internal/repository"
)

type RepService struct {
	Repo repository.RepRepository
}

func (s *RepService) List(ctx context.Context) ([]models.Rep, error) {
	items, err := s.Repo.ListReps(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list reps: %v", ErrUpstream, err)
	}
	if items == nil {
		items = []models.Rep{}
	}
	return items, nil
}

func (s *RepService) Get(ctx context.Context, id uint64) (*models.Rep, error) {
	item, err := s.Repo.GetRepByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get rep %d: %v", ErrUpstream, id, err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// Save creates the rep when ID is zero and replaces it otherwise.
func (s *RepService) Save(ctx context.Context, item *models.Rep) error {
	if item == nil || strings.TrimSpace(item.Name) == "" {
		return invalid("name is required")
	}
	item.Name = strings.TrimSpace(item.Name)
	if err := s.Repo.SaveRep(ctx, item); err != nil {
		return fmt.Errorf("%w: save rep: %v", ErrUpstream, err)
	}
	return nil
}

func (s *RepService) Delete(ctx context.Context, id uint64) error {
	if err := s.Repo.DeleteRep(ctx, id); err != nil {
		return fmt.Errorf("%w: delete rep %d: %v", ErrUpstream, id, err)
	}
	return nil
}
