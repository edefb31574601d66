package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"salespipeline/internal/models"
	"salespipeline/internal/repository"
	"salespipeline/internal/risk"
)

type DealService struct {
	Repo   repository.DealRepository
	Scorer *risk.Scorer
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *DealService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// AssignRequest moves deals to a rep and/or territory. Zero ids are ignored.
type AssignRequest struct {
	DealIDs       []uint64 `json:"dealIds"`
	AssignedRepID *uint64  `json:"assigned_rep_id"`
	TerritoryID   *uint64  `json:"territory_id"`
	ChangedBy     string   `json:"changed_by"`
}

// Assign applies the request to each existing deal and returns how many were
// found. An audit entry is appended per field that actually changes.
func (s *DealService) Assign(ctx context.Context, req AssignRequest) (int, error) {
	rep := nonZero(req.AssignedRepID)
	territory := nonZero(req.TerritoryID)
	if req.DealIDs == nil || (rep == nil && territory == nil) {
		return 0, invalid("Invalid input")
	}
	changedBy := strings.TrimSpace(req.ChangedBy)
	updated := 0
	for _, id := range req.DealIDs {
		found, err := s.Repo.UpdateDealLocked(ctx, id, func(d *models.Deal) bool {
			return applyAssignment(d, rep, territory, changedBy, s.now())
		})
		if err != nil {
			return updated, fmt.Errorf("%w: assign deal %d: %v", ErrUpstream, id, err)
		}
		if found {
			updated++
		}
	}
	if s.Logger != nil {
		s.Logger.Info("deals assigned",
			zap.Int("requested", len(req.DealIDs)),
			zap.Int("updated", updated),
			zap.String("changed_by", changedBy),
		)
	}
	return updated, nil
}

func applyAssignment(d *models.Deal, rep, territory *uint64, changedBy string, at time.Time) bool {
	changed := false
	if rep != nil && !sameID(d.AssignedRepID, rep) {
		d.AuditTrail = append(d.AuditTrail, models.AuditEntry{
			ChangedBy: changedBy,
			From:      "rep:" + idLabel(d.AssignedRepID),
			To:        "rep:" + idLabel(rep),
			Date:      at,
		})
		v := *rep
		d.AssignedRepID = &v
		changed = true
	}
	if territory != nil && !sameID(d.TerritoryID, territory) {
		d.AuditTrail = append(d.AuditTrail, models.AuditEntry{
			ChangedBy: changedBy,
			From:      "territory:" + idLabel(d.TerritoryID),
			To:        "territory:" + idLabel(territory),
			Date:      at,
		})
		v := *territory
		d.TerritoryID = &v
		changed = true
	}
	return changed
}

func nonZero(id *uint64) *uint64 {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func sameID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func idLabel(id *uint64) string {
	if id == nil {
		return "none"
	}
	return strconv.FormatUint(*id, 10)
}

func (s *DealService) AuditTrail(ctx context.Context, id uint64) ([]models.AuditEntry, error) {
	d, err := s.Repo.GetDealByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get deal %d: %v", ErrUpstream, id, err)
	}
	if d == nil {
		return nil, fmt.Errorf("deal %d: %w", id, ErrNotFound)
	}
	if d.AuditTrail == nil {
		return []models.AuditEntry{}, nil
	}
	return d.AuditTrail, nil
}

// SearchRequest filters deals. Dates bound created_date inclusively.
type SearchRequest struct {
	TerritoryID   *uint64    `json:"territory_id"`
	AssignedRepID *uint64    `json:"assigned_rep_id"`
	Stage         *string    `json:"stage"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
}

func (s *DealService) Search(ctx context.Context, req SearchRequest) ([]models.Deal, error) {
	asc := true
	items, err := s.Repo.SearchDeals(ctx, repository.SearchDealsParams{
		TerritoryID:   nonZero(req.TerritoryID),
		AssignedRepID: nonZero(req.AssignedRepID),
		Stage:         req.Stage,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		OrderBy:       "id",
		Asc:           &asc,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search deals: %v", ErrUpstream, err)
	}
	if items == nil {
		items = []models.Deal{}
	}
	return items, nil
}

func (s *DealService) loadDeals(ctx context.Context) ([]models.Deal, error) {
	deals, err := s.Repo.ListDeals(ctx)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("load deals failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: load deals: %v", ErrUpstream, err)
	}
	return deals, nil
}
