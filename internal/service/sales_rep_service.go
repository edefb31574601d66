package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"salespipeline/internal/models"
	"salespipeline/internal/repository"
)

// SalesTerritories are the territories a sales rep can belong to.
var SalesTerritories = []string{"CA", "NY", "TX", "FL"}

type rosterContact struct {
	Phone     string
	Territory string
}

var rosterContacts = map[string]rosterContact{
	"Lisa Anderson":  {"(555) 123-4567", "CA"},
	"Jennifer Walsh": {"(555) 234-5678", "NY"},
	"Michael Chen":   {"(555) 345-6789", "TX"},
	"Sarah Johnson":  {"(555) 456-7890", "FL"},
	"David Smith":    {"(555) 567-8901", "CA"},
	"Emily Davis":    {"(555) 678-9012", "NY"},
	"Robert Wilson":  {"(555) 789-0123", "TX"},
	"Jessica Brown":  {"(555) 890-1234", "FL"},
}

const fallbackPhone = "(555) 000-0000"

type SalesRepService struct {
	Repo   repository.SalesRepRepository
	Deals  repository.DealRepository
	Logger *zap.Logger
}

// Sync returns the roster with deal counts refreshed from deal owners. An
// empty roster is first seeded from the distinct owner names.
func (s *SalesRepService) Sync(ctx context.Context) ([]models.SalesRep, error) {
	deals, err := s.Deals.ListDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load deals: %v", ErrUpstream, err)
	}
	counts := make(map[string]int)
	var owners []string
	for _, d := range deals {
		name := strings.TrimSpace(d.SalesRep)
		if name == "" {
			continue
		}
		if _, seen := counts[name]; !seen {
			owners = append(owners, name)
		}
		counts[name]++
	}

	reps, err := s.Repo.ListSalesReps(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list sales reps: %v", ErrUpstream, err)
	}
	if len(reps) == 0 {
		reps = make([]models.SalesRep, 0, len(owners))
		for i, name := range owners {
			r := rosterEntry(name, i)
			r.AmountOfDeals = counts[name]
			reps = append(reps, r)
		}
		if s.Logger != nil && len(reps) > 0 {
			s.Logger.Info("sales roster seeded from deals", zap.Int("reps", len(reps)))
		}
	} else {
		for i := range reps {
			reps[i].AmountOfDeals = counts[reps[i].FullName()]
		}
	}
	if len(reps) == 0 {
		return []models.SalesRep{}, nil
	}
	if err := s.Repo.SaveSalesReps(ctx, reps); err != nil {
		return nil, fmt.Errorf("%w: save sales reps: %v", ErrUpstream, err)
	}
	return reps, nil
}

func rosterEntry(name string, idx int) models.SalesRep {
	first, last, _ := strings.Cut(name, " ")
	last = strings.TrimSpace(last)
	r := models.SalesRep{FirstName: first, LastName: last}
	local := strings.ToLower(first)
	if last != "" {
		local += "." + strings.ToLower(strings.ReplaceAll(last, " ", "."))
	}
	r.Email = local + "@company.com"
	if c, ok := rosterContacts[name]; ok {
		r.PhoneNumber = c.Phone
		r.Territory = c.Territory
	} else {
		r.PhoneNumber = fallbackPhone
		r.Territory = SalesTerritories[idx%len(SalesTerritories)]
	}
	return r
}

// UpdateTerritoriesRequest keeps raw fields so type mismatches surface as
// validation messages rather than decode errors.
type UpdateTerritoriesRequest struct {
	SalesRepIDs  json.RawMessage `json:"salesRepIds"`
	NewTerritory json.RawMessage `json:"newTerritory"`
}

type UpdateTerritoriesResult struct {
	Message          string            `json:"message"`
	UpdatedSalesReps []models.SalesRep `json:"updatedSalesReps"`
}

func (s *SalesRepService) UpdateTerritories(ctx context.Context, req UpdateTerritoriesRequest) (UpdateTerritoriesResult, error) {
	var ids []uint64
	if len(req.SalesRepIDs) == 0 || json.Unmarshal(req.SalesRepIDs, &ids) != nil || len(ids) == 0 {
		return UpdateTerritoriesResult{}, invalid("salesRepIds is required and must be a non-empty array")
	}
	var target string
	if len(req.NewTerritory) == 0 || json.Unmarshal(req.NewTerritory, &target) != nil || target == "" {
		return UpdateTerritoriesResult{}, invalid("newTerritory is required and must be a string")
	}
	if !validSalesTerritory(target) {
		return UpdateTerritoriesResult{}, invalid("newTerritory must be one of: " + strings.Join(SalesTerritories, ", "))
	}

	n, err := s.Repo.UpdateSalesRepTerritory(ctx, ids, target)
	if err != nil {
		return UpdateTerritoriesResult{}, fmt.Errorf("%w: update sales rep territory: %v", ErrUpstream, err)
	}
	updated, err := s.Repo.ListSalesRepsByIDs(ctx, ids)
	if err != nil {
		return UpdateTerritoriesResult{}, fmt.Errorf("%w: list sales reps: %v", ErrUpstream, err)
	}
	if updated == nil {
		updated = []models.SalesRep{}
	}
	if s.Logger != nil {
		s.Logger.Info("sales rep territories updated", zap.Int64("rows", n), zap.String("territory", target))
	}
	return UpdateTerritoriesResult{
		Message:          fmt.Sprintf("Successfully updated %d sales representatives to territory %s", n, target),
		UpdatedSalesReps: updated,
	}, nil
}

func validSalesTerritory(t string) bool {
	for _, v := range SalesTerritories {
		if v == t {
			return true
		}
	}
	return false
}
