// Package memory is an in-process Repository used when no database DSN is
// configured and by tests. Reads return copies so callers never alias state.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"salespipeline/internal/models"
	"salespipeline/internal/repository"
)

type Store struct {
	mu sync.RWMutex

	deals       map[uint64]models.Deal
	reps        map[uint64]models.Rep
	territories map[uint64]models.Territory
	salesReps   map[uint64]models.SalesRep
	settings    map[string]models.SystemSetting

	nextDealID      uint64
	nextRepID       uint64
	nextTerritoryID uint64
	nextSalesRepID  uint64
	nextSettingID   uint64
}

func New() *Store {
	return &Store{
		deals:       map[uint64]models.Deal{},
		reps:        map[uint64]models.Rep{},
		territories: map[uint64]models.Territory{},
		salesReps:   map[uint64]models.SalesRep{},
		settings:    map[string]models.SystemSetting{},
	}
}

var _ repository.Repository = (*Store)(nil)

func (s *Store) Ping(context.Context) error { return nil }

func cloneDeal(d models.Deal) models.Deal {
	if d.AuditTrail != nil {
		d.AuditTrail = slices.Clone(d.AuditTrail)
	}
	d.CargoType = clonePtr(d.CargoType)
	d.Probability = clonePtr(d.Probability)
	d.CreatedDate = clonePtr(d.CreatedDate)
	d.UpdatedDate = clonePtr(d.UpdatedDate)
	d.ExpectedCloseDate = clonePtr(d.ExpectedCloseDate)
	d.AssignedRepID = clonePtr(d.AssignedRepID)
	d.TerritoryID = clonePtr(d.TerritoryID)
	return d
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSetting(item models.SystemSetting) models.SystemSetting {
	item.Value = slices.Clone(item.Value)
	return item
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// --- deals ------------------------------------------------------------------

func (s *Store) ListDeals(ctx context.Context) ([]models.Deal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Deal, 0, len(s.deals))
	for _, id := range sortedKeys(s.deals) {
		out = append(out, cloneDeal(s.deals[id]))
	}
	return out, nil
}

func (s *Store) SearchDeals(ctx context.Context, params repository.SearchDealsParams) ([]models.Deal, error) {
	all, err := s.ListDeals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Deal, 0, len(all))
	for _, d := range all {
		if params.TerritoryID != nil && (d.TerritoryID == nil || *d.TerritoryID != *params.TerritoryID) {
			continue
		}
		if params.AssignedRepID != nil && (d.AssignedRepID == nil || *d.AssignedRepID != *params.AssignedRepID) {
			continue
		}
		if params.Stage != nil && strings.TrimSpace(*params.Stage) != "" && d.Stage != strings.TrimSpace(*params.Stage) {
			continue
		}
		if params.StartDate != nil && !params.StartDate.IsZero() && (d.CreatedDate == nil || d.CreatedDate.Before(*params.StartDate)) {
			continue
		}
		if params.EndDate != nil && !params.EndDate.IsZero() && (d.CreatedDate == nil || d.CreatedDate.After(*params.EndDate)) {
			continue
		}
		out = append(out, d)
	}
	sortDeals(out, params.OrderBy, params.Asc)
	if params.Offset > 0 {
		if params.Offset >= len(out) {
			return []models.Deal{}, nil
		}
		out = out[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(out) {
		out = out[:params.Limit]
	}
	return out, nil
}

func sortDeals(items []models.Deal, orderBy string, asc *bool) {
	ascending := asc != nil && *asc
	less := func(a, b models.Deal) bool { return a.ID < b.ID }
	switch strings.TrimSpace(orderBy) {
	case "created_date":
		less = func(a, b models.Deal) bool { return timeBefore(a.CreatedDate, b.CreatedDate) }
	case "updated_date":
		less = func(a, b models.Deal) bool { return timeBefore(a.UpdatedDate, b.UpdatedDate) }
	case "expected_close_date":
		less = func(a, b models.Deal) bool { return timeBefore(a.ExpectedCloseDate, b.ExpectedCloseDate) }
	case "value":
		less = func(a, b models.Deal) bool { return a.ValueOrZero().LessThan(b.ValueOrZero()) }
	case "deal_id":
		less = func(a, b models.Deal) bool { return a.DealID < b.DealID }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})
}

func timeBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}

func (s *Store) GetDealByID(ctx context.Context, id uint64) (*models.Deal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.deals[id]
	if !ok {
		return nil, nil
	}
	d = cloneDeal(d)
	return &d, nil
}

func (s *Store) InsertDeal(ctx context.Context, item *models.Deal) error {
	if item == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertDealLocked(item)
	return nil
}

func (s *Store) insertDealLocked(item *models.Deal) {
	if item.ID == 0 {
		s.nextDealID++
		item.ID = s.nextDealID
	} else if item.ID > s.nextDealID {
		s.nextDealID = item.ID
	}
	s.deals[item.ID] = cloneDeal(*item)
}

func (s *Store) InsertDeals(ctx context.Context, items []models.Deal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		s.insertDealLocked(&items[i])
	}
	return nil
}

func (s *Store) UpdateDealLocked(ctx context.Context, id uint64, fn func(d *models.Deal) bool) (bool, error) {
	if fn == nil {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[id]
	if !ok {
		return false, nil
	}
	d = cloneDeal(d)
	if fn(&d) {
		d.ID = id
		s.deals[id] = d
	}
	return true, nil
}

// --- reps -------------------------------------------------------------------

func (s *Store) ListReps(ctx context.Context) ([]models.Rep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Rep, 0, len(s.reps))
	for _, id := range sortedKeys(s.reps) {
		r := s.reps[id]
		r.AssignedTerritories = slices.Clone(r.AssignedTerritories)
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) GetRepByID(ctx context.Context, id uint64) (*models.Rep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reps[id]
	if !ok {
		return nil, nil
	}
	r.AssignedTerritories = slices.Clone(r.AssignedTerritories)
	return &r, nil
}

func (s *Store) SaveRep(ctx context.Context, item *models.Rep) error {
	if item == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveRepLocked(item)
	return nil
}

func (s *Store) saveRepLocked(item *models.Rep) {
	if item.ID == 0 {
		s.nextRepID++
		item.ID = s.nextRepID
	} else if item.ID > s.nextRepID {
		s.nextRepID = item.ID
	}
	r := *item
	r.AssignedTerritories = slices.Clone(item.AssignedTerritories)
	s.reps[item.ID] = r
}

func (s *Store) SaveReps(ctx context.Context, items []models.Rep) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		s.saveRepLocked(&items[i])
	}
	return nil
}

func (s *Store) DeleteRep(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reps, id)
	return nil
}

// --- territories ------------------------------------------------------------

func (s *Store) ListTerritories(ctx context.Context, params repository.ListTerritoriesParams) ([]models.Territory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Territory, 0, len(s.territories))
	for _, id := range sortedKeys(s.territories) {
		t := s.territories[id]
		if params.Region != nil && strings.TrimSpace(*params.Region) != "" && t.Region != strings.TrimSpace(*params.Region) {
			continue
		}
		if params.RepID != nil && !slices.Contains(t.AssignedReps, *params.RepID) {
			continue
		}
		t.AssignedReps = slices.Clone(t.AssignedReps)
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) GetTerritoryByID(ctx context.Context, id uint64) (*models.Territory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.territories[id]
	if !ok {
		return nil, nil
	}
	t.AssignedReps = slices.Clone(t.AssignedReps)
	return &t, nil
}

func (s *Store) SaveTerritory(ctx context.Context, item *models.Territory) error {
	if item == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveTerritoryLocked(item)
	return nil
}

func (s *Store) saveTerritoryLocked(item *models.Territory) {
	if item.ID == 0 {
		s.nextTerritoryID++
		item.ID = s.nextTerritoryID
	} else if item.ID > s.nextTerritoryID {
		s.nextTerritoryID = item.ID
	}
	t := *item
	t.AssignedReps = slices.Clone(item.AssignedReps)
	s.territories[item.ID] = t
}

func (s *Store) SaveTerritories(ctx context.Context, items []models.Territory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		s.saveTerritoryLocked(&items[i])
	}
	return nil
}

func (s *Store) DeleteTerritory(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.territories, id)
	return nil
}

// --- sales reps -------------------------------------------------------------

func (s *Store) ListSalesReps(ctx context.Context) ([]models.SalesRep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SalesRep, 0, len(s.salesReps))
	for _, id := range sortedKeys(s.salesReps) {
		out = append(out, s.salesReps[id])
	}
	return out, nil
}

func (s *Store) ListSalesRepsByIDs(ctx context.Context, ids []uint64) ([]models.SalesRep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SalesRep, 0, len(ids))
	for _, id := range sortedKeys(s.salesReps) {
		if slices.Contains(ids, id) {
			out = append(out, s.salesReps[id])
		}
	}
	return out, nil
}

func (s *Store) SaveSalesReps(ctx context.Context, items []models.SalesRep) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		if items[i].ID == 0 {
			s.nextSalesRepID++
			items[i].ID = s.nextSalesRepID
		} else if items[i].ID > s.nextSalesRepID {
			s.nextSalesRepID = items[i].ID
		}
		s.salesReps[items[i].ID] = items[i]
	}
	return nil
}

func (s *Store) UpdateSalesRepTerritory(ctx context.Context, ids []uint64, territory string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		r, ok := s.salesReps[id]
		if !ok {
			continue
		}
		r.Territory = strings.TrimSpace(territory)
		s.salesReps[id] = r
		n++
	}
	return n, nil
}

// --- system settings --------------------------------------------------------

func (s *Store) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	if item == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	item.Key = strings.TrimSpace(item.Key)
	if item.Key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if prev, ok := s.settings[item.Key]; ok {
		item.ID = prev.ID
		item.CreatedAt = prev.CreatedAt
	} else {
		s.nextSettingID++
		item.ID = s.nextSettingID
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	s.settings[item.Key] = cloneSetting(*item)
	return nil
}

func (s *Store) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.settings[strings.TrimSpace(key)]
	if !ok {
		return nil, nil
	}
	item = cloneSetting(item)
	return &item, nil
}

func (s *Store) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	items, err := s.filterSettings(ctx, params)
	if err != nil {
		return nil, err
	}
	desc := params.Asc != nil && !*params.Asc
	sort.Slice(items, func(i, j int) bool {
		if desc {
			return items[i].Key > items[j].Key
		}
		return items[i].Key < items[j].Key
	})
	if params.Offset > 0 {
		if params.Offset >= len(items) {
			return []models.SystemSetting{}, nil
		}
		items = items[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(items) {
		items = items[:params.Limit]
	}
	return items, nil
}

func (s *Store) CountSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	items, err := s.filterSettings(ctx, params)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (s *Store) filterSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := ""
	if params.Prefix != nil {
		prefix = strings.TrimSpace(*params.Prefix)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SystemSetting, 0, len(s.settings))
	for key, item := range s.settings {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, cloneSetting(item))
	}
	return out, nil
}
