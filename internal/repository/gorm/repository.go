package gormrepository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salespipeline/internal/models"
	"salespipeline/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ repository.Repository = (*Store)(nil)

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("db not configured")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// --- deals ------------------------------------------------------------------

var dealOrderColumns = map[string]struct{}{
	"id":                  {},
	"deal_id":             {},
	"company_name":        {},
	"stage":               {},
	"value":               {},
	"probability":         {},
	"created_date":        {},
	"updated_date":        {},
	"expected_close_date": {},
}

func (s *Store) ListDeals(ctx context.Context) ([]models.Deal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Deal
	if err := s.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SearchDeals(ctx context.Context, params repository.SearchDealsParams) ([]models.Deal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Deal{})
	if params.TerritoryID != nil {
		query = query.Where("territory_id = ?", *params.TerritoryID)
	}
	if params.AssignedRepID != nil {
		query = query.Where("assigned_rep_id = ?", *params.AssignedRepID)
	}
	if params.Stage != nil && strings.TrimSpace(*params.Stage) != "" {
		query = query.Where("stage = ?", strings.TrimSpace(*params.Stage))
	}
	if params.StartDate != nil && !params.StartDate.IsZero() {
		query = query.Where("created_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil && !params.EndDate.IsZero() {
		query = query.Where("created_date <= ?", *params.EndDate)
	}
	orderBy := strings.TrimSpace(params.OrderBy)
	if _, ok := dealOrderColumns[orderBy]; !ok {
		orderBy = ""
	}
	query = applyOrder(query, orderBy, params.Asc, "id")
	if params.Limit > 0 {
		query = query.Limit(normalizeLimit(params.Limit, 200))
	}
	if offset := normalizeOffset(params.Offset); offset > 0 {
		query = query.Offset(offset)
	}
	var items []models.Deal
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetDealByID(ctx context.Context, id uint64) (*models.Deal, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Deal
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) InsertDeal(ctx context.Context, item *models.Deal) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) InsertDeals(ctx context.Context, items []models.Deal) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return createInBatches(s.db.WithContext(ctx), items, 200)
}

func (s *Store) UpdateDealLocked(ctx context.Context, id uint64, fn func(d *models.Deal) bool) (bool, error) {
	if s == nil || s.db == nil || fn == nil {
		return false, nil
	}
	found := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Deal
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		if !fn(&item) {
			return nil
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		return false, fmt.Errorf("update deal %d: %w", id, err)
	}
	return found, nil
}

// --- reps -------------------------------------------------------------------

func (s *Store) ListReps(ctx context.Context) ([]models.Rep, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Rep
	if err := s.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetRepByID(ctx context.Context, id uint64) (*models.Rep, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Rep
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveRep(ctx context.Context, item *models.Rep) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) SaveReps(ctx context.Context, items []models.Rep) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(&items).Error
}

func (s *Store) DeleteRep(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Rep{}, id).Error
}

// --- territories ------------------------------------------------------------

func (s *Store) ListTerritories(ctx context.Context, params repository.ListTerritoriesParams) ([]models.Territory, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Territory{})
	if params.Region != nil && strings.TrimSpace(*params.Region) != "" {
		query = query.Where("region = ?", strings.TrimSpace(*params.Region))
	}
	if params.RepID != nil {
		query = query.Where("assigned_reps @> ?::jsonb", fmt.Sprintf("[%d]", *params.RepID))
	}
	var items []models.Territory
	if err := query.Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetTerritoryByID(ctx context.Context, id uint64) (*models.Territory, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Territory
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) SaveTerritory(ctx context.Context, item *models.Territory) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) SaveTerritories(ctx context.Context, items []models.Territory) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(&items).Error
}

func (s *Store) DeleteTerritory(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.Territory{}, id).Error
}

// --- sales reps -------------------------------------------------------------

func (s *Store) ListSalesReps(ctx context.Context) ([]models.SalesRep, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SalesRep
	if err := s.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListSalesRepsByIDs(ctx context.Context, ids []uint64) ([]models.SalesRep, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return nil, nil
	}
	var items []models.SalesRep
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SaveSalesReps(ctx context.Context, items []models.SalesRep) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(&items).Error
}

func (s *Store) UpdateSalesRepTerritory(ctx context.Context, ids []uint64, territory string) (int64, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.SalesRep{}).
		Where("id IN ?", ids).
		Update("territory", strings.TrimSpace(territory))
	return res.RowsAffected, res.Error
}

// --- system settings --------------------------------------------------------

func (s *Store) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Key = strings.TrimSpace(item.Key)
	if item.Key == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value",
			"description",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var item models.SystemSetting
	err := s.db.WithContext(ctx).Model(&models.SystemSetting{}).Where("key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := settingsQuery(s.db.WithContext(ctx), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "key")
	var items []models.SystemSetting
	if err := query.Limit(normalizeLimit(params.Limit, 500)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := settingsQuery(s.db.WithContext(ctx), params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func settingsQuery(db *gorm.DB, params repository.ListSystemSettingsParams) *gorm.DB {
	query := db.Model(&models.SystemSetting{})
	if params.Prefix != nil && strings.TrimSpace(*params.Prefix) != "" {
		query = query.Where("key LIKE ?", strings.TrimSpace(*params.Prefix)+"%")
	}
	return query
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func createInBatches[T any](db *gorm.DB, items []T, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return db.CreateInBatches(items, batchSize).Error
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
