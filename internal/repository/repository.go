package repository

import (
	"context"
	"time"

	"salespipeline/internal/models"
)

type DealRepository interface {
	// ListDeals loads every deal. The analytics core works on this snapshot.
	ListDeals(ctx context.Context) ([]models.Deal, error)
	SearchDeals(ctx context.Context, params SearchDealsParams) ([]models.Deal, error)
	GetDealByID(ctx context.Context, id uint64) (*models.Deal, error)
	InsertDeal(ctx context.Context, item *models.Deal) error
	InsertDeals(ctx context.Context, items []models.Deal) error
	// UpdateDealLocked loads the deal under a row lock and saves it when fn
	// reports a change. found is false when no deal has that id.
	UpdateDealLocked(ctx context.Context, id uint64, fn func(d *models.Deal) bool) (found bool, err error)
}

type RepRepository interface {
	ListReps(ctx context.Context) ([]models.Rep, error)
	GetRepByID(ctx context.Context, id uint64) (*models.Rep, error)
	SaveRep(ctx context.Context, item *models.Rep) error
	SaveReps(ctx context.Context, items []models.Rep) error
	DeleteRep(ctx context.Context, id uint64) error
}

type TerritoryRepository interface {
	ListTerritories(ctx context.Context, params ListTerritoriesParams) ([]models.Territory, error)
	GetTerritoryByID(ctx context.Context, id uint64) (*models.Territory, error)
	SaveTerritory(ctx context.Context, item *models.Territory) error
	SaveTerritories(ctx context.Context, items []models.Territory) error
	DeleteTerritory(ctx context.Context, id uint64) error
}

type SalesRepRepository interface {
	ListSalesReps(ctx context.Context) ([]models.SalesRep, error)
	ListSalesRepsByIDs(ctx context.Context, ids []uint64) ([]models.SalesRep, error)
	SaveSalesReps(ctx context.Context, items []models.SalesRep) error
	UpdateSalesRepTerritory(ctx context.Context, ids []uint64, territory string) (int64, error)
}

type SystemSettingRepository interface {
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context, params ListSystemSettingsParams) ([]models.SystemSetting, error)
	CountSystemSettings(ctx context.Context, params ListSystemSettingsParams) (int64, error)
}

// Repository is the unified store used by services and handlers.
type Repository interface {
	DealRepository
	RepRepository
	TerritoryRepository
	SalesRepRepository
	SystemSettingRepository

	Ping(ctx context.Context) error
}

// SearchDealsParams filters on equality for ids/stage and on created_date for
// the date range (both bounds inclusive).
type SearchDealsParams struct {
	TerritoryID   *uint64
	AssignedRepID *uint64
	Stage         *string
	StartDate     *time.Time
	EndDate       *time.Time
	Limit         int
	Offset        int
	OrderBy       string
	Asc           *bool
}

type ListTerritoriesParams struct {
	Region *string
	RepID  *uint64
}

type ListSystemSettingsParams struct {
	Limit   int
	Offset  int
	Prefix  *string
	OrderBy string
	Asc     *bool
}
