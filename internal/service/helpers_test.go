package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"salespipeline/internal/models"
	"salespipeline/internal/repository/memory"
)

var testNow = time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func daysAgo(n int) time.Time { return testNow.AddDate(0, 0, -n) }

func testDeal(dealID, owner, mode, stage string, value int64, prob int, updated, expected time.Time) models.Deal {
	created := updated.AddDate(0, 0, -10)
	p := prob
	return models.Deal{
		DealID:             dealID,
		CompanyName:        "Company " + dealID,
		ContactName:        "Contact " + dealID,
		SalesRep:           owner,
		TransportationMode: mode,
		OriginCity:         "Austin, TX",
		DestinationCity:    "Dallas, TX",
		Stage:              stage,
		Value:              decimal.NewNullDecimal(decimal.NewFromInt(value)),
		Probability:        &p,
		CreatedDate:        &created,
		UpdatedDate:        &updated,
		ExpectedCloseDate:  &expected,
	}
}

func seededStore(deals ...models.Deal) *memory.Store {
	store := memory.New()
	_ = store.InsertDeals(context.Background(), deals)
	return store
}

// brokenStore fails every deal listing.
type brokenStore struct {
	*memory.Store
}

func (brokenStore) ListDeals(context.Context) ([]models.Deal, error) {
	return nil, errors.New("connection refused")
}

func ptr[T any](v T) *T { return &v }
