package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"salespipeline/internal/models"
	"salespipeline/internal/repository"
)

const (
	FeatureStalledDigest   = "feature.stalled_digest"
	FeatureForecastWinRate = "feature.forecast_win_rate"
	FeatureSeed            = "feature.seed"
)

func DefaultFeatureSwitches() map[string]bool {
	return map[string]bool{
		FeatureStalledDigest:   true,
		FeatureForecastWinRate: true,
		FeatureSeed:            true,
	}
}

type SystemSettingsService struct {
	Repo repository.SystemSettingRepository
}

// EnsureDefaultSwitches creates missing switches with their default value.
// Existing switches keep whatever an operator set.
func (s *SystemSettingsService) EnsureDefaultSwitches(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	now := time.Now().UTC()
	for key, enabled := range DefaultFeatureSwitches() {
		existing, err := s.Repo.GetSystemSettingByKey(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		raw, _ := json.Marshal(enabled)
		item := &models.SystemSetting{
			Key:         key,
			Value:       datatypes.JSON(raw),
			Description: "feature switch",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Repo.UpsertSystemSetting(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *SystemSettingsService) IsEnabled(ctx context.Context, key string, fallback bool) bool {
	if s == nil || s.Repo == nil {
		return fallback
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	item, err := s.Repo.GetSystemSettingByKey(ctx, key)
	if err != nil || item == nil || len(item.Value) == 0 {
		return fallback
	}
	var enabled bool
	if err := json.Unmarshal(item.Value, &enabled); err != nil {
		return fallback
	}
	return enabled
}

func (s *SystemSettingsService) SetEnabled(ctx context.Context, key string, enabled bool) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	raw, _ := json.Marshal(enabled)
	item := &models.SystemSetting{
		Key:         key,
		Value:       datatypes.JSON(raw),
		Description: "feature switch",
		UpdatedAt:   time.Now().UTC(),
	}
	return s.Repo.UpsertSystemSetting(ctx, item)
}

type Switch struct {
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Enabled     bool      `json:"enabled"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *SystemSettingsService) ListSwitches(ctx context.Context) ([]Switch, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	prefix := "feature."
	asc := true
	items, err := s.Repo.ListSystemSettings(ctx, repository.ListSystemSettingsParams{
		Limit:   500,
		Prefix:  &prefix,
		OrderBy: "key",
		Asc:     &asc,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Switch, 0, len(items))
	for _, it := range items {
		enabled := false
		_ = json.Unmarshal(it.Value, &enabled)
		out = append(out, Switch{
			Name:        strings.TrimPrefix(it.Key, prefix),
			Key:         it.Key,
			Enabled:     enabled,
			Description: it.Description,
			UpdatedAt:   it.UpdatedAt,
		})
	}
	return out, nil
}
