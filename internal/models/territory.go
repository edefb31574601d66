package models

import "gorm.io/datatypes"

type Territory struct {
	ID           uint64                      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string                      `gorm:"type:varchar(200);not null" json:"name"`
	Region       string                      `gorm:"type:varchar(100);not null;index" json:"region"`
	AssignedReps datatypes.JSONSlice[uint64] `gorm:"type:jsonb" json:"assigned_reps,omitempty"`

	// PerformanceMetrics is recomputed from deals on every read; the stored
	// copy is only the last snapshot written by a create/update.
	PerformanceMetrics datatypes.JSONType[PerformanceMetrics] `gorm:"type:jsonb" json:"performance_metrics"`
}

func (Territory) TableName() string {
	return "territories"
}

type PerformanceMetrics struct {
	TotalDeals int     `json:"total_deals"`
	WonDeals   int     `json:"won_deals"`
	LostDeals  int     `json:"lost_deals"`
	Revenue    float64 `json:"revenue"`
}
