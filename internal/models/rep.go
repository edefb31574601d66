package models

import "gorm.io/datatypes"

// Rep is an assignable owner for deals and territories.
type Rep struct {
	ID                  uint64                      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string                      `gorm:"type:varchar(200);not null" json:"name"`
	AssignedTerritories datatypes.JSONSlice[uint64] `gorm:"type:jsonb" json:"assigned_territories,omitempty"`
}

func (Rep) TableName() string {
	return "reps"
}
