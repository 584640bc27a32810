package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UnitID uuid.UUID `gorm:"type:uuid;index" json:"unit_id"`
	Actor  *string   `gorm:"size:100" json:"actor"`
	Action string    `gorm:"size:50;not null" json:"action"`

	Entity   string     `gorm:"size:50" json:"entity"`
	EntityID *uuid.UUID `gorm:"type:uuid" json:"entity_id"`
	Metadata string     `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}

func (l *AuditLog) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}
