package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Barber struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID uuid.UUID `gorm:"type:uuid;index;not null" json:"unit_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	IsActive bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}
