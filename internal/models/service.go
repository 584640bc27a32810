package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID uuid.UUID `gorm:"type:uuid;index;not null" json:"unit_id"`

	Name            string          `gorm:"size:100;not null" json:"name"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	IsActive        bool            `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
