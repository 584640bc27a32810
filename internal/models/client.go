package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Client is identified by (unit, phone) when a phone is known and by
// (unit, name, birth_date) otherwise. Clients are never hard-deleted.
type Client struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID uuid.UUID `gorm:"type:uuid;not null;index:idx_clients_unit_phone" json:"unit_id"`

	Name      string          `gorm:"size:100;not null" json:"name"`
	Phone     *string         `gorm:"size:20;index:idx_clients_unit_phone" json:"phone"`
	BirthDate *datatypes.Date `json:"birth_date"`
	Notes     *string         `gorm:"type:text" json:"notes"`

	Tags datatypes.JSONSlice[string] `json:"tags"`

	TotalVisits int        `gorm:"not null;default:0" json:"total_visits"`
	LastVisitAt *time.Time `json:"last_visit_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}
