package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Appointment struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID uuid.UUID `gorm:"type:uuid;not null;index:idx_appointments_unit_start" json:"unit_id"`

	BarberID *uuid.UUID `gorm:"type:uuid;index" json:"barber_id"`
	Barber   *Barber    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber,omitempty"`

	ServiceID *uuid.UUID `gorm:"type:uuid" json:"service_id"`
	Service   *Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	ClientID *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`

	// Snapshot of the client at booking time, independent of the Client row.
	ClientName      string          `gorm:"size:100;not null" json:"client_name"`
	ClientPhone     *string         `gorm:"size:20;index" json:"client_phone"`
	ClientBirthDate *datatypes.Date `json:"client_birth_date"`

	StartTime time.Time `gorm:"not null;index:idx_appointments_unit_start" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status     string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Notes      *string         `gorm:"type:text" json:"notes"`
	Source     string          `gorm:"size:20" json:"source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// BarberName returns the loaded barber name or fallback.
func (a *Appointment) BarberName(fallback string) string {
	if a.Barber != nil && a.Barber.Name != "" {
		return a.Barber.Name
	}
	return fallback
}

// ServiceName returns the loaded service name or fallback.
func (a *Appointment) ServiceName(fallback string) string {
	if a.Service != nil && a.Service.Name != "" {
		return a.Service.Name
	}
	return fallback
}
