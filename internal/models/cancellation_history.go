package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CancellationHistory is written once per cancelled appointment. It keeps a
// denormalized snapshot so it survives purging of the appointment.
type CancellationHistory struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"unit_id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"appointment_id"`

	ClientName  string  `gorm:"size:100;not null" json:"client_name"`
	ClientPhone *string `gorm:"size:20" json:"client_phone"`
	BarberName  string  `gorm:"size:100" json:"barber_name"`
	ServiceName string  `gorm:"size:100" json:"service_name"`

	ScheduledTime time.Time `gorm:"not null" json:"scheduled_time"`
	CancelledAt   time.Time `gorm:"not null" json:"cancelled_at"`

	MinutesBefore      int  `json:"minutes_before"`
	IsLateCancellation bool `json:"is_late_cancellation"`
	IsNoShow           bool `json:"is_no_show"`

	TotalPrice         decimal.Decimal `gorm:"type:numeric(10,2)" json:"total_price"`
	CancellationSource string          `gorm:"size:20;not null" json:"cancellation_source"`
	Notes              *string         `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}

func (CancellationHistory) TableName() string {
	return "cancellation_history"
}

func (h *CancellationHistory) BeforeCreate(*gorm.DB) error {
	assignID(&h.ID)
	return nil
}
