package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AutomationStatusClaimed = "claimed"
	AutomationStatusSent    = "sent"
	AutomationStatusFailed  = "failed"
)

// AutomationLog is the idempotency ledger for automated messages: at most one
// row per (appointment, automation type).
type AutomationLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID         uuid.UUID `gorm:"type:uuid;index" json:"unit_id"`
	AppointmentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_automation_once" json:"appointment_id"`
	AutomationType string    `gorm:"size:50;not null;uniqueIndex:idx_automation_once" json:"automation_type"`

	ClientPhone  string `gorm:"size:20" json:"client_phone"`
	Status       string `gorm:"size:20;not null" json:"status"`
	ErrorMessage string `gorm:"type:text" json:"error_message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *AutomationLog) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}
