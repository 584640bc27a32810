package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unit is a physical barbershop location. Every other entity is scoped to one.
type Unit struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null" json:"name"`

	Timezone    string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
	OpeningTime string `gorm:"size:5" json:"opening_time"`
	ClosingTime string `gorm:"size:5" json:"closing_time"`

	EvolutionInstanceName *string `gorm:"size:100;uniqueIndex" json:"evolution_instance_name"`

	CancellationTimeLimitMinutes *int `json:"cancellation_time_limit_minutes"`

	AppointmentReminderEnabled  bool   `json:"appointment_reminder_enabled"`
	AppointmentReminderMinutes  int    `gorm:"default:30" json:"appointment_reminder_minutes"`
	AppointmentReminderTemplate string `gorm:"type:text" json:"appointment_reminder_template"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *Unit) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}
