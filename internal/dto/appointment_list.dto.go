package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

type AppointmentListDTO struct {
	ID          uuid.UUID       `json:"id"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	LocalStart  string          `json:"local_start"`
	Status      string          `json:"status"`
	ClientName  string          `json:"client_name"`
	ClientPhone *string         `json:"client_phone"`
	BarberID    *uuid.UUID      `json:"barber_id"`
	BarberName  string          `json:"barber_name"`
	ServiceName string          `json:"service_name"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Notes       *string         `json:"notes"`
}

func FromAppointment(ap *models.Appointment, tz string) AppointmentListDTO {
	return AppointmentListDTO{
		ID:          ap.ID,
		StartTime:   ap.StartTime,
		EndTime:     ap.EndTime,
		LocalStart:  timezone.LocalClock(ap.StartTime, tz).Format("2006-01-02T15:04"),
		Status:      ap.Status,
		ClientName:  ap.ClientName,
		ClientPhone: ap.ClientPhone,
		BarberID:    ap.BarberID,
		BarberName:  ap.BarberName(""),
		ServiceName: ap.ServiceName(""),
		TotalPrice:  ap.TotalPrice,
		Notes:       ap.Notes,
	}
}
