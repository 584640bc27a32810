package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// AgendaAppointmentDTO is the appointment shape returned to the messaging
// channel after a booking.
type AgendaAppointmentDTO struct {
	ID         uuid.UUID       `json:"id"`
	ClientName string          `json:"client_name"`
	Barber     string          `json:"barber"`
	Service    string          `json:"service"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    time.Time       `json:"end_time"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
}

func FromBooked(ap *models.Appointment) AgendaAppointmentDTO {
	return AgendaAppointmentDTO{
		ID:         ap.ID,
		ClientName: ap.ClientName,
		Barber:     ap.BarberName(""),
		Service:    ap.ServiceName(""),
		StartTime:  ap.StartTime,
		EndTime:    ap.EndTime,
		TotalPrice: ap.TotalPrice,
		Status:     ap.Status,
	}
}

type ClientDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Phone       *string    `json:"phone"`
	BirthDate   *string    `json:"birth_date"`
	Notes       *string    `json:"notes"`
	Tags        []string   `json:"tags"`
	TotalVisits int        `json:"total_visits"`
	LastVisitAt *time.Time `json:"last_visit_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromClient(c *models.Client) *ClientDTO {
	if c == nil {
		return nil
	}

	out := &ClientDTO{
		ID:          c.ID,
		Name:        c.Name,
		Phone:       c.Phone,
		Notes:       c.Notes,
		Tags:        []string(c.Tags),
		TotalVisits: c.TotalVisits,
		LastVisitAt: c.LastVisitAt,
		CreatedAt:   c.CreatedAt,
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if c.BirthDate != nil {
		s := time.Time(*c.BirthDate).Format("2006-01-02")
		out.BirthDate = &s
	}
	return out
}
