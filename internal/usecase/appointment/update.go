package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/metrics"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

// UpdateAppointmentInput is a partial update; nil fields are left alone.
type UpdateAppointmentInput struct {
	UnitID        uuid.UUID
	AppointmentID uuid.UUID

	ClientName      *string
	ClientPhone     *string
	ClientBirthDate *datatypes.Date
	Notes           *string

	BarberID  *uuid.UUID
	ServiceID *uuid.UUID

	// Start is a local wall-clock time in the unit's timezone.
	Start *string
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{repo: repo, audit: audit}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.UnitID, in.AppointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errAppointmentNotFound
	}
	if err != nil {
		return nil, httperr.Internal("appointment_lookup_failed", err)
	}

	// --------------------------------------------------
	// 1️⃣ Dados do cliente (snapshot)
	// --------------------------------------------------
	if in.ClientName != nil {
		name := strings.TrimSpace(*in.ClientName)
		if name == "" {
			return nil, httperr.Validation("client_name_required", "Nome do cliente é obrigatório")
		}
		ap.ClientName = name
	}
	if in.ClientPhone != nil {
		ap.ClientPhone = validators.PhonePtr(*in.ClientPhone)
	}
	if in.ClientBirthDate != nil {
		ap.ClientBirthDate = in.ClientBirthDate
	}
	if in.Notes != nil {
		ap.Notes = strPtr(*in.Notes)
	}

	moved := false

	// --------------------------------------------------
	// 2️⃣ Barbeiro
	// --------------------------------------------------
	if in.BarberID != nil && (ap.BarberID == nil || *ap.BarberID != *in.BarberID) {
		barber, err := resolveBarber(ctx, uc.repo, in.UnitID, in.BarberID, "")
		if err != nil {
			return nil, err
		}
		ap.BarberID = &barber.ID
		ap.Barber = barber
		moved = true
	}

	// --------------------------------------------------
	// 3️⃣ Serviço / horário
	// --------------------------------------------------
	var start *string
	if in.Start != nil && strings.TrimSpace(*in.Start) != "" {
		start = in.Start
	}

	switch {
	case in.ServiceID != nil:
		service, err := resolveService(ctx, uc.repo, in.UnitID, in.ServiceID, "")
		if err != nil {
			return nil, err
		}
		ap.ServiceID = &service.ID
		ap.Service = service
		ap.TotalPrice = service.Price

		// end only follows the new duration when a start comes with it
		if start != nil {
			if err := uc.reschedule(ctx, ap, *start, service); err != nil {
				return nil, err
			}
			moved = true
		}

	case start != nil:
		if ap.ServiceID == nil {
			return nil, httperr.NotFound("service_not_found", "Serviço do agendamento não encontrado")
		}
		service, err := uc.repo.GetService(ctx, in.UnitID, *ap.ServiceID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFound("service_not_found", "Serviço do agendamento não encontrado")
		}
		if err != nil {
			return nil, httperr.Internal("service_lookup_failed", err)
		}
		if err := uc.reschedule(ctx, ap, *start, service); err != nil {
			return nil, err
		}
		moved = true
	}

	// --------------------------------------------------
	// 4️⃣ Persistência com checagem de conflito
	// --------------------------------------------------
	check := moved && domain.Status(ap.Status) != domain.StatusCancelled

	if err := uc.repo.UpdateAppointment(ctx, ap, check); err != nil {
		if errors.Is(err, domain.ErrTimeConflict) {
			metrics.BookingConflicts.WithLabelValues("update").Inc()
			return nil, conflictFor(ap.BarberName("O barbeiro"))
		}
		return nil, httperr.Internal("appointment_update_failed", err)
	}

	uc.audit.Dispatch(audit.Event{
		UnitID:   ap.UnitID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"rescheduled": moved},
	})

	return ap, nil
}

func (uc *UpdateAppointment) reschedule(
	ctx context.Context,
	ap *models.Appointment,
	local string,
	service *models.Service,
) error {

	unit, err := getUnit(ctx, uc.repo, ap.UnitID)
	if err != nil {
		return err
	}

	start, err := timezone.ToUTC(local, timezone.OrDefault(unit.Timezone))
	if err != nil {
		return httperr.Validation("invalid_datetime", "Data/hora inválida, use AAAA-MM-DDTHH:MM")
	}

	domain.Schedule(ap, start, service)
	return nil
}
