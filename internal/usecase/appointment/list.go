package appointment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/dto"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

type ListAppointmentsInput struct {
	UnitID uuid.UUID

	// StartDate and EndDate are local dates (YYYY-MM-DD), both inclusive.
	// EndDate defaults to StartDate.
	StartDate        string
	EndDate          string
	BarberID         *uuid.UUID
	IncludeCancelled bool
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]dto.AppointmentListDTO, error) {

	if strings.TrimSpace(in.StartDate) == "" {
		return nil, httperr.Validation("date_required", "Data é obrigatória")
	}
	if strings.TrimSpace(in.EndDate) == "" {
		in.EndDate = in.StartDate
	}

	unit, err := getUnit(ctx, uc.repo, in.UnitID)
	if err != nil {
		return nil, err
	}
	tz := timezone.OrDefault(unit.Timezone)

	from, _, err := timezone.DayBounds(in.StartDate, tz)
	if err != nil {
		return nil, httperr.Validation("invalid_date", "Data inválida, use o formato AAAA-MM-DD")
	}
	_, to, err := timezone.DayBounds(in.EndDate, tz)
	if err != nil {
		return nil, httperr.Validation("invalid_date", "Data inválida, use o formato AAAA-MM-DD")
	}
	if to.Before(from) {
		return nil, httperr.Validation("invalid_range", "Data final anterior à inicial")
	}

	apps, err := uc.repo.ListAppointments(ctx, domain.ListFilter{
		UnitID:           unit.ID,
		From:             from,
		To:               to,
		BarberID:         in.BarberID,
		IncludeCancelled: in.IncludeCancelled,
	})
	if err != nil {
		return nil, httperr.Internal("appointment_list_failed", err)
	}

	out := make([]dto.AppointmentListDTO, 0, len(apps))
	for i := range apps {
		out = append(out, dto.FromAppointment(&apps[i], tz))
	}
	return out, nil
}
