package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CheckAvailabilityInput struct {
	UnitID       uuid.UUID
	Date         string
	Professional string

	// Service, when set, makes every returned slot long enough for it.
	Service string
}

type CheckAvailabilityOutput struct {
	Date           string           `json:"date"`
	AvailableSlots []domain.Slot    `json:"available_slots"`
	Services       []models.Service `json:"services"`
	Message        string           `json:"message,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CheckAvailability struct {
	repo domain.Repository
	grid domain.GridMode
}

func NewCheckAvailability(
	repo domain.Repository,
	grid domain.GridMode,
) *CheckAvailability {
	return &CheckAvailability{repo: repo, grid: grid}
}

func (uc *CheckAvailability) Execute(
	ctx context.Context,
	in CheckAvailabilityInput,
) (*CheckAvailabilityOutput, error) {

	// --------------------------------------------------
	// 1️⃣ Data
	// --------------------------------------------------
	if strings.TrimSpace(in.Date) == "" {
		return nil, httperr.Validation("date_required", "Data é obrigatória")
	}

	unit, err := getUnit(ctx, uc.repo, in.UnitID)
	if err != nil {
		return nil, err
	}
	tz := timezone.OrDefault(unit.Timezone)

	dayStart, dayEnd, err := timezone.DayBounds(in.Date, tz)
	if err != nil {
		return nil, httperr.Validation("invalid_date", "Data inválida, use o formato AAAA-MM-DD")
	}

	out := &CheckAvailabilityOutput{
		Date:           timezone.DatePart(in.Date),
		AvailableSlots: []domain.Slot{},
		Services:       []models.Service{},
	}

	// --------------------------------------------------
	// 2️⃣ Barbeiros ativos (filtro opcional)
	// --------------------------------------------------
	barbers, err := uc.repo.ListActiveBarbers(ctx, unit.ID)
	if err != nil {
		return nil, httperr.Internal("barber_lookup_failed", err)
	}

	barbers = domain.FilterBarbers(barbers, in.Professional)
	if len(barbers) == 0 {
		if strings.TrimSpace(in.Professional) != "" {
			out.Message = fmt.Sprintf("Nenhum barbeiro encontrado com o nome %q", strings.TrimSpace(in.Professional))
		} else {
			out.Message = "Nenhum barbeiro ativo encontrado"
		}
		return out, nil
	}

	// --------------------------------------------------
	// 3️⃣ Serviços ativos
	// --------------------------------------------------
	services, err := uc.repo.ListActiveServices(ctx, unit.ID)
	if err != nil {
		return nil, httperr.Internal("service_lookup_failed", err)
	}
	out.Services = services

	var length time.Duration
	if strings.TrimSpace(in.Service) != "" {
		svc := domain.FirstService(services, in.Service)
		if svc == nil {
			return nil, serviceNotFound(in.Service)
		}
		length = svc.Duration()
	}

	// --------------------------------------------------
	// 4️⃣ Agendamentos do dia + grade
	// --------------------------------------------------
	appointments, err := uc.repo.ListAppointmentsForDay(ctx, unit.ID, dayStart, dayEnd)
	if err != nil {
		return nil, httperr.Internal("appointment_lookup_failed", err)
	}

	slots, err := domain.ComputeSlots(
		in.Date,
		tz,
		domain.GridFor(uc.grid, unit),
		barbers,
		appointments,
		length,
	)
	if err != nil {
		return nil, httperr.Internal("slot_generation_failed", err)
	}

	out.AvailableSlots = slots
	return out, nil
}
