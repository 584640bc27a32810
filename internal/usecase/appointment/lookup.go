package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

var errAppointmentNotFound = httperr.NotFound("appointment_not_found", "Agendamento não encontrado")

func barberNotFound(name string) error {
	return httperr.NotFound("barber_not_found", fmt.Sprintf("Barbeiro %q não encontrado", strings.TrimSpace(name)))
}

func serviceNotFound(name string) error {
	return httperr.NotFound("service_not_found", fmt.Sprintf("Serviço %q não encontrado", strings.TrimSpace(name)))
}

func conflictFor(barber string) error {
	return httperr.Conflict(
		"time_conflict",
		fmt.Sprintf("Horário não disponível. %s já tem agendamento neste horário.", barber),
	)
}

func getUnit(ctx context.Context, repo domain.Repository, unitID uuid.UUID) (*models.Unit, error) {
	unit, err := repo.GetUnit(ctx, unitID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFound("unit_not_found", "Unidade não encontrada")
	}
	if err != nil {
		return nil, httperr.Internal("unit_lookup_failed", err)
	}
	return unit, nil
}

// resolveBarber picks the barber by id or by the first active name match.
func resolveBarber(
	ctx context.Context,
	repo domain.Repository,
	unitID uuid.UUID,
	id *uuid.UUID,
	name string,
) (*models.Barber, error) {

	if id != nil {
		b, err := repo.GetBarber(ctx, unitID, *id)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && !b.IsActive) {
			return nil, httperr.NotFound("barber_not_found", "Barbeiro não encontrado")
		}
		if err != nil {
			return nil, httperr.Internal("barber_lookup_failed", err)
		}
		return b, nil
	}

	barbers, err := repo.ListActiveBarbers(ctx, unitID)
	if err != nil {
		return nil, httperr.Internal("barber_lookup_failed", err)
	}

	b := domain.FirstBarber(barbers, name)
	if b == nil {
		return nil, barberNotFound(name)
	}
	return b, nil
}

// resolveService picks the service by id or by the first active name match.
func resolveService(
	ctx context.Context,
	repo domain.Repository,
	unitID uuid.UUID,
	id *uuid.UUID,
	name string,
) (*models.Service, error) {

	if id != nil {
		s, err := repo.GetService(ctx, unitID, *id)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && !s.IsActive) {
			return nil, httperr.NotFound("service_not_found", "Serviço não encontrado")
		}
		if err != nil {
			return nil, httperr.Internal("service_lookup_failed", err)
		}
		return s, nil
	}

	services, err := repo.ListActiveServices(ctx, unitID)
	if err != nil {
		return nil, httperr.Internal("service_lookup_failed", err)
	}

	s := domain.FirstService(services, name)
	if s == nil {
		return nil, serviceNotFound(name)
	}
	return s, nil
}

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
