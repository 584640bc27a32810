package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/cancellation"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/metrics"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
	ucClient "github.com/BruksfildServices01/barber-agenda/internal/usecase/client"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateAppointmentInput struct {
	UnitID uuid.UUID

	ClientName      string
	ClientPhone     string
	ClientBirthDate *datatypes.Date
	ClientTags      []string

	// Barber and service are resolved by id when given, else by name.
	Professional string
	BarberID     *uuid.UUID
	Service      string
	ServiceID    *uuid.UUID

	// Datetime is a local wall-clock time in the unit's timezone.
	Datetime string
	Notes    string
	Source   string
}

type CreateAppointmentOutput struct {
	Appointment   *models.Appointment `json:"appointment"`
	Client        *models.Client      `json:"client"`
	ClientCreated bool                `json:"client_created"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	clients *ucClient.Resolver
	audit   *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	clients *ucClient.Resolver,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		clients: clients,
		audit:   audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*CreateAppointmentOutput, error) {

	// --------------------------------------------------
	// 1️⃣ Campos obrigatórios
	// --------------------------------------------------
	if strings.TrimSpace(in.ClientName) == "" ||
		strings.TrimSpace(in.Datetime) == "" ||
		(in.BarberID == nil && strings.TrimSpace(in.Professional) == "") ||
		(in.ServiceID == nil && strings.TrimSpace(in.Service) == "") {
		return nil, httperr.Validation(
			"missing_fields",
			"Campos obrigatórios: client_name, datetime, professional, service",
		)
	}

	unit, err := getUnit(ctx, uc.repo, in.UnitID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Cliente
	// --------------------------------------------------
	client, created, err := uc.clients.Resolve(ctx, ucClient.ResolveInput{
		UnitID:    unit.ID,
		Name:      in.ClientName,
		Phone:     in.ClientPhone,
		BirthDate: in.ClientBirthDate,
		Notes:     in.Notes,
		Tags:      in.ClientTags,
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Barbeiro / Serviço
	// --------------------------------------------------
	barber, err := resolveBarber(ctx, uc.repo, unit.ID, in.BarberID, in.Professional)
	if err != nil {
		return nil, err
	}

	service, err := resolveService(ctx, uc.repo, unit.ID, in.ServiceID, in.Service)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Horário no fuso da unidade
	// --------------------------------------------------
	start, err := timezone.ToUTC(in.Datetime, timezone.OrDefault(unit.Timezone))
	if err != nil {
		return nil, httperr.Validation("invalid_datetime", "Data/hora inválida, use AAAA-MM-DDTHH:MM")
	}

	source := in.Source
	if source == "" {
		source = cancellation.SourceApp
	}

	ap := &models.Appointment{
		UnitID:          unit.ID,
		BarberID:        &barber.ID,
		ServiceID:       &service.ID,
		ClientName:      strings.TrimSpace(in.ClientName),
		ClientPhone:     validators.PhonePtr(in.ClientPhone),
		ClientBirthDate: in.ClientBirthDate,
		Status:          string(domain.InitialStatus()),
		TotalPrice:      service.Price,
		Notes:           strPtr(in.Notes),
		Source:          source,
	}
	if client != nil {
		ap.ClientID = &client.ID
	}
	domain.Schedule(ap, start, service)

	// --------------------------------------------------
	// 5️⃣ Conflito + criação (atômico no repositório)
	// --------------------------------------------------
	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if errors.Is(err, domain.ErrTimeConflict) {
			metrics.BookingConflicts.WithLabelValues("create").Inc()
			uc.audit.Dispatch(audit.Event{
				UnitID: unit.ID,
				Action: "appointment_conflict",
				Entity: "appointment",
				Metadata: map[string]any{
					"barber_id": barber.ID,
					"start":     ap.StartTime,
					"end":       ap.EndTime,
				},
			})
			return nil, conflictFor(barber.Name)
		}
		return nil, httperr.Internal("appointment_create_failed", err)
	}

	ap.Barber = barber
	ap.Service = service

	// --------------------------------------------------
	// 6️⃣ Auditoria
	// --------------------------------------------------
	metrics.AppointmentsCreated.WithLabelValues(source, ap.Status).Inc()
	uc.audit.Dispatch(audit.Event{
		UnitID:   unit.ID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"source": source},
	})

	return &CreateAppointmentOutput{
		Appointment:   ap,
		Client:        client,
		ClientCreated: created,
	}, nil
}
