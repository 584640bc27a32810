package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/cancellation"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/metrics"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	ucClient "github.com/BruksfildServices01/barber-agenda/internal/usecase/client"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

// QuickServiceInput records a walk-in service that already happened.
type QuickServiceInput struct {
	UnitID    uuid.UUID
	BarberID  uuid.UUID
	ServiceID uuid.UUID

	ClientName  string
	ClientPhone string

	// TotalPrice overrides the service price when set.
	TotalPrice *decimal.Decimal
	Notes      string
}

type CreateQuickService struct {
	repo    domain.Repository
	clients *ucClient.Resolver
	visits  *ucClient.VisitCounter
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewCreateQuickService(
	repo domain.Repository,
	clients *ucClient.Resolver,
	visits *ucClient.VisitCounter,
	audit *audit.Dispatcher,
) *CreateQuickService {
	return &CreateQuickService{
		repo:    repo,
		clients: clients,
		visits:  visits,
		audit:   audit,
		now:     time.Now,
	}
}

func (uc *CreateQuickService) WithClock(now func() time.Time) *CreateQuickService {
	uc.now = now
	return uc
}

// Execute stores the service as completed, starting now. No overlap check
// runs: the chair was already used.
func (uc *CreateQuickService) Execute(
	ctx context.Context,
	in QuickServiceInput,
) (*CreateAppointmentOutput, error) {

	if strings.TrimSpace(in.ClientName) == "" {
		return nil, httperr.Validation("client_name_required", "Nome do cliente é obrigatório")
	}
	if in.TotalPrice != nil && in.TotalPrice.IsNegative() {
		return nil, httperr.Validation("invalid_price", "Valor inválido")
	}

	unit, err := getUnit(ctx, uc.repo, in.UnitID)
	if err != nil {
		return nil, err
	}

	barber, err := resolveBarber(ctx, uc.repo, unit.ID, &in.BarberID, "")
	if err != nil {
		return nil, err
	}

	service, err := resolveService(ctx, uc.repo, unit.ID, &in.ServiceID, "")
	if err != nil {
		return nil, err
	}

	client, created, err := uc.clients.Resolve(ctx, ucClient.ResolveInput{
		UnitID: unit.ID,
		Name:   in.ClientName,
		Phone:  in.ClientPhone,
	})
	if err != nil {
		return nil, err
	}

	price := service.Price
	if in.TotalPrice != nil {
		price = *in.TotalPrice
	}

	now := uc.now().UTC()
	ap := &models.Appointment{
		UnitID:      unit.ID,
		BarberID:    &barber.ID,
		ServiceID:   &service.ID,
		ClientName:  strings.TrimSpace(in.ClientName),
		ClientPhone: validators.PhonePtr(in.ClientPhone),
		Status:      string(domain.StatusCompleted),
		TotalPrice:  price,
		Notes:       strPtr(in.Notes),
		Source:      cancellation.SourceApp,
	}
	if client != nil {
		ap.ClientID = &client.ID
	}
	domain.Schedule(ap, now, service)

	if err := uc.repo.RecordAppointment(ctx, ap); err != nil {
		return nil, httperr.Internal("quick_service_create_failed", err)
	}

	ap.Barber = barber
	ap.Service = service

	uc.visits.Register(ctx, ap.ClientID, now)

	metrics.AppointmentsCreated.WithLabelValues(ap.Source, ap.Status).Inc()
	uc.audit.Dispatch(audit.Event{
		UnitID:   unit.ID,
		Action:   "quick_service_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return &CreateAppointmentOutput{
		Appointment:   ap,
		Client:        client,
		ClientCreated: created,
	}, nil
}
