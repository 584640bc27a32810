package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/metrics"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

// RecencyGuard protects a just-created appointment from a cancel that races
// the creator's own request.
const RecencyGuard = 5 * time.Second

type CancelByPhoneInput struct {
	UnitID uuid.UUID
	Phone  string

	// Date restricts the search to that local day; empty means any future
	// appointment.
	Date   string
	Source string
	Notes  string
}

type CancelByPhone struct {
	repo   domain.Repository
	cancel *CancelAppointment
	now    func() time.Time
}

func NewCancelByPhone(
	repo domain.Repository,
	cancel *CancelAppointment,
) *CancelByPhone {
	return &CancelByPhone{repo: repo, cancel: cancel, now: time.Now}
}

func (uc *CancelByPhone) WithClock(now func() time.Time) *CancelByPhone {
	uc.now = now
	return uc
}

func (uc *CancelByPhone) Execute(
	ctx context.Context,
	in CancelByPhoneInput,
) (*CancelOutput, error) {

	phone := validators.NormalizePhone(in.Phone)
	if phone == "" {
		return nil, httperr.Validation("phone_required", "Telefone é obrigatório")
	}

	unit, err := getUnit(ctx, uc.repo, in.UnitID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	lookup := domain.PhoneLookup{UnitID: unit.ID, Phone: phone, From: now}

	date := strings.TrimSpace(in.Date)
	if date != "" {
		start, end, err := timezone.DayBounds(date, timezone.OrDefault(unit.Timezone))
		if err != nil {
			return nil, httperr.Validation("invalid_date", "Data inválida, use o formato AAAA-MM-DD")
		}
		lookup.From = start
		lookup.To = &end
	}

	ap, err := uc.repo.FindNextByPhone(ctx, lookup)
	if errors.Is(err, domain.ErrNotFound) {
		scope := "futuro"
		if date != "" {
			scope = "na data " + timezone.DatePart(date)
		}
		return nil, httperr.NotFound(
			"appointment_not_found",
			fmt.Sprintf("Nenhum agendamento %s encontrado para este telefone", scope),
		)
	}
	if err != nil {
		return nil, httperr.Internal("appointment_lookup_failed", err)
	}

	if now.Sub(ap.CreatedAt) < RecencyGuard {
		metrics.CancellationsTooRecent.Inc()
		return nil, httperr.TooRecent(
			"appointment_too_recent",
			"Agendamento muito recente, aguarde alguns segundos e tente novamente",
		)
	}

	return uc.cancel.cancel(ctx, ap, CancelInput{
		UnitID:        unit.ID,
		AppointmentID: ap.ID,
		Source:        in.Source,
		Notes:         in.Notes,
	})
}
