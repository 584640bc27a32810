package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/cancellation"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/metrics"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

var errNotCancellable = httperr.NotFound(
	"appointment_not_cancellable",
	"Agendamento não encontrado ou já cancelado",
)

type CancelInput struct {
	UnitID        uuid.UUID
	AppointmentID uuid.UUID
	Source        string
	NoShow        bool
	Notes         string
}

type CancelOutput struct {
	Appointment  *models.Appointment         `json:"cancelled_appointment"`
	Cancellation *models.CancellationHistory `json:"cancellation"`

	// LateByUnitPolicy applies the unit's own limit; nil when the unit has none.
	LateByUnitPolicy *bool `json:"late_by_unit_policy,omitempty"`
}

type CancelAppointment struct {
	repo     domain.Repository
	recorder *cancellation.Recorder
	audit    *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	recorder *cancellation.Recorder,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		recorder: recorder,
		audit:    audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelInput,
) (*CancelOutput, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.UnitID, in.AppointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errNotCancellable
	}
	if err != nil {
		return nil, httperr.Internal("appointment_lookup_failed", err)
	}

	if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
		return nil, errNotCancellable
	}

	return uc.cancel(ctx, ap, in)
}

// cancel flips an active appointment to cancelled and records history. The
// flip is conditional, so of two concurrent cancels only one records.
func (uc *CancelAppointment) cancel(
	ctx context.Context,
	ap *models.Appointment,
	in CancelInput,
) (*CancelOutput, error) {

	ok, err := uc.repo.TransitionStatus(
		ctx,
		ap.UnitID,
		ap.ID,
		domain.ActiveStatuses,
		domain.StatusCancelled,
	)
	if err != nil {
		return nil, httperr.Internal("appointment_cancel_failed", err)
	}
	if !ok {
		return nil, errNotCancellable
	}
	ap.Status = string(domain.StatusCancelled)

	entry := uc.recorder.Record(ctx, cancellation.Input{
		Appointment: ap,
		BarberName:  ap.BarberName(""),
		ServiceName: ap.ServiceName(""),
		Source:      in.Source,
		NoShow:      in.NoShow,
		Notes:       in.Notes,
	})

	out := &CancelOutput{Appointment: ap, Cancellation: entry}
	if unit, err := uc.repo.GetUnit(ctx, ap.UnitID); err == nil {
		out.LateByUnitPolicy = cancellation.LateByUnitPolicy(
			entry.MinutesBefore,
			unit.CancellationTimeLimitMinutes,
		)
	}

	metrics.Cancellations.WithLabelValues(
		entry.CancellationSource,
		metrics.Bool(entry.IsLateCancellation),
		metrics.Bool(entry.IsNoShow),
	).Inc()

	action := "appointment_cancelled"
	if in.NoShow {
		action = "appointment_no_show"
	}
	uc.audit.Dispatch(audit.Event{
		UnitID:   ap.UnitID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"source":         entry.CancellationSource,
			"minutes_before": entry.MinutesBefore,
		},
	})

	return out, nil
}
