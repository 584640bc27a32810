package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/cancellation"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	ucClient "github.com/BruksfildServices01/barber-agenda/internal/usecase/client"
)

// UpdateStatus applies a staff status change. Cancellation goes through
// CancelAppointment so it is recorded in the history.
type UpdateStatus struct {
	repo   domain.Repository
	cancel *CancelAppointment
	visits *ucClient.VisitCounter
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewUpdateStatus(
	repo domain.Repository,
	cancel *CancelAppointment,
	visits *ucClient.VisitCounter,
	audit *audit.Dispatcher,
) *UpdateStatus {
	return &UpdateStatus{
		repo:   repo,
		cancel: cancel,
		visits: visits,
		audit:  audit,
		now:    time.Now,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	unitID uuid.UUID,
	appointmentID uuid.UUID,
	next domain.Status,
) (*models.Appointment, error) {

	if next == domain.StatusCancelled {
		out, err := uc.cancel.Execute(ctx, CancelInput{
			UnitID:        unitID,
			AppointmentID: appointmentID,
			Source:        cancellation.SourceApp,
		})
		if err != nil {
			return nil, err
		}
		return out.Appointment, nil
	}

	ap, err := uc.repo.GetAppointment(ctx, unitID, appointmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errAppointmentNotFound
	}
	if err != nil {
		return nil, httperr.Internal("appointment_lookup_failed", err)
	}

	current := domain.Status(ap.Status)
	switch next {
	case domain.StatusConfirmed:
		err = domain.Confirm(ap)
	case domain.StatusCompleted:
		err = domain.Complete(ap)
	default:
		err = domain.CanTransition(current, next)
	}
	if err != nil {
		return nil, err
	}

	ok, err := uc.repo.TransitionStatus(ctx, unitID, appointmentID, []domain.Status{current}, next)
	if err != nil {
		return nil, httperr.Internal("appointment_status_failed", err)
	}
	if !ok {
		// changed by someone else between read and write
		return nil, domain.ErrInvalidState
	}

	if next == domain.StatusCompleted {
		uc.visits.Register(ctx, ap.ClientID, uc.now().UTC())
	}

	uc.audit.Dispatch(audit.Event{
		UnitID:   unitID,
		Action:   "appointment_" + string(next),
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"from": current},
	})

	return ap, nil
}
