package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-agenda/internal/cancellation"
)

// MarkNoShow cancels an appointment the client did not attend and flags the
// history entry as a no-show.
type MarkNoShow struct {
	cancel *CancelAppointment
}

func NewMarkNoShow(cancel *CancelAppointment) *MarkNoShow {
	return &MarkNoShow{cancel: cancel}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	unitID uuid.UUID,
	appointmentID uuid.UUID,
) (*CancelOutput, error) {
	return uc.cancel.Execute(ctx, CancelInput{
		UnitID:        unitID,
		AppointmentID: appointmentID,
		Source:        cancellation.SourceApp,
		NoShow:        true,
	})
}
