package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
)

func TestUpdateStatusFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	booked := h.book(t, "Bruno", "2025-03-10T14:00", "11988887777")
	ap := booked.Appointment

	got, err := h.status.Execute(ctx, h.unit.ID, ap.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)

	// confirming twice is not a transition
	_, err = h.status.Execute(ctx, h.unit.ID, ap.ID, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = h.status.Execute(ctx, h.unit.ID, ap.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), h.store.stored(ap.ID).Status)

	client := h.store.client(booked.Client.ID)
	assert.Equal(t, 1, client.TotalVisits)
	require.NotNil(t, client.LastVisitAt)

	_, err = h.status.Execute(ctx, h.unit.ID, ap.ID, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestUpdateStatusCancelRecordsHistory(t *testing.T) {
	h := newHarness(t)
	ap := h.book(t, "Bruno", "2025-03-10T14:00", "").Appointment

	got, err := h.status.Execute(context.Background(), h.unit.ID, ap.ID, domain.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	require.Len(t, h.store.history, 1)
	assert.Equal(t, "app", h.store.history[0].CancellationSource)
}

func TestCreateQuickService(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// the barber is booked right now; a walk-in is recorded anyway
	h.book(t, "Bruno", "2025-03-09T09:00", "")

	out, err := h.quickService.Execute(ctx, QuickServiceInput{
		UnitID:      h.unit.ID,
		BarberID:    h.bruno.ID,
		ServiceID:   h.corte.ID,
		ClientName:  "Marcos",
		ClientPhone: "11 97777 1111",
		TotalPrice:  ptr(decimalOf("45.00")),
	})
	require.NoError(t, err)

	ap := out.Appointment
	assert.Equal(t, string(domain.StatusCompleted), ap.Status)
	assert.Equal(t, h.clock.Now(), ap.StartTime)
	assert.Equal(t, 30*time.Minute, ap.EndTime.Sub(ap.StartTime))
	assert.Equal(t, "45", ap.TotalPrice.String())
	assert.True(t, out.ClientCreated)

	client := h.store.client(out.Client.ID)
	assert.Equal(t, 1, client.TotalVisits)
}

func TestCreateQuickServiceDefaultsToServicePrice(t *testing.T) {
	h := newHarness(t)

	out, err := h.quickService.Execute(context.Background(), QuickServiceInput{
		UnitID:     h.unit.ID,
		BarberID:   h.carlos.ID,
		ServiceID:  h.barba.ID,
		ClientName: "Marcos",
	})
	require.NoError(t, err)
	assert.Equal(t, "30", out.Appointment.TotalPrice.String())

	_, err = h.quickService.Execute(context.Background(), QuickServiceInput{
		UnitID:     h.unit.ID,
		BarberID:   h.carlos.ID,
		ServiceID:  h.barba.ID,
		ClientName: "Marcos",
		TotalPrice: ptr(decimalOf("-1")),
	})
	assert.Error(t, err)
}

func TestListAppointments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.book(t, "Carlos", "2025-03-10T16:00", "")
	first := h.book(t, "Bruno", "2025-03-10T09:30", "").Appointment
	cancelled := h.book(t, "Bruno", "2025-03-10T11:00", "").Appointment
	h.book(t, "Bruno", "2025-03-11T10:00", "")

	_, err := h.cancel.Execute(ctx, CancelInput{UnitID: h.unit.ID, AppointmentID: cancelled.ID})
	require.NoError(t, err)

	got, err := h.list.Execute(ctx, ListAppointmentsInput{UnitID: h.unit.ID, StartDate: "2025-03-10"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, "2025-03-10T09:30", got[0].LocalStart)
	assert.Equal(t, "Bruno", got[0].BarberName)
	assert.Equal(t, "Corte", got[0].ServiceName)

	got, err = h.list.Execute(ctx, ListAppointmentsInput{
		UnitID:           h.unit.ID,
		StartDate:        "2025-03-10",
		EndDate:          "2025-03-11",
		BarberID:         &h.bruno.ID,
		IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = h.list.Execute(ctx, ListAppointmentsInput{UnitID: h.unit.ID, StartDate: "2025-03-11", EndDate: "2025-03-10"})
	assert.Error(t, err)
}
