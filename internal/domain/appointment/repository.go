package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

var (
	ErrNotFound     = errors.New("appointment: record not found")
	ErrTimeConflict = errors.New("appointment: time conflict")
)

type ListFilter struct {
	UnitID           uuid.UUID
	From             time.Time
	To               time.Time
	BarberID         *uuid.UUID
	IncludeCancelled bool
}

// PhoneLookup selects active appointments of a phone starting in [From, To].
// A nil To means open ended.
type PhoneLookup struct {
	UnitID uuid.UUID
	Phone  string
	From   time.Time
	To     *time.Time
}

type Repository interface {
	// -------- Unit --------
	GetUnit(
		ctx context.Context,
		unitID uuid.UUID,
	) (*models.Unit, error)

	// -------- Barber / Service --------
	ListActiveBarbers(
		ctx context.Context,
		unitID uuid.UUID,
	) ([]models.Barber, error)

	GetBarber(
		ctx context.Context,
		unitID uuid.UUID,
		barberID uuid.UUID,
	) (*models.Barber, error)

	ListActiveServices(
		ctx context.Context,
		unitID uuid.UUID,
	) ([]models.Service, error)

	GetService(
		ctx context.Context,
		unitID uuid.UUID,
		serviceID uuid.UUID,
	) (*models.Service, error)

	// -------- Appointment (read) --------
	GetAppointment(
		ctx context.Context,
		unitID uuid.UUID,
		appointmentID uuid.UUID,
	) (*models.Appointment, error)

	ListAppointmentsForDay(
		ctx context.Context,
		unitID uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	FindNextByPhone(
		ctx context.Context,
		lookup PhoneLookup,
	) (*models.Appointment, error)

	// -------- Appointment (write) --------

	// CreateAppointment runs the overlap check and the insert atomically and
	// returns ErrTimeConflict when the barber is busy.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// RecordAppointment inserts without an overlap check.
	RecordAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// UpdateAppointment saves ap. With checkConflict it first runs the
	// overlap check excluding ap itself.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		checkConflict bool,
	) error

	// TransitionStatus moves the appointment to next only if its current
	// status is one of from. It reports whether a row changed.
	TransitionStatus(
		ctx context.Context,
		unitID uuid.UUID,
		appointmentID uuid.UUID,
		from []Status,
		next Status,
	) (bool, error)
}
