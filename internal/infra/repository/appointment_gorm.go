package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// --------------------------------------------------
// Unit
// --------------------------------------------------

func (r *AppointmentGormRepository) GetUnit(
	ctx context.Context,
	unitID uuid.UUID,
) (*models.Unit, error) {

	var unit models.Unit
	if err := r.db.WithContext(ctx).
		Where("id = ?", unitID).
		First(&unit).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &unit, nil
}

// --------------------------------------------------
// Barber / Service
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveBarbers(
	ctx context.Context,
	unitID uuid.UUID,
) ([]models.Barber, error) {

	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND is_active = ?", unitID, true).
		Order("created_at ASC").
		Order("name ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	unitID uuid.UUID,
	barberID uuid.UUID,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ? AND unit_id = ?", barberID, unitID).
		First(&barber).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) ListActiveServices(
	ctx context.Context,
	unitID uuid.UUID,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND is_active = ?", unitID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	unitID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND unit_id = ?", serviceID, unitID).
		First(&service).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &service, nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	unitID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where("id = ? AND unit_id = ?", appointmentID, unitID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	unitID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"unit_id = ? AND status <> ? AND start_time >= ? AND start_time <= ?",
			unitID, string(domain.StatusCancelled), start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where(
			"unit_id = ? AND start_time >= ? AND start_time <= ?",
			filter.UnitID, filter.From, filter.To,
		)

	if filter.BarberID != nil {
		q = q.Where("barber_id = ?", *filter.BarberID)
	}
	if !filter.IncludeCancelled {
		q = q.Where("status <> ?", string(domain.StatusCancelled))
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) FindNextByPhone(
	ctx context.Context,
	lookup domain.PhoneLookup,
) (*models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where(
			"unit_id = ? AND client_phone = ? AND status IN ? AND start_time >= ?",
			lookup.UnitID, lookup.Phone, domain.ActiveStatusValues(), lookup.From,
		)

	if lookup.To != nil {
		q = q.Where("start_time <= ?", *lookup.To)
	}

	// Oldest-created wins ties so a concurrent fresh booking is not the target.
	var ap models.Appointment
	if err := q.
		Order("start_time ASC").
		Order("created_at ASC").
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &ap, nil
}

// ListForReminder returns active appointments with a phone starting in
// [from, to].
func (r *AppointmentGormRepository) ListForReminder(
	ctx context.Context,
	unitID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Where(
			"unit_id = ? AND status IN ? AND client_phone IS NOT NULL AND start_time >= ? AND start_time <= ?",
			unitID, domain.ActiveStatusValues(), from, to,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func hasTimeConflict(
	tx *gorm.DB,
	ap *models.Appointment,
	excludeSelf bool,
) (bool, error) {

	if ap.BarberID == nil {
		return false, nil
	}

	q := tx.Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where(
			"unit_id = ? AND barber_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			ap.UnitID, *ap.BarberID, string(domain.StatusCancelled), ap.EndTime, ap.StartTime,
		)

	if excludeSelf {
		q = q.Where("id <> ?", ap.ID)
	}

	var hits []models.Appointment
	if err := q.Limit(1).Find(&hits).Error; err != nil {
		return false, err
	}
	return len(hits) > 0, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := hasTimeConflict(tx, ap, false)
		if err != nil {
			return err
		}
		if conflict {
			return domain.ErrTimeConflict
		}
		return tx.Omit(clause.Associations).Create(ap).Error
	})

	if httperr.IsExclusionConflict(err) {
		return domain.ErrTimeConflict
	}
	return err
}

func (r *AppointmentGormRepository) RecordAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	checkConflict bool,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if checkConflict {
			conflict, err := hasTimeConflict(tx, ap, true)
			if err != nil {
				return err
			}
			if conflict {
				return domain.ErrTimeConflict
			}
		}
		return tx.Omit(clause.Associations).Save(ap).Error
	})

	if httperr.IsExclusionConflict(err) {
		return domain.ErrTimeConflict
	}
	return err
}

func (r *AppointmentGormRepository) TransitionStatus(
	ctx context.Context,
	unitID uuid.UUID,
	appointmentID uuid.UUID,
	from []domain.Status,
	next domain.Status,
) (bool, error) {

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND unit_id = ? AND status IN ?", appointmentID, unitID, allowed).
		Update("status", string(next))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
