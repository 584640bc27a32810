package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

func Complete(ap *models.Appointment) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	return nil
}

// Schedule sets the interval so that end = start + service duration.
func Schedule(ap *models.Appointment, start time.Time, service *models.Service) {
	ap.StartTime = start.UTC()
	ap.EndTime = ap.StartTime.Add(service.Duration())
}

// Overlaps is the half-open interval overlap test used for conflict checks.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
