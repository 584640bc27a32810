package ledger

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// GormLedger stores claims in automation_logs. The unique index on
// (appointment_id, automation_type) does the deduplication.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

func (l *GormLedger) Claim(ctx context.Context, e Entry) (bool, error) {
	row := models.AutomationLog{
		UnitID:         e.UnitID,
		AppointmentID:  e.AppointmentID,
		AutomationType: e.AutomationType,
		ClientPhone:    e.ClientPhone,
		Status:         models.AutomationStatusClaimed,
	}

	err := l.db.WithContext(ctx).Create(&row).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrDuplicatedKey), httperr.IsUniqueViolation(err):
		return false, nil
	default:
		return false, err
	}
}

func (l *GormLedger) MarkSent(ctx context.Context, e Entry) error {
	return l.mark(ctx, e, models.AutomationStatusSent, "")
}

func (l *GormLedger) MarkFailed(ctx context.Context, e Entry, reason string) error {
	return l.mark(ctx, e, models.AutomationStatusFailed, reason)
}

func (l *GormLedger) mark(ctx context.Context, e Entry, status, reason string) error {
	return l.db.WithContext(ctx).
		Model(&models.AutomationLog{}).
		Where("appointment_id = ? AND automation_type = ?", e.AppointmentID, e.AutomationType).
		Updates(map[string]any{
			"status":        status,
			"error_message": reason,
		}).Error
}

// Compile-time check
var _ Ledger = (*GormLedger)(nil)
