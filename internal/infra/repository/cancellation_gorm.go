package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/cancellation"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type CancellationGormRepository struct {
	db *gorm.DB
}

func NewCancellationGormRepository(db *gorm.DB) *CancellationGormRepository {
	return &CancellationGormRepository{db: db}
}

func (r *CancellationGormRepository) CreateCancellation(
	ctx context.Context,
	entry *models.CancellationHistory,
) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Compile-time check
var _ cancellation.Store = (*CancellationGormRepository)(nil)
