package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/client"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

func (r *ClientGormRepository) FindByPhone(
	ctx context.Context,
	unitID uuid.UUID,
	phone string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("unit_id = ? AND phone = ?", unitID, phone).
		Order("created_at ASC").
		First(&client).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &client, nil
}

func (r *ClientGormRepository) FindByName(
	ctx context.Context,
	unitID uuid.UUID,
	name string,
	birthDate *datatypes.Date,
) (*models.Client, error) {

	q := r.db.WithContext(ctx).
		Where("unit_id = ? AND LOWER(name) = LOWER(?)", unitID, name)

	if birthDate != nil {
		q = q.Where("birth_date = ?", *birthDate)
	}

	var client models.Client
	if err := q.Order("created_at ASC").First(&client).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &client, nil
}

func (r *ClientGormRepository) Create(
	ctx context.Context,
	client *models.Client,
) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// Update writes only the fields the merge rules may change.
func (r *ClientGormRepository) Update(
	ctx context.Context,
	client *models.Client,
) error {
	return r.db.WithContext(ctx).
		Model(client).
		Select("birth_date", "notes", "tags", "updated_at").
		Updates(client).Error
}

func (r *ClientGormRepository) RegisterVisit(
	ctx context.Context,
	clientID uuid.UUID,
	at time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]any{
			"total_visits":  gorm.Expr("total_visits + 1"),
			"last_visit_at": at,
		}).Error
}

// Compile-time check
var _ domain.Repository = (*ClientGormRepository)(nil)
