package client

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

var ErrNotFound = errors.New("client: record not found")

type Repository interface {
	FindByPhone(
		ctx context.Context,
		unitID uuid.UUID,
		phone string,
	) (*models.Client, error)

	// FindByName matches name case-insensitively and, when birthDate is set,
	// the exact birth date. The oldest client wins.
	FindByName(
		ctx context.Context,
		unitID uuid.UUID,
		name string,
		birthDate *datatypes.Date,
	) (*models.Client, error)

	Create(
		ctx context.Context,
		c *models.Client,
	) error

	Update(
		ctx context.Context,
		c *models.Client,
	) error

	RegisterVisit(
		ctx context.Context,
		clientID uuid.UUID,
		at time.Time,
	) error
}
