package client

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/client"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

type CheckClientResult struct {
	Found  bool           `json:"found"`
	Client *models.Client `json:"client"`
}

type CheckClient struct {
	repo domain.Repository
}

func NewCheckClient(repo domain.Repository) *CheckClient {
	return &CheckClient{repo: repo}
}

func (uc *CheckClient) Execute(
	ctx context.Context,
	unitID uuid.UUID,
	phone string,
) (*CheckClientResult, error) {

	normalized := validators.NormalizePhone(phone)
	if normalized == "" {
		return nil, httperr.Validation("phone_required", "Telefone é obrigatório")
	}

	c, err := uc.repo.FindByPhone(ctx, unitID, normalized)
	if errors.Is(err, domain.ErrNotFound) {
		return &CheckClientResult{Found: false}, nil
	}
	if err != nil {
		return nil, httperr.Internal("client_lookup_failed", err)
	}

	return &CheckClientResult{Found: true, Client: c}, nil
}
