package client

import (
	"context"
	"errors"
	"strings"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/client"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

var errAlreadyRegistered = httperr.Conflict(
	"client_already_registered",
	"Cliente já cadastrado com este telefone",
)

// AlreadyRegisteredError carries the client that owns the phone.
type AlreadyRegisteredError struct {
	Client *models.Client
}

func (e *AlreadyRegisteredError) Error() string {
	return errAlreadyRegistered.Error()
}

func (e *AlreadyRegisteredError) Unwrap() error {
	return errAlreadyRegistered
}

type RegisterClient struct {
	repo domain.Repository
}

func NewRegisterClient(repo domain.Repository) *RegisterClient {
	return &RegisterClient{repo: repo}
}

func (uc *RegisterClient) Execute(
	ctx context.Context,
	in ResolveInput,
) (*models.Client, error) {

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, httperr.Validation("client_name_required", "Nome do cliente é obrigatório")
	}

	phone := validators.PhonePtr(in.Phone)
	if phone != nil {
		existing, err := uc.repo.FindByPhone(ctx, in.UnitID, *phone)
		if err == nil {
			return nil, &AlreadyRegisteredError{Client: existing}
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.Internal("client_lookup_failed", err)
		}
	}

	c := newClient(in, phone)
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, httperr.Internal("client_create_failed", err)
	}

	return c, nil
}
