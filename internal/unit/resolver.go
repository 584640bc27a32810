package unit

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

var ErrNotFound = errors.New("unit: not found")

type Store interface {
	GetUnit(ctx context.Context, unitID uuid.UUID) (*models.Unit, error)
	FindByInstanceName(ctx context.Context, instanceName string) (*models.Unit, error)
}

// Resolver maps a request's unit_id or messaging instance name to a Unit.
// Only the instance name -> id mapping is cached; the unit row is always
// read fresh.
type Resolver struct {
	store Store
	ids   *lru.Cache[string, uuid.UUID]
}

func NewResolver(store Store, cacheSize int) (*Resolver, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}

	cache, err := lru.New[string, uuid.UUID](cacheSize)
	if err != nil {
		return nil, err
	}

	return &Resolver{store: store, ids: cache}, nil
}

func (r *Resolver) Resolve(ctx context.Context, unitID, instanceName string) (*models.Unit, error) {
	unitID = strings.TrimSpace(unitID)
	instanceName = strings.TrimSpace(instanceName)

	switch {
	case unitID != "":
		id, err := uuid.Parse(unitID)
		if err != nil {
			return nil, httperr.Validation("invalid_unit_id", "unit_id inválido")
		}
		return r.byID(ctx, id)

	case instanceName != "":
		return r.byInstance(ctx, instanceName)

	default:
		return nil, httperr.Validation("missing_unit", "unit_id ou instance_name é obrigatório")
	}
}

func (r *Resolver) byID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	u, err := r.store.GetUnit(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, httperr.NotFound("unit_not_found", "Unidade não encontrada")
	}
	if err != nil {
		return nil, httperr.Internal("unit_lookup_failed", err)
	}
	return u, nil
}

func (r *Resolver) byInstance(ctx context.Context, name string) (*models.Unit, error) {
	if id, ok := r.ids.Get(name); ok {
		u, err := r.store.GetUnit(ctx, id)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, httperr.Internal("unit_lookup_failed", err)
		}
		r.ids.Remove(name)
	}

	u, err := r.store.FindByInstanceName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return nil, httperr.NotFound("unit_not_found", "Unidade não encontrada para esta instância")
	}
	if err != nil {
		return nil, httperr.Internal("unit_lookup_failed", err)
	}

	r.ids.Add(name, u.ID)
	return u, nil
}
