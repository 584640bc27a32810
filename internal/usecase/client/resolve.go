package client

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/client"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type ResolveInput struct {
	UnitID    uuid.UUID
	Name      string
	Phone     string
	BirthDate *datatypes.Date
	Notes     string
	Tags      []string
}

// ======================================================
// USE CASE
// ======================================================

// Resolver finds or creates the client behind a booking.
type Resolver struct {
	repo domain.Repository
	log  *slog.Logger
}

func NewResolver(repo domain.Repository, log *slog.Logger) *Resolver {
	return &Resolver{repo: repo, log: log}
}

// Resolve returns the client and whether it was created. With a phone the
// client is mandatory and failures propagate. Without a phone a failure is
// logged and a nil client is returned so the booking can go on unlinked.
func (uc *Resolver) Resolve(
	ctx context.Context,
	in ResolveInput,
) (*models.Client, bool, error) {

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, false, httperr.Validation("client_name_required", "Nome do cliente é obrigatório")
	}

	if phone := validators.NormalizePhone(in.Phone); phone != "" {
		return uc.byPhone(ctx, in, phone)
	}
	return uc.byName(ctx, in)
}

func (uc *Resolver) byPhone(
	ctx context.Context,
	in ResolveInput,
	phone string,
) (*models.Client, bool, error) {

	existing, err := uc.repo.FindByPhone(ctx, in.UnitID, phone)
	switch {
	case err == nil:
		return uc.merge(ctx, existing, in), false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, httperr.Internal("client_lookup_failed", err)
	}

	c := newClient(in, &phone)
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, false, httperr.Internal("client_create_failed", err)
	}

	uc.log.InfoContext(ctx, "client created", "client_id", c.ID, "unit_id", in.UnitID)
	return c, true, nil
}

func (uc *Resolver) merge(
	ctx context.Context,
	existing *models.Client,
	in ResolveInput,
) *models.Client {

	updated := *existing
	changed := domain.Merge(&updated, domain.Profile{
		BirthDate: in.BirthDate,
		Notes:     in.Notes,
		Tags:      in.Tags,
	})
	if !changed {
		return existing
	}

	if err := uc.repo.Update(ctx, &updated); err != nil {
		uc.log.WarnContext(ctx, "client merge not saved", "client_id", existing.ID, "err", err)
		return existing
	}
	return &updated
}

func (uc *Resolver) byName(
	ctx context.Context,
	in ResolveInput,
) (*models.Client, bool, error) {

	existing, err := uc.repo.FindByName(ctx, in.UnitID, in.Name, in.BirthDate)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		uc.log.WarnContext(ctx, "client lookup by name failed", "unit_id", in.UnitID, "err", err)
	}

	c := newClient(in, nil)
	if err := uc.repo.Create(ctx, c); err != nil {
		uc.log.ErrorContext(ctx, "client without phone not created", "unit_id", in.UnitID, "err", err)
		return nil, false, nil
	}

	return c, true, nil
}

func newClient(in ResolveInput, phone *string) *models.Client {
	tags := in.Tags
	if len(tags) == 0 {
		tags = append([]string(nil), domain.DefaultTags...)
	}
	tags, _ = domain.UnionTags(nil, tags)

	c := &models.Client{
		UnitID:      in.UnitID,
		Name:        in.Name,
		Phone:       phone,
		BirthDate:   in.BirthDate,
		Tags:        tags,
		TotalVisits: 0,
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		c.Notes = &notes
	}
	return c
}
