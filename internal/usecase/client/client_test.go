package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/client"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type fakeRepo struct {
	clients []*models.Client

	createErr error
	updateErr error
	lookupErr error
	updates   int
	visits    int
}

func (r *fakeRepo) FindByPhone(_ context.Context, unitID uuid.UUID, phone string) (*models.Client, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, c := range r.clients {
		if c.UnitID == unitID && c.Phone != nil && *c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) FindByName(_ context.Context, unitID uuid.UUID, name string, _ *datatypes.Date) (*models.Client, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, c := range r.clients {
		if c.UnitID == unitID && c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) Create(_ context.Context, c *models.Client) error {
	if r.createErr != nil {
		return r.createErr
	}
	c.ID = uuid.New()
	cp := *c
	r.clients = append(r.clients, &cp)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, c *models.Client) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	for i := range r.clients {
		if r.clients[i].ID == c.ID {
			cp := *c
			r.clients[i] = &cp
		}
	}
	return nil
}

func (r *fakeRepo) RegisterVisit(_ context.Context, id uuid.UUID, at time.Time) error {
	r.visits++
	for _, c := range r.clients {
		if c.ID == id {
			c.TotalVisits++
			c.LastVisitAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveCreatesByPhone(t *testing.T) {
	repo := &fakeRepo{}
	unit := uuid.New()

	c, created, err := NewResolver(repo, discard()).Resolve(context.Background(), ResolveInput{
		UnitID: unit,
		Name:   "  Ana Souza ",
		Phone:  "(11) 98888-7777",
		Notes:  "prefere tesoura",
	})
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "Ana Souza", c.Name)
	assert.Equal(t, "11988887777", *c.Phone)
	assert.Equal(t, []string{"Novo"}, []string(c.Tags))
	assert.Equal(t, "prefere tesoura", *c.Notes)
	assert.Zero(t, c.TotalVisits)
}

func TestResolveMergesExisting(t *testing.T) {
	unit := uuid.New()
	phone := "11988887777"
	existing := &models.Client{
		ID:     uuid.New(),
		UnitID: unit,
		Name:   "Ana",
		Phone:  &phone,
		Tags:   datatypes.JSONSlice[string]{"Novo"},
	}
	repo := &fakeRepo{clients: []*models.Client{existing}}
	uc := NewResolver(repo, discard())

	c, created, err := uc.Resolve(context.Background(), ResolveInput{
		UnitID: unit,
		Name:   "Ana Maria",
		Phone:  phone,
		Tags:   []string{"VIP", "Novo"},
	})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, existing.ID, c.ID)
	assert.Equal(t, "Ana", c.Name)
	assert.ElementsMatch(t, []string{"Novo", "VIP"}, []string(c.Tags))
	assert.Equal(t, 1, repo.updates)

	// nothing new, nothing written
	_, _, err = uc.Resolve(context.Background(), ResolveInput{UnitID: unit, Name: "Ana", Phone: phone})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updates)
}

func TestResolveMergeFailureKeepsStoredClient(t *testing.T) {
	unit := uuid.New()
	phone := "11988887777"
	repo := &fakeRepo{
		clients:   []*models.Client{{ID: uuid.New(), UnitID: unit, Name: "Ana", Phone: &phone}},
		updateErr: errors.New("boom"),
	}

	c, _, err := NewResolver(repo, discard()).Resolve(context.Background(), ResolveInput{
		UnitID: unit,
		Name:   "Ana",
		Phone:  phone,
		Notes:  "nova nota",
	})
	require.NoError(t, err)
	assert.Nil(t, c.Notes)
}

func TestResolveWithPhonePropagatesFailures(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("boom")}

	_, _, err := NewResolver(repo, discard()).Resolve(context.Background(), ResolveInput{
		UnitID: uuid.New(),
		Name:   "Ana",
		Phone:  "11988887777",
	})
	assert.Equal(t, httperr.KindInternal, httperr.KindOf(err))
}

func TestResolveByNameSwallowsFailures(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("boom")}

	c, created, err := NewResolver(repo, discard()).Resolve(context.Background(), ResolveInput{
		UnitID: uuid.New(),
		Name:   "Ana",
	})
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.False(t, created)
}

func TestResolveByNameReusesMatch(t *testing.T) {
	unit := uuid.New()
	repo := &fakeRepo{}
	uc := NewResolver(repo, discard())

	first, created, err := uc.Resolve(context.Background(), ResolveInput{UnitID: unit, Name: "Ana"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, first.Phone)

	second, created, err := uc.Resolve(context.Background(), ResolveInput{UnitID: unit, Name: "Ana"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = uc.Resolve(context.Background(), ResolveInput{UnitID: unit, Name: " "})
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}

func TestCheckClient(t *testing.T) {
	unit := uuid.New()
	phone := "11988887777"
	repo := &fakeRepo{clients: []*models.Client{{ID: uuid.New(), UnitID: unit, Name: "Ana", Phone: &phone}}}
	uc := NewCheckClient(repo)

	res, err := uc.Execute(context.Background(), unit, "(11) 98888-7777")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "Ana", res.Client.Name)

	res, err = uc.Execute(context.Background(), unit, "11900000000")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Nil(t, res.Client)

	_, err = uc.Execute(context.Background(), unit, "")
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))

	repo.lookupErr = errors.New("db down")
	_, err = uc.Execute(context.Background(), unit, phone)
	assert.Equal(t, httperr.KindInternal, httperr.KindOf(err))
}

func TestRegisterClient(t *testing.T) {
	unit := uuid.New()
	repo := &fakeRepo{}
	uc := NewRegisterClient(repo)

	c, err := uc.Execute(context.Background(), ResolveInput{
		UnitID: unit,
		Name:   "Ana",
		Phone:  "11988887777",
		Tags:   []string{"VIP"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"VIP"}, []string(c.Tags))

	_, err = uc.Execute(context.Background(), ResolveInput{UnitID: unit, Name: "Outra", Phone: "11 98888 7777"})
	require.Error(t, err)
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))

	var already *AlreadyRegisteredError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, c.ID, already.Client.ID)
}

func TestVisitCounter(t *testing.T) {
	repo := &fakeRepo{clients: []*models.Client{{ID: uuid.New(), Name: "Ana"}}}
	counter := NewVisitCounter(repo, discard())
	at := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)

	counter.Register(context.Background(), nil, at)
	assert.Zero(t, repo.visits)

	id := repo.clients[0].ID
	counter.Register(context.Background(), &id, at)
	assert.Equal(t, 1, repo.clients[0].TotalVisits)
	assert.Equal(t, at, *repo.clients[0].LastVisitAt)

	// unknown client is logged only
	missing := uuid.New()
	counter.Register(context.Background(), &missing, at)
	assert.Equal(t, 2, repo.visits)
}
