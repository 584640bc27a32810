package appointment

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-agenda/internal/cancellation"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	clientdomain "github.com/BruksfildServices01/barber-agenda/internal/domain/client"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	ucClient "github.com/BruksfildServices01/barber-agenda/internal/usecase/client"
)

// fakeStore keeps every table in memory and applies the same filters as the
// gorm repositories.
type fakeStore struct {
	mu sync.Mutex

	units        map[uuid.UUID]*models.Unit
	barbers      []models.Barber
	services     []models.Service
	appointments []*models.Appointment
	clients      []*models.Client
	history      []*models.CancellationHistory

	now        func() time.Time
	historyErr error
}

func newFakeStore(now func() time.Time) *fakeStore {
	return &fakeStore{units: map[uuid.UUID]*models.Unit{}, now: now}
}

// -------- appointment.Repository --------

func (s *fakeStore) GetUnit(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.units[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (s *fakeStore) ListActiveBarbers(_ context.Context, unitID uuid.UUID) ([]models.Barber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Barber
	for _, b := range s.barbers {
		if b.UnitID == unitID && b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) GetBarber(_ context.Context, unitID, id uuid.UUID) (*models.Barber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.barbers {
		if b.ID == id && b.UnitID == unitID {
			cp := b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeStore) ListActiveServices(_ context.Context, unitID uuid.UUID) ([]models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Service
	for _, sv := range s.services {
		if sv.UnitID == unitID && sv.IsActive {
			out = append(out, sv)
		}
	}
	return out, nil
}

func (s *fakeStore) GetService(_ context.Context, unitID, id uuid.UUID) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service(unitID, id)
}

func (s *fakeStore) service(unitID, id uuid.UUID) (*models.Service, error) {
	for _, sv := range s.services {
		if sv.ID == id && sv.UnitID == unitID {
			cp := sv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeStore) withRelations(ap *models.Appointment) *models.Appointment {
	cp := *ap
	cp.Barber, cp.Service = nil, nil
	if ap.BarberID != nil {
		for _, b := range s.barbers {
			if b.ID == *ap.BarberID {
				bb := b
				cp.Barber = &bb
			}
		}
	}
	if ap.ServiceID != nil {
		if sv, err := s.service(ap.UnitID, *ap.ServiceID); err == nil {
			cp.Service = sv
		}
	}
	return &cp
}

func (s *fakeStore) GetAppointment(_ context.Context, unitID, id uuid.UUID) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ap := range s.appointments {
		if ap.ID == id && ap.UnitID == unitID {
			return s.withRelations(ap), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeStore) ListAppointmentsForDay(_ context.Context, unitID uuid.UUID, start, end time.Time) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.UnitID != unitID || ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.StartTime.Before(start) || ap.StartTime.After(end) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (s *fakeStore) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.UnitID != f.UnitID || ap.StartTime.Before(f.From) || ap.StartTime.After(f.To) {
			continue
		}
		if f.BarberID != nil && (ap.BarberID == nil || *ap.BarberID != *f.BarberID) {
			continue
		}
		if !f.IncludeCancelled && ap.Status == string(domain.StatusCancelled) {
			continue
		}
		out = append(out, *s.withRelations(ap))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *fakeStore) FindNextByPhone(_ context.Context, l domain.PhoneLookup) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hits []*models.Appointment
	for _, ap := range s.appointments {
		if ap.UnitID != l.UnitID || ap.ClientPhone == nil || *ap.ClientPhone != l.Phone {
			continue
		}
		if !domain.Status(ap.Status).IsActive() || ap.StartTime.Before(l.From) {
			continue
		}
		if l.To != nil && ap.StartTime.After(*l.To) {
			continue
		}
		hits = append(hits, ap)
	}
	if len(hits) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if !hits[i].StartTime.Equal(hits[j].StartTime) {
			return hits[i].StartTime.Before(hits[j].StartTime)
		}
		return hits[i].CreatedAt.Before(hits[j].CreatedAt)
	})
	return s.withRelations(hits[0]), nil
}

func (s *fakeStore) conflict(ap *models.Appointment, excludeSelf bool) bool {
	if ap.BarberID == nil {
		return false
	}
	for _, other := range s.appointments {
		if excludeSelf && other.ID == ap.ID {
			continue
		}
		if other.UnitID != ap.UnitID || other.BarberID == nil || *other.BarberID != *ap.BarberID {
			continue
		}
		if other.Status == string(domain.StatusCancelled) {
			continue
		}
		if domain.Overlaps(ap.StartTime, ap.EndTime, other.StartTime, other.EndTime) {
			return true
		}
	}
	return false
}

func (s *fakeStore) insert(ap *models.Appointment) {
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	now := s.now()
	ap.CreatedAt, ap.UpdatedAt = now, now

	cp := *ap
	cp.Barber, cp.Service = nil, nil
	s.appointments = append(s.appointments, &cp)
}

func (s *fakeStore) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflict(ap, false) {
		return domain.ErrTimeConflict
	}
	s.insert(ap)
	return nil
}

func (s *fakeStore) RecordAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(ap)
	return nil
}

func (s *fakeStore) UpdateAppointment(_ context.Context, ap *models.Appointment, check bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if check && s.conflict(ap, true) {
		return domain.ErrTimeConflict
	}
	for i, stored := range s.appointments {
		if stored.ID == ap.ID {
			cp := *ap
			cp.Barber, cp.Service = nil, nil
			cp.UpdatedAt = s.now()
			s.appointments[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *fakeStore) TransitionStatus(_ context.Context, unitID, id uuid.UUID, from []domain.Status, next domain.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ap := range s.appointments {
		if ap.ID != id || ap.UnitID != unitID {
			continue
		}
		for _, f := range from {
			if ap.Status == string(f) {
				ap.Status = string(next)
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

func (s *fakeStore) stored(id uuid.UUID) *models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ap := range s.appointments {
		if ap.ID == id {
			cp := *ap
			return &cp
		}
	}
	return nil
}

// -------- client.Repository --------

func (s *fakeStore) FindByPhone(_ context.Context, unitID uuid.UUID, phone string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.UnitID == unitID && c.Phone != nil && *c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, clientdomain.ErrNotFound
}

func (s *fakeStore) FindByName(_ context.Context, unitID uuid.UUID, name string, birth *datatypes.Date) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.UnitID != unitID || !domain.NameEquals(c.Name, name) {
			continue
		}
		if birth != nil && (c.BirthDate == nil || !time.Time(*c.BirthDate).Equal(time.Time(*birth))) {
			continue
		}
		cp := *c
		return &cp, nil
	}
	return nil, clientdomain.ErrNotFound
}

func (s *fakeStore) Create(_ context.Context, c *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = s.now()
	cp := *c
	s.clients = append(s.clients, &cp)
	return nil
}

func (s *fakeStore) Update(_ context.Context, c *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, stored := range s.clients {
		if stored.ID == c.ID {
			cp := *c
			s.clients[i] = &cp
			return nil
		}
	}
	return clientdomain.ErrNotFound
}

func (s *fakeStore) RegisterVisit(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.ID == id {
			c.TotalVisits++
			at := at
			c.LastVisitAt = &at
			return nil
		}
	}
	return clientdomain.ErrNotFound
}

func (s *fakeStore) client(id uuid.UUID) *models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.ID == id {
			cp := *c
			return &cp
		}
	}
	return nil
}

// -------- cancellation.Store --------

func (s *fakeStore) CreateCancellation(_ context.Context, e *models.CancellationHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.historyErr != nil {
		return s.historyErr
	}
	s.history = append(s.history, e)
	return nil
}

// ======================================================
// HARNESS
// ======================================================

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	store *fakeStore
	clock *clock

	unit   *models.Unit
	bruno  models.Barber
	carlos models.Barber
	corte  models.Service
	barba  models.Service

	check        *CheckAvailability
	create       *CreateAppointment
	update       *UpdateAppointment
	cancel       *CancelAppointment
	cancelPhone  *CancelByPhone
	noShow       *MarkNoShow
	status       *UpdateStatus
	quickService *CreateQuickService
	list         *ListAppointments
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	// 2025-03-09 09:00 local, the day before most bookings below
	clk := &clock{t: time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)}
	store := newFakeStore(clk.Now)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	unit := &models.Unit{
		ID:          uuid.New(),
		Name:        "Centro",
		Timezone:    "America/Sao_Paulo",
		OpeningTime: "09:00",
		ClosingTime: "18:00",
	}
	store.units[unit.ID] = unit

	bruno := models.Barber{ID: uuid.New(), UnitID: unit.ID, Name: "Bruno", IsActive: true}
	carlos := models.Barber{ID: uuid.New(), UnitID: unit.ID, Name: "Carlos", IsActive: true}
	inactive := models.Barber{ID: uuid.New(), UnitID: unit.ID, Name: "Brunão", IsActive: false}
	store.barbers = []models.Barber{bruno, carlos, inactive}

	corte := models.Service{ID: uuid.New(), UnitID: unit.ID, Name: "Corte", DurationMinutes: 30, Price: decimal.RequireFromString("50.00"), IsActive: true}
	barba := models.Service{ID: uuid.New(), UnitID: unit.ID, Name: "Barba", DurationMinutes: 20, Price: decimal.RequireFromString("30.00"), IsActive: true}
	store.services = []models.Service{corte, barba}

	resolver := ucClient.NewResolver(store, log)
	visits := ucClient.NewVisitCounter(store, log)
	recorder := cancellation.NewRecorder(store, log).WithClock(clk.Now)

	cancelUC := NewCancelAppointment(store, recorder, nil)

	return &harness{
		store:  store,
		clock:  clk,
		unit:   unit,
		bruno:  bruno,
		carlos: carlos,
		corte:  corte,
		barba:  barba,

		check:        NewCheckAvailability(store, domain.GridFixed),
		create:       NewCreateAppointment(store, resolver, nil),
		update:       NewUpdateAppointment(store, nil),
		cancel:       cancelUC,
		cancelPhone:  NewCancelByPhone(store, cancelUC).WithClock(clk.Now),
		noShow:       NewMarkNoShow(cancelUC),
		status:       NewUpdateStatus(store, cancelUC, visits, nil),
		quickService: NewCreateQuickService(store, resolver, visits, nil).WithClock(clk.Now),
		list:         NewListAppointments(store),
	}
}

func (h *harness) book(t *testing.T, barber, local, phone string) *CreateAppointmentOutput {
	t.Helper()
	out, err := h.create.Execute(context.Background(), CreateAppointmentInput{
		UnitID:       h.unit.ID,
		ClientName:   "Cliente " + phone,
		ClientPhone:  phone,
		Professional: barber,
		Service:      "corte",
		Datetime:     local,
		Source:       cancellation.SourceWhatsApp,
	})
	if err != nil {
		t.Fatalf("book %s %s: %v", barber, local, err)
	}
	return out
}

func decimalOf(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
