package cancellation

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// LateThresholdMinutes is the fixed late-cancellation cut-off. Units may also
// carry their own limit; see LateByUnitPolicy.
const LateThresholdMinutes = 10

const (
	SourceApp      = "app"
	SourceWhatsApp = "whatsapp"
)

const (
	unknownBarber  = "Desconhecido"
	unknownService = "Serviço"
)

type Store interface {
	CreateCancellation(ctx context.Context, entry *models.CancellationHistory) error
}

type Input struct {
	Appointment *models.Appointment
	BarberName  string
	ServiceName string
	Source      string
	NoShow      bool
	Notes       string
}

type Recorder struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func NewRecorder(store Store, log *slog.Logger) *Recorder {
	return &Recorder{store: store, log: log, now: time.Now}
}

// WithClock replaces the time source.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record builds the history entry for a cancellation and stores it once.
// A failed write is logged and not retried, so the cancellation itself is
// never blocked by it.
func (r *Recorder) Record(ctx context.Context, in Input) *models.CancellationHistory {
	entry := Build(in, r.now())

	if err := r.store.CreateCancellation(ctx, entry); err != nil {
		r.log.ErrorContext(ctx, "cancellation history write failed",
			"appointment_id", in.Appointment.ID,
			"source", entry.CancellationSource,
			"err", err,
		)
	}

	return entry
}

// Build derives the policy facts of a cancellation happening at now.
func Build(in Input, now time.Time) *models.CancellationHistory {
	ap := in.Appointment
	minutes := MinutesBefore(ap.StartTime, now)

	source := in.Source
	if source == "" {
		source = SourceApp
	}

	entry := &models.CancellationHistory{
		UnitID:             ap.UnitID,
		ClientName:         ap.ClientName,
		ClientPhone:        ap.ClientPhone,
		BarberName:         orDefault(in.BarberName, unknownBarber),
		ServiceName:        orDefault(in.ServiceName, unknownService),
		ScheduledTime:      ap.StartTime,
		CancelledAt:        now.UTC(),
		MinutesBefore:      minutes,
		IsLateCancellation: IsLate(minutes),
		IsNoShow:           in.NoShow,
		TotalPrice:         ap.TotalPrice,
		CancellationSource: source,
	}

	id := ap.ID
	entry.AppointmentID = &id

	if notes := strings.TrimSpace(in.Notes); notes != "" {
		entry.Notes = &notes
	}

	return entry
}

// MinutesBefore is scheduled minus now in whole minutes, rounding halves up.
// Negative when the appointment time already passed.
func MinutesBefore(scheduled, now time.Time) int {
	ms := float64(scheduled.Sub(now).Milliseconds())
	return int(math.Floor(ms/60000 + 0.5))
}

func IsLate(minutesBefore int) bool {
	return minutesBefore < LateThresholdMinutes
}

// LateByUnitPolicy applies the unit's configurable limit. It returns nil when
// the unit has no limit configured.
func LateByUnitPolicy(minutesBefore int, limitMinutes *int) *bool {
	if limitMinutes == nil || *limitMinutes <= 0 {
		return nil
	}
	late := minutesBefore < *limitMinutes
	return &late
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
