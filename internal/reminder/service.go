package reminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-agenda/internal/infra/ledger"
	"github.com/BruksfildServices01/barber-agenda/internal/messaging"
	"github.com/BruksfildServices01/barber-agenda/internal/metrics"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

const (
	AutomationType = "appointment_reminder"

	defaultLeadMinutes = 30
	windowTolerance    = 3 * time.Minute
)

type UnitSource interface {
	ListReminderUnits(ctx context.Context) ([]models.Unit, error)
}

type AppointmentSource interface {
	ListForReminder(ctx context.Context, unitID uuid.UUID, from, to time.Time) ([]models.Appointment, error)
}

// Report summarizes one run.
type Report struct {
	Units   int `json:"units"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Service sends one reminder per upcoming appointment, at most once.
type Service struct {
	units        UnitSource
	appointments AppointmentSource
	ledger       ledger.Ledger
	dispatcher   messaging.Dispatcher
	log          *slog.Logger
	now          func() time.Time
}

func NewService(
	units UnitSource,
	appointments AppointmentSource,
	l ledger.Ledger,
	d messaging.Dispatcher,
	log *slog.Logger,
) *Service {
	return &Service{
		units:        units,
		appointments: appointments,
		ledger:       l,
		dispatcher:   d,
		log:          log,
		now:          time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run processes every unit with reminders enabled. A failing unit is logged
// and does not stop the others.
func (s *Service) Run(ctx context.Context) (Report, error) {
	var report Report

	units, err := s.units.ListReminderUnits(ctx)
	if err != nil {
		return report, err
	}

	now := s.now().UTC()
	for i := range units {
		u := &units[i]
		if !u.AppointmentReminderEnabled || u.EvolutionInstanceName == nil || *u.EvolutionInstanceName == "" {
			continue
		}
		report.Units++

		if err := s.runUnit(ctx, u, now, &report); err != nil {
			s.log.ErrorContext(ctx, "reminder run failed for unit", "unit_id", u.ID, "err", err)
		}
	}

	s.log.InfoContext(ctx, "reminder run finished",
		"units", report.Units,
		"sent", report.Sent,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)
	return report, nil
}

func (s *Service) runUnit(ctx context.Context, u *models.Unit, now time.Time, report *Report) error {

	// --------------------------------------------------
	// 1️⃣ Agendamentos na janela
	// --------------------------------------------------
	from, to := Window(now, u.AppointmentReminderMinutes)
	apps, err := s.appointments.ListForReminder(ctx, u.ID, from, to)
	if err != nil {
		return err
	}

	tz := timezone.OrDefault(u.Timezone)
	batch := messaging.Batch{InstanceName: *u.EvolutionInstanceName, AutomationType: AutomationType}
	var claimed []ledger.Entry

	// --------------------------------------------------
	// 2️⃣ Claim + mensagem
	// --------------------------------------------------
	for i := range apps {
		ap := &apps[i]
		if ap.ClientPhone == nil || *ap.ClientPhone == "" {
			continue
		}

		entry := ledger.Entry{
			UnitID:         u.ID,
			AppointmentID:  ap.ID,
			AutomationType: AutomationType,
			ClientPhone:    *ap.ClientPhone,
		}
		ok, err := s.ledger.Claim(ctx, entry)
		if err != nil {
			s.log.WarnContext(ctx, "reminder claim failed", "appointment_id", ap.ID, "err", err)
			continue
		}
		if !ok {
			report.Skipped++
			metrics.RemindersSent.WithLabelValues("skipped").Inc()
			continue
		}

		claimed = append(claimed, entry)
		batch.Targets = append(batch.Targets, messaging.Target{
			Phone:   *ap.ClientPhone,
			Name:    ap.ClientName,
			Message: Render(u.AppointmentReminderTemplate, ap, tz),
		})
	}

	if len(claimed) == 0 {
		return nil
	}

	// --------------------------------------------------
	// 3️⃣ Envio + registro
	// --------------------------------------------------
	err = s.dispatcher.Dispatch(ctx, batch)

	var partial messaging.Failures
	isPartial := errors.As(err, &partial)

	for i, entry := range claimed {
		var failure error
		switch {
		case isPartial:
			failure = partial[i]
		case err != nil:
			failure = err
		}

		if failure != nil {
			report.Failed++
			metrics.RemindersSent.WithLabelValues("failed").Inc()
			if markErr := s.ledger.MarkFailed(ctx, entry, failure.Error()); markErr != nil {
				s.log.WarnContext(ctx, "reminder log not updated", "appointment_id", entry.AppointmentID, "err", markErr)
			}
			continue
		}

		report.Sent++
		metrics.RemindersSent.WithLabelValues("sent").Inc()
		if markErr := s.ledger.MarkSent(ctx, entry); markErr != nil {
			s.log.WarnContext(ctx, "reminder log not updated", "appointment_id", entry.AppointmentID, "err", markErr)
		}
	}

	if err != nil && !isPartial {
		return err
	}
	return nil
}
