package reminder

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/db"
	"github.com/BruksfildServices01/barber-agenda/internal/messaging"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromConfigValidatesDispatcher(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"webhook without url", config.Config{Reminders: config.Reminders{Dispatcher: "webhook"}}},
		{"twilio without credentials", config.Config{Reminders: config.Reminders{Dispatcher: "twilio"}}},
		{"unknown", config.Config{Reminders: config.Reminders{Dispatcher: "pombo"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			_, _, err := FromConfig(&cfg, nil, quiet())
			assert.Error(t, err)
		})
	}
}

func TestSchedulerRejectsBadCronExpression(t *testing.T) {
	_, err := NewScheduler(&Service{}, "every minute", quiet())
	assert.Error(t, err)

	s, err := NewScheduler(&Service{}, "*/5 * * * *", quiet())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Start()
	s.Stop(ctx)
}

func TestRunAgainstDatabase(t *testing.T) {
	gdb, err := db.Open(sqlite.Open(filepath.Join(t.TempDir(), "reminder.db")))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	var (
		mu  sync.Mutex
		got []messaging.Batch
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b messaging.Batch
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mu.Lock()
		got = append(got, b)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	instance := "barbearia-centro"
	unit := models.Unit{
		Name:                       "Centro",
		Timezone:                   "America/Sao_Paulo",
		EvolutionInstanceName:      &instance,
		AppointmentReminderEnabled: true,
		AppointmentReminderMinutes: 30,
	}
	require.NoError(t, gdb.Create(&unit).Error)

	barber := models.Barber{UnitID: unit.ID, Name: "Bruno", IsActive: true}
	require.NoError(t, gdb.Create(&barber).Error)
	service := models.Service{UnitID: unit.ID, Name: "Corte", DurationMinutes: 30, Price: decimal.NewFromInt(50), IsActive: true}
	require.NoError(t, gdb.Create(&service).Error)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	phone := "11988887777"
	due := models.Appointment{
		UnitID:      unit.ID,
		BarberID:    &barber.ID,
		ServiceID:   &service.ID,
		ClientName:  "Ana",
		ClientPhone: &phone,
		StartTime:   now.Add(31 * time.Minute),
		EndTime:     now.Add(61 * time.Minute),
		Status:      "pending",
		TotalPrice:  service.Price,
	}
	later := due
	later.StartTime = now.Add(2 * time.Hour)
	later.EndTime = later.StartTime.Add(30 * time.Minute)
	require.NoError(t, gdb.Create(&due).Error)
	require.NoError(t, gdb.Create(&later).Error)

	cfg := &config.Config{Reminders: config.Reminders{Dispatcher: "webhook", WebhookURL: srv.URL}}
	svc, closeFn, err := FromConfig(cfg, gdb, quiet())
	require.NoError(t, err)
	defer closeFn()
	svc.WithClock(func() time.Time { return now })

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)

	mu.Lock()
	sent := append([]messaging.Batch(nil), got...)
	mu.Unlock()

	require.Len(t, sent, 1)
	assert.Equal(t, instance, sent[0].InstanceName)
	require.Len(t, sent[0].Targets, 1)
	assert.Contains(t, sent[0].Targets[0].Message, "Bruno")
	assert.Contains(t, sent[0].Targets[0].Message, "09:31")

	var row models.AutomationLog
	require.NoError(t, gdb.Where("appointment_id = ?", due.ID).First(&row).Error)
	assert.Equal(t, models.AutomationStatusSent, row.Status)

	report, err = svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.Skipped)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 1)
}
