package reminder

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/infra/ledger"
	infraRepo "github.com/BruksfildServices01/barber-agenda/internal/infra/repository"
	"github.com/BruksfildServices01/barber-agenda/internal/messaging"
)

// FromConfig builds the reminder service over the database. With REDIS_URL
// set claims go to redis, otherwise to the automation_logs table. The
// returned close func releases the redis client, if any.
func FromConfig(cfg *config.Config, db *gorm.DB, log *slog.Logger) (*Service, func(), error) {
	dispatcher, err := newDispatcher(cfg)
	if err != nil {
		return nil, nil, err
	}

	var (
		l       ledger.Ledger = ledger.NewGormLedger(db)
		closeFn               = func() {}
	)
	if cfg.Redis.URL != "" {
		rdb, err := ledger.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		l = ledger.NewRedisLedger(rdb, ledger.DefaultTTL)
		closeFn = func() { _ = rdb.Close() }
	}

	svc := NewService(
		infraRepo.NewUnitGormRepository(db),
		infraRepo.NewAppointmentGormRepository(db),
		l,
		dispatcher,
		log,
	)
	return svc, closeFn, nil
}

func newDispatcher(cfg *config.Config) (messaging.Dispatcher, error) {
	switch cfg.Reminders.Dispatcher {
	case "twilio":
		t := cfg.Twilio
		if t.AccountSID == "" || t.AuthToken == "" || t.WhatsAppFrom == "" {
			return nil, fmt.Errorf("reminder: twilio dispatcher needs TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_FROM")
		}
		return messaging.NewTwilioDispatcher(t.AccountSID, t.AuthToken, t.WhatsAppFrom), nil

	case "webhook", "":
		if cfg.Reminders.WebhookURL == "" {
			return nil, fmt.Errorf("reminder: N8N_MARKETING_URL is required for the webhook dispatcher")
		}
		return messaging.NewWebhookDispatcher(
			cfg.Reminders.WebhookURL,
			&http.Client{Timeout: 15 * time.Second},
		), nil

	default:
		return nil, fmt.Errorf("reminder: unknown dispatcher %q", cfg.Reminders.Dispatcher)
	}
}
