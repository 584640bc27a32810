package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the reminder service on a cron schedule. Overlapping runs
// are skipped.
type Scheduler struct {
	cron *cron.Cron
	svc  *Service
	log  *slog.Logger
}

func NewScheduler(svc *Service, spec string, log *slog.Logger) (*Scheduler, error) {
	logger := cronLogger{log: log}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	s := &Scheduler{cron: c, svc: svc, log: log}
	if _, err := c.AddFunc(spec, s.tick); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()

	if _, err := s.svc.Run(ctx); err != nil {
		s.log.Error("reminder run failed", "err", err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
