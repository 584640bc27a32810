package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/client"
)

// VisitCounter bumps total_visits and last_visit_at when a linked
// appointment is completed. Failures are logged only.
type VisitCounter struct {
	repo domain.Repository
	log  *slog.Logger
}

func NewVisitCounter(repo domain.Repository, log *slog.Logger) *VisitCounter {
	return &VisitCounter{repo: repo, log: log}
}

func (uc *VisitCounter) Register(ctx context.Context, clientID *uuid.UUID, at time.Time) {
	if uc == nil || clientID == nil {
		return
	}
	if err := uc.repo.RegisterVisit(ctx, *clientID, at); err != nil {
		uc.log.WarnContext(ctx, "client visit not registered", "client_id", *clientID, "err", err)
	}
}
