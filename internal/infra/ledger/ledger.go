package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Entry identifies one automated message for one appointment.
type Entry struct {
	UnitID         uuid.UUID
	AppointmentID  uuid.UUID
	AutomationType string
	ClientPhone    string
}

// Ledger guarantees an automation runs at most once per (appointment, type).
// Claim reports false when the pair was already claimed, by this process or
// another one.
type Ledger interface {
	Claim(ctx context.Context, e Entry) (bool, error)
	MarkSent(ctx context.Context, e Entry) error
	MarkFailed(ctx context.Context, e Entry, reason string) error
}
