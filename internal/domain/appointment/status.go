package appointment

import "github.com/BruksfildServices01/barber-agenda/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ActiveStatuses are the states an appointment may leave.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Validations
// ===============================

var ErrInvalidState = httperr.Conflict(
	"invalid_state",
	"Transição de status não permitida para este agendamento",
)

// CanConfirm define se um agendamento pode ser confirmado
func CanConfirm(current Status) error {
	if current != StatusPending {
		return ErrInvalidState
	}
	return nil
}

// CanComplete define se um agendamento pode ser concluído
func CanComplete(current Status) error {
	if !current.IsActive() {
		return ErrInvalidState
	}
	return nil
}

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if !current.IsActive() {
		return ErrInvalidState
	}
	return nil
}

// CanTransition validates current -> next.
func CanTransition(current, next Status) error {
	switch next {
	case StatusConfirmed:
		return CanConfirm(current)
	case StatusCompleted:
		return CanComplete(current)
	case StatusCancelled:
		return CanCancel(current)
	default:
		return ErrInvalidState
	}
}

func InitialStatus() Status {
	return StatusPending
}

func statusStrings(ss []Status) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

// ActiveStatusValues is ActiveStatuses as query arguments.
func ActiveStatusValues() []string {
	return statusStrings(ActiveStatuses)
}
