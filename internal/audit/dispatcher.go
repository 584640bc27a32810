package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type Event struct {
	UnitID   uuid.UUID
	Actor    *string
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher writes audit events off the request path. Events are dropped
// when the queue is full; auditing never fails a request.
type Dispatcher struct {
	sink   Sink
	log    *slog.Logger
	queue  chan Event
	closed sync.Once
	done   chan struct{}
}

func NewDispatcher(sink Sink, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.log.Error("audit write failed", "action", ev.Action, "err", err)
		}
	}
}

// Dispatch is a no-op on a nil Dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains pending events. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closed.Do(func() { close(d.queue) })
	<-d.done
}
