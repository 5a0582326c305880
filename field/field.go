package field

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vortex-fintech/go-phonemask/foundation/errors"
	"github.com/vortex-fintech/go-phonemask/foundation/logger"
)

type Listener func(Notification)

// ErrDispatchAborted is returned to callers whose queued event was dropped
// because a listener panicked while the queue was being drained.
var ErrDispatchAborted = errors.FailedPrecondition().
	WithReason("dispatch_aborted").
	WithMessage("field: dispatch aborted by listener panic")

// Field owns the State of one input instance.
//
// Events are processed one at a time: reconcile, store, then notify.
// Dispatch blocks until its event has run and its listeners have returned.
// Listeners must not call Dispatch on their own field; they use Defer,
// which queues the event behind the one in flight.
type Field struct {
	id  string
	r   *Reconciler
	log logger.LoggerInterface

	mu          sync.Mutex
	state       State
	listeners   []Listener
	pending     []queued
	dispatching bool
}

// queued is an event waiting for the in-flight one. done is nil for
// deferred events.
type queued struct {
	ev   Event
	done chan error
}

func New(r *Reconciler, p Props) (*Field, error) {
	s, err := r.Init(p)
	if err != nil {
		return nil, err
	}
	u, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	id := u.String()
	return &Field{
		id:    id,
		r:     r,
		log:   r.log.With("field_id", id),
		state: s,
	}, nil
}

func (f *Field) ID() string { return f.id }

func (f *Field) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Pending reports how many events are waiting behind the one in flight.
func (f *Field) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *Field) Subscribe(l Listener) {
	if l == nil {
		return
	}
	f.mu.Lock()
	f.listeners = append(f.listeners, l)
	f.mu.Unlock()
}

// Dispatch runs ev and returns its error. When another goroutine is
// dispatching, ev waits its turn in the queue.
func (f *Field) Dispatch(ev Event) error {
	f.mu.Lock()
	if f.dispatching {
		done := make(chan error, 1)
		f.pending = append(f.pending, queued{ev: ev, done: done})
		f.mu.Unlock()
		return <-done
	}
	f.dispatching = true
	f.mu.Unlock()

	return f.drain(ev)
}

// Defer queues ev behind the event in flight without waiting for it. It is
// the way for a listener to dispatch on its own field. Failures are logged.
func (f *Field) Defer(ev Event) {
	f.mu.Lock()
	if f.dispatching {
		f.pending = append(f.pending, queued{ev: ev})
		f.mu.Unlock()
		return
	}
	f.dispatching = true
	f.mu.Unlock()

	if err := f.drain(ev); err != nil {
		f.log.Warnw("deferred field event failed", "event", ev.Name(), "err", err)
	}
}

// drain runs first, then every event queued meanwhile. If a listener
// panics, the queue is dropped and its waiters get ErrDispatchAborted
// before the panic continues.
func (f *Field) drain(first Event) error {
	var cur queued
	finished := false
	defer func() {
		if finished {
			return
		}
		f.mu.Lock()
		dropped := f.pending
		f.pending = nil
		f.dispatching = false
		f.mu.Unlock()

		if cur.done != nil {
			cur.done <- ErrDispatchAborted
		}
		for _, q := range dropped {
			if q.done != nil {
				q.done <- ErrDispatchAborted
			}
		}
	}()

	err := f.run(first)
	for {
		f.mu.Lock()
		if len(f.pending) == 0 {
			f.dispatching = false
			f.mu.Unlock()
			finished = true
			return err
		}
		cur = f.pending[0]
		f.pending = f.pending[1:]
		f.mu.Unlock()

		qerr := f.run(cur.ev)
		switch {
		case cur.done != nil:
			cur.done <- qerr
		case qerr != nil:
			f.log.Warnw("deferred field event failed", "event", cur.ev.Name(), "err", qerr)
		}
		cur = queued{}
	}
}

func (f *Field) run(ev Event) error {
	f.mu.Lock()
	next, out, err := f.r.Apply(f.state, ev)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	f.state = next
	listeners := append([]Listener(nil), f.listeners...)
	f.mu.Unlock()

	for _, n := range out {
		for _, l := range listeners {
			l(n)
		}
	}
	return nil
}
