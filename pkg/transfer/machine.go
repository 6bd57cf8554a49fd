package transfer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDelay is how long a record stays transferring.
const DefaultDelay = 1500 * time.Millisecond

// EventKind identifies a state change.
type EventKind int

const (
	EventCreated EventKind = iota
	EventReceived
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventReceived:
		return "received"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after every state change.
type Event struct {
	Kind   EventKind
	Record Record
}

// Machine creates records and completes them after a delay.
type Machine struct {
	store *Store
	sched *Scheduler
	delay time.Duration
	now   func() time.Time
	newID func() string

	logger *slog.Logger

	mu        sync.RWMutex
	listeners []func(Event)
}

// Option configures a Machine.
type Option func(*Machine)

// WithDelay sets the transferring to received delay.
func WithDelay(d time.Duration) Option {
	return func(m *Machine) {
		if d >= 0 {
			m.delay = d
		}
	}
}

// WithClock sets the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithIDFunc sets the record identifier generator.
func WithIDFunc(fn func() string) Option {
	return func(m *Machine) { m.newID = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// NewMachine creates a machine with an empty store.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		store:  NewStore(),
		sched:  NewScheduler(),
		delay:  DefaultDelay,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "transfer")
	return m
}

// OnChange registers a listener. Listeners run outside the machine's locks,
// on the caller's goroutine for EventCreated and on a timer goroutine
// for EventReceived.
func (m *Machine) OnChange(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Machine) emit(e Event) {
	m.mu.RLock()
	listeners := make([]func(Event), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}

// Begin records a new capture as transferring, newest first, and schedules
// its completion.
func (m *Machine) Begin(img []byte) (Record, error) {
	if m.sched.Stopped() {
		return Record{}, ErrStopped
	}

	ts := m.now()
	r := Record{
		ID:        m.newID(),
		Timestamp: ts,
		TimeLabel: ts.Format(TimeLayout),
		Image:     img,
		Status:    Transferring,
	}
	m.store.Prepend(r)
	m.logger.Info("capture recorded", "id", r.ID, "bytes", len(img))
	m.emit(Event{Kind: EventCreated, Record: r})

	id := r.ID
	if _, err := m.sched.After(m.delay, func() {
		if _, err := m.Complete(id); err != nil {
			m.logger.Debug("scheduled completion skipped", "id", id, "error", err)
		}
	}); err != nil {
		// Stop ran after the check above; the record can never complete.
		m.store.Remove(id)
		return Record{}, err
	}
	return r, nil
}

// Complete flips the record to received.
func (m *Machine) Complete(id string) (Record, error) {
	r, err := m.store.MarkReceived(id)
	if err != nil {
		return r, err
	}
	m.logger.Info("capture received", "id", id)
	m.emit(Event{Kind: EventReceived, Record: r})
	return r, nil
}

// Records returns all records, newest first.
func (m *Machine) Records() []Record {
	return m.store.List()
}

// Record looks a record up by ID.
func (m *Machine) Record(id string) (Record, bool) {
	return m.store.Get(id)
}

// Len returns the number of records.
func (m *Machine) Len() int {
	return m.store.Len()
}

// Pending returns the number of scheduled completions.
func (m *Machine) Pending() int {
	return m.sched.Pending()
}

// Stop cancels pending completions and discards every record. Later calls
// to Begin fail with ErrStopped.
func (m *Machine) Stop() int {
	n := m.sched.Stop()
	m.store.Clear()
	if n > 0 {
		m.logger.Debug("pending transfers cancelled", "count", n)
	}
	return n
}
