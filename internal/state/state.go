// Package state holds the current orientation table and swaps it on reload.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-epoch/internal/eop"
	"github.com/litescript/ls-epoch/internal/timescale"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventLoaded       EventType = "LOADED"
	EventExtended     EventType = "EXTENDED"
	EventLeapSecond   EventType = "LEAP_SECOND"
	EventReloadFailed EventType = "RELOAD_FAILED"
)

// Event represents a change in the loaded table.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
	Records   int       `json:"records,omitempty"`
	LastMJD   float64   `json:"last_mjd,omitempty"`
	DAT       int64     `json:"dat,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Manager handles the shared table with thread-safe access. It implements
// timescale.RotationProvider against whichever table is current.
type Manager struct {
	mu sync.RWMutex

	current      *eop.Table
	source       string
	loadedAt     time.Time
	lastError    error
	loadDuration time.Duration

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	now func() time.Time
}

var _ timescale.RotationProvider = (*Manager)(nil)

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
	}
}

// NewManager creates a new state manager with no table.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		now:       time.Now,
	}
}

// Update installs a freshly loaded table. A non-nil err records a failed
// load and keeps the previous table.
func (m *Manager) Update(table *eop.Table, source string, loadDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastError = err
	m.loadDuration = loadDuration

	if err != nil {
		m.addEvent(Event{Type: EventReloadFailed, Source: source, Error: err.Error()})
		return
	}
	if table == nil {
		return
	}

	m.detectEvents(table, source)

	m.current = table
	m.source = source
	m.loadedAt = m.now()
}

// detectEvents compares a new table with the current one.
func (m *Manager) detectEvents(next *eop.Table, source string) {
	_, last, ok := next.Span()
	if !ok {
		m.addEvent(Event{Type: EventLoaded, Source: source})
		return
	}
	if m.current == nil {
		m.addEvent(Event{Type: EventLoaded, Source: source, Records: next.Len(), LastMJD: last.MJD()})
		return
	}

	_, prevLast, prevOK := m.current.Span()
	if !prevOK || last.After(prevLast) {
		m.addEvent(Event{Type: EventExtended, Source: source, Records: next.Len(), LastMJD: last.MJD()})
	}

	// A DAT value not present before announces a new leap second.
	known := make(map[int64]bool)
	for _, r := range m.current.Records() {
		known[r.DAT] = true
	}
	for _, r := range next.Records() {
		if !known[r.DAT] {
			known[r.DAT] = true
			m.addEvent(Event{Type: EventLeapSecond, Source: source, LastMJD: r.Time.MJD(), DAT: r.DAT})
		}
	}
}

// addEvent stamps e and adds it to the ring buffer.
func (m *Manager) addEvent(e Event) {
	e.ID = uuid.New()
	e.Timestamp = m.now()
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Table        *eop.Table
	Source       string
	LoadedAt     time.Time
	LastError    error
	LoadDuration time.Duration
	Events       []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Table:        m.current,
		Source:       m.source,
		LoadedAt:     m.loadedAt,
		LastError:    m.lastError,
		LoadDuration: m.loadDuration,
		Events:       m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasData returns true once a table has been installed.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// Table returns the current table, or nil.
func (m *Manager) Table() *eop.Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) provider() timescale.RotationProvider {
	if t := m.Table(); t != nil {
		return t
	}
	return noRotation{}
}

type noRotation struct{ timescale.NullProvider }

func (noRotation) RotationOffsetUTC(timescale.Instant[timescale.UTC]) (timescale.Duration[timescale.UT1], bool) {
	return timescale.Duration[timescale.UT1]{}, false
}

func (noRotation) RotationOffsetUT1(timescale.Instant[timescale.UT1]) (timescale.Duration[timescale.UT1], bool) {
	return timescale.Duration[timescale.UT1]{}, false
}

func (m *Manager) LeapOffsetUTC(t timescale.Instant[timescale.UTC]) (timescale.Duration[timescale.TAI], bool) {
	return m.provider().LeapOffsetUTC(t)
}

func (m *Manager) LeapOffsetTAI(t timescale.Instant[timescale.TAI]) (timescale.Duration[timescale.TAI], bool) {
	return m.provider().LeapOffsetTAI(t)
}

func (m *Manager) RotationOffsetUTC(t timescale.Instant[timescale.UTC]) (timescale.Duration[timescale.UT1], bool) {
	return m.provider().RotationOffsetUTC(t)
}

func (m *Manager) RotationOffsetUT1(t timescale.Instant[timescale.UT1]) (timescale.Duration[timescale.UT1], bool) {
	return m.provider().RotationOffsetUT1(t)
}
