// Package toast keeps at most one transient notification per kind and
// expires each one after its own lifetime.
package toast

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type Kind int

const (
	Success Kind = iota
	Error
	Info
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	case Info:
		return "info"
	}
	return "unknown"
}

// DefaultTTL is how long a toast stays up unless configured otherwise.
const DefaultTTL = 4 * time.Second

type Toast struct {
	ID      uint64
	Kind    Kind
	Message string
	TTL     time.Duration
	ShownAt time.Time
}

// ExpiredMsg is delivered when a toast's lifetime elapses.
type ExpiredMsg struct {
	ID uint64
}

// TickFunc schedules fn after d. tea.Tick in production.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// ids are process-wide so an ExpiredMsg can never match a toast of
// another manager.
var lastID atomic.Uint64

func nextID() uint64 {
	return lastID.Add(1)
}

type Manager struct {
	ttl       time.Duration
	active    map[Kind]Toast
	tick      TickFunc
	now       func() time.Time
	observers []func(Toast)
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:    ttl,
		active: make(map[Kind]Toast),
		tick:   tea.Tick,
		now:    time.Now,
	}
}

func (m *Manager) SetTick(fn TickFunc) {
	m.tick = fn
}

// Observe registers fn to be called for every toast shown.
func (m *Manager) Observe(fn func(Toast)) {
	m.observers = append(m.observers, fn)
}

// Show replaces any toast of the same kind and returns the command that
// expires the new one.
func (m *Manager) Show(kind Kind, message string) tea.Cmd {
	t := Toast{
		ID:      nextID(),
		Kind:    kind,
		Message: message,
		TTL:     m.ttl,
		ShownAt: m.now(),
	}
	m.active[kind] = t
	for _, fn := range m.observers {
		fn(t)
	}

	id := t.ID
	return m.tick(t.TTL, func(time.Time) tea.Msg {
		return ExpiredMsg{ID: id}
	})
}

// Expire removes the toast with the given id. Ids of toasts that were
// replaced or dismissed are ignored.
func (m *Manager) Expire(id uint64) bool {
	for kind, t := range m.active {
		if t.ID == id {
			delete(m.active, kind)
			return true
		}
	}
	return false
}

// Dismiss closes the current toast of kind. Its pending expiry becomes a no-op.
func (m *Manager) Dismiss(kind Kind) bool {
	if _, ok := m.active[kind]; !ok {
		return false
	}
	delete(m.active, kind)
	return true
}

func (m *Manager) Clear() {
	for k := range m.active {
		delete(m.active, k)
	}
}

// Update handles ExpiredMsg and reports whether msg was consumed.
func (m *Manager) Update(msg tea.Msg) bool {
	if e, ok := msg.(ExpiredMsg); ok {
		m.Expire(e.ID)
		return true
	}
	return false
}

func (m *Manager) Current(kind Kind) (Toast, bool) {
	t, ok := m.active[kind]
	return t, ok
}

// Active lists visible toasts in success, error, info order.
func (m *Manager) Active() []Toast {
	var out []Toast
	for _, k := range []Kind{Success, Error, Info} {
		if t, ok := m.active[k]; ok {
			out = append(out, t)
		}
	}
	return out
}
