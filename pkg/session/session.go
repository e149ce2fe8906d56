// Package session holds the mitigation toggles of each operator session.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/peakguard/peakguard/pkg/types"
)

// ErrLatched is returned when clearing a manual toggle that is latched on.
// Only Reset clears manual toggles.
var ErrLatched = errors.New("manual mitigation is latched until reset")

// ErrUnknownToggle is returned for a toggle kind that doesn't exist.
var ErrUnknownToggle = errors.New("unknown toggle")

// Session is the toggle state of a single operator session. It is safe for
// concurrent use.
type Session struct {
	id string

	mu       sync.Mutex
	toggles  types.MitigationToggles
	lastUsed time.Time
}

// New creates a Session with every toggle off.
func New(id string) *Session {
	return &Session{id: id, lastUsed: time.Now()}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a copy of the current toggles. Evaluations must work from a
// snapshot so concurrent toggle changes don't affect a cycle in flight.
func (s *Session) Snapshot() types.MitigationToggles {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.toggles
}

// SetToggle changes a toggle. Manual battery and HVAC toggles latch once set:
// setting them to false returns ErrLatched and changes nothing. Autopilot can
// be toggled freely and never touches the manual toggles.
func (s *Session) SetToggle(kind types.ToggleKind, value bool) (types.MitigationToggles, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()

	var flag *bool
	switch kind {
	case types.ToggleAutoPilot:
		s.toggles.AutoPilotEnabled = value
		return s.toggles, nil
	case types.ToggleBattery:
		flag = &s.toggles.BatteryManuallyActive
	case types.ToggleHVAC:
		flag = &s.toggles.HVACManuallyActive
	default:
		return s.toggles, fmt.Errorf("%w: %q", ErrUnknownToggle, kind)
	}

	if *flag && !value {
		return s.toggles, fmt.Errorf("%w: %s", ErrLatched, kind)
	}
	*flag = value
	return s.toggles, nil
}

// Reset clears both manual toggles. Autopilot is left as is.
func (s *Session) Reset() types.MitigationToggles {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()

	s.toggles.BatteryManuallyActive = false
	s.toggles.HVACManuallyActive = false
	return s.toggles
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Map manages the sessions keyed by session identifier.
type Map struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewMap creates a new session Map.
func NewMap() *Map {
	return &Map{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for id, creating it if it's new.
func (m *Map) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := New(id)
	m.sessions[id] = s
	return s
}

// Delete removes the session for id. The next request with that id starts
// over with every toggle off.
func (m *Map) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of sessions.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Prune removes sessions that haven't been used since before the cutoff and
// returns how many were removed.
func (m *Map) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
