package ui

import (
	"fmt"
	"sync"
	"time"

	bitlayout "github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
)

const maxLogLines = 200

// StateSnapshot is a copy of the viewer state for one frame.
type StateSnapshot struct {
	Selected    string
	Orientation bitlayout.Orientation
	Status      string
	LastError   error
	Logs        []string
	LastUpdated time.Time
}

// AppState tracks the state shared between the Gio event loop and
// background exports.
type AppState struct {
	mu sync.RWMutex

	selected    string
	orientation bitlayout.Orientation
	status      string
	lastError   error
	logs        []string
	lastUpdated time.Time
}

// NewState returns an empty state.
func NewState() *AppState {
	return &AppState{status: "Ready", lastUpdated: time.Now()}
}

// Snapshot copies the current state.
func (s *AppState) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := make([]string, len(s.logs))
	copy(logs, s.logs)
	return StateSnapshot{
		Selected:    s.selected,
		Orientation: s.orientation,
		Status:      s.status,
		LastError:   s.lastError,
		Logs:        logs,
		LastUpdated: s.lastUpdated,
	}
}

func (s *AppState) SetSelected(name string) {
	s.mu.Lock()
	s.selected = name
	s.lastUpdated = time.Now()
	s.mu.Unlock()
}

func (s *AppState) SetOrientation(o bitlayout.Orientation) {
	s.mu.Lock()
	s.orientation = o
	s.lastUpdated = time.Now()
	s.mu.Unlock()
}

func (s *AppState) Orientation() bitlayout.Orientation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orientation
}

func (s *AppState) SetStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.lastUpdated = time.Now()
	s.mu.Unlock()
}

// SetError records err and shows it as the status. A nil error clears it.
func (s *AppState) SetError(err error) {
	s.mu.Lock()
	s.lastError = err
	if err != nil {
		s.status = err.Error()
	}
	s.lastUpdated = time.Now()
	s.mu.Unlock()
}

// AppendLog adds a timestamped line, keeping the newest maxLogLines.
func (s *AppState) AppendLog(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), line))
	if over := len(s.logs) - maxLogLines; over > 0 {
		s.logs = append([]string(nil), s.logs[over:]...)
	}
	s.lastUpdated = time.Now()
}
