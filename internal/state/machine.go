package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/plugspot/plugspot/internal/models"
)

// Events a booking request can go through. The backend owns the workflow;
// these machines only stop the UI from asking for impossible transitions.
const (
	EventApprove       = "approve"
	EventReject        = "reject"
	EventCancel        = "cancel"
	EventStartSession  = "start_session"
	EventEndSession    = "end_session"
	EventCancelSession = "cancel_session"
)

// Machine guards one booking request's lifecycle.
type Machine struct {
	mu        sync.RWMutex
	requestID string
	fsm       *fsm.FSM
	since     time.Time
	onChange  func(requestID, from, to string)
}

// NewMachine creates a lifecycle machine seeded with the request's current
// backend status.
func NewMachine(requestID, currentStatus string, onChange func(requestID, from, to string)) *Machine {
	if currentStatus == "" {
		currentStatus = models.RequestStatusPending
	}

	m := &Machine{
		requestID: requestID,
		onChange:  onChange,
		since:     time.Now(),
	}

	m.fsm = fsm.NewFSM(
		currentStatus,
		fsm.Events{
			{Name: EventApprove, Src: []string{models.RequestStatusPending}, Dst: models.RequestStatusApproved},
			{Name: EventReject, Src: []string{models.RequestStatusPending}, Dst: models.RequestStatusRejected},
			{Name: EventCancel, Src: []string{models.RequestStatusPending, models.RequestStatusApproved}, Dst: models.RequestStatusCancelled},
			{Name: EventStartSession, Src: []string{models.RequestStatusApproved}, Dst: models.RequestStatusSessionActive},
			{Name: EventEndSession, Src: []string{models.RequestStatusSessionActive}, Dst: models.RequestStatusSessionEnded},
			{Name: EventCancelSession, Src: []string{models.RequestStatusSessionActive}, Dst: models.RequestStatusCancelled},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onChange != nil && e.Src != e.Dst {
					m.onChange(m.requestID, e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

// Current returns the machine's status.
func (m *Machine) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// Can reports whether event is legal from the current status.
func (m *Machine) Can(event string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Can(event)
}

// Trigger applies event, erroring on illegal transitions.
func (m *Machine) Trigger(event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("booking request %s: trigger %s: %w", m.requestID, event, err)
	}
	m.since = time.Now()
	return nil
}

// Sync force-sets the status to what the backend reported on the last fetch.
// The backend always wins over local guesses.
func (m *Machine) Sync(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status != "" && status != m.fsm.Current() {
		m.fsm.SetState(status)
		m.since = time.Now()
	}
}

// Manager keeps one machine per booking request id.
type Manager struct {
	mu       sync.RWMutex
	machines map[string]*Machine
	onChange func(requestID, from, to string)
}

// NewManager builds the machine registry.
func NewManager(onChange func(requestID, from, to string)) *Manager {
	return &Manager{
		machines: make(map[string]*Machine),
		onChange: onChange,
	}
}

// GetOrCreate returns the machine for a request, creating it from the given
// status and syncing an existing one to it.
func (m *Manager) GetOrCreate(requestID, status string) *Machine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if machine, ok := m.machines[requestID]; ok {
		machine.Sync(status)
		return machine
	}

	machine := NewMachine(requestID, status, m.onChange)
	m.machines[requestID] = machine
	return machine
}

// Get looks up a machine without creating it.
func (m *Manager) Get(requestID string) (*Machine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	machine, ok := m.machines[requestID]
	return machine, ok
}

// Drop removes a machine once its request reached a terminal status.
func (m *Manager) Drop(requestID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.machines, requestID)
}
