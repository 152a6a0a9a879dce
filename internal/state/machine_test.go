package state

import (
	"testing"

	"github.com/plugspot/plugspot/internal/models"
)

func TestMachineHappyPath(t *testing.T) {
	m := NewMachine("req-1", models.RequestStatusPending, nil)

	steps := []struct {
		event string
		want  string
	}{
		{EventApprove, models.RequestStatusApproved},
		{EventStartSession, models.RequestStatusSessionActive},
		{EventEndSession, models.RequestStatusSessionEnded},
	}

	for _, step := range steps {
		if !m.Can(step.event) {
			t.Fatalf("Can(%q) = false from %q", step.event, m.Current())
		}
		if err := m.Trigger(step.event); err != nil {
			t.Fatalf("Trigger(%q) error = %v", step.event, err)
		}
		if m.Current() != step.want {
			t.Fatalf("after %q status = %q, want %q", step.event, m.Current(), step.want)
		}
	}
}

func TestMachineIllegalTransitions(t *testing.T) {
	tests := []struct {
		name  string
		start string
		event string
	}{
		{"cannot approve twice", models.RequestStatusApproved, EventApprove},
		{"cannot reject after approval", models.RequestStatusApproved, EventReject},
		{"cannot start session while pending", models.RequestStatusPending, EventStartSession},
		{"cannot cancel an ended session", models.RequestStatusSessionEnded, EventCancel},
		{"cannot end a session twice", models.RequestStatusSessionEnded, EventEndSession},
		{"cannot cancel a rejected request", models.RequestStatusRejected, EventCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine("req-x", tt.start, nil)
			if m.Can(tt.event) {
				t.Errorf("Can(%q) = true from %q", tt.event, tt.start)
			}
			if err := m.Trigger(tt.event); err == nil {
				t.Errorf("Trigger(%q) from %q succeeded, want error", tt.event, tt.start)
			}
		})
	}
}

func TestMachineCancelPaths(t *testing.T) {
	for _, start := range []string{models.RequestStatusPending, models.RequestStatusApproved} {
		m := NewMachine("req-c", start, nil)
		if err := m.Trigger(EventCancel); err != nil {
			t.Errorf("cancel from %q error = %v", start, err)
		}
		if m.Current() != models.RequestStatusCancelled {
			t.Errorf("cancel from %q ended in %q", start, m.Current())
		}
	}

	m := NewMachine("req-s", models.RequestStatusSessionActive, nil)
	if err := m.Trigger(EventCancelSession); err != nil {
		t.Errorf("cancel_session error = %v", err)
	}
	if m.Current() != models.RequestStatusCancelled {
		t.Errorf("cancel_session ended in %q", m.Current())
	}
}

func TestMachineChangeCallback(t *testing.T) {
	var transitions []string
	m := NewMachine("req-2", models.RequestStatusPending, func(id, from, to string) {
		transitions = append(transitions, from+"->"+to)
	})

	if err := m.Trigger(EventApprove); err != nil {
		t.Fatal(err)
	}
	if len(transitions) != 1 || transitions[0] != "pending->approved" {
		t.Errorf("transitions = %v", transitions)
	}
}

func TestManagerSyncsToBackendStatus(t *testing.T) {
	mgr := NewManager(nil)

	m := mgr.GetOrCreate("req-1", models.RequestStatusPending)
	if m.Current() != models.RequestStatusPending {
		t.Fatalf("status = %q", m.Current())
	}

	// Next refresh reports the backend moved it on; local machine follows.
	same := mgr.GetOrCreate("req-1", models.RequestStatusApproved)
	if same != m {
		t.Fatal("GetOrCreate created a second machine for the same request")
	}
	if m.Current() != models.RequestStatusApproved {
		t.Errorf("status after sync = %q, want approved", m.Current())
	}

	mgr.Drop("req-1")
	if _, ok := mgr.Get("req-1"); ok {
		t.Error("machine survived Drop")
	}
}
