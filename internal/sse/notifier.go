package sse

import (
	"time"

	"github.com/GTDGit/gtd_console/internal/pagination"
	"github.com/GTDGit/gtd_console/internal/store"
)

// StateNotifier publishes store snapshots to streaming clients.
// NotifyStateChanged has the store.Listener signature.
type StateNotifier interface {
	NotifyStateChanged(s store.State)
}

// HubNotifier implements StateNotifier using the SSE Hub.
type HubNotifier struct {
	hub    *Hub
	radius int
}

// NewHubNotifier creates a notifier backed by the given Hub. radius is the
// page-window radius used for the window sent alongside each snapshot.
func NewHubNotifier(hub *Hub, radius int) *HubNotifier {
	return &HubNotifier{hub: hub, radius: radius}
}

// NotifyStateChanged publishes s even without connected clients so the hub
// always holds the current snapshot for the next one.
func (n *HubNotifier) NotifyStateChanged(s store.State) {
	n.hub.Publish(NewStateEvent(s, n.radius))
}

// NewStateEvent builds the event for snapshot s. The window is left out when
// there is nothing to page through.
func NewStateEvent(s store.State, radius int) *StateEvent {
	ev := &StateEvent{
		Event:     EventStateChanged,
		State:     s,
		Timestamp: time.Now(),
	}
	if w := pagination.Project(s.Pagination, radius); !w.Empty() {
		ev.Window = &w
	}
	return ev
}

// NopNotifier discards snapshots; used when streaming is disabled.
type NopNotifier struct{}

func (NopNotifier) NotifyStateChanged(store.State) {}
