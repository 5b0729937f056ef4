package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_PHASE_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type codes published on the bus.
const (
	TypeSessionCreated      = "SESSION_CREATED"
	TypeSessionPhaseChanged = "SESSION_PHASE_CHANGED"
	TypeWorkItemUpdated     = "WORK_ITEM_UPDATED"
	TypeSessionDeleted      = "SESSION_DELETED"
)

// BaseEvent is the common implementation all session events embed.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewSessionCreated marks the start of a verification run.
func NewSessionCreated(sessionId string) Event {
	return BaseEvent{
		Type:       TypeSessionCreated,
		Data:       map[string]interface{}{"session_id": sessionId},
		OccurredAt: time.Now(),
	}
}

// NewPhaseChanged records a phase transition, including the terminal
// Failed phase with its retained error.
func NewPhaseChanged(sessionId, phase, errMsg string) Event {
	data := map[string]interface{}{
		"session_id": sessionId,
		"phase":      phase,
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	return BaseEvent{Type: TypeSessionPhaseChanged, Data: data, OccurredAt: time.Now()}
}

// NewItemUpdated records one work item status transition during fan-out.
func NewItemUpdated(sessionId, itemId, status string) Event {
	return BaseEvent{
		Type: TypeWorkItemUpdated,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"item_id":    itemId,
			"status":     status,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionDeleted marks explicit teardown.
func NewSessionDeleted(sessionId string) Event {
	return BaseEvent{
		Type:       TypeSessionDeleted,
		Data:       map[string]interface{}{"session_id": sessionId},
		OccurredAt: time.Now(),
	}
}
