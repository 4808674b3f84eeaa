package models

import "time"

type EventType string

const (
	EventGrievanceSubmitted EventType = "grievance_submitted"
	EventStatusChanged      EventType = "status_changed"
)

// GrievanceEvent is fanned out to admin dashboards over Redis Pub/Sub
// and WebSocket.
type GrievanceEvent struct {
	Type        EventType `json:"type"`
	GrievanceID string    `json:"grievance_id"`
	Code        string    `json:"code"`
	Category    Category  `json:"category"`
	Status      Status    `json:"status"`
	OldStatus   Status    `json:"old_status,omitempty"`
	ActorID     string    `json:"actor_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewGrievanceEvent builds an event describing g.
func NewGrievanceEvent(t EventType, g *Grievance, actorID string) GrievanceEvent {
	return GrievanceEvent{
		Type:        t,
		GrievanceID: g.ID,
		Code:        g.Code,
		Category:    g.Category,
		Status:      g.Status,
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
	}
}
