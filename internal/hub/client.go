package hub

import "grievanceportal/backend/internal/models"

// Client is one connected dashboard.
type Client interface {
	// GetID identifies the connection. A user may hold several.
	GetID() string
	GetUserID() string

	// GetSendChannel returns the channel the hub delivers events on. The
	// hub never blocks on it.
	GetSendChannel() chan<- models.GrievanceEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close releases the connection. It is safe to call more than once.
	Close()
}
