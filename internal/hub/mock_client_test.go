package hub_test

import (
	"sync"

	"grievanceportal/backend/internal/models"
)

type MockClient struct {
	id          string
	userID      string
	RecvChannel chan models.GrievanceEvent

	mu     sync.Mutex
	closed int
}

func newMockClient(id string, buffer int) *MockClient {
	return &MockClient{
		id:          id,
		userID:      "admin-" + id,
		RecvChannel: make(chan models.GrievanceEvent, buffer),
	}
}

func (c *MockClient) GetID() string                                { return c.id }
func (c *MockClient) GetUserID() string                            { return c.userID }
func (c *MockClient) GetSendChannel() chan<- models.GrievanceEvent { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}

func (c *MockClient) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
