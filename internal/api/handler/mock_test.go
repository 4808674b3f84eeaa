package handler_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"grievanceportal/backend/internal/analysis"
	"grievanceportal/backend/internal/auth"
	"grievanceportal/backend/internal/grievance"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in auth.RegisterInput) (*auth.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*auth.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, in auth.LoginInput) (*auth.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*auth.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockAuthService) TelegramLinkCode(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockGrievanceService struct {
	mock.Mock
}

func (m *MockGrievanceService) ListMine(ctx context.Context, userID string) ([]models.Grievance, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.Grievance)
	return list, args.Error(1)
}

func (m *MockGrievanceService) Get(ctx context.Context, id string, requester *models.User) (*models.Grievance, error) {
	args := m.Called(ctx, id, requester)
	g, _ := args.Get(0).(*models.Grievance)
	return g, args.Error(1)
}

func (m *MockGrievanceService) History(ctx context.Context, id string, requester *models.User) ([]models.GrievanceStatusHistory, error) {
	args := m.Called(ctx, id, requester)
	h, _ := args.Get(0).([]models.GrievanceStatusHistory)
	return h, args.Error(1)
}

func (m *MockGrievanceService) ListAll(ctx context.Context, f analysis.Filter) ([]models.Grievance, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]models.Grievance)
	return list, args.Error(1)
}

func (m *MockGrievanceService) UpdateStatus(ctx context.Context, id string, change grievance.StatusChange, admin *models.User) (*models.Grievance, error) {
	args := m.Called(ctx, id, change, admin)
	g, _ := args.Get(0).(*models.Grievance)
	return g, args.Error(1)
}

func (m *MockGrievanceService) Analytics(ctx context.Context) (analysis.Summary, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(analysis.Summary)
	return s, args.Error(1)
}

type MockInserter struct {
	mock.Mock
}

func (m *MockInserter) Insert(ctx context.Context, g *models.Grievance) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

// memDrafts keeps wizard drafts in memory.
type memDrafts struct {
	mu     sync.Mutex
	drafts map[string][]byte
	locks  map[string]string
	tokens int
}

func newMemDrafts() *memDrafts {
	return &memDrafts{drafts: map[string][]byte{}, locks: map[string]string{}}
}

func (s *memDrafts) SaveDraft(_ context.Context, userID string, data []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = data
	return nil
}

func (s *memDrafts) LoadDraft(_ context.Context, userID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.drafts[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (s *memDrafts) DeleteDraft(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}

func (s *memDrafts) AcquireDraftLock(_ context.Context, userID string, _ time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.locks[userID]; held {
		return "", false, nil
	}
	s.tokens++
	token := fmt.Sprintf("token-%d", s.tokens)
	s.locks[userID] = token
	return token, true, nil
}

func (s *memDrafts) ReleaseDraftLock(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[userID] == token {
		delete(s.locks, userID)
	}
	return nil
}

func (s *memDrafts) has(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.drafts[userID]
	return ok
}
