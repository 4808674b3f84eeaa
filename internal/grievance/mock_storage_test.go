package grievance_test

import (
	"context"
	"time"

	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) GetUserByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	args := m.Called(ctx, chatID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) SetUserTelegramChatID(ctx context.Context, userID string, chatID int64) error {
	args := m.Called(ctx, userID, chatID)
	return args.Error(0)
}

func (m *MockStorage) SetUserLanguage(ctx context.Context, userID, lang string) error {
	args := m.Called(ctx, userID, lang)
	return args.Error(0)
}

func (m *MockStorage) CreateGrievance(ctx context.Context, g *models.Grievance) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockStorage) GetGrievance(ctx context.Context, id string) (*models.Grievance, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*models.Grievance)
	return g, args.Error(1)
}

func (m *MockStorage) ListGrievances(ctx context.Context, q storage.GrievanceQuery) ([]models.Grievance, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).([]models.Grievance)
	return list, args.Error(1)
}

func (m *MockStorage) UpdateGrievanceStatus(ctx context.Context, u storage.StatusUpdate) (*models.Grievance, *models.GrievanceStatusHistory, error) {
	args := m.Called(ctx, u)
	g, _ := args.Get(0).(*models.Grievance)
	h, _ := args.Get(1).(*models.GrievanceStatusHistory)
	return g, h, args.Error(2)
}

func (m *MockStorage) ListStatusHistory(ctx context.Context, grievanceID string) ([]models.GrievanceStatusHistory, error) {
	args := m.Called(ctx, grievanceID)
	list, _ := args.Get(0).([]models.GrievanceStatusHistory)
	return list, args.Error(1)
}

func (m *MockStorage) SaveDraft(ctx context.Context, userID string, data []byte, ttl time.Duration) error {
	args := m.Called(ctx, userID, data, ttl)
	return args.Error(0)
}

func (m *MockStorage) LoadDraft(ctx context.Context, userID string) ([]byte, error) {
	args := m.Called(ctx, userID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockStorage) DeleteDraft(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockStorage) AcquireDraftLock(ctx context.Context, userID string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, userID, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStorage) ReleaseDraftLock(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *MockStorage) SaveTelegramLinkCode(ctx context.Context, code, userID string, ttl time.Duration) error {
	args := m.Called(ctx, code, userID, ttl)
	return args.Error(0)
}

func (m *MockStorage) ConsumeTelegramLinkCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) PublishEvent(ctx context.Context, event models.GrievanceEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
