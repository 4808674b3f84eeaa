package telegram_test

import (
	"context"

	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

type MockBotStorage struct {
	mock.Mock
}

func (m *MockBotStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockBotStorage) GetUserByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	args := m.Called(ctx, chatID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockBotStorage) SetUserTelegramChatID(ctx context.Context, userID string, chatID int64) error {
	args := m.Called(ctx, userID, chatID)
	return args.Error(0)
}

func (m *MockBotStorage) SetUserLanguage(ctx context.Context, userID, lang string) error {
	args := m.Called(ctx, userID, lang)
	return args.Error(0)
}

func (m *MockBotStorage) ConsumeTelegramLinkCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockBotStorage) ListGrievances(ctx context.Context, q storage.GrievanceQuery) ([]models.Grievance, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).([]models.Grievance)
	return list, args.Error(1)
}

type MockBotAPI struct {
	mock.Mock
}

func (m *MockBotAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

func (m *MockBotAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	args := m.Called(c)
	return &tgbotapi.APIResponse{Ok: true}, args.Error(0)
}

func (m *MockBotAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	args := m.Called(config)
	return args.Get(0).(tgbotapi.UpdatesChannel)
}

func (m *MockBotAPI) StopReceivingUpdates() {
	m.Called()
}

// message matches a text message to chatID whose text satisfies check.
func message(chatID int64, check func(text string) bool) any {
	return mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.ChatID == chatID && check(msg.Text)
	})
}
