package telegram_test

import (
	"context"
	"testing"
	"time"

	"grievanceportal/backend/internal/localization"
	"grievanceportal/backend/internal/storage"
	"grievanceportal/backend/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newBot(t *testing.T) (*telegram.BotService, *MockBotAPI, *MockBotStorage, *localization.Localizer) {
	t.Helper()
	commands, s, l := newCommands(t)
	api := new(MockBotAPI)
	return telegram.NewBotService(api, "grievance_bot", commands, zap.NewNop()), api, s, l
}

func TestHandleCommand_Help(t *testing.T) {
	bot, api, s, l := newBot(t)
	s.On("GetUserByTelegramChatID", mock.Anything, chatID).Return(nil, storage.ErrNotFound)
	api.On("Send", message(chatID, func(text string) bool { return text == l.GetString("en", "help") })).Return(nil)

	bot.HandleCommand(context.Background(), chatID, "help", "")

	api.AssertExpectations(t)
}

func TestHandleCommand_Unknown(t *testing.T) {
	bot, api, s, l := newBot(t)
	s.On("GetUserByTelegramChatID", mock.Anything, chatID).Return(linkedUser("uk"), nil)
	api.On("Send", message(chatID, func(text string) bool { return text == l.GetString("uk", "unknown_command") })).Return(nil)

	bot.HandleCommand(context.Background(), chatID, "spoiler_on", "")

	api.AssertExpectations(t)
}

func TestHandleCommand_LanguageShowsKeyboard(t *testing.T) {
	bot, api, s, _ := newBot(t)
	s.On("GetUserByTelegramChatID", mock.Anything, chatID).Return(linkedUser("en"), nil)
	api.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		if !ok {
			return false
		}
		markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		return ok && len(markup.InlineKeyboard) == 1 && len(markup.InlineKeyboard[0]) == 2
	})).Return(nil)

	bot.HandleCommand(context.Background(), chatID, "language", "")

	api.AssertExpectations(t)
}

func TestHandleCallback(t *testing.T) {
	t.Run("language", func(t *testing.T) {
		bot, api, s, _ := newBot(t)
		s.On("GetUserByTelegramChatID", mock.Anything, chatID).Return(linkedUser("en"), nil)
		s.On("SetUserLanguage", mock.Anything, "user-1", "uk").Return(nil)
		api.On("Send", message(chatID, func(text string) bool { return text == "Мову змінено." })).Return(nil)

		bot.HandleCallback(context.Background(), chatID, "set_lang_uk")

		api.AssertExpectations(t)
	})

	t.Run("unsupported language falls back to en", func(t *testing.T) {
		bot, api, s, _ := newBot(t)
		s.On("GetUserByTelegramChatID", mock.Anything, chatID).Return(linkedUser("uk"), nil)
		s.On("SetUserLanguage", mock.Anything, "user-1", "en").Return(nil)
		api.On("Send", mock.Anything).Return(nil)

		bot.HandleCallback(context.Background(), chatID, "set_lang_xx")

		s.AssertExpectations(t)
	})

	t.Run("other data is ignored", func(t *testing.T) {
		bot, api, s, _ := newBot(t)

		bot.HandleCallback(context.Background(), chatID, "report_Critical")

		api.AssertNotCalled(t, "Send", mock.Anything)
		s.AssertNotCalled(t, "SetUserLanguage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRun_StopsOnCancel(t *testing.T) {
	// Arrange
	bot, api, _, _ := newBot(t)
	updates := make(chan tgbotapi.Update)
	stopped := make(chan struct{})
	api.On("GetUpdatesChan", mock.Anything).Return(tgbotapi.UpdatesChannel(updates))
	api.On("StopReceivingUpdates").Run(func(mock.Arguments) { close(stopped) }).Return()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bot.Run(ctx)
		close(done)
	}()

	// Act
	cancel()

	// Assert
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bot did not stop")
	}
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("updates were not stopped")
	}
	require.True(t, api.AssertCalled(t, "GetUpdatesChan", mock.Anything))
	assert.Equal(t, "grievance_bot", bot.Username)
}
