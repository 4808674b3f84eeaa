// Package telegram runs the notification bot: it links Telegram chats to
// portal accounts and delivers grievance status updates.
package telegram

import (
	"context"
	"strings"

	"grievanceportal/backend/internal/localization"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const languageCallbackPrefix = "set_lang_"

// BotAPI is the subset of tgbotapi.BotAPI the bot loop uses.
type BotAPI interface {
	Sender
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// BotService receives Telegram updates and answers bot commands.
type BotService struct {
	API      BotAPI
	Commands *Commands
	Username string
	logger   *zap.Logger
}

// NewBotAPI authorizes against Telegram with token.
func NewBotAPI(token string, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	logger.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))
	return bot, nil
}

func NewBotService(api BotAPI, username string, commands *Commands, logger *zap.Logger) *BotService {
	return &BotService{API: api, Commands: commands, Username: username, logger: logger}
}

// Run receives updates until ctx is cancelled.
func (s *BotService) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.API.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		s.API.StopReceivingUpdates()
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("telegram bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			s.handleUpdate(ctx, update)
		}
	}
}

func (s *BotService) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		msg := update.Message
		if !msg.IsCommand() {
			s.HandleCommand(ctx, msg.Chat.ID, "help", "")
			return
		}
		s.HandleCommand(ctx, msg.Chat.ID, msg.Command(), msg.CommandArguments())
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		callback := tgbotapi.NewCallback(update.CallbackQuery.ID, "")
		if _, err := s.API.Request(callback); err != nil {
			s.logger.Warn("failed to answer callback query", zap.Error(err))
		}
		s.HandleCallback(ctx, update.CallbackQuery.Message.Chat.ID, update.CallbackQuery.Data)
	}
}

// HandleCommand answers one bot command sent from chatID.
func (s *BotService) HandleCommand(ctx context.Context, chatID int64, command, args string) {
	switch command {
	case "start":
		s.reply(chatID, s.Commands.Start(ctx, chatID, args))
	case "mine":
		s.reply(chatID, s.Commands.Mine(ctx, chatID))
	case "help":
		s.reply(chatID, s.Commands.Help(ctx, chatID))
	case "language":
		msg := tgbotapi.NewMessage(chatID, s.Commands.LanguagePrompt(ctx, chatID))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("English", languageCallbackPrefix+"en"),
				tgbotapi.NewInlineKeyboardButtonData("Українська", languageCallbackPrefix+"uk"),
			),
		)
		s.send(msg)
	default:
		s.reply(chatID, s.Commands.Unknown(ctx, chatID))
	}
}

// HandleCallback handles inline keyboard presses.
func (s *BotService) HandleCallback(ctx context.Context, chatID int64, data string) {
	lang, ok := strings.CutPrefix(data, languageCallbackPrefix)
	if !ok {
		s.logger.Debug("ignoring unknown callback", zap.String("data", data))
		return
	}
	if lang != "en" && lang != "uk" {
		lang = localization.DefaultLanguage
	}
	s.reply(chatID, s.Commands.SetLanguage(ctx, chatID, lang))
}

func (s *BotService) reply(chatID int64, text string) {
	s.send(tgbotapi.NewMessage(chatID, text))
}

func (s *BotService) send(msg tgbotapi.MessageConfig) {
	if _, err := s.API.Send(msg); err != nil {
		s.logger.Warn("failed to send telegram message", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}
