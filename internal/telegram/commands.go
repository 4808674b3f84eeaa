package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/localization"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"

	"go.uber.org/zap"
)

// BotStorage defines the storage methods the bot commands need.
type BotStorage interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error)
	SetUserTelegramChatID(ctx context.Context, userID string, chatID int64) error
	SetUserLanguage(ctx context.Context, userID, lang string) error
	ConsumeTelegramLinkCode(ctx context.Context, code string) (string, error)
	ListGrievances(ctx context.Context, q storage.GrievanceQuery) ([]models.Grievance, error)
}

// Commands turns bot commands into reply texts. It never talks to
// Telegram itself.
type Commands struct {
	Storage   BotStorage
	Localizer *localization.Localizer
	Logger    *zap.Logger
}

func NewCommands(s BotStorage, l *localization.Localizer, logger *zap.Logger) *Commands {
	return &Commands{Storage: s, Localizer: l, Logger: logger}
}

// Start handles "/start" and "/start <code>". With a code it links the chat
// to the account the code was issued for.
func (c *Commands) Start(ctx context.Context, chatID int64, args string) string {
	code := strings.ToUpper(strings.TrimSpace(args))
	if code == "" {
		user, err := c.Storage.GetUserByTelegramChatID(ctx, chatID)
		if err != nil {
			return c.text(ctx, chatID, "start_help")
		}
		return c.Localizer.Format(user.Language, "already_linked", user.Email)
	}

	userID, err := c.Storage.ConsumeTelegramLinkCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return c.text(ctx, chatID, "link_invalid")
	}
	if err != nil {
		c.Logger.Error("failed to consume link code", zap.Int64("chat_id", chatID), zap.Error(err))
		return c.text(ctx, chatID, "link_failed")
	}

	if err := c.Storage.SetUserTelegramChatID(ctx, userID, chatID); err != nil {
		c.Logger.Error("failed to link telegram chat", zap.String("user_id", userID), zap.Error(err))
		return c.text(ctx, chatID, "link_failed")
	}
	user, err := c.Storage.GetUserByID(ctx, userID)
	if err != nil {
		c.Logger.Error("failed to load linked user", zap.String("user_id", userID), zap.Error(err))
		return c.text(ctx, chatID, "link_failed")
	}

	c.Logger.Info("telegram chat linked", zap.String("user_id", userID), zap.Int64("chat_id", chatID))
	return c.Localizer.Format(user.Language, "link_success", user.FullName)
}

// Mine lists the latest grievances of the linked user.
func (c *Commands) Mine(ctx context.Context, chatID int64) string {
	user, err := c.Storage.GetUserByTelegramChatID(ctx, chatID)
	if err != nil {
		return c.Localizer.GetString(localization.DefaultLanguage, "not_linked")
	}

	list, err := c.Storage.ListGrievances(ctx, storage.GrievanceQuery{
		SubmittedBy: user.ID,
		Limit:       config.BotListLimit,
	})
	if err != nil {
		c.Logger.Error("failed to list grievances for bot", zap.String("user_id", user.ID), zap.Error(err))
		return c.Localizer.GetString(user.Language, "link_failed")
	}
	if len(list) == 0 {
		return c.Localizer.GetString(user.Language, "mine_empty")
	}

	var b strings.Builder
	b.WriteString(c.Localizer.GetString(user.Language, "mine_header"))
	for _, g := range list {
		b.WriteString("\n")
		b.WriteString(c.Localizer.Format(user.Language, "mine_line", g.Code, g.Title, c.status(user.Language, g.Status)))
	}
	return b.String()
}

// Help lists the available commands.
func (c *Commands) Help(ctx context.Context, chatID int64) string {
	return c.text(ctx, chatID, "help")
}

// Unknown replies to any other command.
func (c *Commands) Unknown(ctx context.Context, chatID int64) string {
	return c.text(ctx, chatID, "unknown_command")
}

// LanguagePrompt is shown above the language keyboard.
func (c *Commands) LanguagePrompt(ctx context.Context, chatID int64) string {
	return c.text(ctx, chatID, "language_prompt")
}

// SetLanguage stores the language picked on the keyboard.
func (c *Commands) SetLanguage(ctx context.Context, chatID int64, lang string) string {
	user, err := c.Storage.GetUserByTelegramChatID(ctx, chatID)
	if err != nil {
		return c.Localizer.GetString(localization.DefaultLanguage, "not_linked")
	}
	if err := c.Storage.SetUserLanguage(ctx, user.ID, lang); err != nil {
		c.Logger.Error("failed to update user language", zap.String("user_id", user.ID), zap.Error(err))
		return c.Localizer.GetString(user.Language, "link_failed")
	}
	return c.Localizer.GetString(lang, "language_changed")
}

// text renders key in the language of the user linked to chatID, or in the
// default language for unknown chats.
func (c *Commands) text(ctx context.Context, chatID int64, key string) string {
	lang := localization.DefaultLanguage
	if user, err := c.Storage.GetUserByTelegramChatID(ctx, chatID); err == nil {
		lang = user.Language
	}
	return c.Localizer.GetString(lang, key)
}

func (c *Commands) status(lang string, st models.Status) string {
	return c.Localizer.GetString(lang, fmt.Sprintf("status_%s", st))
}
