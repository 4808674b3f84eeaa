package telegram

import (
	"context"
	"errors"
	"fmt"

	"grievanceportal/backend/internal/localization"
	"grievanceportal/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of tgbotapi.BotAPI used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier delivers grievance status changes to linked Telegram chats.
type Notifier struct {
	Sender    Sender
	Localizer *localization.Localizer
}

func NewNotifier(sender Sender, l *localization.Localizer) *Notifier {
	return &Notifier{Sender: sender, Localizer: l}
}

func (n *Notifier) NotifyStatusChange(ctx context.Context, user *models.User, g *models.Grievance) error {
	if !user.HasTelegram() {
		return errors.New("telegram: user has no linked chat")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(*user.TelegramChatID, n.StatusText(user.Language, g))
	if _, err := n.Sender.Send(msg); err != nil {
		return fmt.Errorf("telegram: send status update for %s: %w", g.Code, err)
	}
	return nil
}

// StatusText renders the notification for g in lang.
func (n *Notifier) StatusText(lang string, g *models.Grievance) string {
	status := n.Localizer.GetString(lang, fmt.Sprintf("status_%s", g.Status))
	text := n.Localizer.Format(lang, "status_changed", g.Code, g.Title, status)
	if g.ResolutionComments != nil && *g.ResolutionComments != "" {
		text += "\n\n" + n.Localizer.Format(lang, "resolution_comments", *g.ResolutionComments)
	}
	return text
}
