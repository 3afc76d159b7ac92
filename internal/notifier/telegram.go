// Package notifier pushes investigation completion messages to Telegram.
package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/tomkidron/DigitalFootprintInvestigator/internal/config"
)

// TelegramNotifier sends one-way messages to a fixed chat. It never listens
// for updates; the investigator has no interactive commands.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier returns nil, nil when notifications are disabled or no
// token is configured. Callers must treat a nil notifier as "do not notify".
func NewTelegramNotifier(cfg *config.Config, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Notifications.Enabled || cfg.Notifications.TelegramBotToken == "" {
		logger.Info("Telegram notifications are disabled (notifications.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifications.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram bot authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:    botAPI,
		chatID: cfg.Notifications.TelegramChatID,
		logger: logger,
	}, nil
}

// Notify sends the message to the configured chat.
func (n *TelegramNotifier) Notify(ctx context.Context, message string) error {
	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send notification",
			zap.Int64("chat_id", n.chatID),
			zap.Error(err))
		return fmt.Errorf("failed to send notification: %w", err)
	}
	n.logger.Info("Completion notification sent", zap.Int64("chat_id", n.chatID))
	return nil
}
