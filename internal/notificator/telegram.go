package notificator

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"

	"github.com/core-coin/walletsync/pkg/logger"
)

type TelegramNotificator struct {
	logger *logger.Logger
	bot    *bot.Bot

	chatID string
}

// NewTelegramNotificator connects the bot and starts polling for updates until ctx is done.
func NewTelegramNotificator(ctx context.Context, logger *logger.Logger, token, chatID string) (*TelegramNotificator, error) {
	provider := &TelegramNotificator{
		logger: logger,
		chatID: chatID,
	}
	opts := []bot.Option{
		bot.WithDefaultHandler(provider.handler),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	go b.Start(ctx)
	provider.bot = b

	return provider, nil
}

func (t *TelegramNotificator) Channel() string {
	return "telegram"
}

func (t *TelegramNotificator) Send(ctx context.Context, message string) error {
	params := &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   message,
	}
	if _, err := t.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// handler answers /chatid so operators can find the id to put in TELEGRAM_CHAT_ID.
func (t *TelegramNotificator) handler(ctx context.Context, b *bot.Bot, update *tgModels.Update) {
	if update.Message == nil {
		return
	}
	t.logger.Debugw("Telegram update", "chat_id", update.Message.Chat.ID, "text", update.Message.Text)
	if update.Message.Text != "/chatid" {
		return
	}
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   fmt.Sprintf("Chat ID: %d", update.Message.Chat.ID),
	})
	if err != nil {
		t.logger.Errorw("Failed to answer /chatid", "error", err)
	}
}
