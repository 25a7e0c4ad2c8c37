package services

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"tuntun/internal/models"
)

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramService pushes receipts and digests into the owner's chat.
type TelegramService struct {
	bot    botSender
	chatID int64
	log    *zap.Logger
}

func NewTelegramService(botToken string, chatID int64, log *zap.Logger) (*TelegramService, error) {
	log = log.Named("telegram")
	if botToken == "" || chatID == 0 {
		log.Info("telegram disabled: token or chat id empty")
		return &TelegramService{log: log}, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	log.Info("telegram authorized", zap.String("bot", bot.Self.UserName))
	return &TelegramService{bot: bot, chatID: chatID, log: log}, nil
}

func (t *TelegramService) enabled() bool {
	return t != nil && t.bot != nil && t.chatID != 0
}

// NotifyOwner sends plain text.
func (t *TelegramService) NotifyOwner(_ context.Context, text string) error {
	if !t.enabled() {
		return nil
	}
	return t.send(tgbotapi.NewMessage(t.chatID, text))
}

func (t *TelegramService) PaymentRecorded(_ context.Context, client *models.Client, payment *models.Payment) error {
	if !t.enabled() {
		return nil
	}
	text := fmt.Sprintf("<b>Payment received</b>\n%s (%s)\n%s: %s",
		html.EscapeString(client.ClientName),
		html.EscapeString(client.AccountNumber),
		html.EscapeString(payment.Title),
		payment.Amount.StringFixed(2))
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return t.send(msg)
}

func (t *TelegramService) send(msg tgbotapi.MessageConfig) error {
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	t.log.Debug("message sent", zap.Int64("chat_id", t.chatID))
	return nil
}
