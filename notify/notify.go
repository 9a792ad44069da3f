// Package notify pushes a short Telegram message to the admin chat when a
// new order lands. It is optional: without a token the notifier is a no-op.
// Order status changes deliberately trigger no notifications.
package notify

import (
	"fmt"

	"kopikoni/config"
	"kopikoni/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *logrus.Logger
}

// New returns a ready notifier, or a no-op one when no token is configured.
func New(cfg config.TelegramConfig, log *logrus.Logger) (*Notifier, error) {
	if cfg.Token == "" || cfg.AdminChatID == 0 {
		return &Notifier{log: log}, nil
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Notifier{api: api, chatID: cfg.AdminChatID, log: log}, nil
}

// OrderPlaced sends the new-order summary. Best effort: failures are logged
// and never reach the customer.
func (n *Notifier) OrderPlaced(order *models.Order) {
	if n == nil || n.api == nil {
		return
	}
	text := fmt.Sprintf("New order #%d\nCustomer: %s\nTotal: Rp%d\nPayment: %s",
		order.ID, order.CustomerName, order.TotalAmount, order.PaymentMethod)
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.log.WithError(err).WithField("order_id", order.ID).Warn("order notification failed")
	}
}
