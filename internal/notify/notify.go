// Package notify pushes short operational alerts to event admins.
package notify

import (
	"context"
	"fmt"
	"log"

	"event-portal/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers an alert to the admin channel
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// NewNotifier returns a Telegram notifier when a bot token and chat are
// configured, and a log notifier otherwise.
func NewNotifier(cfg config.TelegramConfig) (Notifier, error) {
	if cfg.BotToken == "" || cfg.AdminChatID == 0 {
		return LogNotifier{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Printf("Telegram notifications enabled as @%s", bot.Self.UserName)

	return &TelegramNotifier{bot: bot, chatID: cfg.AdminChatID}, nil
}

// TelegramNotifier posts alerts to a single admin chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// LogNotifier writes alerts to the process log
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, text string) error {
	log.Printf("[notify] %s", text)
	return nil
}

// Registration formats the alert sent when someone registers
func Registration(name, email, role, finalPrice string) string {
	return fmt.Sprintf("New %s registration: %s <%s>, payable %s", role, name, email, finalPrice)
}

// SponsorRequest formats the alert sent for an inbound sponsorship enquiry
func SponsorRequest(company, contact, tier string) string {
	if tier == "" {
		tier = "unspecified"
	}
	return fmt.Sprintf("Sponsor request from %s (%s), tier %s", company, contact, tier)
}
