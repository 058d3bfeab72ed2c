package notifier

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/suitekeep/concert-updater/internal/telegram"
)

// digestThreshold is the number of added concerts above which a single digest
// message is sent instead of one message per concert.
const digestThreshold = 3

type messageSender interface {
	SendMessage(ctx context.Context, text string) error
}

// TelegramNotifier announces added concerts in a Telegram chat
type TelegramNotifier struct {
	client messageSender
	loc    *time.Location
}

// NewTelegramNotifier creates a Telegram notifier using environment variables
// Required environment variables:
// - TELEGRAM_BOT_TOKEN
// - TELEGRAM_CHAT_ID
func NewTelegramNotifier(loc *time.Location) (*TelegramNotifier, error) {
	client, err := telegram.NewClient(os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_CHAT_ID"))
	if err != nil {
		return nil, fmt.Errorf("creating Telegram client: %w", err)
	}
	return &TelegramNotifier{client: client, loc: loc}, nil
}

// Notify sends one message per added concert, or a digest when many were
// added at once.
func (n *TelegramNotifier) Notify(report *Report) error {
	ctx := context.Background()

	if len(report.Added) > digestThreshold {
		if err := n.client.SendMessage(ctx, telegram.FormatDigest(report.Added, n.loc)); err != nil {
			return fmt.Errorf("failed to send digest: %w", err)
		}
		return nil
	}

	for _, c := range report.Added {
		if err := n.client.SendMessage(ctx, telegram.FormatConcert(c, n.loc)); err != nil {
			return fmt.Errorf("failed to send message for concert %d: %w", c.ID, err)
		}
	}
	return nil
}
