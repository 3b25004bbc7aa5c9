package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mockabot/internal/relay"
)

// Deliverer accepts an update for a bot, authenticated by the bot's secret
type Deliverer interface {
	Deliver(username, secret string, u tgbotapi.Update) error
}

// Poll receives updates by long polling and hands them to d until ctx is
// done. It is meant for local development only.
func (b *Bot) Poll(ctx context.Context, client *relay.Client, d Deliverer) error {
	b.logger.Info("Starting bot in polling mode")

	// Remove webhook (if any was set previously)
	if err := client.DeleteWebhook(ctx, b.identity.Token); err != nil {
		b.logger.Warn("Failed to delete webhook", zap.Error(err))
	}

	api, err := client.Poller(b.identity.Token)
	if err != nil {
		return fmt.Errorf("start polling: %w", err)
	}
	updates := api.GetUpdatesChan(relay.PollConfig())

	b.logger.Info("Bot started successfully. Waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := d.Deliver(b.identity.Username, b.identity.Secret, u); err != nil {
				b.logger.Warn("Failed to deliver polled update", zap.Int("update_id", u.UpdateID), zap.Error(err))
			}
		}
	}
}

// StartWebhook registers the bot's webhook under baseURL
func (b *Bot) StartWebhook(ctx context.Context, client *relay.Client, baseURL string) error {
	b.logger.Info("Setting up webhook", zap.String("webhook_base_url", baseURL))

	link := relay.WebhookURL(baseURL, b.identity.Username, b.identity.Secret)
	if err := client.SetWebhook(ctx, b.identity.Token, link); err != nil {
		b.logger.Error("Failed to set webhook", zap.Error(err), zap.String("webhook_base_url", baseURL))
		return err
	}

	// Get webhook info to verify
	info, err := client.WebhookInfo(ctx, b.identity.Token)
	if err != nil {
		b.logger.Warn("Failed to get webhook info", zap.Error(err))
	} else {
		b.logger.Info("Webhook set successfully",
			zap.Int("pending_updates", info.PendingUpdateCount),
			zap.String("last_error", info.LastErrorMessage),
		)
	}
	return nil
}
