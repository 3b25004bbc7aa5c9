package bot

import (
	"go.uber.org/zap"

	"mockabot/internal/models"
	"mockabot/internal/relay"
	"mockabot/internal/storage"
)

// NewBot creates the handler of one bot identity. cache must not be shared
// with another identity.
func NewBot(identity models.Identity, r relay.Relay, cache storage.Storage, logger *zap.Logger) *Bot {
	logger = logger.With(zap.String("bot_username", identity.Username))
	logger.Info("Bot created")

	return &Bot{
		identity: identity,
		relay:    r,
		cache:    cache,
		logger:   logger,
	}
}

// Identity returns the bot's default identity
func (b *Bot) Identity() models.Identity {
	return b.identity
}
