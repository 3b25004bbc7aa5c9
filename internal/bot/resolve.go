package bot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mockabot/internal/command"
	"mockabot/internal/models"
)

var errBotNotConnected = errors.New("bot not connected")

// resolveBot picks the token to relay with: an explicit token, a connected
// handle, the bot's own handle, the chat's most recent bot, then the default
// identity. entry may be nil.
func (b *Bot) resolveBot(entry *models.ChatEntry, ref command.BotRef) (string, error) {
	switch {
	case ref.Token != "":
		return ref.Token, nil
	case ref.Handle != "":
		if token, ok := entry.TokenFor(ref.Handle); ok {
			return token, nil
		}
		if ref.Handle == b.identity.Handle() {
			return b.identity.Token, nil
		}
		return "", fmt.Errorf("%s: %w", ref.Handle, errBotNotConnected)
	}

	if token, ok := entry.RecentBotToken(); ok {
		return token, nil
	}
	return b.identity.Token, nil
}

// resolveChat picks the destination chat: a handle looked up with token, an
// explicit id, the chat's most recent destination when useRecent is set, then
// the issuing chat.
func (b *Bot) resolveChat(ctx context.Context, entry *models.ChatEntry, token string, ref command.ChatRef, issuing int64, useRecent bool) (int64, error) {
	switch {
	case ref.Handle != "":
		id, err := b.relay.GetChat(ctx, token, ref.Handle)
		if err != nil {
			return 0, fmt.Errorf("resolve chat %s: %w", ref.Handle, err)
		}
		return id, nil
	case ref.ID != 0:
		return ref.ID, nil
	}

	if useRecent {
		if id, ok := entry.RecentChatID(); ok {
			return id, nil
		}
	}
	return issuing, nil
}

// rememberIdentity caches the username of a token after a successful relay.
// The default identity and already known tokens cost no lookup.
func (b *Bot) rememberIdentity(ctx context.Context, entry *models.ChatEntry, token string) {
	if token == b.identity.Token {
		return
	}
	if _, ok := entry.UsernameFor(token); ok {
		return
	}

	username, err := b.relay.GetMe(ctx, token)
	if err != nil {
		b.logger.Warn("Failed to look up bot identity", zap.Error(err))
		return
	}
	entry.Remember(token, username)
}
