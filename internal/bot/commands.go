package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mockabot/internal/command"
	"mockabot/internal/relay"
)

// handleHelp shows the command reference
func (b *Bot) handleHelp(ctx context.Context, message *tgbotapi.Message) error {
	return b.notify(ctx, message, helpText)
}

// handleChatID replies with the id of the current chat
func (b *Bot) handleChatID(ctx context.Context, message *tgbotapi.Message) error {
	return b.notify(ctx, message, strconv.FormatInt(message.Chat.ID, 10))
}

// handleMessageID replies with the id of the replied-to message
func (b *Bot) handleMessageID(ctx context.Context, message *tgbotapi.Message) error {
	if message.ReplyToMessage == nil {
		return b.notify(ctx, message, usageMessageID)
	}
	return b.notify(ctx, message, strconv.Itoa(message.ReplyToMessage.MessageID))
}

// handleConnect caches a bot token under the bot's username
func (b *Bot) handleConnect(ctx context.Context, message *tgbotapi.Message, cmd command.Command) error {
	if !message.Chat.IsPrivate() {
		return b.notify(ctx, message, textConnectPrivate)
	}
	if len(cmd.Args) != 1 || !command.IsBotToken(cmd.Args[0]) {
		return b.notifyMarkdown(ctx, message, usageConnect)
	}
	token := cmd.Args[0]

	username, err := b.relay.GetMe(ctx, token)
	if err != nil {
		if relay.IsAPIError(err) {
			b.logger.Info("Connect rejected", zap.Int64("chat_id", message.Chat.ID), zap.Error(err))
			return b.notify(ctx, message, textConnectFailed)
		}
		return fmt.Errorf("look up bot: %w", err)
	}

	entry := b.cache.Entry(message.Chat.ID)
	entry.Remember(token, username)

	handle, _ := entry.UsernameFor(token)
	b.logger.Info("Bot connected",
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("connected_bot", handle),
	)
	return b.notify(ctx, message, fmt.Sprintf(
		"Connected bot %s. You can now use the bot's username instead of the token for all requests.", handle))
}

// handleClearCache forgets everything remembered for the current chat
func (b *Bot) handleClearCache(ctx context.Context, message *tgbotapi.Message) error {
	b.cache.Clear(message.Chat.ID)
	b.logger.Info("Cache cleared",
		zap.Int64("chat_id", message.Chat.ID),
		zap.Int("cached_chats", b.cache.Len()),
	)
	return b.notify(ctx, message, textCacheClear)
}
