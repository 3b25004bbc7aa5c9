package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mockabot/internal/command"
)

// OnPrivateMessage handles a message in a private chat with the bot
func (b *Bot) OnPrivateMessage(ctx context.Context, u tgbotapi.Update) error {
	return b.handleMessage(ctx, u.Message)
}

// OnGroupMessage handles a message in a group the bot is a member of
func (b *Bot) OnGroupMessage(ctx context.Context, u tgbotapi.Update) error {
	return b.handleMessage(ctx, u.Message)
}

// handleMessage processes a single message
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) (err error) {
	if message == nil || message.Chat == nil {
		return nil
	}

	// Recover from panics so one bad message only fails its own task
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage",
				zap.Any("panic", r),
				zap.Int64("chat_id", message.Chat.ID),
				zap.Int("message_id", message.MessageID),
			)
			_ = b.notify(ctx, message, textInternal)
			err = fmt.Errorf("panic in handleMessage: %v", r)
		}
	}()

	cmd, err := command.Parse(message.Text)
	if errors.Is(err, command.ErrNotCommand) {
		return nil
	}
	if cmd.Mention != "" && cmd.Mention != b.identity.Handle() {
		// Addressed to another bot in the same group
		return nil
	}

	b.logger.Debug("Command received",
		zap.String("command", cmd.Name),
		zap.Int64("chat_id", message.Chat.ID),
		zap.Int("message_id", message.MessageID),
	)

	if err != nil {
		return b.notifyMarkdown(ctx, message, usageFor(cmd.Name))
	}

	switch cmd.Name {
	case "start", "help":
		return b.handleHelp(ctx, message)
	case "chatid":
		return b.handleChatID(ctx, message)
	case "messageid":
		return b.handleMessageID(ctx, message)
	case "connect":
		return b.handleConnect(ctx, message, cmd)
	case "send":
		return b.handleSend(ctx, message, cmd, false)
	case "reply":
		return b.handleSend(ctx, message, cmd, true)
	case "replyto":
		return b.handleReplyTo(ctx, message, cmd)
	case "clearcache":
		return b.handleClearCache(ctx, message)
	default:
		// Groups see commands meant for other bots
		if message.Chat.IsPrivate() {
			return b.notify(ctx, message, textUnknown)
		}
		return nil
	}
}

func usageFor(name string) string {
	switch name {
	case "connect":
		return usageConnect
	case "reply":
		return usageReply
	case "replyto":
		return usageReplyTo
	default:
		return usageSend
	}
}
