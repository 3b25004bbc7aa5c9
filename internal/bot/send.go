package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mockabot/internal/command"
	"mockabot/internal/models"
	"mockabot/internal/relay"
)

// handleSend relays a message for /send and /reply. A replied-to message is
// cloned; otherwise the quoted text is sent.
func (b *Bot) handleSend(ctx context.Context, message *tgbotapi.Message, cmd command.Command, isReply bool) error {
	usage := usageSend
	if isReply {
		usage = usageReply
	}

	source := message.ReplyToMessage
	if source == nil && !cmd.HasText {
		return b.notifyMarkdown(ctx, message, usage)
	}
	target, err := command.ParseTarget(cmd.Args)
	if err != nil {
		return b.notifyMarkdown(ctx, message, usage)
	}

	issuing := message.Chat.ID
	entry := b.cache.Peek(issuing)

	token, err := b.resolveBot(entry, target.Bot)
	if err != nil {
		return b.notifyResolveError(ctx, message, target, err)
	}
	chatID, err := b.resolveChat(ctx, entry, token, target.Chat, issuing, true)
	if err != nil {
		return b.notifyResolveError(ctx, message, target, err)
	}

	var record models.ReplyTarget
	if isReply {
		var ok bool
		record, ok = entry.ReplyTargetFor(chatID)
		if !ok {
			return b.notify(ctx, message, fmt.Sprintf(
				"Reply target not set for chat %d. Use /replyto to choose the message to reply to.", chatID))
		}
	}

	if source != nil && !models.Clonable(source) {
		return b.notify(ctx, message, textNotClonable)
	}

	var sent models.Sent
	if source != nil {
		sent, err = b.relay.CloneMessage(ctx, token, chatID, source, cmd.Keyboard, record.MessageID)
	} else {
		sent, err = b.relay.SendMessage(ctx, token, models.OutgoingMessage{
			ChatID:           chatID,
			Text:             cmd.Text,
			ReplyToMessageID: record.MessageID,
			Keyboard:         cmd.Keyboard,
		})
	}
	if err != nil {
		if apiErr, ok := relay.AsAPIError(err); ok {
			b.logger.Info("Message not sent",
				zap.Int64("chat_id", issuing),
				zap.Int64("target_chat_id", chatID),
				zap.Int("error_code", apiErr.Code),
				zap.String("description", apiErr.Description),
				zap.Int("retry_after", apiErr.RetryAfter),
			)
			return b.notify(ctx, message, textNotSent+"\n"+apiErr.Description)
		}
		return fmt.Errorf("relay message to %d: %w", chatID, err)
	}

	b.logger.Info("Message sent",
		zap.Int64("chat_id", issuing),
		zap.Int64("target_chat_id", sent.ChatID),
		zap.Int("message_id", sent.MessageID),
		zap.Bool("cloned", source != nil),
	)

	// The relay succeeded, so the cache may now change
	entry = b.cache.Entry(issuing)
	entry.SetRecent(token, chatID)
	b.rememberIdentity(ctx, entry, token)
	if isReply {
		b.deleteQuietly(ctx, issuing, record.CommandMessageID)
		b.deleteQuietly(ctx, issuing, record.StatusMessageID)
		entry.ClearReplyTarget(chatID)
	}

	return b.notify(ctx, message, textSent)
}

// handleReplyTo records the message a later /reply answers
func (b *Bot) handleReplyTo(ctx context.Context, message *tgbotapi.Message, cmd command.Command) error {
	args := cmd.Args
	var messageID int
	if message.ReplyToMessage != nil {
		messageID = message.ReplyToMessage.MessageID
	} else if len(args) > 0 {
		if id, err := strconv.Atoi(args[0]); err == nil && id > 0 {
			messageID = id
			args = args[1:]
		}
	}
	if messageID == 0 {
		return b.notifyMarkdown(ctx, message, usageReplyTo)
	}

	target, err := command.ParseTarget(args)
	if err != nil {
		return b.notifyMarkdown(ctx, message, usageReplyTo)
	}

	issuing := message.Chat.ID
	token, err := b.resolveBot(b.cache.Peek(issuing), target.Bot)
	if err != nil {
		return b.notifyResolveError(ctx, message, target, err)
	}
	chatID, err := b.resolveChat(ctx, b.cache.Peek(issuing), token, target.Chat, issuing, false)
	if err != nil {
		return b.notifyResolveError(ctx, message, target, err)
	}

	entry := b.cache.Entry(issuing)
	if old, ok := entry.ReplyTargetFor(chatID); ok {
		b.deleteQuietly(ctx, issuing, old.CommandMessageID)
		b.deleteQuietly(ctx, issuing, old.StatusMessageID)
	}
	entry.SetReplyTarget(chatID, models.ReplyTarget{
		MessageID:        messageID,
		CommandMessageID: message.MessageID,
	})

	status, err := b.reply(ctx, message, fmt.Sprintf(
		"Reply target set to message %d in chat %d. Use /reply to answer it.", messageID, chatID))
	if err != nil {
		return err
	}
	if record, ok := entry.ReplyTargetFor(chatID); ok {
		record.StatusMessageID = status.MessageID
		entry.SetReplyTarget(chatID, record)
	}
	return nil
}

// notifyResolveError reports a bot or chat that could not be resolved
func (b *Bot) notifyResolveError(ctx context.Context, message *tgbotapi.Message, target command.Target, err error) error {
	if errors.Is(err, errBotNotConnected) {
		return b.notifyMarkdown(ctx, message, fmt.Sprintf(
			"Bot `%s` is not connected. Please use `/connect <BOT TOKEN>` to connect this bot first.", target.Bot.Handle))
	}
	if apiErr, ok := relay.AsAPIError(err); ok {
		return b.notify(ctx, message, fmt.Sprintf("Chat %s not found: %s", target.Chat.Handle, apiErr.Description))
	}
	return err
}
