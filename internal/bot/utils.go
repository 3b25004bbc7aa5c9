package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mockabot/internal/models"
)

// sendNotice sends a message as the default identity
func (b *Bot) sendNotice(ctx context.Context, msg models.OutgoingMessage) (models.Sent, error) {
	sent, err := b.relay.SendMessage(ctx, b.identity.Token, msg)
	if err != nil {
		b.logger.Warn("Failed to send notice", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
		return models.Sent{}, fmt.Errorf("send notice: %w", err)
	}
	return sent, nil
}

// reply answers message in its own chat
func (b *Bot) reply(ctx context.Context, message *tgbotapi.Message, text string) (models.Sent, error) {
	return b.sendNotice(ctx, models.OutgoingMessage{
		ChatID:           message.Chat.ID,
		Text:             text,
		ReplyToMessageID: message.MessageID,
	})
}

// replyMarkdown answers message with Markdown formatting
func (b *Bot) replyMarkdown(ctx context.Context, message *tgbotapi.Message, text string) (models.Sent, error) {
	return b.sendNotice(ctx, models.OutgoingMessage{
		ChatID:           message.Chat.ID,
		Text:             text,
		ParseMode:        parseModeMarkdown,
		ReplyToMessageID: message.MessageID,
	})
}

// notify is reply for callers that only care about the error
func (b *Bot) notify(ctx context.Context, message *tgbotapi.Message, text string) error {
	_, err := b.reply(ctx, message, text)
	return err
}

func (b *Bot) notifyMarkdown(ctx context.Context, message *tgbotapi.Message, text string) error {
	_, err := b.replyMarkdown(ctx, message, text)
	return err
}

// deleteQuietly removes a message as the default identity. Failures are
// logged only.
func (b *Bot) deleteQuietly(ctx context.Context, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if err := b.relay.DeleteMessage(ctx, b.identity.Token, chatID, messageID); err != nil {
		b.logger.Warn("Failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}

// userFields describes who triggered an update
func userFields(user *tgbotapi.User) []zap.Field {
	if user == nil {
		return nil
	}
	return []zap.Field{
		zap.Int64("user_id", user.ID),
		zap.String("username", user.UserName),
		zap.String("first_name", user.FirstName),
	}
}

// chatFields describes the chat an update belongs to
func chatFields(chat *tgbotapi.Chat) []zap.Field {
	if chat == nil {
		return nil
	}
	return []zap.Field{
		zap.Int64("chat_id", chat.ID),
		zap.String("chat_type", chat.Type),
		zap.String("chat_title", chat.Title),
	}
}
