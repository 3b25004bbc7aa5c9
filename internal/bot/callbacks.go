package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mockabot/internal/models"
)

// OnPrivateStart greets a user who started a private chat
func (b *Bot) OnPrivateStart(ctx context.Context, u tgbotapi.Update) error {
	message := u.Message
	name := "there"
	if message.From != nil && message.From.FirstName != "" {
		name = message.From.FirstName
	}

	b.logger.Info("Private chat started", userFields(message.From)...)
	_, err := b.sendNotice(ctx, models.OutgoingMessage{
		ChatID: message.Chat.ID,
		Text:   fmt.Sprintf(tutorialText, name),
	})
	return err
}

// OnPrivateBlocked logs a user blocking the bot
func (b *Bot) OnPrivateBlocked(ctx context.Context, u tgbotapi.Update) error {
	b.logger.Info("Bot blocked by user", userFields(&u.MyChatMember.From)...)
	return nil
}

// OnGroupJoin logs the bot being added to a group
func (b *Bot) OnGroupJoin(ctx context.Context, u tgbotapi.Update) error {
	fields := append(chatFields(u.Message.Chat), userFields(u.Message.From)...)
	b.logger.Info("Bot joined group", fields...)
	return nil
}

// OnGroupLeave logs the bot being removed from a group
func (b *Bot) OnGroupLeave(ctx context.Context, u tgbotapi.Update) error {
	member := u.MyChatMember
	fields := append(chatFields(&member.Chat), userFields(&member.From)...)
	b.logger.Info("Bot removed from group", fields...)
	return nil
}

// OnChannelPromoted explains that channels are unsupported and leaves
func (b *Bot) OnChannelPromoted(ctx context.Context, u tgbotapi.Update) error {
	member := u.MyChatMember
	fields := append(chatFields(&member.Chat), userFields(&member.From)...)
	b.logger.Info("Bot added to channel", fields...)

	if _, err := b.sendNotice(ctx, models.OutgoingMessage{ChatID: member.Chat.ID, Text: textChannel}); err != nil {
		b.logger.Warn("Failed to explain channel leave", zap.Int64("chat_id", member.Chat.ID), zap.Error(err))
	}
	if err := b.relay.LeaveChat(ctx, b.identity.Token, member.Chat.ID); err != nil {
		return fmt.Errorf("leave channel %d: %w", member.Chat.ID, err)
	}
	return nil
}

// OnChannelLeave logs the bot being removed from a channel
func (b *Bot) OnChannelLeave(ctx context.Context, u tgbotapi.Update) error {
	member := u.MyChatMember
	fields := append(chatFields(&member.Chat), userFields(&member.From)...)
	b.logger.Info("Bot removed from channel", fields...)
	return nil
}

// OnChannelPost warns about the bot being used in a channel
func (b *Bot) OnChannelPost(ctx context.Context, u tgbotapi.Update) error {
	b.logger.Warn("Bot used in channel", chatFields(u.ChannelPost.Chat)...)
	return nil
}
