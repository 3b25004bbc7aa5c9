package relay

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mockabot/internal/models"
)

// DefaultTimeout bounds a single Bot API call
const DefaultTimeout = 30 * time.Second

// pollTimeout is the long polling timeout in seconds
const pollTimeout = 50

// contextClient binds every request of a BotAPI to one context
type contextClient struct {
	ctx    context.Context
	client *http.Client
}

func (c contextClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(c.ctx))
}

// Client is the Bot API backed Relay
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a relay client. endpoint is a tgbotapi endpoint format
// such as tgbotapi.APIEndpoint; empty means the public Bot API.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// api returns a BotAPI for token whose requests follow ctx. Building the
// struct directly skips the getMe call tgbotapi.NewBotAPI makes.
func (c *Client) api(ctx context.Context, token string) *tgbotapi.BotAPI {
	api := &tgbotapi.BotAPI{
		Token:  token,
		Client: contextClient{ctx: ctx, client: c.httpClient},
		Buffer: 100,
	}
	api.SetAPIEndpoint(c.endpoint)
	return api
}

// Poller returns a BotAPI suitable for long polling with GetUpdatesChan
func (c *Client) Poller(token string) (*tgbotapi.BotAPI, error) {
	client := &http.Client{Timeout: (pollTimeout + 10) * time.Second}
	api, err := tgbotapi.NewBotAPIWithClient(token, c.endpoint, client)
	if err != nil {
		return nil, wrapError("create poller", err)
	}
	return api, nil
}

// PollConfig is the getUpdates configuration used by Poller consumers
func PollConfig() tgbotapi.UpdateConfig {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	return u
}

func (c *Client) send(ctx context.Context, token string, op string, cfg tgbotapi.Chattable, chatID int64) (models.Sent, error) {
	m, err := c.api(ctx, token).Send(cfg)
	if err != nil {
		c.logger.Debug("Relay call failed", zap.String("op", op), zap.Int64("chat_id", chatID), zap.Error(err))
		return models.Sent{}, wrapError(op, err)
	}

	sent := models.Sent{ChatID: chatID, MessageID: m.MessageID}
	if m.Chat != nil {
		sent.ChatID = m.Chat.ID
	}
	c.logger.Debug("Relay call succeeded",
		zap.String("op", op),
		zap.Int64("chat_id", sent.ChatID),
		zap.Int("message_id", sent.MessageID),
	)
	return sent, nil
}

// SendMessage sends a text message as the bot owning token
func (c *Client) SendMessage(ctx context.Context, token string, msg models.OutgoingMessage) (models.Sent, error) {
	cfg := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	cfg.ParseMode = msg.ParseMode
	cfg.ReplyToMessageID = msg.ReplyToMessageID
	if markup := InlineKeyboard(msg.Keyboard); markup != nil {
		cfg.ReplyMarkup = *markup
	}
	return c.send(ctx, token, "send message", cfg, msg.ChatID)
}

// CloneMessage re-sends src's content to chatID as the bot owning token
func (c *Client) CloneMessage(ctx context.Context, token string, chatID int64, src *tgbotapi.Message, kb models.Keyboard, replyTo int) (models.Sent, error) {
	cfg, err := CloneConfig(chatID, src, kb, replyTo)
	if err != nil {
		return models.Sent{}, err
	}
	return c.send(ctx, token, "clone message", cfg, chatID)
}

// DeleteMessage deletes a message the bot owning token can delete
func (c *Client) DeleteMessage(ctx context.Context, token string, chatID int64, messageID int) error {
	_, err := c.api(ctx, token).Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return wrapError("delete message", err)
}

// GetChat resolves a public chat handle to its id
func (c *Client) GetChat(ctx context.Context, token, handle string) (int64, error) {
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	chat, err := c.api(ctx, token).GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{SuperGroupUsername: handle},
	})
	if err != nil {
		return 0, wrapError("get chat", err)
	}
	return chat.ID, nil
}

// GetMe returns the username of the bot owning token
func (c *Client) GetMe(ctx context.Context, token string) (string, error) {
	user, err := c.api(ctx, token).GetMe()
	if err != nil {
		return "", wrapError("get me", err)
	}
	return user.UserName, nil
}

// LeaveChat makes the bot owning token leave chatID
func (c *Client) LeaveChat(ctx context.Context, token string, chatID int64) error {
	_, err := c.api(ctx, token).Request(tgbotapi.LeaveChatConfig{ChatID: chatID})
	return wrapError("leave chat", err)
}

// SetWebhook points the bot's webhook at link
func (c *Client) SetWebhook(ctx context.Context, token, link string) error {
	cfg, err := tgbotapi.NewWebhook(link)
	if err != nil {
		return fmt.Errorf("parse webhook url: %w", err)
	}
	cfg.MaxConnections = 40

	_, err = c.api(ctx, token).Request(cfg)
	return wrapError("set webhook", err)
}

// DeleteWebhook removes the bot's webhook so polling can be used
func (c *Client) DeleteWebhook(ctx context.Context, token string) error {
	_, err := c.api(ctx, token).Request(tgbotapi.DeleteWebhookConfig{})
	return wrapError("delete webhook", err)
}

// WebhookInfo reports the bot's current webhook registration
func (c *Client) WebhookInfo(ctx context.Context, token string) (tgbotapi.WebhookInfo, error) {
	info, err := c.api(ctx, token).GetWebhookInfo()
	if err != nil {
		return tgbotapi.WebhookInfo{}, wrapError("get webhook info", err)
	}
	return info, nil
}

// WebhookURL is where Telegram delivers updates for one bot
func WebhookURL(base, username, secret string) string {
	return fmt.Sprintf("%s/webhooks/telegram/%s/%s",
		strings.TrimRight(base, "/"), strings.TrimPrefix(username, "@"), secret)
}

var _ Relay = (*Client)(nil)
