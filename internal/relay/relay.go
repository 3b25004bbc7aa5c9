package relay

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mockabot/internal/models"
)

// ErrNotClonable is returned for a message whose content cannot be re-sent
var ErrNotClonable = errors.New("message content cannot be cloned")

// Relay performs Bot API calls on behalf of any bot whose token is known.
// Every call names the token explicitly.
type Relay interface {
	SendMessage(ctx context.Context, token string, msg models.OutgoingMessage) (models.Sent, error)
	CloneMessage(ctx context.Context, token string, chatID int64, src *tgbotapi.Message, kb models.Keyboard, replyTo int) (models.Sent, error)
	DeleteMessage(ctx context.Context, token string, chatID int64, messageID int) error
	GetChat(ctx context.Context, token, handle string) (int64, error)
	GetMe(ctx context.Context, token string) (string, error)
	LeaveChat(ctx context.Context, token string, chatID int64) error
}

// APIError is a well-formed error response of the Bot API
type APIError struct {
	Code        int
	Description string
	// RetryAfter is the flood wait in seconds, 0 when not rate limited
	RetryAfter int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

// IsAPIError reports whether err carries a structured Bot API error
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// AsAPIError extracts the structured Bot API error from err
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// wrapError turns tgbotapi errors into *APIError and wraps everything else
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return &APIError{Code: tgErr.Code, Description: tgErr.Message, RetryAfter: tgErr.RetryAfter}
	}
	var tgVal tgbotapi.Error
	if errors.As(err, &tgVal) {
		return &APIError{Code: tgVal.Code, Description: tgVal.Message, RetryAfter: tgVal.RetryAfter}
	}
	return fmt.Errorf("%s: %w", op, err)
}
