package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mockabot/internal/models"
)

const token = "1234567890:AAbbCCddEEffGGhhIIjjKKllMMnnOOppQQr"

type apiCall struct {
	token  string
	method string
	form   url.Values
}

// fakeTelegram answers Bot API calls with canned bodies keyed by method
type fakeTelegram struct {
	mu        sync.Mutex
	calls     []apiCall
	responses map[string]string
	status    map[string]int
}

func newFakeTelegram(t *testing.T) (*fakeTelegram, *Client) {
	t.Helper()
	f := &fakeTelegram{responses: make(map[string]string), status: make(map[string]int)}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, NewClient(srv.URL+"/bot%s/%s", 5*time.Second, zap.NewNop())
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/bot"), "/", 2)
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	_ = r.ParseForm()

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{token: parts[0], method: parts[1], form: r.PostForm})
	body, ok := f.responses[parts[1]]
	status := f.status[parts[1]]
	f.mu.Unlock()

	if !ok {
		body = `{"ok":true,"result":true}`
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (f *fakeTelegram) lastCall(t *testing.T) apiCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func TestClient_SendMessage(t *testing.T) {
	f, c := newFakeTelegram(t)
	f.responses["sendMessage"] = `{"ok":true,"result":{"message_id":77,"date":0,"chat":{"id":42,"type":"private"}}}`

	sent, err := c.SendMessage(context.Background(), token, models.OutgoingMessage{
		ChatID:           42,
		Text:             "hello",
		ReplyToMessageID: 5,
		Keyboard:         models.Keyboard{{{Text: "Yes", Data: "Yes"}, {Text: "No", Data: "No"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.Sent{ChatID: 42, MessageID: 77}, sent)

	call := f.lastCall(t)
	assert.Equal(t, token, call.token)
	assert.Equal(t, "sendMessage", call.method)
	assert.Equal(t, "42", call.form.Get("chat_id"))
	assert.Equal(t, "hello", call.form.Get("text"))
	assert.Equal(t, "5", call.form.Get("reply_to_message_id"))
	assert.Contains(t, call.form.Get("reply_markup"), `"callback_data":"Yes"`)
	assert.Contains(t, call.form.Get("reply_markup"), `"callback_data":"No"`)
}

func TestClient_SendMessageWithoutKeyboardSendsNoMarkup(t *testing.T) {
	f, c := newFakeTelegram(t)
	f.responses["sendMessage"] = `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`

	_, err := c.SendMessage(context.Background(), token, models.OutgoingMessage{ChatID: 42, Text: "hi"})
	require.NoError(t, err)
	assert.Empty(t, f.lastCall(t).form.Get("reply_markup"))
}

func TestClient_APIErrorIsStructured(t *testing.T) {
	f, c := newFakeTelegram(t)
	f.responses["sendMessage"] = `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`
	f.status["sendMessage"] = http.StatusBadRequest

	_, err := c.SendMessage(context.Background(), token, models.OutgoingMessage{ChatID: 1, Text: "x"})
	require.Error(t, err)
	assert.True(t, IsAPIError(err))

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "Bad Request: chat not found", apiErr.Description)
}

func TestClient_TransportErrorIsNotAPIError(t *testing.T) {
	f, c := newFakeTelegram(t)
	f.responses["getMe"] = `<html>bad gateway</html>`
	f.status["getMe"] = http.StatusBadGateway

	_, err := c.GetMe(context.Background(), token)
	require.Error(t, err)
	assert.False(t, IsAPIError(err))
}

func TestClient_CancelledContext(t *testing.T) {
	_, c := newFakeTelegram(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.DeleteMessage(ctx, token, 1, 2)
	require.Error(t, err)
	assert.False(t, IsAPIError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_GetChatAddsAtSign(t *testing.T) {
	f, c := newFakeTelegram(t)
	f.responses["getChat"] = `{"ok":true,"result":{"id":-1001234,"type":"supergroup","username":"my_group"}}`

	id, err := c.GetChat(context.Background(), token, "my_group")
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234), id)
	assert.Equal(t, "@my_group", f.lastCall(t).form.Get("chat_id"))
}

func TestClient_GetMe(t *testing.T) {
	f, c := newFakeTelegram(t)
	f.responses["getMe"] = `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Demo","username":"demo_bot"}}`

	username, err := c.GetMe(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "demo_bot", username)
}

func TestClient_DeleteAndLeave(t *testing.T) {
	f, c := newFakeTelegram(t)

	require.NoError(t, c.DeleteMessage(context.Background(), token, 42, 9))
	call := f.lastCall(t)
	assert.Equal(t, "deleteMessage", call.method)
	assert.Equal(t, "42", call.form.Get("chat_id"))
	assert.Equal(t, "9", call.form.Get("message_id"))

	require.NoError(t, c.LeaveChat(context.Background(), token, -100))
	call = f.lastCall(t)
	assert.Equal(t, "leaveChat", call.method)
	assert.Equal(t, "-100", call.form.Get("chat_id"))
}

func TestClient_ClonePhotoUsesLargestSize(t *testing.T) {
	f, c := newFakeTelegram(t)
	f.responses["sendPhoto"] = `{"ok":true,"result":{"message_id":3,"date":0,"chat":{"id":42,"type":"group"}}}`

	src := &tgbotapi.Message{
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", Width: 90, Height: 90},
			{FileID: "large", Width: 1280, Height: 960},
			{FileID: "medium", Width: 320, Height: 240},
		},
		Caption: "look",
	}
	sent, err := c.CloneMessage(context.Background(), token, 42, src, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, sent.MessageID)

	call := f.lastCall(t)
	assert.Equal(t, "sendPhoto", call.method)
	assert.Equal(t, "large", call.form.Get("photo"))
	assert.Equal(t, "look", call.form.Get("caption"))
}

func TestClient_SetWebhook(t *testing.T) {
	f, c := newFakeTelegram(t)

	link := WebhookURL("https://example.org/", "@MockaBot", "s3cret")
	assert.Equal(t, "https://example.org/webhooks/telegram/MockaBot/s3cret", link)

	require.NoError(t, c.SetWebhook(context.Background(), token, link))
	call := f.lastCall(t)
	assert.Equal(t, "setWebhook", call.method)
	assert.Equal(t, link, call.form.Get("url"))
}
