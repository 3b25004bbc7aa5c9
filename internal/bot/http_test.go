package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mockabot/internal/registry"
	"mockabot/internal/relay/stubs"
)

const sendUpdate = `{
	"update_id": 1,
	"message": {
		"message_id": 1,
		"date": 0,
		"from": {"id": 7, "first_name": "Ann"},
		"chat": {"id": 10, "type": "private"},
		"text": "/send \"hello\" 123456789"
	}
}`

func newTestServer(t *testing.T) (*httptest.Server, *registry.Registry, *stubs.Relay) {
	t.Helper()
	b, r, _ := newTestBot(t)

	reg := registry.New(context.Background(), zap.NewNop())
	reg.Register(b.identity.Username, b.identity.Secret, b)

	mux := http.NewServeMux()
	hs := NewHTTPServer(reg, zap.NewNop(), true)
	hs.RegisterRoutes(mux)

	srv := httptest.NewServer(hs.LogRequests(mux))
	t.Cleanup(srv.Close)
	return srv, reg, r
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHTTPServer_WebhookDeliversUpdate(t *testing.T) {
	srv, reg, r := newTestServer(t)

	resp := post(t, srv.URL+"/webhooks/telegram/mockabot/s3cret", sendUpdate)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, reg.Wait(ctx))

	sends := r.CallsOf(stubs.MethodSend)
	require.Len(t, sends, 2)
	assert.Equal(t, int64(123456789), sends[0].ChatID)
	assert.Equal(t, "hello", sends[0].Text)
	assert.Equal(t, textSent, sends[1].Text)
}

func TestHTTPServer_WrongSecretIsUnauthorized(t *testing.T) {
	srv, reg, r := newTestServer(t)

	resp := post(t, srv.URL+"/webhooks/telegram/mockabot/wrong", sendUpdate)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post(t, srv.URL+"/webhooks/telegram/unknown_bot/s3cret", sendUpdate)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	require.NoError(t, reg.Wait(context.Background()))
	assert.Empty(t, r.Calls())
}

func TestHTTPServer_BadBody(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := post(t, srv.URL+"/webhooks/telegram/mockabot/s3cret", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_HealthAndMethods(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/webhooks/telegram/mockabot/s3cret")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRedactSecret(t *testing.T) {
	assert.Equal(t, "/webhooks/telegram/mockabot/***", redactSecret("/webhooks/telegram/mockabot/s3cret"))
	assert.Equal(t, "/health", redactSecret("/health"))
}
