package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd("1.2.3")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mockabot 1.2.3\n", out)
}

func TestSecretCommand(t *testing.T) {
	out, err := run(t, "secret")
	require.NoError(t, err)

	_, err = uuid.Parse(strings.TrimSpace(out))
	assert.NoError(t, err)
}

func TestWebhookSetNeedsWebhookMode(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_BOT_USERNAME", "mockabot")
	t.Setenv("WEBHOOK_MODE", "false")
	t.Setenv("BOTS_FILE", "")

	_, err := run(t, "webhook", "set", "--url", "https://example.org")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBHOOK_MODE")
}

func TestUnknownArgsRejected(t *testing.T) {
	_, err := run(t, "secret", "extra")
	assert.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://example.org/webhooks/telegram/mockabot/***",
		redactURL("https://example.org/webhooks/telegram/mockabot/s3cret"))
	assert.Equal(t, "nourl", redactURL("nourl"))
}
