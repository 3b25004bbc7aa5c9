package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mockabot/internal/app"
	"mockabot/internal/config"
	"mockabot/internal/relay"
)

func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mockabot",
		Short: "Mockabot - send messages as your Telegram bots",
		Long: `Mockabot relays messages through Telegram bots on your behalf.
Configuration comes from the environment (and .env if present).

Examples:
  mockabot serve
  mockabot serve --polling
  mockabot webhook info
  mockabot secret`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newWebhookCmd(),
		newSecretCmd(),
		newVersionCmd(version),
	)
	return rootCmd
}

func newServeCmd() *cobra.Command {
	var polling bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if polling {
				cfg.WebhookMode = false
			}

			application, err := app.New(cfg)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}
	cmd.Flags().BoolVar(&polling, "polling", false, "receive updates by long polling, ignoring WEBHOOK_MODE")
	return cmd
}

func newWebhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhooks of the configured bots",
	}

	var baseURL string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Point every bot's webhook at this gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return forEachBot(cmd.Context(), func(ctx context.Context, c *relay.Client, cfg *config.Config, b botRef) error {
				// Outside webhook mode the secrets are generated per run
				if !cfg.WebhookMode {
					return fmt.Errorf("WEBHOOK_MODE=true and explicit secrets are required")
				}
				base := baseURL
				if base == "" {
					base = cfg.WebhookURL
				}
				if base == "" {
					return fmt.Errorf("no base URL: pass --url or set WEBHOOK_URL")
				}
				if err := c.SetWebhook(ctx, b.token, relay.WebhookURL(base, b.username, b.secret)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "@%s: webhook set\n", b.username)
				return nil
			})
		},
	}
	setCmd.Flags().StringVar(&baseURL, "url", "", "public base URL (defaults to WEBHOOK_URL)")

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove every bot's webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return forEachBot(cmd.Context(), func(ctx context.Context, c *relay.Client, _ *config.Config, b botRef) error {
				if err := c.DeleteWebhook(ctx, b.token); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "@%s: webhook deleted\n", b.username)
				return nil
			})
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show every bot's webhook status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return forEachBot(cmd.Context(), func(ctx context.Context, c *relay.Client, _ *config.Config, b botRef) error {
				info, err := c.WebhookInfo(ctx, b.token)
				if err != nil {
					return err
				}
				url := info.URL
				if url == "" {
					url = "(none)"
				} else {
					url = redactURL(url)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "@%s: url=%s pending=%d", b.username, url, info.PendingUpdateCount)
				if info.LastErrorMessage != "" {
					fmt.Fprintf(out, " last_error=%q", info.LastErrorMessage)
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}

	cmd.AddCommand(setCmd, deleteCmd, infoCmd)
	return cmd
}

// botRef is what the webhook commands need from an identity
type botRef struct {
	username string
	token    string
	secret   string
}

// forEachBot loads the configuration and runs fn for every configured bot
func forEachBot(ctx context.Context, fn func(context.Context, *relay.Client, *config.Config, botRef) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger, err := app.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	client := relay.NewClient(cfg.APIEndpoint, cfg.RelayTimeout, logger)
	for _, identity := range cfg.Bots() {
		b := botRef{username: identity.Username, token: identity.Token, secret: identity.Secret}
		if err := fn(ctx, client, cfg, b); err != nil {
			return fmt.Errorf("@%s: %w", identity.Username, err)
		}
	}
	return nil
}

// redactURL hides the secret path segment of a webhook URL
func redactURL(url string) string {
	i := strings.LastIndex(url, "/")
	if i < 0 {
		return url
	}
	return url[:i+1] + "***"
}

func newSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Print a fresh webhook secret",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), uuid.NewString())
		},
	}
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mockabot %s\n", version)
		},
	}
}
