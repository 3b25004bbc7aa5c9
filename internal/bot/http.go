package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mockabot/internal/registry"
)

// maxUpdateSize bounds a webhook request body
const maxUpdateSize = 1 << 20

// HTTPServer serves the Telegram webhook and health endpoints
type HTTPServer struct {
	deliverer   Deliverer
	logger      *zap.Logger
	webhookMode bool
}

// NewHTTPServer creates the HTTP handlers. webhookMode only changes what the
// index page reports.
func NewHTTPServer(d Deliverer, logger *zap.Logger, webhookMode bool) *HTTPServer {
	return &HTTPServer{
		deliverer:   d,
		logger:      logger,
		webhookMode: webhookMode,
	}
}

// RegisterRoutes registers the routes on the provided mux
func (hs *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", hs.handleHealth)
	mux.HandleFunc("GET /{$}", hs.handleIndex)
	mux.HandleFunc("POST /webhooks/telegram/{username}/{secret}", hs.handleWebhook)
}

func (hs *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (hs *HTTPServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	mode := "polling"
	if hs.webhookMode {
		mode = "webhook"
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Mockabot is running (mode: %s)", mode)
}

// handleWebhook accepts one update. Processing happens on the chat's queue,
// so the response does not wait for it.
func (hs *HTTPServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	secret := r.PathValue("secret")

	var u tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateSize)).Decode(&u); err != nil {
		hs.logger.Warn("Failed to decode webhook update",
			zap.Error(err),
			zap.String("bot_username", username),
			zap.String("remote_addr", r.RemoteAddr),
		)
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if err := hs.deliverer.Deliver(username, secret, u); err != nil {
		if errors.Is(err, registry.ErrNotAuthorized) {
			hs.logger.Warn("Unauthorized webhook request",
				zap.String("bot_username", username),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		hs.logger.Error("Failed to deliver webhook update", zap.Error(err), zap.String("bot_username", username))
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"ok":true}`)
}

// redactSecret hides the secret segment of a webhook path for logging
func redactSecret(path string) string {
	const prefix = "/webhooks/telegram/"
	if !strings.HasPrefix(path, prefix) {
		return path
	}
	parts := strings.SplitN(strings.TrimPrefix(path, prefix), "/", 2)
	if len(parts) != 2 {
		return path
	}
	return prefix + parts[0] + "/***"
}

// LogRequests logs every request with the webhook secret redacted
func (hs *HTTPServer) LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hs.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", redactSecret(r.URL.Path)),
			zap.String("remote_addr", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}
