package registry

import (
	"context"
	"crypto/subtle"
	"errors"
	"sort"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"mockabot/internal/queue"
	"mockabot/internal/update"
)

// ErrNotAuthorized is returned for an unknown bot or a wrong secret
var ErrNotAuthorized = errors.New("not authorized")

// registeredBot is one configured bot and the queues of the chats it serves
type registeredBot struct {
	username string
	secret   string
	handler  update.Handler

	mu     sync.Mutex
	queues map[int64]*queue.Queue
}

// Registry maps bot usernames to their handler and per-chat queues
type Registry struct {
	ctx    context.Context
	logger *zap.Logger

	mu   sync.RWMutex
	bots map[string]*registeredBot
}

// New creates an empty registry. ctx is handed to every task.
func New(ctx context.Context, logger *zap.Logger) *Registry {
	return &Registry{
		ctx:    ctx,
		logger: logger,
		bots:   make(map[string]*registeredBot),
	}
}

func key(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

// Register stores a bot. Registering the same username again replaces the
// previous definition, queues included.
func (r *Registry) Register(username, secret string, h update.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bots[key(username)] = &registeredBot{
		username: strings.TrimPrefix(username, "@"),
		secret:   secret,
		handler:  h,
		queues:   make(map[int64]*queue.Queue),
	}
	r.logger.Info("Bot registered", zap.String("bot_username", username))
}

// Usernames returns the registered bot usernames, sorted
func (r *Registry) Usernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bots))
	for _, b := range r.bots {
		names = append(names, b.username)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) authorize(username, secret string) (*registeredBot, error) {
	r.mu.RLock()
	b, ok := r.bots[key(username)]
	r.mu.RUnlock()

	if !ok || subtle.ConstantTimeCompare([]byte(b.secret), []byte(secret)) != 1 {
		return nil, ErrNotAuthorized
	}
	return b, nil
}

// QueueFor returns the queue of a chat, creating it on first use. It returns
// ErrNotAuthorized, and creates nothing, if the secret does not match.
func (r *Registry) QueueFor(username, secret string, chatID int64) (*queue.Queue, error) {
	b, err := r.authorize(username, secret)
	if err != nil {
		return nil, err
	}
	return r.queueOf(b, chatID), nil
}

func (r *Registry) queueOf(b *registeredBot, chatID int64) *queue.Queue {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[chatID]
	if !ok {
		q = queue.New(r.ctx, r.logger.With(
			zap.String("bot_username", b.username),
			zap.Int64("chat_id", chatID),
		))
		b.queues[chatID] = q
	}
	return q
}

// Deliver authenticates an update and enqueues it on its chat's queue.
// Updates that belong to no chat are dropped.
func (r *Registry) Deliver(username, secret string, u tgbotapi.Update) error {
	b, err := r.authorize(username, secret)
	if err != nil {
		r.logger.Warn("Rejected update", zap.String("bot_username", username), zap.Int("update_id", u.UpdateID))
		return err
	}

	chat, ok := update.ChatOf(u)
	if !ok {
		r.logger.Debug("Update without chat ignored", zap.String("bot_username", username), zap.Int("update_id", u.UpdateID))
		return nil
	}

	q := r.queueOf(b, chat.ID)
	q.Enqueue(func(ctx context.Context) error {
		ev := update.Classify(u, b.username)
		r.logger.Debug("Processing update",
			zap.String("bot_username", b.username),
			zap.Int64("chat_id", ev.ChatID),
			zap.Int("update_id", u.UpdateID),
			zap.Stringer("kind", ev.Kind),
		)
		return update.Dispatch(ctx, b.handler, ev)
	})
	return nil
}

// Wait blocks until every queue is idle or ctx is done
func (r *Registry) Wait(ctx context.Context) error {
	r.mu.RLock()
	var queues []*queue.Queue
	for _, b := range r.bots {
		b.mu.Lock()
		for _, q := range b.queues {
			queues = append(queues, q)
		}
		b.mu.Unlock()
	}
	r.mu.RUnlock()

	for _, q := range queues {
		if err := q.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
