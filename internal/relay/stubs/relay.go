package stubs

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mockabot/internal/models"
	"mockabot/internal/relay"
)

// Method names recorded by Relay
const (
	MethodSend   = "sendMessage"
	MethodClone  = "cloneMessage"
	MethodDelete = "deleteMessage"
	MethodChat   = "getChat"
	MethodMe     = "getMe"
	MethodLeave  = "leaveChat"
)

// Call is one recorded relay call
type Call struct {
	Method    string
	Token     string
	ChatID    int64
	MessageID int
	Text      string
	ReplyTo   int
	Keyboard  models.Keyboard
	Handle    string
	Kind      models.ContentKind
}

// Relay is an in-memory relay.Relay that records every call
type Relay struct {
	mu       sync.Mutex
	calls    []Call
	nextID   int
	chats    map[string]int64
	bots     map[string]string
	failures map[string]error
	chatErrs map[int64]error
	latency  time.Duration
}

// NewRelay creates an empty stub relay. Sent messages get ids above 1000.
func NewRelay() *Relay {
	return &Relay{
		nextID:   1000,
		chats:    make(map[string]int64),
		bots:     make(map[string]string),
		failures: make(map[string]error),
		chatErrs: make(map[int64]error),
	}
}

// AddChat makes GetChat resolve handle to id
func (r *Relay) AddChat(handle string, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[models.NormalizeHandle(handle)] = id
}

// AddBot makes GetMe answer username for token
func (r *Relay) AddBot(token, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bots[token] = username
}

// FailOn makes every call of method return err until cleared with a nil err
func (r *Relay) FailOn(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, method)
		return
	}
	r.failures[method] = err
}

// FailChat makes every send or clone to chatID return err
func (r *Relay) FailChat(chatID int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.chatErrs, chatID)
		return
	}
	r.chatErrs[chatID] = err
}

// SetLatency delays every call by d
func (r *Relay) SetLatency(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latency = d
}

// Calls returns a copy of all recorded calls
func (r *Relay) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsOf returns the recorded calls of one method
func (r *Relay) CallsOf(method string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// record waits for the configured latency, stores call and returns the
// injected failure, if any
func (r *Relay) record(ctx context.Context, call Call) error {
	r.mu.Lock()
	latency := r.latency
	r.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if err, ok := r.chatErrs[call.ChatID]; ok && (call.Method == MethodSend || call.Method == MethodClone) {
		return err
	}
	return r.failures[call.Method]
}

func (r *Relay) sent(chatID int64) models.Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return models.Sent{ChatID: chatID, MessageID: r.nextID}
}

func (r *Relay) SendMessage(ctx context.Context, token string, msg models.OutgoingMessage) (models.Sent, error) {
	err := r.record(ctx, Call{
		Method:   MethodSend,
		Token:    token,
		ChatID:   msg.ChatID,
		Text:     msg.Text,
		ReplyTo:  msg.ReplyToMessageID,
		Keyboard: msg.Keyboard,
	})
	if err != nil {
		return models.Sent{}, err
	}
	return r.sent(msg.ChatID), nil
}

func (r *Relay) CloneMessage(ctx context.Context, token string, chatID int64, src *tgbotapi.Message, kb models.Keyboard, replyTo int) (models.Sent, error) {
	if _, err := relay.CloneConfig(chatID, src, kb, replyTo); err != nil {
		return models.Sent{}, err
	}
	kind, _ := models.ContentOf(src)
	err := r.record(ctx, Call{
		Method:    MethodClone,
		Token:     token,
		ChatID:    chatID,
		MessageID: src.MessageID,
		Text:      src.Text,
		ReplyTo:   replyTo,
		Keyboard:  kb,
		Kind:      kind,
	})
	if err != nil {
		return models.Sent{}, err
	}
	return r.sent(chatID), nil
}

func (r *Relay) DeleteMessage(ctx context.Context, token string, chatID int64, messageID int) error {
	return r.record(ctx, Call{Method: MethodDelete, Token: token, ChatID: chatID, MessageID: messageID})
}

func (r *Relay) GetChat(ctx context.Context, token, handle string) (int64, error) {
	if err := r.record(ctx, Call{Method: MethodChat, Token: token, Handle: handle}); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.chats[models.NormalizeHandle(handle)]
	if !ok {
		return 0, &relay.APIError{Code: 400, Description: "Bad Request: chat not found"}
	}
	return id, nil
}

func (r *Relay) GetMe(ctx context.Context, token string) (string, error) {
	if err := r.record(ctx, Call{Method: MethodMe, Token: token}); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	username, ok := r.bots[token]
	if !ok {
		return "", &relay.APIError{Code: 401, Description: "Unauthorized"}
	}
	return username, nil
}

func (r *Relay) LeaveChat(ctx context.Context, token string, chatID int64) error {
	return r.record(ctx, Call{Method: MethodLeave, Token: token, ChatID: chatID})
}

var _ relay.Relay = (*Relay)(nil)
