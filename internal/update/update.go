package update

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mockabot/internal/models"
)

// Kind is the lifecycle category of an update
type Kind int

const (
	KindIgnore Kind = iota
	KindPrivateStart
	KindPrivateBlocked
	KindPrivateMessage
	KindGroupJoin
	KindGroupLeave
	KindGroupMessage
	KindChannelPromoted
	KindChannelLeave
	KindChannelPost
)

var kindNames = map[Kind]string{
	KindIgnore:          "ignore",
	KindPrivateStart:    "start-command",
	KindPrivateBlocked:  "blocked",
	KindPrivateMessage:  "message",
	KindGroupJoin:       "bot-joined-group",
	KindGroupLeave:      "bot-left-group",
	KindGroupMessage:    "message",
	KindChannelPromoted: "bot-promoted",
	KindChannelLeave:    "bot-left-channel",
	KindChannelPost:     "channel-post-message",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Chat member statuses reported in my_chat_member updates
const (
	StatusKicked        = "kicked"
	StatusLeft          = "left"
	StatusAdministrator = "administrator"
)

// Event is an update tagged with its lifecycle kind
type Event struct {
	Kind   Kind
	ChatID int64
	Update tgbotapi.Update
}

// ChatOf returns the chat an update belongs to, if any
func ChatOf(u tgbotapi.Update) (*tgbotapi.Chat, bool) {
	switch {
	case u.Message != nil && u.Message.Chat != nil:
		return u.Message.Chat, true
	case u.MyChatMember != nil:
		return &u.MyChatMember.Chat, true
	case u.ChannelPost != nil && u.ChannelPost.Chat != nil:
		return u.ChannelPost.Chat, true
	}
	return nil, false
}

// Classify maps an update received by botUsername to its lifecycle kind.
// Checks run in a fixed priority order per chat type and the first match wins.
func Classify(u tgbotapi.Update, botUsername string) Event {
	chat, ok := ChatOf(u)
	if !ok {
		return Event{Kind: KindIgnore, Update: u}
	}

	var text string
	var members []tgbotapi.User
	if u.Message != nil {
		text = u.Message.Text
		members = u.Message.NewChatMembers
	}

	var status string
	if u.MyChatMember != nil {
		status = u.MyChatMember.NewChatMember.Status
	}

	ev := Event{Kind: KindIgnore, ChatID: chat.ID, Update: u}

	switch chat.Type {
	case "private":
		switch {
		case text == "/start":
			ev.Kind = KindPrivateStart
		case status == StatusKicked:
			ev.Kind = KindPrivateBlocked
		case models.HasContent(u.Message):
			ev.Kind = KindPrivateMessage
		}

	case "group", "supergroup":
		switch {
		case containsUser(members, botUsername):
			ev.Kind = KindGroupJoin
		case status == StatusLeft:
			ev.Kind = KindGroupLeave
		case models.HasContent(u.Message):
			ev.Kind = KindGroupMessage
		}

	case "channel":
		switch {
		case status == StatusAdministrator:
			ev.Kind = KindChannelPromoted
		case status == StatusLeft:
			ev.Kind = KindChannelLeave
		case models.HasContent(u.ChannelPost):
			ev.Kind = KindChannelPost
		}
	}

	return ev
}

func containsUser(users []tgbotapi.User, username string) bool {
	want := models.NormalizeHandle(username)
	if want == "" {
		return false
	}
	for _, u := range users {
		if models.NormalizeHandle(u.UserName) == want {
			return true
		}
	}
	return false
}

// Handler receives classified updates, one method per lifecycle kind
type Handler interface {
	OnPrivateStart(ctx context.Context, u tgbotapi.Update) error
	OnPrivateBlocked(ctx context.Context, u tgbotapi.Update) error
	OnPrivateMessage(ctx context.Context, u tgbotapi.Update) error
	OnGroupJoin(ctx context.Context, u tgbotapi.Update) error
	OnGroupLeave(ctx context.Context, u tgbotapi.Update) error
	OnGroupMessage(ctx context.Context, u tgbotapi.Update) error
	OnChannelPromoted(ctx context.Context, u tgbotapi.Update) error
	OnChannelLeave(ctx context.Context, u tgbotapi.Update) error
	OnChannelPost(ctx context.Context, u tgbotapi.Update) error
}

// Dispatch calls the handler method matching the event kind
func Dispatch(ctx context.Context, h Handler, ev Event) error {
	switch ev.Kind {
	case KindPrivateStart:
		return h.OnPrivateStart(ctx, ev.Update)
	case KindPrivateBlocked:
		return h.OnPrivateBlocked(ctx, ev.Update)
	case KindPrivateMessage:
		return h.OnPrivateMessage(ctx, ev.Update)
	case KindGroupJoin:
		return h.OnGroupJoin(ctx, ev.Update)
	case KindGroupLeave:
		return h.OnGroupLeave(ctx, ev.Update)
	case KindGroupMessage:
		return h.OnGroupMessage(ctx, ev.Update)
	case KindChannelPromoted:
		return h.OnChannelPromoted(ctx, ev.Update)
	case KindChannelLeave:
		return h.OnChannelLeave(ctx, ev.Update)
	case KindChannelPost:
		return h.OnChannelPost(ctx, ev.Update)
	}
	return nil
}
