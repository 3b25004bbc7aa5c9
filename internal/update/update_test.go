package update

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const botUsername = "MockaBot"

func messageUpdate(chatType string, msg tgbotapi.Message) tgbotapi.Update {
	msg.Chat = &tgbotapi.Chat{ID: 42, Type: chatType}
	return tgbotapi.Update{Message: &msg}
}

func memberUpdate(chatType, status string) tgbotapi.Update {
	return tgbotapi.Update{
		MyChatMember: &tgbotapi.ChatMemberUpdated{
			Chat:          tgbotapi.Chat{ID: 42, Type: chatType},
			From:          tgbotapi.User{ID: 1, FirstName: "Ann"},
			NewChatMember: tgbotapi.ChatMember{Status: status},
		},
	}
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name   string
		update tgbotapi.Update
		kind   Kind
	}{
		{
			name:   "private start",
			update: messageUpdate("private", tgbotapi.Message{Text: "/start"}),
			kind:   KindPrivateStart,
		},
		{
			name:   "private start with payload is a message",
			update: messageUpdate("private", tgbotapi.Message{Text: "/start now"}),
			kind:   KindPrivateMessage,
		},
		{
			name:   "private blocked",
			update: memberUpdate("private", StatusKicked),
			kind:   KindPrivateBlocked,
		},
		{
			name:   "private unblocked is ignored",
			update: memberUpdate("private", "member"),
			kind:   KindIgnore,
		},
		{
			name:   "private photo",
			update: messageUpdate("private", tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "p"}}}),
			kind:   KindPrivateMessage,
		},
		{
			name: "group join by own username",
			update: messageUpdate("group", tgbotapi.Message{
				NewChatMembers: []tgbotapi.User{{UserName: "someone"}, {UserName: "mockabot"}},
			}),
			kind: KindGroupJoin,
		},
		{
			name: "group join of another member is ignored",
			update: messageUpdate("supergroup", tgbotapi.Message{
				NewChatMembers: []tgbotapi.User{{UserName: "someone"}},
			}),
			kind: KindIgnore,
		},
		{
			name:   "group left",
			update: memberUpdate("group", StatusLeft),
			kind:   KindGroupLeave,
		},
		{
			name:   "supergroup message",
			update: messageUpdate("supergroup", tgbotapi.Message{Text: "/send \"hi\""}),
			kind:   KindGroupMessage,
		},
		{
			name:   "channel promoted",
			update: memberUpdate("channel", StatusAdministrator),
			kind:   KindChannelPromoted,
		},
		{
			name:   "channel left",
			update: memberUpdate("channel", StatusLeft),
			kind:   KindChannelLeave,
		},
		{
			name: "channel post",
			update: tgbotapi.Update{ChannelPost: &tgbotapi.Message{
				Chat: &tgbotapi.Chat{ID: 42, Type: "channel"},
				Text: "news",
			}},
			kind: KindChannelPost,
		},
		{
			name:   "unknown chat type",
			update: messageUpdate("secret", tgbotapi.Message{Text: "hello"}),
			kind:   KindIgnore,
		},
		{
			name:   "update without chat",
			update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "q"}},
			kind:   KindIgnore,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ev := Classify(tc.update, botUsername)
			assert.Equal(t, tc.kind, ev.Kind, "got %s", ev.Kind)
		})
	}
}

func TestClassify_CarriesChatID(t *testing.T) {
	ev := Classify(memberUpdate("channel", StatusLeft), botUsername)
	assert.Equal(t, int64(42), ev.ChatID)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "start-command", KindPrivateStart.String())
	assert.Equal(t, "bot-promoted", KindChannelPromoted.String())
	assert.Equal(t, "ignore", KindIgnore.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

type recordingHandler struct {
	calls []string
	err   error
}

func (h *recordingHandler) record(name string) error {
	h.calls = append(h.calls, name)
	return h.err
}

func (h *recordingHandler) OnPrivateStart(ctx context.Context, u tgbotapi.Update) error {
	return h.record("private-start")
}

func (h *recordingHandler) OnPrivateBlocked(ctx context.Context, u tgbotapi.Update) error {
	return h.record("private-blocked")
}

func (h *recordingHandler) OnPrivateMessage(ctx context.Context, u tgbotapi.Update) error {
	return h.record("private-message")
}

func (h *recordingHandler) OnGroupJoin(ctx context.Context, u tgbotapi.Update) error {
	return h.record("group-join")
}

func (h *recordingHandler) OnGroupLeave(ctx context.Context, u tgbotapi.Update) error {
	return h.record("group-leave")
}

func (h *recordingHandler) OnGroupMessage(ctx context.Context, u tgbotapi.Update) error {
	return h.record("group-message")
}

func (h *recordingHandler) OnChannelPromoted(ctx context.Context, u tgbotapi.Update) error {
	return h.record("channel-promoted")
}

func (h *recordingHandler) OnChannelLeave(ctx context.Context, u tgbotapi.Update) error {
	return h.record("channel-leave")
}

func (h *recordingHandler) OnChannelPost(ctx context.Context, u tgbotapi.Update) error {
	return h.record("channel-post")
}

func TestDispatch(t *testing.T) {
	h := &recordingHandler{}
	ctx := context.Background()

	kinds := []Kind{
		KindPrivateStart, KindPrivateBlocked, KindPrivateMessage,
		KindGroupJoin, KindGroupLeave, KindGroupMessage,
		KindChannelPromoted, KindChannelLeave, KindChannelPost,
		KindIgnore,
	}
	for _, kind := range kinds {
		require.NoError(t, Dispatch(ctx, h, Event{Kind: kind}))
	}

	assert.Equal(t, []string{
		"private-start", "private-blocked", "private-message",
		"group-join", "group-leave", "group-message",
		"channel-promoted", "channel-leave", "channel-post",
	}, h.calls)
}

func TestDispatch_ReturnsHandlerError(t *testing.T) {
	h := &recordingHandler{err: errors.New("relay unreachable")}

	err := Dispatch(context.Background(), h, Event{Kind: KindGroupMessage})
	assert.EqualError(t, err, "relay unreachable")
}
