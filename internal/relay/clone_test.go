package relay

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockabot/internal/models"
)

func TestCloneConfig(t *testing.T) {
	testCases := []struct {
		name string
		src  *tgbotapi.Message
		want tgbotapi.Chattable
	}{
		{
			name: "text keeps entities",
			src: &tgbotapi.Message{
				Text:     "bold move",
				Entities: []tgbotapi.MessageEntity{{Type: "bold", Offset: 0, Length: 4}},
			},
			want: tgbotapi.MessageConfig{
				BaseChat: tgbotapi.BaseChat{ChatID: 7},
				Text:     "bold move",
				Entities: []tgbotapi.MessageEntity{{Type: "bold", Offset: 0, Length: 4}},
			},
		},
		{
			name: "sticker",
			src:  &tgbotapi.Message{Sticker: &tgbotapi.Sticker{FileID: "stk"}},
			want: tgbotapi.StickerConfig{BaseFile: tgbotapi.BaseFile{
				BaseChat: tgbotapi.BaseChat{ChatID: 7},
				File:     tgbotapi.FileID("stk"),
			}},
		},
		{
			name: "dice",
			src:  &tgbotapi.Message{Dice: &tgbotapi.Dice{Emoji: "🎯", Value: 6}},
			want: tgbotapi.DiceConfig{BaseChat: tgbotapi.BaseChat{ChatID: 7}, Emoji: "🎯"},
		},
		{
			name: "venue wins over its location",
			src: &tgbotapi.Message{
				Location: &tgbotapi.Location{Latitude: 1, Longitude: 2},
				Venue: &tgbotapi.Venue{
					Location: tgbotapi.Location{Latitude: 1, Longitude: 2},
					Title:    "Cafe",
					Address:  "Main st",
				},
			},
			want: tgbotapi.VenueConfig{
				BaseChat:  tgbotapi.BaseChat{ChatID: 7},
				Latitude:  1,
				Longitude: 2,
				Title:     "Cafe",
				Address:   "Main st",
			},
		},
		{
			name: "poll options become labels",
			src: &tgbotapi.Message{Poll: &tgbotapi.Poll{
				Question:    "Lunch?",
				Options:     []tgbotapi.PollOption{{Text: "Yes"}, {Text: "No"}},
				IsAnonymous: true,
				Type:        "regular",
			}},
			want: tgbotapi.SendPollConfig{
				BaseChat:    tgbotapi.BaseChat{ChatID: 7},
				Question:    "Lunch?",
				Options:     []string{"Yes", "No"},
				IsAnonymous: true,
				Type:        "regular",
			},
		},
		{
			name: "contact",
			src:  &tgbotapi.Message{Contact: &tgbotapi.Contact{PhoneNumber: "+100", FirstName: "Ann"}},
			want: tgbotapi.ContactConfig{BaseChat: tgbotapi.BaseChat{ChatID: 7}, PhoneNumber: "+100", FirstName: "Ann"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CloneConfig(7, tc.src, nil, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCloneConfig_AddsReplyAndKeyboard(t *testing.T) {
	kb := models.Keyboard{{{Text: "Go", Data: "Go"}}}
	got, err := CloneConfig(7, &tgbotapi.Message{Text: "hi"}, kb, 11)
	require.NoError(t, err)

	cfg, ok := got.(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, 11, cfg.ReplyToMessageID)
	assert.Equal(t, *InlineKeyboard(kb), cfg.ReplyMarkup)
}

func TestCloneConfig_NotClonable(t *testing.T) {
	for _, src := range []*tgbotapi.Message{
		nil,
		{},
		{Game: &tgbotapi.Game{Title: "g"}},
		{Caption: "caption without media"},
	} {
		_, err := CloneConfig(7, src, nil, 0)
		assert.ErrorIs(t, err, ErrNotClonable)
	}
}

func TestInlineKeyboard(t *testing.T) {
	assert.Nil(t, InlineKeyboard(nil))
	assert.Nil(t, InlineKeyboard(models.Keyboard{{}}))

	markup := InlineKeyboard(models.Keyboard{
		{{Text: "A", Data: "A"}, {Text: "B", Data: "B"}},
		{},
		{{Text: "C", Data: "C"}},
	})
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "C", markup.InlineKeyboard[1][0].Text)
	require.NotNil(t, markup.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "C", *markup.InlineKeyboard[1][0].CallbackData)
}
