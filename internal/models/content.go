package models

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ContentKind names the content field a message carries
type ContentKind string

const (
	ContentText      ContentKind = "text"
	ContentAnimation ContentKind = "animation"
	ContentAudio     ContentKind = "audio"
	ContentDocument  ContentKind = "document"
	ContentPhoto     ContentKind = "photo"
	ContentSticker   ContentKind = "sticker"
	ContentVideo     ContentKind = "video"
	ContentVideoNote ContentKind = "video_note"
	ContentVoice     ContentKind = "voice"
	ContentCaption   ContentKind = "caption"
	ContentContact   ContentKind = "contact"
	ContentDice      ContentKind = "dice"
	ContentGame      ContentKind = "game"
	ContentPoll      ContentKind = "poll"
	ContentVenue     ContentKind = "venue"
	ContentLocation  ContentKind = "location"
)

// ContentKinds lists the recognised content fields in probing order.
// Venue precedes location because venue messages carry both.
var ContentKinds = []ContentKind{
	ContentText,
	ContentAnimation,
	ContentAudio,
	ContentDocument,
	ContentPhoto,
	ContentSticker,
	ContentVideo,
	ContentVideoNote,
	ContentVoice,
	ContentCaption,
	ContentContact,
	ContentDice,
	ContentGame,
	ContentPoll,
	ContentVenue,
	ContentLocation,
}

// Has reports whether the message carries the given content field
func (k ContentKind) Has(m *tgbotapi.Message) bool {
	if m == nil {
		return false
	}
	switch k {
	case ContentText:
		return m.Text != ""
	case ContentAnimation:
		return m.Animation != nil
	case ContentAudio:
		return m.Audio != nil
	case ContentDocument:
		return m.Document != nil
	case ContentPhoto:
		return len(m.Photo) > 0
	case ContentSticker:
		return m.Sticker != nil
	case ContentVideo:
		return m.Video != nil
	case ContentVideoNote:
		return m.VideoNote != nil
	case ContentVoice:
		return m.Voice != nil
	case ContentCaption:
		return m.Caption != ""
	case ContentContact:
		return m.Contact != nil
	case ContentDice:
		return m.Dice != nil
	case ContentGame:
		return m.Game != nil
	case ContentPoll:
		return m.Poll != nil
	case ContentVenue:
		return m.Venue != nil
	case ContentLocation:
		return m.Location != nil
	}
	return false
}

// HasContent reports whether any recognised content field is present
func HasContent(m *tgbotapi.Message) bool {
	_, ok := ContentOf(m)
	return ok
}

// ContentOf returns the first recognised content field of a message
func ContentOf(m *tgbotapi.Message) (ContentKind, bool) {
	for _, kind := range ContentKinds {
		if kind.Has(m) {
			return kind, true
		}
	}
	return "", false
}

// Clonable reports whether a message can be re-sent by another bot.
// Games need a bot-owned short name and a bare caption has nothing to attach
// to, so neither can be cloned.
func Clonable(m *tgbotapi.Message) bool {
	kind, ok := ContentOf(m)
	if !ok {
		return false
	}
	return kind != ContentGame && kind != ContentCaption
}
