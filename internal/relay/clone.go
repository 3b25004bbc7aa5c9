package relay

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"mockabot/internal/models"
)

// InlineKeyboard converts a parsed button grid into reply markup. It returns
// nil for an empty grid so no markup is sent at all.
func InlineKeyboard(kb models.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if kb.Empty() {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range kb {
		if len(row) == 0 {
			continue
		}
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func baseChat(chatID int64, kb models.Keyboard, replyTo int) tgbotapi.BaseChat {
	base := tgbotapi.BaseChat{
		ChatID:           chatID,
		ReplyToMessageID: replyTo,
	}
	if markup := InlineKeyboard(kb); markup != nil {
		base.ReplyMarkup = *markup
	}
	return base
}

func baseFile(base tgbotapi.BaseChat, fileID string) tgbotapi.BaseFile {
	return tgbotapi.BaseFile{BaseChat: base, File: tgbotapi.FileID(fileID)}
}

// largestPhoto picks the biggest size Telegram offers for a photo
func largestPhoto(sizes []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return best
}

// CloneConfig builds the request that re-sends src's content to chatID.
// Media is referenced by file id, so nothing is downloaded.
func CloneConfig(chatID int64, src *tgbotapi.Message, kb models.Keyboard, replyTo int) (tgbotapi.Chattable, error) {
	if !models.Clonable(src) {
		return nil, ErrNotClonable
	}
	kind, _ := models.ContentOf(src)
	base := baseChat(chatID, kb, replyTo)

	switch kind {
	case models.ContentText:
		return tgbotapi.MessageConfig{BaseChat: base, Text: src.Text, Entities: src.Entities}, nil
	case models.ContentAnimation:
		return tgbotapi.AnimationConfig{
			BaseFile:        baseFile(base, src.Animation.FileID),
			Duration:        src.Animation.Duration,
			Caption:         src.Caption,
			CaptionEntities: src.CaptionEntities,
		}, nil
	case models.ContentAudio:
		return tgbotapi.AudioConfig{
			BaseFile:        baseFile(base, src.Audio.FileID),
			Caption:         src.Caption,
			CaptionEntities: src.CaptionEntities,
			Duration:        src.Audio.Duration,
			Performer:       src.Audio.Performer,
			Title:           src.Audio.Title,
		}, nil
	case models.ContentDocument:
		return tgbotapi.DocumentConfig{
			BaseFile:        baseFile(base, src.Document.FileID),
			Caption:         src.Caption,
			CaptionEntities: src.CaptionEntities,
		}, nil
	case models.ContentPhoto:
		return tgbotapi.PhotoConfig{
			BaseFile:        baseFile(base, largestPhoto(src.Photo).FileID),
			Caption:         src.Caption,
			CaptionEntities: src.CaptionEntities,
		}, nil
	case models.ContentSticker:
		return tgbotapi.StickerConfig{BaseFile: baseFile(base, src.Sticker.FileID)}, nil
	case models.ContentVideo:
		return tgbotapi.VideoConfig{
			BaseFile:        baseFile(base, src.Video.FileID),
			Duration:        src.Video.Duration,
			Caption:         src.Caption,
			CaptionEntities: src.CaptionEntities,
		}, nil
	case models.ContentVideoNote:
		return tgbotapi.VideoNoteConfig{
			BaseFile: baseFile(base, src.VideoNote.FileID),
			Duration: src.VideoNote.Duration,
			Length:   src.VideoNote.Length,
		}, nil
	case models.ContentVoice:
		return tgbotapi.VoiceConfig{
			BaseFile:        baseFile(base, src.Voice.FileID),
			Caption:         src.Caption,
			CaptionEntities: src.CaptionEntities,
			Duration:        src.Voice.Duration,
		}, nil
	case models.ContentContact:
		return tgbotapi.ContactConfig{
			BaseChat:    base,
			PhoneNumber: src.Contact.PhoneNumber,
			FirstName:   src.Contact.FirstName,
			LastName:    src.Contact.LastName,
			VCard:       src.Contact.VCard,
		}, nil
	case models.ContentDice:
		return tgbotapi.DiceConfig{BaseChat: base, Emoji: src.Dice.Emoji}, nil
	case models.ContentPoll:
		options := make([]string, 0, len(src.Poll.Options))
		for _, o := range src.Poll.Options {
			options = append(options, o.Text)
		}
		return tgbotapi.SendPollConfig{
			BaseChat:              base,
			Question:              src.Poll.Question,
			Options:               options,
			IsAnonymous:           src.Poll.IsAnonymous,
			Type:                  src.Poll.Type,
			AllowsMultipleAnswers: src.Poll.AllowsMultipleAnswers,
			CorrectOptionID:       int64(src.Poll.CorrectOptionID),
			Explanation:           src.Poll.Explanation,
			ExplanationEntities:   src.Poll.ExplanationEntities,
		}, nil
	case models.ContentVenue:
		return tgbotapi.VenueConfig{
			BaseChat:        base,
			Latitude:        src.Venue.Location.Latitude,
			Longitude:       src.Venue.Location.Longitude,
			Title:           src.Venue.Title,
			Address:         src.Venue.Address,
			FoursquareID:    src.Venue.FoursquareID,
			FoursquareType:  src.Venue.FoursquareType,
			GooglePlaceID:   src.Venue.GooglePlaceID,
			GooglePlaceType: src.Venue.GooglePlaceType,
		}, nil
	case models.ContentLocation:
		return tgbotapi.LocationConfig{
			BaseChat:           base,
			Latitude:           src.Location.Latitude,
			Longitude:          src.Location.Longitude,
			HorizontalAccuracy: src.Location.HorizontalAccuracy,
		}, nil
	}
	return nil, ErrNotClonable
}
