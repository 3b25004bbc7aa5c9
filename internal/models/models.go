package models

import "strings"

// Identity is a bot the process answers as: its webhook is routed by
// Username and Secret, and Token is used for every fallback relay call.
type Identity struct {
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
	Secret   string `yaml:"secret"`
}

// Handle returns the identity username in "@name" form
func (i Identity) Handle() string {
	return NormalizeHandle(i.Username)
}

// ReplyTarget is the message a later /reply attaches to, together with the
// /replyto command and status messages that get cleaned up afterwards.
type ReplyTarget struct {
	MessageID        int
	CommandMessageID int
	StatusMessageID  int
}

// IsZero reports whether no reply target is recorded
func (r ReplyTarget) IsZero() bool {
	return r.MessageID == 0
}

// Button is one inline keyboard button. Data is sent back as callback data.
type Button struct {
	Text string
	Data string
}

// Keyboard is a grid of inline buttons, row by row
type Keyboard [][]Button

// Empty reports whether the keyboard has no buttons at all
func (k Keyboard) Empty() bool {
	for _, row := range k {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// OutgoingMessage is a plain text message to relay
type OutgoingMessage struct {
	ChatID           int64
	Text             string
	ParseMode        string
	ReplyToMessageID int
	Keyboard         Keyboard
}

// Sent identifies a message accepted by Telegram
type Sent struct {
	ChatID    int64
	MessageID int
}

// NormalizeHandle turns "Name", "@Name" or "@name" into "@name"
func NormalizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ""
	}
	return "@" + strings.ToLower(strings.TrimPrefix(handle, "@"))
}
