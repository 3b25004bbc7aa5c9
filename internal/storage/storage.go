package storage

import (
	"mockabot/internal/models"
)

// Storage holds the per-chat resolution cache.
//
// Entries are keyed by the chat a command was issued in. Implementations
// guard the chat map itself, the contents of an entry belong to the worker
// serving that chat and are not locked.
type Storage interface {
	// Peek returns the entry of a chat without creating it (nil if absent)
	Peek(chatID int64) *models.ChatEntry

	// Entry returns the entry of a chat, creating an empty one on first use
	Entry(chatID int64) *models.ChatEntry

	// Clear drops the entry of a chat. Clearing an absent entry is a no-op.
	Clear(chatID int64)

	// Len returns the number of chats with an entry
	Len() int
}
