package memory

import (
	"sync"

	"mockabot/internal/models"
)

// Store is the in-process cache. It is never persisted: a restart starts
// with every chat empty.
type Store struct {
	mu      sync.RWMutex
	entries map[int64]*models.ChatEntry
}

// New creates an empty store
func New() *Store {
	return &Store{
		entries: make(map[int64]*models.ChatEntry),
	}
}

// Peek returns the entry of a chat or nil
func (s *Store) Peek(chatID int64) *models.ChatEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.entries[chatID]
}

// Entry returns the entry of a chat, creating it when missing
func (s *Store) Entry(chatID int64) *models.ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[chatID]
	if !ok {
		entry = models.NewChatEntry()
		s.entries[chatID] = entry
	}
	return entry
}

// Clear drops the entry of a chat
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, chatID)
}

// Len returns the number of cached chats
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
