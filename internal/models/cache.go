package models

// ChatEntry is the resolution cache of one issuing chat.
//
// Read helpers are safe on a nil entry so callers can resolve against a chat
// that has no cache yet without creating one.
type ChatEntry struct {
	RecentBot       string
	RecentChat      int64
	TokenToUsername map[string]string
	UsernameToToken map[string]string
	ReplyTo         map[int64]ReplyTarget
}

// NewChatEntry creates an empty entry
func NewChatEntry() *ChatEntry {
	return &ChatEntry{
		TokenToUsername: make(map[string]string),
		UsernameToToken: make(map[string]string),
		ReplyTo:         make(map[int64]ReplyTarget),
	}
}

// RecentBotToken returns the most recently used bot token
func (e *ChatEntry) RecentBotToken() (string, bool) {
	if e == nil || e.RecentBot == "" {
		return "", false
	}
	return e.RecentBot, true
}

// RecentChatID returns the most recently used destination chat
func (e *ChatEntry) RecentChatID() (int64, bool) {
	if e == nil || e.RecentChat == 0 {
		return 0, false
	}
	return e.RecentChat, true
}

// TokenFor looks up a connected bot by handle
func (e *ChatEntry) TokenFor(handle string) (string, bool) {
	if e == nil {
		return "", false
	}
	token, ok := e.UsernameToToken[NormalizeHandle(handle)]
	return token, ok
}

// UsernameFor looks up the cached handle of a bot token
func (e *ChatEntry) UsernameFor(token string) (string, bool) {
	if e == nil {
		return "", false
	}
	username, ok := e.TokenToUsername[token]
	return username, ok
}

// ReplyTargetFor returns the reply target recorded for a destination chat
func (e *ChatEntry) ReplyTargetFor(chatID int64) (ReplyTarget, bool) {
	if e == nil {
		return ReplyTarget{}, false
	}
	target, ok := e.ReplyTo[chatID]
	if !ok || target.IsZero() {
		return ReplyTarget{}, false
	}
	return target, true
}

// Remember caches a token and its handle in both directions
func (e *ChatEntry) Remember(token, username string) {
	handle := NormalizeHandle(username)
	if old, ok := e.TokenToUsername[token]; ok && old != handle {
		delete(e.UsernameToToken, old)
	}
	e.TokenToUsername[token] = handle
	e.UsernameToToken[handle] = token
}

// SetRecent records the bot and chat of the last successful relay
func (e *ChatEntry) SetRecent(token string, chatID int64) {
	e.RecentBot = token
	e.RecentChat = chatID
}

// SetReplyTarget records the reply target for a destination chat
func (e *ChatEntry) SetReplyTarget(chatID int64, target ReplyTarget) {
	e.ReplyTo[chatID] = target
}

// ClearReplyTarget forgets the reply target of a destination chat
func (e *ChatEntry) ClearReplyTarget(chatID int64) {
	delete(e.ReplyTo, chatID)
}
