package command

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"mockabot/internal/models"
)

var (
	// ErrNotCommand is returned for text that does not start with "/"
	ErrNotCommand = errors.New("not a command")
	// ErrUnterminatedQuote is returned when the message text has no closing quote
	ErrUnterminatedQuote = errors.New("unterminated quoted message")
	// ErrUnexpectedArgument is returned for an argument that is neither a bot nor a chat
	ErrUnexpectedArgument = errors.New("unexpected argument")
)

var botTokenPattern = regexp.MustCompile(`^\d{8,10}:[A-Za-z0-9_-]{35}$`)

// Command is one parsed command line
type Command struct {
	// Name is lower case, without the leading slash
	Name string
	// Mention is the "@bot" suffix of "/name@bot", if any
	Mention string
	// Text is the quoted message text
	Text    string
	HasText bool
	// Args are the bare arguments between the text and the button grid
	Args []string
	// Keyboard is empty when the grid is absent or malformed
	Keyboard models.Keyboard
}

// Parse tokenizes a command line:
//
//	/name[@mention] ["text"] [args...] [button grid]
//
// On ErrUnterminatedQuote the returned command still carries Name and Mention.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return Command{}, ErrNotCommand
	}

	var cmd Command
	head, rest := splitFirstField(line[1:])
	if at := strings.Index(head, "@"); at >= 0 {
		cmd.Mention = models.NormalizeHandle(head[at+1:])
		head = head[:at]
	}
	if head == "" {
		return Command{}, ErrNotCommand
	}
	cmd.Name = strings.ToLower(head)

	rest = strings.TrimSpace(rest)

	// The grid is only ever the final bracket group, so quotes in its labels
	// cannot close the message text
	grid := ""
	if open := trailingGroup(rest); open >= 0 {
		grid = rest[open:]
		rest = rest[:open]
	}

	if strings.HasPrefix(rest, `"`) {
		end := strings.LastIndex(rest, `"`)
		if end == 0 {
			return Command{Name: cmd.Name, Mention: cmd.Mention}, ErrUnterminatedQuote
		}
		cmd.Text = rest[1:end]
		cmd.HasText = true
		rest = rest[end+1:]
	}

	if grid != "" {
		cmd.Keyboard = ParseKeyboard(grid)
	} else if open := strings.LastIndex(rest, "["); open >= 0 && !strings.Contains(rest[open:], "]") {
		// An unclosed grid runs to the end of the line and yields no buttons
		rest = rest[:open]
	}

	if args := strings.Fields(rest); len(args) > 0 {
		cmd.Args = args
	}
	return cmd, nil
}

// trailingGroup returns the index of the "[" opening the bracket group that
// ends s, or -1 when s does not end in a balanced group
func trailingGroup(s string) int {
	if !strings.HasSuffix(s, "]") {
		return -1
	}
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ']':
			depth++
		case '[':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitFirstField(s string) (string, string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// BotRef names a bot by token or by handle
type BotRef struct {
	Token  string
	Handle string
}

// IsZero reports whether no bot was named
func (b BotRef) IsZero() bool {
	return b.Token == "" && b.Handle == ""
}

// ChatRef names a chat by handle or numeric id
type ChatRef struct {
	Handle string
	ID     int64
}

// IsZero reports whether no chat was named
func (c ChatRef) IsZero() bool {
	return c.Handle == "" && c.ID == 0
}

// Target is the bot and chat named by a command's arguments
type Target struct {
	Bot  BotRef
	Chat ChatRef
}

// ParseTarget classifies the bare arguments of a relay command. At most one
// bot and one chat may be given, the bot first.
func ParseTarget(args []string) (Target, error) {
	var target Target
	for _, arg := range args {
		switch {
		case IsBotToken(arg):
			if !target.Bot.IsZero() || !target.Chat.IsZero() {
				return Target{}, ErrUnexpectedArgument
			}
			target.Bot.Token = arg
		case IsBotHandle(arg):
			if !target.Bot.IsZero() || !target.Chat.IsZero() {
				return Target{}, ErrUnexpectedArgument
			}
			target.Bot.Handle = models.NormalizeHandle(arg)
		case strings.HasPrefix(arg, "@") && len(arg) > 1:
			if !target.Chat.IsZero() {
				return Target{}, ErrUnexpectedArgument
			}
			target.Chat.Handle = arg
		default:
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil || id == 0 || !target.Chat.IsZero() {
				return Target{}, ErrUnexpectedArgument
			}
			target.Chat.ID = id
		}
	}
	return target, nil
}

// IsBotToken reports whether s has the shape of a bot token
func IsBotToken(s string) bool {
	return botTokenPattern.MatchString(s)
}

// IsBotHandle reports whether s is a bot username, with or without "@".
// Telegram requires bot usernames to end in "bot".
func IsBotHandle(s string) bool {
	name := strings.TrimPrefix(s, "@")
	if len(name) <= len("bot") {
		return false
	}
	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return strings.HasSuffix(strings.ToLower(name), "bot")
}
