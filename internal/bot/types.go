package bot

import (
	"go.uber.org/zap"

	"mockabot/internal/models"
	"mockabot/internal/relay"
	"mockabot/internal/storage"
)

// Bot answers the updates of one registered bot identity. It implements
// update.Handler; the registry calls it from the worker of the update's chat.
type Bot struct {
	identity models.Identity
	relay    relay.Relay
	cache    storage.Storage
	logger   *zap.Logger
}

// Notices sent back to the issuing chat
const (
	textSent        = "✅ Message sent"
	textNotSent     = "❌ Message not sent"
	textInternal    = "An error occurred while processing your request. Please try again."
	textUnknown     = "Unknown command. Use /help to see available commands."
	textChannel     = "This bot is not designed to be used in a channel and will leave the channel shortly."
	textNotClonable = "This kind of message cannot be sent by another bot. Try a text, media, poll or location message."
	textCacheClear  = "Cache cleared for this chat."

	textConnectPrivate = "For your security, /connect only works in a private chat with me."
	textConnectFailed  = "Unable to connect this token. Please check the token and try again."

	usageConnect   = "Usage - `/connect <BOT TOKEN>`"
	usageMessageID = "Usage: Reply to any message with /messageid to know the message id"
	usageSend      = "Usage - `/send \"<MESSAGE>\" [BOT TOKEN | BOT USERNAME] [CHAT ID | CHAT USERNAME] [BUTTONS]`\n\nReply to a message with `/send [BOT] [CHAT]` to send a copy of it."
	usageReply     = "Usage - `/reply \"<MESSAGE>\" [BOT TOKEN | BOT USERNAME] [CHAT ID | CHAT USERNAME] [BUTTONS]`\n\nSet the message to reply to with /replyto first."
	usageReplyTo   = "Usage - reply to a message with `/replyto [BOT] [CHAT]`, or use `/replyto <MESSAGE ID> [BOT] [CHAT]`"
)

const parseModeMarkdown = "Markdown"

const helpText = `Commands:

/send "<message>" [bot] [chat] [buttons] - send a message as a bot
/reply "<message>" [bot] [chat] [buttons] - same as /send, replying to the message set with /replyto
/replyto [message id] [bot] [chat] - set the message /reply answers (or reply to that message)
/connect <bot token> - remember a bot so you can use its @username (private chat only)
/chatid - show the id of this chat
/messageid - reply to a message to show its id
/clearcache - forget the bots and chats remembered for this chat

[bot] is a bot token or a connected @username, [chat] is a chat id or a public @chat.
Both default to the last ones used in this chat.
[buttons] is [Yes, No] for one row or [[A, B], [C]] for several and always comes last. Labels may be quoted, as in ["Yes", "No"].
Reply to any message with /send to send a copy of it, media included.`

const tutorialText = `Hi %s! My name is Mockabot - I can help you mock the experience of a Telegram chatbot.

To begin, use @BotFather to create a new bot. Once you have the bot token, you can send a message as your bot with /send "<message>" <bot token> <chat>. Your bot must have started a conversation with that chat before it can write there.

If you'd like to not send the bot token every time, I can remember it with /connect <bot token>. After this you can use the bot's @username instead.

To send media or formatted text, send me the message first and then reply to it with /send <bot> <chat>.

Click /help for details on my commands and their usage.`
