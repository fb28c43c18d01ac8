// Package notify delivers plain-text run digests to the operator.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageLimit is the hard per-message ceiling; longer texts are split
// at this boundary.
const MessageLimit = 2000

// Sink is the outbound notification collaborator.
type Sink interface {
	Send(text string) error
}

// Ensure TelegramSink implements Sink
var _ Sink = (*TelegramSink)(nil)

// TelegramSink sends messages to one chat.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSink authorizes the bot and binds it to a chat.
func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram bot token and chat ID are required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

// Send delivers the text, chunked at the message ceiling. Empty text is
// a no-op.
func (t *TelegramSink) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, chunk := range Chunk(text, MessageLimit) {
		msg := tgbotapi.NewMessage(t.chatID, chunk)
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send telegram message: %w", err)
		}
	}
	return nil
}

// Chunk splits text into rune-safe pieces of at most limit runes.
func Chunk(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var chunks []string
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
