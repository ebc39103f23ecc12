package telegram

import (
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

// LogSender writes outgoing messages to the log instead of the Bot API.
// It backs the notifier when no bot token is configured.
type LogSender struct {
	logger coreport.Logger
	nextID atomic.Int64
}

// NewLogSender creates a new log-only sender
func NewLogSender(logger coreport.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements Sender
func (s *LogSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	id := int(s.nextID.Add(1))
	fields := map[string]any{"message_id": id}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		fields["chat_id"] = msg.ChatID
		fields["text"] = msg.Text
	}
	s.logger.Info("Telegram message (not sent)", fields)
	return tgbotapi.Message{MessageID: id}, nil
}
