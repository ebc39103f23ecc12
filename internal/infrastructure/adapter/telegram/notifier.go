package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
)

// Bot API limit for messages to distinct chats
const messagesPerSecond = 25

// Sender is the part of *tgbotapi.BotAPI the notifier needs
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Config holds notifier settings
type Config struct {
	Token string
	Debug bool
	// Explorers maps a chain name to a transaction URL prefix, e.g. "https://solscan.io/tx/"
	Explorers map[string]string
}

// Notifier implements gateway.Notifier by messaging the user's Telegram chat
type Notifier struct {
	sender    Sender
	explorers map[string]string
	limiter   *rate.Limiter
	logger    coreport.Logger
}

// NewBotNotifier connects to the Bot API with the configured token
func NewBotNotifier(cfg Config, logger coreport.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	api.Debug = cfg.Debug

	logger.Info("Telegram bot connected", map[string]any{
		"username": api.Self.UserName,
	})
	return NewNotifier(api, cfg.Explorers, logger), nil
}

// NewNotifier creates a notifier around an existing sender
func NewNotifier(sender Sender, explorers map[string]string, logger coreport.Logger) *Notifier {
	normalized := make(map[string]string, len(explorers))
	for chain, prefix := range explorers {
		normalized[strings.ToLower(chain)] = prefix
	}
	return &Notifier{
		sender:    sender,
		explorers: normalized,
		limiter:   rate.NewLimiter(messagesPerSecond, messagesPerSecond),
		logger:    logger.With(map[string]any{"component": "telegram_notifier"}),
	}
}

// Notify implements gateway.Notifier
func (n *Notifier) Notify(ctx context.Context, notification gateway.Notification) error {
	if notification.UserID <= 0 {
		return fmt.Errorf("invalid chat id %d", notification.UserID)
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(notification.UserID, n.Format(notification))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	sent, err := n.sender.Send(msg)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	n.logger.Debug("Notification delivered", map[string]any{
		"user_id":    notification.UserID,
		"reference":  notification.Reference,
		"status":     notification.Status,
		"message_id": sent.MessageID,
	})
	return nil
}

// Format renders the user-facing HTML message for a status change
func (n *Notifier) Format(notification gateway.Notification) string {
	var b strings.Builder

	b.WriteString(statusHeadline(notification.Status, notification.Type))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "<b>Reference:</b> <code>%s</code>\n", html.EscapeString(notification.Reference))
	if !notification.Asset.IsZero() {
		fmt.Fprintf(&b, "<b>Amount:</b> %s %s\n",
			notification.Amount.String(),
			html.EscapeString(notification.Asset.DisplaySymbol()))
		fmt.Fprintf(&b, "<b>Network:</b> %s\n", html.EscapeString(notification.Asset.Chain))
	}

	if extra := notification.Extra; extra != nil {
		if extra.DestinationAmount != nil {
			label := "You receive"
			if notification.Type == entity.TypeOfframp {
				label = "Payout"
			}
			fmt.Fprintf(&b, "<b>%s:</b> %s %s\n", label,
				extra.DestinationAmount.StringFixed(2),
				html.EscapeString(strings.ToUpper(extra.DestinationCurrency)))
		}
		if extra.Rate != nil {
			fmt.Fprintf(&b, "<b>Rate:</b> %s\n", extra.Rate.String())
		}
	}

	if notification.Hash != "" {
		if link := n.explorerLink(notification.Asset.Chain, notification.Hash); link != "" {
			fmt.Fprintf(&b, "<b>Transaction:</b> <a href=\"%s\">%s</a>\n",
				html.EscapeString(link), html.EscapeString(shortHash(notification.Hash)))
		} else {
			fmt.Fprintf(&b, "<b>Transaction:</b> <code>%s</code>\n", html.EscapeString(notification.Hash))
		}
	}

	if notification.Message != "" {
		fmt.Fprintf(&b, "\n<i>%s</i>", html.EscapeString(notification.Message))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (n *Notifier) explorerLink(chain, hash string) string {
	prefix, ok := n.explorers[strings.ToLower(chain)]
	if !ok || prefix == "" {
		return ""
	}
	return prefix + hash
}

func statusHeadline(status entity.TransactionStatus, txType entity.TransactionType) string {
	switch {
	case status == entity.StatusProcessing && txType == entity.TypeOnramp:
		return "⏳ <b>Payment confirmed, sending your crypto</b>"
	case status == entity.StatusProcessing && txType == entity.TypeOfframp:
		return "⏳ <b>Deposit confirmed, preparing your payout</b>"
	case status == entity.StatusCompleted && txType == entity.TypeOnramp:
		return "✅ <b>Crypto sent to your wallet</b>"
	case status == entity.StatusCompleted && txType == entity.TypeOfframp:
		return "✅ <b>Fiat payout sent</b>"
	}

	switch status {
	case entity.StatusReceived:
		return "📥 <b>Deposit received</b>"
	case entity.StatusVerified:
		return "🔎 <b>Deposit verified</b>"
	case entity.StatusProcessing:
		return "⏳ <b>Your transaction is processing</b>"
	case entity.StatusCompleted:
		return "✅ <b>Transaction completed</b>"
	case entity.StatusFailed:
		return "❌ <b>Transaction failed</b>"
	case entity.StatusExpired:
		return "⌛ <b>Transaction expired</b>"
	case entity.StatusCancelled:
		return "🚫 <b>Transaction cancelled</b>"
	default:
		return fmt.Sprintf("ℹ️ <b>Status update:</b> %s", html.EscapeString(string(status)))
	}
}

func shortHash(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:8] + "…" + hash[len(hash)-6:]
}
