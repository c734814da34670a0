// Package notify sends run summaries to operators over Telegram.
package notify

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/slipline/slipline/internal/pkg/models"
	"github.com/slipline/slipline/internal/report"
)

// Min interval between messages to the same chat to avoid 429 Too Many
// Requests (~30/min limit).
const telegramSendInterval = 2 * time.Second

// How many warnings to spell out before collapsing the rest into a count.
const maxWarningsInMessage = 5

// TelegramNotifier sends run summaries and warning digests to one chat.
type TelegramNotifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier creates a notifier and verifies the bot token.
// Returns nil when the bot cannot be reached; callers treat a nil notifier
// as disabled.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// SendRunSummary posts the headline numbers of a finished run plus the most
// severe findings.
func (t *TelegramNotifier) SendRunSummary(rep *report.Report, reportPath string) error {
	if t == nil {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Slip extract run finished\n")
	fmt.Fprintf(&b, "Games: %d | Markets: %d | Leagues: %d | Teams: %d\n",
		rep.Summary.TotalGames, rep.Summary.TotalMarkets,
		rep.Summary.TotalLeagues, rep.Summary.TotalTeams)

	warnings := 0
	for _, a := range rep.Anomalies {
		if a.Severity != models.SeverityWarning {
			continue
		}
		warnings++
		if warnings <= maxWarningsInMessage {
			fmt.Fprintf(&b, "⚠ %s: %s (%s)\n", a.Kind, a.Description, a.GameKey)
		}
	}
	if warnings > maxWarningsInMessage {
		fmt.Fprintf(&b, "... and %d more warnings\n", warnings-maxWarningsInMessage)
	}
	if warnings == 0 {
		b.WriteString("No warnings.\n")
	}
	fmt.Fprintf(&b, "Report: %s", reportPath)

	return t.send(b.String())
}

func (t *TelegramNotifier) send(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if wait := telegramSendInterval - time.Since(t.lastSend); wait > 0 {
		time.Sleep(wait)
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	t.lastSend = time.Now()
	return nil
}
