package notifier

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// Notifier defines a high-level interface for announcing tournament events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For newly scheduled matches
	SendMatchScheduled(match tournament.Match, player1, player2 tournament.Player) error
	// For recorded results
	SendMatchResult(entry tournament.HistoryEntry) error
	// For withdrawals, with the waiting matches that still need a substitute
	SendWithdrawal(withdrawal tournament.Withdrawal, pending []tournament.Match) error
}

// Noop is used when no notification channel is configured. It only logs.
type Noop struct{}

func (Noop) SendMatchScheduled(match tournament.Match, _, _ tournament.Player) error {
	log.Debug("Notifications disabled, skipping match scheduled", "matchID", match.ID)
	return nil
}

func (Noop) SendMatchResult(entry tournament.HistoryEntry) error {
	log.Debug("Notifications disabled, skipping match result", "historyID", entry.ID)
	return nil
}

func (Noop) SendWithdrawal(withdrawal tournament.Withdrawal, _ []tournament.Match) error {
	log.Debug("Notifications disabled, skipping withdrawal", "withdrawalID", withdrawal.ID)
	return nil
}
