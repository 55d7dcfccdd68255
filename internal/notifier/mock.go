package notifier

import (
	"sync"

	"github.com/mauv0809/court-keeper/internal/tournament"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchScheduledFunc func(match tournament.Match, player1, player2 tournament.Player) error
	SendMatchResultFunc    func(entry tournament.HistoryEntry) error
	SendWithdrawalFunc     func(withdrawal tournament.Withdrawal, pending []tournament.Match) error

	// Call records
	SendMatchScheduledCalls []struct {
		Match            tournament.Match
		Player1, Player2 tournament.Player
	}
	SendMatchResultCalls []tournament.HistoryEntry
	SendWithdrawalCalls  []struct {
		Withdrawal tournament.Withdrawal
		Pending    []tournament.Match
	}
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchScheduledCalls = nil
	m.SendMatchResultCalls = nil
	m.SendWithdrawalCalls = nil
}

func (m *Mock) SendMatchScheduled(match tournament.Match, player1, player2 tournament.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchScheduledCalls = append(m.SendMatchScheduledCalls, struct {
		Match            tournament.Match
		Player1, Player2 tournament.Player
	}{match, player1, player2})
	if m.SendMatchScheduledFunc != nil {
		return m.SendMatchScheduledFunc(match, player1, player2)
	}
	return nil
}

func (m *Mock) SendMatchResult(entry tournament.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, entry)
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(entry)
	}
	return nil
}

func (m *Mock) SendWithdrawal(withdrawal tournament.Withdrawal, pending []tournament.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendWithdrawalCalls = append(m.SendWithdrawalCalls, struct {
		Withdrawal tournament.Withdrawal
		Pending    []tournament.Match
	}{withdrawal, pending})
	if m.SendWithdrawalFunc != nil {
		return m.SendWithdrawalFunc(withdrawal, pending)
	}
	return nil
}
