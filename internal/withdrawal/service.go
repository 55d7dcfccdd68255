package withdrawal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/flatfile"
	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/notifier"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// New loads Withdrawals.txt.
func New(opts Options, players Players, matches MatchBook, notifier notifier.Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) (*Service, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Service{
		path:      opts.Path,
		now:       now,
		players:   players,
		matches:   matches,
		notifier:  notifier,
		metrics:   metrics,
		pubsub:    pubsub,
		withdrawn: make(map[string]bool),
	}

	records, err := flatfile.ReadRecords(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load withdrawals: %w", err)
	}
	var ids []string
	for i, r := range records {
		w, err := parseWithdrawal(r)
		if err != nil {
			log.Warn("Skipping malformed withdrawal record", "error", err, "line", i+1, "path", opts.Path)
			continue
		}
		s.stack = append(s.stack, w)
		s.withdrawn[w.PlayerID] = true
		ids = append(ids, w.ID)
	}
	s.next = tournament.MaxIDNumber(tournament.WithdrawalPrefix, ids...) + 1
	return s, nil
}

// Withdraw removes a player from the tournament. It returns the player's
// waiting matches, which need a substitute.
func (s *Service) Withdraw(playerID, reason string) (tournament.Withdrawal, []tournament.Match, error) {
	player, err := s.players.Get(playerID)
	if err != nil {
		return tournament.Withdrawal{}, nil, err
	}
	if !flatfile.CleanField(reason) {
		return tournament.Withdrawal{}, nil, fmt.Errorf("%w: reason %q", tournament.ErrInvalidField, reason)
	}

	// s.mu is not held while the match book is read; the scheduler calls
	// IsWithdrawn under its own lock.
	w, err := s.record(player, reason)
	if err != nil {
		return tournament.Withdrawal{}, nil, err
	}

	var pending []tournament.Match
	for _, m := range s.matches.MatchesForPlayer(playerID) {
		if m.Status == tournament.MatchWaiting {
			pending = append(pending, m)
		}
	}

	log.Info("Player withdrawn", "withdrawalID", w.ID, "playerID", playerID, "pendingMatches", len(pending))
	s.metrics.IncWithdrawals()
	if err := s.pubsub.SendMessage(pubsub.EventPlayerWithdrawn, w); err != nil {
		log.Error("Failed to publish withdrawal", "error", err, "withdrawalID", w.ID)
	}
	if err := s.notifier.SendWithdrawal(w, pending); err != nil {
		log.Error("Failed to notify withdrawal", "error", err, "withdrawalID", w.ID)
	}
	return w, pending, nil
}

// record issues the next W### ID and appends the withdrawal to the log.
func (s *Service) record(player tournament.Player, reason string) (tournament.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.withdrawn[player.ID] {
		return tournament.Withdrawal{}, fmt.Errorf("%w: %s", ErrAlreadyWithdrawn, player.ID)
	}

	// The log is append-only and may have grown since it was loaded.
	lastID, err := flatfile.LastID(s.path)
	if err != nil {
		return tournament.Withdrawal{}, fmt.Errorf("failed to read withdrawals: %w", err)
	}
	if n, err := tournament.IDNumber(tournament.WithdrawalPrefix, lastID); err == nil && n >= s.next {
		s.next = n + 1
	}

	w := tournament.Withdrawal{
		ID:       tournament.FormatID(tournament.WithdrawalPrefix, s.next),
		PlayerID: player.ID,
		Name:     player.Name,
		Reason:   strings.TrimSpace(reason),
		Time:     s.now().Truncate(time.Second),
	}
	rec := flatfile.Record{w.ID, w.PlayerID, w.Name, w.Reason, w.Time.Format(time.DateTime)}
	if err := flatfile.AppendRecord(s.path, rec); err != nil {
		log.Error("Failed to save withdrawal", "error", err, "playerID", player.ID)
		return tournament.Withdrawal{}, fmt.Errorf("failed to save withdrawal: %w", err)
	}
	s.stack = append(s.stack, w)
	s.withdrawn[player.ID] = true
	s.next++
	return w, nil
}

// Substitute puts the player named substituteName into the waiting match
// left open by withdrawnID.
func (s *Service) Substitute(matchID, withdrawnID, substituteName string) (tournament.Match, error) {
	if !s.IsWithdrawn(withdrawnID) {
		return tournament.Match{}, fmt.Errorf("%w: %s", ErrNotWithdrawn, withdrawnID)
	}
	match, err := s.matches.Match(matchID)
	if err != nil {
		return tournament.Match{}, err
	}
	sub, err := s.players.FindByName(substituteName)
	if err != nil {
		return tournament.Match{}, err
	}

	switch {
	case sub.Stage != match.Stage:
		return tournament.Match{}, fmt.Errorf("%w: %s is in %s, match is %s", ErrIneligibleSubstitute, sub.ID, sub.Stage.Name(), match.Stage.Name())
	case s.IsWithdrawn(sub.ID):
		return tournament.Match{}, fmt.Errorf("%w: %s has withdrawn", ErrIneligibleSubstitute, sub.ID)
	case s.matches.InStage(sub.ID, match.Stage):
		return tournament.Match{}, fmt.Errorf("%w: %s already plays in %s", ErrIneligibleSubstitute, sub.ID, match.Stage.Name())
	}

	updated, err := s.matches.ReplaceInMatch(matchID, withdrawnID, sub.ID)
	if err != nil {
		return tournament.Match{}, fmt.Errorf("failed to substitute: %w", err)
	}
	log.Info("Substitute assigned", "matchID", matchID, "withdrawn", withdrawnID, "substitute", sub.ID)
	return updated, nil
}

// List returns every withdrawal, most recent first.
func (s *Service) List() []tournament.Withdrawal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tournament.Withdrawal, 0, len(s.stack))
	for i := len(s.stack) - 1; i >= 0; i-- {
		out = append(out, s.stack[i])
	}
	return out
}

func (s *Service) IsWithdrawn(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.withdrawn[playerID]
}

func parseWithdrawal(r flatfile.Record) (tournament.Withdrawal, error) {
	if len(r) < 5 {
		return tournament.Withdrawal{}, fmt.Errorf("expected 5 fields, got %d", len(r))
	}
	if _, err := tournament.IDNumber(tournament.WithdrawalPrefix, r.Field(0)); err != nil {
		return tournament.Withdrawal{}, err
	}
	at, err := time.ParseInLocation(time.DateTime, r.Field(4), time.Local)
	if err != nil {
		return tournament.Withdrawal{}, fmt.Errorf("invalid time %q", r.Field(4))
	}
	return tournament.Withdrawal{
		ID:       r.Field(0),
		PlayerID: r.Field(1),
		Name:     r.Field(2),
		Reason:   r.Field(3),
		Time:     at,
	}, nil
}
