package scheduling

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/flatfile"
	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/notifier"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/roster"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// New loads the persisted matches and rebuilds the slot grid from them.
func New(opts Options, roster roster.RosterStore, notifier notifier.Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) (*Scheduler, error) {
	s := &Scheduler{
		path:     opts.Path,
		roster:   roster,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		grid:     newSlotGrid(opts.Start, opts.Days),
	}

	records, err := flatfile.ReadRecords(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	for i, r := range records {
		m, err := parseMatch(r)
		if err != nil {
			log.Warn("Skipping malformed match record", "error", err, "line", i+1, "path", opts.Path)
			continue
		}
		if m.ScheduledTime != tournament.NoSlotAvailable {
			court, _ := tournament.CourtByID(m.CourtID)
			if err := s.grid.occupy(court, m.ScheduledTime); err != nil {
				log.Warn("Persisted match does not fit the slot grid", "error", err, "matchID", m.ID)
			}
		}
		s.matches = append(s.matches, m)
	}
	log.Debug("Loaded matches", "count", len(s.matches))
	return s, nil
}

// UseWithdrawals makes scheduling and advancement skip withdrawn players.
func (s *Scheduler) UseWithdrawals(w WithdrawalChecker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withdrawn = w
}

func (s *Scheduler) isWithdrawn(playerID string) bool {
	return s.withdrawn != nil && s.withdrawn.IsWithdrawn(playerID)
}

// Matches returns every match in creation order.
func (s *Scheduler) Matches() []tournament.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]tournament.Match(nil), s.matches...)
}

func (s *Scheduler) Match(matchID string) (tournament.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(matchID)
	if i < 0 {
		return tournament.Match{}, fmt.Errorf("%w: %s", tournament.ErrMatchNotFound, matchID)
	}
	return s.matches[i], nil
}

// MatchesForPlayer returns the matches playerID takes part in, in any stage.
func (s *Scheduler) MatchesForPlayer(playerID string) []tournament.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []tournament.Match
	for _, m := range s.matches {
		if m.HasPlayer(playerID) {
			out = append(out, m)
		}
	}
	return out
}

// InStage reports whether playerID already appears in a match of stage,
// whatever that match's status.
func (s *Scheduler) InStage(playerID string, stage tournament.Stage) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inStage(playerID, stage)
}

// FreeSlots returns how many more matches court can host.
func (s *Scheduler) FreeSlots(courtID string) (int, error) {
	court, ok := tournament.CourtByID(courtID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", tournament.ErrCourtNotFound, courtID)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.free(court), nil
}

// Candidates lists the opponents player1ID may be paired with, in roster order.
func (s *Scheduler) Candidates(player1ID string) ([]tournament.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, candidates, err := s.candidates(player1ID)
	return candidates, err
}

func (s *Scheduler) candidates(player1ID string) (tournament.Player, []tournament.Player, error) {
	if !tournament.ValidPlayerID(player1ID) {
		return tournament.Player{}, nil, fmt.Errorf("%w: %q", tournament.ErrInvalidIDFormat, player1ID)
	}

	// Checks run format, AlreadyScheduled (current stage only), then PlayerNotFound.
	player, lookupErr := s.roster.Get(player1ID)
	if lookupErr == nil && s.inStage(player1ID, player.Stage) {
		return tournament.Player{}, nil, fmt.Errorf("%w: %s", tournament.ErrAlreadyScheduled, player1ID)
	}
	if lookupErr != nil {
		return tournament.Player{}, nil, lookupErr
	}
	if s.isWithdrawn(player1ID) {
		return tournament.Player{}, nil, fmt.Errorf("%w: %s", tournament.ErrPlayerWithdrawn, player1ID)
	}

	var out []tournament.Player
	for _, p := range s.roster.ByStage(player.Stage) {
		if p.ID == player1ID || s.inStage(p.ID, player.Stage) || s.isWithdrawn(p.ID) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return tournament.Player{}, nil, fmt.Errorf("%w: %s", tournament.ErrNoOpponentAvailable, player.Stage.Name())
	}
	return player, out, nil
}

// ScheduleMatch pairs player1ID with the choice-th candidate (1-based) and
// books the earliest free slot on the stage's court.
func (s *Scheduler) ScheduleMatch(player1ID string, choice int) (tournament.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player1, candidates, err := s.candidates(player1ID)
	if err != nil {
		return tournament.Match{}, err
	}
	if choice < 1 || choice > len(candidates) {
		return tournament.Match{}, fmt.Errorf("%w: choose between 1 and %d", tournament.ErrInvalidSelection, len(candidates))
	}
	player2 := candidates[choice-1]

	court, err := tournament.CourtForStage(player1.Stage)
	if err != nil {
		return tournament.Match{}, err
	}

	slot, ok := s.grid.take(court)
	if !ok {
		slot = tournament.NoSlotAvailable
		log.Warn("No free slot left on court", "courtID", court.ID, "stage", player1.Stage)
	}

	inStage := 0
	for _, m := range s.matches {
		if m.Stage == player1.Stage {
			inStage++
		}
	}

	match := tournament.Match{
		ID:            tournament.FormatID(tournament.MatchPrefix, len(s.matches)+1),
		Stage:         player1.Stage,
		RoundID:       tournament.FormatID(tournament.RoundPrefix, inStage+1),
		Player1ID:     player1.ID,
		Player2ID:     player2.ID,
		ScheduledTime: slot,
		Status:        tournament.MatchWaiting,
		CourtID:       court.ID,
	}

	matches := append(append([]tournament.Match(nil), s.matches...), match)
	if err := s.save(matches); err != nil {
		if ok {
			s.grid.release(court.ID, slot)
		}
		return tournament.Match{}, err
	}
	s.matches = matches

	log.Info("Scheduled match", "matchID", match.ID, "player1", player1.ID, "player2", player2.ID, "courtID", court.ID, "time", slot)
	s.metrics.IncMatchesScheduled()
	if err := s.pubsub.SendMessage(pubsub.EventMatchScheduled, match); err != nil {
		log.Error("Failed to publish match scheduled", "error", err, "matchID", match.ID)
	}
	if err := s.notifier.SendMatchScheduled(match, player1, player2); err != nil {
		log.Error("Failed to notify match scheduled", "error", err, "matchID", match.ID)
	}
	return match, nil
}

// StartMatch moves a waiting match to ongoing.
func (s *Scheduler) StartMatch(matchID string) (tournament.Match, error) {
	return s.transition(matchID, tournament.MatchWaiting, tournament.MatchOngoing)
}

// CompleteMatch moves an ongoing match to completed.
func (s *Scheduler) CompleteMatch(matchID string) (tournament.Match, error) {
	return s.transition(matchID, tournament.MatchOngoing, tournament.MatchCompleted)
}

func (s *Scheduler) transition(matchID string, from, to tournament.MatchStatus) (tournament.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(matchID)
	if i < 0 {
		return tournament.Match{}, fmt.Errorf("%w: %s", tournament.ErrMatchNotFound, matchID)
	}
	if s.matches[i].Status != from {
		return tournament.Match{}, fmt.Errorf("%w: %s is %s, cannot become %s", tournament.ErrInvalidTransition, matchID, s.matches[i].Status, to)
	}

	matches := append([]tournament.Match(nil), s.matches...)
	matches[i].Status = to
	if err := s.save(matches); err != nil {
		return tournament.Match{}, err
	}
	s.matches = matches

	log.Info("Match status changed", "matchID", matchID, "from", from, "to", to)
	change := StatusChange{MatchID: matchID, From: from, To: to}
	if err := s.pubsub.SendMessage(pubsub.EventMatchStatusChanged, change); err != nil {
		log.Error("Failed to publish status change", "error", err, "matchID", matchID)
	}
	return matches[i], nil
}

// AdvanceStage moves a player who has completed a match in their current
// stage on to the next one.
func (s *Scheduler) AdvanceStage(playerID string) (tournament.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.roster.Get(playerID)
	if err != nil {
		return tournament.Player{}, err
	}
	if s.isWithdrawn(playerID) {
		return tournament.Player{}, fmt.Errorf("%w: %s", tournament.ErrPlayerWithdrawn, playerID)
	}
	next, ok := tournament.NextStage(player.Stage)
	if !ok {
		return tournament.Player{}, fmt.Errorf("%w: %s", tournament.ErrTerminalStage, playerID)
	}
	completed := false
	for _, m := range s.matches {
		if m.Stage == player.Stage && m.Status == tournament.MatchCompleted && m.HasPlayer(playerID) {
			completed = true
			break
		}
	}
	if !completed {
		return tournament.Player{}, fmt.Errorf("%w: %s in %s", tournament.ErrNoCompletedMatch, playerID, player.Stage.Name())
	}

	if err := s.roster.UpdateStage(playerID, next); err != nil {
		return tournament.Player{}, fmt.Errorf("failed to advance player: %w", err)
	}

	log.Info("Player advanced", "playerID", playerID, "from", player.Stage, "to", next)
	s.metrics.IncStageAdvancements()
	adv := Advancement{PlayerID: playerID, From: player.Stage, To: next}
	if err := s.pubsub.SendMessage(pubsub.EventPlayerAdvanced, adv); err != nil {
		log.Error("Failed to publish advancement", "error", err, "playerID", playerID)
	}
	player.Stage = next
	return player, nil
}

// ReplaceInMatch swaps oldID for newID in a waiting match.
func (s *Scheduler) ReplaceInMatch(matchID, oldID, newID string) (tournament.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(matchID)
	if i < 0 {
		return tournament.Match{}, fmt.Errorf("%w: %s", tournament.ErrMatchNotFound, matchID)
	}
	m := s.matches[i]
	if m.Status != tournament.MatchWaiting {
		return tournament.Match{}, fmt.Errorf("%w: %s is already %s", tournament.ErrInvalidTransition, matchID, m.Status)
	}
	if !m.HasPlayer(oldID) {
		return tournament.Match{}, fmt.Errorf("%w: %s does not play in %s", tournament.ErrPlayerNotFound, oldID, matchID)
	}
	if m.HasPlayer(newID) {
		return tournament.Match{}, fmt.Errorf("%w: %s already plays in %s", tournament.ErrAlreadyScheduled, newID, matchID)
	}

	if m.Player1ID == oldID {
		m.Player1ID = newID
	} else {
		m.Player2ID = newID
	}
	matches := append([]tournament.Match(nil), s.matches...)
	matches[i] = m
	if err := s.save(matches); err != nil {
		return tournament.Match{}, err
	}
	s.matches = matches

	log.Info("Replaced player in match", "matchID", matchID, "out", oldID, "in", newID)
	sub := Substitution{MatchID: matchID, WithdrawnID: oldID, SubstituteID: newID}
	if err := s.pubsub.SendMessage(pubsub.EventPlayerSubstituted, sub); err != nil {
		log.Error("Failed to publish substitution", "error", err, "matchID", matchID)
	}
	return m, nil
}

func (s *Scheduler) inStage(playerID string, stage tournament.Stage) bool {
	for _, m := range s.matches {
		if m.Stage == stage && m.HasPlayer(playerID) {
			return true
		}
	}
	return false
}

func (s *Scheduler) indexOf(matchID string) int {
	for i, m := range s.matches {
		if m.ID == matchID {
			return i
		}
	}
	return -1
}

func (s *Scheduler) save(matches []tournament.Match) error {
	records := make([]flatfile.Record, 0, len(matches))
	for _, m := range matches {
		records = append(records, flatfile.Record{
			m.ID, string(m.Stage), m.RoundID, m.Player1ID, m.Player2ID, m.ScheduledTime, string(m.Status), m.CourtID,
		})
	}
	if err := flatfile.WriteRecords(s.path, records); err != nil {
		log.Error("Failed to save matches", "error", err, "path", s.path)
		return fmt.Errorf("failed to save matches: %w", err)
	}
	return nil
}

func parseMatch(r flatfile.Record) (tournament.Match, error) {
	if len(r) < 8 {
		return tournament.Match{}, fmt.Errorf("expected 8 fields, got %d", len(r))
	}
	stage, err := tournament.ParseStage(r.Field(1))
	if err != nil {
		return tournament.Match{}, fmt.Errorf("invalid stage %q", r.Field(1))
	}
	status := tournament.MatchStatus(r.Field(6))
	switch status {
	case tournament.MatchWaiting, tournament.MatchOngoing, tournament.MatchCompleted:
	default:
		return tournament.Match{}, fmt.Errorf("invalid status %q", r.Field(6))
	}
	if _, ok := tournament.CourtByID(r.Field(7)); !ok {
		return tournament.Match{}, fmt.Errorf("unknown court %q", r.Field(7))
	}
	if r.Field(3) == r.Field(4) {
		return tournament.Match{}, fmt.Errorf("match %s pairs %s with itself", r.Field(0), r.Field(3))
	}
	return tournament.Match{
		ID:            r.Field(0),
		Stage:         stage,
		RoundID:       r.Field(2),
		Player1ID:     r.Field(3),
		Player2ID:     r.Field(4),
		ScheduledTime: r.Field(5),
		Status:        status,
		CourtID:       r.Field(7),
	}, nil
}
