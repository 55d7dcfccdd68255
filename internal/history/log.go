package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/flatfile"
	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/notifier"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// New loads MatchHistory.txt. Lines are oldest first, so pushing them in
// order leaves the most recent entry on top.
func New(opts Options, notifier notifier.Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) (*Log, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	target := opts.PointTarget
	if target < 1 {
		target = DefaultPointTarget
	}
	l := &Log{
		path:     opts.Path,
		target:   target,
		now:      now,
		notifier: notifier,
		metrics:  metrics,
		pubsub:   pubsub,
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload rebuilds the stack and the ID counters from disk.
func (l *Log) Reload() error {
	records, err := flatfile.ReadRecords(l.path)
	if err != nil {
		return fmt.Errorf("failed to load match history: %w", err)
	}

	var stack []tournament.HistoryEntry
	var historyIDs, matchIDs []string
	for i, r := range records {
		e, err := parseEntry(r)
		if err != nil {
			log.Warn("Skipping malformed history record", "error", err, "line", i+1, "path", l.path)
			continue
		}
		stack = append(stack, e)
		historyIDs = append(historyIDs, e.ID)
		matchIDs = append(matchIDs, e.MatchID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.stack = stack
	l.historyCounter = tournament.MaxIDNumber(tournament.HistoryPrefix, historyIDs...) + 1
	l.matchCounter = tournament.MaxIDNumber(tournament.MatchPrefix, matchIDs...) + 1
	log.Debug("Loaded match history", "entries", len(stack), "historyCounter", l.historyCounter, "matchCounter", l.matchCounter)
	return nil
}

// PointTarget is the score needed to win a rally.
func (l *Log) PointTarget() int {
	return l.target
}

// NewRally starts scoring a match with the configured point target.
func (l *Log) NewRally(player1, player2 string) (*Rally, error) {
	return NewRally(player1, player2, l.target)
}

// Record stores a finished rally. An empty matchID is filled from the
// match counter.
func (l *Log) Record(matchID string, stage tournament.Stage, rally *Rally, started time.Time) (tournament.HistoryEntry, error) {
	if !stage.Valid() {
		return tournament.HistoryEntry{}, fmt.Errorf("%w: %q", tournament.ErrInvalidStage, stage)
	}
	if rally == nil || !rally.Finished() {
		return tournament.HistoryEntry{}, ErrRallyInProgress
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	finished := l.now()
	duration := finished.Sub(started).Truncate(time.Second)
	if started.IsZero() || duration < 0 {
		duration = 0
	}
	usedCounter := false
	if strings.TrimSpace(matchID) == "" {
		matchID = tournament.FormatID(tournament.MatchPrefix, l.matchCounter)
		usedCounter = true
	}
	p1, p2 := rally.Players()
	s1, s2 := rally.Scores()
	entry := tournament.HistoryEntry{
		ID:        tournament.FormatID(tournament.HistoryPrefix, l.historyCounter),
		MatchID:   matchID,
		Stage:     stage,
		Player1ID: p1,
		Player2ID: p2,
		Score1:    s1,
		Score2:    s2,
		MatchTime: finished.Truncate(time.Second),
		Duration:  duration,
	}

	stack := append(append([]tournament.HistoryEntry(nil), l.stack...), entry)
	if err := l.save(stack); err != nil {
		return tournament.HistoryEntry{}, err
	}
	l.stack = stack
	l.historyCounter++
	if n, err := tournament.IDNumber(tournament.MatchPrefix, matchID); err == nil && n >= l.matchCounter {
		l.matchCounter = n + 1
	} else if usedCounter {
		l.matchCounter++
	}

	log.Info("Recorded match", "historyID", entry.ID, "matchID", entry.MatchID, "score", entry.Score(), "winner", entry.Winner())
	l.metrics.IncMatchesRecorded()
	l.metrics.ObserveMatchDuration(entry.Duration.Seconds())
	if err := l.pubsub.SendMessage(pubsub.EventMatchRecorded, entry); err != nil {
		log.Error("Failed to publish match recorded", "error", err, "historyID", entry.ID)
	}
	if err := l.notifier.SendMatchResult(entry); err != nil {
		log.Error("Failed to notify match result", "error", err, "historyID", entry.ID)
	}
	return entry, nil
}

// Entries returns the whole history, most recent first.
func (l *Log) Entries() []tournament.HistoryEntry {
	return l.Query(Filter{})
}

// Query returns the entries matching f, most recent first.
func (l *Log) Query(f Filter) []tournament.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []tournament.HistoryEntry
	for i := len(l.stack) - 1; i >= 0; i-- {
		e := l.stack[i]
		if f.PlayerID != "" && e.Player1ID != f.PlayerID && e.Player2ID != f.PlayerID {
			continue
		}
		if f.Stage != "" && e.Stage != f.Stage {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (l *Log) save(stack []tournament.HistoryEntry) error {
	records := make([]flatfile.Record, 0, len(stack))
	for _, e := range stack {
		records = append(records, flatfile.Record{
			e.ID, e.MatchID, string(e.Stage), e.Player1ID, e.Player2ID, e.Score(),
			e.MatchTime.Format(time.DateTime), e.Duration.String(),
		})
	}
	if err := flatfile.WriteRecords(l.path, records); err != nil {
		log.Error("Failed to save match history", "error", err, "path", l.path)
		return fmt.Errorf("failed to save match history: %w", err)
	}
	return nil
}

func parseEntry(r flatfile.Record) (tournament.HistoryEntry, error) {
	if len(r) < 8 {
		return tournament.HistoryEntry{}, fmt.Errorf("expected 8 fields, got %d", len(r))
	}
	if _, err := tournament.IDNumber(tournament.HistoryPrefix, r.Field(0)); err != nil {
		return tournament.HistoryEntry{}, err
	}
	stage, err := tournament.ParseStage(r.Field(2))
	if err != nil {
		return tournament.HistoryEntry{}, fmt.Errorf("invalid stage %q", r.Field(2))
	}
	s1, s2, err := parseScore(r.Field(5))
	if err != nil {
		return tournament.HistoryEntry{}, err
	}
	at, err := time.ParseInLocation(time.DateTime, r.Field(6), time.Local)
	if err != nil {
		return tournament.HistoryEntry{}, fmt.Errorf("invalid match time %q", r.Field(6))
	}
	duration, err := time.ParseDuration(r.Field(7))
	if err != nil {
		return tournament.HistoryEntry{}, fmt.Errorf("invalid duration %q", r.Field(7))
	}
	return tournament.HistoryEntry{
		ID:        r.Field(0),
		MatchID:   r.Field(1),
		Stage:     stage,
		Player1ID: r.Field(3),
		Player2ID: r.Field(4),
		Score1:    s1,
		Score2:    s2,
		MatchTime: at,
		Duration:  duration,
	}, nil
}

func parseScore(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid score %q", s)
	}
	s1, err1 := strconv.Atoi(strings.TrimSpace(a))
	s2, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("invalid score %q", s)
	}
	return s1, s2, nil
}
