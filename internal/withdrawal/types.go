package withdrawal

import (
	"fmt"
	"sync"
	"time"

	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/notifier"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

var (
	ErrAlreadyWithdrawn     = fmt.Errorf("%w: player has already withdrawn", tournament.ErrState)
	ErrNotWithdrawn         = fmt.Errorf("%w: player has not withdrawn", tournament.ErrState)
	ErrIneligibleSubstitute = fmt.Errorf("%w: substitute cannot take this match", tournament.ErrState)
)

// Players is the roster lookup withdrawals need.
type Players interface {
	Get(playerID string) (tournament.Player, error)
	FindByName(name string) (tournament.Player, error)
}

// MatchBook is the part of the scheduler withdrawals need.
type MatchBook interface {
	Match(matchID string) (tournament.Match, error)
	MatchesForPlayer(playerID string) []tournament.Match
	InStage(playerID string, stage tournament.Stage) bool
	ReplaceInMatch(matchID, oldID, newID string) (tournament.Match, error)
}

// Options configures the withdrawal service.
type Options struct {
	Path string
	Now  func() time.Time
}

// Service records withdrawals and finds substitutes for the matches they leave open.
type Service struct {
	path     string
	now      func() time.Time
	players  Players
	matches  MatchBook
	notifier notifier.Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient

	mu        sync.RWMutex
	stack     []tournament.Withdrawal
	withdrawn map[string]bool
	next      int
}
