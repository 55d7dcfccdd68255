package scheduling

import (
	"sync"
	"time"

	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/notifier"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/roster"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// Options locates the match file and shapes the slot grid.
type Options struct {
	Path  string
	Start time.Time
	Days  int
}

// WithdrawalChecker reports players who have left the tournament.
type WithdrawalChecker interface {
	IsWithdrawn(playerID string) bool
}

// Scheduler pairs players, assigns court slots and moves players between stages.
type Scheduler struct {
	path     string
	roster   roster.RosterStore
	pubsub   pubsub.PubSubClient
	notifier notifier.Notifier
	metrics  metrics.Metrics

	mu        sync.RWMutex
	matches   []tournament.Match
	grid      *slotGrid
	withdrawn WithdrawalChecker
}

// StatusChange is published when a match moves through its lifecycle.
type StatusChange struct {
	MatchID string                 `msgpack:"match_id" json:"match_id"`
	From    tournament.MatchStatus `msgpack:"from" json:"from"`
	To      tournament.MatchStatus `msgpack:"to" json:"to"`
}

// Advancement is published when a player moves to the next stage.
type Advancement struct {
	PlayerID string           `msgpack:"player_id" json:"player_id"`
	From     tournament.Stage `msgpack:"from" json:"from"`
	To       tournament.Stage `msgpack:"to" json:"to"`
}

// Substitution is published when a player is swapped out of a waiting match.
type Substitution struct {
	MatchID      string `msgpack:"match_id" json:"match_id"`
	WithdrawnID  string `msgpack:"withdrawn_id" json:"withdrawn_id"`
	SubstituteID string `msgpack:"substitute_id" json:"substitute_id"`
}
