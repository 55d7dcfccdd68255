package history

import (
	"sync"
	"time"

	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/notifier"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// Options configures the history log.
type Options struct {
	Path        string
	PointTarget int
	Now         func() time.Time
}

// Filter narrows a query. Empty fields match everything.
type Filter struct {
	PlayerID string
	Stage    tournament.Stage
}

// Log keeps finished matches, most recent on top, mirrored to MatchHistory.txt.
type Log struct {
	path     string
	target   int
	now      func() time.Time
	notifier notifier.Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient

	mu             sync.RWMutex
	stack          []tournament.HistoryEntry
	historyCounter int
	matchCounter   int
}
