package ticketing

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// TicketType is a spectator pricing tier. Higher tiers are served first.
type TicketType string

const (
	VIP       TicketType = "VIP"
	EarlyBird TicketType = "Early-bird"
	General   TicketType = "General"
)

// Priority orders tiers in the request queue.
func (t TicketType) Priority() int {
	switch t {
	case VIP:
		return 3
	case EarlyBird:
		return 2
	case General:
		return 1
	}
	return 0
}

// ParseTicketType matches a tier name ignoring case.
func ParseTicketType(s string) (TicketType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vip":
		return VIP, nil
	case "early-bird", "earlybird", "early bird":
		return EarlyBird, nil
	case "general":
		return General, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTicketType, s)
}

// SaleStatus is the outcome recorded for a processed request.
type SaleStatus string

const (
	StatusPurchased SaleStatus = "Purchased"
	StatusRejected  SaleStatus = "Rejected"
	StatusRefunded  SaleStatus = "Refunded"
)

var (
	ErrUnknownTicketType = fmt.Errorf("%w: unknown ticket type", tournament.ErrValidation)
	ErrInvalidSeats      = fmt.Errorf("%w: seats must be greater than zero", tournament.ErrValidation)
	ErrCourtFull         = fmt.Errorf("%w: not enough seats left on court", tournament.ErrCapacity)
	ErrOverRelease       = fmt.Errorf("%w: release would exceed court capacity", tournament.ErrState)
	ErrQueueEmpty        = fmt.Errorf("%w: no pending ticket requests", tournament.ErrState)
	ErrTicketNotFound    = fmt.Errorf("%w: ticket", tournament.ErrNotFound)
	ErrTicketAdmitted    = fmt.Errorf("%w: spectator has already entered", tournament.ErrState)
)

// Spectator is a ticket request and, once purchased, the ticket holder.
type Spectator struct {
	Name     string     `json:"name"`
	Type     TicketType `json:"ticket_type"`
	Seats    int        `json:"seats"`
	MatchID  string     `json:"match_id"`
	CourtID  string     `json:"court_id"`
	TicketID string     `json:"ticket_id,omitempty"`
}

// Sale is one line of Sales.txt.
type Sale struct {
	ID          string     `json:"id" msgpack:"id"`
	Name        string     `json:"spectator_name" msgpack:"spectator_name"`
	Quantity    int        `json:"quantity" msgpack:"quantity"`
	Type        TicketType `json:"ticket_type" msgpack:"ticket_type"`
	TicketID    string     `json:"ticket_id" msgpack:"ticket_id"`
	PurchasedAt time.Time  `json:"purchased_at" msgpack:"purchased_at"`
	Status      SaleStatus `json:"status" msgpack:"status"`
}

// Ledger tracks the seats still available on each court.
type Ledger struct {
	mu        sync.Mutex
	remaining map[string]int
	metrics   metrics.Metrics
}

// MatchLookup resolves the match a ticket is bought for.
type MatchLookup interface {
	Match(matchID string) (tournament.Match, error)
}

// Options configures the sales service.
type Options struct {
	Path string
	Now  func() time.Time
}

// Service turns queued requests into sales against the ledger.
type Service struct {
	path    string
	now     func() time.Time
	matches MatchLookup
	ledger  *Ledger
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient

	mu         sync.Mutex
	queue      *Queue
	sales      []Sale
	holders    map[string]Spectator
	admitted   map[string]bool
	nextTicket int
	nextSale   int
}
