package gates

import (
	"fmt"
	"sync"

	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/ticketing"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

const (
	// GateCapacity is the number of seats a single gate can hold.
	GateCapacity = 20
	// entryCycles bounds how many times entry walks round all gates.
	entryCycles = 2
)

// Names lists the gates in round-robin order.
var Names = []string{"A", "B", "C", "D", "E", "F"}

var (
	ErrGateFull       = fmt.Errorf("%w: not enough gate capacity", tournament.ErrCapacity)
	ErrAlreadyEntered = fmt.Errorf("%w: ticket already holds gate seats", tournament.ErrState)
	ErrNoEntryRecord  = fmt.Errorf("%w: no gate entry recorded for ticket", tournament.ErrState)
)

// RequestKind says whether a gate request lets spectators in or out.
type RequestKind string

const (
	Entry RequestKind = "entry"
	Exit  RequestKind = "exit"
)

// Request is a queued gate operation.
type Request struct {
	Kind     RequestKind `json:"kind" msgpack:"kind"`
	TicketID string      `json:"ticket_id" msgpack:"ticket_id"`
}

// Allocation is the number of seats a ticket holds at one gate.
type Allocation struct {
	Gate  string `json:"gate" msgpack:"gate"`
	Seats int    `json:"seats" msgpack:"seats"`
}

// Result reports what processing a request did. Err is set when the
// request failed, or with ErrGateFull when entry left a shortfall.
type Result struct {
	Request     Request      `json:"request" msgpack:"request"`
	Allocations []Allocation `json:"allocations,omitempty" msgpack:"allocations"`
	Shortfall   int          `json:"shortfall,omitempty" msgpack:"shortfall"`
	Released    int          `json:"released,omitempty" msgpack:"released"`
	Err         error        `json:"-" msgpack:"-"`
}

// GateStatus is a read-only view of one gate.
type GateStatus struct {
	Name     string `json:"name"`
	Used     int    `json:"used"`
	Capacity int    `json:"capacity"`
	Blocks   int    `json:"blocks"`
}

// TicketDesk is the part of the sales service gates need.
type TicketDesk interface {
	Spectator(ticketID string) (ticketing.Spectator, error)
	Admit(ticketID string) error
	Consume(ticketID string) error
}

// SeatLedger gives seats back to a court.
type SeatLedger interface {
	Release(courtID string, n int) error
}

type block struct {
	ticketID string
	seats    int
}

type gate struct {
	name   string
	blocks []block
	used   int
}

// Allocator spreads spectators over the gates and tracks who holds what.
type Allocator struct {
	desk    TicketDesk
	ledger  SeatLedger
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient

	mu      sync.Mutex
	gates   []*gate
	queue   []Request
	records map[string][]Allocation
}
