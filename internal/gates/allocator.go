package gates

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/pubsub"
)

// New creates an allocator with every gate empty.
func New(desk TicketDesk, ledger SeatLedger, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Allocator {
	a := &Allocator{
		desk:    desk,
		ledger:  ledger,
		metrics: metrics,
		pubsub:  pubsub,
		records: make(map[string][]Allocation),
	}
	for _, name := range Names {
		a.gates = append(a.gates, &gate{name: name})
	}
	return a
}

// RequestEntry queues an entry for ticketID.
func (a *Allocator) RequestEntry(ticketID string) {
	a.enqueue(Request{Kind: Entry, TicketID: ticketID})
}

// RequestExit queues an exit for ticketID.
func (a *Allocator) RequestExit(ticketID string) {
	a.enqueue(Request{Kind: Exit, TicketID: ticketID})
}

func (a *Allocator) enqueue(r Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, r)
	log.Debug("Queued gate request", "kind", r.Kind, "ticketID", r.TicketID, "pending", len(a.queue))
}

// Pending returns the number of queued requests.
func (a *Allocator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// ProcessGateRequests drains the queue in arrival order.
func (a *Allocator) ProcessGateRequests() []Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	results := make([]Result, 0, len(a.queue))
	for len(a.queue) > 0 {
		r := a.queue[0]
		a.queue = a.queue[1:]

		var res Result
		switch r.Kind {
		case Entry:
			res = a.enter(r)
		case Exit:
			res = a.exit(r)
		default:
			res = Result{Request: r, Err: fmt.Errorf("unknown gate request %q", r.Kind)}
		}
		if res.Err != nil {
			log.Warn("Gate request failed", "error", res.Err, "kind", r.Kind, "ticketID", r.TicketID)
		}
		results = append(results, res)
	}
	return results
}

func (a *Allocator) enter(r Request) Result {
	res := Result{Request: r}
	holder, err := a.desk.Spectator(r.TicketID)
	if err != nil {
		res.Err = err
		return res
	}
	if _, ok := a.records[r.TicketID]; ok {
		res.Err = fmt.Errorf("%w: %s", ErrAlreadyEntered, r.TicketID)
		return res
	}

	remaining := holder.Seats
	placed := make(map[string]int)
	var order []string
	for cycle := 0; cycle < entryCycles && remaining > 0; cycle++ {
		for _, g := range a.gates {
			if remaining == 0 {
				break
			}
			take := min(remaining, GateCapacity-g.used)
			if take <= 0 {
				continue
			}
			g.blocks = append(g.blocks, block{ticketID: r.TicketID, seats: take})
			g.used += take
			remaining -= take
			if _, seen := placed[g.name]; !seen {
				order = append(order, g.name)
			}
			placed[g.name] += take
		}
	}
	for _, name := range order {
		res.Allocations = append(res.Allocations, Allocation{Gate: name, Seats: placed[name]})
	}

	if len(res.Allocations) > 0 {
		a.records[r.TicketID] = res.Allocations
		if err := a.desk.Admit(r.TicketID); err != nil {
			log.Error("Failed to mark ticket admitted", "error", err, "ticketID", r.TicketID)
		}
		a.metrics.IncGateEntries()
	}
	if remaining > 0 {
		res.Shortfall = remaining
		res.Err = fmt.Errorf("%w: %d of %d seats could not be placed", ErrGateFull, remaining, holder.Seats)
		a.metrics.IncGateShortfalls()
	}

	log.Info("Spectator entered", "ticketID", r.TicketID, "allocations", res.Allocations, "shortfall", res.Shortfall)
	if err := a.pubsub.SendMessage(pubsub.EventGateEntry, res); err != nil {
		log.Error("Failed to publish gate entry", "error", err, "ticketID", r.TicketID)
	}
	return res
}

func (a *Allocator) exit(r Request) Result {
	res := Result{Request: r}
	allocations, ok := a.records[r.TicketID]
	if !ok {
		res.Err = fmt.Errorf("%w: %s", ErrNoEntryRecord, r.TicketID)
		return res
	}
	holder, err := a.desk.Spectator(r.TicketID)
	if err != nil {
		res.Err = err
		return res
	}

	for _, alloc := range allocations {
		g := a.gate(alloc.Gate)
		if g == nil || len(g.blocks) == 0 {
			continue
		}
		top := g.blocks[len(g.blocks)-1]
		g.blocks = g.blocks[:len(g.blocks)-1]
		g.used -= top.seats
		if top.ticketID != r.TicketID {
			log.Warn("Gate released another spectator's block", "gate", g.name, "ticketID", r.TicketID, "blockTicketID", top.ticketID)
		}
	}
	delete(a.records, r.TicketID)

	if err := a.ledger.Release(holder.CourtID, holder.Seats); err != nil {
		res.Err = fmt.Errorf("failed to restore seats: %w", err)
		return res
	}
	res.Released = holder.Seats
	if err := a.desk.Consume(r.TicketID); err != nil {
		log.Error("Failed to consume ticket", "error", err, "ticketID", r.TicketID)
	}
	res.Allocations = allocations

	a.metrics.IncGateExits()
	log.Info("Spectator left", "ticketID", r.TicketID, "released", res.Released, "courtID", holder.CourtID)
	if err := a.pubsub.SendMessage(pubsub.EventGateExit, res); err != nil {
		log.Error("Failed to publish gate exit", "error", err, "ticketID", r.TicketID)
	}
	return res
}

func (a *Allocator) gate(name string) *gate {
	for _, g := range a.gates {
		if g.name == name {
			return g
		}
	}
	return nil
}

// Gates returns the current occupancy of every gate.
func (a *Allocator) Gates() []GateStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]GateStatus, 0, len(a.gates))
	for _, g := range a.gates {
		out = append(out, GateStatus{Name: g.name, Used: g.used, Capacity: GateCapacity, Blocks: len(g.blocks)})
	}
	return out
}

// Holding returns the gate seats recorded for ticketID.
func (a *Allocator) Holding(ticketID string) []Allocation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Allocation(nil), a.records[ticketID]...)
}
