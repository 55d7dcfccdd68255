package gates_test

import (
	"path/filepath"
	"testing"

	"github.com/mauv0809/court-keeper/internal/gates"
	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/ticketing"
	"github.com/mauv0809/court-keeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchTable map[string]tournament.Match

func (t matchTable) Match(id string) (tournament.Match, error) {
	m, ok := t[id]
	if !ok {
		return tournament.Match{}, tournament.ErrMatchNotFound
	}
	return m, nil
}

type fixture struct {
	allocator *gates.Allocator
	tickets   *ticketing.Service
	ledger    *ticketing.Ledger
	metrics   *metrics.Mock
	pubsub    *pubsub.MockPubSubClient
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{metrics: metrics.NewMock(), pubsub: pubsub.NewMock()}
	f.ledger = ticketing.NewLedger(f.metrics)
	matches := matchTable{
		"M001": {ID: "M001", CourtID: "C001"},
		"M002": {ID: "M002", CourtID: "C003"},
	}
	tickets, err := ticketing.New(ticketing.Options{Path: filepath.Join(t.TempDir(), "Sales.txt")}, matches, f.ledger, f.metrics, f.pubsub)
	require.NoError(t, err)
	f.tickets = tickets
	f.allocator = gates.New(tickets, f.ledger, f.metrics, f.pubsub)
	return f
}

// buy processes a single request and returns its ticket ID.
func (f *fixture) buy(t *testing.T, seats int, matchID string) string {
	t.Helper()
	_, err := f.tickets.Request("Fan", ticketing.General, seats, matchID)
	require.NoError(t, err)
	sale, err := f.tickets.ProcessNext()
	require.NoError(t, err)
	require.Equal(t, ticketing.StatusPurchased, sale.Status)
	return sale.TicketID
}

func used(a *gates.Allocator) map[string]int {
	out := make(map[string]int)
	for _, g := range a.Gates() {
		out[g.Name] = g.Used
	}
	return out
}

func TestEntryAndExit_RoundTrip(t *testing.T) {
	f := setup(t)
	ticket := f.buy(t, 25, "M001")

	left, _ := f.ledger.Remaining("C001")
	require.Equal(t, 75, left)

	f.allocator.RequestEntry(ticket)
	assert.Equal(t, 1, f.allocator.Pending())
	results := f.allocator.ProcessGateRequests()
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, []gates.Allocation{{Gate: "A", Seats: 20}, {Gate: "B", Seats: 5}}, results[0].Allocations)
	assert.Len(t, results[0].Allocations, 2, "25 seats do not fit one gate")
	assert.Equal(t, 20, used(f.allocator)["A"])
	assert.Equal(t, 5, used(f.allocator)["B"])
	assert.Zero(t, f.allocator.Pending())

	_, err := f.tickets.Refund(ticket)
	assert.ErrorIs(t, err, ticketing.ErrTicketAdmitted)

	f.allocator.RequestExit(ticket)
	results = f.allocator.ProcessGateRequests()
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 25, results[0].Released)

	left, _ = f.ledger.Remaining("C001")
	assert.Equal(t, 100, left)
	for name, n := range used(f.allocator) {
		assert.Zerof(t, n, "gate %s should be empty", name)
	}
	assert.Empty(t, f.allocator.Holding(ticket))
	_, err = f.tickets.Spectator(ticket)
	assert.ErrorIs(t, err, ticketing.ErrTicketNotFound, "exit consumes the ticket")

	assert.Equal(t, 1, f.metrics.GateEntries())
	assert.Equal(t, 1, f.metrics.GateExits())
	assert.Len(t, f.pubsub.CallsFor(pubsub.EventGateEntry), 1)
	assert.Len(t, f.pubsub.CallsFor(pubsub.EventGateExit), 1)
}

func TestEntry_Shortfall(t *testing.T) {
	f := setup(t)
	ticket := f.buy(t, 130, "M002")

	f.allocator.RequestEntry(ticket)
	res := f.allocator.ProcessGateRequests()[0]

	assert.ErrorIs(t, res.Err, gates.ErrGateFull)
	assert.ErrorIs(t, res.Err, tournament.ErrCapacity)
	assert.Equal(t, 10, res.Shortfall)
	require.Len(t, res.Allocations, len(gates.Names))
	for _, g := range f.allocator.Gates() {
		assert.Equal(t, gates.GateCapacity, g.Used)
	}
	assert.Equal(t, 1, f.metrics.GateShortfalls())
	assert.Len(t, f.allocator.Holding(ticket), 6, "placed seats stay recorded")

	other := f.buy(t, 1, "M002")
	f.allocator.RequestEntry(other)
	res = f.allocator.ProcessGateRequests()[0]
	assert.ErrorIs(t, res.Err, gates.ErrGateFull)
	assert.Empty(t, res.Allocations)
	assert.Empty(t, f.allocator.Holding(other))
	_, err := f.tickets.Refund(other)
	assert.NoError(t, err, "a spectator who never got in can still be refunded")

	f.allocator.RequestExit(ticket)
	res = f.allocator.ProcessGateRequests()[0]
	require.NoError(t, res.Err)
	assert.Equal(t, 130, res.Released)
	left, _ := f.ledger.Remaining("C003")
	assert.Equal(t, 250, left)
}

func TestRequests_Errors(t *testing.T) {
	f := setup(t)
	ticket := f.buy(t, 4, "M001")

	f.allocator.RequestExit(ticket)
	f.allocator.RequestEntry(ticket)
	f.allocator.RequestEntry(ticket)
	f.allocator.RequestEntry("T999")
	f.allocator.RequestExit("T999")

	results := f.allocator.ProcessGateRequests()
	require.Len(t, results, 5)
	assert.ErrorIs(t, results[0].Err, gates.ErrNoEntryRecord, "exit was queued before entry")
	assert.NoError(t, results[1].Err)
	assert.ErrorIs(t, results[2].Err, gates.ErrAlreadyEntered)
	assert.ErrorIs(t, results[3].Err, ticketing.ErrTicketNotFound)
	assert.ErrorIs(t, results[4].Err, gates.ErrNoEntryRecord)

	assert.Equal(t, 4, used(f.allocator)["A"])
}

func TestExit_PopsTopBlockRegardlessOfOwner(t *testing.T) {
	f := setup(t)
	first := f.buy(t, 10, "M001")
	second := f.buy(t, 5, "M001")

	f.allocator.RequestEntry(first)
	f.allocator.RequestEntry(second)
	f.allocator.ProcessGateRequests()
	require.Equal(t, 15, used(f.allocator)["A"])

	f.allocator.RequestExit(first)
	res := f.allocator.ProcessGateRequests()[0]
	require.NoError(t, res.Err)
	assert.Equal(t, 10, res.Released)
	assert.Equal(t, 10, used(f.allocator)["A"], "the most recent block on the gate was released")
	assert.Equal(t, []gates.Allocation{{Gate: "A", Seats: 5}}, f.allocator.Holding(second))
}
