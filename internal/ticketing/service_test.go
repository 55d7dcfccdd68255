package ticketing_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

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

var testMatches = matchTable{
	"M001": {ID: "M001", Stage: tournament.StageQualifier, CourtID: "C001"},
	"M002": {ID: "M002", Stage: tournament.StageKnockout, CourtID: "C003"},
}

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local)

type salesFixture struct {
	service *ticketing.Service
	metrics *metrics.Mock
	pubsub  *pubsub.MockPubSubClient
	path    string
}

func setupService(t *testing.T, path string) *salesFixture {
	t.Helper()
	if path == "" {
		path = filepath.Join(t.TempDir(), "Sales.txt")
	}
	f := &salesFixture{metrics: metrics.NewMock(), pubsub: pubsub.NewMock(), path: path}
	s, err := ticketing.New(
		ticketing.Options{Path: path, Now: func() time.Time { return fixedNow }},
		testMatches, ticketing.NewLedger(f.metrics), f.metrics, f.pubsub,
	)
	require.NoError(t, err)
	f.service = s
	return f
}

func TestRequest_Validation(t *testing.T) {
	f := setupService(t, "")

	tests := []struct {
		name    string
		who     string
		tier    ticketing.TicketType
		seats   int
		matchID string
		want    error
	}{
		{"empty name", " ", ticketing.General, 1, "M001", tournament.ErrInvalidField},
		{"comma in name", "Doe, J", ticketing.General, 1, "M001", tournament.ErrInvalidField},
		{"unknown tier", "Jo", ticketing.TicketType("Gold"), 1, "M001", ticketing.ErrUnknownTicketType},
		{"zero seats", "Jo", ticketing.General, 0, "M001", ticketing.ErrInvalidSeats},
		{"unknown match", "Jo", ticketing.General, 1, "M404", tournament.ErrMatchNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Request(tt.who, tt.tier, tt.seats, tt.matchID)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.service.Pending())

	s, err := f.service.Request("  Jo ", ticketing.VIP, 2, "M002")
	require.NoError(t, err)
	assert.Equal(t, "Jo", s.Name)
	assert.Equal(t, "C003", s.CourtID)
	assert.Empty(t, s.TicketID)
}

func TestProcess_PriorityAndCapacity(t *testing.T) {
	f := setupService(t, "")

	_, err := f.service.Request("Gina", ticketing.General, 200, "M002")
	require.NoError(t, err)
	_, err = f.service.Request("Gus", ticketing.General, 10, "M002")
	require.NoError(t, err)
	_, err = f.service.Request("Vera", ticketing.VIP, 100, "M002")
	require.NoError(t, err)

	sales, err := f.service.ProcessAll()
	require.NoError(t, err)
	require.Len(t, sales, 3)

	assert.Equal(t, "Vera", sales[0].Name)
	assert.Equal(t, ticketing.StatusPurchased, sales[0].Status)
	assert.Equal(t, "T001", sales[0].TicketID)
	assert.Equal(t, "TKS001", sales[0].ID)

	assert.Equal(t, "Gina", sales[1].Name)
	assert.Equal(t, ticketing.StatusRejected, sales[1].Status, "150 seats left, 200 asked")
	assert.Equal(t, "T002", sales[1].TicketID, "rejected requests still consume a ticket id")

	assert.Equal(t, "Gus", sales[2].Name)
	assert.Equal(t, ticketing.StatusPurchased, sales[2].Status)

	left, err := f.service.Ledger().Remaining("C003")
	require.NoError(t, err)
	assert.Equal(t, 140, left)

	assert.Equal(t, 1, f.metrics.TicketsSold("VIP"))
	assert.Equal(t, 1, f.metrics.TicketsSold("General"))
	assert.Equal(t, 1, f.metrics.TicketsRejected("General"))
	assert.Len(t, f.pubsub.CallsFor(pubsub.EventTicketSold), 2)
	assert.Len(t, f.pubsub.CallsFor(pubsub.EventTicketRejected), 1)

	_, err = f.service.Spectator("T002")
	assert.ErrorIs(t, err, ticketing.ErrTicketNotFound)
	holder, err := f.service.Spectator("T001")
	require.NoError(t, err)
	assert.Equal(t, 100, holder.Seats)
	assert.Len(t, f.service.Spectators(), 2)

	_, err = f.service.ProcessNext()
	assert.ErrorIs(t, err, ticketing.ErrQueueEmpty)

	data, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.Equal(t,
		"TKS001,Vera,100,VIP,T001,2025-03-10 09:30:00,Purchased\n"+
			"TKS002,Gina,200,General,T002,2025-03-10 09:30:00,Rejected\n"+
			"TKS003,Gus,10,General,T003,2025-03-10 09:30:00,Purchased\n",
		string(data))
}

func TestNew_ContinuesIDsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Sales.txt")
	content := "TKS001,Ann,2,VIP,T007,2025-03-09 10:00:00,Purchased\n" +
		"TKS004,Bob,1,general,T003,2025-03-09 11:00:00,Rejected\n" +
		"garbage line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f := setupService(t, path)
	require.Len(t, f.service.Sales(), 2)

	_, err := f.service.Request("Cat", ticketing.EarlyBird, 3, "M001")
	require.NoError(t, err)
	sale, err := f.service.ProcessNext()
	require.NoError(t, err)
	assert.Equal(t, "TKS005", sale.ID)
	assert.Equal(t, "T008", sale.TicketID)

	sales := f.service.Sales()
	require.Len(t, sales, 3)
	assert.Equal(t, "TKS005", sales[2].ID)
}

func TestRefund(t *testing.T) {
	f := setupService(t, "")
	_, err := f.service.Request("Rae", ticketing.General, 30, "M001")
	require.NoError(t, err)
	_, err = f.service.Request("Sol", ticketing.General, 5, "M001")
	require.NoError(t, err)
	_, err = f.service.ProcessAll()
	require.NoError(t, err)

	left, _ := f.service.Ledger().Remaining("C001")
	require.Equal(t, 65, left)

	sale, err := f.service.Refund("T001")
	require.NoError(t, err)
	assert.Equal(t, ticketing.StatusRefunded, sale.Status)
	assert.Equal(t, "TKS003", sale.ID)
	left, _ = f.service.Ledger().Remaining("C001")
	assert.Equal(t, 95, left)
	assert.Equal(t, 1, f.metrics.TicketsRefunded())

	_, err = f.service.Refund("T001")
	assert.ErrorIs(t, err, ticketing.ErrTicketNotFound)

	require.NoError(t, f.service.Admit("T002"))
	_, err = f.service.Refund("T002")
	assert.ErrorIs(t, err, ticketing.ErrTicketAdmitted)

	require.NoError(t, f.service.Consume("T002"))
	assert.ErrorIs(t, f.service.Consume("T002"), ticketing.ErrTicketNotFound)
	assert.ErrorIs(t, f.service.Admit("T002"), ticketing.ErrTicketNotFound)
	assert.Empty(t, f.service.Spectators())
}
