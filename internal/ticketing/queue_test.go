package ticketing_test

import (
	"testing"

	"github.com/mauv0809/court-keeper/internal/ticketing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketType(t *testing.T) {
	tests := []struct {
		in   string
		want ticketing.TicketType
		ok   bool
	}{
		{"VIP", ticketing.VIP, true},
		{"vip", ticketing.VIP, true},
		{"Early-bird", ticketing.EarlyBird, true},
		{"EARLYBIRD", ticketing.EarlyBird, true},
		{" general ", ticketing.General, true},
		{"platinum", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ticketing.ParseTicketType(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ticketing.ErrUnknownTicketType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueue_VIPJumpsEarlierGeneral(t *testing.T) {
	q := ticketing.NewQueue()
	q.Enqueue(ticketing.Spectator{Name: "first general", Type: ticketing.General})
	q.Enqueue(ticketing.Spectator{Name: "second general", Type: ticketing.General})
	q.Enqueue(ticketing.Spectator{Name: "late vip", Type: ticketing.VIP})

	s, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "late vip", s.Name)
}

func TestQueue_OrdersByTierThenArrival(t *testing.T) {
	q := ticketing.NewQueue()
	for _, s := range []ticketing.Spectator{
		{Name: "g1", Type: ticketing.General},
		{Name: "e1", Type: ticketing.EarlyBird},
		{Name: "v1", Type: ticketing.VIP},
		{Name: "g2", Type: ticketing.General},
		{Name: "e2", Type: ticketing.EarlyBird},
		{Name: "v2", Type: ticketing.VIP},
	} {
		q.Enqueue(s)
	}
	want := []string{"v1", "v2", "e1", "e2", "g1", "g2"}

	var pending []string
	for _, s := range q.Pending() {
		pending = append(pending, s.Name)
	}
	assert.Equal(t, want, pending)
	assert.Equal(t, 6, q.Len(), "Pending must not drain the queue")

	var got []string
	for {
		s, ok := q.Dequeue()
		if !ok {
			break
		}
		got = append(got, s.Name)
	}
	assert.Equal(t, want, got)
	assert.Zero(t, q.Len())
}
