package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mauv0809/court-keeper/internal/history"
	courthttp "github.com/mauv0809/court-keeper/internal/http"
	"github.com/mauv0809/court-keeper/internal/journal"
	"github.com/mauv0809/court-keeper/internal/roster"
	"github.com/mauv0809/court-keeper/internal/ticketing"
	"github.com/mauv0809/court-keeper/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type matchList []tournament.Match

func (m matchList) Matches() []tournament.Match { return m }

type salesList []ticketing.Sale

func (s salesList) Sales() []ticketing.Sale { return s }

type withdrawalList []tournament.Withdrawal

func (w withdrawalList) List() []tournament.Withdrawal { return w }

type historyStub struct {
	entries []tournament.HistoryEntry
	filters []history.Filter
}

func (h *historyStub) Query(f history.Filter) []tournament.HistoryEntry {
	h.filters = append(h.filters, f)
	return h.entries
}

type journalStub struct {
	events []journal.Event
	limits []int
	err    error
}

func (j *journalStub) List(limit int) ([]journal.Event, error) {
	j.limits = append(j.limits, limit)
	return j.events, j.err
}

func (j *journalStub) CountByTopic() (map[string]int, error) {
	counts := map[string]int{}
	for _, e := range j.events {
		counts[e.Topic]++
	}
	return counts, j.err
}

func newTestServer(hist *historyStub, events *journalStub) *courthttp.Server {
	players := roster.NewMock(
		tournament.Player{ID: "P001", Name: "Ana Diaz", Nationality: "ES", Ranking: 4, Gender: "F", Stage: tournament.StageQualifier},
	)
	sources := courthttp.Sources{
		Players: players,
		Matches: matchList{{ID: "M1", Stage: tournament.StageQualifier, RoundID: "R1", Player1ID: "P001", Player2ID: "P002",
			ScheduledTime: "2025-03-10 07:00", Status: tournament.MatchWaiting, CourtID: "C001"}},
		Sales:       salesList{{ID: "TKS001", Name: "Lee", Quantity: 2, Type: ticketing.VIP, TicketID: "T001", Status: ticketing.StatusPurchased}},
		History:     hist,
		Withdrawals: withdrawalList{},
		Journal:     events,
	}
	return courthttp.NewServer(sources, http.NotFoundHandler())
}

func get(t *testing.T, s http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(&historyStub{}, &journalStub{})

	rr := get(t, s, "/health")

	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "ok", got["status"])
	assert.NotEmpty(t, got["uptime"])
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(&historyStub{}, &journalStub{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()

	s.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
}

func TestListEndpoints(t *testing.T) {
	s := newTestServer(&historyStub{}, &journalStub{})

	t.Run("players", func(t *testing.T) {
		rr := get(t, s, "/players")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var got []tournament.Player
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, "Ana Diaz", got[0].Name)
	})

	t.Run("matches", func(t *testing.T) {
		rr := get(t, s, "/matches")
		var got []tournament.Match
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, "C001", got[0].CourtID)
	})

	t.Run("sales", func(t *testing.T) {
		rr := get(t, s, "/sales")
		var got []ticketing.Sale
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.Equal(t, ticketing.VIP, got[0].Type)
	})

	t.Run("withdrawals empty", func(t *testing.T) {
		rr := get(t, s, "/withdrawals")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})
}

func TestHistoryFilters(t *testing.T) {
	hist := &historyStub{entries: []tournament.HistoryEntry{{ID: "H001", MatchID: "M1", Score1: 12, Score2: 9}}}
	s := newTestServer(hist, &journalStub{})

	rr := get(t, s, "/history?player=P001&stage=S001")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, hist.filters, 1)
	assert.Equal(t, history.Filter{PlayerID: "P001", Stage: tournament.StageQualifier}, hist.filters[0])
}

func TestHistoryRejectsUnknownStage(t *testing.T) {
	hist := &historyStub{}
	s := newTestServer(hist, &journalStub{})

	rr := get(t, s, "/history?stage=S009")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, hist.filters)
}

func TestJournal(t *testing.T) {
	payload, err := msgpack.Marshal(map[string]any{"match_id": "M1"})
	require.NoError(t, err)
	events := &journalStub{events: []journal.Event{
		{ID: "e1", Topic: "match_scheduled", Payload: payload, CreatedAt: time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)},
	}}
	s := newTestServer(&historyStub{}, events)

	t.Run("default limit", func(t *testing.T) {
		rr := get(t, s, "/journal")
		require.Equal(t, http.StatusOK, rr.Code)

		var got struct {
			Counts map[string]int `json:"counts"`
			Events []struct {
				ID    string         `json:"id"`
				Topic string         `json:"topic"`
				Data  map[string]any `json:"data"`
			} `json:"events"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, map[string]int{"match_scheduled": 1}, got.Counts)
		require.Len(t, got.Events, 1)
		assert.Equal(t, "M1", got.Events[0].Data["match_id"])
		assert.Equal(t, 50, events.limits[len(events.limits)-1])
	})

	t.Run("explicit limit", func(t *testing.T) {
		rr := get(t, s, "/journal?limit=5")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 5, events.limits[len(events.limits)-1])
	})

	t.Run("bad limit", func(t *testing.T) {
		rr := get(t, s, "/journal?limit=zero")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestJournalFailure(t *testing.T) {
	s := newTestServer(&historyStub{}, &journalStub{err: errors.New("db closed")})

	rr := get(t, s, "/journal")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
