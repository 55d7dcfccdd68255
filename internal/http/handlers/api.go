package handlers

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/history"
	"github.com/mauv0809/court-keeper/internal/journal"
	"github.com/mauv0809/court-keeper/internal/ticketing"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// defaultJournalLimit caps /journal when no limit is given.
const defaultJournalLimit = 50

type PlayerLister interface {
	All() []tournament.Player
}

type MatchLister interface {
	Matches() []tournament.Match
}

type SalesLister interface {
	Sales() []ticketing.Sale
}

type HistoryQuerier interface {
	Query(f history.Filter) []tournament.HistoryEntry
}

type WithdrawalLister interface {
	List() []tournament.Withdrawal
}

type JournalReader interface {
	List(limit int) ([]journal.Event, error)
	CountByTopic() (map[string]int, error)
}

func ListPlayersHandler(players PlayerLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, players.All())
	}
}

func ListMatchesHandler(matches MatchLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, matches.Matches())
	}
}

func ListSalesHandler(sales SalesLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, sales.Sales())
	}
}

// HistoryHandler serves the match history, optionally filtered by the
// player and stage query parameters.
func HistoryHandler(entries HistoryQuerier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := history.Filter{PlayerID: r.URL.Query().Get("player")}
		if s := r.URL.Query().Get("stage"); s != "" {
			stage, err := tournament.ParseStage(s)
			if err != nil {
				http.Error(w, "Unknown stage", http.StatusBadRequest)
				return
			}
			f.Stage = stage
		}
		writeJSON(w, entries.Query(f))
	}
}

func ListWithdrawalsHandler(withdrawals WithdrawalLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, withdrawals.List())
	}
}

type journalEntry struct {
	journal.Event
	Data any `json:"data,omitempty"`
}

type journalResponse struct {
	Counts map[string]int `json:"counts"`
	Events []journalEntry `json:"events"`
}

// JournalHandler serves the most recent journaled events with their decoded payloads.
func JournalHandler(events JournalReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultJournalLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		list, err := events.List(limit)
		if err != nil {
			http.Error(w, "Failed to read journal", http.StatusInternalServerError)
			log.Error("Failed to read journal", "error", err)
			return
		}
		counts, err := events.CountByTopic()
		if err != nil {
			http.Error(w, "Failed to read journal", http.StatusInternalServerError)
			log.Error("Failed to count journal events", "error", err)
			return
		}

		resp := journalResponse{Counts: counts, Events: make([]journalEntry, 0, len(list))}
		for _, e := range list {
			entry := journalEntry{Event: e}
			var data map[string]any
			if err := e.Decode(&data); err == nil {
				entry.Data = data
			}
			resp.Events = append(resp.Events, entry)
		}
		writeJSON(w, resp)
	}
}
