package http

import (
	"net/http"
	"time"

	"github.com/mauv0809/court-keeper/internal/http/handlers"
)

// Sources groups the read-only views the status server exposes.
type Sources struct {
	Players     handlers.PlayerLister
	Matches     handlers.MatchLister
	Sales       handlers.SalesLister
	History     handlers.HistoryQuerier
	Withdrawals handlers.WithdrawalLister
	Journal     handlers.JournalReader
}

type Server struct {
	Sources        Sources
	MetricsHandler http.Handler
	Router         *http.ServeMux
	Started        time.Time
}
