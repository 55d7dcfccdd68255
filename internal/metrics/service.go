package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_matches_scheduled_total",
			Help: "The total number of matches placed on a court.",
		}),
		StageAdvancements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_stage_advancements_total",
			Help: "The total number of players advanced to the next stage.",
		}),
		TicketsSold: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_tickets_sold_total",
			Help: "The total number of ticket purchases accepted, by tier.",
		}, []string{"tier"}),
		TicketsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_tickets_rejected_total",
			Help: "The total number of ticket purchases rejected for lack of capacity, by tier.",
		}, []string{"tier"}),
		TicketsRefunded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_tickets_refunded_total",
			Help: "The total number of tickets refunded before entry.",
		}),
		CourtCapacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tournament_court_remaining_seats",
			Help: "Seats still available on each court.",
		}, []string{"court"}),
		GateEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_gate_entries_total",
			Help: "The total number of entry requests processed at the gates.",
		}),
		GateExits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_gate_exits_total",
			Help: "The total number of exit requests processed at the gates.",
		}),
		GateShortfalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_gate_shortfalls_total",
			Help: "The total number of entry requests that could not seat every spectator.",
		}),
		Withdrawals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_withdrawals_total",
			Help: "The total number of player withdrawals.",
		}),
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_matches_recorded_total",
			Help: "The total number of match results written to the history log.",
		}),
		MatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tournament_match_duration_seconds",
			Help:    "The duration of scored matches.",
			Buckets: []float64{60, 300, 600, 1200, 1800, 2700, 3600, 5400, 7200},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tournament_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesScheduled,
		s.StageAdvancements,
		s.TicketsSold,
		s.TicketsRejected,
		s.TicketsRefunded,
		s.CourtCapacity,
		s.GateEntries,
		s.GateExits,
		s.GateShortfalls,
		s.Withdrawals,
		s.MatchesRecorded,
		s.MatchDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesScheduled() {
	s.MatchesScheduled.Inc()
}

func (s *Service) IncStageAdvancements() {
	s.StageAdvancements.Inc()
}

func (s *Service) IncTicketsSold(tier string) {
	s.TicketsSold.WithLabelValues(tier).Inc()
}

func (s *Service) IncTicketsRejected(tier string) {
	s.TicketsRejected.WithLabelValues(tier).Inc()
}

func (s *Service) IncTicketsRefunded() {
	s.TicketsRefunded.Inc()
}

func (s *Service) SetCourtCapacity(courtID string, remaining int) {
	s.CourtCapacity.WithLabelValues(courtID).Set(float64(remaining))
}

func (s *Service) IncGateEntries() {
	s.GateEntries.Inc()
}

func (s *Service) IncGateExits() {
	s.GateExits.Inc()
}

func (s *Service) IncGateShortfalls() {
	s.GateShortfalls.Inc()
}

func (s *Service) IncWithdrawals() {
	s.Withdrawals.Inc()
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) ObserveMatchDuration(seconds float64) {
	s.MatchDuration.Observe(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
