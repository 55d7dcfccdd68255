package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesScheduled   prometheus.Counter
	StageAdvancements  prometheus.Counter
	TicketsSold        *prometheus.CounterVec
	TicketsRejected    *prometheus.CounterVec
	TicketsRefunded    prometheus.Counter
	CourtCapacity      *prometheus.GaugeVec
	GateEntries        prometheus.Counter
	GateExits          prometheus.Counter
	GateShortfalls     prometheus.Counter
	Withdrawals        prometheus.Counter
	MatchesRecorded    prometheus.Counter
	MatchDuration      prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
