package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesScheduled()
	IncStageAdvancements()
	IncTicketsSold(tier string)
	IncTicketsRejected(tier string)
	IncTicketsRefunded()
	SetCourtCapacity(courtID string, remaining int)
	IncGateEntries()
	IncGateExits()
	IncGateShortfalls()
	IncWithdrawals()
	IncMatchesRecorded()
	ObserveMatchDuration(seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
