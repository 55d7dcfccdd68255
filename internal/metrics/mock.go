package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	matchesScheduled  int
	stageAdvancements int
	ticketsSold       map[string]int
	ticketsRejected   map[string]int
	ticketsRefunded   int
	courtCapacity     map[string]int
	gateEntries       int
	gateExits         int
	gateShortfalls    int
	withdrawals       int
	matchesRecorded   int
	matchDurations    []float64
	slackNotifSent    int
	slackNotifFailed  int
	startupTime       float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		ticketsSold:     make(map[string]int),
		ticketsRejected: make(map[string]int),
		courtCapacity:   make(map[string]int),
		matchDurations:  make([]float64, 0),
	}
}

func (m *Mock) IncMatchesScheduled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesScheduled++
}

func (m *Mock) IncStageAdvancements() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stageAdvancements++
}

func (m *Mock) IncTicketsSold(tier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticketsSold[tier]++
}

func (m *Mock) IncTicketsRejected(tier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticketsRejected[tier]++
}

func (m *Mock) IncTicketsRefunded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticketsRefunded++
}

func (m *Mock) SetCourtCapacity(courtID string, remaining int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courtCapacity[courtID] = remaining
}

func (m *Mock) IncGateEntries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gateEntries++
}

func (m *Mock) IncGateExits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gateExits++
}

func (m *Mock) IncGateShortfalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gateShortfalls++
}

func (m *Mock) IncWithdrawals() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawals++
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) ObserveMatchDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchDurations = append(m.matchDurations, seconds)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesScheduled returns the number of times IncMatchesScheduled was called.
func (m *Mock) MatchesScheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesScheduled
}

// StageAdvancements returns the number of times IncStageAdvancements was called.
func (m *Mock) StageAdvancements() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stageAdvancements
}

// TicketsSold returns the accepted purchases recorded for tier.
func (m *Mock) TicketsSold(tier string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticketsSold[tier]
}

// TicketsRejected returns the rejected purchases recorded for tier.
func (m *Mock) TicketsRejected(tier string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticketsRejected[tier]
}

// TicketsRefunded returns the number of times IncTicketsRefunded was called.
func (m *Mock) TicketsRefunded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticketsRefunded
}

// CourtCapacity returns the last remaining-seat value set for courtID.
func (m *Mock) CourtCapacity(courtID string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.courtCapacity[courtID]
	return v, ok
}

// GateEntries returns the number of times IncGateEntries was called.
func (m *Mock) GateEntries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gateEntries
}

// GateExits returns the number of times IncGateExits was called.
func (m *Mock) GateExits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gateExits
}

// GateShortfalls returns the number of times IncGateShortfalls was called.
func (m *Mock) GateShortfalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gateShortfalls
}

// Withdrawals returns the number of times IncWithdrawals was called.
func (m *Mock) Withdrawals() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withdrawals
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// MatchDurations returns every value passed to ObserveMatchDuration.
func (m *Mock) MatchDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.matchDurations))
	copy(out, m.matchDurations)
	return out
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
