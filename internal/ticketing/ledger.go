package ticketing

import (
	"fmt"

	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// NewLedger starts every court at its nominal capacity.
func NewLedger(metrics metrics.Metrics) *Ledger {
	l := &Ledger{remaining: make(map[string]int), metrics: metrics}
	for _, c := range tournament.Courts() {
		l.remaining[c.ID] = c.TotalCapacity
		metrics.SetCourtCapacity(c.ID, c.TotalCapacity)
	}
	return l
}

// Reserve takes n seats on court.
func (l *Ledger) Reserve(courtID string, n int) error {
	if n <= 0 {
		return ErrInvalidSeats
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	left, ok := l.remaining[courtID]
	if !ok {
		return fmt.Errorf("%w: %s", tournament.ErrCourtNotFound, courtID)
	}
	if n > left {
		return fmt.Errorf("%w: %s has %d seats left, %d requested", ErrCourtFull, courtID, left, n)
	}
	l.remaining[courtID] = left - n
	l.metrics.SetCourtCapacity(courtID, left-n)
	return nil
}

// Release gives n seats back to court. The total can never exceed the
// court's nominal capacity.
func (l *Ledger) Release(courtID string, n int) error {
	if n <= 0 {
		return ErrInvalidSeats
	}
	court, ok := tournament.CourtByID(courtID)
	if !ok {
		return fmt.Errorf("%w: %s", tournament.ErrCourtNotFound, courtID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	left := l.remaining[courtID]
	if left+n > court.TotalCapacity {
		return fmt.Errorf("%w: %s would have %d of %d seats", ErrOverRelease, courtID, left+n, court.TotalCapacity)
	}
	l.remaining[courtID] = left + n
	l.metrics.SetCourtCapacity(courtID, left+n)
	return nil
}

func (l *Ledger) Remaining(courtID string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	left, ok := l.remaining[courtID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", tournament.ErrCourtNotFound, courtID)
	}
	return left, nil
}

// Snapshot copies the remaining seats per court.
func (l *Ledger) Snapshot() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.remaining))
	for id, n := range l.remaining {
		out[id] = n
	}
	return out
}
