package scheduling

import (
	"fmt"
	"time"

	"github.com/mauv0809/court-keeper/internal/tournament"
)

// Daily slot window. Each slot lasts one hour; the last one ends at 18:00.
const (
	FirstSlotHour = 7
	LastSlotHour  = 17
)

// SlotLayout is how a slot start is rendered in Matches.txt.
const SlotLayout = "2006-01-02 15:00"

// slotGrid tracks how many matches each court runs in each hourly slot.
// Slots are ordered date-major, then hour.
type slotGrid struct {
	slots []string
	index map[string]int
	usage map[string][]int
}

func newSlotGrid(start time.Time, days int) *slotGrid {
	g := &slotGrid{
		index: make(map[string]int),
		usage: make(map[string][]int),
	}
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for d := 0; d < days; d++ {
		for h := FirstSlotHour; h <= LastSlotHour; h++ {
			label := day.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour).Format(SlotLayout)
			g.index[label] = len(g.slots)
			g.slots = append(g.slots, label)
		}
	}
	for _, c := range tournament.Courts() {
		g.usage[c.ID] = make([]int, len(g.slots))
	}
	return g
}

// take claims the earliest slot on court with spare concurrency.
func (g *slotGrid) take(court tournament.Court) (string, bool) {
	usage := g.usage[court.ID]
	for i, n := range usage {
		if n < court.MaxConcurrentMatches {
			usage[i]++
			return g.slots[i], true
		}
	}
	return "", false
}

// occupy marks an already persisted match as using its slot.
func (g *slotGrid) occupy(court tournament.Court, label string) error {
	i, ok := g.index[label]
	if !ok {
		return fmt.Errorf("slot %q is outside the tournament grid", label)
	}
	usage := g.usage[court.ID]
	if usage[i] >= court.MaxConcurrentMatches {
		return fmt.Errorf("slot %q on %s is already full", label, court.ID)
	}
	usage[i]++
	return nil
}

func (g *slotGrid) release(courtID, label string) {
	i, ok := g.index[label]
	if !ok {
		return
	}
	if usage := g.usage[courtID]; usage != nil && usage[i] > 0 {
		usage[i]--
	}
}

// free returns the number of matches that can still start on court.
func (g *slotGrid) free(court tournament.Court) int {
	total := 0
	for _, n := range g.usage[court.ID] {
		total += court.MaxConcurrentMatches - n
	}
	return total
}
