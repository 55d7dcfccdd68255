package roster

import (
	"sync"

	"github.com/mauv0809/court-keeper/internal/tournament"
)

// store keeps the roster in memory and mirrors it to Players.txt.
type store struct {
	path    string
	mu      sync.RWMutex
	players []tournament.Player
}
