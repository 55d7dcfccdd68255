package roster

import "github.com/mauv0809/court-keeper/internal/tournament"

// RosterStore defines the interface for interacting with the registered players.
type RosterStore interface {
	All() []tournament.Player
	Get(playerID string) (tournament.Player, error)
	ByStage(stage tournament.Stage) []tournament.Player
	FindByName(name string) (tournament.Player, error)
	Register(name, nationality string, ranking int, gender string) (tournament.Player, error)
	UpdateStage(playerID string, stage tournament.Stage) error
	Reload() error
}
