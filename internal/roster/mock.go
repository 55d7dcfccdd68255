package roster

import (
	"strings"
	"sync"

	"github.com/mauv0809/court-keeper/internal/tournament"
)

// MockStore is an in-memory implementation of RosterStore for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	Players []tournament.Player

	// Spies
	RegisterFunc    func(name, nationality string, ranking int, gender string) (tournament.Player, error)
	UpdateStageFunc func(playerID string, stage tournament.Stage) error

	// Call records
	RegisterCalls    []string
	UpdateStageCalls []struct {
		PlayerID string
		Stage    tournament.Stage
	}
}

// NewMock creates a mock seeded with players.
func NewMock(players ...tournament.Player) *MockStore {
	return &MockStore{Players: players}
}

func (m *MockStore) All() []tournament.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tournament.Player(nil), m.Players...)
}

func (m *MockStore) Get(playerID string) (tournament.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return tournament.Player{}, tournament.ErrPlayerNotFound
}

func (m *MockStore) ByStage(stage tournament.Stage) []tournament.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tournament.Player
	for _, p := range m.Players {
		if p.Stage == stage {
			out = append(out, p)
		}
	}
	return out
}

func (m *MockStore) FindByName(name string) (tournament.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Players {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return tournament.Player{}, tournament.ErrPlayerNotFound
}

func (m *MockStore) Register(name, nationality string, ranking int, gender string) (tournament.Player, error) {
	m.mu.Lock()
	m.RegisterCalls = append(m.RegisterCalls, name)
	fn := m.RegisterFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(name, nationality, ranking, gender)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.Players))
	for i, existing := range m.Players {
		ids[i] = existing.ID
	}
	p := tournament.Player{
		ID:          tournament.FormatID(tournament.PlayerPrefix, tournament.MaxIDNumber(tournament.PlayerPrefix, ids...)+1),
		Name:        name,
		Nationality: nationality,
		Ranking:     ranking,
		Gender:      gender,
		Stage:       tournament.StageQualifier,
	}
	m.Players = append(m.Players, p)
	return p, nil
}

func (m *MockStore) UpdateStage(playerID string, stage tournament.Stage) error {
	m.mu.Lock()
	m.UpdateStageCalls = append(m.UpdateStageCalls, struct {
		PlayerID string
		Stage    tournament.Stage
	}{playerID, stage})
	fn := m.UpdateStageFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(playerID, stage)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Players {
		if m.Players[i].ID == playerID {
			m.Players[i].Stage = stage
			return nil
		}
	}
	return tournament.ErrPlayerNotFound
}

func (m *MockStore) Reload() error { return nil }
