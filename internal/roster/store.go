package roster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/flatfile"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// New loads the roster from path. A missing file yields an empty roster.
func New(path string) (RosterStore, error) {
	s := &store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory roster with the content of the players file.
// Malformed lines are logged and skipped.
func (s *store) Reload() error {
	records, err := flatfile.ReadRecords(s.path)
	if err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}

	players := make([]tournament.Player, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		p, err := parsePlayer(r)
		if err != nil {
			log.Warn("Skipping malformed player record", "error", err, "line", i+1, "path", s.path)
			continue
		}
		if seen[p.ID] {
			log.Warn("Skipping duplicate player record", "playerID", p.ID, "line", i+1, "path", s.path)
			continue
		}
		seen[p.ID] = true
		players = append(players, p)
	}

	s.mu.Lock()
	s.players = players
	s.mu.Unlock()
	log.Debug("Loaded roster", "players", len(players))
	return nil
}

func (s *store) All() []tournament.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tournament.Player, len(s.players))
	copy(out, s.players)
	return out
}

func (s *store) Get(playerID string) (tournament.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(playerID)
	if i < 0 {
		return tournament.Player{}, fmt.Errorf("%w: %s", tournament.ErrPlayerNotFound, playerID)
	}
	return s.players[i], nil
}

// ByStage returns the players currently in stage, in roster order.
func (s *store) ByStage(stage tournament.Stage) []tournament.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []tournament.Player
	for _, p := range s.players {
		if p.Stage == stage {
			out = append(out, p)
		}
	}
	return out
}

// FindByName looks a player up by name, ignoring case and surrounding space.
func (s *store) FindByName(name string) (tournament.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := strings.TrimSpace(name)
	for _, p := range s.players {
		if strings.EqualFold(p.Name, want) {
			return p, nil
		}
	}
	return tournament.Player{}, fmt.Errorf("%w: no player named %q", tournament.ErrPlayerNotFound, want)
}

// Register adds a new player to the qualifier stage and rewrites the roster.
func (s *store) Register(name, nationality string, ranking int, gender string) (tournament.Player, error) {
	for _, field := range []string{name, nationality, gender} {
		if !flatfile.CleanField(field) {
			return tournament.Player{}, fmt.Errorf("%w: %q", tournament.ErrInvalidField, field)
		}
	}
	if ranking < 0 {
		return tournament.Player{}, fmt.Errorf("%w: ranking must not be negative", tournament.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.players))
	for i, p := range s.players {
		ids[i] = p.ID
	}
	player := tournament.Player{
		ID:          tournament.FormatID(tournament.PlayerPrefix, tournament.MaxIDNumber(tournament.PlayerPrefix, ids...)+1),
		Name:        strings.TrimSpace(name),
		Nationality: strings.TrimSpace(nationality),
		Ranking:     ranking,
		Gender:      strings.TrimSpace(gender),
		Stage:       tournament.StageQualifier,
	}

	players := append(append([]tournament.Player(nil), s.players...), player)
	if err := s.save(players); err != nil {
		return tournament.Player{}, err
	}
	s.players = players
	log.Info("Registered player", "playerID", player.ID, "name", player.Name)
	return player, nil
}

// UpdateStage moves a player to stage and rewrites the roster.
func (s *store) UpdateStage(playerID string, stage tournament.Stage) error {
	if !stage.Valid() {
		return tournament.ErrInvalidStage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(playerID)
	if i < 0 {
		return fmt.Errorf("%w: %s", tournament.ErrPlayerNotFound, playerID)
	}
	players := append([]tournament.Player(nil), s.players...)
	players[i].Stage = stage
	if err := s.save(players); err != nil {
		return err
	}
	s.players = players
	return nil
}

func (s *store) indexOf(playerID string) int {
	for i, p := range s.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (s *store) save(players []tournament.Player) error {
	records := make([]flatfile.Record, 0, len(players))
	for _, p := range players {
		records = append(records, flatfile.Record{
			p.ID, p.Name, p.Nationality, strconv.Itoa(p.Ranking), p.Gender, string(p.Stage),
		})
	}
	if err := flatfile.WriteRecords(s.path, records); err != nil {
		log.Error("Failed to save roster", "error", err, "path", s.path)
		return fmt.Errorf("failed to save players: %w", err)
	}
	return nil
}

func parsePlayer(r flatfile.Record) (tournament.Player, error) {
	if len(r) < 6 {
		return tournament.Player{}, fmt.Errorf("expected 6 fields, got %d", len(r))
	}
	if !tournament.ValidPlayerID(r.Field(0)) {
		return tournament.Player{}, fmt.Errorf("%w: %q", tournament.ErrInvalidIDFormat, r.Field(0))
	}
	ranking, err := strconv.Atoi(r.Field(3))
	if err != nil {
		return tournament.Player{}, fmt.Errorf("invalid ranking %q", r.Field(3))
	}
	stage, err := tournament.ParseStage(r.Field(5))
	if err != nil {
		return tournament.Player{}, fmt.Errorf("invalid stage %q", r.Field(5))
	}
	return tournament.Player{
		ID:          r.Field(0),
		Name:        r.Field(1),
		Nationality: r.Field(2),
		Ranking:     ranking,
		Gender:      r.Field(4),
		Stage:       stage,
	}, nil
}
