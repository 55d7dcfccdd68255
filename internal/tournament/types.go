package tournament

import (
	"fmt"
	"time"
)

// Stage is a tournament phase. Each stage is played on one fixed court.
type Stage string

const (
	StageQualifier  Stage = "S001"
	StageRoundRobin Stage = "S002"
	StageKnockout   Stage = "S003"
)

// MatchStatus represents where a match is in its lifecycle.
type MatchStatus string

const (
	MatchWaiting   MatchStatus = "waiting"
	MatchOngoing   MatchStatus = "ongoing"
	MatchCompleted MatchStatus = "completed"
)

// NoSlotAvailable is stored as the scheduled time when a court's grid is full.
const NoSlotAvailable = "TBD - No available slots"

// Player is a registered tournament player.
type Player struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	Ranking     int    `json:"ranking"`
	Gender      string `json:"gender"`
	Stage       Stage  `json:"stage_id"`
}

// Court is one of the venue's fixed courts.
type Court struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	TotalCapacity        int    `json:"total_capacity"`
	MaxConcurrentMatches int    `json:"max_concurrent_matches"`
}

// Match is a scheduled pairing of two players on a court.
type Match struct {
	ID            string      `json:"id"`
	Stage         Stage       `json:"stage_id"`
	RoundID       string      `json:"round_id"`
	Player1ID     string      `json:"player1_id"`
	Player2ID     string      `json:"player2_id"`
	ScheduledTime string      `json:"scheduled_time"`
	Status        MatchStatus `json:"status"`
	CourtID       string      `json:"court_id"`
}

// HasPlayer reports whether playerID occupies either slot of the match.
func (m *Match) HasPlayer(playerID string) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

// Opponent returns the other player in the match, or "" if playerID is not in it.
func (m *Match) Opponent(playerID string) string {
	switch playerID {
	case m.Player1ID:
		return m.Player2ID
	case m.Player2ID:
		return m.Player1ID
	}
	return ""
}

// HistoryEntry is a finished match as kept in the match history log.
type HistoryEntry struct {
	ID        string        `json:"id"`
	MatchID   string        `json:"match_id"`
	Stage     Stage         `json:"stage_id"`
	Player1ID string        `json:"player1_id"`
	Player2ID string        `json:"player2_id"`
	Score1    int           `json:"score1"`
	Score2    int           `json:"score2"`
	MatchTime time.Time     `json:"match_time"`
	Duration  time.Duration `json:"duration"`
}

// Score renders the result as "p1-p2".
func (e HistoryEntry) Score() string {
	return fmt.Sprintf("%d-%d", e.Score1, e.Score2)
}

// Winner returns the ID of the player with more points, or "" on a tie.
func (e HistoryEntry) Winner() string {
	switch {
	case e.Score1 > e.Score2:
		return e.Player1ID
	case e.Score2 > e.Score1:
		return e.Player2ID
	}
	return ""
}

// Withdrawal records a player leaving the tournament.
type Withdrawal struct {
	ID       string    `json:"id"`
	PlayerID string    `json:"player_id"`
	Name     string    `json:"name"`
	Reason   string    `json:"reason"`
	Time     time.Time `json:"time"`
}
