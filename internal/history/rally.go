package history

import (
	"fmt"

	"github.com/mauv0809/court-keeper/internal/tournament"
)

// DefaultPointTarget is the score a player must reach, two clear, to win.
const DefaultPointTarget = 12

var (
	ErrUnknownScorer   = fmt.Errorf("%w: scorer is not playing this match", tournament.ErrValidation)
	ErrSamePlayer      = fmt.Errorf("%w: a match needs two different players", tournament.ErrValidation)
	ErrRallyFinished   = fmt.Errorf("%w: match already has a winner", tournament.ErrState)
	ErrRallyInProgress = fmt.Errorf("%w: match has no winner yet", tournament.ErrState)
)

// Rally scores a match point by point.
type Rally struct {
	player1, player2 string
	score1, score2   int
	target           int
}

// NewRally starts a 0-0 match. A target below 1 uses DefaultPointTarget.
func NewRally(player1, player2 string, target int) (*Rally, error) {
	if player1 == "" || player2 == "" || player1 == player2 {
		return nil, ErrSamePlayer
	}
	if target < 1 {
		target = DefaultPointTarget
	}
	return &Rally{player1: player1, player2: player2, target: target}, nil
}

// Point awards a point to playerID.
func (r *Rally) Point(playerID string) error {
	if r.Finished() {
		return ErrRallyFinished
	}
	switch playerID {
	case r.player1:
		r.score1++
	case r.player2:
		r.score2++
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScorer, playerID)
	}
	return nil
}

// Finished reports whether a player has reached the target with a two point lead.
func (r *Rally) Finished() bool {
	lead := r.score1 - r.score2
	if lead < 0 {
		lead = -lead
	}
	return max(r.score1, r.score2) >= r.target && lead >= 2
}

// Winner returns the winning player, or "" while the match is running.
func (r *Rally) Winner() string {
	if !r.Finished() {
		return ""
	}
	if r.score1 > r.score2 {
		return r.player1
	}
	return r.player2
}

func (r *Rally) Players() (string, string) { return r.player1, r.player2 }

func (r *Rally) Scores() (int, int) { return r.score1, r.score2 }

// Score renders the current score as "p1-p2".
func (r *Rally) Score() string {
	return fmt.Sprintf("%d-%d", r.score1, r.score2)
}
