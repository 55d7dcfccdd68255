package console

import (
	"errors"
	"fmt"
	"time"

	"github.com/mauv0809/court-keeper/internal/history"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

func (c *Console) historyMenu() error {
	return c.menu("Match history", []menuItem{
		{"Record match", c.recordMatch},
		{"Search by player", c.historyByPlayer},
		{"Search by stage", c.historyByStage},
		{"Show all", c.showHistory},
		{"Back", nil},
	})
}

// recordMatch scores a match point by point. A scheduled match ID supplies
// the players and stage; a blank ID asks for them.
func (c *Console) recordMatch() error {
	matchID, err := c.readLine("Match ID (blank for unscheduled): ")
	if err != nil {
		return err
	}

	var stage tournament.Stage
	var player1, player2 string
	if matchID != "" {
		m, err := c.svc.Scheduler.Match(matchID)
		if err != nil {
			return err
		}
		// Only a match in play can be scored; recording completes it.
		switch m.Status {
		case tournament.MatchWaiting:
			return fmt.Errorf("%w: %s has not started yet", tournament.ErrInvalidTransition, m.ID)
		case tournament.MatchCompleted:
			return fmt.Errorf("%w: %s is already completed", tournament.ErrInvalidTransition, m.ID)
		}
		stage, player1, player2 = m.Stage, m.Player1ID, m.Player2ID
	} else {
		if stage, err = c.readStage(); err != nil {
			return err
		}
		if player1, err = c.readLine("Player 1 ID: "); err != nil {
			return err
		}
		if player2, err = c.readLine("Player 2 ID: "); err != nil {
			return err
		}
	}

	rally, err := c.svc.History.NewRally(player1, player2)
	if err != nil {
		return err
	}
	started := c.now()
	c.printf("First to %d, two clear. Enter the ID of each point's winner.\n", c.svc.History.PointTarget())
	for !rally.Finished() {
		scorer, err := c.readLine(rally.Score() + " point to: ")
		if err != nil {
			return err
		}
		if err := rally.Point(scorer); err != nil {
			if errors.Is(err, history.ErrUnknownScorer) {
				c.printf("%s is not playing; enter %s or %s.\n", scorer, player1, player2)
				continue
			}
			return err
		}
	}

	entry, err := c.svc.History.Record(matchID, stage, rally, started)
	if err != nil {
		return err
	}
	c.printf("Recorded %s: %s won %s.\n", entry.ID, entry.Winner(), entry.Score())
	if matchID != "" {
		if _, err := c.svc.Scheduler.CompleteMatch(matchID); err != nil {
			return fmt.Errorf("failed to complete %s: %w", matchID, err)
		}
		c.printf("%s marked completed.\n", matchID)
	}
	return nil
}

// readStage re-prompts until a known stage ID is entered.
func (c *Console) readStage() (tournament.Stage, error) {
	for {
		line, err := c.readLine("Stage ID (S001, S002, S003): ")
		if err != nil {
			return "", err
		}
		stage, err := tournament.ParseStage(line)
		if err == nil {
			return stage, nil
		}
		c.printf("Unknown stage %q.\n", line)
	}
}

func (c *Console) historyByPlayer() error {
	playerID, err := c.readLine("Player ID: ")
	if err != nil {
		return err
	}
	c.printHistory(c.svc.History.Query(history.Filter{PlayerID: playerID}))
	return nil
}

func (c *Console) historyByStage() error {
	stage, err := c.readStage()
	if err != nil {
		return err
	}
	c.printHistory(c.svc.History.Query(history.Filter{Stage: stage}))
	return nil
}

func (c *Console) showHistory() error {
	c.printHistory(c.svc.History.Entries())
	return nil
}

func (c *Console) printHistory(entries []tournament.HistoryEntry) {
	if len(entries) == 0 {
		c.printf("No matches found.\n")
		return
	}
	for _, e := range entries {
		c.printf("%s %s %s %s vs %s %s winner %s (%s, %s)\n",
			e.ID, e.MatchID, e.Stage, e.Player1ID, e.Player2ID, e.Score(), e.Winner(),
			e.MatchTime.Format(time.DateTime), e.Duration)
	}
}
