package console

import (
	"github.com/mauv0809/court-keeper/internal/tournament"
)

func (c *Console) schedulingMenu() error {
	return c.menu("Scheduling & progression", []menuItem{
		{"List players", c.listPlayers},
		{"Register player", c.registerPlayer},
		{"Schedule match", c.scheduleMatch},
		{"List matches", c.listMatches},
		{"Start match", c.startMatch},
		{"Complete match", c.completeMatch},
		{"Advance player to next stage", c.advancePlayer},
		{"Back", nil},
	})
}

func (c *Console) listPlayers() error {
	players := c.svc.Roster.All()
	if len(players) == 0 {
		c.printf("No players registered.\n")
		return nil
	}
	for _, p := range players {
		c.printf("%s  %-24s %-4s rank %-4d %s  %s\n", p.ID, p.Name, p.Nationality, p.Ranking, p.Gender, p.Stage.Name())
	}
	return nil
}

func (c *Console) registerPlayer() error {
	name, err := c.readLine("Name: ")
	if err != nil {
		return err
	}
	nationality, err := c.readLine("Nationality: ")
	if err != nil {
		return err
	}
	ranking, err := c.readInt("Ranking: ")
	if err != nil {
		return err
	}
	gender, err := c.readLine("Gender: ")
	if err != nil {
		return err
	}
	p, err := c.svc.Roster.Register(name, nationality, ranking, gender)
	if err != nil {
		return err
	}
	c.printf("Registered %s as %s in %s.\n", p.Name, p.ID, p.Stage.Name())
	return nil
}

func (c *Console) scheduleMatch() error {
	playerID, err := c.readLine("Player ID: ")
	if err != nil {
		return err
	}
	candidates, err := c.svc.Scheduler.Candidates(playerID)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		c.printf("No eligible opponents for %s.\n", playerID)
		return nil
	}
	c.printf("Eligible opponents:\n")
	for i, p := range candidates {
		c.printf("%d. %s %s (rank %d)\n", i+1, p.ID, p.Name, p.Ranking)
	}
	choice, err := c.readChoice("Opponent: ", 1, len(candidates))
	if err != nil {
		return err
	}
	m, err := c.svc.Scheduler.ScheduleMatch(playerID, choice)
	if err != nil {
		return err
	}
	c.printMatch(m)
	return nil
}

func (c *Console) listMatches() error {
	matches := c.svc.Scheduler.Matches()
	if len(matches) == 0 {
		c.printf("No matches scheduled.\n")
		return nil
	}
	for _, m := range matches {
		c.printMatch(m)
	}
	return nil
}

func (c *Console) startMatch() error {
	matchID, err := c.readLine("Match ID: ")
	if err != nil {
		return err
	}
	m, err := c.svc.Scheduler.StartMatch(matchID)
	if err != nil {
		return err
	}
	c.printMatch(m)
	return nil
}

func (c *Console) completeMatch() error {
	matchID, err := c.readLine("Match ID: ")
	if err != nil {
		return err
	}
	m, err := c.svc.Scheduler.CompleteMatch(matchID)
	if err != nil {
		return err
	}
	c.printMatch(m)
	return nil
}

func (c *Console) advancePlayer() error {
	playerID, err := c.readLine("Player ID: ")
	if err != nil {
		return err
	}
	p, err := c.svc.Scheduler.AdvanceStage(playerID)
	if err != nil {
		return err
	}
	c.printf("%s advanced to %s.\n", p.Name, p.Stage.Name())
	return nil
}

func (c *Console) printMatch(m tournament.Match) {
	c.printf("%s %s %s: %s vs %s on %s at %s [%s]\n", m.ID, m.Stage, m.RoundID, m.Player1ID, m.Player2ID, m.CourtID, m.ScheduledTime, m.Status)
}
