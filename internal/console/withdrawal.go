package console

func (c *Console) withdrawalMenu() error {
	return c.menu("Player withdrawal", []menuItem{
		{"Withdraw player", c.withdrawPlayer},
		{"Substitute withdrawn player", c.substitutePlayer},
		{"List withdrawals", c.listWithdrawals},
		{"Back", nil},
	})
}

func (c *Console) withdrawPlayer() error {
	playerID, err := c.readLine("Player ID: ")
	if err != nil {
		return err
	}
	reason, err := c.readLine("Reason: ")
	if err != nil {
		return err
	}
	w, pending, err := c.svc.Withdrawals.Withdraw(playerID, reason)
	if err != nil {
		return err
	}
	c.printf("%s withdrew %s (%s).\n", w.ID, w.Name, w.Reason)
	if len(pending) == 0 {
		return nil
	}
	c.printf("Waiting matches that need a substitute:\n")
	for _, m := range pending {
		c.printMatch(m)
	}
	return nil
}

func (c *Console) substitutePlayer() error {
	matchID, err := c.readLine("Match ID: ")
	if err != nil {
		return err
	}
	withdrawnID, err := c.readLine("Withdrawn player ID: ")
	if err != nil {
		return err
	}
	name, err := c.readLine("Substitute name: ")
	if err != nil {
		return err
	}
	m, err := c.svc.Withdrawals.Substitute(matchID, withdrawnID, name)
	if err != nil {
		return err
	}
	c.printMatch(m)
	return nil
}

func (c *Console) listWithdrawals() error {
	list := c.svc.Withdrawals.List()
	if len(list) == 0 {
		c.printf("No withdrawals recorded.\n")
		return nil
	}
	for _, w := range list {
		c.printf("%s %s %s: %s (%s)\n", w.ID, w.Time.Format("2006-01-02 15:04"), w.PlayerID, w.Name, w.Reason)
	}
	return nil
}
