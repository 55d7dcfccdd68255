package console

import (
	"github.com/mauv0809/court-keeper/internal/gates"
	"github.com/mauv0809/court-keeper/internal/ticketing"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

func (c *Console) ticketsMenu() error {
	return c.menu("Ticket sales & spectators", []menuItem{
		{"Request tickets", c.requestTickets},
		{"Process next request", c.processNext},
		{"Process all requests", c.processAll},
		{"Refund ticket", c.refundTicket},
		{"Request gate entry", c.requestEntry},
		{"Request gate exit", c.requestExit},
		{"Process gate requests", c.processGates},
		{"Show court and gate capacity", c.showCapacity},
		{"Show sales", c.showSales},
		{"Back", nil},
	})
}

func (c *Console) requestTickets() error {
	name, err := c.readLine("Spectator name: ")
	if err != nil {
		return err
	}
	ticketType, err := c.readTicketType()
	if err != nil {
		return err
	}
	seats, err := c.readInt("Seats: ")
	if err != nil {
		return err
	}
	matchID, err := c.readLine("Match ID: ")
	if err != nil {
		return err
	}
	s, err := c.svc.Tickets.Request(name, ticketType, seats, matchID)
	if err != nil {
		return err
	}
	c.printf("Queued %d %s seat(s) for %s on %s. %d request(s) pending.\n", s.Seats, s.Type, s.Name, s.CourtID, len(c.svc.Tickets.Pending()))
	return nil
}

// readTicketType re-prompts until a known ticket type is entered.
func (c *Console) readTicketType() (ticketing.TicketType, error) {
	for {
		line, err := c.readLine("Ticket type (VIP, Early-bird, General): ")
		if err != nil {
			return "", err
		}
		t, err := ticketing.ParseTicketType(line)
		if err == nil {
			return t, nil
		}
		c.printf("Unknown ticket type %q.\n", line)
	}
}

func (c *Console) processNext() error {
	sale, err := c.svc.Tickets.ProcessNext()
	if err != nil {
		return err
	}
	c.printSale(sale)
	return nil
}

func (c *Console) processAll() error {
	sales, err := c.svc.Tickets.ProcessAll()
	for _, sale := range sales {
		c.printSale(sale)
	}
	if err != nil {
		return err
	}
	if len(sales) == 0 {
		c.printf("No pending ticket requests.\n")
	}
	return nil
}

func (c *Console) refundTicket() error {
	ticketID, err := c.readLine("Ticket ID: ")
	if err != nil {
		return err
	}
	sale, err := c.svc.Tickets.Refund(ticketID)
	if err != nil {
		return err
	}
	c.printSale(sale)
	return nil
}

func (c *Console) requestEntry() error {
	ticketID, err := c.readLine("Ticket ID: ")
	if err != nil {
		return err
	}
	c.svc.Gates.RequestEntry(ticketID)
	c.printf("Entry queued for %s. %d gate request(s) pending.\n", ticketID, c.svc.Gates.Pending())
	return nil
}

func (c *Console) requestExit() error {
	ticketID, err := c.readLine("Ticket ID: ")
	if err != nil {
		return err
	}
	c.svc.Gates.RequestExit(ticketID)
	c.printf("Exit queued for %s. %d gate request(s) pending.\n", ticketID, c.svc.Gates.Pending())
	return nil
}

func (c *Console) processGates() error {
	results := c.svc.Gates.ProcessGateRequests()
	if len(results) == 0 {
		c.printf("No pending gate requests.\n")
		return nil
	}
	for _, r := range results {
		c.printGateResult(r)
	}
	return nil
}

func (c *Console) printGateResult(r gates.Result) {
	c.printf("%s %s:", r.Request.Kind, r.Request.TicketID)
	for _, a := range r.Allocations {
		c.printf(" gate %s=%d", a.Gate, a.Seats)
	}
	if r.Released > 0 {
		c.printf(" released %d seat(s)", r.Released)
	}
	if r.Shortfall > 0 {
		c.printf(" short by %d", r.Shortfall)
	}
	if r.Err != nil {
		c.printf(" (%v)", r.Err)
	}
	c.printf("\n")
}

func (c *Console) showCapacity() error {
	remaining := c.svc.Tickets.Ledger().Snapshot()
	c.printf("Courts:\n")
	for _, court := range tournament.Courts() {
		c.printf("  %s %-12s %d/%d seats left\n", court.ID, court.Type, remaining[court.ID], court.TotalCapacity)
	}
	c.printf("Gates:\n")
	for _, g := range c.svc.Gates.Gates() {
		c.printf("  %s %d/%d in use\n", g.Name, g.Used, g.Capacity)
	}
	return nil
}

func (c *Console) showSales() error {
	sales := c.svc.Tickets.Sales()
	if len(sales) == 0 {
		c.printf("No sales recorded.\n")
		return nil
	}
	for _, s := range sales {
		c.printSale(s)
	}
	return nil
}

func (c *Console) printSale(s ticketing.Sale) {
	c.printf("%s %s %s: %d %s seat(s) for %s\n", s.ID, s.TicketID, s.Status, s.Quantity, s.Type, s.Name)
}
