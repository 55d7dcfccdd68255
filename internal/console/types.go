package console

import (
	"bufio"
	"io"
	"time"

	"github.com/mauv0809/court-keeper/internal/gates"
	"github.com/mauv0809/court-keeper/internal/history"
	"github.com/mauv0809/court-keeper/internal/roster"
	"github.com/mauv0809/court-keeper/internal/scheduling"
	"github.com/mauv0809/court-keeper/internal/ticketing"
	"github.com/mauv0809/court-keeper/internal/withdrawal"
)

// Services are the subsystems the menus drive.
type Services struct {
	Roster      roster.RosterStore
	Scheduler   *scheduling.Scheduler
	Tickets     *ticketing.Service
	Gates       *gates.Allocator
	History     *history.Log
	Withdrawals *withdrawal.Service
}

// Console is the interactive numbered-menu front end.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
	svc Services
	now func() time.Time
}

// menuItem is one numbered entry of a menu. A nil action leaves the menu.
type menuItem struct {
	label  string
	action func() error
}
