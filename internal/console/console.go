package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New builds a console reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, svc Services) *Console {
	return &Console{
		in:  bufio.NewScanner(in),
		out: out,
		svc: svc,
		now: time.Now,
	}
}

// Run shows the main menu until the user exits or input runs out.
func (c *Console) Run() error {
	c.printf("Court Keeper tournament console\n")
	err := c.menu("Main menu", []menuItem{
		{"Scheduling & progression", c.schedulingMenu},
		{"Ticket sales & spectators", c.ticketsMenu},
		{"Player withdrawal", c.withdrawalMenu},
		{"Match history", c.historyMenu},
		{"Exit", nil},
	})
	if errors.Is(err, io.EOF) {
		log.Debug("Console input closed")
		return nil
	}
	if err != nil {
		return err
	}
	c.printf("Goodbye.\n")
	return nil
}

// menu loops over items until the nil action is picked. Operation errors are
// printed and the loop continues; only io.EOF and scanner errors end it.
func (c *Console) menu(title string, items []menuItem) error {
	for {
		c.printf("\n== %s ==\n", title)
		for i, item := range items {
			c.printf("%d. %s\n", i+1, item.label)
		}
		choice, err := c.readChoice("Select an option: ", 1, len(items))
		if err != nil {
			return err
		}
		action := items[choice-1].action
		if action == nil {
			return nil
		}
		if err := action(); err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			c.printf("Error: %v\n", err)
		}
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// readLine prompts and returns the next trimmed line.
func (c *Console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// readInt re-prompts until an integer is entered.
func (c *Console) readInt(prompt string) (int, error) {
	for {
		line, err := c.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		c.printf("Please enter a whole number.\n")
	}
}

// readChoice re-prompts until an integer in [lo, hi] is entered.
func (c *Console) readChoice(prompt string, lo, hi int) (int, error) {
	for {
		n, err := c.readInt(prompt)
		if err != nil {
			return 0, err
		}
		if n >= lo && n <= hi {
			return n, nil
		}
		c.printf("Please choose between %d and %d.\n", lo, hi)
	}
}
