package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "courtkeeper",
	Short: "Run a tennis tournament from the console",
	Long: `Court Keeper schedules matches, sells tickets, admits spectators
through the gates, handles withdrawals and keeps the match history.
Without a subcommand it opens the interactive menu.`,
	SilenceUsage: true,
	RunE:         withApp(runMenu),
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
