package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/backup"
	"github.com/mauv0809/court-keeper/internal/console"
	"github.com/mauv0809/court-keeper/internal/history"
	server "github.com/mauv0809/court-keeper/internal/http"
	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/tournament"
	"github.com/spf13/cobra"
)

var (
	registerName        string
	registerNationality string
	registerRanking     int
	registerGender      string
	opponentChoice      int
	historyPlayer       string
	historyStage        string
	journalLimit        int
	statusHost          string
)

func init() {
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(advanceCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(withdrawalsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(statusCmd)

	registerCmd.Flags().StringVar(&registerName, "name", "", "Player name")
	registerCmd.Flags().StringVar(&registerNationality, "nationality", "", "Player nationality")
	registerCmd.Flags().IntVar(&registerRanking, "ranking", 0, "World ranking")
	registerCmd.Flags().StringVar(&registerGender, "gender", "", "Player gender")
	_ = registerCmd.MarkFlagRequired("name")

	scheduleCmd.Flags().IntVar(&opponentChoice, "opponent", 0, "Pick the n-th eligible opponent; 0 lists them")

	historyCmd.Flags().StringVar(&historyPlayer, "player", "", "Only matches this player took part in")
	historyCmd.Flags().StringVar(&historyStage, "stage", "", "Only matches of this stage (S001, S002, S003)")

	journalCmd.Flags().IntVar(&journalLimit, "limit", 20, "Number of recent events to show")

	statusCmd.Flags().StringVar(&statusHost, "host", "http://localhost:8080", "The host address of the status server")
}

// withApp wires the subsystems for the duration of one command.
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a, args)
	}
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Open the interactive menu",
	RunE:  withApp(runMenu),
}

func runMenu(cmd *cobra.Command, a *app, args []string) error {
	return console.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.services()).Run()
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List registered players",
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		out := cmd.OutOrStdout()
		for _, p := range a.roster.All() {
			fmt.Fprintf(out, "%s\t%s\t%s\t%d\t%s\t%s\n", p.ID, p.Name, p.Nationality, p.Ranking, p.Gender, p.Stage)
		}
		return nil
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new player in the qualifier stage",
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		p, err := a.roster.Register(registerName, registerNationality, registerRanking, registerGender)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %s as %s\n", p.Name, p.ID)
		return nil
	}),
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List scheduled matches",
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		for _, m := range a.scheduler.Matches() {
			printMatch(cmd, m)
		}
		return nil
	}),
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <playerID>",
	Short: "Schedule a match for a player",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		out := cmd.OutOrStdout()
		if opponentChoice == 0 {
			candidates, err := a.scheduler.Candidates(args[0])
			if err != nil {
				return err
			}
			for i, p := range candidates {
				fmt.Fprintf(out, "%d\t%s\t%s\t%d\n", i+1, p.ID, p.Name, p.Ranking)
			}
			return nil
		}
		m, err := a.scheduler.ScheduleMatch(args[0], opponentChoice)
		if err != nil {
			return err
		}
		printMatch(cmd, m)
		return nil
	}),
}

var advanceCmd = &cobra.Command{
	Use:   "advance <playerID>",
	Short: "Move a player to the next stage",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		p, err := a.scheduler.AdvanceStage(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s advanced to %s\n", p.ID, p.Stage.Name())
		return nil
	}),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded matches, most recent first",
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		f := history.Filter{PlayerID: historyPlayer}
		if historyStage != "" {
			stage, err := tournament.ParseStage(historyStage)
			if err != nil {
				return err
			}
			f.Stage = stage
		}
		out := cmd.OutOrStdout()
		for _, e := range a.history.Query(f) {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.MatchID, e.Stage, e.Player1ID, e.Player2ID, e.Score(), e.MatchTime.Format(time.DateTime), e.Duration)
		}
		return nil
	}),
}

var withdrawalsCmd = &cobra.Command{
	Use:   "withdrawals",
	Short: "List player withdrawals, most recent first",
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		out := cmd.OutOrStdout()
		for _, w := range a.withdrawals.List() {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", w.ID, w.PlayerID, w.Name, w.Reason, w.Time.Format(time.DateTime))
		}
		return nil
	}),
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the read-only status server",
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := server.NewServer(server.Sources{
			Players:     a.roster,
			Matches:     a.scheduler,
			Sales:       a.tickets,
			History:     a.history,
			Withdrawals: a.withdrawals,
			Journal:     a.journal,
		}, metrics.NewMetricsHandler())
		return s.Run(ctx, ":"+a.cfg.Port)
	}),
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload the data files to the backup bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Backup.Enabled() {
			return errors.New("backup bucket is not configured; set BACKUP_BUCKET")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		uploader, err := backup.NewS3Uploader(ctx, cfg.Backup)
		if err != nil {
			return err
		}
		results, err := backup.New(uploader, cfg.Backup.Prefix).Run(ctx, cfg.DataFiles())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, r := range results {
			fmt.Fprintf(out, "%s\t%d bytes\t%s\n", r.Key, r.Size, r.ETag)
		}
		log.Info("Backup finished", "files", len(results), "bucket", cfg.Backup.Bucket)
		return nil
	},
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show the most recent domain events",
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		events, err := a.journal.List(journalLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range events {
			var data map[string]any
			if err := e.Decode(&data); err != nil {
				log.Warn("Failed to decode event payload", "error", err, "id", e.ID)
			}
			fmt.Fprintf(out, "%s\t%s\t%v\n", e.CreatedAt.Format(time.DateTime), e.Topic, data)
		}
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status [endpoint]",
	Short: "Query a running status server, /health by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/health"
		if len(args) == 1 {
			endpoint = "/" + strings.TrimPrefix(args[0], "/")
		}
		return performGetRequest(cmd, statusHost+endpoint)
	},
}

func performGetRequest(cmd *cobra.Command, url string) error {
	log.Debug("Making request", "url", url)
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status Code: %d\n", resp.StatusCode)
	fmt.Fprintln(out, string(body))
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("status server returned %s", resp.Status)
	}
	return nil
}

func printMatch(cmd *cobra.Command, m tournament.Match) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		m.ID, m.Stage, m.RoundID, m.Player1ID, m.Player2ID, m.ScheduledTime, m.Status, m.CourtID)
}
