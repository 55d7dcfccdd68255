package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/config"
	"github.com/mauv0809/court-keeper/internal/console"
	"github.com/mauv0809/court-keeper/internal/database"
	"github.com/mauv0809/court-keeper/internal/gates"
	"github.com/mauv0809/court-keeper/internal/history"
	"github.com/mauv0809/court-keeper/internal/journal"
	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/notifier"
	"github.com/mauv0809/court-keeper/internal/notifier/slack"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/roster"
	"github.com/mauv0809/court-keeper/internal/scheduling"
	"github.com/mauv0809/court-keeper/internal/ticketing"
	"github.com/mauv0809/court-keeper/internal/withdrawal"
)

// app holds every wired subsystem for one run of the tool.
type app struct {
	cfg         config.Config
	metrics     *metrics.Service
	journal     journal.EventStore
	roster      roster.RosterStore
	scheduler   *scheduling.Scheduler
	tickets     *ticketing.Service
	gates       *gates.Allocator
	history     *history.Log
	withdrawals *withdrawal.Service
	closers     []func()
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	cfg.SetupLogging()
	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	startTime := time.Now()
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	start, err := cfg.StartDate()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &app{cfg: cfg}
	db, dbTeardown, err := database.InitDB(cfg.Path(cfg.DBName), cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.closers = append(a.closers, func() {
		log.Debug("Closing database connection")
		dbTeardown()
	})
	log.Debug("Database initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())

	a.journal = journal.New(db)
	sinks := []pubsub.PubSubClient{a.journal}
	if cfg.ProjectID != "" {
		client, err := pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		sinks = append(sinks, client)
	}
	events := pubsub.Multi(sinks...)

	a.metrics = metrics.NewService()
	var notify notifier.Notifier = notifier.Noop{}
	if cfg.Slack.Enabled() {
		notify = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, a.metrics)
	}

	if err := a.open(start, notify, events); err != nil {
		a.Close()
		return nil, err
	}

	startupDuration := time.Since(startTime)
	a.metrics.SetStartupTime(startupDuration.Seconds())
	log.Debug("Startup time recorded", "duration_ms", startupDuration.Milliseconds())
	return a, nil
}

// open loads the data files into the domain services.
func (a *app) open(start time.Time, notify notifier.Notifier, events pubsub.PubSubClient) error {
	var err error
	cfg := a.cfg
	if a.roster, err = roster.New(cfg.Path(config.PlayersFile)); err != nil {
		return err
	}
	a.scheduler, err = scheduling.New(scheduling.Options{
		Path:  cfg.Path(config.MatchesFile),
		Start: start,
		Days:  cfg.TournamentDays,
	}, a.roster, notify, a.metrics, events)
	if err != nil {
		return err
	}
	ledger := ticketing.NewLedger(a.metrics)
	a.tickets, err = ticketing.New(ticketing.Options{Path: cfg.Path(config.SalesFile)}, a.scheduler, ledger, a.metrics, events)
	if err != nil {
		return err
	}
	a.gates = gates.New(a.tickets, ledger, a.metrics, events)
	a.history, err = history.New(history.Options{
		Path:        cfg.Path(config.MatchHistoryFile),
		PointTarget: cfg.PointTarget,
	}, notify, a.metrics, events)
	if err != nil {
		return err
	}
	a.withdrawals, err = withdrawal.New(withdrawal.Options{Path: cfg.Path(config.WithdrawalsFile)}, a.roster, a.scheduler, notify, a.metrics, events)
	if err != nil {
		return err
	}
	a.scheduler.UseWithdrawals(a.withdrawals)
	return nil
}

func (a *app) services() console.Services {
	return console.Services{
		Roster:      a.roster,
		Scheduler:   a.scheduler,
		Tickets:     a.tickets,
		Gates:       a.gates,
		History:     a.history,
		Withdrawals: a.withdrawals,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
