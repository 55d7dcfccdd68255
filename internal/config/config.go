package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// File names of the tournament's data files inside DataDir.
const (
	PlayersFile      = "Players.txt"
	MatchesFile      = "Matches.txt"
	SalesFile        = "Sales.txt"
	WithdrawalsFile  = "Withdrawals.txt"
	MatchHistoryFile = "MatchHistory.txt"
)

// Load reads configuration from environment variables and .env file.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Debug("No .env file found, reading from environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the tag defaults cannot.
func (c Config) Validate() error {
	if _, err := c.StartDate(); err != nil {
		return fmt.Errorf("invalid TOURNAMENT_START %q: %w", c.TournamentStart, err)
	}
	if c.TournamentDays < 1 {
		return fmt.Errorf("TOURNAMENT_DAYS must be at least 1, got %d", c.TournamentDays)
	}
	if c.PointTarget < 1 {
		return fmt.Errorf("POINT_TARGET must be positive, got %d", c.PointTarget)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

// StartDate parses TournamentStart.
func (c Config) StartDate() (time.Time, error) {
	return time.Parse(time.DateOnly, c.TournamentStart)
}

// Path returns the location of a data file inside DataDir.
func (c Config) Path(file string) string {
	return filepath.Join(c.DataDir, file)
}

// DataFiles lists every data file the tool reads or writes.
func (c Config) DataFiles() []string {
	return []string{
		c.Path(PlayersFile),
		c.Path(MatchesFile),
		c.Path(SalesFile),
		c.Path(WithdrawalsFile),
		c.Path(MatchHistoryFile),
	}
}

// SetupLogging applies LogLevel and LogFormat to the default logger.
func (c Config) SetupLogging() {
	log.SetOutput(os.Stderr)
	if level, err := log.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(log.JSONFormatter)
	}
}
