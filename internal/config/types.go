package config

// Config holds all configuration for the application.
type Config struct {
	DataDir         string `env:"DATA_DIR" envDefault:"data"`
	TournamentStart string `env:"TOURNAMENT_START" envDefault:"2025-03-10"`
	TournamentDays  int    `env:"TOURNAMENT_DAYS" envDefault:"3"`
	PointTarget     int    `env:"POINT_TARGET" envDefault:"12"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string `env:"LOG_FORMAT" envDefault:"text"`
	Port            string `env:"PORT" envDefault:"8080"`
	DBName          string `env:"DB_NAME" envDefault:"journal.db"`
	ProjectID       string `env:"GCP_PROJECT"`
	Turso           TursoConfig
	Slack           SlackConfig
	Backup          BackupConfig
}

type TursoConfig struct {
	PrimaryURL string `env:"TURSO_PRIMARY_URL"`
	AuthToken  string `env:"TURSO_AUTH_TOKEN"`
}

type SlackConfig struct {
	Token     string `env:"SLACK_BOT_TOKEN"`
	ChannelID string `env:"SLACK_CHANNEL_ID"`
}

// BackupConfig points at an S3-compatible bucket. Endpoint is only needed
// for non-AWS providers such as Cloudflare R2.
type BackupConfig struct {
	Bucket          string `env:"BACKUP_BUCKET"`
	Endpoint        string `env:"BACKUP_ENDPOINT"`
	Region          string `env:"BACKUP_REGION" envDefault:"auto"`
	AccessKeyID     string `env:"BACKUP_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"BACKUP_SECRET_ACCESS_KEY"`
	Prefix          string `env:"BACKUP_PREFIX" envDefault:"court-keeper"`
}

// Enabled reports whether Slack notifications are configured.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}

// Enabled reports whether a backup bucket is configured.
func (b BackupConfig) Enabled() bool {
	return b.Bucket != ""
}
