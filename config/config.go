package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration settings.
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Discord       DiscordConfig       `yaml:"discord"`
	Sheets        SheetsConfig        `yaml:"sheets"`
	PDGA          PDGAConfig          `yaml:"pdga"`
	HTTP          HTTPConfig          `yaml:"http"`
	League        LeagueFileConfig    `yaml:"league"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// DiscordConfig holds the outbound webhook configuration.
type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// SheetsConfig holds Google Sheets configuration. CredentialsFile points at
// a service-account JSON key; the sheet must be shared with that account.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	SeasonTab       string `yaml:"season_tab"`
}

// PDGAConfig holds the live results API endpoints.
type PDGAConfig struct {
	LiveAPIURL  string `yaml:"live_api_url"`
	EventAPIURL string `yaml:"event_api_url"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// LeagueFileConfig points at the league definition (rosters, schedule,
// scoring rules) and sets live-refresh behavior.
type LeagueFileConfig struct {
	File            string        `yaml:"file"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// ObservabilityConfig holds configuration for observability components.
type ObservabilityConfig struct {
	Environment string `yaml:"environment"`
}

const (
	defaultLiveAPIURL      = "https://www.pdga.com/apps/tournament/live-api/live_results_fetch_round"
	defaultEventAPIURL     = "https://api.pdga.com/services/json/event"
	defaultHTTPAddress     = ":8080"
	defaultSeasonTab       = "SEASON SCORE"
	defaultLeagueFile      = "league.yaml"
	defaultRefreshInterval = 15 * time.Minute
)

// LoadConfig loads the configuration from a YAML file, then applies
// environment-variable overrides and defaults. A missing file is not an
// error; the environment alone can carry a full configuration.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("DISCORD_WEBHOOK"); v != "" {
		cfg.Discord.WebhookURL = v
	}
	if v := os.Getenv("GOOGLE_SHEETS_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("GOOGLE_CREDS_FILE"); v != "" {
		cfg.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("PDGA_LIVE_API_URL"); v != "" {
		cfg.PDGA.LiveAPIURL = v
	}
	if v := os.Getenv("PDGA_EVENT_API_URL"); v != "" {
		cfg.PDGA.EventAPIURL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("LEAGUE_FILE"); v != "" {
		cfg.League.File = v
	}
	if v := os.Getenv("LEAGUE_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.League.RefreshInterval = d
		}
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PDGA.LiveAPIURL == "" {
		c.PDGA.LiveAPIURL = defaultLiveAPIURL
	}
	if c.PDGA.EventAPIURL == "" {
		c.PDGA.EventAPIURL = defaultEventAPIURL
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = defaultHTTPAddress
	}
	if c.Sheets.SeasonTab == "" {
		c.Sheets.SeasonTab = defaultSeasonTab
	}
	if c.League.File == "" {
		c.League.File = defaultLeagueFile
	}
	if c.League.RefreshInterval <= 0 {
		c.League.RefreshInterval = defaultRefreshInterval
	}
}
