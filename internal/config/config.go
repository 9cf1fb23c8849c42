package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/csd4487/vedema/internal/season"
)

// CurrentSeason makes default analytics follow the clock.
const CurrentSeason = "current"

// Records backends that can supply user snapshots.
const (
	BackendMongoDB = "mongodb"
	BackendSheets  = "sheets"
	BackendRemote  = "remote"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Records    RecordsConfig
	MongoDB    MongoDBConfig
	Sheets     SheetsConfig
	RecordsAPI RecordsAPIConfig
	Analytics  AnalyticsConfig
	Digest     DigestConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// RecordsConfig selects where user snapshots are read from.
type RecordsConfig struct {
	Backend string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI               string
	DBName            string
	UsersCollection   string
	ReportsCollection string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether Sheets credentials were supplied.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// RecordsAPIConfig contains the remote records-service endpoint.
type RecordsAPIConfig struct {
	BaseURL string
	Token   string
}

// AnalyticsConfig holds engine defaults.
type AnalyticsConfig struct {
	// DefaultSeason is a "Y-Y+1" identifier or "current".
	DefaultSeason string
}

// DigestConfig holds scheduler-related settings.
type DigestConfig struct {
	CronSchedule string
	Timezone     string
	Concurrency  int
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	concurrency, err := strconv.Atoi(getenvWithDefault("DIGEST_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("DIGEST_CONCURRENCY must be an integer: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "5000"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Records: RecordsConfig{
			Backend: strings.ToLower(getenvWithDefault("RECORDS_BACKEND", BackendMongoDB)),
		},
		MongoDB: MongoDBConfig{
			URI:               os.Getenv("MONGODB_URI"),
			DBName:            getenvWithDefault("MONGODB_DB_NAME", "Vedema"),
			UsersCollection:   getenvWithDefault("MONGODB_USERS_COLLECTION", "users"),
			ReportsCollection: getenvWithDefault("MONGODB_REPORTS_COLLECTION", "season_reports"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		RecordsAPI: RecordsAPIConfig{
			BaseURL: os.Getenv("RECORDS_API_BASE_URL"),
			Token:   os.Getenv("RECORDS_API_TOKEN"),
		},
		Analytics: AnalyticsConfig{
			DefaultSeason: getenvWithDefault("ANALYTICS_DEFAULT_SEASON", "2024-2025"),
		},
		Digest: DigestConfig{
			CronSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 6 * * 1"),
			Timezone:     getenvWithDefault("TIMEZONE", "Europe/Athens"),
			Concurrency:  concurrency,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	// MongoDB stores season digests regardless of where records are read from.
	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	switch c.Records.Backend {
	case BackendMongoDB:
	case BackendSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
	case BackendRemote:
		if c.RecordsAPI.BaseURL == "" {
			return errors.New("RECORDS_API_BASE_URL must be provided")
		}
	default:
		return fmt.Errorf("unsupported RECORDS_BACKEND %q", c.Records.Backend)
	}

	if c.Analytics.DefaultSeason == "" {
		return errors.New("ANALYTICS_DEFAULT_SEASON must not be empty")
	}
	if !strings.EqualFold(c.Analytics.DefaultSeason, CurrentSeason) {
		if _, err := season.Parse(c.Analytics.DefaultSeason); err != nil {
			return fmt.Errorf("ANALYTICS_DEFAULT_SEASON must be %q or a season like 2024-2025: %w", CurrentSeason, err)
		}
	}

	if c.Digest.CronSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE must be provided")
	}

	if c.Digest.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Digest.Concurrency < 1 {
		return errors.New("DIGEST_CONCURRENCY must be at least 1")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
