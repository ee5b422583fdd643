package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// History backends accepted by HISTORY_BACKEND.
const (
	HistoryBackendFirestore = "firestore"
	HistoryBackendPostgres  = "postgres"
	HistoryBackendSQLite    = "sqlite"
)

// Config holds all configuration for the notifier.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Notification history storage
	HistoryBackend string `mapstructure:"HISTORY_BACKEND"`

	// Database Configuration (postgres history backend)
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	SQLitePath        string        `mapstructure:"SQLITE_PATH"`

	// History retention (SQL backends only). An empty schedule disables it.
	HistoryRetentionSchedule string `mapstructure:"HISTORY_RETENTION_SCHEDULE"`
	HistoryRetentionDays     int    `mapstructure:"HISTORY_RETENTION_DAYS"`

	// Push delivery
	PushRatePerSecond float64       `mapstructure:"PUSH_RATE_PER_SECOND"`
	PushBurst         int           `mapstructure:"PUSH_BURST"`
	PushTimeout       time.Duration `mapstructure:"PUSH_TIMEOUT_SECONDS"`

	// Booking confirmation rules
	BookingMovesConfirmedStatus    string `mapstructure:"BOOKING_MOVES_CONFIRMED_STATUS"`
	BookingRequestsConfirmedStatus string `mapstructure:"BOOKING_REQUESTS_CONFIRMED_STATUS"`
	BookingRequestsEnabled         bool   `mapstructure:"BOOKING_REQUESTS_ENABLED"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "") // empty means Application Default Credentials

	v.SetDefault("HISTORY_BACKEND", HistoryBackendFirestore)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "easymove")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	v.SetDefault("SQLITE_PATH", "notifications.db")
	v.SetDefault("HISTORY_RETENTION_SCHEDULE", "")
	v.SetDefault("HISTORY_RETENTION_DAYS", 90)

	v.SetDefault("PUSH_RATE_PER_SECOND", 50)
	v.SetDefault("PUSH_BURST", 10)
	v.SetDefault("PUSH_TIMEOUT_SECONDS", 10)

	v.SetDefault("BOOKING_MOVES_CONFIRMED_STATUS", "CONFIRMED")
	v.SetDefault("BOOKING_REQUESTS_CONFIRMED_STATUS", "accepted")
	v.SetDefault("BOOKING_REQUESTS_ENABLED", true)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.PushTimeout = time.Duration(v.GetInt("PUSH_TIMEOUT_SECONDS")) * time.Second

	// Cloud Run injects PORT; it wins over SERVER_PORT.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.ServerPort = port
	}

	cfg.HistoryBackend = strings.ToLower(strings.TrimSpace(cfg.HistoryBackend))
	switch cfg.HistoryBackend {
	case HistoryBackendFirestore, HistoryBackendPostgres, HistoryBackendSQLite:
	default:
		return nil, fmt.Errorf("FATAL: unsupported HISTORY_BACKEND %q (want firestore, postgres or sqlite)", cfg.HistoryBackend)
	}

	if cfg.FirebaseServiceAccountKeyPath != "" {
		if _, err := os.Stat(cfg.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", cfg.FirebaseServiceAccountKeyPath)
		}
	}
	if cfg.HistoryRetentionSchedule != "" && cfg.HistoryRetentionDays <= 0 {
		return nil, fmt.Errorf("FATAL: HISTORY_RETENTION_DAYS must be positive when HISTORY_RETENTION_SCHEDULE is set")
	}
	if cfg.PushRatePerSecond <= 0 {
		return nil, fmt.Errorf("FATAL: PUSH_RATE_PER_SECOND must be positive, got %v", cfg.PushRatePerSecond)
	}
	if cfg.PushBurst <= 0 {
		cfg.PushBurst = 1
	}
	if strings.TrimSpace(cfg.BookingMovesConfirmedStatus) == "" {
		return nil, fmt.Errorf("FATAL: BOOKING_MOVES_CONFIRMED_STATUS must not be empty")
	}

	return &cfg, nil
}

// PostgresDSN builds the GORM DSN from the individual DB_* settings.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}
