package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	WorkDay    WorkDayConfig
	Thresholds ThresholdConfig
	ExtraPay   ExtraPayConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// WorkDayConfig controls work-day resolution. A punch whose local civil time
// is before CutoffHour belongs to the previous calendar day's work-day, which
// keeps night shifts that cross midnight on a single work-day.
type WorkDayConfig struct {
	CutoffHour      int
	DefaultTimezone string
}

// ThresholdConfig holds the anomaly severity thresholds, in minutes.
// Every threshold is explicit configuration; the synthesizer never falls
// back to a silent default.
type ThresholdConfig struct {
	MinSignificantMinutes         int // deltas below this never produce an anomaly
	LateMediumMinutes             int // lateness at or above this is medium
	LateCriticalMinutes           int // lateness above this is critical
	EarlyLeaveMediumMinutes       int // early departure at or above this is medium
	EarlyLeaveCriticalMinutes     int // early departure above this is critical
	EarlyArrivalCeilingMinutes    int // arriving earlier than this is flagged, not ignored
	OvertimeAutoValidateMinutes   int // overtime up to this stays informational
	OvertimePendingCeilingMinutes int // overtime beyond this is critical (likely a missed punch-out)
}

// ExtraPayConfig holds extra-hours payment defaults.
type ExtraPayConfig struct {
	DefaultHourlyRate string // decimal string, used when the employee has no rate set
}

func Load() (*Config, error) {
	// A missing .env file is fine; env vars may come from the runtime.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: dbMaxConns,
		MinConns: dbMinConns,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Work-day configuration
	cutoffHour, err := strconv.Atoi(getEnv("WORKDAY_CUTOFF_HOUR", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKDAY_CUTOFF_HOUR: %w", err)
	}
	config.WorkDay = WorkDayConfig{
		CutoffHour:      cutoffHour,
		DefaultTimezone: getEnv("WORKDAY_TIMEZONE", "Europe/Paris"),
	}

	// Anomaly thresholds
	config.Thresholds, err = loadThresholds()
	if err != nil {
		return nil, err
	}

	config.ExtraPay = ExtraPayConfig{
		DefaultHourlyRate: getEnv("EXTRA_DEFAULT_HOURLY_RATE", "10.00"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadThresholds() (ThresholdConfig, error) {
	t := ThresholdConfig{}
	fields := []struct {
		env      string
		fallback string
		dst      *int
	}{
		{"THRESHOLD_MIN_SIGNIFICANT_MINUTES", "5", &t.MinSignificantMinutes},
		{"THRESHOLD_LATE_MEDIUM_MINUTES", "10", &t.LateMediumMinutes},
		{"THRESHOLD_LATE_CRITICAL_MINUTES", "30", &t.LateCriticalMinutes},
		{"THRESHOLD_EARLY_LEAVE_MEDIUM_MINUTES", "15", &t.EarlyLeaveMediumMinutes},
		{"THRESHOLD_EARLY_LEAVE_CRITICAL_MINUTES", "30", &t.EarlyLeaveCriticalMinutes},
		{"THRESHOLD_EARLY_ARRIVAL_CEILING_MINUTES", "30", &t.EarlyArrivalCeilingMinutes},
		{"THRESHOLD_OVERTIME_AUTO_VALIDATE_MINUTES", "30", &t.OvertimeAutoValidateMinutes},
		{"THRESHOLD_OVERTIME_PENDING_CEILING_MINUTES", "90", &t.OvertimePendingCeilingMinutes},
	}
	for _, f := range fields {
		v, err := strconv.Atoi(getEnv(f.env, f.fallback))
		if err != nil {
			return t, fmt.Errorf("invalid %s: %w", f.env, err)
		}
		*f.dst = v
	}
	return t, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS must satisfy 0 <= min <= max with max >= 1")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.WorkDay.CutoffHour < 0 || c.WorkDay.CutoffHour > 12 {
		return fmt.Errorf("WORKDAY_CUTOFF_HOUR must be between 0 and 12")
	}
	if _, err := time.LoadLocation(c.WorkDay.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid WORKDAY_TIMEZONE: %w", err)
	}
	if c.Thresholds.LateMediumMinutes > c.Thresholds.LateCriticalMinutes {
		return fmt.Errorf("THRESHOLD_LATE_MEDIUM_MINUTES must not exceed THRESHOLD_LATE_CRITICAL_MINUTES")
	}
	if c.Thresholds.OvertimeAutoValidateMinutes > c.Thresholds.OvertimePendingCeilingMinutes {
		return fmt.Errorf("THRESHOLD_OVERTIME_AUTO_VALIDATE_MINUTES must not exceed THRESHOLD_OVERTIME_PENDING_CEILING_MINUTES")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
