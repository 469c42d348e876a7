package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Email     EmailConfig     `mapstructure:",squash"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	DailyCronSpec  string `mapstructure:"SCHEDULER_DAILY_CRON"`
	SafetyCronSpec string `mapstructure:"SCHEDULER_SAFETY_CRON"`
	Timezone       string `mapstructure:"SCHEDULER_TIMEZONE"`
	CheckTimeout   string `mapstructure:"CHECK_TIMEOUT"`
	RunLockTTL     string `mapstructure:"RUN_LOCK_TTL"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// BusinessConfig carries the rule thresholds. Decimal amounts are kept as
// strings and parsed on access so they never pass through float64.
type BusinessConfig struct {
	CriticalBalanceThreshold string `mapstructure:"CRITICAL_BALANCE_THRESHOLD"`
	HighBalanceThreshold     string `mapstructure:"HIGH_BALANCE_THRESHOLD"`
	CriticalAgeDays          int    `mapstructure:"CRITICAL_AGE_DAYS"`
	HighAgeDays              int    `mapstructure:"HIGH_AGE_DAYS"`
	PaymentDueLeadDays       int    `mapstructure:"PAYMENT_DUE_LEAD_DAYS"`
	OverdueCriticalDays      int    `mapstructure:"OVERDUE_CRITICAL_DAYS"`
	EscalationIntervalDays   int    `mapstructure:"ESCALATION_INTERVAL_DAYS"`
	EscalationDedupeDays     int    `mapstructure:"ESCALATION_DEDUPE_DAYS"`
	CurrencyCode             string `mapstructure:"CURRENCY_CODE"`
}

type EmailConfig struct {
	FromAddress string `mapstructure:"EMAIL_FROM_ADDRESS"`
	SMTPHost    string `mapstructure:"SMTP_HOST"`
	SMTPPort    string `mapstructure:"SMTP_PORT"`
	SMTPUser    string `mapstructure:"SMTP_USER"`
	SMTPPass    string `mapstructure:"SMTP_PASSWORD"`
	Transport   string `mapstructure:"EMAIL_TRANSPORT"` // "log" or "smtp"
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Load .env into the process environment first; missing file is fine.
	_ = godotenv.Load()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_NAME", "collections")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	// Daily run at 09:00 plus a safety re-run every 4 hours.
	viper.SetDefault("SCHEDULER_DAILY_CRON", "0 0 9 * * *")
	viper.SetDefault("SCHEDULER_SAFETY_CRON", "0 0 */4 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("CHECK_TIMEOUT", "5m")
	viper.SetDefault("RUN_LOCK_TTL", "30m")

	viper.SetDefault("CRITICAL_BALANCE_THRESHOLD", "200000")
	viper.SetDefault("HIGH_BALANCE_THRESHOLD", "100000")
	viper.SetDefault("CRITICAL_AGE_DAYS", 30)
	viper.SetDefault("HIGH_AGE_DAYS", 90)
	viper.SetDefault("PAYMENT_DUE_LEAD_DAYS", 5)
	viper.SetDefault("OVERDUE_CRITICAL_DAYS", 7)
	viper.SetDefault("ESCALATION_INTERVAL_DAYS", 30)
	viper.SetDefault("ESCALATION_DEDUPE_DAYS", 5)
	viper.SetDefault("CURRENCY_CODE", "KES")

	viper.SetDefault("EMAIL_FROM_ADDRESS", "alerts@dm9collections.example")
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("EMAIL_TRANSPORT", "log")

	// Read from environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	critical, err := decimal.NewFromString(c.Business.CriticalBalanceThreshold)
	if err != nil {
		return fmt.Errorf("CRITICAL_BALANCE_THRESHOLD must be a valid decimal: %w", err)
	}
	high, err := decimal.NewFromString(c.Business.HighBalanceThreshold)
	if err != nil {
		return fmt.Errorf("HIGH_BALANCE_THRESHOLD must be a valid decimal: %w", err)
	}
	if !critical.GreaterThan(high) {
		return fmt.Errorf("CRITICAL_BALANCE_THRESHOLD must exceed HIGH_BALANCE_THRESHOLD")
	}

	if c.Business.PaymentDueLeadDays <= 0 {
		return fmt.Errorf("PAYMENT_DUE_LEAD_DAYS must be greater than 0")
	}

	if c.Business.EscalationIntervalDays <= 0 {
		return fmt.Errorf("ESCALATION_INTERVAL_DAYS must be greater than 0")
	}

	if c.Business.EscalationDedupeDays <= 0 {
		return fmt.Errorf("ESCALATION_DEDUPE_DAYS must be greater than 0")
	}

	if _, err := time.ParseDuration(c.Scheduler.CheckTimeout); err != nil {
		return fmt.Errorf("CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Scheduler.RunLockTTL); err != nil {
		return fmt.Errorf("RUN_LOCK_TTL must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// DSN builds the Postgres connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// GetCriticalBalanceThreshold returns the critical tier balance floor as decimal
func (c *Config) GetCriticalBalanceThreshold() decimal.Decimal {
	v, _ := decimal.NewFromString(c.Business.CriticalBalanceThreshold)
	return v
}

// GetHighBalanceThreshold returns the high tier balance floor as decimal
func (c *Config) GetHighBalanceThreshold() decimal.Decimal {
	v, _ := decimal.NewFromString(c.Business.HighBalanceThreshold)
	return v
}

// GetCheckTimeout returns the per-evaluator timeout as duration
func (c *Config) GetCheckTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Scheduler.CheckTimeout)
	return timeout
}

// GetRunLockTTL returns the single-flight lock expiry as duration
func (c *Config) GetRunLockTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Scheduler.RunLockTTL)
	return ttl
}
