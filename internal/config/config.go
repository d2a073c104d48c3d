package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
	DriverMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	App      AppConfig
	Policy   PolicyConfig
	Leave    LeaveConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
}

// PolicyConfig holds the attendance rules. Office hours stay as HH:MM
// strings until Policy() converts them.
type PolicyConfig struct {
	Source                     string
	StandardHours              float64
	OfficeStart                string
	OfficeEnd                  string
	LateThresholdMinutes       int
	EarlyLeaveThresholdMinutes int
	HalfDayHours               float64
	EarlyLeaveBeforeHalfDay    bool
}

type LeaveConfig struct {
	DefaultBalance string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config, err := fromEnv()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func fromEnv() (*Config, error) {
	var errs []error
	config := &Config{}

	config.Database = DatabaseConfig{
		Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432, &errs),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_timekeeping"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Mongo = MongoConfig{
		URI:      getEnv("MONGO_URI", ""),
		Database: getEnv("MONGO_DATABASE", "hris_timekeeping"),
	}

	// Application configuration
	config.App = AppConfig{
		Port:               getEnvInt("APP_PORT", 8080, &errs),
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Policy = PolicyConfig{
		Source:                     strings.ToLower(getEnv("POLICY_SOURCE", string(attendance.PolicySourceGlobal))),
		StandardHours:              getEnvFloat("POLICY_STANDARD_HOURS", 8, &errs),
		OfficeStart:                getEnv("POLICY_OFFICE_START", "09:00"),
		OfficeEnd:                  getEnv("POLICY_OFFICE_END", "17:00"),
		LateThresholdMinutes:       getEnvInt("POLICY_LATE_THRESHOLD_MINUTES", 30, &errs),
		EarlyLeaveThresholdMinutes: getEnvInt("POLICY_EARLY_LEAVE_THRESHOLD_MINUTES", 60, &errs),
		HalfDayHours:               getEnvFloat("POLICY_HALF_DAY_HOURS", 4, &errs),
		EarlyLeaveBeforeHalfDay:    getEnvBool("POLICY_EARLY_LEAVE_BEFORE_HALF_DAY", false, &errs),
	}

	config.Leave = LeaveConfig{
		DefaultBalance: getEnv("LEAVE_DEFAULT_BALANCE", ""),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMongoDB:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be one of %s, %s, %s", DriverPostgres, DriverMongoDB, DriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.PolicySource(); err != nil {
		return err
	}
	if _, err := c.AttendancePolicy(); err != nil {
		return err
	}
	if _, err := c.DefaultLeaveBalance(); err != nil {
		return fmt.Errorf("LEAVE_DEFAULT_BALANCE: %w", err)
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

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

func (c *Config) PolicySource() (attendance.PolicySource, error) {
	switch s := attendance.PolicySource(c.Policy.Source); s {
	case attendance.PolicySourceGlobal, attendance.PolicySourceShift:
		return s, nil
	default:
		return "", fmt.Errorf("POLICY_SOURCE must be %s or %s", attendance.PolicySourceGlobal, attendance.PolicySourceShift)
	}
}

// AttendancePolicy builds the calculator policy from the POLICY_* keys.
func (c *Config) AttendancePolicy() (attendance.Policy, error) {
	p := c.Policy
	start, end, err := shift.Span(p.OfficeStart, p.OfficeEnd)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("POLICY_OFFICE_START/POLICY_OFFICE_END: %w", err)
	}
	switch {
	case p.StandardHours <= 0:
		return attendance.Policy{}, fmt.Errorf("POLICY_STANDARD_HOURS must be positive")
	case p.HalfDayHours < 0 || p.HalfDayHours > p.StandardHours:
		return attendance.Policy{}, fmt.Errorf("POLICY_HALF_DAY_HOURS must be between 0 and POLICY_STANDARD_HOURS")
	case p.LateThresholdMinutes < 0 || p.EarlyLeaveThresholdMinutes < 0:
		return attendance.Policy{}, fmt.Errorf("policy thresholds must not be negative")
	}

	return attendance.Policy{
		StandardHours:              p.StandardHours,
		OfficeStart:                start,
		OfficeEnd:                  end,
		LateThresholdMinutes:       p.LateThresholdMinutes,
		EarlyLeaveThresholdMinutes: p.EarlyLeaveThresholdMinutes,
		HalfDayHours:               p.HalfDayHours,
		EarlyLeaveBeforeHalfDay:    p.EarlyLeaveBeforeHalfDay,
	}, nil
}

func (c *Config) DefaultLeaveBalance() (leave.Balance, error) {
	return leave.ParseBalance(c.Leave.DefaultBalance)
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64, errs *[]error) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool, errs *[]error) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return b
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
