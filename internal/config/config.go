package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds the employee API server settings
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MigrationsPath  string
}

// DatabaseConfig holds PostgreSQL connection and pool settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	// ConnectAttempts is how many pings are tried at startup before giving up
	ConnectAttempts int
}

// ImportConfig holds bulk import settings
type ImportConfig struct {
	Concurrency   int   // calls in flight per import; 1 is sequential
	MaxUploadSize int64 // bytes
	UploadDir     string
	PollInterval  time.Duration
	AsyncWorkers  int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 5*time.Minute),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "employees"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:     getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			ConnectAttempts: getIntEnv("DB_CONNECT_ATTEMPTS", 5),
		},
		Import: ImportConfig{
			Concurrency:   getIntEnv("IMPORT_CONCURRENCY", 1),
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 50<<20),
			UploadDir:     getEnv("UPLOAD_DIR", "./data/uploads"),
			PollInterval:  getDurationEnv("IMPORT_ASYNC_POLL_INTERVAL", 2*time.Second),
			AsyncWorkers:  getIntEnv("IMPORT_ASYNC_WORKERS", 1),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.Database.ConnectAttempts < 1 {
		errs = append(errs, fmt.Errorf("DB_CONNECT_ATTEMPTS must be at least 1, got %d", c.Database.ConnectAttempts))
	}
	if c.Import.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("IMPORT_CONCURRENCY must be at least 1, got %d", c.Import.Concurrency))
	}
	if c.Import.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_SIZE must be positive"))
	}
	if c.Import.AsyncWorkers < 1 {
		errs = append(errs, fmt.Errorf("IMPORT_ASYNC_WORKERS must be at least 1, got %d", c.Import.AsyncWorkers))
	}
	if c.Log.Format != "json" && c.Log.Format != "pretty" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or pretty, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// GetDSN returns the lib/pq connection string. Values are quoted so
// passwords containing spaces or quotes survive.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dsnValue(c.Host), dsnValue(c.Port), dsnValue(c.User),
		dsnValue(c.Password), dsnValue(c.Name), dsnValue(c.SSLMode),
	)
}

// Redacted is the DSN as a URL with the password masked, for logs
func (c *DatabaseConfig) Redacted() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, "xxxxx"),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

func dsnValue(v string) string {
	if v != "" && !needsQuoting(v) {
		return v
	}
	out := []byte{'\''}
	for i := 0; i < len(v); i++ {
		if v[i] == '\'' || v[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, v[i])
	}
	return string(append(out, '\''))
}

func needsQuoting(v string) bool {
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case ' ', '\'', '\\', '\t', '\n':
			return true
		}
	}
	return false
}

// env returns the parsed value of key, or def when it is unset or unparsable
func env[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnv(key, defaultValue string) string {
	return env(key, defaultValue, func(s string) (string, error) { return s, nil })
}

func getIntEnv(key string, defaultValue int) int {
	return env(key, defaultValue, strconv.Atoi)
}

func getInt64Env(key string, defaultValue int64) int64 {
	return env(key, defaultValue, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	return env(key, defaultValue, time.ParseDuration)
}
