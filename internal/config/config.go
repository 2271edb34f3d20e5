package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration of the functions host.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The port of the function invocation API.
// - HealthPort: The port of the monitoring server (/healthz, /metrics).
// - ShutdownTimeout: How long in-flight requests get to finish on shutdown.
// - DatasetPath: Path of the schools dataset, empty for the bundled sample.
// - GeocoderType: Address geocoder used by processlargedata (none, google, nominatim).
// - GeocoderKey: API key of the geocoder (Google only).
// - PasswordSalt: Salt used by the environment function.
// - Database: Postgres settings of the postgres function.
// - RedisURL: Redis connection URL of the redis function.
type Config struct {
	Env             string
	Port            int
	HealthPort      int
	ShutdownTimeout time.Duration
	DatasetPath     string
	GeocoderType    string
	GeocoderKey     string
	PasswordSalt    string
	Database        PostgresConfig
	RedisURL        string
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
// URL takes precedence over the individual fields.
type PostgresConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN returns the connection string, or an empty string when no database is configured.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	if p.Host == "" {
		return ""
	}

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   "/" + p.Name,
	}

	return dsn.String()
}

// MustLoad reads the configuration from the environment, optionally seeded by a .env file.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("FUNCTIONS_ENV", "production")
	v.SetDefault("FUNCTIONS_PORT", "8080")
	v.SetDefault("FUNCTIONS_HEALTH_PORT", "8081")
	v.SetDefault("FUNCTIONS_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("FUNCTIONS_GEOCODER_TYPE", "none")
	v.SetDefault("DB_PORT", "5432")

	port, err := parsePort(v.GetString("FUNCTIONS_PORT"))
	if err != nil {
		panic("failed to parse port for api server from configuration")
	}

	healthPort, err := parsePort(v.GetString("FUNCTIONS_HEALTH_PORT"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	shutdownTimeout, err := time.ParseDuration(v.GetString("FUNCTIONS_SHUTDOWN_TIMEOUT"))
	if err != nil {
		panic("failed to parse shutdown timeout from configuration")
	}

	return &Config{
		Env:             v.GetString("FUNCTIONS_ENV"),
		Port:            port,
		HealthPort:      healthPort,
		ShutdownTimeout: shutdownTimeout,
		DatasetPath:     v.GetString("FUNCTIONS_DATASET_PATH"),
		GeocoderType:    v.GetString("FUNCTIONS_GEOCODER_TYPE"),
		GeocoderKey:     v.GetString("FUNCTIONS_GEOCODER_KEY"),
		PasswordSalt:    v.GetString("PASSWORD_SALT"),
		Database: PostgresConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		RedisURL: v.GetString("REDIS_URL"),
	}
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", raw, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}

	return port, nil
}
