package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	CORS     CORSConfig
	Session  SessionConfig
	Map      MapConfig
	Frontend FrontendConfig
	Tracing  TracingConfig
	Stats    StatsConfig
}

type DatabaseConfig struct {
	Driver   string // mysql, postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Path     string // sqlite only
}

type ServerConfig struct {
	Port    string
	GinMode string
	Env     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type SessionConfig struct {
	Backend       string // memory or redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

type MapConfig struct {
	MapboxToken string
}

type FrontendConfig struct {
	DistDir string
}

type TracingConfig struct {
	Endpoint    string
	ServiceName string
}

type StatsConfig struct {
	Interval time.Duration
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "mysql"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "hospital_directory"),
			Path:     getEnv("DB_PATH", "hospital_directory.db"),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8000"),
			GinMode: getEnv("GIN_MODE", "debug"),
			Env:     getEnv("APP_ENV", "dev"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:8080,http://localhost:5173")),
		},
		Session: SessionConfig{
			Backend:       getEnv("SESSION_BACKEND", "memory"),
			RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			KeyPrefix:     getEnv("SESSION_KEY_PREFIX", "hospital-directory:session:"),
		},
		Map: MapConfig{
			MapboxToken: getEnv("MAPBOX_TOKEN", ""),
		},
		Frontend: FrontendConfig{
			DistDir: getEnv("FRONTEND_DIST", ""),
		},
		Tracing: TracingConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "hospital-directory"),
		},
		Stats: StatsConfig{
			Interval: parseDuration(getEnv("STATS_INTERVAL", "30s"), 30*time.Second),
		},
	}

	return config
}

// Validate reports configuration values the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.Session.Backend)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Printf("Warning: Invalid integer for %s '%s', using default\n", key, value)
		return defaultValue
	}
	return n
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return fallback
	}
	return duration
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
