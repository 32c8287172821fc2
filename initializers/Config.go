package initializers

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	// Port is the HTTP server port.
	Port int

	// MongoURI is the MongoDB connection string.
	MongoURI string

	// DBName is the database holding the users, posts and comments collections.
	DBName string

	// SecretKey signs session tokens.
	SecretKey string

	// HostName is the public base URL media links are built from. It ends in "/".
	HostName string

	// AllowedOrigins are the CORS origins allowed to send credentials.
	AllowedOrigins []string

	// StoreBackend is "mongo" or "memory".
	StoreBackend string

	// TokenTTL is how long a session token stays valid.
	TokenTTL time.Duration

	// PageSize is the number of posts per feed page.
	PageSize int

	// LogLevel is the minimum slog level.
	LogLevel slog.Level
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	port := 8000
	if p := os.Getenv("PORT"); p != "" {
		var err error
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
	}

	hostName := getenv("HOST_NAME", fmt.Sprintf("http://localhost:%d/", port))
	if !strings.HasSuffix(hostName, "/") {
		hostName += "/"
	}

	backend := getenv("STORE_BACKEND", BackendMongo)
	if backend != BackendMongo && backend != BackendMemory {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: must be %q or %q", backend, BackendMongo, BackendMemory)
	}

	ttl := 30 * 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		var err error
		ttl, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
	}

	pageSize := 3
	if v := os.Getenv("PAGE_SIZE"); v != "" {
		var err error
		pageSize, err = strconv.Atoi(v)
		if err != nil || pageSize < 1 {
			return nil, fmt.Errorf("invalid PAGE_SIZE %q", v)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	var origins []string
	for _, o := range strings.Split(getenv("ALLOWED_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		Port:           port,
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getenv("DB_NAME", "Threads"),
		SecretKey:      os.Getenv("SECRET_KEY"),
		HostName:       hostName,
		AllowedOrigins: origins,
		StoreBackend:   backend,
		TokenTTL:       ttl,
		PageSize:       pageSize,
		LogLevel:       level,
	}, nil
}

// RequireSecret reports an error when no token secret is configured.
func (c *Config) RequireSecret() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
