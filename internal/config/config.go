package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ProviderConfig names one offer source and where to fetch its catalog.
type ProviderConfig struct {
	Name string
	URL  string
}

type DatabaseConfig struct {
	Driver      string
	DSN         string
	AutoMigrate bool
}

type Config struct {
	Database         DatabaseConfig
	Providers        []ProviderConfig
	ProviderTimeout  time.Duration
	ImportTimeout    time.Duration
	FetchRateLimit   float64
	UseMockProviders bool
	MockServerPort   string
	LogLevel         slog.Level
	LogFormat        string
}

// MockServerAddr is the listen address of the local mock provider server.
func (c *Config) MockServerAddr() string {
	return "127.0.0.1:" + c.MockServerPort
}

var defaultProviders = []ProviderConfig{
	{Name: "offer1", URL: "https://api.offer1.com/offers"},
	{Name: "offer2", URL: "https://api.offer2.com/offers"},
}

// Load reads configuration from the environment, after applying an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	db, err := loadDatabase()
	if err != nil {
		return nil, err
	}

	timeoutMS := 10000
	if v := os.Getenv("PROVIDER_REQUEST_TIMEOUT_MS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid PROVIDER_REQUEST_TIMEOUT_MS %q: must be a positive integer", v)
		}
		timeoutMS = parsed
	}

	importTimeoutStr := os.Getenv("IMPORT_TIMEOUT")
	if importTimeoutStr == "" {
		importTimeoutStr = "5m"
	}
	importTimeout, err := time.ParseDuration(importTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid IMPORT_TIMEOUT %q: %w", importTimeoutStr, err)
	}

	var rateLimit float64
	if v := os.Getenv("FETCH_RATE_LIMIT"); v != "" {
		rateLimit, err = strconv.ParseFloat(v, 64)
		if err != nil || rateLimit < 0 {
			return nil, fmt.Errorf("invalid FETCH_RATE_LIMIT %q: must be a non-negative number", v)
		}
	}

	useMock := false
	if v := os.Getenv("USE_MOCK_PROVIDERS"); v != "" {
		useMock, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid USE_MOCK_PROVIDERS %q: %w", v, err)
		}
	}

	mockPort := os.Getenv("MOCK_SERVER_PORT")
	if mockPort == "" {
		mockPort = "4000"
	}
	if _, err := strconv.Atoi(mockPort); err != nil {
		return nil, fmt.Errorf("invalid MOCK_SERVER_PORT %q: %w", mockPort, err)
	}

	providers, err := loadProviders(os.Getenv("PROVIDERS"))
	if err != nil {
		return nil, err
	}
	if useMock {
		for i := range providers {
			providers[i].URL = "http://127.0.0.1:" + mockPort + "/" + providers[i].Name
		}
		slog.Info("Using mock providers", "port", mockPort)
	}

	level, err := parseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	switch logFormat {
	case "":
		logFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", logFormat)
	}

	return &Config{
		Database:         db,
		Providers:        providers,
		ProviderTimeout:  time.Duration(timeoutMS) * time.Millisecond,
		ImportTimeout:    importTimeout,
		FetchRateLimit:   rateLimit,
		UseMockProviders: useMock,
		MockServerPort:   mockPort,
		LogLevel:         level,
		LogFormat:        logFormat,
	}, nil
}

func loadDatabase() (DatabaseConfig, error) {
	driver := strings.ToLower(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = "postgres"
	}

	autoMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return DatabaseConfig{}, fmt.Errorf("invalid DB_AUTO_MIGRATE %q: %w", v, err)
		}
		autoMigrate = parsed
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		host := getEnv("DB_HOST", "localhost")
		user := getEnv("DB_USER", "postgres")
		password := os.Getenv("DB_PASSWORD")
		name := getEnv("DB_NAME", "offers")

		switch driver {
		case "postgres":
			port := getEnv("DB_PORT", "5432")
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				host, port, user, password, name)
		case "mysql":
			port := getEnv("DB_PORT", "3306")
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				user, password, host, port, name)
		case "sqlite":
			dsn = name + ".db"
		}
	}

	switch driver {
	case "postgres", "mysql", "sqlite":
	default:
		return DatabaseConfig{}, fmt.Errorf("unsupported DB_DRIVER %q: must be postgres, mysql or sqlite", driver)
	}

	return DatabaseConfig{Driver: driver, DSN: dsn, AutoMigrate: autoMigrate}, nil
}

// loadProviders parses an ordered "name=url,name=url" list. An empty value yields the built-in providers.
func loadProviders(raw string) ([]ProviderConfig, error) {
	if strings.TrimSpace(raw) == "" {
		providers := make([]ProviderConfig, len(defaultProviders))
		copy(providers, defaultProviders)
		return providers, nil
	}

	var providers []ProviderConfig
	seen := make(map[string]bool)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, url, ok := strings.Cut(entry, "=")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("invalid PROVIDERS entry %q: expected name=url", entry)
		}
		if seen[name] {
			return nil, fmt.Errorf("invalid PROVIDERS: duplicate provider %q", name)
		}
		seen[name] = true
		providers = append(providers, ProviderConfig{Name: name, URL: url})
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("invalid PROVIDERS %q: no providers listed", raw)
	}
	return providers, nil
}

func parseLogLevel(v string) (slog.Level, error) {
	if v == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
