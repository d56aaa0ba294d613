package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheMemory = "memory"
	CacheRedis  = "redis"

	// ProxyPrefix is where the app is mounted when it runs behind the gateway.
	ProxyPrefix = "/discount-system"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	ExcelFilePath  string
	ExcelSheetName string
	ExcelColumns   []string
	SyncInterval   time.Duration

	BehindProxy      bool
	SecretKey        string
	MaxUploadBytes   int64
	UploadRatePerMin int

	CacheBackend  string
	RedisHost     string
	RedisPort     string
	RedisPassword string

	Mail MailConfig
}

type MailConfig struct {
	Server      string
	Port        string
	From        string
	Password    string
	NotifyTo    string
	MaxAttempts int
}

// Enabled reports whether enough is configured to deliver sync notifications.
func (m MailConfig) Enabled() bool {
	return m.Server != "" && m.From != "" && m.NotifyTo != ""
}

// Load reads configuration from the environment, preloading .env when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "discounts.db"),

		ExcelFilePath:  os.Getenv("EXCEL_FILE_PATH"),
		ExcelSheetName: os.Getenv("EXCEL_SHEET_NAME"),
		ExcelColumns:   getEnvCSV("EXCEL_COLUMNS", nil),
		SyncInterval:   getEnvDuration("SYNC_INTERVAL", 0),

		BehindProxy:      getEnvBool("BEHIND_PROXY", false),
		SecretKey:        getEnv("SECRET_KEY", "default-secret-key"),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_MB", 100)) * 1024 * 1024,
		UploadRatePerMin: getEnvInt("UPLOAD_RATE_PER_MIN", 6),

		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory)),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		Mail: MailConfig{
			Server:      os.Getenv("EMAIL_SERVER"),
			Port:        getEnv("EMAIL_SERVER_PORT", "587"),
			From:        os.Getenv("SEND_FROM_EMAIL"),
			Password:    os.Getenv("SEND_FROM_EMAIL_PASSWORD"),
			NotifyTo:    os.Getenv("SYNC_NOTIFY_EMAIL"),
			MaxAttempts: getEnvInt("MAIL_MAX_ATTEMPTS", 5),
		},
	}

	if cfg.DBDriver == DriverPostgres && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = postgresDSNFromParts()
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL or PG_HOST/PG_DB is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.CacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.SyncInterval < 0 {
		return fmt.Errorf("SYNC_INTERVAL must not be negative")
	}
	return nil
}

// PathPrefix is the URL prefix the router is mounted under.
func (c Config) PathPrefix() string {
	if c.BehindProxy {
		return ProxyPrefix
	}
	return ""
}

// CookiePath scopes cookies to the mount point.
func (c Config) CookiePath() string {
	return c.PathPrefix() + "/"
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return c.DatabaseURL
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func postgresDSNFromParts() string {
	host := os.Getenv("PG_HOST")
	dbname := os.Getenv("PG_DB")
	if host == "" || dbname == "" {
		return ""
	}
	port := getEnv("PG_PORT", "5432")
	user := os.Getenv("PG_USER")
	password := os.Getenv("PG_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvCSV(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}
