package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Inventory InventoryConfig
	Auth      AuthConfig
	Assistant AssistantConfig
}

type ServerConfig struct {
	AppEnv             string
	HTTPPort           string
	BaseURL            string
	WebDir             string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// StoreConfig picks the backend: the JSON file store or the SQL database.
type StoreConfig struct {
	UseFileDB  bool
	FileDBPath string
}

type DatabaseConfig struct {
	Driver          string // mysql, postgres or sqlite
	DSN             string
	LogLevel        string // silent, error, warn, info
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type InventoryConfig struct {
	LowStockThreshold int
}

type AuthConfig struct {
	Enabled         bool
	JWTSecret       string
	TokenTTL        time.Duration
	AdminUsername   string
	AdminPassword   string
	CashierUsername string
	CashierPassword string
}

type AssistantConfig struct {
	GeminiAPIKey string
	Model        string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:             getEnv("APP_ENV", "development"),
			HTTPPort:           getEnv("HTTP_PORT", "8080"),
			BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
			WebDir:             getEnv("WEB_DIR", ""),
			CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			ReadTimeout:        time.Duration(getEnvInt("HTTP_READ_TIMEOUT", 15)) * time.Second,
			WriteTimeout:       time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT", 60)) * time.Second,
			IdleTimeout:        time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT", 120)) * time.Second,
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Store: StoreConfig{
			UseFileDB:  getEnvBool("USE_FILE_DB", false),
			FileDBPath: getEnv("FILE_DB_PATH", "data/db.json"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			DSN:             getEnv("DB_DSN", ""),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Inventory: InventoryConfig{
			LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 20),
		},
		Auth: AuthConfig{
			Enabled:         getEnvBool("AUTH_ENABLED", false),
			JWTSecret:       getEnv("JWT_SECRET", "change-this-secret-in-production"),
			TokenTTL:        time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
			AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
			CashierUsername: getEnv("CASHIER_USERNAME", "cashier"),
			CashierPassword: getEnv("CASHIER_PASSWORD", ""),
		},
		Assistant: AssistantConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.0-flash-001"),
		},
	}
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return fallback
}
