package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// ExcelFile — исходная книга с заявками; ExcelSheet — имя листа.
	ExcelFile  string
	ExcelSheet string

	// SyncInterval — период фолбэк-опроса файла в режиме watch.
	SyncInterval time.Duration

	// KafkaBrokers/KafkaTopicTicket — если заданы, сервис шлёт события
	// тикетов в Kafka (best-effort).
	KafkaBrokers     []string
	KafkaTopicTicket string

	// SearchServiceURL — если задан, тикеты отправляются в search-service
	// для индексации (POST /search/index/ticket).
	SearchServiceURL string

	// AuthBackend — "file" (плоский JSON со списком пользователей) или
	// "database" (таблица users).
	AuthBackend string
	UsersFile   string
	JWTSecret   string

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:          getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:         firstEnv("APP_PORT", "HTTP_PORT", "8080"),
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ExcelFile:        getEnv("EXCEL_FILE", "tickets.xlsx"),
		ExcelSheet:       getEnv("EXCEL_SHEET", "IT Service Tickets"),
		SyncInterval:     getEnvDuration("SYNC_INTERVAL", time.Minute),
		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicTicket: getEnv("KAFKA_TOPIC_TICKET", ""),
		SearchServiceURL: getEnv("SEARCH_SERVICE_URL", ""),
		AuthBackend:      getEnv("AUTH_BACKEND", "file"),
		UsersFile:        getEnv("USERS_FILE", "users.json"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
	}
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "ticket_dashboard")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.Host == "" || c.DB.Database == "" {
		return errors.New("config: DB_HOST and DB_DATABASE are required")
	}
	if c.AppEnv == "production" && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	if c.AppEnv == "production" && c.JWTSecret == "" {
		return errors.New("config: in production JWT_SECRET is required")
	}
	switch c.AuthBackend {
	case "file", "database":
	default:
		return fmt.Errorf("config: unknown AUTH_BACKEND %q (want file or database)", c.AuthBackend)
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func splitList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// bare number means seconds, как CHECK_INTERVAL в старом пайплайне
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
