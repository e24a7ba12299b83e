package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Cfg struct {
	Database   Database
	Logger     Logger
	Browser    Browser
	Perception Perception
	Migrations Migrations
	App        App
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Enabled - история проходов ведется только при заданном хосте БД.
func (d Database) Enabled() bool {
	return d.Host != ""
}

// DSN - строка подключения для gorm/pgx.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// URL - адрес в формате postgres://, который ожидает golang-migrate.
func (d Database) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type Migrations struct {
	Path string
}

type Logger struct {
	Env        string
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type Browser struct {
	Display         string
	Headless        bool
	UserDataDir     string
	BrowsersPath    string
	CDPURL          string
	Timeout         time.Duration
	NavigateTimeout time.Duration
	ActionTimeout   time.Duration
	ConnectRetries  int
	BlockedURLs     []string
	BreakerFailures int
	BreakerReset    time.Duration
}

type Perception struct {
	TagAttribute string
	TagPrefix    string
	MaxLabel     int
	Redact       bool
}

type App struct {
	Host string
	Port int
}

func (a App) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     env("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
		},
		Logger: Logger{
			Env:        env("ENV", "dev"),
			Level:      env("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 14),
		},
		Browser: Browser{
			Display:         os.Getenv("DISPLAY"),
			Headless:        envBool("PW_HEADLESS"),
			UserDataDir:     os.Getenv("PW_USER_DATA_DIR"),
			BrowsersPath:    os.Getenv("PLAYWRIGHT_BROWSERS_PATH"),
			CDPURL:          os.Getenv("BROWSER_CDP_URL"),
			Timeout:         envDuration("BROWSER_TIMEOUT", 30*time.Second),
			NavigateTimeout: envDuration("BROWSER_NAVIGATE_TIMEOUT", 60*time.Second),
			ActionTimeout:   envDuration("BROWSER_ACTION_TIMEOUT", 10*time.Second),
			ConnectRetries:  envInt("BROWSER_CONNECT_RETRIES", 5),
			BlockedURLs:     envList("BROWSER_BLOCKED_URLS"),
			BreakerFailures: envInt("BROWSER_BREAKER_FAILURES", 5),
			BreakerReset:    envDuration("BROWSER_BREAKER_RESET", 30*time.Second),
		},
		Perception: Perception{
			TagAttribute: env("PERCEPTION_TAG_ATTRIBUTE", "data-manus-id"),
			TagPrefix:    env("PERCEPTION_TAG_PREFIX", "manus-element-"),
			MaxLabel:     envInt("PERCEPTION_MAX_LABEL", 100),
			Redact:       envBool("PERCEPTION_REDACT"),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
		App: App{
			Host: env("APP_HOST", "127.0.0.1"),
			Port: envInt("APP_PORT", 8080),
		},
	}

	if cfg.Perception.MaxLabel < 4 {
		return nil, fmt.Errorf("PERCEPTION_MAX_LABEL должен быть не меньше 4, получено %d", cfg.Perception.MaxLabel)
	}
	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		return nil, fmt.Errorf("некорректный APP_PORT: %d", cfg.App.Port)
	}

	return cfg, nil
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}

// envList читает список через запятую, пустые элементы отбрасываются.
func envList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
