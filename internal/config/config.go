package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
)

const launchDateLayout = "2006-01-02"

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config é montada uma vez no boot e passada por valor aos componentes.
type Config struct {
	Port   string
	AppEnv string

	DatabaseURL string
	AMQPURL     string
	Redis       RedisConfig
	LockTTL     time.Duration
	Mail        MailConfig

	SenderName      string
	ReplyToEmail    string
	APKDownloadLink string
	BetaLaunchDate  time.Time
	ScheduleOnStart bool
	SweepDelay      time.Duration

	AdminToken     string
	AllowedOrigins []string
	TrustProxy     bool
	Columns        entity.ColumnMap
}

// Load lê o .env (se existir) e depois o ambiente.
func Load() (Config, error) {
	godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		AppEnv:          getEnv("APP_ENV", "production"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AMQPURL:         os.Getenv("AMQP_URL"),
		SenderName:      getEnv("SENDER_NAME", "RHYDLE Team"),
		ReplyToEmail:    os.Getenv("REPLY_TO_EMAIL"),
		APKDownloadLink: os.Getenv("APK_DOWNLOAD_LINK"),
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Mail: MailConfig{
			Host:     os.Getenv("MAIL_HOST"),
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASS"),
			From:     os.Getenv("MAIL_FROM"),
		},
	}

	var err error
	if cfg.Mail.Port, err = getInt("MAIL_PORT", 587); err != nil {
		return Config{}, err
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.LockTTL, err = getDuration("LOCK_TTL", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SweepDelay, err = getDuration("SWEEP_DELAY", time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ScheduleOnStart, err = getBool("SCHEDULE_ON_START", false); err != nil {
		return Config{}, err
	}
	if cfg.TrustProxy, err = getBool("TRUST_PROXY", false); err != nil {
		return Config{}, err
	}
	if cfg.BetaLaunchDate, err = ParseLaunchDate(getEnv("BETA_LAUNCH_DATE", "2026-02-21")); err != nil {
		return Config{}, fmt.Errorf("BETA_LAUNCH_DATE: %w", err)
	}
	if cfg.Columns, err = loadColumns(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ParseLaunchDate aceita data ISO (meia-noite UTC) ou RFC3339 completo.
func ParseLaunchDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(launchDateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC3339)", s)
	}
	return t, nil
}

func loadColumns() (entity.ColumnMap, error) {
	c := entity.DefaultColumnMap()
	fields := []struct {
		env string
		dst *int
	}{
		{"COL_TIMESTAMP", &c.Timestamp},
		{"COL_EMAIL", &c.Email},
		{"COL_PROJECTS", &c.Projects},
		{"COL_PAGE", &c.Page},
		{"COL_DATE_ADDED", &c.DateAdded},
		{"COL_WELCOME_SENT", &c.WelcomeSent},
		{"COL_BETA_SENT", &c.BetaSent},
	}
	for _, f := range fields {
		v, err := getInt(f.env, *f.dst)
		if err != nil {
			return entity.ColumnMap{}, err
		}
		*f.dst = v
	}
	if err := c.Validate(); err != nil {
		return entity.ColumnMap{}, fmt.Errorf("column mapping: %w", err)
	}
	return c, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
