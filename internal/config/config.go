// Package config reads service settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/juju/errors"

	"HugHub/internal/pkg"
)

type DBConfig struct {
	Driver   string // mysql | sqlite
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string // sqlite file
}

// DSN builds the driver specific connection string.
func (c DBConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type Config struct {
	Port            string
	APIBaseURL      string
	FrontendBaseURL string
	LogLevel        string

	DB    DBConfig
	Redis RedisConfig
	SMTP  pkg.SMTPConfig
	Kafka pkg.KafkaConfig

	ToxicityURL     string
	ToxicityTimeout time.Duration

	AccessSecret  string
	RefreshSecret string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	getInt := func(key string, def int) (int, error) {
		v := get(key, "")
		if v == "" {
			return def, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.NotValidf("%s=%q", key, v)
		}
		return n, nil
	}

	cfg := &Config{
		Port:            get("PORT", "5000"),
		FrontendBaseURL: strings.TrimRight(get("FRONTEND_BASE_URL", "http://localhost:3000"), "/"),
		LogLevel:        get("LOG_LEVEL", "<root>=INFO"),
		ToxicityURL:     get("TOXICITY_SERVICE_URL", "http://127.0.0.1:8000/predict"),
		AccessSecret:    get("JWT_ACCESS_SECRET", ""),
		RefreshSecret:   get("JWT_REFRESH_SECRET", ""),
	}
	cfg.APIBaseURL = strings.TrimRight(get("API_BASE_URL", "http://localhost:"+cfg.Port), "/")

	timeout, err := time.ParseDuration(get("TOXICITY_TIMEOUT", "5s"))
	if err != nil {
		return nil, errors.NotValidf("TOXICITY_TIMEOUT")
	}
	cfg.ToxicityTimeout = timeout

	cfg.DB = DBConfig{
		Driver:   get("DB_DRIVER", "mysql"),
		Host:     get("DB_HOST", "127.0.0.1"),
		User:     get("DB_USER", "root"),
		Password: get("DB_PASSWORD", ""),
		Name:     get("DB_NAME", "hughub_db"),
		Path:     get("SQLITE_PATH", "hughub.db"),
	}
	if cfg.DB.Port, err = getInt("DB_PORT", 3306); err != nil {
		return nil, err
	}
	if cfg.DB.Driver != "mysql" && cfg.DB.Driver != "sqlite" {
		return nil, errors.NotValidf("DB_DRIVER=%q", cfg.DB.Driver)
	}

	cfg.Redis = RedisConfig{
		Addr:     get("REDIS_ADDR", "127.0.0.1:6379"),
		Password: get("REDIS_PASSWORD", ""),
	}
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.SMTP = pkg.SMTPConfig{
		Host:     get("SMTP_HOST", "smtp.gmail.com"),
		Username: get("SMTP_USER", ""),
		Password: get("SMTP_PASS", ""),
		From:     get("SMTP_FROM", `"Hug Hub Team" <noreply@hughub.com>`),
	}
	if cfg.SMTP.Port, err = getInt("SMTP_PORT", 465); err != nil {
		return nil, err
	}

	if brokers := get("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}
	cfg.Kafka.Topic = get("KAFKA_TOPIC", "hughub.events")
	if cfg.Kafka.WriteTimeout, err = time.ParseDuration(get("KAFKA_WRITE_TIMEOUT", "5s")); err != nil {
		return nil, errors.NotValidf("KAFKA_WRITE_TIMEOUT")
	}
	if cfg.Kafka.BatchTimeout, err = time.ParseDuration(get("KAFKA_BATCH_TIMEOUT", "10ms")); err != nil {
		return nil, errors.NotValidf("KAFKA_BATCH_TIMEOUT")
	}

	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}
	return cfg, nil
}
