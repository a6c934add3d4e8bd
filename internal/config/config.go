// Package config предоставляет структуры и функцию для загрузки конфига сервиса.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RabbitMQURL             string `yaml:"rabbitmq_url"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	SessionToken            `yaml:"session_token"`
	Content                 `yaml:"content"`
	SMTP                    `yaml:"smtp"`
	Notifier                `yaml:"notifier"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
}

// SessionToken структура для работы с cookie-сессией.
type SessionToken struct {
	SecretKey    string        `yaml:"secret_key" env:"SESSION_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
	CookieName   string        `yaml:"cookie_name" env-default:"coach_session"`
	CookieSecure bool          `yaml:"cookie_secure" env-default:"true"`
}

// Content структура для подключения к контент-хранилищу (headless CMS).
type Content struct {
	BaseURL      string        `yaml:"base_url" env-default:"https://api.storyblok.com/v2"`
	Token        string        `yaml:"token" env:"CONTENT_TOKEN"`
	Version      string        `yaml:"version" env-default:"published"`
	Timeout      time.Duration `yaml:"timeout" env-default:"10s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"5m"`
	ProgramsPath string        `yaml:"programs_path" env-default:"programs"`
}

// SMTP структура для отправки почтовых уведомлений.
type SMTP struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port" env-default:"587"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass" env:"SMTP_PASS"`
}

// Notifier структура для планировщика напоминаний о конце пробного периода.
type Notifier struct {
	ScanInterval time.Duration `yaml:"scan_interval" env-default:"12h"`
}

// MustLoad загружает конфиг из файла, указанного в CONFIG_PATH.
// При любой ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
