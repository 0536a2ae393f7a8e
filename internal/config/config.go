// Package config предоставялет структуры и функции для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
// Создаётся один раз при старте и дальше только читается.
type Config struct {
	Env             string `yaml:"env" env:"APP_ENV" env-default:"local"`
	Storage         `yaml:"storage"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
	Subscription    `yaml:"subscription"`
	OpenAI          `yaml:"openai"`
	RedisConnection `yaml:"redis_connection"`
	RabbitMQ        `yaml:"rabbitmq"`
	Admin           `yaml:"admin"`
	SMTP            `yaml:"smtp"`
	Scheduler       `yaml:"scheduler"`
}

// Storage структура для настройки подключения к базе данных
type Storage struct {
	Driver         string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"pgx"`
	DSN            string `yaml:"dsn" env:"STORAGE_DSN" env-required:"true"`
	MigrationsPath string `yaml:"migrations_path" env-default:"./migrations"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":4000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"60s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// Subscription структура с параметрами доступа новых пользователей
type Subscription struct {
	TrialPeriod time.Duration `yaml:"trial_period" env-default:"168h"`
}

// OpenAI структура для настройки клиента API генерации ответов.
// Модель и лимит токенов зашиты в пакете llm.
type OpenAI struct {
	APIKey  string `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеш.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	ListTTL      time.Duration `yaml:"list_ttl" env-default:"30s"`
}

// RabbitMQ структура для настройки публикации событий.
// Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL          string        `yaml:"url" env:"RABBITMQ_URL"`
	Retries      int           `yaml:"retries" env-default:"5"`
	RetryDelay   time.Duration `yaml:"retry_delay" env-default:"2s"`
	ExchangeName string        `yaml:"exchange" env-default:"notifications"`
}

// Admin структура для начального администратора.
// Пустой email отключает создание.
type Admin struct {
	Email      string        `yaml:"email" env:"ADMIN_EMAIL"`
	Name       string        `yaml:"name" env-default:"Administrator"`
	Password   string        `yaml:"password" env:"ADMIN_PASSWORD"`
	AccessTime time.Duration `yaml:"access_time" env-default:"87600h"`
}

// SMTP структура для отправки писем сервисом уведомлений.
type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM"`
	StartTLS bool   `yaml:"starttls" env-default:"true"`

	// Писем в секунду, 0 снимает ограничение
	SendRate float64 `yaml:"send_rate" env-default:"5"`
}

// Scheduler структура для рассылки напоминаний об окончании доступа.
// Напоминание уходит пользователям, чей доступ истекает
// в окне [now+Lead, now+Lead+Interval).
type Scheduler struct {
	Interval time.Duration `yaml:"interval" env-default:"12h"`
	Lead     time.Duration `yaml:"lead" env-default:"24h"`
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH,
// завершает процесс при любой ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла и переменных окружения.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.DSN == "" || cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("%s: storage dsn and jwt secret key must not be empty", op)
	}
	if cfg.Admin.Email != "" && cfg.Admin.Password == "" {
		return nil, fmt.Errorf("%s: admin password is required when admin email is set", op)
	}
	return &cfg, nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  MigrationsPath: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n"+
			"Subscription:\n"+
			"  TrialPeriod: %s\n"+
			"OpenAI:\n"+
			"  APIKey: %s\n"+
			"  BaseURL: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"Admin:\n"+
			"  Email: %s\n"+
			"SMTP:\n"+
			"  Host: %s\n"+
			"  Password: %s\n",
		c.Env,
		c.Driver,
		c.MigrationsPath,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.JWTSecretKey),
		c.TokenTTL,
		c.TrialPeriod,
		mask(c.APIKey),
		c.BaseURL,
		c.AddressRedis,
		c.RabbitMQ.URL != "",
		c.Admin.Email,
		c.SMTP.Host,
		mask(c.SMTP.Password),
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
