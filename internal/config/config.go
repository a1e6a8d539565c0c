package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса записи на прием
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Auth        AuthConfig        `toml:"auth"`
	Booking     BookingConfig     `toml:"booking"`
	Redis       RedisConfig       `toml:"redis"`
	Notifier    NotifierConfig    `toml:"notifier"`
	SMTP        SMTPConfig        `toml:"smtp"`
	UserService UserServiceConfig `toml:"userservice"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки JWT
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// BookingConfig настройки записи
type BookingConfig struct {
	Timezone         string `toml:"timezone"`
	OperationTimeout int    `toml:"operation_timeout"` // секунды
	NumberPrefix     string `toml:"number_prefix"`

	location *time.Location
}

// Location часовой пояс, в котором считается "сегодня"
func (b BookingConfig) Location() *time.Location {
	if b.location == nil {
		return time.UTC
	}
	return b.location
}

// Timeout таймаут операций записи и поиска слотов
func (b BookingConfig) Timeout() time.Duration {
	return time.Duration(b.OperationTimeout) * time.Second
}

// RedisConfig настройки Redis (очередь уведомлений)
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// NotifierConfig настройки очереди и воркера уведомлений
type NotifierConfig struct {
	QueueKey       string `toml:"queue_key"`
	EnqueueTimeout int    `toml:"enqueue_timeout"` // секунды
	PopTimeout     int    `toml:"pop_timeout"`     // секунды
	WorkerEnabled  bool   `toml:"worker_enabled"`  // запускать воркер внутри serve
}

// SMTPConfig настройки почтового сервера
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// UserServiceConfig настройки клиента UserService
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// Load читает конфигурацию из TOML файла и накладывает секреты из окружения.
// Файл .env в рабочей директории подхватывается, если он есть.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overlay := map[string]*string{
		"DB_PASSWORD":    &c.Database.Password,
		"JWT_SECRET":     &c.Auth.JWTSecret,
		"SMTP_PASSWORD":  &c.SMTP.Password,
		"REDIS_PASSWORD": &c.Redis.Password,
	}
	for key, target := range overlay {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*target = v
		}
	}
}

func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointment_service"
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "UTC"
	}
	if c.Booking.OperationTimeout == 0 {
		c.Booking.OperationTimeout = 5
	}
	if c.Booking.NumberPrefix == "" {
		c.Booking.NumberPrefix = "APT"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Notifier.QueueKey == "" {
		c.Notifier.QueueKey = "appointments:notifications"
	}
	if c.Notifier.EnqueueTimeout == 0 {
		c.Notifier.EnqueueTimeout = 3
	}
	if c.Notifier.PopTimeout == 0 {
		c.Notifier.PopTimeout = 5
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 5
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return errors.New("database host and dbname are required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth jwt_secret is required (set JWT_SECRET)")
	}
	if c.UserService.URL == "" {
		return errors.New("userservice url is required")
	}

	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return fmt.Errorf("booking timezone %q: %w", c.Booking.Timezone, err)
	}
	c.Booking.location = loc

	if c.Booking.OperationTimeout < 0 {
		return errors.New("booking operation_timeout must be positive")
	}
	return nil
}
