package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath переменная окружения с путем к конфигурации
const EnvConfigPath = "CONFIG_PATH"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server    ServerConfig      `toml:"server"`
	Database  DatabaseConfig    `toml:"database"`
	Storage   StorageConfig     `toml:"storage"`
	Logs      LogsConfig        `toml:"logs"`
	Metrics   MetricsConfig     `toml:"metrics"`
	Directory IntegrationConfig `toml:"directory"`
	Notifier  IntegrationConfig `toml:"notifier"`
	Billing   IntegrationConfig `toml:"billing"`
	Engine    EngineConfig      `toml:"engine"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type StorageConfig struct {
	Driver string `toml:"driver"` // postgres | memory
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig внешний HTTP сервис; пустой URL или enabled=false отключает интеграцию
type IntegrationConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// Active возвращает true, если интеграция включена и настроена
func (c IntegrationConfig) Active() bool {
	return c.Enabled && c.URL != ""
}

type EngineConfig struct {
	WaitlistSweepIntervalSeconds int `toml:"waitlist_sweep_interval_seconds"` // 0 = без периодического прохода
	QueueSweepIntervalSeconds    int `toml:"queue_sweep_interval_seconds"`
	QueueSweepBatch              int `toml:"queue_sweep_batch"`
	WaitlistHorizonDays          int `toml:"waitlist_horizon_days"`
}

// Load читает TOML файл; CONFIG_PATH переопределяет путь
func Load(path string) (*Config, error) {
	if env := os.Getenv(EnvConfigPath); env != "" {
		path = env
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения по умолчанию; поля из файла их перекрывают
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "scheduling-service",
		},
		Directory: IntegrationConfig{Timeout: 5},
		Notifier:  IntegrationConfig{Timeout: 5},
		Billing:   IntegrationConfig{Timeout: 10},
		Engine: EngineConfig{
			WaitlistSweepIntervalSeconds: 300,
			QueueSweepIntervalSeconds:    15,
			QueueSweepBatch:              100,
			WaitlistHorizonDays:          30,
		},
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must be positive", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}

	for name, integration := range map[string]IntegrationConfig{
		"directory": c.Directory,
		"notifier":  c.Notifier,
		"billing":   c.Billing,
	} {
		if integration.Enabled && integration.Timeout <= 0 {
			return fmt.Errorf("%w: %s.timeout must be positive", ErrInvalidConfig, name)
		}
	}

	if c.Engine.WaitlistSweepIntervalSeconds < 0 || c.Engine.QueueSweepIntervalSeconds < 0 {
		return fmt.Errorf("%w: engine sweep intervals must not be negative", ErrInvalidConfig)
	}
	if c.Engine.QueueSweepBatch <= 0 {
		return fmt.Errorf("%w: engine.queue_sweep_batch must be positive", ErrInvalidConfig)
	}
	if c.Engine.WaitlistHorizonDays <= 0 {
		return fmt.Errorf("%w: engine.waitlist_horizon_days must be positive", ErrInvalidConfig)
	}
	return nil
}
