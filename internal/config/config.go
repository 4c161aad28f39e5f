package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`

	// Supabase заполняется из переменных окружения, не из TOML
	Supabase SupabaseConfig `toml:"-"`
	// APIKey ключ доступа к HTTP API (переменная окружения API_KEY)
	APIKey string `toml:"-"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// StorageConfig настройки слоя хранения
type StorageConfig struct {
	// Mode выбирает реализацию table-store: "rest" (Supabase PostgREST)
	// или "postgres" (прямое подключение через database/sql)
	Mode           string `toml:"mode"`
	BookingTable   string `toml:"booking_table"`
	URLTable       string `toml:"url_table"`
	BatchSize      int    `toml:"batch_size"`
	RequestTimeout int    `toml:"request_timeout"`

	// AllowSchemaReset разрешает деструктивный шаг протокола восстановления прав
	// (DROP/CREATE таблиц). Выключен по умолчанию, включается оператором осознанно.
	AllowSchemaReset bool `toml:"allow_schema_reset"`
	// EscalationPauseSeconds пауза перед повторной проверкой тестовой записи
	EscalationPauseSeconds int `toml:"escalation_pause_seconds"`
}

// DatabaseConfig настройки прямого подключения к PostgreSQL
// Используется в режиме "postgres" и протоколом восстановления прав.
// Если задан SUPABASE_DB_DSN, он имеет приоритет над этими полями.
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

// DSN возвращает строку подключения PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// SupabaseConfig доступ к Supabase, читается из окружения
type SupabaseConfig struct {
	URL        string // SUPABASE_URL
	Key        string // SUPABASE_KEY
	ServiceKey string // SUPABASE_SERVICE_KEY (service_role, для привилегированного клиента)
	DirectDSN  string // SUPABASE_DB_DSN (прямое подключение в обход REST слоя)
}

// Load загружает конфигурацию из TOML файла и переменных окружения.
// Файл .env подхватывается, если присутствует рядом с бинарником.
func Load(path string) (*Config, error) {
	// .env опционален: в продакшене переменные приходят из окружения процесса
	_ = godotenv.Load()

	cfg := defaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	cfg.Supabase = SupabaseConfig{
		URL:        os.Getenv("SUPABASE_URL"),
		Key:        os.Getenv("SUPABASE_KEY"),
		ServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		DirectDSN:  os.Getenv("SUPABASE_DB_DSN"),
	}
	cfg.APIKey = os.Getenv("API_KEY")

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Storage: StorageConfig{
			Mode:                   "rest",
			BookingTable:           "booking_data",
			URLTable:               "urls",
			BatchSize:              100,
			RequestTimeout:         30,
			AllowSchemaReset:       false,
			EscalationPauseSeconds: 1,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "postgres",
			SSLMode:         "require",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     false,
			ServiceName: "parser-storage-service",
			Path:        "/metrics",
		},
	}
}
