package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Драйверы банка вопросов
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Admin    AdminConfig
	Report   ReportConfig
	Storage  StorageConfig
	Email    EmailConfig
	Session  SessionConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig содержит настройки подключения к хостингу Postgres (Supabase)
type DatabaseConfig struct {
	// Driver: "postgres" (по умолчанию) или "memory" для локального запуска без БД
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// MigrationsPath: путь к SQL-миграциям, пустая строка отключает автоприменение
	MigrationsPath string `mapstructure:"migrations_path"`
}

// RedisConfig содержит настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Enabled: если false, кеш каталога работает только в памяти процесса
	Enabled    bool     `mapstructure:"enabled"`
	Mode       string   `mapstructure:"mode"`
	Addrs      []string `mapstructure:"addrs"`
	Addr       string   `mapstructure:"addr"`
	Password   string   `mapstructure:"password"`
	DB         int      `mapstructure:"db"`
	MasterName string   `mapstructure:"master_name"`
	MaxRetries int      `mapstructure:"max_retries"`
	// CatalogTTL: время жизни закешированного списка наборов
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
}

// AdminConfig содержит настройки доступа администратора
type AdminConfig struct {
	// PasswordHash: bcrypt-хеш общего пароля администратора (предпочтительно)
	PasswordHash string `mapstructure:"password_hash"`
	// Password: открытый общий пароль, хешируется при старте, если PasswordHash пуст
	Password       string `mapstructure:"password"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	TokenTTLHours  int    `mapstructure:"token_ttl_hours"`
	LoginRateLimit int    `mapstructure:"login_rate_limit"`
}

// ReportConfig содержит тексты, которые печатаются в отчете
type ReportConfig struct {
	ProductName string   `mapstructure:"product_name"`
	Tagline     string   `mapstructure:"tagline"`
	Credits     []string `mapstructure:"credits"`
	// FontPath — UTF-8 TTF для PDF; без него печатаются только символы cp1252
	FontPath string `mapstructure:"font_path"`
}

// StorageConfig содержит настройки архива отчетов
type StorageConfig struct {
	// Backend: "" (архив выключен), "fs" или "supabase"
	Backend     string
	FSBaseDir   string `mapstructure:"fs_base_dir"`
	SupabaseURL string `mapstructure:"supabase_url"`
	SupabaseKey string `mapstructure:"supabase_key"`
	Bucket      string
}

// EmailConfig содержит настройки отправки отчетов по почте
type EmailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string
}

// SessionConfig содержит настройки клиентских сессий
type SessionConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения (нужен golang-migrate)
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// setDefaults задает значения по умолчанию
func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 30)
	vip.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	vip.SetDefault("database.driver", DriverPostgres)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "require")
	vip.SetDefault("database.migrations_path", "migrations")

	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.catalog_ttl", 5*time.Minute)

	vip.SetDefault("admin.token_ttl_hours", 12)
	vip.SetDefault("admin.login_rate_limit", 5)

	vip.SetDefault("report.product_name", "AspireExamine")
	vip.SetDefault("report.tagline", "Your Path to Success")
	vip.SetDefault("report.credits", []string{"Crafted with love by SAHABAJ", "A product of Epplicon Technologies"})

	vip.SetDefault("storage.fs_base_dir", "./data/reports")
	vip.SetDefault("storage.bucket", "reports")

	vip.SetDefault("session.idle_timeout", 6*time.Hour)
	vip.SetDefault("session.sweep_interval", 10*time.Minute)
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию
	setDefaults(vip)

	// 2. Привязываем переменные окружения ЯВНО
	vip.BindEnv("database.driver", "DATABASE_DRIVER")
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.enabled", "REDIS_ENABLED")
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")

	vip.BindEnv("admin.password_hash", "ADMIN_PASSWORD_HASH")
	vip.BindEnv("admin.password", "ADMIN_PASSWORD")
	vip.BindEnv("admin.jwt_secret", "ADMIN_JWT_SECRET")

	vip.BindEnv("storage.backend", "STORAGE_BACKEND")
	vip.BindEnv("storage.supabase_url", "SUPABASE_URL")
	vip.BindEnv("storage.supabase_key", "SUPABASE_KEY")
	vip.BindEnv("storage.bucket", "BUCKET_NAME")

	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	vip.BindEnv("server.port", "SERVER_PORT")

	vip.BindEnv("report.font_path", "REPORT_FONT_PATH")

	// 3. Читаем файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 4. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Driver: %s", cfg.Database.Driver)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Enabled: %t (mode %s)", cfg.Redis.Enabled, cfg.Redis.Mode)
		log.Printf("Storage Backend: %q", cfg.Storage.Backend)
		log.Printf("Email Enabled: %t", cfg.Email.ResendAPIKey != "")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
			return fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.Admin.PasswordHash == "" && c.Admin.Password == "" {
		return fmt.Errorf("admin password is required (check ADMIN_PASSWORD_HASH or ADMIN_PASSWORD env vars)")
	}
	if c.Admin.JWTSecret == "" {
		return fmt.Errorf("admin JWT secret is required (check ADMIN_JWT_SECRET env var)")
	}

	switch c.Storage.Backend {
	case "", "fs":
	case "supabase":
		if c.Storage.SupabaseURL == "" || c.Storage.SupabaseKey == "" || c.Storage.Bucket == "" {
			return fmt.Errorf("supabase storage requires SUPABASE_URL, SUPABASE_KEY and BUCKET_NAME")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %q", c.Storage.Backend)
	}

	if c.Report.FontPath != "" {
		if _, err := os.Stat(c.Report.FontPath); err != nil {
			return fmt.Errorf("report font is not readable: %w", err)
		}
	}

	if c.Email.ResendAPIKey != "" && c.Email.From == "" {
		return fmt.Errorf("email.from is required when RESEND_API_KEY is set")
	}
	return nil
}
