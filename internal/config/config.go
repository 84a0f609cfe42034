package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Media    MediaConfig
	IBGE     IBGEConfig
	Events   EventsConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	RequestTimeout time.Duration
	BodyLimitMB    int
	AllowOrigins   string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	PointTTL    time.Duration
	LocalityTTL time.Duration
}

// MediaConfig - настройки хранилища изображений
type MediaConfig struct {
	BaseURL            string
	Backend            string
	UploadDir          string
	GCSBucket          string
	GCSCredentialsFile string
	MaxSizeMB          int
}

// IBGEConfig - внешний справочник штатов и городов
type IBGEConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type EventsConfig struct {
	Enabled bool
	Stream  string
}

type LogConfig struct {
	Level string
}

const (
	MediaBackendLocal = "local"
	MediaBackendGCS   = "gcs"
)

// Load читает .env из рабочей директории (если есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile читает конфигурацию из указанного env-файла и окружения.
// Отсутствие файла не является ошибкой: значения берутся из окружения и дефолтов.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("API_HOST"),
			Port:           v.GetInt("API_PORT"),
			Env:            v.GetString("API_ENV"),
			RequestTimeout: time.Duration(v.GetInt("API_REQUEST_TIMEOUT")) * time.Second,
			BodyLimitMB:    v.GetInt("API_BODY_LIMIT_MB"),
			AllowOrigins:   v.GetString("API_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			PointTTL:    time.Duration(v.GetInt("CACHE_POINT_TTL")) * time.Second,
			LocalityTTL: time.Duration(v.GetInt("CACHE_LOCALITY_TTL")) * time.Second,
		},
		Media: MediaConfig{
			BaseURL:            strings.TrimRight(v.GetString("MEDIA_BASE_URL"), "/"),
			Backend:            strings.ToLower(v.GetString("MEDIA_BACKEND")),
			UploadDir:          v.GetString("MEDIA_UPLOAD_DIR"),
			GCSBucket:          v.GetString("MEDIA_GCS_BUCKET"),
			GCSCredentialsFile: v.GetString("MEDIA_GCS_CREDENTIALS_FILE"),
			MaxSizeMB:          v.GetInt("MEDIA_MAX_SIZE_MB"),
		},
		IBGE: IBGEConfig{
			BaseURL:        strings.TrimRight(v.GetString("IBGE_BASE_URL"), "/"),
			RequestTimeout: time.Duration(v.GetInt("IBGE_REQUEST_TIMEOUT")) * time.Second,
		},
		Events: EventsConfig{
			Enabled: v.GetBool("EVENTS_ENABLED"),
			Stream:  v.GetString("EVENTS_STREAM"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 3333)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_REQUEST_TIMEOUT", 10)
	v.SetDefault("API_BODY_LIMIT_MB", 8)
	v.SetDefault("API_ALLOW_ORIGINS", "http://localhost:3000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("CACHE_POINT_TTL", 3600)
	v.SetDefault("CACHE_LOCALITY_TTL", 86400)

	v.SetDefault("MEDIA_BASE_URL", "http://localhost:3333")
	v.SetDefault("MEDIA_BACKEND", MediaBackendLocal)
	v.SetDefault("MEDIA_UPLOAD_DIR", "./uploads")
	v.SetDefault("MEDIA_MAX_SIZE_MB", 5)

	v.SetDefault("IBGE_BASE_URL", "https://servicodados.ibge.gov.br/api/v1/localidades")
	v.SetDefault("IBGE_REQUEST_TIMEOUT", 10)

	v.SetDefault("EVENTS_ENABLED", true)
	v.SetDefault("EVENTS_STREAM", "stream:points:created")

	v.SetDefault("LOG_LEVEL", "info")
}

func (c *Config) validate() error {
	switch c.Media.Backend {
	case MediaBackendLocal:
		if c.Media.UploadDir == "" {
			return fmt.Errorf("MEDIA_UPLOAD_DIR is required for local media backend")
		}
	case MediaBackendGCS:
		if c.Media.GCSBucket == "" {
			return fmt.Errorf("MEDIA_GCS_BUCKET is required for gcs media backend")
		}
	default:
		return fmt.Errorf("unknown MEDIA_BACKEND %q", c.Media.Backend)
	}

	if c.Media.BaseURL == "" {
		return fmt.Errorf("MEDIA_BASE_URL is required")
	}

	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
