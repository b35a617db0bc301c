package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Session     SessionConfig
	Redis       RedisConfig
	Storage     StorageConfig
	Tracing     TracingConfig `mapstructure:"tracing"`
	AI          AIConfig
	Auth        AuthConfig
	CollegeData CollegeDataConfig `mapstructure:"college_data"`
	Scrape      ScrapeConfig
	Log         LogConfig
	CORS        CORSConfig      `mapstructure:"cors"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`

	// path of the file actually loaded, empty when running on defaults
	File string `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port         string
	Mode         string
	TemplatesDir string `mapstructure:"templates_dir"`
	AssetsDir    string `mapstructure:"assets_dir"`
}

type DatabaseConfig struct {
	Path string
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type SessionConfig struct {
	Driver string `mapstructure:"driver"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// AIConfig covers both providers of the fallback chain. Gemini is tried first,
// then any OpenAI-compatible chat completions endpoint.
type AIConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	// raw ALLOW_EXTERNAL_QUERIES value; empty means unset
	AllowExternalQueries string `mapstructure:"allow_external_queries"`
	MaxAnswerChars       int    `mapstructure:"max_answer_chars"`
}

type AuthConfig struct {
	AdminEmails          []string `mapstructure:"admin_emails"`
	StaffDomain          string   `mapstructure:"staff_domain"`
	DefaultAdminName     string   `mapstructure:"default_admin_name"`
	DefaultAdminPassword string   `mapstructure:"default_admin_password"`
}

type CollegeDataConfig struct {
	Dir       string `mapstructure:"dir"`
	SiteIndex bool   `mapstructure:"site_index"`
}

type ScrapeConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout_seconds"`
	MaxPages int           `mapstructure:"max_pages"`
	MaxChars int           `mapstructure:"max_chars"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"` // empty follows server.mode
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5502")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.templates_dir", "templates")
	v.SetDefault("server.assets_dir", "assets")

	v.SetDefault("database.path", "data/mmec.db")

	v.SetDefault("jwt.secret", "change-me-in-production-min-32-chars")
	v.SetDefault("jwt.expire_hours", 24)

	v.SetDefault("session.driver", "memory")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("storage.type", "local")

	v.SetDefault("ai.gemini_model", "gemini-2.0-flash")
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-3.5-turbo")
	v.SetDefault("ai.max_answer_chars", 400)

	v.SetDefault("auth.admin_emails", []string{"admin@mmec.edu"})
	v.SetDefault("auth.staff_domain", "@mmec.edu")
	v.SetDefault("auth.default_admin_name", "Administrator")
	v.SetDefault("auth.default_admin_password", "Admin@123")

	v.SetDefault("college_data.dir", "data/college_info")
	v.SetDefault("college_data.site_index", false)

	v.SetDefault("scrape.enabled", true)
	v.SetDefault("scrape.base_url", "https://www.mmec.edu.in")
	v.SetDefault("scrape.timeout_seconds", 10)
	v.SetDefault("scrape.max_pages", 3)
	v.SetDefault("scrape.max_chars", 2000)

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

// LoadConfig reads config.yaml from path. A missing file is not an error:
// defaults and environment variables are enough to run.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CHATBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Database
	v.BindEnv("database.path", "DATABASE_PATH")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Session / Redis
	v.BindEnv("session.driver", "SESSION_DRIVER")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// AI
	v.BindEnv("ai.gemini_api_key", "GEMINI_API_KEY")
	v.BindEnv("ai.api_key", "OPENAI_API_KEY")
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.model", "AI_MODEL")
	v.BindEnv("ai.allow_external_queries", "ALLOW_EXTERNAL_QUERIES")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")

	// Logging
	v.BindEnv("log.level", "LOG_LEVEL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.Scrape.Timeout = cfg.Scrape.Timeout * time.Second

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.CollegeData.Dir != "" {
		if _, err := os.Stat(cfg.CollegeData.Dir); os.IsNotExist(err) {
			os.MkdirAll(cfg.CollegeData.Dir, 0755)
		}
	}

	return &cfg, nil
}

// IsAdmin reports whether email belongs to the configured admin list.
func (c *AuthConfig) IsAdmin(email string) bool {
	for _, a := range c.AdminEmails {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}

// ExternalOverride returns the ALLOW_EXTERNAL_QUERIES override and whether it was set.
func (c *AIConfig) ExternalOverride() (allowed bool, set bool) {
	raw := strings.TrimSpace(c.AllowExternalQueries)
	if raw == "" {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true, true
	}
	return false, true
}
