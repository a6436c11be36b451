package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	AI        AIConfig
	WhatsApp  WhatsAppConfig  `mapstructure:"whatsapp"`
	Content   ContentConfig   `mapstructure:"content"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
	Seed         bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// AppConfig 业务相关的全局设置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Timezone string `mapstructure:"timezone"`
}

// Location 返回用于计算学习连续天数的时区，解析失败时回退到本地时区
func (a AppConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

type AIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	MaxTokens      int    `mapstructure:"max_tokens"`
	Temperature    float64
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

func (a AIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type WhatsAppConfig struct {
	APIBaseURL         string `mapstructure:"api_base_url"`
	AccessToken        string `mapstructure:"access_token"`
	PhoneNumberID      string `mapstructure:"phone_number_id"`
	WebhookVerifyToken string `mapstructure:"webhook_verify_token"`
	DisplayNumber      string `mapstructure:"display_number"`
}

type ContentConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

func (c ContentConfig) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	SSLMode   string `mapstructure:"sslmode"`
	Charset   string
	ParseTime bool
	Path      string // sqlite 文件路径
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("app.name", "tutalearn")
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.charset", "utf8mb4")
	viper.SetDefault("database.parsetime", true)
	viper.SetDefault("database.path", "data/tutalearn.db")
	viper.SetDefault("jwt.expire_hours", 24)
	viper.SetDefault("ai.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("ai.model", "llama-3.1-70b-versatile")
	viper.SetDefault("ai.max_tokens", 500)
	viper.SetDefault("ai.temperature", 0.7)
	viper.SetDefault("ai.timeout_seconds", 30)
	viper.SetDefault("whatsapp.api_base_url", "https://graph.facebook.com/v18.0")
	viper.SetDefault("whatsapp.webhook_verify_token", "tutalearn_webhook_verify")
	viper.SetDefault("content.cache_ttl_seconds", 300)
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local_path", "uploads")
	viper.SetDefault("rate_limit.max_requests", 600)
	viper.SetDefault("rate_limit.window_minutes", 1)
	viper.SetDefault("log.file", "logs/tutalearn.log")
}

func LoadConfig(path string) (*Config, error) {
	// .env 文件可选
	_ = godotenv.Load()

	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("TUTALEARN")
	viper.AutomaticEnv()
	setDefaults()

	// Database
	viper.BindEnv("database.driver", "DATABASE_DRIVER")
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")
	viper.BindEnv("server.port", "PORT")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY", "GROQ_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// WhatsApp
	viper.BindEnv("whatsapp.access_token", "WHATSAPP_ACCESS_TOKEN")
	viper.BindEnv("whatsapp.phone_number_id", "WHATSAPP_PHONE_NUMBER_ID")
	viper.BindEnv("whatsapp.webhook_verify_token", "WHATSAPP_WEBHOOK_VERIFY_TOKEN")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Log
	viper.BindEnv("log.level", "LOG_LEVEL")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
