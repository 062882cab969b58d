package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment    `mapstructure:"-"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	LLM         LLMConfig      `mapstructure:"llm"`
	Storage     StorageConfig  `mapstructure:"storage"`
	Ingest      IngestConfig   `mapstructure:"ingest"`
	Log         LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects and configures the catalog database
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"ssl_mode"`
	SQLitePath string `mapstructure:"sqlite_path"`
	Migrations string `mapstructure:"migrations"`
}

// RedisConfig configures the extraction cache
type RedisConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	Host          string        `mapstructure:"host"`
	Port          string        `mapstructure:"port"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	ExtractionTTL time.Duration `mapstructure:"extraction_ttl"`
}

// LLMConfig configures the chat-completions provider used for extraction and OCR
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	VisionModel string        `mapstructure:"vision_model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// StorageConfig configures the S3 image archive
type StorageConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
	Prefix       string `mapstructure:"prefix"`
}

// IngestConfig configures the batch ingestion commands
type IngestConfig struct {
	Workers int `mapstructure:"workers"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DSN returns the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection URL used by the lib/pq migrator
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Address returns the host:port the server listens on
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}

// LoadConfig reads configuration from defaults, an optional .env file, environment variables
// and Docker secrets, then validates it for the current environment.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments use the environment and secrets
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	cfg := &Config{Environment: GetEnvironment()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loadSecrets(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://frontend:5173"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "recipes")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.sqlite_path", "recipes.db")
	v.SetDefault("database.migrations", "migrations")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.extraction_ttl", "24h")

	v.SetDefault("llm.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("llm.model", "deepseek-chat")
	v.SetDefault("llm.vision_model", "")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.timeout", "30s")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.bucket", "recipe-uploads")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.prefix", "recipes/uploads")

	v.SetDefault("ingest.workers", 4)

	v.SetDefault("log.level", "info")
}

// bindEnv maps the flat variable names used in deployment manifests onto config keys
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("database.driver", "DB_DRIVER")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.ssl_mode", "DB_SSL_MODE")
	_ = v.BindEnv("database.sqlite_path", "SQLITE_PATH")
	_ = v.BindEnv("redis.enabled", "REDIS_ENABLED")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.extraction_ttl", "EXTRACTION_CACHE_TTL")
	_ = v.BindEnv("llm.api_key", "LLM_API_KEY")
	_ = v.BindEnv("llm.base_url", "LLM_BASE_URL")
	_ = v.BindEnv("llm.model", "LLM_MODEL")
	_ = v.BindEnv("llm.vision_model", "LLM_VISION_MODEL")
	_ = v.BindEnv("llm.timeout", "LLM_TIMEOUT")
	_ = v.BindEnv("storage.enabled", "STORAGE_ENABLED")
	_ = v.BindEnv("storage.bucket", "STORAGE_BUCKET")
	_ = v.BindEnv("storage.region", "AWS_REGION")
	_ = v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	_ = v.BindEnv("storage.use_path_style", "STORAGE_USE_PATH_STYLE")
	_ = v.BindEnv("ingest.workers", "INGEST_WORKERS")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

// loadSecrets fills sensitive values from Docker secrets when the environment left them empty
func loadSecrets(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = readSecret("llm_api_key")
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = readSecret("db_password")
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = readSecret("redis_password")
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
