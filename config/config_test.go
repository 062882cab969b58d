package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "chef")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("INGEST_WORKERS", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "5433", cfg.Database.Port)
	assert.Equal(t, "chef", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "catalog", cfg.Database.Name)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2, cfg.Ingest.Workers)
	assert.Equal(t, "host=db port=5433 user=chef password=secret dbname=catalog sslmode=disable", cfg.Database.DSN())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"DB_DRIVER", "SERVER_PORT", "LLM_TIMEOUT", "INGEST_WORKERS", "LLM_API_KEY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.ExtractionTTL)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.LLM.BaseURL)
	assert.Empty(t, cfg.LLM.VisionModel)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "llm_api_key"), []byte("sk-test\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "db_password"), []byte("from-secret"), 0o600))

	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("DB_PASSWORD", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "from-secret", cfg.Database.Password)
}

func validConfig() *Config {
	return &Config{
		Environment: Development,
		Server:      ServerConfig{Port: "8080"},
		Database:    DatabaseConfig{Driver: "sqlite"},
		LLM:         LLMConfig{Timeout: time.Second},
		Ingest:      IngestConfig{Workers: 1},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid development config"},
		{
			name:    "non numeric port",
			mutate:  func(c *Config) { c.Server.Port = "http" },
			wantErr: "server.port: must be numeric",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: "database.driver: must be sqlite or postgres",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Ingest.Workers = 0 },
			wantErr: "ingest.workers: must be at least 1",
		},
		{
			name:    "storage without bucket",
			mutate:  func(c *Config) { c.Storage.Enabled = true },
			wantErr: "storage.bucket: is required when storage is enabled",
		},
		{
			name:    "storage without vision model",
			mutate:  func(c *Config) { c.Storage = StorageConfig{Enabled: true, Bucket: "uploads"} },
			wantErr: "llm.vision_model: is required when image uploads are archived",
		},
		{
			name: "storage with vision model",
			mutate: func(c *Config) {
				c.Storage = StorageConfig{Enabled: true, Bucket: "uploads"}
				c.LLM.VisionModel = "gpt-4o-mini"
			},
		},
		{
			name:    "production requires postgres and secrets",
			mutate:  func(c *Config) { c.Environment = Production },
			wantErr: "llm.api_key: llm_api_key secret is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
