package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requirement checks one field of the configuration
type requirement struct {
	field string
	check func(*Config) string
}

var (
	common = []requirement{
		{"server.port", func(c *Config) string {
			if _, err := strconv.Atoi(c.Server.Port); err != nil {
				return "must be numeric"
			}
			return ""
		}},
		{"database.driver", func(c *Config) string {
			if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
				return "must be sqlite or postgres"
			}
			return ""
		}},
		{"ingest.workers", func(c *Config) string {
			if c.Ingest.Workers < 1 {
				return "must be at least 1"
			}
			return ""
		}},
		{"llm.timeout", func(c *Config) string {
			if c.LLM.Timeout <= 0 {
				return "must be positive"
			}
			return ""
		}},
		{"storage.bucket", func(c *Config) string {
			if c.Storage.Enabled && c.Storage.Bucket == "" {
				return "is required when storage is enabled"
			}
			return ""
		}},
		{"llm.vision_model", func(c *Config) string {
			if c.Storage.Enabled && c.LLM.VisionModel == "" {
				return "is required when image uploads are archived"
			}
			return ""
		}},
	}

	// Environment-specific requirements
	requirements = map[Environment][]requirement{
		Production: {
			{"database.driver", func(c *Config) string {
				if c.Database.Driver != "postgres" {
					return "production requires postgres"
				}
				return ""
			}},
			{"database.password", func(c *Config) string {
				if c.Database.Password == "" {
					return "db_password secret is required"
				}
				return ""
			}},
			{"llm.api_key", func(c *Config) string {
				if c.LLM.APIKey == "" {
					return "llm_api_key secret is required"
				}
				return ""
			}},
		},
		CI: {
			{"database.password", func(c *Config) string {
				if c.Database.Driver == "postgres" && c.Database.Password == "" {
					return "DB_PASSWORD environment variable is required in CI environment"
				}
				return ""
			}},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errors []string

	checks := append([]requirement{}, common...)
	checks = append(checks, requirements[cfg.Environment]...)
	for _, req := range checks {
		if msg := req.check(cfg); msg != "" {
			errors = append(errors, ValidationError{Field: req.field, Message: msg}.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
