package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Pricematch"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pricematch"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"120s"`
	}

	Embedding struct {
		BaseURL     string `envconfig:"EMBED_BASE_URL" default:"https://api.cohere.com"`
		APIKey      string `envconfig:"EMBED_API_KEY"`
		Model       string `envconfig:"EMBED_MODEL" default:"embed-v4.0"`
		Dimension   int    `envconfig:"EMBED_DIMENSION" default:"1536"`
		BatchSize   int    `envconfig:"EMBED_BATCH_SIZE" default:"96"`
		Concurrency int    `envconfig:"EMBED_CONCURRENCY" default:"4"`
	}

	Match struct {
		FallbackEnabled   bool    `envconfig:"MATCH_FALLBACK_ENABLED" default:"true"`
		FallbackThreshold float64 `envconfig:"MATCH_FALLBACK_THRESHOLD" default:"0.4"`
		FallbackTopK      int     `envconfig:"MATCH_FALLBACK_TOP_K" default:"5"`
		FallbackStrategy  string  `envconfig:"MATCH_FALLBACK_STRATEGY" default:"jaccard"`
		TaxonomyEnabled   bool    `envconfig:"MATCH_TAXONOMY_ENABLED" default:"false"`
	}

	Normalize struct {
		Profile string `envconfig:"NORMALIZE_PROFILE" default:"full"`
	}

	Auth struct {
		// Secret signs and verifies API bearer tokens. Empty disables auth.
		Secret string `envconfig:"AUTH_SECRET"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
