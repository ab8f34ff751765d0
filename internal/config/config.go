package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Wealth"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Currency string `envconfig:"LEDGER_CURRENCY" default:"USD"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Ledger struct {
		SeedDemo         bool `envconfig:"LEDGER_SEED_DEMO" default:"false"`
		RejectOrphans    bool `envconfig:"LEDGER_REJECT_ORPHANS" default:"false"`
		ReconcileUpdates bool `envconfig:"LEDGER_RECONCILE_UPDATES" default:"false"`
	}

	Receipt struct {
		ScanDelay       time.Duration `envconfig:"RECEIPT_SCAN_DELAY" default:"2s"`
		AnthropicAPIKey string        `envconfig:"ANTHROPIC_API_KEY"`
		AnthropicModel  string        `envconfig:"ANTHROPIC_MODEL" default:"claude-3-haiku-20240307"`
	}

	// Events go to the log only unless an AMQP URL is set.
	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"ledger.events"`
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
