package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	CourierAddr string `envconfig:"COURIER_ADDR"`
	// E2E_DEBUG_JSON allows dumping full HTTP request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours         bool   `envconfig:"E2E_COLOURS" default:"true"`
	AccountID       string `envconfig:"E2E_ACCOUNT_ID" default:"e2e-account"`
	StartingCredits int64  `envconfig:"E2E_STARTING_CREDITS" default:"20"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
