package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/fincompar/fincompar/internal/common"
	"github.com/fincompar/fincompar/internal/pluggy"
)

// LoadPluggyConfig loads Pluggy credentials from Viper and environment
// variables. Precedence:
// 1. Viper configuration (from config file or FINCOMPAR_ env vars)
// 2. Direct environment variables (PLUGGY_*)
func LoadPluggyConfig() (*pluggy.Config, error) {
	cfg := &pluggy.Config{
		ClientID:     viper.GetString("pluggy.client_id"),
		ClientSecret: viper.GetString("pluggy.client_secret"),
		BaseURL:      viper.GetString("pluggy.base_url"),
	}

	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("PLUGGY_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("PLUGGY_CLIENT_SECRET")
	}

	if err := cfg.Validate(); err != nil {
		return nil, common.NewUserError(
			"Pluggy credentials are missing. Set pluggy.client_id and pluggy.client_secret in your config file, or export PLUGGY_CLIENT_ID and PLUGGY_CLIENT_SECRET.",
			err)
	}

	return cfg, nil
}

// LoadGeminiAPIKey loads the Gemini API key from Viper or the environment.
// Returns an empty string when unset; AI features degrade gracefully.
func LoadGeminiAPIKey() string {
	if v := viper.GetString("gemini.api_key"); v != "" {
		return v
	}
	return os.Getenv("GEMINI_API_KEY")
}
