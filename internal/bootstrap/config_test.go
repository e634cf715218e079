package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearskies/climatewatch/config"
)

func validHTTPConfig() *config.AppConfig {
	cfg := &config.AppConfig{Services: "http"}
	cfg.Agent.BaseURL = "http://agent.local/api"
	cfg.Payment.URL = "http://payments.local/purchase"
	cfg.Payment.APIKey = "key"
	return cfg
}

func TestValidateServiceConfig(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		assert.Error(t, ValidateServiceConfig(nil))
	})

	t.Run("valid http config", func(t *testing.T) {
		assert.NoError(t, ValidateServiceConfig(validHTTPConfig()))
	})

	t.Run("http requires agent url", func(t *testing.T) {
		cfg := validHTTPConfig()
		cfg.Agent.BaseURL = ""
		err := ValidateServiceConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AGENT_BASE_URL")
	})

	t.Run("http requires payment credentials", func(t *testing.T) {
		cfg := validHTTPConfig()
		cfg.Payment.APIKey = ""
		assert.Error(t, ValidateServiceConfig(cfg))
	})

	t.Run("reaper alone needs no endpoints", func(t *testing.T) {
		cfg := &config.AppConfig{Services: "reaper"}
		assert.NoError(t, ValidateServiceConfig(cfg))
	})

	t.Run("unknown service", func(t *testing.T) {
		cfg := &config.AppConfig{Services: "mystery"}
		assert.Error(t, ValidateServiceConfig(cfg))
	})
}

func TestGetEnabledServices(t *testing.T) {
	assert.Empty(t, GetEnabledServices(nil))
	assert.Empty(t, GetEnabledServices(&config.AppConfig{Services: "bogus"}))
	assert.ElementsMatch(t, []string{"http", "reaper"},
		GetEnabledServices(&config.AppConfig{Services: "http,reaper"}))
}
