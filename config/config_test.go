package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[ServiceMode]bool
		wantErr bool
	}{
		{
			name:  "single service",
			input: "http",
			want:  map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:  "multiple services",
			input: "http,reaper",
			want:  map[ServiceMode]bool{ServiceModeHTTP: true, ServiceModeReaper: true},
		},
		{
			name:  "whitespace tolerated",
			input: " http , reaper ",
			want:  map[ServiceMode]bool{ServiceModeHTTP: true, ServiceModeReaper: true},
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "invalid service",
			input:   "http,bogus",
			wantErr: true,
		},
		{
			name:    "only commas",
			input:   ",,",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServices(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonitorConfigSanitize(t *testing.T) {
	cfg := MonitorConfig{PollInterval: 0, MaxPollAttempts: 0, StartLockTTL: -time.Second}
	cfg.Sanitize()
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 1, cfg.MaxPollAttempts)
	assert.Equal(t, 30*time.Second, cfg.StartLockTTL)
	assert.Equal(t, time.Minute, cfg.SessionRetention)
}

func TestPaymentConfigSanitize(t *testing.T) {
	cfg := PaymentConfig{Network: "  "}
	cfg.Sanitize()
	assert.Equal(t, "Preprod", cfg.Network)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestReaperConfigSanitize(t *testing.T) {
	cfg := ReaperConfig{Interval: time.Second, BatchSize: 0}
	cfg.Sanitize()
	assert.Equal(t, 10*time.Second, cfg.Interval)
	assert.Equal(t, 1, cfg.BatchSize)
}

func TestObservabilityMetricsSanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "  "}
	cfg.Sanitize()
	assert.False(t, cfg.IsEnabled())

	cfg = ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "127.0.0.1:8125"}
	cfg.Sanitize()
	assert.True(t, cfg.IsEnabled())
}

func TestAppConfigServiceHelpers(t *testing.T) {
	cfg := AppConfig{Services: "http,reaper"}
	assert.True(t, cfg.IsHTTPServerEnabled())
	assert.True(t, cfg.IsReaperEnabled())

	cfg.Services = "reaper"
	assert.False(t, cfg.IsHTTPServerEnabled())

	cfg.Services = "bogus"
	assert.False(t, cfg.IsHTTPServerEnabled())
	assert.False(t, cfg.IsReaperEnabled())
}
