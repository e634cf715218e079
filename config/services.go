package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeReaper runs the record reaper for cleanup.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeReaper}
}

// ParseServices parses a comma-delimited string of service names and returns
// the enabled services. It validates that all service names are valid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeReaper:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, reaper)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}
	return services, nil
}

// MonitorConfig contains monitoring session orchestration configuration.
type MonitorConfig struct {
	// PollInterval is the delay between agent status polls.
	PollInterval time.Duration `env:"MONITOR_POLL_INTERVAL" envDefault:"60s"`

	// MaxPollAttempts is the polling ceiling before a session times out.
	MaxPollAttempts int `env:"MONITOR_MAX_POLL_ATTEMPTS" envDefault:"60"`

	// StartLockTTL is how long the duplicate-start dedupe lock is held for
	// an identifier while a session is being created.
	StartLockTTL time.Duration `env:"MONITOR_START_LOCK_TTL" envDefault:"30s"`

	// SessionRetention is how long finished in-memory sessions remain
	// queryable before the registry drops them. Sessions abandoned
	// mid-flight (unpaid, never confirmed) are cancelled and dropped
	// once idle past the same window.
	SessionRetention time.Duration `env:"MONITOR_SESSION_RETENTION" envDefault:"1h"`
}

// Sanitize applies guardrails to monitor configuration values.
func (m *MonitorConfig) Sanitize() {
	if m.PollInterval < time.Second {
		m.PollInterval = time.Second
	}
	if m.MaxPollAttempts < 1 {
		m.MaxPollAttempts = 1
	}
	if m.StartLockTTL <= 0 {
		m.StartLockTTL = 30 * time.Second
	}
	if m.SessionRetention < time.Minute {
		m.SessionRetention = time.Minute
	}
}

// AgentConfig contains the remote processing agent endpoint configuration.
type AgentConfig struct {
	// BaseURL is the agent's API base URL (start_job and status live under it).
	BaseURL string `env:"AGENT_BASE_URL"`

	// Timeout bounds each HTTP call to the agent.
	Timeout time.Duration `env:"AGENT_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to agent configuration values.
func (a *AgentConfig) Sanitize() {
	a.BaseURL = strings.TrimSpace(a.BaseURL)
	if a.Timeout <= 0 {
		a.Timeout = 30 * time.Second
	}
}

// PaymentConfig contains the Masumi payment service configuration.
type PaymentConfig struct {
	// URL is the payment purchase endpoint.
	URL string `env:"MASUMI_PAYMENT_URL"`

	// APIKey authenticates against the payment service. Never logged.
	APIKey string `env:"MASUMI_API_KEY"`

	// Network is the Cardano network passed on every purchase.
	Network string `env:"MASUMI_NETWORK" envDefault:"Preprod"`

	// Timeout bounds each HTTP call to the payment service.
	Timeout time.Duration `env:"MASUMI_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to payment configuration values.
func (p *PaymentConfig) Sanitize() {
	p.URL = strings.TrimSpace(p.URL)
	p.Network = strings.TrimSpace(p.Network)
	if p.Network == "" {
		p.Network = "Preprod"
	}
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}
}

// ReaperConfig contains record cleanup configuration.
type ReaperConfig struct {
	// Interval is how often cleanup passes run.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"5m"`

	// CompletedMaxAge is how long completed records are kept.
	CompletedMaxAge time.Duration `env:"REAPER_COMPLETED_MAX_AGE" envDefault:"720h"`

	// FailedMaxAge is how long failed records are kept.
	FailedMaxAge time.Duration `env:"REAPER_FAILED_MAX_AGE" envDefault:"168h"`

	// BatchSize is the maximum rows touched per cleanup statement.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"100"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	if r.Interval < 10*time.Second {
		r.Interval = 10 * time.Second
	}
	if r.CompletedMaxAge < time.Hour {
		r.CompletedMaxAge = time.Hour
	}
	if r.FailedMaxAge < time.Hour {
		r.FailedMaxAge = time.Hour
	}
	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
}
