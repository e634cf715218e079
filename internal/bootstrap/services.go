package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/clearskies/climatewatch/config"
	"github.com/clearskies/climatewatch/internal/adapters/masumi"
	"github.com/clearskies/climatewatch/internal/data"
	"github.com/clearskies/climatewatch/internal/observability/statsd"
	"github.com/clearskies/climatewatch/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Monitor  *service.MonitorService
	Sessions *service.SessionService
	Reaper   *service.ReaperService
	Jobs     *data.MonitoringJobRepo
	Cache    *data.RedisCacheRepo

	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// buildObservability configures the metrics sink.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.StatsdAddress,
			Prefix:  "climatewatch",
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg,
	}
}

// NewServices wires repositories, external clients, and services.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps with config are required")
	}
	cfg := deps.Config

	observability := buildObservability(deps.Logger, cfg.Observability.Metrics)

	jobRepo := data.NewMonitoringJobRepo(deps.DB)
	var cacheRepo *data.RedisCacheRepo
	if deps.RedisClient != nil {
		cacheRepo = data.NewRedisCacheRepo(deps.RedisClient)
	}

	// The monitor stack talks to the agent and payment service, so it only
	// exists when the HTTP surface is enabled. Reaper-only deployments don't
	// need either endpoint configured.
	var (
		monitor  *service.MonitorService
		sessions *service.SessionService
	)
	if cfg.IsHTTPServerEnabled() {
		agentClient, err := masumi.NewAgentClient(masumi.AgentConfig{
			BaseURL: cfg.Agent.BaseURL,
			Timeout: cfg.Agent.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("build agent client: %w", err)
		}

		paymentClient, err := masumi.NewPaymentClient(masumi.PaymentConfig{
			URL:     cfg.Payment.URL,
			APIKey:  cfg.Payment.APIKey,
			Timeout: cfg.Payment.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("build payment client: %w", err)
		}

		monitorOpts := service.MonitorServiceOptions{
			Jobs:     jobRepo,
			Agent:    agentClient,
			Payments: paymentClient,
			Config:   cfg.Monitor,
			Network:  cfg.Payment.Network,
			Logger:   deps.Logger,
		}
		if cacheRepo != nil {
			monitorOpts.Cache = cacheRepo
		}
		if observability.MetricsSink != nil {
			monitorOpts.Metrics = observability.MetricsSink
		}
		monitor, err = service.NewMonitorService(monitorOpts)
		if err != nil {
			return nil, fmt.Errorf("build monitor service: %w", err)
		}

		sessionOpts := service.SessionServiceOptions{
			Monitor: monitor,
			Config:  cfg.Monitor,
			Logger:  deps.Logger,
		}
		if cacheRepo != nil {
			sessionOpts.Cache = cacheRepo
		}
		sessions, err = service.NewSessionService(sessionOpts)
		if err != nil {
			return nil, fmt.Errorf("build session service: %w", err)
		}
	}

	reaperOpts := service.ReaperServiceOptions{
		Repo:   jobRepo,
		Config: cfg.Reaper,
		Logger: deps.Logger,
	}
	if observability.MetricsSink != nil {
		reaperOpts.Metrics = observability.MetricsSink
	}
	reaper, err := service.NewReaperService(reaperOpts)
	if err != nil {
		return nil, fmt.Errorf("build reaper service: %w", err)
	}

	return &ServiceContainer{
		Monitor:       monitor,
		Sessions:      sessions,
		Reaper:        reaper,
		Jobs:          jobRepo,
		Cache:         cacheRepo,
		Observability: observability,
	}, nil
}

// ServiceOrchestrationConfig groups dependencies for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their
// lifecycle. It blocks until a shutdown signal is received or a service
// fails, then stops everything gracefully.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		// The session registry runs wherever the HTTP surface runs.
		g.Go(func() error {
			return cfg.Services.Sessions.Run(gctx)
		})
		g.Go(func() error {
			return runHTTPServer(gctx, cfg, logger)
		})
	}

	if enabled[config.ServiceModeReaper] {
		g.Go(func() error {
			return cfg.Services.Reaper.Run(gctx)
		})
	}

	logger.Info("services started", "enabled", GetEnabledServices(cfg.Config))

	err = g.Wait()
	if cfg.Services.Observability.MetricsSink != nil {
		if cerr := cfg.Services.Observability.MetricsSink.Close(); cerr != nil {
			logger.Error("close metrics sink failed", "error", cerr)
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("services stopped")
	return nil
}
