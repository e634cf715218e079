package httpx

import (
	"log/slog"
	"net/http"

	"github.com/clearskies/climatewatch/internal/core"
	"github.com/clearskies/climatewatch/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions *service.SessionService
	Jobs     core.MonitoringJobRepository
	Logger   *slog.Logger // Logger for request logging and panic recovery (optional)
	Network  string       // Cardano network reported by the health endpoint (optional)
	Modes    []string     // Enabled service modes reported by the health endpoint (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	registerSessionRoutes(mux, &SessionHandlers{Svc: services.Sessions})
	registerJobRoutes(mux, &JobHandlers{Repo: services.Jobs})
	health := healthHandler(services.Network, services.Modes)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)

	var handler http.Handler = mux
	if services.Logger != nil {
		handler = Logging(services.Logger)(handler)
	}
	// RequestID sits outside Logging so the log line carries the id.
	handler = RequestID()(handler)
	if services.Logger != nil {
		handler = Recover(services.Logger)(handler)
	}
	return handler
}
