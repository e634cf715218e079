package httpx

import "net/http"

// healthStatus is the liveness payload. Network and Modes identify the
// deployment when the router is configured with them.
type healthStatus struct {
	Status  string   `json:"status"`
	Network string   `json:"network,omitempty"`
	Modes   []string `json:"modes,omitempty"`
}

// healthHandler reports liveness plus the Cardano network and enabled
// service modes, so operators can tell deployments apart at a glance.
func healthHandler(network string, modes []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		WriteJSON(w, http.StatusOK, healthStatus{Status: "ok", Network: network, Modes: modes})
	}
}
