package bot

import (
	"context"
	"net/http"

	"tg-gatekeeper/internal/logger"
)

// HealthServer is a minimal HTTP server whose only job is answering the host
// environment's liveness probe.
type HealthServer struct {
	server *http.Server
}

// NewHealthServer creates the liveness server listening on the given port.
func NewHealthServer(listenPort string) *HealthServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Bot is running"))
	})

	return &HealthServer{
		server: &http.Server{
			Addr:    "0.0.0.0:" + listenPort,
			Handler: mux,
		},
	}
}

// Start starts the liveness server
func (hs *HealthServer) Start() error {
	logger.Infof("Starting health server on %s", hs.server.Addr)
	return hs.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (hs *HealthServer) Shutdown(ctx context.Context) error {
	return hs.server.Shutdown(ctx)
}
