package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// startHealthcheckServer runs the health check server in the background. A
// non-positive port disables it.
func (a *App) startHealthcheckServer() {
	port := a.config.HealthcheckPort
	if port <= 0 {
		a.logger.Debug("Health check server disabled.")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	addr := fmt.Sprintf(":%d", port)
	a.httpServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeHealthcheckServer(ctx context.Context) error {
	if a.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	a.logger.Info("🩺 Shutting down health check server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	a.httpServer = nil
	return nil
}
