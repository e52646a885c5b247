package fleetarchiver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theoremus-urban-solutions/fleet-archiver/config"
)

// StartServer wires the trigger endpoints and starts listening in the
// background. The returned server is ready for HandleGracefulShutdown.
func StartServer(cfg *config.AppConfig, runner *Runner) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleTrigger(runner))
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A trigger request runs a whole archive cycle, retries included.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server error", "error", err)
		}
	}()
	logger.Infow("server listening", "addr", addr)
	return server
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then drains the
// server. In-flight trigger cycles finish before the process exits.
func HandleGracefulShutdown(server *http.Server) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Infow("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorw("server shutdown error", "error", err)
		return
	}
	logger.Infow("server shut down")
}
