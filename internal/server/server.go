package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	v1 "github.com/Xunop/book-manager/internal/api/v1"
	"github.com/Xunop/book-manager/internal/config"
	"github.com/Xunop/book-manager/internal/http/response"
	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/store"
	"github.com/Xunop/book-manager/internal/version"
)

// StartServer starts the HTTP server and shuts it down when ctx is done.
// The returned channel receives the listen error or the shutdown result.
func StartServer(ctx context.Context, store *store.Store, handler *v1.Handler) (*http.Server, <-chan error) {
	addr := config.Opts.Host
	port := config.Opts.Port
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", addr, port),
		Handler:           setupHandler(store, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, startHTTPServer(ctx, server)
}

func startHTTPServer(ctx context.Context, server *http.Server) <-chan error {
	done := make(chan error, 2)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
			done <- err
		}
	}()

	go func() {
		<-ctx.Done()
		timeout := time.Duration(config.Opts.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		log.Info("Shutting down HTTP server", zap.Duration("timeout", timeout))
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}
		done <- err
	}()
	return done
}

func setupHandler(store *store.Store, handler *v1.Handler) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(middleware)

	v1.Server(router, handler)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(); err != nil {
			log.Error("Database connection error", zap.Error(err))
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}
		response.Text(w, r, "OK")
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		response.Text(w, r, version.GetCurrentVersion())
	}).Name("version")

	if config.Opts.MetricsCollector {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("metrics")
	}

	return router
}
