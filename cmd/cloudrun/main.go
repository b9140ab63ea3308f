package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/fetcher"
	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/service"
)

// Cloud Run allows 5 minutes per request; stay under it
var cloudRunTimeouts = service.TimeoutPolicy{
	Default: 2 * time.Minute,
	Min:     time.Second,
	Max:     4 * time.Minute,
}

// CloudRunHandler handles Google Cloud Run requests
type CloudRunHandler struct {
	service *service.Service
	logger  logging.Logger
}

func NewCloudRunHandler(svc *service.Service, logger logging.Logger) *CloudRunHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &CloudRunHandler{service: svc, logger: logger}
}

// ServeHTTP is the main Cloud Run handler function
func (h *CloudRunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for k, v := range service.CORSHeaders {
		w.Header().Set(k, v)
	}

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		h.write(w, service.Response{
			Status: http.StatusMethodNotAllowed,
			Body:   map[string]string{"error": "Method not allowed"},
		})
		return
	}

	h.logger.Debug("request received", "method", r.Method, "url", r.URL.String())

	q := r.URL.Query()
	h.write(w, h.service.Handle(r.Context(), service.Query{
		URL:       q.Get("url"),
		Format:    q.Get("format"),
		TimeoutMs: q.Get("timeout"),
	}))
}

func (h *CloudRunHandler) write(w http.ResponseWriter, resp service.Response) {
	w.WriteHeader(resp.Status)
	if err := json.NewEncoder(w).Encode(resp.Body); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func main() {
	logCfg := config.DefaultLogConfig()
	provider, err := logging.NewProvider(logging.Config{Level: logCfg.Level, Format: logCfg.Format})
	if err != nil {
		panic(err)
	}
	logger := provider.GetLogger("cloudrun")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetchCfg := config.DefaultFetchConfig()
	chain, err := fetcher.NewDefault(ctx, fetchCfg, provider.GetLogger("fetcher"))
	if err != nil {
		logger.Error("failed to set up fetchers", "error", err)
		os.Exit(1)
	}

	svc := service.New(chain, config.DefaultConvertConfig(), cloudRunTimeouts, provider.GetLogger("service"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()
	mux.Handle("/", NewCloudRunHandler(svc, logger))
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cloudRunTimeouts.Max + 30*time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("starting server", "port", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
