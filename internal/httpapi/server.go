// Package httpapi exposes the headless mode's status and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grandstand/vendorboard/internal/monitor"
)

// StatusFunc 返回应用侧的状态摘要, 会原样序列化进 /status 响应。
type StatusFunc func() any

// Options 组装状态服务的依赖。
type Options struct {
	Logger  *slog.Logger
	Monitor *monitor.Monitor
	Status  StatusFunc
}

// NewRouter 构建 run 模式的状态路由。
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
		chiMiddleware.Recoverer,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		payload := map[string]any{
			"ts": time.Now().UTC().Format(time.RFC3339Nano),
		}
		if opts.Status != nil {
			payload["app"] = opts.Status()
		}
		if opts.Monitor != nil {
			payload["host"] = opts.Monitor.Collect()
		}
		respondJSON(w, http.StatusOK, payload)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Serve 启动 HTTP 服务并在 ctx 取消后优雅停机。
func Serve(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("status server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
