package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"agent-router/internal/app"
	"agent-router/internal/availability"
	"agent-router/internal/config"
	"agent-router/internal/conversation"
	"agent-router/internal/httputil"
	"agent-router/internal/reply"
	"agent-router/internal/retry"
)

const (
	shutdownTimeout = 10 * time.Second

	// Longest responder path: three bounded external calls.
	responderCalls = 3
	budgetSlack    = 5 * time.Second
)

//go:embed index.html
var indexPage []byte

type queryRequest struct {
	Query string `json:"query" validate:"required,notblank"`
}

type queryResponse struct {
	Query    string     `json:"query"`
	Response string     `json:"response"`
	Code     reply.Code `json:"code"`
}

type processor interface {
	Process(ctx context.Context, query string) reply.Reply
}

type historySource interface {
	Snapshot() []conversation.Turn
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			deps.Log.Warn("failed to close dependencies", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := newRouter(deps.Log, deps.Dispatcher, deps.History, deps.Components, requestBudget(deps.Config))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("router listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		deps.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("router stopped", "err", err)
	}
}

func newRouter(log *slog.Logger, p processor, h historySource, components map[string]availability.Status, timeout time.Duration) chi.Router {
	r := httputil.NewRouter(log, timeout)
	r.Get("/", indexHandler(log))
	r.Post("/query", queryHandler(log, p))
	r.Get("/history", historyHandler(h))
	r.Get("/healthz", httputil.HealthHandler(log))
	r.Get("/readyz", httputil.ReadyHandler(components))
	return r
}

// requestBudget bounds one query: every classification attempt with its
// backoff, then the longest responder path.
func requestBudget(cfg config.Config) time.Duration {
	p := retry.Policy{MaxAttempts: cfg.ClassifyMaxAttempts, Base: cfg.ClassifyBackoff}
	calls := p.Attempts() + responderCalls
	return time.Duration(calls)*cfg.ExternalTimeout + p.TotalDelay() + budgetSlack
}

func indexHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(indexPage); err != nil {
			log.Warn("index page write failed", "err", err)
		}
	}
}

func queryHandler(log *slog.Logger, p processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(log, w, err)
			return
		}

		res := p.Process(r.Context(), req.Query)
		if res.Succeeded() {
			log.Info("query answered", "code", res.Code)
		} else {
			log.Warn("query not answered", "code", res.Code)
		}
		httputil.WriteJSON(w, http.StatusOK, queryResponse{
			Query:    req.Query,
			Response: res.Text,
			Code:     res.Code,
		})
	}
}

func historyHandler(h historySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"turns": h.Snapshot()})
	}
}
