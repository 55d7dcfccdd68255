package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/http/handlers"
)

const shutdownTimeout = 30 * time.Second

func NewServer(sources Sources, metricsHandler http.Handler) *Server {
	server := &Server{
		Sources:        sources,
		MetricsHandler: metricsHandler,
		Router:         http.NewServeMux(),
		Started:        time.Now(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	if s.MetricsHandler != nil {
		s.Router.Handle("/metrics", s.MetricsHandler)
	}
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(s.Started), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /players", Chain(handlers.ListPlayersHandler(s.Sources.Players), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(handlers.ListMatchesHandler(s.Sources.Matches), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /sales", Chain(handlers.ListSalesHandler(s.Sources.Sales), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /history", Chain(handlers.HistoryHandler(s.Sources.History), requestIDMiddleware, paramsMiddleware))
	s.Router.Handle("GET /withdrawals", Chain(handlers.ListWithdrawalsHandler(s.Sources.Withdrawals), requestIDMiddleware, paramsMiddleware))
	if s.Sources.Journal != nil {
		s.Router.Handle("GET /journal", Chain(handlers.JournalHandler(s.Sources.Journal), requestIDMiddleware, paramsMiddleware))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Status server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to serve on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down status server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down status server: %w", err)
	}
	log.Info("Status server exited gracefully")
	return nil
}
