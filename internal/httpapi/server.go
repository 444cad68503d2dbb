package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/flock"

	"samecast/internal/comparison"
	"samecast/internal/config"
	"samecast/internal/images"
	"samecast/internal/logging"
	"samecast/internal/metadata"
	"samecast/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Titles resolves and searches titles.
type Titles interface {
	GetDetails(ctx context.Context, id int64, mediaType metadata.MediaType) (*metadata.TitleDetails, error)
	Search(ctx context.Context, query string) ([]metadata.SearchResult, error)
}

// Comparer reports the people two titles share.
type Comparer interface {
	FindShared(ctx context.Context, idA int64, typeA metadata.MediaType, idB int64, typeB metadata.MediaType) (*comparison.Report, error)
}

// Records exposes suggestions and cache counts.
type Records interface {
	ListSuggestions(ctx context.Context, activeOnly bool) ([]*store.Suggestion, error)
	Stats(ctx context.Context) (store.Stats, error)
}

// ImageServer writes cached images.
type ImageServer interface {
	Serve(w http.ResponseWriter, r *http.Request, kind images.Kind, name string)
}

// Dependencies are the services the API fronts.
type Dependencies struct {
	Titles   Titles
	Comparer Comparer
	Records  Records
	Images   ImageServer
}

// Server is the samecast HTTP API.
type Server struct {
	bind     string
	lockPath string
	logger   *slog.Logger
	deps     Dependencies
	router   *chi.Mux
	server   *http.Server
}

// New wires routes and middleware. The listener is not opened until Run.
func New(cfg *config.Config, deps Dependencies, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("httpapi: config required")
	}
	if deps.Titles == nil || deps.Comparer == nil || deps.Records == nil || deps.Images == nil {
		return nil, errors.New("httpapi: all dependencies are required")
	}
	s := &Server{
		bind:     strings.TrimSpace(cfg.Server.Bind),
		lockPath: cfg.LockPath(),
		logger:   logging.NewComponentLogger(logger, "httpapi"),
		deps:     deps,
	}
	s.router = s.routes()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(accessLog(s.logger))
	r.Use(recovery(s.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/titles/{mediaType}/{id}", s.handleTitle)
		r.Get("/compare", s.handleCompare)
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/images/poster/{file}", s.handleImage(images.KindPoster))
	r.Get("/images/profile/{file}", s.handleImage(images.KindProfile))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, s.logger, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, s.logger, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run takes the single-instance lock, serves until ctx is cancelled, then
// shuts down gracefully and releases the lock.
func (s *Server) Run(ctx context.Context, ready func(addr string)) error {
	lock := flock.New(s.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another samecast server is running (lock %s)", s.lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release server lock", logging.Error(err))
		}
	}()

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()), logging.String("lock", s.lockPath))
	if ready != nil {
		ready(listener.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}
