// Package server serves a live preview of the release guide. Every request
// recomputes the explorer view from the bundled catalog.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"game-pulse/catalog"
	"game-pulse/explorer"
	"game-pulse/site"
)

const maxQueryRunes = "200"

// APIError is the JSON body of every error response.
type APIError struct {
	Message   string    `json:"message"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// GamesResponse is the body of /api/games.
type GamesResponse struct {
	Criteria explorer.Criteria `json:"criteria"`
	Games    []catalog.Game    `json:"games"`
	Stats    explorer.Stats    `json:"stats"`
}

// Server renders pages and API responses for one catalog.
type Server struct {
	renderer *site.Renderer
	catalog  *catalog.Catalog
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a preview server.
func New(r *site.Renderer, c *catalog.Catalog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		renderer: r,
		catalog:  c,
		logger:   logger,
		now:      time.Now,
	}
}

// Handler returns the routed handler wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/games", s.handleGames)
	mux.HandleFunc("GET /"+site.FeedFile, s.handleFeed)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	})
	return s.logRequests(c.Handler(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe with an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Preview server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	<-errCh
	s.logger.Info("Preview server stopped")
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	page := s.renderer.NewPage(s.catalog, criteria, s.now())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, page); err != nil {
		s.logger.Error("Failed to render page", zap.Error(err))
		s.writeError(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := explorer.Explore(s.catalog.Games(), criteria)
	s.writeJSON(w, http.StatusOK, GamesResponse{
		Criteria: res.Criteria,
		Games:    res.Games,
		Stats:    res.Stats,
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, site.NewFeed(s.catalog, s.now()))
}

func criteriaFromQuery(q url.Values) (explorer.Criteria, error) {
	c := explorer.Criteria{
		Genre:   q.Get("genre"),
		Quarter: q.Get("quarter"),
		Query:   q.Get("q"),
	}
	if err := c.Validate(); err != nil {
		return explorer.Criteria{}, err
	}
	if !govalidator.RuneLength(c.Query, "0", maxQueryRunes) {
		return explorer.Criteria{}, fmt.Errorf("search query longer than %s characters", maxQueryRunes)
	}
	return c.Normalize(), nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to marshal response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	s.logger.Warn("Request failed", zap.Int("status", status), zap.String("message", message))
	s.writeJSON(w, status, APIError{
		Message:   message,
		Status:    status,
		Timestamp: s.now().UTC(),
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
