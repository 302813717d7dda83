package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/foodmood/foodmood/internal/foodmood"
	"github.com/foodmood/foodmood/internal/form"
	"github.com/foodmood/foodmood/internal/handler/health"
	"github.com/foodmood/foodmood/internal/kv"
	"github.com/foodmood/foodmood/internal/location"
	"github.com/foodmood/foodmood/internal/render"
	"github.com/foodmood/foodmood/internal/search"
)

// Searcher talks to the remote search service.
type Searcher interface {
	Fetch(ctx context.Context, query string) (search.Results, error)
	Register(ctx context.Context, idToken string) error
	SendFeedback(ctx context.Context, fb search.Feedback) error
}

// TokenVerifier turns a sign-in ID token into a verified identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (foodmood.Identity, error)
}

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Store      kv.Store
	Search     Searcher
	Dispatcher *search.Dispatcher
	Renderer   *render.Renderer
	Verifier   TokenVerifier
	GeoIP      *location.IPGeolocator
	Health     map[string]health.Checker

	Schema   form.Form
	Fallback foodmood.LatLng
	MapsKey  string
	ClientID string

	CookieSecure bool
	SessionTTL   time.Duration
	SearchRate   rate.Limit
	SearchBurst  int
}

type app struct {
	Deps
	logger *slog.Logger
	broker *Broker
}

func (a *app) tracker(st location.State) *location.Tracker {
	return location.NewTracker(st, a.broker, a.logger, location.WithFallback(a.Fallback))
}

type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

func New(addr string, logger *slog.Logger, deps Deps) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	addRoutes(r, &app{Deps: deps, logger: logger, broker: NewBroker()})

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
