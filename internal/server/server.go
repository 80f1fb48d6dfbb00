package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/medilearn/apiserver/config"
	"github.com/medilearn/apiserver/internal/content"
	"github.com/medilearn/apiserver/internal/handlers"
	"github.com/medilearn/apiserver/internal/logging"
	"github.com/medilearn/apiserver/internal/metrics"
	"github.com/medilearn/apiserver/internal/mq"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/storage"
)

// Services bundles everything the router exposes.
type Services struct {
	Users           *services.UserService
	Stats           *services.StatsService
	Recommendations *services.RecommendationService
	Flashcards      *services.FlashcardService
	Activity        *services.ActivityService
	Preferences     *services.PreferencesService
	Sessions        *handlers.SessionManager

	// Ready backs /readyz. Nil disables the route.
	Ready handlers.Pinger
}

// Server wraps the HTTP server, router and the connections it owns.
type Server struct {
	httpServer      *http.Server
	router          *chi.Mux
	repos           *Repositories
	storage         *storage.Storage
	mq              *mq.MQ
	shutdownTimeout time.Duration
}

// New connects every configured backend and constructs the Server.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	log := logging.With("server")

	catalog, err := content.LoadCatalog(cfg.Content.CatalogPath)
	if err != nil {
		return nil, err
	}
	videos, articles, err := content.NewProviders(ctx, cfg.Content)
	if err != nil {
		return nil, fmt.Errorf("content providers: %w", err)
	}
	if videos == nil {
		log.Warn().Msg("YOUTUBE_API_KEY not set, serving static videos only")
	}
	if articles == nil {
		log.Warn().Msg("NEWS_API_KEY not set, serving static articles only")
	}

	repos, err := OpenRepositories(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	srv := &Server{repos: repos, shutdownTimeout: cfg.Server.ShutdownTimeout}

	srv.storage, err = storage.Open(ctx, cfg.Storage)
	if err != nil {
		srv.close(ctx)
		return nil, fmt.Errorf("object storage: %w", err)
	}
	var deckStore services.DeckStore
	if srv.storage != nil {
		deckStore = srv.storage
	}

	srv.mq, err = mq.Open(ctx, cfg.MQ)
	if err != nil {
		srv.close(ctx)
		return nil, fmt.Errorf("message queue: %w", err)
	}
	var publisher services.Publisher
	if srv.mq != nil {
		publisher = srv.mq
	}

	svc := Services{
		Users:           services.NewUserService(repos.Users),
		Stats:           services.NewStatsService(repos.Users, repos.Activity, catalog),
		Recommendations: services.NewRecommendationService(catalog, videos, articles),
		Flashcards:      services.NewFlashcardService(deckStore, cfg.Storage.DeckKey, catalog),
		Activity:        services.NewActivityService(repos.Activity, publisher, cfg.MQ.ActivityChannel),
		Preferences:     services.NewPreferencesService(repos.Preferences),
		Sessions:        handlers.NewSessionManager(cfg.Session),
		Ready:           repos,
	}

	router, err := NewRouter(cfg, svc)
	if err != nil {
		srv.close(ctx)
		return nil, err
	}
	srv.router = router

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	srv.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, nil
}

// NewRouter builds the HTTP routes over svc.
func NewRouter(cfg config.Config, svc Services) (*chi.Mux, error) {
	pages, err := handlers.PagesHandler(cfg.Server.FrontendURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.Middleware,
		metrics.Middleware,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins(cfg.Server),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	router.Get("/healthz", handlers.Healthz)
	if svc.Ready != nil {
		router.Get("/readyz", handlers.Readyz(svc.Ready))
	}
	router.Handle("/metrics", metrics.Handler())

	var loginLimit func(http.Handler) http.Handler
	if cfg.Server.LoginRateLimit > 0 {
		window := cfg.Server.LoginRateWindow
		if window <= 0 {
			window = time.Minute
		}
		loginLimit = httprate.Limit(
			cfg.Server.LoginRateLimit,
			window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many login attempts"}`))
			}),
		)
	}

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, svc.Users, svc.Sessions, loginLimit)
		})
		r.Route("/user", func(r chi.Router) {
			handlers.StatsRouter(r, svc.Stats, svc.Sessions)
		})
		r.Route("/recommendations", func(r chi.Router) {
			handlers.RecommendationRouter(r, svc.Recommendations)
		})
		r.Route("/flashcards", func(r chi.Router) {
			handlers.FlashcardRouter(r, svc.Flashcards)
		})
		r.Route("/activity", func(r chi.Router) {
			handlers.ActivityRouter(r, svc.Activity, svc.Sessions)
		})
		r.Route("/personalized", func(r chi.Router) {
			handlers.PreferencesRouter(r, svc.Preferences, svc.Sessions)
		})
	})

	gate := handlers.NewPageGate(svc.Sessions)
	router.With(gate.Middleware).Handle("/*", pages)

	return router, nil
}

func allowedOrigins(cfg config.ServerConfig) []string {
	origins := append([]string{}, cfg.CORSOrigins...)
	if cfg.FrontendURL != "" {
		origins = append(origins, cfg.FrontendURL)
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	log := logging.With("server")
	log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.close(ctx)
	return err
}

func (s *Server) close(ctx context.Context) {
	log := logging.With("server")
	if s.mq != nil {
		if err := s.mq.Close(); err != nil {
			log.Warn().Err(err).Msg("closing message queue")
		}
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			log.Warn().Err(err).Msg("closing object storage")
		}
	}
	if s.repos != nil {
		if err := s.repos.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("closing database")
		}
	}
}
