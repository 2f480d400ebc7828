package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"

	"github.com/simp-lee/transitdesk/internal/auth"
	"github.com/simp-lee/transitdesk/internal/config"
	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/docstore/firestoredoc"
	"github.com/simp-lee/transitdesk/internal/docstore/sqldoc"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/middleware"
	authmod "github.com/simp-lee/transitdesk/internal/module/auth"
	"github.com/simp-lee/transitdesk/internal/module/route"
	"github.com/simp-lee/transitdesk/internal/module/trip"
	"github.com/simp-lee/transitdesk/internal/module/user"
	"github.com/simp-lee/transitdesk/internal/module/vehicle"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	store  docstore.Client
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// openDocstore is swapped in tests.
var openDocstore = OpenDocstore

// OpenDocstore connects the document store selected by cfg.Docstore.
func OpenDocstore(ctx context.Context, cfg *config.Config, log *slog.Logger) (docstore.Client, error) {
	switch cfg.Docstore.Driver {
	case "firestore":
		s, err := firestoredoc.Open(ctx, firestoredoc.Config{
			ProjectID:       cfg.Docstore.Firestore.ProjectID,
			CredentialsFile: cfg.Docstore.Firestore.CredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("open firestore: %w", err)
		}
		log.Info("document store connected", slog.String("driver", "firestore"),
			slog.String("project", cfg.Docstore.Firestore.ProjectID))
		return s, nil
	case "sql", "":
		db, err := config.SetupDatabase(&cfg.Database, log)
		if err != nil {
			return nil, err
		}
		s, err := sqldoc.New(db)
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.Close()
			}
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported docstore driver %q", cfg.Docstore.Driver)
	}
}

// NewAuthService builds the sign-in service and the token service it issues
// sessions with.
func NewAuthService(ctx context.Context, cfg *config.Config, store docstore.Client, users domain.UserRepository) (authmod.Service, *auth.TokenService, error) {
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL())
	if err != nil {
		return nil, nil, fmt.Errorf("setup tokens: %w", err)
	}
	var opts []authmod.Option
	if cfg.Auth.Google.Enabled {
		google, err := auth.NewGoogleProvider(ctx, auth.GoogleConfig{
			ClientID:     cfg.Auth.Google.ClientID,
			ClientSecret: cfg.Auth.Google.ClientSecret,
			RedirectURL:  cfg.Auth.Google.RedirectURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("setup google sign-in: %w", err)
		}
		opts = append(opts, authmod.WithGoogle(google))
	}
	password := auth.NewPasswordProvider(store, auth.WithCost(cfg.Auth.BcryptCost))
	return authmod.NewService(password, tokens, users, opts...), tokens, nil
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the document store, auth providers, repositories,
// services, handlers, middleware and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	ctx := context.Background()

	// 2. Document store.
	store, err := openDocstore(ctx, cfg, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup docstore: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := store.Close(); err != nil {
			slog.Error("docstore close error", slog.Any("error", err))
		}
	}()

	// 3. Auth providers and dependency injection: repository → service → handler.
	userRepo := user.NewUserRepository(store)
	authSvc, tokens, err := NewAuthService(ctx, cfg, store, userRepo)
	if err != nil {
		return nil, err
	}
	routeRepo := route.NewRouteRepository(store)
	tripRepo := trip.NewTripRepository(store)
	vehicleRepo := vehicle.NewVehicleRepository(store)

	// 4. Create Gin engine with custom middleware (not gin.Default()).
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	middlewares := []gin.HandlerFunc{
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.Logger(log.Logger),
		middleware.CORSWithConfig(resolveCORSConfig(cfg)),
		middleware.Metrics(),
	}
	if timeout := effectiveTimeout(cfg.Server.Timeout); timeout > 0 {
		middlewares = append(middlewares, requestTimeout(timeout))
	}
	engine.Use(middlewares...)

	// 5. Register all routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Store:    store,
		Tokens:   tokens,
		Profiles: userRepo,
		Public:   []Module{authmod.NewModule(authmod.NewHandler(authSvc))},
		Agent: []Module{
			route.NewModule(route.NewRouteHandler(route.NewRouteService(routeRepo))),
			trip.NewModule(trip.NewTripHandler(trip.NewTripService(tripRepo))),
			vehicle.NewModule(vehicle.NewVehicleHandler(vehicle.NewVehicleService(vehicleRepo))),
		},
		Admin: []Module{user.NewModule(user.NewUserHandler(user.NewUserService(userRepo)))},
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		store:  store,
		logger: log,
		cfg:    cfg,
	}, nil
}

// Handler exposes the configured engine.
func (a *App) Handler() http.Handler {
	return a.engine
}

func resolveCORSConfig(cfg *config.Config) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowCredentials = cfg.Server.CORS.AllowCredentials
	if d, err := time.ParseDuration(cfg.Server.CORS.MaxAge); err == nil && d > 0 {
		corsConfig.MaxAge = d
	}

	if len(cfg.Server.CORS.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORS.AllowOrigins
		return corsConfig
	}

	// In release mode an empty allowlist denies cross-origin requests.
	if cfg.Server.Mode == gin.ReleaseMode {
		corsConfig.AllowOrigins = []string{}
	}

	return corsConfig
}

func effectiveTimeout(raw string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

// requestTimeout bounds the request context so that document store calls
// give up once the deadline passes.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout and closes the
// document store.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	// Listen for SIGINT / SIGTERM.
	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Error("docstore close error", slog.Any("error", err))
		} else {
			log.Info("docstore connection closed")
		}
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
