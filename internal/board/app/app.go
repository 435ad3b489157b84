package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tabberone/corkboard/internal/board/authn"
	boardhttp "github.com/tabberone/corkboard/internal/board/http"
	"github.com/tabberone/corkboard/internal/board/service"
	"github.com/tabberone/corkboard/internal/board/store"
	"github.com/tabberone/corkboard/internal/board/store/drivers/sqlite"
	"github.com/tabberone/corkboard/internal/board/tokenstore"
	"github.com/tabberone/corkboard/pkg/cryptox"
	"github.com/tabberone/corkboard/pkg/jwtx"
	"github.com/tabberone/corkboard/pkg/slogx"

	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the board service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens tokenstore.Store
	redis  *redis.Client // nil when the in-memory store backs tokens
	codec  *jwtx.Codec

	authService *service.AuthService
	postService *service.PostService
	userService *service.UserService

	server *http.Server
	router *boardhttp.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "corkboard",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	key, err := loadOrCreateSigningKey(cfg.SigningKeyFile, app.logger)
	if err != nil {
		return nil, err
	}
	codec, err := jwtx.NewCodec(jwtx.Config{
		Key:        key,
		Issuer:     cfg.Issuer,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	app.initTokenStore()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("board service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down board service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("board service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initTokenStore picks the refresh token store backend. Redis when an
// address is configured, otherwise the in-memory store, which is fine for
// a single process but forgets sessions on restart.
func (app *Application) initTokenStore() {
	if app.cfg.RedisAddr == "" {
		app.tokens = tokenstore.NewMemoryStore()
		app.logger.Info("token store: in-memory")
		return
	}

	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})
	app.tokens = tokenstore.NewRedisStore(app.redis)
	app.logger.Info("token store: redis", "addr", app.cfg.RedisAddr)
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Codec:  app.codec,
		Store:  app.db,
		Tokens: app.tokens,
	}
	app.postService = &service.PostService{Store: app.db}
	app.userService = &service.UserService{Store: app.db, Tokens: app.tokens}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	pipeline := authn.NewPipeline(app.codec, app.tokens, app.authService)

	router := boardhttp.NewRouter(
		app.logger,
		app.db,
		pipeline,
		boardhttp.DefaultPolicy(),
		BuildVersion,
	)

	router.AuthService = app.authService
	router.PostService = app.postService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
