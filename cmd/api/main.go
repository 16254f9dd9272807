package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrm-api/internal/config"
	"github.com/cmlabs-hris/hrm-api/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hrm-api/internal/handler/http"
	"github.com/cmlabs-hris/hrm-api/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/metrics"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/storage"
	"github.com/cmlabs-hris/hrm-api/internal/repository/document"
	serviceAuth "github.com/cmlabs-hris/hrm-api/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hrm-api/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hrm-api/internal/service/employee"
	"github.com/cmlabs-hris/hrm-api/internal/service/file"
	"github.com/cmlabs-hris/hrm-api/internal/service/master"
	projectService "github.com/cmlabs-hris/hrm-api/internal/service/project"
	userService "github.com/cmlabs-hris/hrm-api/internal/service/user"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})))
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persister, closeDB, err := openPersister(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open document store: ", err)
	}
	defer closeDB()

	store, err := document.NewStore(ctx, persister)
	if err != nil {
		log.Fatal("Failed to load document: ", err)
	}

	userRepo := document.NewUserRepository(store)
	employeeRepo := document.NewEmployeeRepository(store)
	projectRepo := document.NewProjectRepository(store)
	positionRepo := document.NewPositionRepository(store)
	dashboardRepo := document.NewDashboardRepository(store)

	var fileStorage *storage.LocalStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	fileService := file.NewFileService(fileStorage)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(store, employeeRepo, projectRepo, positionRepo, fileService)
	projectSvc := projectService.NewProjectService(store, projectRepo, employeeRepo)
	dashboardSvc := dashboardService.NewDashboardService(store, dashboardRepo)
	masterService := master.NewMasterService(positionRepo)
	userSvc := userService.NewUserService(userRepo)

	seeder := fixtures.NewSeeder(store, userRepo, positionRepo)
	if err := seeder.Seed(ctx, fixtures.Admin{Email: cfg.Bootstrap.AdminEmail, Password: cfg.Bootstrap.AdminPassword}); err != nil {
		log.Fatal("Failed to seed defaults: ", err)
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
		UploadDir:      fileStorage.BasePath(),
		JWTService:     JWTService,
		Resolver:       authService,
		LoginLimiter:   middleware.NewRateLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst, cfg.RateLimit.TrustProxy),
		Auth:           appHTTP.NewAuthHandler(JWTService, authService),
		Dashboard:      appHTTP.NewDashboardHandler(dashboardSvc),
		User:           appHTTP.NewUserHandler(userSvc),
		Employee:       appHTTP.NewEmployeeHandler(employeeSvc),
		Project:        appHTTP.NewProjectHandler(projectSvc),
		Master:         appHTTP.NewMasterHandler(masterService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// openPersister builds the persister for the configured driver. The returned
// func releases any database handle it opened.
func openPersister(ctx context.Context, cfg *config.Config) (document.Persister, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return document.NewMemoryPersister(), noop, nil
	case config.StoreDriverFile:
		p, err := document.NewFilePersister(cfg.Store.Path)
		return p, noop, err
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		p, err := document.NewPostgresPersister(ctx, db, cfg.Store.DocumentName)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return p, db.Close, nil
	case config.StoreDriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.Store.Path)
		if err != nil {
			return nil, noop, err
		}
		p, err := document.NewSQLitePersister(ctx, db, cfg.Store.DocumentName)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return p, func() { db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
