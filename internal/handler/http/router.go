package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hrm-api/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrm-api/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the pieces NewRouter wires together.
type RouterConfig struct {
	Env            string
	AllowedOrigins []string
	UploadDir      string

	JWTService   jwt.Service
	Resolver     middleware.CallerResolver
	LoginLimiter *middleware.RateLimiter

	Auth      AuthHandler
	Dashboard DashboardHandler
	User      UserHandler
	Employee  EmployeeHandler
	Project   ProjectHandler
	Master    MasterHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env == "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrm-api"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))
	r.Use(metrics.Instrument)

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	// Public
	if cfg.LoginLimiter != nil {
		r.With(cfg.LoginLimiter.Handler).Post("/login", cfg.Auth.Login)
	} else {
		r.Post("/login", cfg.Auth.Login)
	}
	r.Post("/refresh-token", cfg.Auth.RefreshToken)

	// Requires authentication
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(cfg.Resolver))

		r.Get("/employees", cfg.Employee.ListEmployees)
		r.Get("/employees/{id}", cfg.Employee.GetEmployee)
		r.Get("/managers", cfg.Employee.ListManagers)
		r.Get("/positions", cfg.Master.ListPositions)
		r.Get("/projects", cfg.Project.ListProjects)

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly)

			r.Get("/dashboard", cfg.Dashboard.GetDashboard)
			r.Get("/users", cfg.User.ListUsers)

			r.Post("/employees", cfg.Employee.CreateEmployee)
			r.Put("/employees/{id}", cfg.Employee.UpdateEmployee)
			r.Delete("/employees/{id}", cfg.Employee.DeleteEmployee)
			r.Get("/employees/{id}/projects", cfg.Employee.GetEmployeeProjects)

			r.Post("/positions", cfg.Master.CreatePosition)

			r.Post("/projects", cfg.Project.CreateProject)
			r.Get("/projects/{id}", cfg.Project.GetProject)
			r.Put("/projects/{id}", cfg.Project.UpdateProject)
			r.Delete("/projects/{id}", cfg.Project.DeleteProject)
		})
	})
	return r
}
