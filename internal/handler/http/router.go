package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AJVG007/gestor-tareas/internal/auth"
	"github.com/AJVG007/gestor-tareas/internal/repository"
	"github.com/AJVG007/gestor-tareas/internal/service"
	apperrors "github.com/AJVG007/gestor-tareas/pkg/errors"
	"github.com/AJVG007/gestor-tareas/pkg/health"
	"github.com/AJVG007/gestor-tareas/pkg/middleware"
)

// RouterConfig bundles the dependencies of the HTTP surface.
type RouterConfig struct {
	UserService   *service.UserService
	TareaService  *service.TareaService
	UserRepo      repository.UserRepository
	JWTManager    *auth.JWTManager
	HealthHandler *health.Handler
	Logger        *slog.Logger
	Cookies       CookieConfig
	CORS          CORSConfig
}

// NewRouter creates a chi router with all routes registered. Authentication
// reads the access token from its cookie; requests without the cookie reach
// the handlers anonymously and are rejected there.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware. RequestLogging runs outside Recovery so a panic is
	// logged with the request's correlation ID.
	r.Use(CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("tareas"))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authMiddleware := middleware.Auth(
		middleware.CookieExtractor(cfg.Cookies.AccessName),
		identityResolver(cfg.JWTManager, cfg.UserRepo),
	)

	authHandler := NewAuthHandler(cfg.UserService, cfg.Cookies, cfg.Logger)
	userHandler := NewUserHandler(cfg.UserService, cfg.Logger)

	r.Route("/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authMiddleware)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/details", userHandler.Details)
		r.Put("/details", userHandler.UpdateProfile)
	})

	tareaHandler := NewTareaHandler(cfg.TareaService, cfg.Logger)

	r.Route("/tarea", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authMiddleware)

		r.Get("/list", tareaHandler.List)
		r.Post("/create", tareaHandler.Create)
		r.Get("/detail/{id}", tareaHandler.Detail)
		r.Patch("/update/{id}", tareaHandler.Update)
		r.Delete("/delete/{id}", tareaHandler.Delete)
		r.Get("/filter/completed", tareaHandler.FilterCompleted)
	})

	return r
}

// identityResolver validates an access token and resolves it to a live
// account. Tokens for deactivated or deleted accounts are rejected even
// before they expire.
func identityResolver(jwtManager *auth.JWTManager, userRepo repository.UserRepository) middleware.IdentityResolver {
	return func(ctx context.Context, token string) (*middleware.Identity, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, apperrors.Unauthorized("invalid or expired token")
		}

		user, err := userRepo.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, apperrors.Unauthorized("invalid or expired token")
		}
		if !user.IsActive {
			return nil, apperrors.Unauthorized("invalid or expired token")
		}

		return &middleware.Identity{
			UserID:   user.ID,
			Username: user.Username,
		}, nil
	}
}
