package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/identity-system/internal/api/handler"
	"github.com/userhub/identity-system/internal/api/middleware"
	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
	"github.com/userhub/identity-system/internal/core/service"
	"github.com/userhub/identity-system/internal/infrastructure/config"
	mongodb "github.com/userhub/identity-system/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/identity-system/internal/infrastructure/db/redis"
	healthhandlers "github.com/userhub/identity-system/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Every guarded route declares its access requirement here, next to the
// registration; nothing is inferred at request time.
func NewRouter(db *mongo.Database, rdb *redis.Client, mailer ports.Mailer, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	permRepo := mongodb.NewPermissionRepository(db)

	permCache := service.NewPermissionCache()
	tokenService := service.NewTokenService(cfg.JWTSecret, 0)
	roleService := service.NewRoleService(roleRepo, permRepo, permCache, log)
	permService := service.NewPermissionService(permRepo, permCache, log)
	userService := service.NewUserService(userRepo, log)
	authService := service.NewAuthService(
		userRepo,
		roleService,
		tokenService,
		mailer,
		redisdb.NewLoginLimiter(rdb),
		log,
	)

	gate := middleware.NewGate(tokenService, authService, roleService)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	permHandler := handler.NewPermissionHandler(permService)

	// --- Auth routes (unguarded) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/auth/reset-password", authHandler.ResetPassword)
	e.POST("/auth/verify-email", authHandler.VerifyEmail)

	// --- User routes ---
	e.GET("/users/me", userHandler.Me, gate.Roles(domain.RoleAdmin, domain.RoleUser))
	e.GET("/users/:id", userHandler.GetProfile, gate.Roles(domain.RoleAdmin, domain.RoleUser))
	e.PUT("/users/:id", userHandler.UpdateUser, gate.Roles(domain.RoleAdmin, domain.RoleUser))
	// Deletion demands the admin role and the fine-grained capability.
	e.DELETE("/users/:id", userHandler.DeleteUser, gate.Require(domain.AccessRequirement{
		Roles:      []string{domain.RoleAdmin},
		Permission: "user:delete",
	}))
	e.GET("/users", userHandler.ListUsers, gate.Roles(domain.RoleAdmin))

	// --- Role routes (admin only) ---
	adminOnly := gate.Roles(domain.RoleAdmin)
	e.GET("/roles", roleHandler.ListRoles, adminOnly)
	e.POST("/roles", roleHandler.CreateRole, adminOnly)
	e.GET("/roles/:id", roleHandler.GetRole, adminOnly)
	e.PUT("/roles/:id", roleHandler.UpdateRole, adminOnly)
	e.DELETE("/roles/:id", roleHandler.DeleteRole, adminOnly)

	// --- Permission routes (admin only) ---
	e.GET("/permissions", permHandler.ListPermissions, adminOnly)
	e.POST("/permissions", permHandler.CreatePermission, adminOnly)
	e.GET("/permissions/:id", permHandler.GetPermission, adminOnly)
	e.PUT("/permissions/:id", permHandler.UpdatePermission, adminOnly)
	e.DELETE("/permissions/:id", permHandler.DeletePermission, adminOnly)

	// --- Ops endpoints (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
