// Package routes assembles the HTTP surface of the identity service.
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/config"
	"github.com/avanishkumar5035/jobsphere-identity/internal/transport/http/handlers"
	"github.com/avanishkumar5035/jobsphere-identity/internal/transport/http/middleware"
)

// Options bundles everything the router needs.
type Options struct {
	Logger *zap.Logger

	Auth      *handlers.AuthHandler
	Password  *handlers.PasswordHandler
	Mobile    *handlers.MobileHandler
	Profile   *handlers.ProfileHandler
	Admin     *handlers.AdminHandler
	Employers *handlers.EmployerHandler
	Health    *handlers.HealthHandler

	TokenResolver middleware.TokenResolver
	RateLimiter   *middleware.RateLimiter
	RateLimits    config.RateLimitSettings
	CORSOrigins   []string
	Metrics       *middleware.HTTPMetrics
}

// NewRouter builds the gin engine with the full middleware chain and every
// route mounted at the root.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.EnrichContext())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(opts.Logger))
	router.Use(middleware.CORS(opts.CORSOrigins))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Handler())
	}

	router.GET("/healthz", opts.Health.Healthz)
	router.GET("/readyz", opts.Health.Readyz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	loginLimit := rateLimitOrNil(opts, "login", opts.RateLimits.LoginMaxAttempts)
	forgotLimit := rateLimitOrNil(opts, "forgot_password", opts.RateLimits.ForgotPasswordMaxAttempts)

	router.POST("/register", opts.Auth.Register)
	router.POST("/login", withOptional(loginLimit, opts.Auth.Login)...)
	router.POST("/forgot-password", withOptional(forgotLimit, opts.Password.ForgotPassword)...)
	router.POST("/verify-otp", opts.Password.VerifyOTP)
	router.PUT("/reset-password", opts.Password.ResetPassword)

	router.GET("/employers", opts.Employers.ListEmployers)
	router.GET("/companies/:id", opts.Employers.GetCompany)

	authed := router.Group("/", middleware.RequireAuth(opts.TokenResolver))
	{
		authed.GET("/me", opts.Auth.Me)
		authed.PUT("/profile", opts.Profile.Update)
		authed.PUT("/update-password", opts.Password.UpdatePassword)
		authed.POST("/send-mobile-otp", opts.Mobile.SendOTP)
		authed.POST("/verify-mobile-otp", opts.Mobile.VerifyOTP)

		admin := authed.Group("/", middleware.RequireAdmin())
		{
			admin.GET("/users", opts.Admin.ListUsers)
			admin.DELETE("/users/:id", opts.Admin.DeleteUser)
		}
	}

	return router
}

func rateLimitOrNil(opts Options, name string, limit int) gin.HandlerFunc {
	if opts.RateLimiter == nil || limit <= 0 {
		return nil
	}

	window := opts.RateLimits.WindowDuration
	if window <= 0 {
		window = 15 * time.Minute
	}

	return opts.RateLimiter.RateLimit(middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	})
}

func withOptional(limiter gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	if limiter == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{limiter, handler}
}
