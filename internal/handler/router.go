package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Leganyst/naconsulta/internal/errs"
	"github.com/Leganyst/naconsulta/internal/middleware"
	"github.com/Leganyst/naconsulta/internal/model"
)

var errRouteNotFound = errs.NotFound("Route not found")

// Deps is everything the HTTP API needs.
type Deps struct {
	Users        UserService
	Auth         AuthService
	Addresses    AddressService
	Appointments AppointmentService
	Tokens       middleware.TokenParser
	DB           Pinger
	Limiter      *middleware.RateLimiter
	Log          zerolog.Logger
	Env          string
	CORSOrigins  []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.ErrorHandler(),
		middleware.Recovery(),
		cors.New(corsConfig(d.CORSOrigins)),
		middleware.Authenticate(d.Tokens),
	)

	users := NewUserHandler(d.Users)
	authH := NewAuthHandler(d.Auth)
	addresses := NewAddressHandler(d.Addresses)
	appointments := NewAppointmentHandler(d.Appointments)
	health := NewHealthHandler(d.DB, d.Env)

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if d.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{middleware.RateLimit(d.Limiter), h}
	}

	r.GET("/health", health.Check)
	r.POST("/auth/login", limited(authH.Login)...)
	r.POST("/users", limited(users.Create)...)

	private := r.Group("", middleware.RequireAuth())
	{
		private.GET("/users", middleware.RequireRole(model.RoleAdmin), users.List)
		private.GET("/users/me", users.Me)
		private.GET("/users/:id", users.Get)
		private.PUT("/users/:id", users.Update)
		private.DELETE("/users/:id", middleware.RequireRole(model.RoleAdmin), users.Delete)

		private.GET("/addresses", addresses.Search)
		private.GET("/addresses/:id", addresses.Get)

		private.GET("/appointments/:id", appointments.Get)
		private.PUT("/appointments/:id", appointments.Update)
	}

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(errRouteNotFound)
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
