package api

import (
	"database/sql"
	stdhttp "net/http"

	intconfig "backend/internal/config"
	h "backend/internal/http/handlers"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires repositories, services and handlers around the given DB
// handle. Nothing in the request path reaches for package-level state.
func NewRouter(env intconfig.Env, db *sql.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     env.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	_ = r.SetTrustedProxies(nil)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := services.AuthService{
		Users:    repositories.UserRepo{DB: db},
		Secret:   []byte(env.JWTSecret),
		TokenTTL: env.TokenTTL,
	}

	authHandler := h.AuthHandler{Auth: auth}
	busHandler := h.BusHandler{Buses: repositories.BusRepo{DB: db}}
	bookingHandler := h.BookingHandler{Store: repositories.BookingRepo{DB: db}}
	systemHandler := h.SystemHandler{DB: db}

	r.GET("/health", systemHandler.Health)
	r.GET("/db-check", systemHandler.DBCheck)

	r.GET("/buses", busHandler.List)
	r.POST("/buses", busHandler.Create)
	r.GET("/buses/:id", busHandler.Get)
	r.PUT("/buses/:id", busHandler.Update)
	r.PATCH("/buses/:id", busHandler.Patch)
	r.DELETE("/buses/:id", busHandler.Delete)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	authed := r.Group("/", middleware.RequireAuth(auth))
	{
		authed.POST("/booking", bookingHandler.Create)
		authed.GET("/booking/:id/ticket", bookingHandler.ETicket)
		authed.GET("/user/:user_id/bookings", bookingHandler.ListForUser)
	}

	return r
}
