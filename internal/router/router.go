package router

import (
	"context"
	"net/http"
	"time"

	"github.com/SraaaamX/realestate-api/internal/handler"
	"github.com/SraaaamX/realestate-api/internal/middleware"
	"github.com/SraaaamX/realestate-api/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries everything the HTTP surface is assembled from
type Options struct {
	Tokens     *utils.TokenManager
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Properties *handler.PropertyHandler
	Inquiries  *handler.InquiryHandler

	// RateLimiter guards /api/auth when set
	RateLimiter *middleware.RateLimiter

	UploadDir          string
	CORSAllowedOrigins []string
	IsProduction       bool

	// HealthCheck reports whether dependencies are reachable
	HealthCheck func(ctx context.Context) error
}

func New(opts Options) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.SecurityHeadersMiddleware(),
		middleware.HSTSMiddleware(opts.IsProduction),
		cors.New(corsConfig(opts.CORSAllowedOrigins)),
	)

	r.GET("/healthz", healthz(opts.HealthCheck))
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	auth := middleware.AuthMiddleware(opts.Tokens)
	agent := middleware.AgentMiddleware()
	admin := middleware.AdminMiddleware()

	api := r.Group("/api")

	// Public auth routes
	authGroup := api.Group("/auth")
	if opts.RateLimiter != nil {
		authGroup.Use(opts.RateLimiter.Middleware())
	}
	{
		// An admin token lets registration assign a role
		authGroup.POST("/register", middleware.OptionalAuth(opts.Tokens), opts.Auth.Register)
		authGroup.POST("/login", opts.Auth.Login)
	}

	users := api.Group("/users", auth)
	{
		users.GET("", admin, opts.Users.List)
		users.GET("/:id", opts.Users.Get)
		users.PATCH("/:id", opts.Users.Update)
		users.DELETE("/:id", opts.Users.Delete)
	}

	properties := api.Group("/properties")
	{
		properties.GET("", opts.Properties.List)
		properties.GET("/search", opts.Properties.Search)
		properties.GET("/:id", opts.Properties.Get)

		properties.POST("", auth, agent, opts.Properties.Create)
		properties.PUT("/:id", auth, agent, opts.Properties.Update)
		properties.DELETE("/:id", auth, agent, opts.Properties.Delete)
		properties.PATCH("/:id/featured", auth, agent, opts.Properties.ToggleFeatured)
		properties.PATCH("/:id/status", auth, agent, opts.Properties.UpdateStatus)
	}

	inquiries := api.Group("/inquiries", auth)
	{
		inquiries.POST("", opts.Inquiries.Create)
		inquiries.GET("/user/:userId", opts.Inquiries.ListByUser)

		inquiries.GET("", agent, opts.Inquiries.List)
		inquiries.GET("/property/:propertyId", agent, opts.Inquiries.ListByProperty)
		inquiries.GET("/:id", agent, opts.Inquiries.Get)
		inquiries.PUT("/:id", agent, opts.Inquiries.Update)
		inquiries.DELETE("/:id", agent, opts.Inquiries.Delete)
		inquiries.PATCH("/:id/status", agent, opts.Inquiries.UpdateStatus)
		inquiries.PATCH("/:id/response", agent, opts.Inquiries.AddResponse)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}

func healthz(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
