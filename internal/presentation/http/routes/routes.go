package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/optica-api/internal/config"
	domainRepo "github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/internal/presentation/http/handler"
	"github.com/sangkips/optica-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Draft       *handler.DraftHandler
	Search      *handler.SearchHandler
	Order       *handler.OrderHandler
	ContactLens *handler.ContactLensHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
	// Health reports whether the backing stores answer
	Health func(c *gin.Context) gin.H
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		}
		if deps.Health != nil {
			for k, v := range deps.Health(c) {
				body[k] = v
			}
		}
		c.JSON(200, body)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		idempotent := middleware.IdempotencyRequired(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

		registerDraftRoutes(v1, h, idempotent)
		registerSuggestionRoutes(v1, h, deps)
		registerOrderRoutes(v1, h)
		registerContactLensRoutes(v1, h, idempotent)
	}

	return router
}

func registerDraftRoutes(v1 *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	drafts := v1.Group("/drafts")
	{
		drafts.POST("", h.Draft.Create)
		drafts.GET("/:id", h.Draft.Get)
		drafts.DELETE("/:id", h.Draft.Delete)
		drafts.POST("/:id/reset", h.Draft.Reset)
		drafts.PATCH("/:id/fields", h.Draft.UpdateField)
		drafts.POST("/:id/items", h.Draft.AddItem)
		drafts.PATCH("/:id/items/:index", h.Draft.UpdateItem)
		drafts.DELETE("/:id/items/:index", h.Draft.RemoveItem)
		drafts.POST("/:id/discount", h.Draft.ApplyDiscount)
		drafts.POST("/:id/load", h.Draft.LoadSuggestion)
		drafts.POST("/:id/submit", idempotent, h.Draft.Submit)
	}
}

func registerSuggestionRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	suggestions := v1.Group("/suggestions")
	if deps.RateLimiter != nil {
		suggestions.Use(deps.RateLimiter.Middleware())
	}
	{
		suggestions.GET("", h.Search.Search)
		suggestions.GET("/live", h.Search.Live)
	}
}

func registerOrderRoutes(v1 *gin.RouterGroup, h *Handlers) {
	orders := v1.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
	}
}

func registerContactLensRoutes(v1 *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	contactLens := v1.Group("/contact-lens")
	{
		contactLens.POST("", idempotent, h.ContactLens.Save)
		contactLens.GET("/new", h.ContactLens.New)
		contactLens.GET("/search", h.ContactLens.Search)
		contactLens.GET("/:prescription_no", h.ContactLens.Get)
	}
}
