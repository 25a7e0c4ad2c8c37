package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tuntun/internal/handlers"
	"tuntun/internal/metrics"
	"tuntun/internal/middleware"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Pin       *handlers.PinHandler
	Clients   *handlers.ClientHandler
	Payments  *handlers.PaymentHandler
	Dashboard *handlers.DashboardHandler
	Statement *handlers.StatementHandler
	Live      *handlers.LiveHandler
}

type Guards struct {
	Session gin.HandlerFunc
	PinRate *middleware.RateLimiter
}

func SetupRoutes(r *gin.Engine, h Handlers, g Guards, log *zap.Logger) *gin.Engine {
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS())

	// ---- public
	r.GET("/healthz", h.Health.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	pin := r.Group("/pin")
	{
		pin.GET("/status", h.Pin.Status)
		pin.POST("/unlock", g.PinRate.Handler(), h.Pin.Unlock)
		pin.POST("", h.Pin.Create)
	}

	// ---- protected while a PIN is set
	api := r.Group("/", g.Session)

	pinChange := api.Group("/pin", g.PinRate.Handler())
	{
		pinChange.PUT("", h.Pin.Change)
		pinChange.DELETE("", h.Pin.Remove)
	}

	clients := api.Group("/clients")
	{
		clients.GET("", h.Clients.List)
		clients.POST("", h.Clients.Create)
		clients.GET("/:id", h.Clients.GetByID)
		clients.PUT("/:id", h.Clients.Update)
		clients.DELETE("/:id", h.Clients.Delete)

		clients.GET("/:id/payments", h.Payments.ListByClient)
		clients.POST("/:id/payments", h.Payments.Create)
		clients.PUT("/:id/payments/:pid", h.Payments.Update)
		clients.DELETE("/:id/payments/:pid", h.Payments.Delete)

		clients.GET("/:id/statement", h.Statement.Download)
		clients.POST("/:id/statement/email", h.Statement.Email)
	}

	payments := api.Group("/payments")
	{
		payments.GET("", h.Payments.ListAll)
		payments.GET("/total", h.Payments.Total)
	}

	api.GET("/dashboard", h.Dashboard.GetSummary)

	ws := api.Group("/ws")
	{
		ws.GET("/clients", h.Live.Clients)
		ws.GET("/clients/:id/payments", h.Live.ClientPayments)
		ws.GET("/payments", h.Live.Payments)
	}

	return r
}
