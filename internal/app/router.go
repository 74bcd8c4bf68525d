package app

import (
	activityHandler "dashflow-service/internal/handlers/activity"
	authHandler "dashflow-service/internal/handlers/auth"
	clientHandler "dashflow-service/internal/handlers/client"
	memberHandler "dashflow-service/internal/handlers/member"
	orderHandler "dashflow-service/internal/handlers/order"
	productHandler "dashflow-service/internal/handlers/product"
	reportHandler "dashflow-service/internal/handlers/report"
	wsHandler "dashflow-service/internal/handlers/websocket"
	"dashflow-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler     *authHandler.AuthHandler
	ClientHandler   *clientHandler.ClientHandler
	ProductHandler  *productHandler.ProductHandler
	OrderHandler    *orderHandler.OrderHandler
	MemberHandler   *memberHandler.MemberHandler
	ActivityHandler *activityHandler.ActivityHandler
	ReportHandler   *reportHandler.ReportHandler
	WSHandler       *wsHandler.WebSocketHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
		authPublic.GET("/session", h.AuthHandler.GetSession)
		authPublic.GET("/resolve-username/:username", h.AuthHandler.ResolveUsername)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Clients ====================
	clients := api.Group("/clients")
	clients.Use(h.AuthMiddleware.Auth())
	{
		clients.GET("", h.ClientHandler.ListClients)
		clients.GET("/:id", h.ClientHandler.GetClient)
		clients.POST("", h.ClientHandler.CreateClient)
		clients.PUT("/:id", h.ClientHandler.UpdateClient)
		clients.DELETE("/:id", h.ClientHandler.DeleteClient)
	}

	// ==================== Products ====================
	products := api.Group("/products")
	products.Use(h.AuthMiddleware.Auth())
	{
		products.GET("", h.ProductHandler.ListProducts)
		products.GET("/:id", h.ProductHandler.GetProduct)
		products.POST("", h.ProductHandler.CreateProduct)
		products.PUT("/:id", h.ProductHandler.UpdateProduct)
		products.DELETE("/:id", h.ProductHandler.DeleteProduct)
	}

	// ==================== Orders ====================
	orders := api.Group("/orders")
	orders.Use(h.AuthMiddleware.Auth())
	{
		orders.GET("", h.OrderHandler.ListOrders)
		orders.GET("/:id", h.OrderHandler.GetOrder)
		orders.POST("", h.OrderHandler.CreateOrder)
		orders.DELETE("/:id", h.OrderHandler.DeleteOrder)
	}

	// ==================== Team Members ====================
	members := api.Group("/members")
	members.Use(h.AuthMiddleware.Auth())
	{
		members.GET("", h.MemberHandler.ListMembers)
		members.GET("/:id", h.MemberHandler.GetMember)
		members.POST("", h.MemberHandler.CreateMember)
		members.PUT("/:id", h.MemberHandler.UpdateMember)
		members.DELETE("/:id", h.MemberHandler.DeleteMember)
	}

	// ==================== Activity ====================
	activity := api.Group("/activity")
	activity.Use(h.AuthMiddleware.Auth())
	{
		activity.GET("", h.ActivityHandler.ListActivity)
	}

	// ==================== Reports ====================
	reports := api.Group("/reports")
	reports.Use(h.AuthMiddleware.Auth())
	{
		reports.GET("", h.ReportHandler.GetReport)
	}
}
