package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"parking_ops/internal/api/handler"
	"parking_ops/internal/api/middleware"
	"parking_ops/internal/service"
)

func SetupRouter(
	authService *service.AuthService,
	parkingService *service.ParkingService,
	authMw *middleware.AuthMiddleware,
	hub *handler.WebSocketHub,
	log *zap.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handler.NewAuthHandler(authService)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// The websocket endpoint carries no credentials: gate screens are
	// unattended displays and the stream is read-only state.
	wsHandler := handler.NewWebSocketHandler(hub, log)
	r.GET("/api/v1/ws", wsHandler.HandleWebSocket)

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		ticketH := handler.NewTicketHandler(parkingService)
		ticketRoutes := v1.Group("/tickets")
		{
			ticketRoutes.POST("/checkin", ticketH.CheckIn)
			ticketRoutes.POST("/checkout", ticketH.CheckOut)
			ticketRoutes.GET("/:id", ticketH.GetTicketByID)
		}

		masterH := handler.NewMasterHandler(parkingService)
		masterRoutes := v1.Group("/master")
		{
			masterRoutes.GET("/zones", masterH.GetZones)
			masterRoutes.GET("/gates", masterH.GetGates)
		}
		v1.GET("/subscriptions/:id", masterH.GetSubscriptionByID)

		adminH := handler.NewAdminHandler(parkingService)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(authMw.AuthorizeRole("admin"))
		{
			adminRoutes.PUT("/categories/:id", adminH.UpdateCategory)
			adminRoutes.PUT("/zones/:id/open", adminH.SetZoneOpen)
			adminRoutes.POST("/rush-windows", adminH.CreateRushWindow)
			adminRoutes.DELETE("/rush-windows/:id", adminH.DeleteRushWindow)
			adminRoutes.POST("/vacations", adminH.CreateVacation)
			adminRoutes.DELETE("/vacations/:id", adminH.DeleteVacation)
			adminRoutes.GET("/tickets", adminH.FindTickets)
		}
	}
	return r
}
