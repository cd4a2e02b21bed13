package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"kyc-desk.backend/internal/interfaces/http/handlers"
	"kyc-desk.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	kycHandler     *handlers.KYCHandler
	userHandler    *handlers.UserHandler
	authMiddleware gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Session-ID"},
		AllowCredentials: true,
	}))
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "kyc-desk-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (register, login and refresh are public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
		}

		// KYC routes (protected)
		kyc := v1.Group("/kyc")
		kyc.Use(d.authMiddleware)
		{
			kyc.POST("", d.kycHandler.Create)
			kyc.GET("/me", d.kycHandler.FindOwn)
			kyc.GET("/pending", middleware.RequireOfficer(), d.kycHandler.FindPending)
			kyc.GET("/reviewed", middleware.RequireOfficer(), d.kycHandler.FindReviewed)
			kyc.GET("/:id", d.kycHandler.FindOne)
			kyc.PATCH("/:id", d.kycHandler.Update)
			kyc.PATCH("/:id/approve", middleware.RequireOfficer(), d.kycHandler.Approve)
			kyc.PATCH("/:id/reject", middleware.RequireOfficer(), d.kycHandler.Reject)
		}

		// User routes (signup is public, the rest authenticated)
		users := v1.Group("/users")
		{
			users.POST("", d.userHandler.Create)
			users.GET("", d.authMiddleware, middleware.RequireOfficer(), d.userHandler.FindAll)
			users.GET("/me", d.authMiddleware, d.userHandler.FindMe)
			users.GET("/:id", d.authMiddleware, middleware.RequireOfficer(), d.userHandler.FindOne)
			users.GET("/:id/profile", d.authMiddleware, d.userHandler.FindProfile)
			users.PATCH("/:id/profile", d.authMiddleware, d.userHandler.UpdateProfile)
		}
	}
}
