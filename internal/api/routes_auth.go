package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/handlers"
)

type authRouteDeps struct {
	AuthHandler *handlers.AuthHandler
	RequireAuth gin.HandlerFunc
	RateLimited gin.HandlerFunc
}

func registerAuthRoutes(api *gin.RouterGroup, deps authRouteDeps) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.RateLimited, deps.AuthHandler.Register)
		auth.POST("/verify-email", deps.AuthHandler.VerifyEmail)
		auth.POST("/resend-verification", deps.RateLimited, deps.AuthHandler.ResendVerification)
		auth.POST("/forgot-password", deps.RateLimited, deps.AuthHandler.ForgotPassword)
		auth.POST("/reset-password", deps.AuthHandler.ResetPassword)
		auth.POST("/login", deps.RateLimited, deps.AuthHandler.Login)
		auth.POST("/refresh", deps.AuthHandler.Refresh)

		auth.POST("/logout", deps.RequireAuth, deps.AuthHandler.Logout)
		auth.GET("/me", deps.RequireAuth, deps.AuthHandler.Me)
	}
}
