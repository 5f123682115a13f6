package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/self-lens/api-go/controllers"
	"github.com/self-lens/api-go/middleware"
)

func SetupUserRoutes(v1 *gin.RouterGroup, authController *controllers.AuthController) {
	users := v1.Group("/users")
	{
		users.POST("/signup", authController.Signup)
		users.POST("/login", authController.Login)
		users.POST("/g-login", authController.GoogleLogin)
		users.POST("/refresh-token", authController.RefreshToken)
		users.POST("/logout", authController.Logout)
		users.GET("/profile", middleware.RequireAuth(), authController.GetProfile)
	}
}
