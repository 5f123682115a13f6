package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/self-lens/api-go/controllers"
	"github.com/self-lens/api-go/middleware"
)

func SetupImageRoutes(v1 *gin.RouterGroup, imageController *controllers.ImageController) {
	images := v1.Group("/images")
	{
		// Public with optional identity: signed-in viewers get is_liked.
		images.GET("", middleware.OptionalAuth(), imageController.GetImages)

		images.POST("/image-upload", middleware.RequireAuth(), imageController.Upload)
		images.POST("/:id/likeUnlike", middleware.RequireAuth(), imageController.LikeUnlike)
	}
}
