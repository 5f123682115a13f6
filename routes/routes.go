package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/self-lens/api-go/config"
	"github.com/self-lens/api-go/controllers"
	"github.com/self-lens/api-go/middleware"
	"github.com/self-lens/api-go/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, googleConfig *config.GoogleConfig, storage config.FileStorage, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.Default())

	store := repository.NewMediaStore(db)
	authController := controllers.NewAuthController(db, googleConfig, logger)
	imageController := controllers.NewImageController(store, storage, logger)

	// Uploaded files are served straight from disk when local storage
	// is active; with object storage the file URLs point elsewhere.
	if local, ok := storage.(*config.LocalStorage); ok {
		r.Static(local.PublicPath, local.BaseDir)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Self Lens API",
			"version":   "1.0.0",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	v1 := r.Group("/api/v1")
	SetupUserRoutes(v1, authController)
	SetupImageRoutes(v1, imageController)

	return r
}
