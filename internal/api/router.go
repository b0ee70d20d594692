package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rudrodip/whatyouwant/internal/api/handler"
	"github.com/rudrodip/whatyouwant/internal/api/middleware"
	"github.com/rudrodip/whatyouwant/internal/logger"
	"github.com/rudrodip/whatyouwant/internal/storage"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	Memes        handler.MemeGenerator
	Stats        handler.StatsReader
	Assets       storage.AssetStore
	DefaultImage string
	CORS         middleware.CORSConfig
	Mode         string
	Log          *logger.Logger
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(cfg *RouterConfig) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(cfg.Log))
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler()
	memeHandler := handler.NewMemeHandler(cfg.Memes, cfg.Assets, cfg.DefaultImage)
	statsHandler := handler.NewStatsHandler(cfg.Stats)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/generate", memeHandler.Generate)
		v1.GET("/og", memeHandler.Og)
		v1.GET("/card", memeHandler.Card)
		v1.GET("/stats", statsHandler.Stats)
	}

	return r
}
