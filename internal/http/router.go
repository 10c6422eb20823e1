package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/fitrank-backend/internal/http/handlers"
	httpMW "github.com/yungbote/fitrank-backend/internal/http/middleware"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string

	HealthHandler      *httpH.HealthHandler
	RatingHandler      *httpH.RatingHandler
	RatingEventHandler *httpH.RatingEventHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Recompute triggers
		if cfg.RatingHandler != nil {
			api.POST("/ratings/recompute", cfg.RatingHandler.RecomputeUserCategory)
			api.POST("/ratings/recompute/batch", cfg.RatingHandler.BatchRecompute)
			api.POST("/categories/:id/recompute", cfg.RatingHandler.RecomputeCategory)
			api.POST("/users/:id/overall/recompute", cfg.RatingHandler.RecomputeOverall)
		}

		// Rating event ledger
		if cfg.RatingEventHandler != nil {
			api.GET("/users/:id/rating-events", cfg.RatingEventHandler.ListUserEvents)
			api.GET("/users/:id/rating-stats", cfg.RatingEventHandler.UserStats)
			api.GET("/categories/:id/rating-events", cfg.RatingEventHandler.ListCategoryEvents)
			api.GET("/rating-events/recent", cfg.RatingEventHandler.Recent)
			api.GET("/rating-events/leaderboard", cfg.RatingEventHandler.Leaderboard)
			api.POST("/rating-events/cleanup", cfg.RatingEventHandler.Cleanup)
		}
	}

	return r
}
