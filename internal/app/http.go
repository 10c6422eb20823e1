package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/fitrank-backend/internal/http"
	httpH "github.com/yungbote/fitrank-backend/internal/http/handlers"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Rating      *httpH.RatingHandler
	RatingEvent *httpH.RatingEventHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Rating:      httpH.NewRatingHandler(log, services.Rating),
		RatingEvent: httpH.NewRatingEventHandler(log, services.Events),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:                log,
		ServiceName:        cfg.Otel.ServiceName,
		HealthHandler:      handlers.Health,
		RatingHandler:      handlers.Rating,
		RatingEventHandler: handlers.RatingEvent,
	})
}
