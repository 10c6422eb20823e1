package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/services"
)

type Services struct {
	Events services.RatingEventService
	Rating services.RatingService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) Services {
	log.Info("Wiring services...")

	eventService := services.NewRatingEventService(db, log, repos.Events)
	dist := services.NewDistributionBuilder(repos.Entries, log)

	// Without redis the recompute path runs unlocked; the rating row's
	// read-modify-write stays the serialization point.
	var lock services.RecomputeLock
	if cfg.RedisAddr != "" {
		l, err := services.NewRedisRecomputeLock(log, cfg.RedisAddr)
		if err != nil {
			log.Warn("Recompute lock unavailable, running unlocked", "error", err)
		} else {
			lock = l
		}
	}

	ratingService := services.NewRatingService(
		db,
		log,
		cfg.Rating,
		repos.Ratings,
		repos.Entries,
		repos.Profiles,
		eventService,
		dist,
		lock,
	)

	return Services{
		Events: eventService,
		Rating: ratingService,
	}
}
