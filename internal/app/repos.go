package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/fitrank-backend/internal/data/repos/entries"
	"github.com/yungbote/fitrank-backend/internal/data/repos/events"
	"github.com/yungbote/fitrank-backend/internal/data/repos/profiles"
	"github.com/yungbote/fitrank-backend/internal/data/repos/ratings"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
)

type Repos struct {
	Ratings  ratings.RatingRepo
	Entries  entries.EntryRepo
	Profiles profiles.ProfileRepo
	Events   events.EventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Ratings:  ratings.NewRatingRepo(db, log),
		Entries:  entries.NewEntryRepo(db, log),
		Profiles: profiles.NewProfileRepo(db, log),
		Events:   events.NewEventRepo(db, log),
	}
}
