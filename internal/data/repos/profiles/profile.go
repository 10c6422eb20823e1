package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	errs "github.com/yungbote/fitrank-backend/internal/pkg/errors"
	"github.com/yungbote/fitrank-backend/internal/platform/logger"
	"github.com/yungbote/fitrank-backend/internal/types"
)

type ProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (pr *profileRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (pr *profileRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var row types.User
	if err := transaction.WithContext(ctx).
		Where("id = ?", userID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, errs.ErrNotFound)
		}
		return nil, err
	}
	return &row, nil
}

func (pr *profileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var rows []*types.User
	if len(userIDs) == 0 {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
