package nutrition

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/pkg/dbctx"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

type ProfileRepo interface {
	// GetByUserID returns nil, nil when the user has no profile row.
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.UserNutritionProfile, error)
	Upsert(dbc dbctx.Context, profile *domain.UserNutritionProfile) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*domain.UserNutritionProfile, error) {
	var out domain.UserNutritionProfile
	err := dbc.DB(r.db).Where("user_id = ?", userID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *profileRepo) Upsert(dbc dbctx.Context, profile *domain.UserNutritionProfile) error {
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(profile).Error
}
