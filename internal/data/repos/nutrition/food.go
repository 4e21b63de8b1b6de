package nutrition

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/pkg/dbctx"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

type CustomFoodRepo interface {
	Create(dbc dbctx.Context, foods []*domain.CustomFood) ([]*domain.CustomFood, error)
	GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*domain.CustomFood, error)
}

type customFoodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomFoodRepo(db *gorm.DB, baseLog *logger.Logger) CustomFoodRepo {
	return &customFoodRepo{db: db, log: baseLog.With("repo", "CustomFoodRepo")}
}

func (r *customFoodRepo) Create(dbc dbctx.Context, foods []*domain.CustomFood) ([]*domain.CustomFood, error) {
	if len(foods) == 0 {
		return []*domain.CustomFood{}, nil
	}
	if err := dbc.DB(r.db).Create(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

func (r *customFoodRepo) GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*domain.CustomFood, error) {
	var out domain.CustomFood
	if err := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

type CatalogRepo interface {
	CreateFood(dbc dbctx.Context, food *domain.CatalogFood, nutrients []*domain.CatalogNutrient) error
	GetFood(dbc dbctx.Context, id int64) (*domain.CatalogFood, error)
	ListNutrients(dbc dbctx.Context, foodID int64) ([]*domain.CatalogNutrient, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (r *catalogRepo) CreateFood(dbc dbctx.Context, food *domain.CatalogFood, nutrients []*domain.CatalogNutrient) error {
	return dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(food).Error; err != nil {
			return err
		}
		if len(nutrients) == 0 {
			return nil
		}
		for _, n := range nutrients {
			n.FoodID = food.ID
		}
		return tx.Create(&nutrients).Error
	})
}

func (r *catalogRepo) GetFood(dbc dbctx.Context, id int64) (*domain.CatalogFood, error) {
	var out domain.CatalogFood
	if err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *catalogRepo) ListNutrients(dbc dbctx.Context, foodID int64) ([]*domain.CatalogNutrient, error) {
	results := []*domain.CatalogNutrient{}
	if err := dbc.DB(r.db).
		Where("food_id = ?", foodID).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
